// Package files declares the file-record repository: folders, files and
// images arranged in a per-owner tree.
package files

import (
	"context"

	"github.com/dmitrijs2005/filekeeper/internal/server/models"
)

type Repository interface {
	// Create inserts rec and fills its ID and CreatedAt.
	Create(ctx context.Context, rec *models.FileRecord) (*models.FileRecord, error)
	GetByID(ctx context.Context, id string) (*models.FileRecord, error)
	GetByIDAndOwner(ctx context.Context, id, userID string) (*models.FileRecord, error)
	// ListChildren returns the owner's records directly under parent,
	// ordered by creation time.
	ListChildren(ctx context.Context, userID string, parent models.ParentID, limit, offset int) ([]*models.FileRecord, error)
	// SetVisibility updates is_public of an owned record and returns it.
	SetVisibility(ctx context.Context, id, userID string, isPublic bool) (*models.FileRecord, error)
	CountAll(ctx context.Context) (int64, error)
}
