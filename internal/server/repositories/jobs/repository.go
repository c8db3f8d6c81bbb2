// Package jobs stores thumbnail generation requests for the image worker.
package jobs

import (
	"context"

	"github.com/dmitrijs2005/filekeeper/internal/server/models"
)

type Repository interface {
	// Enqueue inserts a pending job for fileID and returns it.
	Enqueue(ctx context.Context, userID, fileID string) (*models.ThumbnailJob, error)
	CountPending(ctx context.Context) (int64, error)
}
