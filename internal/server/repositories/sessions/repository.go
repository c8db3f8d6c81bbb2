// Package sessions declares the server-side store of login sessions.
package sessions

import (
	"context"
	"time"

	"github.com/dmitrijs2005/filekeeper/internal/server/models"
)

// Repository issues, resolves and revokes session tokens.
type Repository interface {
	// Create stores token for userID with an expiry of now+validity.
	Create(ctx context.Context, userID string, token string, validity time.Duration) error

	// Find returns the live session for token. Unknown and expired tokens
	// both yield common.ErrorNotFound.
	Find(ctx context.Context, token string) (*models.Session, error)

	// Delete removes a session. Deleting an unknown token is not an error.
	Delete(ctx context.Context, token string) error

	// DeleteExpired purges every expired session and reports how many were removed.
	DeleteExpired(ctx context.Context) (int64, error)
}
