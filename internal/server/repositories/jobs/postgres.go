package jobs

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/filekeeper/internal/dbx"
	"github.com/dmitrijs2005/filekeeper/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Enqueue(ctx context.Context, userID, fileID string) (*models.ThumbnailJob, error) {
	query := `
		INSERT INTO thumbnail_jobs (user_id, file_id, status)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	job := &models.ThumbnailJob{UserID: userID, FileID: fileID, Status: models.JobPending}
	if err := r.db.QueryRowContext(ctx, query, userID, fileID, models.JobPending).Scan(&job.ID, &job.CreatedAt); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return job, nil
}

func (r *PostgresRepository) CountPending(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM thumbnail_jobs WHERE status = $1`, models.JobPending).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
