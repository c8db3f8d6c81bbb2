package files

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/filekeeper/internal/common"
	"github.com/dmitrijs2005/filekeeper/internal/dbx"
	"github.com/dmitrijs2005/filekeeper/internal/server/models"
)

const columns = `id, user_id, name, kind, is_public, parent_id, content_ref, created_at`

// PostgresRepository implements file storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (*models.FileRecord, error) {
	rec := &models.FileRecord{}
	var ref sql.NullString
	if err := s.Scan(&rec.ID, &rec.UserID, &rec.Name, &rec.Kind, &rec.IsPublic, &rec.ParentID, &ref, &rec.CreatedAt); err != nil {
		return nil, err
	}
	rec.ContentRef = ref.String
	return rec, nil
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, args ...any) (*models.FileRecord, error) {
	rec, err := scanRecord(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return rec, nil
}

// Create inserts a record. ContentRef is stored as NULL for folders.
func (r *PostgresRepository) Create(ctx context.Context, rec *models.FileRecord) (*models.FileRecord, error) {
	query := `
		INSERT INTO files (user_id, name, kind, is_public, parent_id, content_ref)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	ref := sql.NullString{String: rec.ContentRef, Valid: rec.ContentRef != ""}

	err := r.db.QueryRowContext(ctx, query,
		rec.UserID, rec.Name, rec.Kind, rec.IsPublic, rec.ParentID, ref).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return rec, nil
}

// GetByID returns a record regardless of its owner.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.FileRecord, error) {
	return r.getOne(ctx, `SELECT `+columns+` FROM files WHERE id = $1`, id)
}

// GetByIDAndOwner returns common.ErrorNotFound when the record belongs to
// someone else.
func (r *PostgresRepository) GetByIDAndOwner(ctx context.Context, id, userID string) (*models.FileRecord, error) {
	return r.getOne(ctx, `SELECT `+columns+` FROM files WHERE id = $1 AND user_id = $2`, id, userID)
}

func (r *PostgresRepository) ListChildren(ctx context.Context, userID string, parent models.ParentID, limit, offset int) ([]*models.FileRecord, error) {
	query := `SELECT ` + columns + ` FROM files
		WHERE user_id = $1 AND parent_id IS NOT DISTINCT FROM $2
		ORDER BY created_at, id
		LIMIT $3 OFFSET $4
		`
	rows, err := r.db.QueryContext(ctx, query, userID, parent, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to select files: %w", err)
	}
	defer rows.Close()

	result := make([]*models.FileRecord, 0, limit)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) SetVisibility(ctx context.Context, id, userID string, isPublic bool) (*models.FileRecord, error) {
	query := `UPDATE files SET is_public = $3
		WHERE id = $1 AND user_id = $2
		RETURNING ` + columns
	return r.getOne(ctx, query, id, userID, isPublic)
}

func (r *PostgresRepository) CountAll(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM files`).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
