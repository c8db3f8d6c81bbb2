package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnqueue(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+thumbnail_jobs\s*\(user_id,\s*file_id,\s*status\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3\)\s*RETURNING\s+id,\s*created_at\s*$`

	mock.ExpectQuery(q).
		WithArgs("u1", "f1", "pending").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("j1", time.Now()))
	mock.ExpectQuery(q).
		WithArgs("u1", "f2", "pending").
		WillReturnError(errors.New("db down"))

	repo := NewPostgresRepository(db)

	job, err := repo.Enqueue(context.Background(), "u1", "f1")
	require.NoError(t, err)
	assert.Equal(t, "j1", job.ID)
	assert.Equal(t, "pending", job.Status)
	assert.Equal(t, "f1", job.FileID)

	_, err = repo.Enqueue(context.Background(), "u1", "f2")
	assert.ErrorContains(t, err, "db error: db down")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountPending(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+count\(\*\)\s+FROM\s+thumbnail_jobs\s+WHERE\s+status\s*=\s*\$1`).
		WithArgs("pending").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(2)))

	n, err := NewPostgresRepository(db).CountPending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}
