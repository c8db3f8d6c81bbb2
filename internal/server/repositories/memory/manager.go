// Package memory holds map-backed repositories satisfying
// repomanager.RepositoryManager. Transactions are not honored: every DBTX
// argument is ignored and writes are visible immediately.
package memory

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/filekeeper/internal/common"
	"github.com/dmitrijs2005/filekeeper/internal/dbx"
	"github.com/dmitrijs2005/filekeeper/internal/server/models"
	"github.com/dmitrijs2005/filekeeper/internal/server/repositories/files"
	"github.com/dmitrijs2005/filekeeper/internal/server/repositories/jobs"
	"github.com/dmitrijs2005/filekeeper/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/filekeeper/internal/server/repositories/users"
	"github.com/google/uuid"
)

type RepositoryManager struct {
	store *store
}

func NewRepositoryManager() *RepositoryManager {
	return &RepositoryManager{store: &store{
		users:    map[string]*models.User{},
		sessions: map[string]*models.Session{},
		files:    map[string]*fileRow{},
		now:      time.Now,
	}}
}

// SetClock overrides the time source used for session expiry and creation stamps.
func (m *RepositoryManager) SetClock(now func() time.Time) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	m.store.now = now
}

// EnqueuedJobs returns every enqueued thumbnail job in insertion order.
func (m *RepositoryManager) EnqueuedJobs() []models.ThumbnailJob {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	return append([]models.ThumbnailJob(nil), m.store.jobs...)
}

func (m *RepositoryManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *RepositoryManager) Users(dbx.DBTX) users.Repository       { return (*userRepo)(m.store) }
func (m *RepositoryManager) Sessions(dbx.DBTX) sessions.Repository { return (*sessionRepo)(m.store) }
func (m *RepositoryManager) Files(dbx.DBTX) files.Repository       { return (*fileRepo)(m.store) }
func (m *RepositoryManager) Jobs(dbx.DBTX) jobs.Repository         { return (*jobRepo)(m.store) }

type fileRow struct {
	rec models.FileRecord
	seq int64
}

type store struct {
	mu       sync.Mutex
	users    map[string]*models.User
	sessions map[string]*models.Session
	files    map[string]*fileRow
	jobs     []models.ThumbnailJob
	seq      int64
	now      func() time.Time
}

type userRepo store

func (r *userRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return nil, common.ErrorAlreadyExists
		}
	}
	u.ID = uuid.NewString()
	u.CreatedAt = r.now()
	cp := *u
	r.users[u.ID] = &cp
	return u, nil
}

func (r *userRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *userRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *userRepo) CountAll(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

type sessionRepo store

func (r *sessionRepo) Create(_ context.Context, userID, token string, validity time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	r.sessions[token] = &models.Session{Token: token, UserID: userID, Expires: now.Add(validity), CreatedAt: now}
	return nil
}

func (r *sessionRepo) Find(_ context.Context, token string) (*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[token]
	if !ok || s.Expired(r.now()) {
		return nil, common.ErrorNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *sessionRepo) Delete(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, token)
	return nil
}

func (r *sessionRepo) DeleteExpired(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	now := r.now()
	for token, s := range r.sessions {
		if s.Expired(now) {
			delete(r.sessions, token)
			n++
		}
	}
	return n, nil
}

type fileRepo store

func (r *fileRepo) Create(_ context.Context, rec *models.FileRecord) (*models.FileRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	rec.ID = uuid.NewString()
	rec.CreatedAt = r.now()
	r.files[rec.ID] = &fileRow{rec: *rec, seq: r.seq}
	return rec, nil
}

func (r *fileRepo) GetByID(_ context.Context, id string) (*models.FileRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.files[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := row.rec
	return &cp, nil
}

func (r *fileRepo) GetByIDAndOwner(ctx context.Context, id, userID string) (*models.FileRecord, error) {
	rec, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.UserID != userID {
		return nil, common.ErrorNotFound
	}
	return rec, nil
}

func (r *fileRepo) ListChildren(_ context.Context, userID string, parent models.ParentID, limit, offset int) ([]*models.FileRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows := make([]*fileRow, 0)
	for _, row := range r.files {
		if row.rec.UserID == userID && row.rec.ParentID == parent {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })

	result := make([]*models.FileRecord, 0, limit)
	for i := offset; i < len(rows) && len(result) < limit; i++ {
		cp := rows[i].rec
		result = append(result, &cp)
	}
	return result, nil
}

func (r *fileRepo) SetVisibility(_ context.Context, id, userID string, isPublic bool) (*models.FileRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.files[id]
	if !ok || row.rec.UserID != userID {
		return nil, common.ErrorNotFound
	}
	row.rec.IsPublic = isPublic
	cp := row.rec
	return &cp, nil
}

func (r *fileRepo) CountAll(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.files)), nil
}

type jobRepo store

func (r *jobRepo) Enqueue(_ context.Context, userID, fileID string) (*models.ThumbnailJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job := models.ThumbnailJob{
		ID:        uuid.NewString(),
		UserID:    userID,
		FileID:    fileID,
		Status:    models.JobPending,
		CreatedAt: r.now(),
	}
	r.jobs = append(r.jobs, job)
	return &job, nil
}

func (r *jobRepo) CountPending(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, j := range r.jobs {
		if j.Status == models.JobPending {
			n++
		}
	}
	return n, nil
}
