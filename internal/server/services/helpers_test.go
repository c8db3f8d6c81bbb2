package services

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/filekeeper/internal/logging"
	"github.com/dmitrijs2005/filekeeper/internal/server/config"
	"github.com/dmitrijs2005/filekeeper/internal/server/repositories/memory"
	"github.com/dmitrijs2005/filekeeper/internal/server/storage"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// newTxDB returns a database used only to open transactions; the memory
// repositories ignore it.
func newTxDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

type recordingDispatcher struct {
	mu    sync.Mutex
	calls [][2]string
	err   error
}

func (r *recordingDispatcher) Notify(_ context.Context, userID, fileID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, [2]string{userID, fileID})
	return r.err
}

type failingBlobs struct {
	storage.BlobStore
	writeErr error
	readErr  error
	deleted  []string
}

func (f *failingBlobs) Write(context.Context, string, []byte) error { return f.writeErr }
func (f *failingBlobs) Read(context.Context, string) ([]byte, error) {
	return nil, f.readErr
}
func (f *failingBlobs) Delete(_ context.Context, ref string) error {
	f.deleted = append(f.deleted, ref)
	return nil
}

type env struct {
	db     *sql.DB
	rm     *memory.RepositoryManager
	blobs  *storage.LocalStore
	thumbs *recordingDispatcher
	users  *UserService
	files  *FileService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := newTxDB(t)
	rm := memory.NewRepositoryManager()
	blobs, err := storage.NewLocalStore(t.TempDir(), logging.Nop{})
	require.NoError(t, err)
	thumbs := &recordingDispatcher{}
	cfg := &config.Config{SessionTTL: 24 * time.Hour}

	return &env{
		db:     db,
		rm:     rm,
		blobs:  blobs,
		thumbs: thumbs,
		users:  NewUserService(db, rm, cfg, logging.Nop{}),
		files:  NewFileService(db, rm, blobs, thumbs, logging.Nop{}),
	}
}

func (e *env) register(t *testing.T, email string) string {
	t.Helper()
	u, err := e.users.Register(context.Background(), email, "pw-"+email)
	require.NoError(t, err)
	return u.ID
}
