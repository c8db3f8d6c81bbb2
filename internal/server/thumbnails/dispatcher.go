// Package thumbnails hands freshly uploaded images to the thumbnail worker.
package thumbnails

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/dmitrijs2005/filekeeper/internal/logging"
	"github.com/dmitrijs2005/filekeeper/internal/server/repositories/repomanager"
)

// Dispatcher requests thumbnail generation for an image.
type Dispatcher interface {
	Notify(ctx context.Context, userID, fileID string) error
}

// QueueDispatcher records a pending job in the thumbnail_jobs table, which
// the worker polls. Delivery is at least once.
type QueueDispatcher struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewQueueDispatcher(db *sql.DB, repomanager repomanager.RepositoryManager) *QueueDispatcher {
	return &QueueDispatcher{db: db, repomanager: repomanager}
}

func (d *QueueDispatcher) Notify(ctx context.Context, userID, fileID string) error {
	_, err := d.repomanager.Jobs(d.db).Enqueue(ctx, userID, fileID)
	return err
}

// AsyncDispatcher makes Notify return immediately. Delivery to the wrapped
// dispatcher happens in the background on a context detached from the
// caller's, bounded by timeout. Failures are logged and dropped.
type AsyncDispatcher struct {
	next    Dispatcher
	timeout time.Duration
	logger  logging.Logger

	mu      sync.Mutex
	stopped bool
	wg      sync.WaitGroup
}

func NewAsyncDispatcher(next Dispatcher, timeout time.Duration, logger logging.Logger) *AsyncDispatcher {
	return &AsyncDispatcher{
		next:    next,
		timeout: timeout,
		logger:  logger.With("module", "thumbnails"),
	}
}

func (d *AsyncDispatcher) Notify(ctx context.Context, userID, fileID string) error {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		// nobody waits for background work any more
		d.deliver(ctx, userID, fileID)
		return nil
	}
	d.wg.Add(1)
	d.mu.Unlock()

	go func() {
		defer d.wg.Done()
		d.deliver(ctx, userID, fileID)
	}()
	return nil
}

func (d *AsyncDispatcher) deliver(ctx context.Context, userID, fileID string) {
	c, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
	defer cancel()

	if err := d.next.Notify(c, userID, fileID); err != nil {
		d.logger.Error(c, "thumbnail request failed", "file_id", fileID, "error", err)
		return
	}
	d.logger.Debug(c, "thumbnail requested", "file_id", fileID)
}

// Wait blocks until every notification started so far has finished.
// Notifications arriving after Wait are delivered synchronously.
func (d *AsyncDispatcher) Wait() {
	d.mu.Lock()
	d.stopped = true
	d.mu.Unlock()
	d.wg.Wait()
}
