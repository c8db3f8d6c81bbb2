// Package server wires the filekeeper server together: it opens the
// database, runs migrations, selects the blob store, and runs the HTTP API,
// the gRPC health service and the session janitor until shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/filekeeper/internal/logging"
	"github.com/dmitrijs2005/filekeeper/internal/server/config"
	"github.com/dmitrijs2005/filekeeper/internal/server/httpapi"
	"github.com/dmitrijs2005/filekeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/filekeeper/internal/server/services"
	"github.com/dmitrijs2005/filekeeper/internal/server/storage"
	"github.com/dmitrijs2005/filekeeper/internal/server/thumbnails"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/filekeeper/internal/server/grpc"
)

const (
	thumbnailNotifyTimeout = 30 * time.Second
	healthCheckInterval    = 5 * time.Second
)

// Seams for tests.
var (
	sqlOpen                        = sql.Open
	newRepositoryManager           = repomanager.NewPostgresRepositoryManager
	logOutput            io.Writer = os.Stdout
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	users    *services.UserService
	thumbs   *thumbnails.AsyncDispatcher
	http     *httpapi.Server
	health   *gs.HealthServer
	registry *prometheus.Registry
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger, err := logging.New(c.LogFormat, logOutput)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	db, err := sqlOpen("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	app, err := build(ctx, c, logger, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return app, nil
}

func build(ctx context.Context, c *config.Config, logger logging.Logger, db *sql.DB) (*App, error) {

	rm := newRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	blobs, err := storage.New(ctx, c, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	thumbs := thumbnails.NewAsyncDispatcher(thumbnails.NewQueueDispatcher(db, rm), thumbnailNotifyTimeout, logger)

	us := services.NewUserService(db, rm, c, logger)
	fs := services.NewFileService(db, rm, blobs, thumbs, logger)
	ss := services.NewStatusService(db, rm, blobs)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewDBStatsCollector(db, "filekeeper"))

	h, err := httpapi.NewServer(c.EndpointAddrHTTP, logger, us, fs, ss, reg)
	if err != nil {
		return nil, fmt.Errorf("http server init error: %w", err)
	}

	health := gs.NewHealthServer(c.EndpointAddrGRPC, logger, db.PingContext, healthCheckInterval)

	return &App{
		config:   c,
		logger:   logger,
		db:       db,
		users:    us,
		thumbs:   thumbs,
		http:     h,
		health:   health,
		registry: reg,
	}, nil
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case s := <-sigs:
			app.logger.Info(ctx, "Signal received", "signal", s.String())
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

// runSessionJanitor purges expired sessions every SessionCleanupInterval.
func (app *App) runSessionJanitor(ctx context.Context) error {
	t := time.NewTicker(app.config.SessionCleanupInterval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			n, err := app.users.PurgeExpiredSessions(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				app.logger.Error(ctx, "session cleanup failed", "error", err)
				continue
			}
			if n > 0 {
				app.logger.Info(ctx, "expired sessions purged", "count", n)
			}
		}
	}
}

// Run blocks until ctx is cancelled, a termination signal arrives, or one
// of the servers fails. It always drains pending thumbnail notifications
// and closes the database before returning.
func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(ctx, cancelFunc)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return app.http.Run(gctx) })
	g.Go(func() error { return app.health.Run(gctx) })
	g.Go(func() error { return app.runSessionJanitor(gctx) })

	err := g.Wait()
	if err != nil {
		app.logger.Error(ctx, "server stopped with error", "error", err)
	}

	app.thumbs.Wait()

	if cerr := app.db.Close(); cerr != nil && err == nil {
		err = cerr
	}

	app.logger.Info(context.WithoutCancel(ctx), "App stopped")
	return err
}
