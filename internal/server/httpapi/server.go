// Package httpapi exposes the file service over HTTP using a chi router.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/filekeeper/internal/common"
	"github.com/dmitrijs2005/filekeeper/internal/logging"
	"github.com/dmitrijs2005/filekeeper/internal/server/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	address string
	router  chi.Router
	logger  logging.Logger
	users   *services.UserService
	files   *services.FileService
	status  *services.StatusService
	metrics *metrics
}

// NewServer builds the router. Metrics are registered on reg and served
// from /metrics.
func NewServer(address string, l logging.Logger, us *services.UserService, fs *services.FileService, ss *services.StatusService, reg *prometheus.Registry) (*Server, error) {
	m, err := newMetrics(reg)
	if err != nil {
		return nil, err
	}

	s := &Server{
		address: address,
		logger:  l.With("module", "http_server"),
		users:   us,
		files:   fs,
		status:  ss,
		metrics: m,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(s.metrics.middleware)

	r.Get("/status", s.handleStatus)
	r.Get("/stats", s.handleStats)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	r.Post("/users", s.handleRegister)
	r.Get("/connect", s.handleConnect)
	r.Get("/disconnect", s.handleDisconnect)

	r.With(s.optionalUser).Get("/files/{id}/data", s.handleFileData)

	r.Group(func(r chi.Router) {
		r.Use(s.requireUser)
		r.Get("/users/me", s.handleMe)
		r.Post("/files", s.handleCreateFile)
		r.Get("/files", s.handleListFiles)
		r.Get("/files/{id}", s.handleGetFile)
		r.Put("/files/{id}/publish", s.handlePublish)
		r.Put("/files/{id}/unpublish", s.handleUnpublish)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, s.logger, common.ErrorNotFound)
	})

	s.router = r
	return s, nil
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on listen until ctx is cancelled. It returns
// only after in-flight requests have finished or the shutdown timeout hit.
func (s *Server) Serve(ctx context.Context, listen net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	// closed once Shutdown has drained in-flight requests
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			s.logger.Error(ctx, "HTTP shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	<-drained
	return nil
}
