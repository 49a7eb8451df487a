// Package server exposes headless trace computation over HTTP.
//
// The API is a thin collaborator around the engine: it never animates,
// it only computes traces and serves them as JSON. Mutual exclusion is the
// engine's: the server shares a single run controller, so overlapping
// computations are rejected with 409 rather than interleaved.
//
// # Endpoints
//
//	GET  /healthz     — liveness probe
//	GET  /algorithms  — supported algorithms with stability info
//	POST /trace       — compute (or fetch cached) trace for a dataset
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/sortstage/pkg/cache"
	"github.com/matzehuels/sortstage/pkg/engine"
)

// Server handles HTTP requests for trace computation.
type Server struct {
	router chi.Router
	runner *engine.Runner
	cache  cache.Cache
	logger *log.Logger
}

// New creates a server. A nil cache disables caching; a nil logger uses
// the default logger.
func New(c cache.Cache, logger *log.Logger) *Server {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}

	s := &Server{
		runner: engine.NewRunner(logger),
		cache:  c,
		logger: logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", s.handleHealth)
	r.Get("/algorithms", s.handleAlgorithms)
	r.Post("/trace", s.handleTrace)

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe runs the server until the context is cancelled, then
// shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.logger.Info("listening", "addr", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
