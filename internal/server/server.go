// Package server implements the heapviz HTTP API.
//
// The API mirrors the CLI surface: render single propositions or
// pre/post pairs, run batches, and browse the stored batch reports.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/heapviz/heapviz/pkg/pipeline"
	"github.com/heapviz/heapviz/pkg/report"
)

// Config carries the server's dependencies.
type Config struct {
	Addr    string
	Runner  *pipeline.Runner
	Reports report.Store
	Logger  *log.Logger
}

// Server is the heapviz HTTP API server.
type Server struct {
	addr    string
	runner  *pipeline.Runner
	reports report.Store
	logger  *log.Logger
}

// New creates a server. Nil dependencies get working defaults: a cacheless
// runner and an in-memory report store.
func New(cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	if cfg.Reports == nil {
		cfg.Reports = report.NewMemoryStore()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	return &Server{
		addr:    cfg.Addr,
		runner:  cfg.Runner,
		reports: cfg.Reports,
		logger:  cfg.Logger,
	}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/render", s.handleRender)
		r.Post("/diff", s.handleDiff)
		r.Post("/batch", s.handleBatch)

		r.Route("/reports", func(r chi.Router) {
			r.Get("/", s.handleListReports)
			r.Get("/{id}", s.handleGetReport)
			r.Delete("/{id}", s.handleDeleteReport)
		})
	})

	return r
}

// ListenAndServe runs the server until the context is canceled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
