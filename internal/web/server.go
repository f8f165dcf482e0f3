// Package web serves the latest diagnostic report over HTTP. It is a
// read-only surface for dashboards; it never triggers executions itself.
package web

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"

	"github.com/fieldeng/clusterdoc/internal/config"
	"github.com/fieldeng/clusterdoc/internal/logging"
	"github.com/fieldeng/clusterdoc/internal/report"
)

const shutdownGrace = 5 * time.Second

// Server exposes the latest report.
type Server struct {
	addr    string
	origins []string
	logger  *logging.Logger

	mu     sync.RWMutex
	report *report.Report
}

// NewServer creates a report server.
func NewServer(cfg config.ServeConfig, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Server{
		addr:    cfg.Addr,
		origins: cfg.Origins,
		logger:  logger,
	}
}

// SetReport publishes a report, replacing any previous one.
func (s *Server) SetReport(r *report.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.report = r
}

// Handler builds the HTTP routing.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", s.handleHealthz)
	r.Get("/api/report", s.handleReport)

	return cors.New(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{http.MethodGet},
	}).Handler(r)
}

// ListenAndServe serves until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("serving report", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleReport(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	current := s.report
	s.mu.RUnlock()

	if current == nil {
		http.Error(w, "no report available yet", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(current); err != nil {
		s.logger.Error("encoding report response", "error", err)
	}
}
