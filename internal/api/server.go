// Package api exposes the HTTP status interface for a running harvest.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/scrapework/harvester/internal/progress"
)

// Server serves health, progress, and metrics endpoints while a run is in
// flight.
type Server struct {
	srv     *http.Server
	tracker *progress.Tracker
	logger  *zap.Logger
}

// NewServer constructs a Server bound to addr.
func NewServer(addr string, tracker *progress.Tracker, logger *zap.Logger) *Server {
	s := &Server{
		tracker: tracker,
		logger:  logger,
	}

	r := chi.NewRouter()
	r.Get("/healthz", s.handleHealthz)
	r.Get("/progress", s.handleProgress)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	s.srv = &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Start serves in a background goroutine until Shutdown.
func (s *Server) Start() {
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Warn("status server stopped", zap.Error(err))
		}
	}()
	s.logger.Info("status server listening", zap.String("addr", s.srv.Addr))
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) handleProgress(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	snapshot := s.tracker.Snapshot()
	if snapshot == nil {
		snapshot = []progress.StageSnapshot{}
	}
	if err := json.NewEncoder(w).Encode(snapshot); err != nil {
		s.logger.Warn("encode progress snapshot", zap.Error(err))
	}
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}
