package api

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/marcus/wr/internal/db"
)

// Server is the HTTP API server for wr.
type Server struct {
	config  Config
	http    *http.Server
	store   *db.DB
	metrics *Metrics
}

// NewServer creates a new Server with the given config and store.
func NewServer(cfg Config, store *db.DB) (*Server, error) {
	s := &Server{
		config:  cfg,
		store:   store,
		metrics: NewMetrics(),
	}

	s.http = &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      s.routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

// Start begins listening for HTTP requests (non-blocking).
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.config.ListenAddr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	go func() {
		if err := s.http.Serve(ln); err != nil && err != http.ErrServerClosed {
			slog.Error("http server", "err", err)
		}
	}()

	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// routes builds the HTTP handler with all routes and middleware.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	// Health & metrics
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /metricz", s.handleMetrics)

	// Weeks
	mux.HandleFunc("POST /v1/weeks/init", s.handleInitWeek)
	mux.HandleFunc("POST /v1/weeks/finalize", s.handleFinalizeWeek)
	mux.HandleFunc("GET /v1/weeks", s.handleListWeeks)
	mux.HandleFunc("GET /v1/weeks/{id}", s.handleGetWeek)
	mux.HandleFunc("GET /v1/weeks/{id}/snapshot", s.handleGetSnapshot)

	return chain(mux, recoveryMiddleware, requestIDMiddleware, loggerMiddleware, metricsMiddleware(s.metrics), loggingMiddleware, maxBytesMiddleware(1<<20))
}

// handleHealth returns a health check response, pinging the database.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "error", "detail": "db unreachable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleMetrics returns a snapshot of server metrics.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.metrics.Snapshot())
}
