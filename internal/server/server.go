// Package server serves the generated site over HTTP for local preview,
// along with health, metrics, and build-history endpoints.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"git.home.luguber.info/inful/sitegen/internal/eventstore"
)

// Server serves the output directory plus operational endpoints.
type Server struct {
	addr    string
	siteDir string
	status  *Status
	reg     *prom.Registry
	store   *eventstore.Store

	srv *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics exposes the registry on /metrics.
func WithMetrics(reg *prom.Registry) Option {
	return func(s *Server) { s.reg = reg }
}

// WithEventStore exposes recent build history on /api/builds.
func WithEventStore(store *eventstore.Store) Option {
	return func(s *Server) { s.store = store }
}

// New creates a Server for the generated site at siteDir.
func New(addr, siteDir string, status *Status, opts ...Option) *Server {
	s := &Server{addr: addr, siteDir: siteDir, status: status}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler builds the HTTP routing: the generated site at the root, plus the
// operational endpoints.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(s.siteDir)))
	mux.HandleFunc("/healthz", s.handleHealth)
	if s.reg != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(s.reg, promhttp.HandlerOpts{}))
	}
	if s.store != nil {
		mux.HandleFunc("/api/builds", s.handleBuilds)
	}
	return mux
}

// Start begins listening. It returns once the listener goroutine is running;
// listen errors other than graceful shutdown are logged.
func (s *Server) Start(ctx context.Context) error {
	s.srv = &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Preview server listening", "addr", s.addr, "dir", s.siteDir)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Preview server failed", "error", err)
		}
	}()
	return nil
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown preview server: %w", err)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	resp := map[string]any{"status": "ok"}
	code := http.StatusOK

	if s.status != nil {
		lastErr, hasGoodBuild := s.status.Snapshot()
		resp["has_good_build"] = hasGoodBuild
		if lastErr != nil {
			resp["status"] = "degraded"
			resp["last_error"] = lastErr.Error()
			if !hasGoodBuild {
				code = http.StatusServiceUnavailable
			}
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(resp)
}

func (s *Server) handleBuilds(w http.ResponseWriter, r *http.Request) {
	events, err := s.store.Recent(r.Context(), 50)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	type buildEvent struct {
		BuildID   string          `json:"build_id"`
		Type      string          `json:"type"`
		Timestamp time.Time       `json:"timestamp"`
		Report    json.RawMessage `json:"report,omitempty"`
	}
	out := make([]buildEvent, 0, len(events))
	for _, e := range events {
		out = append(out, buildEvent{
			BuildID:   e.BuildID,
			Type:      e.Type,
			Timestamp: e.Timestamp,
			Report:    e.Payload,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}
