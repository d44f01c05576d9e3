// Package http serves the advisor API alongside the health, readiness and
// metrics endpoints.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/pws-advisor-service/internal/adapter/capscore"
	"github.com/couchcryptid/pws-advisor-service/internal/compose"
	"github.com/couchcryptid/pws-advisor-service/internal/emit"
	"github.com/couchcryptid/pws-advisor-service/internal/observability"
	"github.com/couchcryptid/pws-advisor-service/internal/plan"
	"github.com/couchcryptid/pws-advisor-service/internal/refresh"
)

// Snapshots serves the current ECHO snapshot and refreshes it on demand.
type Snapshots interface {
	Snapshot() refresh.Snapshot
	Refresh(ctx context.Context) (refresh.Snapshot, error)
}

// SettingsStore is the key/value store behind the settings endpoints and the
// planning profile.
type SettingsStore interface {
	plan.Settings
	Lookup(ctx context.Context, key string) (json.RawMessage, error)
	Put(ctx context.Context, key string, value json.RawMessage) error
}

// Emitter forwards rendered documents to the configured sinks.
type Emitter interface {
	Emit(ctx context.Context, doc compose.Document) []emit.Result
}

// Deps are the collaborators behind the API routes.
type Deps struct {
	Ready     sharedobs.ReadinessChecker
	Snapshots Snapshots
	CAP       capscore.Lookuper
	Settings  SettingsStore
	Emitter   Emitter
	Metrics   *observability.Metrics
}

// Server exposes the API plus health, readiness, and metrics HTTP endpoints.
type Server struct {
	httpServer *http.Server
	deps       Deps
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics and the
// /api routes.
func NewServer(addr string, deps Deps, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		deps:   deps,
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(deps.Ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/pws", s.handleSnapshot)
	mux.HandleFunc("POST /api/pws/refresh", s.handleRefresh)
	mux.HandleFunc("GET /api/cap", s.handleCAP)
	mux.HandleFunc("POST /api/advisory", s.handleAdvisory)
	mux.HandleFunc("POST /api/actions", s.handleActions)
	mux.HandleFunc("POST /api/assets/rank", s.handleRankAssets)
	mux.HandleFunc("POST /api/documents/{kind}", s.handleDocument)
	mux.HandleFunc("GET /api/settings/{key}", s.handleGetSetting)
	mux.HandleFunc("PUT /api/settings/{key}", s.handlePutSetting)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}
