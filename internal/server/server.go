// Package server hosts Roster's HTTP listener: routing, middleware, problem
// responses, health and metrics.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/HerbHall/roster/internal/metrics"
	"github.com/HerbHall/roster/internal/version"
)

const (
	healthPath  = "/api/v1/health"
	metricsPath = "/metrics"
)

// RouteRegistrar is implemented by modules that serve HTTP routes.
type RouteRegistrar interface {
	RegisterRoutes(mux *http.ServeMux)
}

// Options configures optional server behavior.
type Options struct {
	// RateLimit is the sustained request rate per second; zero disables it.
	RateLimit float64
	Burst     int
	Metrics   *metrics.Metrics
	// Ready reports whether the character data is available. Nil means always ready.
	Ready func() error
	// Records reports the number of loaded records for the health response.
	Records func() int
}

// Server is the Roster HTTP server.
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
	mux        *http.ServeMux
	opts       Options
}

// New creates a Server listening on addr with routes from each registrar.
func New(addr string, logger *zap.Logger, opts Options, registrars ...RouteRegistrar) *Server {
	mux := http.NewServeMux()

	s := &Server{
		logger: logger,
		mux:    mux,
		opts:   opts,
	}

	s.registerCoreRoutes()
	for _, r := range registrars {
		r.RegisterRoutes(mux)
	}

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the full middleware-wrapped handler.
func (s *Server) Handler() http.Handler {
	return Chain(s.mux,
		Gzip(),
		RequestID(),
		AccessLog(s.logger, s.opts.Metrics),
		Recover(s.logger),
		RateLimit(s.opts.RateLimit, s.opts.Burst, s.opts.Metrics),
	)
}

// registerCoreRoutes sets up routes that are always available.
func (s *Server) registerCoreRoutes() {
	s.mux.HandleFunc("GET "+healthPath, s.handleHealth)
	if s.opts.Metrics != nil {
		s.mux.Handle("GET "+metricsPath, s.opts.Metrics.Handler())
	}
}

// Start begins serving HTTP requests. It returns nil after Shutdown.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// handleHealth returns the server health status.
//
//	@Summary		Health check
//	@Tags			system
//	@Produce		json
//	@Success		200 {object} map[string]any
//	@Failure		503 {object} map[string]any
//	@Router			/health [get]
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	status, code := "ok", http.StatusOK
	body := map[string]any{
		"service": "roster",
		"version": version.Map(),
	}
	if s.opts.Ready != nil {
		if err := s.opts.Ready(); err != nil {
			status, code = "unavailable", http.StatusServiceUnavailable
			body["error"] = err.Error()
		}
	}
	if s.opts.Records != nil {
		body["records"] = s.opts.Records()
	}
	body["status"] = status

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Roster-Version", version.Short())
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
