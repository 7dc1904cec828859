// Package api provides HTTP API server functionality.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/anthonyi7/minecraft-dashboard/internal/app"
)

// Server represents the HTTP API server.
type Server struct {
	httpServer *http.Server
	mux        *http.ServeMux

	// Use case dependencies
	health       app.HealthUsecase
	status       app.StatusUsecase
	presence     app.PresenceUsecase
	leaderboards app.LeaderboardUsecase
	events       app.EventsUsecase
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithStatusUsecase sets the live status use case.
func WithStatusUsecase(status app.StatusUsecase) ServerOption {
	return func(s *Server) { s.status = status }
}

// WithPresenceUsecase sets the daily playtime use case.
func WithPresenceUsecase(presence app.PresenceUsecase) ServerOption {
	return func(s *Server) { s.presence = presence }
}

// WithLeaderboardUsecase sets the leaderboards use case.
func WithLeaderboardUsecase(leaderboards app.LeaderboardUsecase) ServerOption {
	return func(s *Server) { s.leaderboards = leaderboards }
}

// WithEventsUsecase sets the raw events use case.
func WithEventsUsecase(events app.EventsUsecase) ServerOption {
	return func(s *Server) { s.events = events }
}

// NewServer creates a new API server with the given dependencies.
func NewServer(addr string, health app.HealthUsecase, opts ...ServerOption) *Server {
	mux := http.NewServeMux()
	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      corsMiddleware(mux),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		mux:    mux,
		health: health,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerRoutes()
	return s
}

// registerRoutes sets up the API routes.
func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /api/healthz", s.handleHealth)

	if s.status != nil {
		s.mux.HandleFunc("GET /api/status", s.handleStatus)
		s.mux.HandleFunc("GET /api/players", s.handlePlayers)
	}
	if s.presence != nil {
		s.mux.HandleFunc("GET /api/today", s.handleToday)
		s.mux.HandleFunc("GET /api/yesterday", s.handleYesterday)
	}
	if s.leaderboards != nil {
		s.mux.HandleFunc("GET /api/leaderboards", s.handleLeaderboards)
	}
	if s.events != nil {
		s.mux.HandleFunc("GET /api/debug/events/{player}", s.handlePlayerEvents)
	}
}

// handleHealth handles the health check endpoint.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	result, err := s.health.Handle(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Addr returns the server address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}
