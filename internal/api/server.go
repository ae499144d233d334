// Package api provides the HTTP API server and handlers for the Surftober
// challenge tracker.
package api

import (
	"net/http"

	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/surftober/surftober-server/internal/auth"
	"github.com/surftober/surftober-server/internal/service"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	tokenService   *auth.TokenService
	authService    *service.AuthService
	sessionService *service.SessionService
	statsService   *service.StatsService
	exportService  *service.ExportService
	router         *chi.Mux
	corsOrigins    []string
	logger         *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(
	tokenService *auth.TokenService,
	authService *service.AuthService,
	sessionService *service.SessionService,
	statsService *service.StatsService,
	exportService *service.ExportService,
	corsOrigins []string,
	logger *slog.Logger,
) *Server {
	s := &Server{
		tokenService:   tokenService,
		authService:    authService,
		sessionService: sessionService,
		statsService:   statsService,
		exportService:  exportService,
		router:         chi.NewRouter(),
		corsOrigins:    corsOrigins,
		logger:         logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.corsOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Health check.
	s.router.Get("/health", s.handleHealthCheck)

	// API v1.
	s.router.Route("/api/v1", func(r chi.Router) {
		// Auth endpoints (public).
		r.Route("/auth", func(r chi.Router) {
			r.Post("/setup", s.handleSetup)
			r.Post("/login", s.handleLogin)
			r.Post("/refresh", s.handleRefresh)
			r.Post("/logout", s.handleLogout)
		})

		// Protected user endpoints.
		r.Route("/users", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/me", s.handleGetCurrentUser)
			r.Get("/", s.handleListUsers)
			r.With(s.requireAdmin).Post("/", s.handleRegister)
		})

		// Logged activity sessions.
		r.Route("/sessions", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Post("/", s.handleCreateSession)
			r.Get("/", s.handleListSessions)
			r.Get("/mine", s.handleListMySessions)
			r.Get("/{id}", s.handleGetSession)
			r.Put("/{id}", s.handleUpdateSession)
			r.Patch("/{id}", s.handleUpdateSession)
			r.Delete("/{id}", s.handleDeleteSession)
		})

		// Aggregates are public reads so the leaderboard page works
		// without an account.
		r.Route("/stats", func(r chi.Router) {
			r.Get("/leaderboard", s.handleLeaderboard)
			r.Get("/rollups", s.handleRollups)
			r.Get("/awards", s.handleAwards)
		})

		// CSV interchange.
		r.Route("/export", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/csv", s.handleExportCSV)
		})
		r.Route("/import", func(r chi.Router) {
			r.Use(s.requireAuth, s.requireAdmin)
			r.Post("/csv", s.handleImportCSV)
		})
	})
}
