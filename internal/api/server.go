// Package api provides the HTTP API server and handlers for AIPortal.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/aiportalapp/aiportal-server/internal/service"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	authService      *service.AuthService
	catalogService   *service.CatalogService
	assistantService *service.AssistantService
	router           *chi.Mux
	logger           *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(authService *service.AuthService, catalogService *service.CatalogService, assistantService *service.AssistantService, logger *slog.Logger) *Server {
	s := &Server{
		authService:      authService,
		catalogService:   catalogService,
		assistantService: assistantService,
		router:           chi.NewRouter(),
		logger:           logger,
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
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Health check.
	s.router.Get("/health", s.handleHealthCheck)

	s.router.Route("/api", func(r chi.Router) {
		// Auth endpoints (public).
		r.Route("/auth", func(r chi.Router) {
			r.Get("/status", s.handleStatus)
			r.Post("/register", s.handleRegister)
			r.Post("/login", s.handleLogin)
		})

		// Catalog (requires auth).
		r.Route("/tools", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/fetchall/{category}", s.handleFetchAll)
			r.Get("/search/{title}", s.handleSearch)
			r.Get("/liked", s.handleListLiked)
			r.Post("/like/{toolId}", s.handleToggleLike)
			r.Post("/{toolId}/comments", s.handleAddComment)
		})

		// Assistant (requires auth).
		r.Route("/ai", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Post("/ask", s.handleAsk)
		})
	})
}
