package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Health check (no auth required)
		r.Get("/health", s.handleHealth)

		// Auth endpoints (no auth required)
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/token", s.handleLogin)
		r.Post("/auth/refresh", s.handleRefresh)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			r.Get("/auth/users/me", s.handleCurrentUser)

			// Plant endpoints
			r.Route("/plants", func(r chi.Router) {
				r.Get("/", s.handleListPlants)
				r.Post("/", s.handleCreatePlant)

				r.Route("/{id}", func(r chi.Router) {
					r.Put("/", s.handleUpdatePlant)
					r.Delete("/", s.handleDeletePlant)
				})
			})
		})
	})

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
	})
}
