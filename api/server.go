/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the chi router, middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the mobile/web client

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/serene/serve.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/limits", func(r chi.Router) {
			r.Get("/", h.ListLimits)
			r.Post("/", h.CreateLimit)
			r.Get("/{id}", h.GetLimit)
			r.Put("/{id}", h.UpdateLimit)
			r.Delete("/{id}", h.DeleteLimit)
			r.Post("/{id}/logs", h.AppendLog)
			r.Get("/{id}/progress", h.GetProgress)
		})

		r.Route("/game", func(r chi.Router) {
			r.Get("/", h.GetGame)
			r.Post("/clean-date", h.ResetCleanDate)
		})

		r.Post("/export", h.ExportLimits)
		r.Post("/import", h.ImportLimits)
	})

	return r
}
