// Package api provides HTTP router setup.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/citeworks/citeforge/internal/catalog"
	"github.com/citeworks/citeforge/internal/config"
)

// NewRouter creates a new HTTP router with all routes configured.
func NewRouter(cfg *config.Config, svc *catalog.Service, version string) http.Handler {
	r := chi.NewRouter()

	handler := NewHandler(svc, version)

	// Global middleware
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Server.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))
	if cfg.Server.RateLimit > 0 {
		r.Use(RateLimitMiddleware(cfg.Server.RateLimit))
	}

	// Health and discovery
	r.Get("/", handler.Root)
	r.Get("/health", handler.HealthCheck)
	r.Get("/api/info", handler.APIInfo)

	// Projects
	r.Route("/projects", func(r chi.Router) {
		r.Post("/", handler.CreateProject)
		r.Get("/", handler.ListProjects)

		r.Route("/{projectID}", func(r chi.Router) {
			r.Get("/", handler.GetProject)
			r.Put("/", handler.UpdateProject)
			r.Delete("/", handler.DeleteProject)

			r.Post("/citations", handler.CreateCitation)
			r.Get("/citations", handler.ListProjectCitations)
			r.Put("/citations/{citationID}", handler.UpdateCitation)
			r.Delete("/citations/{citationID}", handler.DeleteCitation)

			r.Get("/bibliography", handler.Bibliography)
		})
	})

	// Citations addressed outside a project
	r.Get("/citations/{citationID}", handler.GetCitation)
	r.Get("/citations/{citationID}/format", handler.FormatCitation)

	return r
}
