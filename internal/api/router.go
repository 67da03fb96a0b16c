// Package api provides HTTP router setup.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/stringanalyzer/stringsvc/internal/analysis"
	"github.com/stringanalyzer/stringsvc/internal/config"
)

// NewRouter creates a new HTTP router with all routes configured.
func NewRouter(cfg *config.Config, engine *analysis.Engine) http.Handler {
	r := chi.NewRouter()

	handler := NewHandler(engine)

	// Global middleware
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)
	r.Use(SecurityHeaders()...)
	r.Use(CORSMiddleware(cfg.CORS))

	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.MethodNotAllowed)

	// Health check (not rate limited)
	r.Get("/health", handler.HealthCheck)

	r.Route("/strings", func(r chi.Router) {
		if cfg.RateLimits.Enabled {
			r.Use(RateLimitMiddleware(cfg.RateLimits))
		}

		r.Get("/", handler.ListStrings)
		r.Post("/", handler.CreateString)
		r.Get("/filter-by-natural-language", handler.FilterByNaturalLanguage)
		r.Get("/{string_value}", handler.GetString)
		r.Delete("/{string_value}", handler.DeleteString)
	})

	return r
}
