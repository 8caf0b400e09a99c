package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wardenlabs/scambait/internal/engagement"
	httpmiddleware "github.com/wardenlabs/scambait/internal/http/middleware"
	"github.com/wardenlabs/scambait/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger            *logging.Logger
	EngagementHandler *engagement.Handler
	APIKey            string
	MetricsHandler    http.Handler
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	// Authenticated honey-pot endpoint
	r.Group(func(protected chi.Router) {
		protected.Use(httpmiddleware.RequireAPIKey(cfg.APIKey))
		protected.Post("/message", cfg.EngagementHandler.HandleMessage)
	})

	return r
}
