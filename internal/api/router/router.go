package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/trimstudio/booking/internal/booking"
	"github.com/trimstudio/booking/internal/http/handlers"
	httpmiddleware "github.com/trimstudio/booking/internal/http/middleware"
	"github.com/trimstudio/booking/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger         *logging.Logger
	BookingHandler *booking.Handler
	HealthHandler  *handlers.HealthHandler
	CatalogHandler *handlers.CatalogHandler
	MetricsHandler http.Handler

	// CORSAllowedOrigins applies to the read-only routes only.
	CORSAllowedOrigins []string

	// RateLimiter guards the booking routes when set.
	RateLimiter httpmiddleware.Limiter
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if cfg.HealthHandler == nil {
		cfg.HealthHandler = handlers.NewHealthHandler(nil, cfg.Logger)
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	r.Use(middleware.Recoverer)

	// Read-only endpoints
	r.Group(func(public chi.Router) {
		if len(cfg.CORSAllowedOrigins) > 0 {
			public.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
		}
		public.Get("/health", cfg.HealthHandler.Health)
		public.Get("/ready", cfg.HealthHandler.Ready)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
		if cfg.CatalogHandler != nil {
			public.Get("/api/catalog", cfg.CatalogHandler.Get)
			public.Options("/api/catalog", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			})
		}
	})

	// Booking submission: wildcard CORS set by the booking package itself.
	if cfg.BookingHandler != nil {
		r.Group(func(b chi.Router) {
			b.Use(booking.CORSHeaders)
			if cfg.RateLimiter != nil {
				b.Use(httpmiddleware.RateLimit(cfg.RateLimiter, cfg.Logger))
			}
			b.Post("/api/booking", cfg.BookingHandler.Create)
			b.Options("/api/booking", cfg.BookingHandler.Preflight)
		})
	}

	return r
}
