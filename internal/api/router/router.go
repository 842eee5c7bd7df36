package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	httpmiddleware "github.com/enmirex/cashoffer/internal/http/middleware"
	"github.com/enmirex/cashoffer/internal/leads"
	"github.com/enmirex/cashoffer/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger         *logging.Logger
	LeadsHandler   *leads.Handler
	HealthHandler  http.Handler
	MetricsHandler http.Handler
	// StaticHandler serves the built client for every non-API path.
	StaticHandler http.Handler
	HTTPMetrics   httpmiddleware.RequestObserver

	CORSAllowedOrigins []string
	Production         bool
	TrustProxy         bool

	// RateLimiter guards /api/leads outside production. Nil builds one from
	// RateLimitRequests and RateLimitWindow.
	RateLimiter       *httpmiddleware.RateLimiter
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	if cfg.LeadsHandler == nil {
		panic("router: leads handler required")
	}
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	if cfg.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	r.Use(httpmiddleware.Recoverer(cfg.Logger))
	r.Use(httpmiddleware.Metrics(cfg.HTTPMetrics))
	r.Use(middleware.Compress(5))
	if cfg.Production {
		r.Use(httpmiddleware.SecurityHeaders)
	}
	r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))

	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api", func(api chi.Router) {
		// Health stays outside the limiter so probes never see 429.
		if cfg.HealthHandler != nil {
			api.Method(http.MethodGet, "/health", cfg.HealthHandler)
		}
		api.Route("/leads", func(r chi.Router) {
			if !cfg.Production {
				limiter := cfg.RateLimiter
				if limiter == nil {
					limiter = httpmiddleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow, nil)
				}
				r.Use(httpmiddleware.RateLimit(limiter))
			}
			r.Post("/", cfg.LeadsHandler.CreateLead)
			r.Get("/", cfg.LeadsHandler.ListLeads)
		})
		api.NotFound(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"Not found"}`))
		})
	})

	if cfg.StaticHandler != nil {
		r.NotFound(cfg.StaticHandler.ServeHTTP)
	}

	return r
}
