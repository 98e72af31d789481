package transport

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/guestify/kitstate/internal/config"
	"github.com/guestify/kitstate/internal/document"
	"github.com/guestify/kitstate/internal/observability"
)

// Handlers holds all injected dependencies for the HTTP transport layer.
type Handlers struct {
	Config    *config.Config
	Logger    *zap.Logger
	Validator *document.Validator
	Metrics   *observability.Metrics
}

// NewRouter creates a chi.Router with the full middleware pipeline and all
// route registrations. Health, readiness, and metrics endpoints skip the
// per-request timeout, logging, and metrics layers.
func NewRouter(h *Handlers) chi.Router {
	r := chi.NewRouter()

	// Global middleware: applied to all routes including health.
	r.Use(Recovery(h.Logger))
	r.Use(CORS(h.Config.Server.CORS))
	r.Use(RequestID)
	r.Use(SecurityHeaders)

	// Public routes.
	r.Get("/healthz", observability.HandleHealth())
	r.Get("/readyz", observability.HandleReady(observability.ReadinessChecks{
		ValidatorReady: func() bool { return h.Validator != nil },
	}))
	if h.Config.Observability.Metrics.Enabled {
		path := h.Config.Observability.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		r.Method("GET", path, observability.Handler())
	}

	// API routes — full middleware chain.
	r.Group(func(r chi.Router) {
		if h.Config.Observability.Tracing.Enabled {
			r.Use(observability.TracingMiddleware)
		}
		r.Use(HandlerTimeout(h.Config.Server.HandlerTimeout))
		r.Use(MaxBody(h.Config.Server.MaxBodyBytes))
		r.Use(RequestLogging(h.Logger))
		if h.Metrics != nil {
			r.Use(h.Metrics.MetricsMiddleware)
		}

		r.Post("/v1/documents/validate", h.HandleValidateState)
		r.Post("/v1/documents/repair", h.HandleRepairState)
		r.Post("/v1/documents/migrate", h.HandleMigrateState)
		r.Post("/v1/transactions/validate", h.HandleValidateTransaction)
		r.Get("/v1/stats", h.HandleGetStats)
		r.Delete("/v1/stats", h.HandleResetStats)
		r.Delete("/v1/cache", h.HandleClearCache)
	})

	return r
}
