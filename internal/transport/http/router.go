package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	cephandler "brasilsearch/internal/cep/handler"
	"brasilsearch/internal/platform/metrics"
	"brasilsearch/internal/platform/middleware"
	"brasilsearch/internal/platform/tracing"
	ratelimitmw "brasilsearch/internal/ratelimit/middleware"
	dErrors "brasilsearch/pkg/domain-errors"
	"brasilsearch/pkg/platform/httputil"
	"brasilsearch/pkg/platform/middleware/metadata"
	"brasilsearch/pkg/platform/middleware/requestid"
	"brasilsearch/pkg/platform/middleware/requesttime"
)

// healthTimeout bounds dependency checks made by /health.
const healthTimeout = 2 * time.Second

// HealthChecker is a dependency checked by /health.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Deps are the components the router exposes. RateLimit, Redis and
// MetricsHandler are optional.
type Deps struct {
	Logger         *slog.Logger
	CEP            *cephandler.Handler
	RateLimit      *ratelimitmw.Middleware
	HTTPMetrics    *metrics.Metrics
	MetricsHandler http.Handler
	Redis          HealthChecker
}

// NewRouter wires all public endpoints. The lookup API sits behind the rate
// limiter; health and metrics do not.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(middleware.Recovery(d.Logger))
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)
	r.Use(middleware.Logger(d.Logger))
	r.Use(tracing.Middleware)
	r.Use(d.HTTPMetrics.Middleware)

	r.Get("/health", healthHandler(d.Redis, d.Logger))
	if d.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", d.MetricsHandler)
	}

	r.Group(func(r chi.Router) {
		if d.RateLimit != nil {
			r.Use(d.RateLimit.RateLimit)
		}
		d.CEP.Register(r)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "route not found"))
	})
	return r
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func healthHandler(redis HealthChecker, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if redis == nil {
			httputil.WriteJSON(w, http.StatusOK, healthResponse{Status: "ok"})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		if err := redis.Health(ctx); err != nil {
			logger.WarnContext(ctx, "health check failed",
				"dependency", "redis",
				"error", err,
			)
			// redis only backs the rate limiter
			httputil.WriteJSON(w, http.StatusOK, healthResponse{
				Status: "degraded",
				Checks: map[string]string{"redis": "unavailable"},
			})
			return
		}
		httputil.WriteJSON(w, http.StatusOK, healthResponse{
			Status: "ok",
			Checks: map[string]string{"redis": "ok"},
		})
	}
}
