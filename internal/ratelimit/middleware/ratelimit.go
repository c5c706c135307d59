package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"brasilsearch/internal/ratelimit/metrics"
	"brasilsearch/internal/ratelimit/models"
	"brasilsearch/pkg/platform/httputil"
	"brasilsearch/pkg/requestcontext"
)

// Response headers describing the caller's window.
const (
	HeaderLimit     = "X-RateLimit-Limit"
	HeaderRemaining = "X-RateLimit-Remaining"
	HeaderReset     = "X-RateLimit-Reset"
	HeaderStatus    = "X-RateLimit-Status"
)

// StatusDegraded is sent in X-RateLimit-Status when the fallback store decided.
const StatusDegraded = "degraded"

const exceededMessage = "Muitas requisições deste endereço IP. Tente novamente mais tarde."

// RateLimiter decides whether a client IP may spend cost units.
type RateLimiter interface {
	CheckIPRateLimit(ctx context.Context, ip string, cost int) (*models.RateLimitResult, error)
}

// CostFunc prices a request in rate-limit units.
type CostFunc func(*http.Request) int

func unitCost(*http.Request) int { return 1 }

// Middleware guards the lookup API with a per-IP limit.
type Middleware struct {
	limiter RateLimiter
	logger  *slog.Logger
	metrics *metrics.Metrics
	cost    CostFunc
	off     bool
}

type Option func(*Middleware)

// WithDisabled turns the guard into a pass-through.
func WithDisabled(disabled bool) Option {
	return func(m *Middleware) { m.off = disabled }
}

func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Middleware) { m.metrics = mt }
}

// WithCost prices requests with fn instead of one unit each.
func WithCost(fn CostFunc) Option {
	return func(m *Middleware) {
		if fn != nil {
			m.cost = fn
		}
	}
}

func New(limiter RateLimiter, logger *slog.Logger, opts ...Option) *Middleware {
	m := &Middleware{limiter: limiter, logger: logger, cost: unitCost}
	for _, opt := range opts {
		opt(m)
	}
	if m.off {
		logger.Warn("per-IP rate limit is off; lookup API is unthrottled")
	}
	return m
}

// RateLimit limits requests per client IP. The IP comes from the metadata
// middleware, which must run first. Limiter errors fail open.
func (m *Middleware) RateLimit(next http.Handler) http.Handler {
	if m.off {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ip := requestcontext.ClientIP(ctx)
		cost := m.cost(r)

		result, err := m.limiter.CheckIPRateLimit(ctx, ip, cost)
		switch {
		case err != nil:
			m.logger.ErrorContext(ctx, "rate limit check failed, letting request through",
				"request_id", requestcontext.RequestID(ctx),
				"client_ip", ip,
				"error", err,
			)
			m.metrics.IncrementDecision(metrics.DecisionError)
			next.ServeHTTP(w, r)

		case !result.Allowed:
			setWindowHeaders(w.Header(), result)
			m.logger.InfoContext(ctx, "lookup rejected by rate limit",
				"request_id", requestcontext.RequestID(ctx),
				"client_ip", ip,
				"cost", cost,
				"retry_after", result.RetryAfter,
				"degraded", result.Degraded,
			)
			m.metrics.IncrementDecision(metrics.DecisionDenied)
			reject(w, result.RetryAfter)

		default:
			setWindowHeaders(w.Header(), result)
			m.metrics.IncrementDecision(metrics.DecisionAllowed)
			next.ServeHTTP(w, r)
		}
	})
}

func setWindowHeaders(h http.Header, result *models.RateLimitResult) {
	h.Set(HeaderLimit, strconv.Itoa(result.Limit))
	h.Set(HeaderRemaining, strconv.Itoa(result.Remaining))
	h.Set(HeaderReset, strconv.FormatInt(result.ResetAt.Unix(), 10))
	if result.Degraded {
		h.Set(HeaderStatus, StatusDegraded)
	}
}

func reject(w http.ResponseWriter, retryAfter int) {
	w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	httputil.WriteJSON(w, http.StatusTooManyRequests, models.NewRateLimitExceeded(exceededMessage, retryAfter))
}
