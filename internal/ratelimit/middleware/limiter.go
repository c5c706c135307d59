package middleware

import (
	"context"
	"log/slog"
	"time"

	"brasilsearch/internal/ratelimit/metrics"
	"brasilsearch/internal/ratelimit/models"
	"brasilsearch/internal/ratelimit/ports"
	"brasilsearch/pkg/platform/circuit"
)

// Limiter applies a per-IP limit against a primary store, optionally backed
// by a local fallback store behind a circuit breaker.
type Limiter struct {
	primary  ports.BucketStore
	fallback ports.BucketStore
	breaker  *circuit.Breaker
	limit    int
	window   time.Duration
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// LimiterOption configures a Limiter.
type LimiterOption func(*Limiter)

// WithFallback routes checks to fallback while breaker is open.
func WithFallback(fallback ports.BucketStore, breaker *circuit.Breaker) LimiterOption {
	return func(l *Limiter) {
		l.fallback = fallback
		l.breaker = breaker
	}
}

func WithLimiterLogger(logger *slog.Logger) LimiterOption {
	return func(l *Limiter) {
		l.logger = logger
	}
}

func WithLimiterMetrics(m *metrics.Metrics) LimiterOption {
	return func(l *Limiter) {
		l.metrics = m
	}
}

// NewLimiter allows limit requests per window for each client IP.
func NewLimiter(primary ports.BucketStore, limit int, window time.Duration, opts ...LimiterOption) *Limiter {
	l := &Limiter{
		primary: primary,
		limit:   limit,
		window:  window,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// CheckIPRateLimit charges cost units to ip. cost is clamped to [1, limit]
// so a request the window could never hold is still served once the window
// is empty.
//
// Without a fallback, primary errors are returned as-is. With one, a primary
// error is returned only while the breaker is still closed; once it opens
// the fallback decides and the result is marked Degraded. The primary keeps
// being tried so the breaker can close again.
func (l *Limiter) CheckIPRateLimit(ctx context.Context, ip string, cost int) (*models.RateLimitResult, error) {
	key := models.NewIPRateLimitKey(ip)
	cost = min(max(cost, 1), l.limit)

	result, err := l.primary.AllowN(ctx, key, cost, l.limit, l.window)
	if l.fallback == nil {
		if err != nil {
			l.metrics.IncrementStoreError("primary")
		}
		return result, err
	}

	if err != nil {
		l.metrics.IncrementStoreError("primary")
		useFallback, change := l.breaker.RecordFailure()
		if change.Opened {
			l.logger.WarnContext(ctx, "rate limit circuit opened, using in-memory fallback",
				"breaker", l.breaker.Name(),
				"error", err,
			)
			l.metrics.SetDegraded(true)
		}
		if !useFallback {
			return nil, err
		}
		return l.checkFallback(ctx, key, cost)
	}

	usePrimary, change := l.breaker.RecordSuccess()
	if change.Closed {
		l.logger.InfoContext(ctx, "rate limit circuit closed, primary store recovered",
			"breaker", l.breaker.Name(),
		)
		l.metrics.SetDegraded(false)
	}
	if !usePrimary {
		return l.checkFallback(ctx, key, cost)
	}
	return result, nil
}

func (l *Limiter) checkFallback(ctx context.Context, key string, cost int) (*models.RateLimitResult, error) {
	result, err := l.fallback.AllowN(ctx, key, cost, l.limit, l.window)
	if err != nil {
		l.metrics.IncrementStoreError("fallback")
		return nil, err
	}
	result.Degraded = true
	return result, nil
}
