// Package resolver looks up a postal code by trying each provider in a
// fixed order until one answers with an address.
//
// Providers are queried one at a time with a short pause between them.
// Individual provider failures never reach the caller: when every provider
// fails, the failures are tallied by kind and turned into either a
// not-found record or one of the cep aggregate errors.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"brasilsearch/internal/cep"
	"brasilsearch/internal/cep/metrics"
	"brasilsearch/internal/cep/providers"
)

// DefaultDelay is the pause between consecutive provider attempts.
const DefaultDelay = 300 * time.Millisecond

const tracerName = "brasilsearch/internal/cep/resolver"

// Resolver runs the ordered-fallback lookup. It holds no per-lookup state
// and is safe for concurrent use.
type Resolver struct {
	adapters  []providers.Adapter
	client    *http.Client
	delay     time.Duration
	userAgent string
	logger    *slog.Logger
	metrics   *metrics.Metrics
	tracer    trace.Tracer
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithHTTPClient sets the client used for provider requests.
func WithHTTPClient(client *http.Client) Option {
	return func(r *Resolver) {
		if client != nil {
			r.client = client
		}
	}
}

// WithDelay sets the pause between provider attempts.
func WithDelay(d time.Duration) Option {
	return func(r *Resolver) {
		r.delay = d
	}
}

// WithUserAgent sets the User-Agent sent to providers whose headers do not
// already carry one.
func WithUserAgent(ua string) Option {
	return func(r *Resolver) {
		r.userAgent = ua
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithMetrics enables Prometheus metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Resolver) {
		r.metrics = m
	}
}

// WithTracer overrides the tracer taken from the global provider.
func WithTracer(t trace.Tracer) Option {
	return func(r *Resolver) {
		if t != nil {
			r.tracer = t
		}
	}
}

// New builds a Resolver over adapters, which are tried in slice order.
func New(adapters []providers.Adapter, opts ...Option) (*Resolver, error) {
	if len(adapters) == 0 {
		return nil, errors.New("resolver requires at least one provider adapter")
	}
	r := &Resolver{
		adapters: append([]providers.Adapter(nil), adapters...),
		client:   &http.Client{},
		delay:    DefaultDelay,
		logger:   slog.New(slog.DiscardHandler),
		tracer:   otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Providers returns the adapter names in trial order.
func (r *Resolver) Providers() []string {
	return providers.Names(r.adapters)
}

// Resolve normalizes raw and looks it up across the providers.
//
// It returns a found record, a synthesized not-found record (Errors set),
// or an error matching cep.ErrInvalidInput, cep.ErrConnectivity or
// cep.ErrServiceUnavailable. If ctx ends first the context error is
// returned wrapped.
func (r *Resolver) Resolve(ctx context.Context, raw string) (*cep.Record, error) {
	start := time.Now()

	code, err := cep.ParseCode(raw)
	if err != nil {
		r.metrics.IncrementOutcome(metrics.OutcomeInvalidInput)
		return nil, err
	}

	ctx, span := r.tracer.Start(ctx, "cep.resolve",
		trace.WithAttributes(attribute.String("cep", code.String())))
	defer span.End()

	record, err := r.resolve(ctx, code)

	r.metrics.ObserveResolveLatency(time.Since(start))
	r.metrics.IncrementOutcome(outcomeOf(record, err))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(
		attribute.Bool("cep.found", record.Found()),
		attribute.Int("cep.attempts", len(record.Attempts)),
	)
	return record, nil
}

func (r *Resolver) resolve(ctx context.Context, code cep.Code) (*cep.Record, error) {
	var (
		attempts       []cep.Attempt
		providerErrors []string
		tally          = cep.Tally{Total: len(r.adapters)}
	)

	for i, a := range r.adapters {
		if i > 0 {
			if err := r.pause(ctx); err != nil {
				return nil, fmt.Errorf("resolve %s: %w", code, err)
			}
		}

		fields, attempt, err := r.try(ctx, a, code)
		attempts = append(attempts, attempt)
		if err == nil {
			r.logger.InfoContext(ctx, "cep resolved",
				"cep", code.String(),
				"provider", a.Name(),
				"attempts", len(attempts),
			)
			return cep.NewFoundRecord(fields, a.Name(), providerErrors, attempts), nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("resolve %s: %w", code, ctxErr)
		}

		providerErrors = append(providerErrors, a.Name()+": "+attempt.Error)
		tally.Add(attempt.Kind)
	}

	record, err := synthesize(code, tally, providerErrors, attempts)
	logArgs := []any{
		"cep", code.String(),
		"not_found", tally.NotFound,
		"network", tally.Network,
		"server", tally.Server,
		"unknown", tally.Unknown,
		"total", tally.Total,
	}
	if err != nil {
		r.logger.WarnContext(ctx, "all providers failed", append(logArgs, "error", err)...)
		return nil, err
	}
	r.logger.InfoContext(ctx, "cep not found", append(logArgs, "tag", record.Errors[0])...)
	return record, nil
}

func (r *Resolver) pause(ctx context.Context) error {
	if r.delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(r.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func outcomeOf(record *cep.Record, err error) string {
	switch {
	case err == nil && record.Found():
		return metrics.OutcomeFound
	case err == nil:
		return metrics.OutcomeNotFound
	case errors.Is(err, cep.ErrConnectivity):
		return metrics.OutcomeConnectivityError
	case errors.Is(err, cep.ErrServiceUnavailable):
		return metrics.OutcomeServiceUnavailable
	default:
		return metrics.OutcomeCanceled
	}
}
