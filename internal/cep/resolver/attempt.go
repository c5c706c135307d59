package resolver

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"brasilsearch/internal/cep"
	"brasilsearch/internal/cep/providers"
)

// maxBodyBytes caps how much of a provider response is read.
const maxBodyBytes = 1 << 20

// try performs one provider attempt and summarizes it. The returned error
// is a *providers.Error whenever the attempt failed.
func (r *Resolver) try(ctx context.Context, a providers.Adapter, code cep.Code) (cep.Fields, cep.Attempt, error) {
	name := a.Name()
	url := a.URL(code)

	ctx, span := r.tracer.Start(ctx, "cep.attempt", trace.WithAttributes(
		attribute.String("provider", name),
		attribute.String("cep", code.String()),
	))
	defer span.End()

	start := time.Now()
	fields, status, err := r.fetch(ctx, a, url, code)
	elapsed := time.Since(start)

	kind := providers.KindOf(err)
	attempt := cep.Attempt{
		Provider:     name,
		URL:          url,
		Succeeded:    err == nil,
		ResponseTime: elapsed,
		Kind:         kind,
	}
	if err != nil {
		attempt.Error = err.Error()
		span.RecordError(err)
		span.SetStatus(codes.Error, attempt.Error)
	}
	if status > 0 {
		span.SetAttributes(attribute.Int("http.status_code", status))
	}
	span.SetAttributes(attribute.String("error.kind", string(kind)))

	r.metrics.ObserveAttempt(name, kind, elapsed)
	r.logger.DebugContext(ctx, "provider attempt",
		"provider", name,
		"cep", code.String(),
		"status", status,
		"kind", kind,
		"duration_ms", elapsed.Milliseconds(),
		"error", attempt.Error,
	)
	return fields, attempt, err
}

func (r *Resolver) fetch(ctx context.Context, a providers.Adapter, url string, code cep.Code) (cep.Fields, int, error) {
	ctx, cancel := context.WithTimeout(ctx, a.Timeout())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return cep.Fields{}, 0, providers.NewError(cep.KindUnknown, a.Name(), "Invalid request", err)
	}
	req.Header = a.Headers()
	if req.Header.Get("User-Agent") == "" && r.userAgent != "" {
		req.Header.Set("User-Agent", r.userAgent)
	}
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := r.client.Do(req)
	if err != nil {
		return cep.Fields{}, 0, transportError(ctx, a, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return cep.Fields{}, resp.StatusCode, transportError(ctx, a, err)
	}

	fields, err := providers.Evaluate(a, resp.StatusCode, body, code)
	return fields, resp.StatusCode, err
}

// transportError classifies a failed round trip as network. Deadline
// expiry gets the timeout text.
func transportError(ctx context.Context, a providers.Adapter, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return providers.NewError(cep.KindNetwork, a.Name(), providers.TimeoutMessage(a.Timeout()), nil)
	}
	return providers.NewError(cep.KindNetwork, a.Name(), providers.MsgNetwork, err)
}
