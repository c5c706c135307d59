package resolver

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"brasilsearch/internal/cep"
	"brasilsearch/internal/cep/providers"
)

func spanAttrs(span sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	out := make(map[attribute.Key]attribute.Value)
	for _, kv := range span.Attributes() {
		out[kv.Key] = kv.Value
	}
	return out
}

func TestResolve_RecordsSpans(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	failing := newFakeProvider(t, serverError())
	healthy := newFakeProvider(t, respond(http.StatusOK, viaCEPBody))

	r, err := New(
		[]providers.Adapter{adapterAt(0, failing.URL()), adapterAt(1, healthy.URL())},
		WithDelay(0),
		WithTracer(tp.Tracer("test")),
	)
	require.NoError(t, err)

	record, err := r.Resolve(context.Background(), "01001-000")
	require.NoError(t, err)
	require.True(t, record.Found())

	spans := rec.Ended()
	require.Len(t, spans, 3)

	first, second, root := spans[0], spans[1], spans[2]
	assert.Equal(t, "cep.attempt", first.Name())
	assert.Equal(t, "cep.attempt", second.Name())
	assert.Equal(t, "cep.resolve", root.Name())

	assert.Equal(t, root.SpanContext().SpanID(), first.Parent().SpanID())
	assert.Equal(t, root.SpanContext().SpanID(), second.Parent().SpanID())

	a := spanAttrs(first)
	assert.Equal(t, "Brasil API", a["provider"].AsString())
	assert.Equal(t, "01001000", a["cep"].AsString())
	assert.Equal(t, int64(http.StatusInternalServerError), a["http.status_code"].AsInt64())
	assert.Equal(t, string(cep.KindServer), a["error.kind"].AsString())
	assert.Equal(t, codes.Error, first.Status().Code)

	b := spanAttrs(second)
	assert.Equal(t, "ViaCEP", b["provider"].AsString())
	assert.Equal(t, int64(http.StatusOK), b["http.status_code"].AsInt64())
	assert.Equal(t, string(cep.KindNone), b["error.kind"].AsString())
	assert.NotEqual(t, codes.Error, second.Status().Code)

	rootAttrs := spanAttrs(root)
	assert.True(t, rootAttrs["cep.found"].AsBool())
	assert.Equal(t, int64(2), rootAttrs["cep.attempts"].AsInt64())
}

func TestResolve_InvalidInputStartsNoSpan(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	r, err := New([]providers.Adapter{adapterAt(0, unreachableURL(t))}, WithDelay(0), WithTracer(tp.Tracer("test")))
	require.NoError(t, err)

	_, err = r.Resolve(context.Background(), "123456789")
	require.Error(t, err)
	assert.Empty(t, rec.Ended())
}

func TestResolve_PropagatesTraceContextToProviders(t *testing.T) {
	prev := otel.GetTextMapPropagator()
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() { otel.SetTextMapPropagator(prev) })

	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	fp := newFakeProvider(t, respond(http.StatusOK, brasilAPIBody))

	r, err := New([]providers.Adapter{adapterAt(0, fp.URL())}, WithDelay(0), WithTracer(tp.Tracer("test")))
	require.NoError(t, err)

	_, err = r.Resolve(context.Background(), "01001000")
	require.NoError(t, err)

	spans := rec.Ended()
	require.Len(t, spans, 2)
	attempt := spans[0]

	header := fp.lastHeader().Get("traceparent")
	require.NotEmpty(t, header)
	assert.Contains(t, header, attempt.SpanContext().TraceID().String())
	assert.Contains(t, header, attempt.SpanContext().SpanID().String())
}
