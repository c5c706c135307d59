package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"brasilsearch/internal/platform/config"
)

func TestInit_DisabledWithoutURL(t *testing.T) {
	before := otel.GetTracerProvider()

	shutdown, err := Init(config.Tracing{ServiceName: "brasilsearch"})
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))

	assert.Equal(t, before, otel.GetTracerProvider())
	assert.Contains(t, otel.GetTextMapPropagator().Fields(), "traceparent")
}

func TestInit_ZipkinExporter(t *testing.T) {
	before := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(before) })

	shutdown, err := Init(config.Tracing{
		ZipkinURL:   "http://127.0.0.1:9411/api/v2/spans",
		ServiceName: "brasilsearch",
	})
	require.NoError(t, err)

	assert.NotEqual(t, before, otel.GetTracerProvider())
	require.NoError(t, shutdown(context.Background()))
}

func TestInit_InvalidURL(t *testing.T) {
	_, err := Init(config.Tracing{ZipkinURL: "://bad", ServiceName: "brasilsearch"})
	require.Error(t, err)
}
