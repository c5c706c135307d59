package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := fromLookup(lookupFrom(nil))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 300*time.Millisecond, cfg.CEP.AttemptDelay)
	assert.Equal(t, "Brasil-Search/1.0", cfg.CEP.UserAgent)
	assert.Equal(t, 4, cfg.CEP.BatchConcurrency)
	assert.False(t, cfg.RateLimit.Disabled)
	assert.Equal(t, 60, cfg.RateLimit.Requests)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.Empty(t, cfg.Redis.URL)
	assert.Equal(t, 10, cfg.Redis.PoolSize)
	assert.Empty(t, cfg.Tracing.ZipkinURL)
	assert.Equal(t, "brasilsearch", cfg.Tracing.ServiceName)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("BRASILSEARCH_ADDR", ":9090")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("CEP_ATTEMPT_DELAY", "0s")
	t.Setenv("CEP_BATCH_CONCURRENCY", "8")
	t.Setenv("RATE_LIMIT_REQUESTS", "5")
	t.Setenv("RATE_LIMIT_WINDOW", "10s")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("ZIPKIN_URL", "http://localhost:9411/api/v2/spans")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, time.Duration(0), cfg.CEP.AttemptDelay)
	assert.Equal(t, 8, cfg.CEP.BatchConcurrency)
	assert.Equal(t, 5, cfg.RateLimit.Requests)
	assert.Equal(t, 10*time.Second, cfg.RateLimit.Window)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
	assert.Equal(t, "http://localhost:9411/api/v2/spans", cfg.Tracing.ZipkinURL)
}

func TestFromEnv_InvalidValuesAreReportedTogether(t *testing.T) {
	_, err := fromLookup(lookupFrom(map[string]string{
		"CEP_ATTEMPT_DELAY":     "soon",
		"CEP_BATCH_CONCURRENCY": "0",
		"RATE_LIMIT_DISABLED":   "maybe",
		"LOG_FORMAT":            "xml",
	}))
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "CEP_ATTEMPT_DELAY")
	assert.Contains(t, msg, "CEP_BATCH_CONCURRENCY")
	assert.Contains(t, msg, "RATE_LIMIT_DISABLED")
	assert.Contains(t, msg, "LOG_FORMAT")
}

func TestFromEnv_DisabledRateLimitSkipsLimitChecks(t *testing.T) {
	cfg, err := fromLookup(lookupFrom(map[string]string{
		"RATE_LIMIT_DISABLED": "true",
		"RATE_LIMIT_REQUESTS": "0",
	}))
	require.NoError(t, err)
	assert.True(t, cfg.RateLimit.Disabled)
}
