package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brasilsearch/internal/platform/config"
)

func TestNew_EmptyURLMeansDisabled(t *testing.T) {
	client, err := New(context.Background(), config.RedisConfig{})
	require.NoError(t, err)
	assert.Nil(t, client)
}

func TestNew_InvalidURL(t *testing.T) {
	_, err := New(context.Background(), config.RedisConfig{URL: "not-a-redis-url"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse redis URL")
}

func TestNew_UnreachableServer(t *testing.T) {
	_, err := New(context.Background(), config.RedisConfig{
		URL:         "redis://127.0.0.1:1/0",
		DialTimeout: 100 * time.Millisecond,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis ping failed")
}

func TestOptions(t *testing.T) {
	opts, err := options(config.RedisConfig{
		URL:          "redis://:secret@cache.internal:6380/3",
		PoolSize:     25,
		MinIdleConns: 4,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
	})
	require.NoError(t, err)

	assert.Equal(t, "cache.internal:6380", opts.Addr)
	assert.Equal(t, 3, opts.DB)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 25, opts.PoolSize)
	assert.Equal(t, 4, opts.MinIdleConns)
	assert.Equal(t, 2*time.Second, opts.DialTimeout)
	assert.Equal(t, time.Second, opts.ReadTimeout)
	assert.Zero(t, opts.WriteTimeout, "unset values keep the parsed default")
}
