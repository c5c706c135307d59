package requestcontext

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAccessors(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, ClientIP(ctx))
	assert.Empty(t, UserAgent(ctx))
	assert.Empty(t, RequestID(ctx))

	fixed := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)
	ctx = WithClientMetadata(ctx, "203.0.113.7", "curl/8")
	ctx = WithRequestID(ctx, "req-42")
	ctx = WithTime(ctx, fixed)

	assert.Equal(t, "203.0.113.7", ClientIP(ctx))
	assert.Equal(t, "curl/8", UserAgent(ctx))
	assert.Equal(t, "req-42", RequestID(ctx))
	assert.Equal(t, fixed, Now(ctx))
}

func TestNow_FallsBackToWallClock(t *testing.T) {
	before := time.Now()
	got := Now(context.Background())
	assert.False(t, got.Before(before))
}
