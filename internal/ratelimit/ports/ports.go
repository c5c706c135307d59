// Package ports defines the storage contract the rate limiter runs against.
package ports

import (
	"context"
	"time"

	"brasilsearch/internal/ratelimit/models"
)

// BucketStore counts requests per key within a window. Implementations are
// safe for concurrent use; the in-memory and Redis stores both satisfy it.
type BucketStore interface {
	// AllowN charges cost units to key and reports whether they fit under
	// limit for the current window.
	AllowN(ctx context.Context, key string, cost, limit int, window time.Duration) (*models.RateLimitResult, error)
}
