package bucket

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"brasilsearch/internal/ratelimit/models"
	"brasilsearch/internal/ratelimit/ports"
	"brasilsearch/pkg/platform/sentinel"
)

const redisKeyPrefix = "brasilsearch:"

var _ ports.BucketStore = (*RedisBucketStore)(nil)

// RedisBucketStore implements a fixed-window limiter shared by every
// instance pointed at the same Redis. The first request in a window creates
// the counter and sets its expiry.
type RedisBucketStore struct {
	client redis.Cmdable
	now    func() time.Time
}

// NewRedisBucketStore creates a store backed by client.
func NewRedisBucketStore(client redis.Cmdable) *RedisBucketStore {
	return &RedisBucketStore{client: client, now: time.Now}
}

// AllowN counts cost units against the window. Denied requests still count,
// so clients hammering a closed window do not shorten it. Infrastructure
// failures are wrapped with sentinel.ErrUnavailable.
func (s *RedisBucketStore) AllowN(ctx context.Context, key string, cost int, limit int, window time.Duration) (*models.RateLimitResult, error) {
	rkey := redisKeyPrefix + key

	pipe := s.client.TxPipeline()
	incr := pipe.IncrBy(ctx, rkey, int64(cost))
	pttl := pipe.PTTL(ctx, rkey)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("%w: redis allow %s: %v", sentinel.ErrUnavailable, key, err)
	}

	ttl := pttl.Val()
	if ttl < 0 {
		if err := s.client.PExpire(ctx, rkey, window).Err(); err != nil {
			return nil, fmt.Errorf("%w: redis expire %s: %v", sentinel.ErrUnavailable, key, err)
		}
		ttl = window
	}

	now := s.now()
	resetAt := now.Add(ttl)
	used := int(incr.Val())
	if used > limit {
		return models.NewDenied(limit, resetAt, now), nil
	}
	return models.NewAllowed(limit, used, resetAt), nil
}
