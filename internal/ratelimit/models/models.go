package models

import (
	"math"
	"time"
)

// RateLimitResult represents the outcome of a rate limit check.
type RateLimitResult struct {
	Allowed    bool      `json:"allowed"`
	Limit      int       `json:"limit"`
	Remaining  int       `json:"remaining"`
	ResetAt    time.Time `json:"reset_at"`
	RetryAfter int       `json:"retry_after,omitempty"` // seconds, only set when not allowed
	Degraded   bool      `json:"degraded,omitempty"`    // decided by the in-memory fallback
}

// NewAllowed builds the result of an admitted request.
func NewAllowed(limit, used int, resetAt time.Time) *RateLimitResult {
	return &RateLimitResult{
		Allowed:   true,
		Limit:     limit,
		Remaining: max(limit-used, 0),
		ResetAt:   resetAt,
	}
}

// NewDenied builds the result of a rejected request. RetryAfter is the
// number of whole seconds until resetAt, never less than one.
func NewDenied(limit int, resetAt, now time.Time) *RateLimitResult {
	return &RateLimitResult{
		Allowed:    false,
		Limit:      limit,
		Remaining:  0,
		ResetAt:    resetAt,
		RetryAfter: retryAfterSeconds(resetAt.Sub(now)),
	}
}

func retryAfterSeconds(d time.Duration) int {
	secs := int(math.Ceil(d.Seconds()))
	if secs < 1 {
		return 1
	}
	return secs
}
