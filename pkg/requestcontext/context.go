// Package requestcontext holds request-scoped values behind typed accessors
// so handlers, the resolver and the rate limiter can read them without
// depending on net/http middleware packages.
//
//	ip := requestcontext.ClientIP(ctx)
//	now := requestcontext.Now(ctx)
//
// Tests inject values directly:
//
//	ctx = requestcontext.WithClientMetadata(ctx, "203.0.113.7", "curl/8")
package requestcontext

import (
	"context"
	"time"
)

type key int

const (
	clientIPKey key = iota
	userAgentKey
	requestIDKey
	requestTimeKey
)

func value[T any](ctx context.Context, k key) (T, bool) {
	v, ok := ctx.Value(k).(T)
	return v, ok
}

// ClientIP returns the caller address set by the metadata middleware.
func ClientIP(ctx context.Context) string {
	ip, _ := value[string](ctx, clientIPKey)
	return ip
}

// UserAgent returns the caller's User-Agent header.
func UserAgent(ctx context.Context) string {
	ua, _ := value[string](ctx, userAgentKey)
	return ua
}

// WithClientMetadata stores the client IP and User-Agent.
func WithClientMetadata(ctx context.Context, clientIP, userAgent string) context.Context {
	ctx = context.WithValue(ctx, clientIPKey, clientIP)
	return context.WithValue(ctx, userAgentKey, userAgent)
}

// RequestID returns the correlation ID, or "" outside a request.
func RequestID(ctx context.Context) string {
	id, _ := value[string](ctx, requestIDKey)
	return id
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// Now returns the request time, falling back to the wall clock outside
// HTTP requests.
func Now(ctx context.Context) time.Time {
	if t, ok := value[time.Time](ctx, requestTimeKey); ok {
		return t
	}
	return time.Now()
}

func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, requestTimeKey, t)
}
