// Package requesttime pins "now" for the duration of a request so every
// log line and duration inside it measures from the same instant.
package requesttime

import (
	"net/http"
	"time"

	"brasilsearch/pkg/requestcontext"
)

// Middleware stamps each request with time.Now.
var Middleware = WithClock(time.Now)

// WithClock stamps each request with the value of now.
func WithClock(now func() time.Time) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := requestcontext.WithTime(r.Context(), now())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
