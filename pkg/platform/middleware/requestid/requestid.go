// Package requestid assigns every request an ID for log correlation.
package requestid

import (
	"net/http"

	"github.com/google/uuid"

	"brasilsearch/pkg/requestcontext"
)

// Header carries the request ID in both directions.
const Header = "X-Request-ID"

// maxLen bounds caller-supplied IDs.
const maxLen = 128

// Middleware reuses a sane inbound X-Request-ID or generates a UUID, stores
// it in the context and echoes it on the response.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(Header)
		if id == "" || len(id) > maxLen {
			id = uuid.NewString()
		}
		w.Header().Set(Header, id)
		next.ServeHTTP(w, r.WithContext(requestcontext.WithRequestID(r.Context(), id)))
	})
}
