// Package metadata records who is calling: the client IP used for rate
// limiting and the User-Agent used in logs.
package metadata

import (
	"net"
	"net/http"
	"strings"

	"brasilsearch/pkg/requestcontext"
)

const unknownIP = "unknown"

// ClientMetadata stores the client IP and User-Agent in the request context.
// Apply it before anything that reads requestcontext.ClientIP.
func ClientMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithClientMetadata(r.Context(), ClientIPFromRequest(r), r.Header.Get("User-Agent"))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClientIPFromRequest resolves the caller's address. Proxy headers win over
// the socket address, but only when they hold a parseable IP.
func ClientIPFromRequest(r *http.Request) string {
	// X-Forwarded-For is "client, proxy1, proxy2"
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := parseIP(first); ip != "" {
			return ip
		}
	}
	if ip := parseIP(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}

	host := r.RemoteAddr
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	if ip := parseIP(host); ip != "" {
		return ip
	}
	return unknownIP
}

func parseIP(s string) string {
	ip := net.ParseIP(strings.Trim(strings.TrimSpace(s), "[]"))
	if ip == nil {
		return ""
	}
	return ip.String()
}
