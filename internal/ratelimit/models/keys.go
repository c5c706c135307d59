package models

import "strings"

const keyPrefix = "ratelimit:ip:"

// SanitizeKeySegment escapes delimiter characters in rate limit key segments
// so an identifier containing ':' cannot address a neighbouring bucket.
// IPv6 addresses are the common case.
func SanitizeKeySegment(s string) string {
	return strings.ReplaceAll(s, ":", "_")
}

// NewIPRateLimitKey returns the bucket key for a client IP.
func NewIPRateLimitKey(ip string) string {
	if ip == "" {
		ip = "unknown"
	}
	return keyPrefix + SanitizeKeySegment(ip)
}
