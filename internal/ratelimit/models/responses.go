package models

// ErrorRateLimitExceeded is the error code of a 429 body.
const ErrorRateLimitExceeded = "rate_limit_exceeded"

// RateLimitExceededResponse is the 429 body.
type RateLimitExceededResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	RetryAfter int    `json:"retry_after"`
}

// NewRateLimitExceeded builds the 429 body; retryAfter is in seconds.
func NewRateLimitExceeded(message string, retryAfter int) RateLimitExceededResponse {
	return RateLimitExceededResponse{
		Error:      ErrorRateLimitExceeded,
		Message:    message,
		RetryAfter: retryAfter,
	}
}
