package providers

import (
	"errors"
	"fmt"
	"time"

	"brasilsearch/internal/cep"
)

// Error wraps a single provider failure with its normalized kind.
type Error struct {
	Kind       cep.ErrorKind
	Provider   string
	Message    string
	Underlying error
}

// Error implements the error interface. The text is what ends up in the
// attempt log, so the provider name is left to the caller.
func (e *Error) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Underlying)
	}
	return e.Message
}

// Unwrap supports error unwrapping.
func (e *Error) Unwrap() error {
	return e.Underlying
}

// NewError creates a normalized provider error.
func NewError(kind cep.ErrorKind, provider, message string, underlying error) *Error {
	return &Error{
		Kind:       kind,
		Provider:   provider,
		Message:    message,
		Underlying: underlying,
	}
}

// KindOf extracts the kind from err; anything unrecognized is unknown.
func KindOf(err error) cep.ErrorKind {
	if err == nil {
		return cep.KindNone
	}
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return cep.KindUnknown
}

// Common attempt failure texts.
const (
	MsgNotFound      = "CEP not found"
	MsgEmptyResponse = "Empty response"
	MsgInvalidBody   = "Invalid response body"
	MsgNetwork       = "Network connection failed"
)

// TimeoutMessage is the attempt text for a request that hit its deadline.
func TimeoutMessage(d time.Duration) string {
	return fmt.Sprintf("Timeout after %dms", d.Milliseconds())
}

// ErrMalformedBody is returned by Normalize when the body cannot be decoded.
var ErrMalformedBody = errors.New("malformed response body")
