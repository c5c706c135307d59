package cep

import (
	"errors"
	"fmt"
)

// Error kinds a lookup can surface to callers. Per-provider failures never
// escape the resolver; only these do.
var (
	// ErrInvalidInput is returned before any network call for malformed or
	// out-of-range codes.
	ErrInvalidInput = errors.New("invalid postal code")

	// ErrConnectivity means most providers failed for network reasons.
	ErrConnectivity = errors.New("postal code providers unreachable")

	// ErrServiceUnavailable means most providers answered with 5xx.
	ErrServiceUnavailable = errors.New("postal code providers unavailable")
)

// Tally counts failed attempts by kind.
type Tally struct {
	NotFound int
	Network  int
	Server   int
	Unknown  int
	Total    int
}

// Add counts one failed attempt of the given kind.
func (t *Tally) Add(kind ErrorKind) {
	switch kind {
	case KindNotFound:
		t.NotFound++
	case KindNetwork:
		t.Network++
	case KindServer:
		t.Server++
	case KindUnknown:
		t.Unknown++
	}
}

// Error carries one of the exported kinds plus the user-facing message.
type Error struct {
	Kind    error
	Message string
	Tally   Tally
}

func newError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// NewConnectivityError reports a majority of network failures.
func NewConnectivityError(message string, tally Tally) *Error {
	return &Error{Kind: ErrConnectivity, Message: message, Tally: tally}
}

// NewServiceUnavailableError reports a majority of server failures.
func NewServiceUnavailableError(message string, tally Tally) *Error {
	return &Error{Kind: ErrServiceUnavailable, Message: message, Tally: tally}
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%v: %s", e.Kind, e.Message)
}

// Unwrap exposes the kind so errors.Is works against the sentinels.
func (e *Error) Unwrap() error {
	return e.Kind
}

// Retryable reports whether a caller-level retry could succeed.
func (e *Error) Retryable() bool {
	return errors.Is(e.Kind, ErrConnectivity) || errors.Is(e.Kind, ErrServiceUnavailable)
}

// UserMessage extracts the human-readable message from err, falling back
// to err.Error() for foreign errors.
func UserMessage(err error) string {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Message
	}
	return err.Error()
}
