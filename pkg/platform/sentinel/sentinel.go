package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) so callers can decide between retrying, falling back or failing.
//
// For client-facing failures use pkg/domain-errors instead.
var (
	// ErrUnavailable means a backing service could not be reached or
	// answered with an infrastructure error.
	ErrUnavailable = errors.New("unavailable")
)
