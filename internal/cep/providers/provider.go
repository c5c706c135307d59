package providers

import (
	"net/http"
	"time"

	"brasilsearch/internal/cep"
)

// Adapter maps one third-party postal-code API onto cep.Fields.
// Implementations are immutable and safe for concurrent use.
type Adapter interface {
	// Name identifies the provider in diagnostics and success messages.
	Name() string

	// URL builds the lookup URL for a canonical code.
	URL(code cep.Code) string

	// Timeout is the per-request deadline.
	Timeout() time.Duration

	// Headers returns the static request headers. Callers may mutate the result.
	Headers() http.Header

	// Normalize maps a 2xx response body onto cep.Fields.
	Normalize(body []byte, code cep.Code) (cep.Fields, error)

	// IsNotFound reports provider-specific "no such code" signalling.
	IsNotFound(status int, body []byte) bool
}

// Defaults returns the production adapters in trial order.
func Defaults() []Adapter {
	return []Adapter{
		NewBrasilAPI(""),
		NewViaCEP(""),
		NewPostmon(""),
		NewCEPAberto(""),
	}
}

// Names lists adapter names in order.
func Names(adapters []Adapter) []string {
	names := make([]string, 0, len(adapters))
	for _, a := range adapters {
		names = append(names, a.Name())
	}
	return names
}

func jsonHeaders() http.Header {
	h := http.Header{}
	h.Set("Accept", "application/json")
	return h
}

// codeOr normalizes a provider-echoed code, keeping the requested one when
// the provider's is missing or malformed.
func codeOr(echoed string, requested cep.Code) cep.Code {
	if echoed == "" {
		return requested
	}
	c, err := cep.ParseCode(echoed)
	if err != nil {
		return requested
	}
	return c
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
