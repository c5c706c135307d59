package providers

import (
	"fmt"
	"net/http"

	"brasilsearch/internal/cep"
)

// Evaluate classifies a provider's HTTP response. It returns normalized
// fields on success or an *Error carrying the failure kind.
func Evaluate(a Adapter, status int, body []byte, code cep.Code) (cep.Fields, error) {
	name := a.Name()
	switch {
	case status == http.StatusNotFound || a.IsNotFound(status, body):
		return cep.Fields{}, NewError(cep.KindNotFound, name, MsgNotFound, nil)
	case status >= http.StatusInternalServerError:
		return cep.Fields{}, NewError(cep.KindServer, name, fmt.Sprintf("Server error (%d)", status), nil)
	case status < http.StatusOK || status >= http.StatusMultipleChoices:
		return cep.Fields{}, NewError(cep.KindUnknown, name, fmt.Sprintf("HTTP %d", status), nil)
	}

	fields, err := a.Normalize(body, code)
	if err != nil {
		return cep.Fields{}, NewError(cep.KindUnknown, name, MsgInvalidBody, err)
	}
	if fields.Empty() {
		return cep.Fields{}, NewError(cep.KindUnknown, name, MsgEmptyResponse, nil)
	}
	return fields, nil
}
