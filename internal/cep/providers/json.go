package providers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"brasilsearch/internal/cep"
)

func decode(body []byte, dest any) error {
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	return nil
}

// coordinate accepts a JSON number or a numeric string. Anything else,
// including null and "", leaves it unset.
type coordinate struct {
	value *float64
}

func (c *coordinate) UnmarshalJSON(data []byte) error {
	c.value = nil
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	raw := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		raw = strings.TrimSpace(s)
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	c.value = &f
	return nil
}

func location(lon, lat coordinate) *cep.Location {
	return &cep.Location{Longitude: lon.value, Latitude: lat.value}
}

// flexName holds either a plain string or an object such as
// {"nome": "São Paulo"} or {"sigla": "SP"}.
type flexName string

func (n *flexName) UnmarshalJSON(data []byte) error {
	*n = ""
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = flexName(s)
	case '{':
		var obj struct {
			Nome  string `json:"nome"`
			Sigla string `json:"sigla"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		*n = flexName(firstNonEmpty(obj.Sigla, obj.Nome))
	}
	return nil
}

// truthy accepts true, "true" and 1; ViaCEP has used all of them for "erro".
type truthy bool

func (t *truthy) UnmarshalJSON(data []byte) error {
	switch strings.Trim(string(bytes.TrimSpace(data)), `"`) {
	case "true", "1":
		*t = true
	default:
		*t = false
	}
	return nil
}
