package providers

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"brasilsearch/internal/cep"
)

const cepAbertoBaseURL = "https://www.cepaberto.com/api/v3/cep"

// CEPAberto queries cepaberto.com. It reports unknown codes with a
// "status": 400 field in the body, and nests city/state in v3 responses.
type CEPAberto struct {
	baseURL string
}

// NewCEPAberto builds the adapter; an empty baseURL selects production.
func NewCEPAberto(baseURL string) *CEPAberto {
	if baseURL == "" {
		baseURL = cepAbertoBaseURL
	}
	return &CEPAberto{baseURL: strings.TrimSuffix(baseURL, "/")}
}

func (p *CEPAberto) Name() string { return "CEP Aberto" }

func (p *CEPAberto) URL(code cep.Code) string {
	q := url.Values{}
	q.Set("cep", code.String())
	return p.baseURL + "?" + q.Encode()
}

func (p *CEPAberto) Timeout() time.Duration { return 15 * time.Second }

func (p *CEPAberto) Headers() http.Header { return jsonHeaders() }

type cepAbertoResponse struct {
	CEP        string     `json:"cep"`
	City       flexName   `json:"city"`
	Cidade     flexName   `json:"cidade"`
	District   string     `json:"district"`
	Bairro     string     `json:"bairro"`
	State      flexName   `json:"state"`
	Estado     flexName   `json:"estado"`
	Address    string     `json:"address"`
	Logradouro string     `json:"logradouro"`
	Longitude  coordinate `json:"longitude"`
	Latitude   coordinate `json:"latitude"`
}

func (p *CEPAberto) Normalize(body []byte, code cep.Code) (cep.Fields, error) {
	var resp cepAbertoResponse
	if err := decode(body, &resp); err != nil {
		return cep.Fields{}, err
	}
	return cep.Fields{
		Code:         codeOr(resp.CEP, code),
		City:         firstNonEmpty(string(resp.City), string(resp.Cidade)),
		Neighborhood: firstNonEmpty(resp.District, resp.Bairro),
		State:        firstNonEmpty(string(resp.State), string(resp.Estado)),
		Street:       firstNonEmpty(resp.Address, resp.Logradouro),
		Location:     location(resp.Longitude, resp.Latitude),
	}, nil
}

func (p *CEPAberto) IsNotFound(status int, body []byte) bool {
	if status == http.StatusNotFound {
		return true
	}
	var resp struct {
		Status int `json:"status"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return false
	}
	return resp.Status == http.StatusBadRequest
}
