package providers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"brasilsearch/internal/cep"
)

const viaCEPBaseURL = "https://viacep.com.br/ws"

// ViaCEP queries viacep.com.br. Unknown codes come back as 200 with an
// "erro" flag instead of a 404.
type ViaCEP struct {
	baseURL string
}

// NewViaCEP builds the adapter; an empty baseURL selects production.
func NewViaCEP(baseURL string) *ViaCEP {
	if baseURL == "" {
		baseURL = viaCEPBaseURL
	}
	return &ViaCEP{baseURL: strings.TrimSuffix(baseURL, "/")}
}

func (p *ViaCEP) Name() string { return "ViaCEP" }

func (p *ViaCEP) URL(code cep.Code) string {
	return p.baseURL + "/" + code.String() + "/json/"
}

func (p *ViaCEP) Timeout() time.Duration { return 15 * time.Second }

func (p *ViaCEP) Headers() http.Header { return jsonHeaders() }

type viaCEPResponse struct {
	CEP        string `json:"cep"`
	Logradouro string `json:"logradouro"`
	Bairro     string `json:"bairro"`
	Localidade string `json:"localidade"`
	UF         string `json:"uf"`
	Erro       truthy `json:"erro"`
}

func (p *ViaCEP) Normalize(body []byte, code cep.Code) (cep.Fields, error) {
	var resp viaCEPResponse
	if err := decode(body, &resp); err != nil {
		return cep.Fields{}, err
	}
	return cep.Fields{
		Code:         codeOr(resp.CEP, code),
		City:         resp.Localidade,
		Neighborhood: resp.Bairro,
		State:        resp.UF,
		Street:       resp.Logradouro,
		Location:     &cep.Location{},
	}, nil
}

func (p *ViaCEP) IsNotFound(_ int, body []byte) bool {
	var resp struct {
		Erro truthy `json:"erro"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return false
	}
	return bool(resp.Erro)
}
