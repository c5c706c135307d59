package providers

import (
	"net/http"
	"strings"
	"time"

	"brasilsearch/internal/cep"
)

const postmonBaseURL = "https://api.postmon.com.br/v1/cep"

// Postmon queries api.postmon.com.br. Field names are Portuguese, with
// English fallbacks seen on some mirrors.
type Postmon struct {
	baseURL string
}

// NewPostmon builds the adapter; an empty baseURL selects production.
func NewPostmon(baseURL string) *Postmon {
	if baseURL == "" {
		baseURL = postmonBaseURL
	}
	return &Postmon{baseURL: strings.TrimSuffix(baseURL, "/")}
}

func (p *Postmon) Name() string { return "PostmonAPI" }

func (p *Postmon) URL(code cep.Code) string {
	return p.baseURL + "/" + code.String()
}

func (p *Postmon) Timeout() time.Duration { return 18 * time.Second }

func (p *Postmon) Headers() http.Header { return jsonHeaders() }

type postmonResponse struct {
	CEP          string `json:"cep"`
	Cidade       string `json:"cidade"`
	City         string `json:"city"`
	Bairro       string `json:"bairro"`
	Distrito     string `json:"distrito"`
	Neighborhood string `json:"neighborhood"`
	Estado       string `json:"estado"`
	State        string `json:"state"`
	Logradouro   string `json:"logradouro"`
	Street       string `json:"street"`
}

func (p *Postmon) Normalize(body []byte, code cep.Code) (cep.Fields, error) {
	var resp postmonResponse
	if err := decode(body, &resp); err != nil {
		return cep.Fields{}, err
	}
	return cep.Fields{
		Code:         codeOr(resp.CEP, code),
		City:         firstNonEmpty(resp.Cidade, resp.City),
		Neighborhood: firstNonEmpty(resp.Distrito, resp.Bairro, resp.Neighborhood),
		State:        firstNonEmpty(resp.Estado, resp.State),
		Street:       firstNonEmpty(resp.Logradouro, resp.Street),
		Location:     &cep.Location{},
	}, nil
}

func (p *Postmon) IsNotFound(status int, _ []byte) bool {
	return status == http.StatusNotFound
}
