package providers

import (
	"net/http"
	"strings"
	"time"

	"brasilsearch/internal/cep"
)

const brasilAPIBaseURL = "https://brasilapi.com.br/api/cep/v2"

// BrasilAPI queries brasilapi.com.br, the only provider that returns
// coordinates alongside the address.
type BrasilAPI struct {
	baseURL string
}

// NewBrasilAPI builds the adapter; an empty baseURL selects production.
func NewBrasilAPI(baseURL string) *BrasilAPI {
	if baseURL == "" {
		baseURL = brasilAPIBaseURL
	}
	return &BrasilAPI{baseURL: strings.TrimSuffix(baseURL, "/")}
}

func (p *BrasilAPI) Name() string { return "Brasil API" }

func (p *BrasilAPI) URL(code cep.Code) string {
	return p.baseURL + "/" + code.String()
}

func (p *BrasilAPI) Timeout() time.Duration { return 12 * time.Second }

func (p *BrasilAPI) Headers() http.Header {
	h := jsonHeaders()
	h.Set("User-Agent", "Brasil-Search/1.0")
	return h
}

type brasilAPIResponse struct {
	CEP          string `json:"cep"`
	State        string `json:"state"`
	City         string `json:"city"`
	Neighborhood string `json:"neighborhood"`
	Street       string `json:"street"`
	Location     struct {
		Coordinates struct {
			Longitude coordinate `json:"longitude"`
			Latitude  coordinate `json:"latitude"`
		} `json:"coordinates"`
	} `json:"location"`
}

func (p *BrasilAPI) Normalize(body []byte, code cep.Code) (cep.Fields, error) {
	var resp brasilAPIResponse
	if err := decode(body, &resp); err != nil {
		return cep.Fields{}, err
	}
	return cep.Fields{
		Code:         codeOr(resp.CEP, code),
		City:         resp.City,
		Neighborhood: resp.Neighborhood,
		State:        resp.State,
		Street:       resp.Street,
		Location:     location(resp.Location.Coordinates.Longitude, resp.Location.Coordinates.Latitude),
	}, nil
}

func (p *BrasilAPI) IsNotFound(status int, _ []byte) bool {
	return status == http.StatusNotFound
}
