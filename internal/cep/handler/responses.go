package handler

import (
	"brasilsearch/internal/cep"
)

// RecordResponse is the JSON form of a cep.Record. Every field is always
// present; unknown values are empty strings or null.
type RecordResponse struct {
	CEP            string             `json:"cep"`
	Formatted      string             `json:"formatted"`
	State          string             `json:"state"`
	City           string             `json:"city"`
	Neighborhood   string             `json:"neighborhood"`
	Street         string             `json:"street"`
	Location       *LocationResponse  `json:"location"`
	Errors         []string           `json:"errors"`
	Message        string             `json:"message"`
	ProviderErrors []string           `json:"provider_errors"`
	Attempts       []AttemptResponse  `json:"attempts"`
	Navigation     NavigationResponse `json:"navigation"`
}

type LocationResponse struct {
	Type        string              `json:"type"`
	Coordinates CoordinatesResponse `json:"coordinates"`
}

type CoordinatesResponse struct {
	Longitude *float64 `json:"longitude"`
	Latitude  *float64 `json:"latitude"`
}

type AttemptResponse struct {
	Provider       string `json:"provider"`
	URL            string `json:"url"`
	Error          string `json:"error"`
	Success        bool   `json:"success"`
	ResponseTimeMS int64  `json:"response_time_ms"`
	ErrorType      string `json:"error_type"`
}

// NavigationResponse links to the numerically adjacent codes.
type NavigationResponse struct {
	Previous *string `json:"previous"`
	Next     *string `json:"next"`
}

// ErrorItem describes a batch entry that did not produce a record.
type ErrorItem struct {
	Error       string `json:"error"`
	Description string `json:"error_description"`
}

// BatchItem is one entry of a batch response: either a record or an error.
type BatchItem struct {
	Input  string          `json:"input"`
	Status int             `json:"status"`
	Record *RecordResponse `json:"record,omitempty"`
	Error  *ErrorItem      `json:"error,omitempty"`
}

type BatchResponse struct {
	Results []BatchItem `json:"results"`
}

func toRecordResponse(rec *cep.Record) *RecordResponse {
	resp := &RecordResponse{
		CEP:            rec.Code.String(),
		Formatted:      rec.Code.Formatted(),
		State:          rec.State,
		City:           rec.City,
		Neighborhood:   rec.Neighborhood,
		Street:         rec.Street,
		Errors:         rec.Errors,
		Message:        rec.Message,
		ProviderErrors: rec.ProviderErrors,
		Attempts:       make([]AttemptResponse, 0, len(rec.Attempts)),
		Navigation:     toNavigation(rec.Code),
	}
	if resp.ProviderErrors == nil {
		resp.ProviderErrors = []string{}
	}
	if rec.Location != nil {
		resp.Location = &LocationResponse{
			Type: "Point",
			Coordinates: CoordinatesResponse{
				Longitude: rec.Location.Longitude,
				Latitude:  rec.Location.Latitude,
			},
		}
	}
	for _, a := range rec.Attempts {
		resp.Attempts = append(resp.Attempts, AttemptResponse{
			Provider:       a.Provider,
			URL:            a.URL,
			Error:          a.Error,
			Success:        a.Succeeded,
			ResponseTimeMS: a.ResponseTime.Milliseconds(),
			ErrorType:      string(a.Kind),
		})
	}
	return resp
}

func toNavigation(code cep.Code) NavigationResponse {
	var nav NavigationResponse
	if prev, ok := code.Previous(); ok {
		s := prev.String()
		nav.Previous = &s
	}
	if next, ok := code.Next(); ok {
		s := next.String()
		nav.Next = &s
	}
	return nav
}
