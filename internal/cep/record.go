package cep

import "time"

// ErrorKind classifies a failed provider attempt.
type ErrorKind string

const (
	KindNone     ErrorKind = "none"
	KindNotFound ErrorKind = "not_found"
	KindNetwork  ErrorKind = "network"
	KindServer   ErrorKind = "server"
	KindUnknown  ErrorKind = "unknown"
)

// Error tags placed in Record.Errors for synthesized not-found outcomes.
const (
	TagNotFoundAnywhere = "CEP not found in any database"
	TagNotFoundMost     = "CEP not found in most databases"
	TagMixedResults     = "Mixed results, CEP likely not found"
)

// Location is a geocoordinate pair; either side may be unknown.
type Location struct {
	Longitude *float64
	Latitude  *float64
}

// HasCoordinates reports whether both coordinates are known.
func (l *Location) HasCoordinates() bool {
	return l != nil && l.Longitude != nil && l.Latitude != nil
}

// Fields is the provider-normalized part of a record.
type Fields struct {
	Code         Code
	City         string
	Neighborhood string
	State        string
	Street       string
	Location     *Location
}

// Empty reports whether the provider answered without usable address data.
func (f Fields) Empty() bool {
	return f.City == "" && f.State == "" && f.Street == ""
}

// Attempt summarizes one provider call within a resolution.
type Attempt struct {
	Provider     string
	URL          string
	Error        string
	Succeeded    bool
	ResponseTime time.Duration
	Kind         ErrorKind
}

// Record is the outcome of a resolution: either a provider's data or a
// synthesized not-found result. Errors is nil only for real successes.
type Record struct {
	Code           Code
	City           string
	Neighborhood   string
	State          string
	Street         string
	Location       *Location
	Errors         []string
	Message        string
	ProviderErrors []string
	Attempts       []Attempt
}

// Found reports whether the record holds real provider data.
func (r *Record) Found() bool {
	return r != nil && r.Errors == nil
}

// NewFoundRecord builds a successful record from normalized fields.
func NewFoundRecord(fields Fields, provider string, providerErrors []string, attempts []Attempt) *Record {
	loc := fields.Location
	if loc == nil {
		loc = &Location{}
	}
	return &Record{
		Code:           fields.Code,
		City:           fields.City,
		Neighborhood:   fields.Neighborhood,
		State:          fields.State,
		Street:         fields.Street,
		Location:       loc,
		Errors:         nil,
		Message:        provider,
		ProviderErrors: nonNil(providerErrors),
		Attempts:       attempts,
	}
}

// NewNotFoundRecord builds a synthesized not-found record.
func NewNotFoundRecord(code Code, tag, message string, providerErrors []string, attempts []Attempt) *Record {
	return &Record{
		Code:           code,
		Errors:         []string{tag},
		Message:        message,
		ProviderErrors: nonNil(providerErrors),
		Attempts:       attempts,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
