// Package contract holds reusable test suites that every postal-code
// adapter must pass.
package contract

import (
	"strings"
	"testing"
	"time"

	"brasilsearch/internal/cep"
	"brasilsearch/internal/cep/providers"
)

// Fixture is a canned provider response and the outcome it must produce.
type Fixture struct {
	Name   string
	Status int
	Body   string

	// Exactly one of Expect or ExpectKind is set.
	Expect     *cep.Fields
	ExpectKind cep.ErrorKind
}

// Suite runs fixtures through providers.Evaluate for one adapter.
type Suite struct {
	Adapter  providers.Adapter
	Code     cep.Code
	Fixtures []Fixture
}

// Run executes every fixture as a subtest.
func (s *Suite) Run(t *testing.T) {
	t.Helper()
	for _, fx := range s.Fixtures {
		t.Run(fx.Name, func(t *testing.T) {
			fields, err := providers.Evaluate(s.Adapter, fx.Status, []byte(fx.Body), s.Code)

			if fx.Expect == nil {
				if err == nil {
					t.Fatalf("expected %s failure, got fields %+v", fx.ExpectKind, fields)
				}
				if kind := providers.KindOf(err); kind != fx.ExpectKind {
					t.Fatalf("expected kind %s, got %s (%v)", fx.ExpectKind, kind, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected failure: %v", err)
			}
			assertFields(t, *fx.Expect, fields)
		})
	}
}

func assertFields(t *testing.T, want, got cep.Fields) {
	t.Helper()
	if got.Code != want.Code {
		t.Errorf("code: expected %q, got %q", want.Code, got.Code)
	}
	if got.City != want.City {
		t.Errorf("city: expected %q, got %q", want.City, got.City)
	}
	if got.Neighborhood != want.Neighborhood {
		t.Errorf("neighborhood: expected %q, got %q", want.Neighborhood, got.Neighborhood)
	}
	if got.State != want.State {
		t.Errorf("state: expected %q, got %q", want.State, got.State)
	}
	if got.Street != want.Street {
		t.Errorf("street: expected %q, got %q", want.Street, got.Street)
	}
	if got.Location == nil {
		t.Errorf("location must never be nil on a successful normalization")
		return
	}
	if want.Location != nil {
		assertCoordinate(t, "longitude", want.Location.Longitude, got.Location.Longitude)
		assertCoordinate(t, "latitude", want.Location.Latitude, got.Location.Latitude)
	}
}

func assertCoordinate(t *testing.T, name string, want, got *float64) {
	t.Helper()
	switch {
	case want == nil && got != nil:
		t.Errorf("%s: expected null, got %v", name, *got)
	case want != nil && got == nil:
		t.Errorf("%s: expected %v, got null", name, *want)
	case want != nil && *want != *got:
		t.Errorf("%s: expected %v, got %v", name, *want, *got)
	}
}

// DescriptorTest validates the static configuration of an adapter.
type DescriptorTest struct {
	Adapter providers.Adapter
}

// Run checks name, timeout bounds, headers and URL construction.
func (d *DescriptorTest) Run(t *testing.T) {
	t.Helper()
	a := d.Adapter

	if a.Name() == "" {
		t.Error("name not set")
	}
	if to := a.Timeout(); to < 12*time.Second || to > 18*time.Second {
		t.Errorf("timeout %s outside the 12s-18s provider budget", to)
	}
	if got := a.Headers().Get("Accept"); got != "application/json" {
		t.Errorf("expected Accept: application/json, got %q", got)
	}
	if a.Headers().Get("Authorization") != "" {
		t.Error("adapters must not send credentials")
	}

	h := a.Headers()
	h.Set("X-Mutated", "1")
	if a.Headers().Get("X-Mutated") != "" {
		t.Error("Headers must return a fresh copy")
	}

	code := cep.MustParseCode("01001000")
	if u := a.URL(code); !strings.Contains(u, code.String()) {
		t.Errorf("URL %q does not contain the code", u)
	}
}
