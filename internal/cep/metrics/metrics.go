package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"brasilsearch/internal/cep"
)

// Resolution outcomes recorded by IncrementOutcome.
const (
	OutcomeFound              = "found"
	OutcomeNotFound           = "not_found"
	OutcomeConnectivityError  = "connectivity_error"
	OutcomeServiceUnavailable = "service_unavailable"
	OutcomeInvalidInput       = "invalid_input"
	OutcomeCanceled           = "canceled"
)

// Metrics provides observability for postal-code resolution.
type Metrics struct {
	// Provider attempts by provider name and error kind ("none" on success)
	Attempts *prometheus.CounterVec

	// Provider round-trip latency
	AttemptLatency *prometheus.HistogramVec

	// Final resolution outcomes
	Outcomes *prometheus.CounterVec

	// Full resolution latency including inter-provider delays
	ResolveLatency prometheus.Histogram
}

// New creates the cep metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Attempts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "brasilsearch_cep_provider_attempts_total",
			Help: "Total provider attempts by provider and error kind",
		}, []string{"provider", "kind"}),

		AttemptLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "brasilsearch_cep_provider_duration_seconds",
			Help:    "Duration of a single provider request",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		}, []string{"provider"}),

		Outcomes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "brasilsearch_cep_resolutions_total",
			Help: "Total resolutions by outcome",
		}, []string{"outcome"}),

		ResolveLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "brasilsearch_cep_resolve_duration_seconds",
			Help:    "Duration of a full resolution across providers",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
	}
}

// ObserveAttempt records one provider attempt.
func (m *Metrics) ObserveAttempt(provider string, kind cep.ErrorKind, d time.Duration) {
	if m != nil {
		m.Attempts.WithLabelValues(provider, string(kind)).Inc()
		m.AttemptLatency.WithLabelValues(provider).Observe(d.Seconds())
	}
}

// IncrementOutcome records a resolution outcome.
func (m *Metrics) IncrementOutcome(outcome string) {
	if m != nil {
		m.Outcomes.WithLabelValues(outcome).Inc()
	}
}

// ObserveResolveLatency records the total resolution duration.
func (m *Metrics) ObserveResolveLatency(d time.Duration) {
	if m != nil {
		m.ResolveLatency.Observe(d.Seconds())
	}
}
