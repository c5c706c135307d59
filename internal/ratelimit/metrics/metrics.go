package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Decisions recorded by IncrementDecision.
const (
	DecisionAllowed = "allowed"
	DecisionDenied  = "denied"
	DecisionError   = "error"
)

type Metrics struct {
	Decisions   *prometheus.CounterVec
	StoreErrors *prometheus.CounterVec
	Degraded    prometheus.Gauge
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Decisions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "brasilsearch_ratelimit_decisions_total",
			Help: "Rate limit decisions by outcome",
		}, []string{"decision"}),
		StoreErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "brasilsearch_ratelimit_store_errors_total",
			Help: "Rate limit store failures by store",
		}, []string{"store"}),
		Degraded: f.NewGauge(prometheus.GaugeOpts{
			Name: "brasilsearch_ratelimit_degraded",
			Help: "1 while the limiter runs on the in-memory fallback",
		}),
	}
}

func (m *Metrics) IncrementDecision(decision string) {
	if m == nil {
		return
	}
	m.Decisions.WithLabelValues(decision).Inc()
}

func (m *Metrics) IncrementStoreError(store string) {
	if m == nil {
		return
	}
	m.StoreErrors.WithLabelValues(store).Inc()
}

func (m *Metrics) SetDegraded(degraded bool) {
	if m == nil {
		return
	}
	if degraded {
		m.Degraded.Set(1)
		return
	}
	m.Degraded.Set(0)
}
