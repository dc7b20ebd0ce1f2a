package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SagaMetrics counts order saga outcomes and compensation activity.
type SagaMetrics struct {
	Outcomes             *prometheus.CounterVec
	CompensationAttempts *prometheus.CounterVec
}

// NewSagaMetrics registers the saga collectors on reg. Pass
// prometheus.DefaultRegisterer from main; tests hand in a fresh registry.
func NewSagaMetrics(reg prometheus.Registerer, service string) *SagaMetrics {
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bazaar",
		Subsystem: service,
		Name:      "order_create_outcomes_total",
		Help:      "Terminal outcomes of order creation sagas.",
	}, []string{"outcome"})
	compensations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bazaar",
		Subsystem: service,
		Name:      "compensation_attempts_total",
		Help:      "Inventory restock attempts triggered by saga compensation.",
	}, []string{"result"})

	reg.MustRegister(outcomes, compensations)
	return &SagaMetrics{Outcomes: outcomes, CompensationAttempts: compensations}
}

func (m *SagaMetrics) CountOutcome(outcome string) {
	if m == nil {
		return
	}
	m.Outcomes.WithLabelValues(outcome).Inc()
}

func (m *SagaMetrics) CountCompensation(failed bool) {
	if m == nil {
		return
	}
	result := "ok"
	if failed {
		result = "failed"
	}
	m.CompensationAttempts.WithLabelValues(result).Inc()
}

func Handler() http.Handler {
	return promhttp.Handler()
}
