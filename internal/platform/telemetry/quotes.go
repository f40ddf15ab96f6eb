package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Operation result labels.
const (
	ResultOK       = "ok"
	ResultNotFound = "not_found"
	ResultIgnored  = "ignored"
	ResultError    = "error"
)

// QuoteMetrics exposes quote store activity to Prometheus.
type QuoteMetrics struct {
	operations *prometheus.CounterVec
	stored     prometheus.Gauge
}

// NewQuoteMetrics registers the quote collectors with reg.
// Pass prometheus.DefaultRegisterer to expose them on /-/metrics.
func NewQuoteMetrics(reg prometheus.Registerer) *QuoteMetrics {
	factory := promauto.With(reg)

	return &QuoteMetrics{
		operations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "quotes_operations_total",
			Help: "Quote operations by operation and result.",
		}, []string{"operation", "result"}),
		stored: factory.NewGauge(prometheus.GaugeOpts{
			Name: "quotes_stored",
			Help: "Number of quotes currently held in memory.",
		}),
	}
}

// RecordOperation implements ports.QuoteMetrics.
func (m *QuoteMetrics) RecordOperation(operation, result string) {
	m.operations.WithLabelValues(operation, result).Inc()
}

// SetStored implements ports.QuoteMetrics.
func (m *QuoteMetrics) SetStored(count int) {
	m.stored.Set(float64(count))
}
