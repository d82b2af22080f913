package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// CartMetrics counts cart operations by outcome.
type CartMetrics struct {
	operations *prometheus.CounterVec
}

// NewCartMetrics registers the cart metrics on the provided registerer.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_operations_total",
		Help: "Cart operations by operation and outcome.",
	}, []string{"operation", "outcome"})
	reg.MustRegister(operations)
	return &CartMetrics{operations: operations}
}

// Observe increments the counter for operation and outcome.
func (c *CartMetrics) Observe(operation, outcome string) {
	if c == nil || c.operations == nil {
		return
	}
	c.operations.WithLabelValues(normalizeLabel(operation), normalizeLabel(outcome)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
