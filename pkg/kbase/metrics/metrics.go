package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// MetricsCollector provides Prometheus metrics for knowledge base operations
type MetricsCollector struct {
	operationsTotal *prometheus.CounterVec
	eventsTotal     *prometheus.CounterVec
	storeCount      *prometheus.GaugeVec
	registry        *prometheus.Registry
}

// NewCollector creates a new Prometheus metrics collector on a private registry
func NewCollector() *MetricsCollector {
	registry := prometheus.NewRegistry()

	operationsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kbase_operations_total",
			Help: "Total number of caller-facing knowledge base operations",
		},
		[]string{"operation"},
	)

	eventsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kbase_events_total",
			Help: "Total number of store mutations by event and item kind",
		},
		[]string{"event", "kind"},
	)

	storeCount := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "kbase_store_count",
			Help: "Current number of stored items by kind",
		},
		[]string{"kind"},
	)

	registry.MustRegister(operationsTotal)
	registry.MustRegister(eventsTotal)
	registry.MustRegister(storeCount)

	return &MetricsCollector{
		operationsTotal: operationsTotal,
		eventsTotal:     eventsTotal,
		storeCount:      storeCount,
		registry:        registry,
	}
}

// RecordOperation counts a caller-facing operation
func (m *MetricsCollector) RecordOperation(operation string) {
	m.operationsTotal.WithLabelValues(operation).Inc()
}

// RecordEvent counts a store mutation
func (m *MetricsCollector) RecordEvent(event string, kind string) {
	m.eventsTotal.WithLabelValues(event, kind).Inc()
}

// SetStoreCount sets the current count for an item kind
func (m *MetricsCollector) SetStoreCount(kind string, count int) {
	m.storeCount.WithLabelValues(kind).Set(float64(count))
}

// Registry returns the Prometheus registry for HTTP exposure
func (m *MetricsCollector) Registry() *prometheus.Registry {
	return m.registry
}
