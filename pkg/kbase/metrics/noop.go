package metrics

// NoopCollector is used when metrics are disabled.
type NoopCollector struct{}

// NewNoopCollector creates a no-op collector
func NewNoopCollector() *NoopCollector {
	return &NoopCollector{}
}

// RecordOperation does nothing
func (n *NoopCollector) RecordOperation(operation string) {}

// RecordEvent does nothing
func (n *NoopCollector) RecordEvent(event string, kind string) {}

// SetStoreCount does nothing
func (n *NoopCollector) SetStoreCount(kind string, count int) {}
