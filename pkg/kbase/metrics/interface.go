package metrics

// Collector is the interface for knowledge base metrics.
// Implementations include the Prometheus-backed collector and a no-op collector.
type Collector interface {
	// RecordOperation counts a caller-facing operation: assert, retract, retract_rule, ask.
	RecordOperation(operation string)
	// RecordEvent counts a store mutation (derive, merge, remove...) for a kind of item.
	RecordEvent(event string, kind string)
	// SetStoreCount sets the current number of stored items of a kind.
	SetStoreCount(kind string, count int)
}
