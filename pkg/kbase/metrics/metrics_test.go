package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsCollector_RecordOperation(t *testing.T) {
	collector := NewCollector()

	collector.RecordOperation("assert")
	collector.RecordOperation("assert")
	collector.RecordOperation("retract")

	if got := testutil.CollectAndCount(collector.operationsTotal); got != 2 {
		t.Errorf("expected 2 metric series (assert, retract), got %d", got)
	}

	asserts := testutil.ToFloat64(collector.operationsTotal.WithLabelValues("assert"))
	if asserts != 2 {
		t.Errorf("expected 2 assert operations, got %f", asserts)
	}
}

func TestMetricsCollector_RecordEvent(t *testing.T) {
	collector := NewCollector()

	collector.RecordEvent("derive", "fact")
	collector.RecordEvent("derive", "rule")
	collector.RecordEvent("derive", "fact")

	if got := testutil.ToFloat64(collector.eventsTotal.WithLabelValues("derive", "fact")); got != 2 {
		t.Errorf("expected 2 derived facts, got %f", got)
	}
	if got := testutil.ToFloat64(collector.eventsTotal.WithLabelValues("derive", "rule")); got != 1 {
		t.Errorf("expected 1 derived rule, got %f", got)
	}
}

func TestMetricsCollector_SetStoreCount(t *testing.T) {
	collector := NewCollector()

	collector.SetStoreCount("fact", 10)
	collector.SetStoreCount("fact", 7)

	if got := testutil.ToFloat64(collector.storeCount.WithLabelValues("fact")); got != 7 {
		t.Errorf("expected gauge 7, got %f", got)
	}
}

func TestMetricsCollector_Registry(t *testing.T) {
	collector := NewCollector()
	collector.RecordOperation("ask")

	families, err := collector.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	if len(families) == 0 {
		t.Error("expected gathered metric families")
	}
}

func TestNoopCollector_ImplementsInterface(t *testing.T) {
	var c Collector = NewNoopCollector()
	c.RecordOperation("assert")
	c.RecordEvent("derive", "fact")
	c.SetStoreCount("rule", 3)
}
