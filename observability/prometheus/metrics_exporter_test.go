package prometheus

import (
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// TestMetricsExporter_Records tests collector updates
// Main test items:
// 1. Counters accumulate recorded events
// 2. The ready-depth gauge tracks the latest value
func TestMetricsExporter_Records(t *testing.T) {
	reg := prom.NewRegistry()
	m, err := NewMetricsExporter("test", reg, ExporterOptions{})
	if err != nil {
		t.Fatalf("NewMetricsExporter failed: %v", err)
	}

	m.RecordTasksSubmitted(5)
	m.RecordTasksSubmitted(2)
	m.RecordFiberParked()
	m.RecordFiberRevived()
	m.RecordFiberRevived()
	m.RecordReadyQueueDepth(9)
	m.RecordReadyQueueDepth(3)
	m.RecordTaskDuration(10 * time.Millisecond)

	if got := testutil.ToFloat64(m.tasksSubmittedTotal); got != 7 {
		t.Errorf("Expected 7 submitted, got %v", got)
	}
	if got := testutil.ToFloat64(m.fibersParkedTotal); got != 1 {
		t.Errorf("Expected 1 parked, got %v", got)
	}
	if got := testutil.ToFloat64(m.fibersRevivedTotal); got != 2 {
		t.Errorf("Expected 2 revived, got %v", got)
	}
	if got := testutil.ToFloat64(m.readyQueueDepth); got != 3 {
		t.Errorf("Expected depth gauge 3, got %v", got)
	}
	if got := testutil.CollectAndCount(m.taskDurationSeconds); got != 1 {
		t.Errorf("Expected 1 histogram metric, got %d", got)
	}
}

// TestMetricsExporter_ReregisterReusesCollectors tests duplicate registration
func TestMetricsExporter_ReregisterReusesCollectors(t *testing.T) {
	reg := prom.NewRegistry()
	first, err := NewMetricsExporter("dup", reg, ExporterOptions{})
	if err != nil {
		t.Fatalf("First registration failed: %v", err)
	}
	second, err := NewMetricsExporter("dup", reg, ExporterOptions{})
	if err != nil {
		t.Fatalf("Second registration failed: %v", err)
	}

	first.RecordTasksSubmitted(1)
	second.RecordTasksSubmitted(1)
	if got := testutil.ToFloat64(second.tasksSubmittedTotal); got != 2 {
		t.Errorf("Expected shared collector with value 2, got %v", got)
	}
}

// TestMetricsExporter_NilReceiver tests nil-safety of record methods
func TestMetricsExporter_NilReceiver(t *testing.T) {
	var m *MetricsExporter
	m.RecordTaskDuration(time.Second)
	m.RecordTasksSubmitted(1)
	m.RecordFiberParked()
	m.RecordFiberRevived()
	m.RecordReadyQueueDepth(1)
}
