package core

import "time"

// Metrics defines the interface for collecting scheduler execution metrics.
// Implementations can send metrics to monitoring systems (Prometheus, StatsD, etc.).
//
// Methods should be non-blocking and fast: several of them sit on the fiber
// scheduling path.
type Metrics interface {
	// RecordTaskDuration records how long a task body took to execute.
	RecordTaskDuration(duration time.Duration)

	// RecordTasksSubmitted records that n tasks were enqueued.
	RecordTasksSubmitted(n int)

	// RecordFiberParked records that a fiber was parked on the waiting list.
	RecordFiberParked()

	// RecordFiberRevived records that a parked fiber was revived.
	RecordFiberRevived()

	// RecordReadyQueueDepth records the current ready queue depth.
	// Called on submission; can also be polled via Stats.
	RecordReadyQueueDepth(depth int)
}

// NilMetrics provides a no-op metrics implementation that does nothing.
// This is the default when no metrics interface is provided.
type NilMetrics struct{}

func (m *NilMetrics) RecordTaskDuration(duration time.Duration) {}
func (m *NilMetrics) RecordTasksSubmitted(n int)                {}
func (m *NilMetrics) RecordFiberParked()                        {}
func (m *NilMetrics) RecordFiberRevived()                       {}
func (m *NilMetrics) RecordReadyQueueDepth(depth int)           {}

// SchedulerStats represents runtime observability state for a scheduler.
type SchedulerStats struct {
	Workers        int
	FibersTotal    int
	FibersIdle     int
	ReadyTasks     int
	WaitingTasks   int
	TasksSubmitted uint64
	TasksExecuted  uint64
	Quit           bool
}
