package core

import "time"

const (
	// DefaultFiberPoolSize is the number of pool fibers created at Initialize
	// when the config does not override it. The pool bounds how many tasks can
	// be simultaneously parked on counters; it is a tunable, not a constant of
	// correctness.
	DefaultFiberPoolSize = 25

	defaultIdleBackoff  = 200 * time.Microsecond
	defaultPoolWatchdog = 100 * time.Millisecond
)

// TaskSchedulerConfig controls scheduler construction.
type TaskSchedulerConfig struct {
	// FiberPoolSize is the fixed size of the fiber pool. 0 means
	// DefaultFiberPoolSize; negative values are rejected by Initialize.
	FiberPoolSize int

	// WorkerCount is the number of worker threads. 0 means one per detected
	// logical CPU.
	WorkerCount int

	// PinWorkers binds each worker thread to one logical CPU. Pin failure is
	// logged and tolerated.
	PinWorkers bool

	// IdleBackoff bounds how long an idle fiber blocks for a submission signal
	// before cycling back through the pool. The cycle is what keeps the
	// waiting-list scan running while the scheduler is otherwise idle.
	IdleBackoff time.Duration

	// PoolWatchdog is how long a fiber-pool acquisition may block before a
	// debug diagnostic is logged. 0 disables the watchdog.
	PoolWatchdog time.Duration

	// Logger for scheduler lifecycle events. Defaults to DefaultLogger.
	Logger Logger

	// Metrics sink. Defaults to NilMetrics.
	Metrics Metrics
}

// DefaultTaskSchedulerConfig returns the default configuration: one pinned
// worker per logical CPU and a pool of DefaultFiberPoolSize fibers.
func DefaultTaskSchedulerConfig() *TaskSchedulerConfig {
	return &TaskSchedulerConfig{
		FiberPoolSize: DefaultFiberPoolSize,
		PinWorkers:    true,
		IdleBackoff:   defaultIdleBackoff,
		PoolWatchdog:  defaultPoolWatchdog,
	}
}
