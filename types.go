package fibertasking

import (
	"github.com/pakoito/FiberTaskingLib/core"
	"github.com/pakoito/FiberTaskingLib/taggedheap"
)

// Re-export commonly used types from core package for convenience.
// This allows users to import only the fibertasking package for most use cases.

// Task is the unit of work (opaque function plus opaque argument)
type Task = core.Task

// TaskFunc is the entry point signature of a task
type TaskFunc = core.TaskFunc

// TaskContext is the context bundle threaded through every task invocation
type TaskContext = core.TaskContext

// AtomicCounter tracks outstanding tasks in a group
type AtomicCounter = core.AtomicCounter

// TaskScheduler is the fiber-based scheduler
type TaskScheduler = core.TaskScheduler

// TaskSchedulerConfig controls scheduler construction
type TaskSchedulerConfig = core.TaskSchedulerConfig

// SchedulerStats is the observability snapshot returned by Stats
type SchedulerStats = core.SchedulerStats

// Logger is the structured logging interface used by the scheduler
type Logger = core.Logger

// Metrics is the metrics sink interface used by the scheduler
type Metrics = core.Metrics

// DefaultFiberPoolSize is the default size of the fiber pool.
const DefaultFiberPoolSize = core.DefaultFiberPoolSize

// Convenience constructors re-exported from core
var (
	NewTaskScheduler           = core.NewTaskScheduler
	NewCounter                 = core.NewCounter
	DefaultTaskSchedulerConfig = core.DefaultTaskSchedulerConfig
	NewDefaultLogger           = core.NewDefaultLogger
	NewNoOpLogger              = core.NewNoOpLogger
)

// Bootstrap wires together a scheduler, a tagged heap, and a linear allocator
// bound to allocTag, and initializes the scheduler with them. This is the
// common setup for drivers that thread frame-scoped allocations through the
// context bundle.
func Bootstrap(cfg *TaskSchedulerConfig, heapPageSize int, allocTag uint64) (*TaskScheduler, *taggedheap.TaggedHeap, *taggedheap.LinearAllocator, error) {
	heap := taggedheap.New(heapPageSize)
	allocator := &taggedheap.LinearAllocator{}
	allocator.Init(heap, allocTag)

	scheduler := core.NewTaskScheduler(cfg)
	if err := scheduler.Initialize(heap, allocator); err != nil {
		return nil, nil, nil, err
	}
	return scheduler, heap, allocator, nil
}
