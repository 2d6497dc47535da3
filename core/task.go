package core

import "github.com/pakoito/FiberTaskingLib/taggedheap"

// TaskFunc is the entry point of a task.
//
// The scheduler never inspects arg; it is copied at submission and handed back
// verbatim. tc is the context bundle for the fiber the task runs on — the
// scheduler handle plus the heap and allocator handles wired in at Initialize.
// Tasks submit follow-up work and wait on counters through tc.
type TaskFunc func(tc *TaskContext, arg any)

// Task is the unit of work: an opaque function plus an opaque argument.
// Tasks are value-copied on submission; ownership of ArgData stays with the
// submitter.
type Task struct {
	Function TaskFunc
	ArgData  any
}

// TaskBundle pairs a submitted task with the counter for its group.
// The counter is decremented after the task body returns.
type TaskBundle struct {
	Task    Task
	Counter *AtomicCounter
}

// TaskContext is the handle record threaded through every task invocation.
// There is one per fiber, created at Initialize, and its layout is stable for
// the scheduler's lifetime. It replaces process-global state: the scheduler,
// heap, and allocator are reachable only through it.
type TaskContext struct {
	Scheduler *TaskScheduler
	Heap      *taggedheap.TaggedHeap
	Allocator *taggedheap.LinearAllocator

	// Scheduling state for the owning fiber. worker tracks which worker the
	// fiber currently occupies and is rewritten at every resume point.
	fiber  *fiber
	worker *workerContext
}

// AddTask submits a single task. See TaskScheduler.AddTask.
func (tc *TaskContext) AddTask(t Task) *AtomicCounter {
	return tc.Scheduler.AddTask(t)
}

// AddTasks submits a task group. See TaskScheduler.AddTasks.
func (tc *TaskContext) AddTasks(tasks []Task) *AtomicCounter {
	return tc.Scheduler.AddTasks(tasks)
}

// WaitForCounter parks the current fiber until counter == target.
// See TaskScheduler.WaitForCounter.
func (tc *TaskContext) WaitForCounter(counter *AtomicCounter, target uint32) {
	tc.Scheduler.WaitForCounter(tc, counter, target)
}

// FiberID identifies the fiber this context belongs to. IDs are stable for the
// scheduler's lifetime and unique across the pool.
func (tc *TaskContext) FiberID() int {
	if tc == nil || tc.fiber == nil {
		return -1
	}
	return tc.fiber.id
}

// WorkerIndex reports the worker the fiber is currently running on.
func (tc *TaskContext) WorkerIndex() int {
	if tc == nil || tc.worker == nil {
		return -1
	}
	return tc.worker.index
}
