// Package fibertasking provides a fiber-based task scheduler for CPU-bound
// parallel workloads.
//
// The design follows the tasking model popularized by Christian Gyrling's 2015
// GDC talk "Parallelizing the Naughty Dog Engine Using Fibers": worker threads
// pinned to individual CPU cores execute short tasks on fibers drawn from a
// fixed pool. When a task waits for a counter to reach a value, its fiber is
// parked rather than blocking the thread, freeing the thread to pick up
// another ready fiber.
//
// # Quick Start
//
// Create and initialize a scheduler, submit a group, wait on its counter:
//
//	scheduler := fibertasking.NewTaskScheduler(nil)
//	if err := scheduler.Initialize(nil, nil); err != nil {
//		log.Fatal(err)
//	}
//	defer scheduler.Quit()
//
//	tasks := make([]fibertasking.Task, 10)
//	for i := range tasks {
//		tasks[i] = fibertasking.Task{Function: func(tc *fibertasking.TaskContext, arg any) {
//			// Your code here
//		}}
//	}
//	counter := scheduler.AddTasks(tasks)
//	scheduler.WaitForCounter(nil, counter, 0)
//
// # Key Concepts
//
// Task: an opaque (function, argument) unit of work executed to completion on
// a fiber. The function receives a TaskContext — the scheduler handle plus the
// tagged-heap and allocator handles — and may itself submit tasks and wait.
//
// AtomicCounter: tracks outstanding tasks in a group. AddTasks returns a
// counter equal to the group size; each completing task decrements it.
// WaitForCounter called from a task parks the calling fiber until the counter
// reaches the target; the worker thread keeps executing other fibers.
//
// TaskContext: the handle record threaded through every task invocation.
// There are no process globals — the context bundle is the only channel to the
// scheduler, heap, and allocator.
//
// # Waiting inside tasks
//
//	func outer(tc *fibertasking.TaskContext, arg any) {
//		inner := make([]fibertasking.Task, 10)
//		// ... fill inner ...
//		counter := tc.AddTasks(inner)
//		tc.WaitForCounter(counter, 0) // parks this fiber, not the thread
//	}
//
// Tasks are required to be total: a panicking task body aborts the process.
// Waits never time out and tasks are never cancelled.
package fibertasking
