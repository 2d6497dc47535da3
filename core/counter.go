package core

import "sync/atomic"

// AtomicCounter tracks the number of outstanding tasks in a group.
//
// A counter is created by AddTask/AddTasks with an initial value equal to the
// group size. Each completing task decrements it by one. Fibers (and external
// callers) block until the counter reaches a target value via
// TaskScheduler.WaitForCounter.
//
// The submitter is responsible for matching decrements to the initial value;
// decrementing below zero wraps and is a caller bug.
type AtomicCounter struct {
	value atomic.Uint32
}

// NewCounter creates a counter with the given initial value.
func NewCounter(initial uint32) *AtomicCounter {
	c := &AtomicCounter{}
	c.value.Store(initial)
	return c
}

// Decrement atomically decrements the counter by one.
// Only the fiber that finished the counted task calls this; waiters never do.
func (c *AtomicCounter) Decrement() {
	c.value.Add(^uint32(0))
}

// Load returns the current counter value.
func (c *AtomicCounter) Load() uint32 {
	return c.value.Load()
}
