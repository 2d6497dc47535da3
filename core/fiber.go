package core

import "time"

// fiber is a schedulable execution context with its own stack: a long-lived
// goroutine that runs the fiber entry loop and parks on its resume channel
// between activations.
//
// "Switching to" a fiber means sending the destination worker on its resume
// channel. The channel is unbuffered, so a switch is a rendezvous: the sender
// blocks until the fiber has actually parked. That rendezvous is what makes
// publication of a fiber to a shared structure safe — even if another worker
// pops the fiber before its previous occupant has finished leaving, the
// resume send simply waits for the park instead of waking a running fiber.
//
// A fiber is always in exactly one place: the pool, running on a worker, or
// parked on the waiting list.
type fiber struct {
	id int

	// resume carries the worker the fiber is being resumed on. Closed at
	// destroy time; a closed receive ends the fiber goroutine.
	resume chan *workerContext

	// ctx is the fiber's context bundle, handed to every task it executes.
	ctx *TaskContext
}

func newFiber(id int) *fiber {
	return &fiber{
		id:     id,
		resume: make(chan *workerContext),
	}
}

// fiberPool holds the idle fibers available for reuse. It is a fixed-capacity
// blocking MPMC queue: put never blocks (capacity equals the total number of
// pool fibers), get blocks until a fiber frees up or quit is observed.
//
// Fibers are returned to the pool only by the pool-return helper, after the
// departing fiber has switched off. A fiber never puts itself back.
type fiberPool struct {
	fibers   chan *fiber
	watchdog time.Duration
	logger   Logger
}

func newFiberPool(size int, watchdog time.Duration, logger Logger) *fiberPool {
	return &fiberPool{
		fibers:   make(chan *fiber, size),
		watchdog: watchdog,
		logger:   logger,
	}
}

func (p *fiberPool) put(f *fiber) {
	p.fibers <- f
}

// get pops an idle fiber, blocking until one is available. Returns false if
// quit fires while blocked. A pool that stays empty longer than the watchdog
// threshold is logged at debug level: it usually means the pool is smaller
// than the number of simultaneously-waiting tasks, which deadlocks by
// contract.
func (p *fiberPool) get(quitCh <-chan struct{}) (*fiber, bool) {
	select {
	case f := <-p.fibers:
		return f, true
	default:
	}

	if p.watchdog > 0 {
		timer := time.AfterFunc(p.watchdog, func() {
			p.logger.Debug("fiber pool exhausted; a pool smaller than the number of simultaneously-waiting tasks will deadlock",
				F("blocked_for", p.watchdog))
		})
		defer timer.Stop()
	}

	select {
	case f := <-p.fibers:
		return f, true
	case <-quitCh:
		return nil, false
	}
}

// idle reports how many fibers are currently pooled.
func (p *fiberPool) idle() int {
	return len(p.fibers)
}
