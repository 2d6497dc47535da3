package core

import "runtime"

// workerContext is the per-worker scheduling state: the thread-fiber park
// point and the request channels of the two helper fibers.
//
// The helpers are per-worker rather than shared for the same reason the
// original design uses per-thread helper fibers: two workers entering one
// shared helper at the same time would interleave on its state.
type workerContext struct {
	index int

	// threadResume is the thread-fiber: the worker goroutine parks here after
	// starting its first fiber, and control returns only at quit.
	threadResume chan struct{}

	// Helper request channels. Unbuffered: sending a request is the context
	// switch onto the helper.
	poolReturnCh chan switchRequest
	waitParkCh   chan parkRequest
}

// switchRequest asks the pool-return helper to put store back in the pool and
// resume next on this worker.
type switchRequest struct {
	store *fiber
	next  *fiber
}

// parkRequest asks the wait-park helper to enlist f on the waiting list and
// resume a fresh pool fiber on this worker.
type parkRequest struct {
	f       *fiber
	counter *AtomicCounter
	target  uint32
}

func newWorkerContext(index int) *workerContext {
	return &workerContext{
		index:        index,
		threadResume: make(chan struct{}),
		poolReturnCh: make(chan switchRequest),
		waitParkCh:   make(chan parkRequest),
	}
}

// workerLoop is the body of one worker thread. The goroutine is locked to an
// OS thread for the scheduler's lifetime and pinned to one logical CPU where
// the platform allows it; pinning failure is tolerated.
//
// The worker converts itself into a thread-fiber: it resumes an initial pool
// fiber and parks. From then on fibers hand the worker to each other through
// the helpers, and control returns here only when a fiber observes quit.
func (s *TaskScheduler) workerLoop(w *workerContext) {
	defer s.workerWG.Done()

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if s.cfg.PinWorkers {
		if err := pinCurrentThread(w.index); err != nil {
			s.logger.Warn("failed to pin worker thread; continuing unpinned",
				F("worker", w.index), F("error", err))
		}
	}

	first, ok := s.pool.get(s.quitCh)
	if !ok {
		return
	}
	first.resume <- w

	<-w.threadResume
}

// poolReturnHelper performs the store-then-switch for fibers leaving a worker:
// the departing fiber is pushed back to the pool only after it has committed
// to parking, then the successor is resumed on this worker.
//
// If the departing fiber published itself and then switched, another worker
// could pop it and resume it while it was still leaving; routing the store
// through the helper closes that window.
func (s *TaskScheduler) poolReturnHelper(w *workerContext) {
	defer s.helperWG.Done()

	for req := range w.poolReturnCh {
		s.pool.put(req.store)
		req.next.resume <- w
	}
}

// waitParkHelper parks fibers that are waiting on a counter: it enlists the
// departing fiber on the waiting list, then acquires a fresh fiber from the
// pool (blocking until one frees up) and resumes it on this worker. If quit
// fires while blocked on the pool, the worker's thread-fiber is resumed
// instead so the worker can exit.
func (s *TaskScheduler) waitParkHelper(w *workerContext) {
	defer s.helperWG.Done()

	for req := range w.waitParkCh {
		s.waiting.parkFiber(req.f, req.counter, req.target)
		s.metrics.RecordFiberParked()

		next, ok := s.pool.get(s.quitCh)
		if !ok {
			w.threadResume <- struct{}{}
			continue
		}
		next.resume <- w
	}
}
