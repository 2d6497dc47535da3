package core

import "sync"

// waitingTask is a parked wait: a fiber (or an external, non-fiber waiter)
// conditioned on a counter reaching a target value.
//
// The counter pointer is a back-reference, not ownership — the waiter keeps
// the counter reachable for the duration of the park, the entry only needs it
// for the load in scanAndRevive.
type waitingTask struct {
	fiber   *fiber
	ready   chan struct{} // non-nil for external waiters; closed on revive
	counter *AtomicCounter
	target  uint32
}

// waitingList holds parked waits behind a single mutex. The lock is held only
// for list mutation; task execution never holds it.
//
// parkFiber is called only by the wait-park helpers. scanAndRevive is called
// by every fiber at the top of its entry loop, so as long as any worker keeps
// acquiring fibers, a satisfied wait is revived within one scheduling round.
type waitingList struct {
	mu    sync.Mutex
	tasks []waitingTask
}

func newWaitingList() *waitingList {
	return &waitingList{}
}

// parkFiber enlists a parked fiber. The fiber has already switched off its
// worker; only the wait-park helper calls this.
func (l *waitingList) parkFiber(f *fiber, counter *AtomicCounter, target uint32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.tasks = append(l.tasks, waitingTask{fiber: f, counter: counter, target: target})
}

// parkExternal enlists a waiter that is not running on a fiber and returns the
// channel to block on. If the counter already matches the channel comes back
// closed, so the caller never waits a full scheduling round for a wait that
// was satisfied before it was filed.
func (l *waitingList) parkExternal(counter *AtomicCounter, target uint32) <-chan struct{} {
	ready := make(chan struct{})

	l.mu.Lock()
	defer l.mu.Unlock()

	if counter.Load() == target {
		close(ready)
		return ready
	}
	l.tasks = append(l.tasks, waitingTask{ready: ready, counter: counter, target: target})
	return ready
}

// scanAndRevive removes every entry whose counter has reached its target, in
// list order. External waiters are released in place; revived fibers are
// returned in list order for the caller to run (first one directly, the rest
// through the ready queue).
func (l *waitingList) scanAndRevive() []*fiber {
	l.mu.Lock()
	defer l.mu.Unlock()

	var revived []*fiber
	kept := l.tasks[:0]
	for _, wt := range l.tasks {
		if wt.counter.Load() != wt.target {
			kept = append(kept, wt)
			continue
		}
		if wt.ready != nil {
			close(wt.ready)
			continue
		}
		revived = append(revived, wt.fiber)
	}
	// Zero the tail so dropped entries don't pin fibers or counters.
	for i := len(kept); i < len(l.tasks); i++ {
		l.tasks[i] = waitingTask{}
	}
	l.tasks = kept

	return revived
}

func (l *waitingList) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.tasks)
}
