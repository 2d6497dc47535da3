package core

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pakoito/FiberTaskingLib/taggedheap"
)

// TaskScheduler enables task-based multithreading on top of fibers.
//
// Worker threads, one per logical CPU, execute tasks on fibers drawn from a
// fixed pool. A task that waits on a counter parks its fiber on the waiting
// list instead of blocking the thread; the thread picks up another fiber and
// keeps working. Parked fibers are revived by the waiting-list scan that every
// fiber performs when it acquires a worker.
//
// Lifecycle: NewTaskScheduler, Initialize, AddTask/AddTasks/WaitForCounter
// while running, Quit. Submitting or waiting outside the running state panics.
type TaskScheduler struct {
	cfg     TaskSchedulerConfig
	logger  Logger
	metrics Metrics

	ready   *readyQueue
	waiting *waitingList
	pool    *fiberPool

	// signal wakes idle fibers when work is submitted. Buffered; sends are
	// best-effort hints, the queue itself is authoritative.
	signal chan struct{}

	quit   atomic.Bool
	quitCh chan struct{}

	initialized atomic.Bool
	quitOnce    sync.Once

	workers []*workerContext
	fibers  []*fiber

	workerWG sync.WaitGroup
	helperWG sync.WaitGroup
	fiberWG  sync.WaitGroup

	tasksSubmitted  atomic.Uint64
	tasksExecuted   atomic.Uint64
	fibersDestroyed atomic.Int32
}

// NewTaskScheduler creates an uninitialized scheduler. Call Initialize before
// submitting work. A nil config uses DefaultTaskSchedulerConfig.
func NewTaskScheduler(cfg *TaskSchedulerConfig) *TaskScheduler {
	if cfg == nil {
		cfg = DefaultTaskSchedulerConfig()
	}
	s := &TaskScheduler{
		cfg: *cfg,
	}
	if s.cfg.FiberPoolSize == 0 {
		s.cfg.FiberPoolSize = DefaultFiberPoolSize
	}
	if s.cfg.IdleBackoff <= 0 {
		s.cfg.IdleBackoff = defaultIdleBackoff
	}
	s.logger = s.cfg.Logger
	if s.logger == nil {
		s.logger = NewDefaultLogger()
	}
	s.metrics = s.cfg.Metrics
	if s.metrics == nil {
		s.metrics = &NilMetrics{}
	}
	return s
}

// Initialize creates the fiber pool and spawns worker threads for each
// logical CPU core (or cfg.WorkerCount if set). Each worker thread is
// affinity bound to a single core where the platform supports it.
//
// heap and allocator are opaque to the scheduler; they are wired into the
// context bundle handed to every task and may be nil if tasks do not use them.
//
// Calling Initialize twice panics.
func (s *TaskScheduler) Initialize(heap *taggedheap.TaggedHeap, allocator *taggedheap.LinearAllocator) error {
	if !s.initialized.CompareAndSwap(false, true) {
		panic("fibertasking: TaskScheduler.Initialize called twice")
	}
	if s.cfg.FiberPoolSize < 1 {
		s.initialized.Store(false)
		return fmt.Errorf("fiber pool size must be at least 1, got %d", s.cfg.FiberPoolSize)
	}
	if s.cfg.WorkerCount < 0 {
		s.initialized.Store(false)
		return fmt.Errorf("worker count must not be negative, got %d", s.cfg.WorkerCount)
	}

	workerCount := s.cfg.WorkerCount
	if workerCount == 0 {
		workerCount = runtime.NumCPU()
	}

	s.ready = newReadyQueue()
	s.waiting = newWaitingList()
	s.pool = newFiberPool(s.cfg.FiberPoolSize, s.cfg.PoolWatchdog, s.logger)
	s.signal = make(chan struct{}, workerCount*2)
	s.quitCh = make(chan struct{})

	s.fibers = make([]*fiber, s.cfg.FiberPoolSize)
	for i := range s.fibers {
		f := newFiber(i)
		f.ctx = &TaskContext{
			Scheduler: s,
			Heap:      heap,
			Allocator: allocator,
			fiber:     f,
		}
		s.fibers[i] = f
		s.fiberWG.Add(1)
		go s.fiberLoop(f)
		s.pool.put(f)
	}

	s.workers = make([]*workerContext, workerCount)
	for i := range s.workers {
		w := newWorkerContext(i)
		s.workers[i] = w

		s.helperWG.Add(2)
		go s.poolReturnHelper(w)
		go s.waitParkHelper(w)

		s.workerWG.Add(1)
		go s.workerLoop(w)
	}

	s.logger.Info("task scheduler started",
		F("workers", workerCount),
		F("fiber_pool_size", s.cfg.FiberPoolSize),
		F("pin_workers", s.cfg.PinWorkers))
	return nil
}

// AddTask adds a task to the ready queue and returns its counter. The counter
// starts at 1 and is decremented when the task completes.
func (s *TaskScheduler) AddTask(task Task) *AtomicCounter {
	s.checkRunning("AddTask")

	counter := NewCounter(1)
	s.ready.Push(readyItem{bundle: &TaskBundle{Task: task, Counter: counter}})
	s.tasksSubmitted.Add(1)
	s.metrics.RecordTasksSubmitted(1)
	s.metrics.RecordReadyQueueDepth(s.ready.Len())
	s.signalOne()
	return counter
}

// AddTasks adds a group of tasks to the ready queue and returns the group
// counter. The counter starts at len(tasks) and is decremented as each task
// completes; it is returned only after every bundle is enqueued, so callers
// may immediately wait on it.
func (s *TaskScheduler) AddTasks(tasks []Task) *AtomicCounter {
	s.checkRunning("AddTasks")

	counter := NewCounter(uint32(len(tasks)))
	for _, task := range tasks {
		s.ready.Push(readyItem{bundle: &TaskBundle{Task: task, Counter: counter}})
		s.signalOne()
	}
	s.tasksSubmitted.Add(uint64(len(tasks)))
	s.metrics.RecordTasksSubmitted(len(tasks))
	s.metrics.RecordReadyQueueDepth(s.ready.Len())
	return counter
}

// WaitForCounter yields execution until counter == target.
//
// Called from a task (tc non-nil), it parks the current fiber on the waiting
// list through the wait-park helper and returns once a worker revives the
// fiber; the worker thread is never blocked. Called from outside a task
// (tc nil), it blocks the calling goroutine until the scan releases it.
//
// Returning immediately when the counter already matches means no fiber
// switch and no waiting-list traffic on the fast path.
func (s *TaskScheduler) WaitForCounter(tc *TaskContext, counter *AtomicCounter, target uint32) {
	s.checkRunning("WaitForCounter")

	if counter.Load() == target {
		return
	}

	if tc == nil || tc.fiber == nil {
		<-s.waiting.parkExternal(counter, target)
		return
	}

	if tc.Scheduler != s {
		panic("fibertasking: WaitForCounter called with a TaskContext from a different scheduler")
	}

	tc.worker.waitParkCh <- parkRequest{f: tc.fiber, counter: counter, target: target}
	w, ok := <-tc.fiber.resume
	if !ok {
		panic("fibertasking: scheduler destroyed while a fiber was parked on a counter")
	}
	tc.worker = w
}

// Quit tells all worker threads to quit, waits for them to exit, then destroys
// all fibers and helpers. Any currently running task finishes before its
// worker returns; queued tasks that never ran are dropped. Quit is idempotent
// and must not be called from inside a task.
func (s *TaskScheduler) Quit() {
	if !s.initialized.Load() {
		panic("fibertasking: Quit called before Initialize")
	}

	s.quitOnce.Do(func() {
		s.quit.Store(true)
		close(s.quitCh)

		// Each worker's current fiber observes the flag at its next pool
		// acquisition or loop iteration and switches back to the thread-fiber.
		s.workerWG.Wait()

		for _, f := range s.fibers {
			close(f.resume)
		}
		s.fiberWG.Wait()

		for _, w := range s.workers {
			close(w.poolReturnCh)
			close(w.waitParkCh)
		}
		s.helperWG.Wait()

		s.logger.Info("task scheduler stopped",
			F("tasks_executed", s.tasksExecuted.Load()))
	})
}

// Stats returns a snapshot of scheduler state for observability.
func (s *TaskScheduler) Stats() SchedulerStats {
	stats := SchedulerStats{
		Workers:        len(s.workers),
		FibersTotal:    len(s.fibers),
		TasksSubmitted: s.tasksSubmitted.Load(),
		TasksExecuted:  s.tasksExecuted.Load(),
		Quit:           s.quit.Load(),
	}
	if s.pool != nil {
		stats.FibersIdle = s.pool.idle()
	}
	if s.ready != nil {
		stats.ReadyTasks = s.ready.Len()
	}
	if s.waiting != nil {
		stats.WaitingTasks = s.waiting.Len()
	}
	return stats
}

// WorkerCount returns the number of worker threads.
func (s *TaskScheduler) WorkerCount() int {
	return len(s.workers)
}

func (s *TaskScheduler) checkRunning(op string) {
	if !s.initialized.Load() {
		panic("fibertasking: " + op + " called before Initialize")
	}
	if s.quit.Load() {
		panic("fibertasking: " + op + " called after Quit")
	}
}

func (s *TaskScheduler) signalOne() {
	select {
	case s.signal <- struct{}{}:
	default:
		// Signal channel full; an idle fiber will pick the task up anyway.
	}
}

// fiberLoop is the entry loop every pool fiber runs.
//
// Each activation is one scheduling round on the worker received from the
// resume channel: observe quit, prefer reviving a parked waiter over starting
// fresh work, otherwise execute one ready task, then leave the worker through
// the pool-return helper with a successor fiber. Reviving before popping is
// what keeps parked tasks from starving under continuous submission.
func (s *TaskScheduler) fiberLoop(f *fiber) {
	defer func() {
		s.fibersDestroyed.Add(1)
		s.fiberWG.Done()
	}()

	for {
		w, ok := <-f.resume
		if !ok {
			return
		}
		f.ctx.worker = w

		if s.quit.Load() {
			w.threadResume <- struct{}{}
			continue
		}

		// Parked work first; fresh tasks wait a round.
		successor := s.reviveWaiters()
		if successor == nil {
			if item, popped := s.ready.TryPop(); popped {
				if item.resume != nil {
					successor = item.resume
				} else {
					s.runTask(f, item.bundle)
					// The decrement may have readied a parked waiter. Hand
					// the worker to it directly rather than racing the pool
					// for a successor: with every pool fiber parked, a pool
					// acquisition here would never complete.
					successor = s.reviveWaiters()
				}
			} else {
				// Brief backoff; quit and new work are re-checked on the
				// next round after the fiber cycles through the pool.
				select {
				case <-s.signal:
				case <-s.quitCh:
				case <-time.After(s.cfg.IdleBackoff):
				}
			}
		}

		// The worker may have changed while the task waited on a counter.
		w = f.ctx.worker

		if successor == nil {
			next, acquired := s.pool.get(s.quitCh)
			if !acquired {
				w.threadResume <- struct{}{}
				continue
			}
			successor = next
		}

		w.poolReturnCh <- switchRequest{store: f, next: successor}
	}
}

// reviveWaiters scans the waiting list and claims the first revived fiber for
// direct handoff. Any further revived fibers are pushed to the front of the
// ready queue, preserving list order, for other workers to pick up.
func (s *TaskScheduler) reviveWaiters() *fiber {
	revived := s.waiting.scanAndRevive()
	if len(revived) == 0 {
		return nil
	}
	if rest := revived[1:]; len(rest) > 0 {
		items := make([]readyItem, len(rest))
		for i, r := range rest {
			items[i] = readyItem{resume: r}
		}
		s.ready.PushFront(items)
		for range rest {
			s.signalOne()
		}
	}
	for range revived {
		s.metrics.RecordFiberRevived()
	}
	return revived[0]
}

// runTask executes one task body on this fiber and decrements its counter.
// Panics are deliberately not recovered: tasks are required to be total, and a
// failing task body aborts the process.
func (s *TaskScheduler) runTask(f *fiber, bundle *TaskBundle) {
	start := time.Now()
	bundle.Task.Function(f.ctx, bundle.Task.ArgData)
	bundle.Counter.Decrement()
	s.tasksExecuted.Add(1)
	s.metrics.RecordTaskDuration(time.Since(start))
}
