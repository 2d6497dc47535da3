package prometheus

import (
	"context"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/pakoito/FiberTaskingLib/core"
)

// SchedulerSnapshotProvider provides current scheduler stats snapshots.
type SchedulerSnapshotProvider interface {
	Stats() core.SchedulerStats
}

// SnapshotPoller periodically exports scheduler Stats() snapshots into
// Prometheus gauges.
type SnapshotPoller struct {
	interval time.Duration

	schedulersMu sync.RWMutex
	schedulers   map[string]SchedulerSnapshotProvider

	workers        *prom.GaugeVec
	fibersTotal    *prom.GaugeVec
	fibersIdle     *prom.GaugeVec
	readyTasks     *prom.GaugeVec
	waitingTasks   *prom.GaugeVec
	tasksSubmitted *prom.GaugeVec
	tasksExecuted  *prom.GaugeVec
	quit           *prom.GaugeVec

	stateMu sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewSnapshotPoller creates a snapshot poller and registers its collectors.
func NewSnapshotPoller(reg prom.Registerer, interval time.Duration) (*SnapshotPoller, error) {
	if reg == nil {
		reg = prom.DefaultRegisterer
	}
	if interval <= 0 {
		interval = time.Second
	}

	labels := []string{"scheduler"}
	newGauge := func(name, help string) *prom.GaugeVec {
		return prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: "fibertasking",
			Name:      name,
			Help:      help,
		}, labels)
	}

	workers := newGauge("scheduler_workers", "Worker thread count.")
	fibersTotal := newGauge("scheduler_fibers_total", "Total pool fibers.")
	fibersIdle := newGauge("scheduler_fibers_idle", "Fibers currently idle in the pool.")
	readyTasks := newGauge("scheduler_ready_tasks", "Entries in the ready queue.")
	waitingTasks := newGauge("scheduler_waiting_tasks", "Fibers and external waiters parked on counters.")
	tasksSubmitted := newGauge("scheduler_tasks_submitted", "Tasks submitted since start.")
	tasksExecuted := newGauge("scheduler_tasks_executed", "Tasks executed since start.")
	quit := newGauge("scheduler_quit", "Scheduler quit state (1=quit, 0=running).")

	gauges := []*prom.GaugeVec{workers, fibersTotal, fibersIdle, readyTasks, waitingTasks, tasksSubmitted, tasksExecuted, quit}
	for i, g := range gauges {
		registered, err := registerCollector(reg, g)
		if err != nil {
			return nil, err
		}
		gauges[i] = registered
	}

	return &SnapshotPoller{
		interval:       interval,
		schedulers:     make(map[string]SchedulerSnapshotProvider),
		workers:        gauges[0],
		fibersTotal:    gauges[1],
		fibersIdle:     gauges[2],
		readyTasks:     gauges[3],
		waitingTasks:   gauges[4],
		tasksSubmitted: gauges[5],
		tasksExecuted:  gauges[6],
		quit:           gauges[7],
	}, nil
}

// AddScheduler adds or replaces a scheduler snapshot provider by name.
func (p *SnapshotPoller) AddScheduler(name string, provider SchedulerSnapshotProvider) {
	if p == nil || provider == nil {
		return
	}
	if name == "" {
		name = "scheduler"
	}
	p.schedulersMu.Lock()
	p.schedulers[name] = provider
	p.schedulersMu.Unlock()
}

// Start begins periodic polling; repeated calls are no-ops.
func (p *SnapshotPoller) Start(ctx context.Context) {
	if p == nil {
		return
	}

	p.stateMu.Lock()
	if p.running {
		p.stateMu.Unlock()
		return
	}
	pollCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	p.running = true
	p.stateMu.Unlock()

	go p.loop(pollCtx)
}

// Stop stops periodic polling; repeated calls are safe.
func (p *SnapshotPoller) Stop() {
	if p == nil {
		return
	}

	p.stateMu.Lock()
	if !p.running {
		p.stateMu.Unlock()
		return
	}
	cancel := p.cancel
	done := p.done
	p.stateMu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}

	p.stateMu.Lock()
	p.running = false
	p.cancel = nil
	p.done = nil
	p.stateMu.Unlock()
}

func (p *SnapshotPoller) loop(ctx context.Context) {
	defer close(p.done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.collectOnce()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.collectOnce()
		}
	}
}

func (p *SnapshotPoller) collectOnce() {
	p.schedulersMu.RLock()
	defer p.schedulersMu.RUnlock()

	for name, provider := range p.schedulers {
		stats := provider.Stats()
		p.workers.WithLabelValues(name).Set(float64(stats.Workers))
		p.fibersTotal.WithLabelValues(name).Set(float64(stats.FibersTotal))
		p.fibersIdle.WithLabelValues(name).Set(float64(stats.FibersIdle))
		p.readyTasks.WithLabelValues(name).Set(float64(stats.ReadyTasks))
		p.waitingTasks.WithLabelValues(name).Set(float64(stats.WaitingTasks))
		p.tasksSubmitted.WithLabelValues(name).Set(float64(stats.TasksSubmitted))
		p.tasksExecuted.WithLabelValues(name).Set(float64(stats.TasksExecuted))
		if stats.Quit {
			p.quit.WithLabelValues(name).Set(1)
		} else {
			p.quit.WithLabelValues(name).Set(0)
		}
	}
}
