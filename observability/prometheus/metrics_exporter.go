// Package prometheus exports scheduler metrics and stats snapshots as
// Prometheus collectors.
package prometheus

import (
	"errors"
	"fmt"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/pakoito/FiberTaskingLib/core"
)

// ExporterOptions controls collector configuration.
type ExporterOptions struct {
	DurationBuckets []float64
}

// MetricsExporter adapts core.Metrics to Prometheus collectors.
type MetricsExporter struct {
	taskDurationSeconds prom.Histogram
	tasksSubmittedTotal prom.Counter
	fibersParkedTotal   prom.Counter
	fibersRevivedTotal  prom.Counter
	readyQueueDepth     prom.Gauge
}

var _ core.Metrics = (*MetricsExporter)(nil)

// NewMetricsExporter creates and registers Prometheus collectors for core.Metrics.
func NewMetricsExporter(namespace string, reg prom.Registerer, opts ExporterOptions) (*MetricsExporter, error) {
	if namespace == "" {
		namespace = "fibertasking"
	}
	if reg == nil {
		reg = prom.DefaultRegisterer
	}
	buckets := opts.DurationBuckets
	if len(buckets) == 0 {
		buckets = prom.DefBuckets
	}

	duration := prom.NewHistogram(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "task_duration_seconds",
		Help:      "Task body execution duration in seconds.",
		Buckets:   buckets,
	})
	submitted := prom.NewCounter(prom.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_submitted_total",
		Help:      "Total number of submitted tasks.",
	})
	parked := prom.NewCounter(prom.CounterOpts{
		Namespace: namespace,
		Name:      "fibers_parked_total",
		Help:      "Total number of fibers parked on the waiting list.",
	})
	revived := prom.NewCounter(prom.CounterOpts{
		Namespace: namespace,
		Name:      "fibers_revived_total",
		Help:      "Total number of parked fibers revived.",
	})
	readyDepth := prom.NewGauge(prom.GaugeOpts{
		Namespace: namespace,
		Name:      "ready_queue_depth",
		Help:      "Ready queue depth at last submission.",
	})

	var err error
	if duration, err = registerCollector(reg, duration); err != nil {
		return nil, err
	}
	if submitted, err = registerCollector(reg, submitted); err != nil {
		return nil, err
	}
	if parked, err = registerCollector(reg, parked); err != nil {
		return nil, err
	}
	if revived, err = registerCollector(reg, revived); err != nil {
		return nil, err
	}
	if readyDepth, err = registerCollector(reg, readyDepth); err != nil {
		return nil, err
	}

	return &MetricsExporter{
		taskDurationSeconds: duration,
		tasksSubmittedTotal: submitted,
		fibersParkedTotal:   parked,
		fibersRevivedTotal:  revived,
		readyQueueDepth:     readyDepth,
	}, nil
}

// RecordTaskDuration records task body execution duration.
func (m *MetricsExporter) RecordTaskDuration(duration time.Duration) {
	if m == nil {
		return
	}
	m.taskDurationSeconds.Observe(duration.Seconds())
}

// RecordTasksSubmitted records task submissions.
func (m *MetricsExporter) RecordTasksSubmitted(n int) {
	if m == nil {
		return
	}
	m.tasksSubmittedTotal.Add(float64(n))
}

// RecordFiberParked records a fiber parking on the waiting list.
func (m *MetricsExporter) RecordFiberParked() {
	if m == nil {
		return
	}
	m.fibersParkedTotal.Inc()
}

// RecordFiberRevived records a parked fiber being revived.
func (m *MetricsExporter) RecordFiberRevived() {
	if m == nil {
		return
	}
	m.fibersRevivedTotal.Inc()
}

// RecordReadyQueueDepth records the ready queue depth.
func (m *MetricsExporter) RecordReadyQueueDepth(depth int) {
	if m == nil {
		return
	}
	m.readyQueueDepth.Set(float64(depth))
}

func registerCollector[T prom.Collector](reg prom.Registerer, collector T) (T, error) {
	err := reg.Register(collector)
	if err == nil {
		return collector, nil
	}

	var alreadyRegisteredErr prom.AlreadyRegisteredError
	if errors.As(err, &alreadyRegisteredErr) {
		existing, ok := alreadyRegisteredErr.ExistingCollector.(T)
		if !ok {
			return collector, fmt.Errorf("collector type mismatch for %T", collector)
		}
		return existing, nil
	}

	return collector, err
}
