package pool

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the pool's prometheus instruments. Attach with
// WithMetrics; a pool without metrics skips all instrumentation.
type Metrics struct {
	JobsSubmitted prometheus.Counter
	JobsCompleted prometheus.Counter
	JobsRejected  prometheus.Counter
	ActiveWorkers prometheus.Gauge
	QueueDepth    prometheus.Gauge
	RenderLatency prometheus.Histogram
}

// NewMetrics builds the pool metrics under the given namespace/subsystem
// and registers them with the default prometheus registry.
func NewMetrics(namespace, subsystem string) *Metrics {
	m := &Metrics{
		JobsSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "jobs_submitted_total",
			Help:      "Total number of render jobs accepted by the pool",
		}),
		JobsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "jobs_completed_total",
			Help:      "Total number of render jobs completed by workers",
		}),
		JobsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "jobs_rejected_total",
			Help:      "Total number of async submissions rejected at admission",
		}),
		ActiveWorkers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "active_workers",
			Help:      "Current number of running workers",
		}),
		QueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "queue_depth",
			Help:      "Current number of jobs waiting for a worker",
		}),
		RenderLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "render_latency_seconds",
			Help:      "Histogram of rasterization call latency",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	prometheus.MustRegister(
		m.JobsSubmitted,
		m.JobsCompleted,
		m.JobsRejected,
		m.ActiveWorkers,
		m.QueueDepth,
		m.RenderLatency,
	)

	return m
}
