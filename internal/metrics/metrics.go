package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles the Prometheus collectors for the job engine.
type Metrics struct {
	JobsSubmitted prometheus.Counter
	JobsFinished  *prometheus.CounterVec
	ActiveJobs    prometheus.Gauge
	TaskFailures  *prometheus.CounterVec
	JobDuration   prometheus.Histogram
}

// New registers the collectors with reg and returns the bundle. Passing
// prometheus.DefaultRegisterer wires them to the default /metrics
// handler; tests pass a private registry.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		JobsSubmitted: factory.NewCounter(prometheus.CounterOpts{
			Name: "drugscope_jobs_submitted_total",
			Help: "Total number of research jobs submitted.",
		}),
		JobsFinished: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "drugscope_jobs_finished_total",
			Help: "Total number of jobs reaching a terminal status.",
		}, []string{"status"}),
		ActiveJobs: factory.NewGauge(prometheus.GaugeOpts{
			Name: "drugscope_jobs_active",
			Help: "Number of jobs currently pending or running.",
		}),
		TaskFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "drugscope_task_failures_total",
			Help: "Total number of failed task results, by task kind.",
		}, []string{"kind"}),
		JobDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "drugscope_job_duration_seconds",
			Help:    "Wall-clock duration from submission to terminal status.",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}),
	}
}
