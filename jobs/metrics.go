package jobs

import (
	"context"
	"time"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes Prometheus collectors for background jobs.
type Metrics struct {
	runs     *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewJobMetrics registers the job collectors against the provided registerer.
// A nil registerer falls back to the Prometheus default.
func NewJobMetrics(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inventorypro_jobs_total",
		Help: "Job executions partitioned by job name and status.",
	}, []string{"job", "status"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "inventorypro_job_duration_seconds",
		Help:    "Duration in seconds of job executions.",
		Buckets: prometheus.DefBuckets,
	}, []string{"job"})
	registerer.MustRegister(runs, duration)
	return &Metrics{runs: runs, duration: duration}
}

// Wrap instruments a task handler, recording duration and outcome per run.
// The error is passed through untouched so retry semantics are unaffected.
func (m *Metrics) Wrap(job string, handler asynq.HandlerFunc) asynq.HandlerFunc {
	if m == nil {
		return handler
	}
	return func(ctx context.Context, task *asynq.Task) error {
		start := time.Now()
		err := handler(ctx, task)
		status := "success"
		if err != nil {
			status = "failure"
		}
		m.runs.WithLabelValues(job, status).Inc()
		m.duration.WithLabelValues(job).Observe(time.Since(start).Seconds())
		return err
	}
}
