package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"newsfeed/internal/usecase/contract"
	"newsfeed/pkg/config"
)

// WorkerMetrics are the worker's job metrics plus its configuration metrics.
// Metrics register on creation, so a process creates one set.
type WorkerMetrics struct {
	*config.Metrics

	// JobRunsTotal counts runs by job (contract, purge) and status.
	JobRunsTotal *prometheus.CounterVec

	// JobDurationSeconds measures runs by job.
	JobDurationSeconds *prometheus.HistogramVec

	// JobLastSuccessTimestamp is the Unix time of the last successful run by job.
	JobLastSuccessTimestamp *prometheus.GaugeVec

	// SourceEntries is the number of entries decoded from each source in the last run.
	SourceEntries *prometheus.GaugeVec

	// SourceSkipped is the number of entries skipped from each source in the last run.
	SourceSkipped *prometheus.GaugeVec

	// SourceUp is 1 when the source returned a decodable page in the last run.
	SourceUp *prometheus.GaugeVec

	// PurgedEventsTotal counts deleted ad events.
	PurgedEventsTotal prometheus.Counter
}

// NewWorkerMetrics creates and registers the worker metrics.
func NewWorkerMetrics() *WorkerMetrics {
	return &WorkerMetrics{
		Metrics: config.NewMetrics("worker"),

		JobRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_job_runs_total",
			Help: "Total number of worker job runs by job and status",
		}, []string{"job", "status"}),

		JobDurationSeconds: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "worker_job_duration_seconds",
			Help:    "Duration of worker job runs in seconds",
			Buckets: []float64{0.5, 1, 5, 15, 30, 60, 300, 900},
		}, []string{"job"}),

		JobLastSuccessTimestamp: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "worker_job_last_success_timestamp",
			Help: "Unix timestamp of the last successful run by job",
		}, []string{"job"}),

		SourceEntries: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "worker_source_entries",
			Help: "Entries decoded from the source's first page in the last check",
		}, []string{"source"}),

		SourceSkipped: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "worker_source_skipped_entries",
			Help: "Entries skipped from the source's first page in the last check",
		}, []string{"source"}),

		SourceUp: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "worker_source_up",
			Help: "1 if the source returned a decodable page in the last check",
		}, []string{"source"}),

		PurgedEventsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "worker_purged_ad_events_total",
			Help: "Total number of ad events deleted by the retention purge",
		}),
	}
}

// RecordJobRun counts a finished run and observes its duration. A success
// also stamps the last success time.
func (m *WorkerMetrics) RecordJobRun(job string, seconds float64, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	m.JobRunsTotal.WithLabelValues(job, status).Inc()
	m.JobDurationSeconds.WithLabelValues(job).Observe(seconds)
	if err == nil {
		m.JobLastSuccessTimestamp.WithLabelValues(job).SetToCurrentTime()
	}
}

// RecordReport publishes the per-source gauges of a contract run.
func (m *WorkerMetrics) RecordReport(r *contract.Report) {
	for _, res := range r.Results {
		up := 0.0
		if res.OK() {
			up = 1
			m.SourceEntries.WithLabelValues(res.Source).Set(float64(res.Entries))
			m.SourceSkipped.WithLabelValues(res.Source).Set(float64(res.Skipped))
		}
		m.SourceUp.WithLabelValues(res.Source).Set(up)
	}
}

// RecordPurged adds the number of purged ad events.
func (m *WorkerMetrics) RecordPurged(n int64) {
	m.PurgedEventsTotal.Add(float64(n))
}
