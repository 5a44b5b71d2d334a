package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type HTTPMetrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

type PlanMetrics struct {
	RecalculationsTotal   *prometheus.CounterVec
	RecalculationDuration prometheus.Histogram
	RetriesScheduled      prometheus.Counter
}

type LedgerMetrics struct {
	LinksTotal *prometheus.CounterVec
}

type WorkerMetrics struct {
	QueueLength prometheus.Gauge
	ActiveJobs  prometheus.Gauge
	FailedJobs  prometheus.Gauge
}

const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

var (
	HTTP = HTTPMetrics{
		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "antecipa_http_requests_total",
				Help: "Total number of HTTP requests received.",
			},
			[]string{"method", "path", "code"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "antecipa_http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "code"},
		),
	}

	Plans = PlanMetrics{
		RecalculationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "antecipa_plan_recalculations_total",
				Help: "Plan recalculations by trigger and outcome.",
			},
			[]string{"trigger", "status"},
		),
		RecalculationDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "antecipa_plan_recalculation_duration_seconds",
				Help:    "Histogram of plan recalculation latencies.",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
		),
		RetriesScheduled: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "antecipa_plan_recalculation_retries_total",
				Help: "Recalculations re-enqueued after a failure.",
			},
		),
	}

	Ledger = LedgerMetrics{
		LinksTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "antecipa_ledger_links_total",
				Help: "Receivables linked to or unlinked from installments.",
			},
			[]string{"operation"},
		),
	}

	Worker = WorkerMetrics{
		QueueLength: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "antecipa_worker_queue_length",
				Help: "Jobs waiting in the background worker queue.",
			},
		),
		ActiveJobs: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "antecipa_worker_active_jobs",
				Help: "Jobs currently running on the background worker.",
			},
		),
		FailedJobs: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "antecipa_worker_failed_jobs",
				Help: "Jobs that returned an error since startup.",
			},
		),
	}
)

func RecordHTTPRequest(method, path, code string, duration time.Duration) {
	HTTP.RequestsTotal.WithLabelValues(method, path, code).Inc()
	HTTP.RequestDuration.WithLabelValues(method, path, code).Observe(duration.Seconds())
}

func RecordRecalculation(trigger, status string, duration time.Duration) {
	Plans.RecalculationsTotal.WithLabelValues(trigger, status).Inc()
	Plans.RecalculationDuration.Observe(duration.Seconds())
}

func RecordRetryScheduled() {
	Plans.RetriesScheduled.Inc()
}

func RecordLinks(operation string, count int) {
	if count <= 0 {
		return
	}
	Ledger.LinksTotal.WithLabelValues(operation).Add(float64(count))
}

// RecordWorkerStats samples the background worker
func RecordWorkerStats(queueLength, activeJobs int, failedJobs int64) {
	Worker.QueueLength.Set(float64(queueLength))
	Worker.ActiveJobs.Set(float64(activeJobs))
	Worker.FailedJobs.Set(float64(failedJobs))
}
