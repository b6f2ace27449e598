package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for the aggregator.
type Metrics struct {
	TaskRuns        *prometheus.CounterVec // labels: task, status={success,failed}
	RecordsInserted *prometheus.CounterVec // labels: table
	AlertsCreated   *prometheus.CounterVec // labels: severity
	HTTPRequests    *prometheus.CounterVec // labels: method, path, status
	TaskDuration    *prometheus.HistogramVec
}

// NewMetrics creates and registers all collectors with the default registry.
func NewMetrics() *Metrics {
	m := build()
	prometheus.MustRegister(
		m.TaskRuns,
		m.RecordsInserted,
		m.AlertsCreated,
		m.HTTPRequests,
		m.TaskDuration,
	)
	return m
}

// NewMetricsForTesting creates Metrics without touching the default registry
// so parallel tests cannot hit "already registered" panics.
func NewMetricsForTesting() *Metrics {
	return build()
}

func build() *Metrics {
	return &Metrics{
		TaskRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lanka_watch",
			Name:      "task_runs_total",
			Help:      "Scheduled task executions by type and status.",
		}, []string{"task", "status"}),
		RecordsInserted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lanka_watch",
			Name:      "records_inserted_total",
			Help:      "Records appended to the CSV tables.",
		}, []string{"table"}),
		AlertsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lanka_watch",
			Name:      "alerts_created_total",
			Help:      "Alerts raised by collectors, by severity.",
		}, []string{"severity"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lanka_watch",
			Name:      "http_requests_total",
			Help:      "API requests by method, path, and status code.",
		}, []string{"method", "path", "status"}),
		TaskDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "lanka_watch",
			Name:      "task_duration_seconds",
			Help:      "Scheduled task execution duration.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"task"}),
	}
}
