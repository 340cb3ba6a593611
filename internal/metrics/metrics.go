package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the various metrics used for monitoring the application.
// It includes counters for board loads, fetched tasks and API requests,
// a gauge for the number of rendered rows, and histograms for load and
// database query durations.
type Metrics struct {
	Loads           *prometheus.CounterVec
	TasksFetched    *prometheus.CounterVec
	RowsRendered    prometheus.Gauge
	LoadDuration    prometheus.Histogram
	DBQueryDuration *prometheus.HistogramVec
	APIRequests     *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance and registers every collector
// with the provided Registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	metrics := &Metrics{
		Loads: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "taskboard_loads_total",
			Help: "Total times the board has fetched the task list, by outcome.",
		}, []string{"status"}),
		TasksFetched: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "taskboard_tasks_fetched_total",
			Help: "Total number of task records received from the tasks endpoint.",
		}, []string{"result"}), // result: 'accepted', 'rejected'
		RowsRendered: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "taskboard_rows_rendered",
			Help: "Number of rows currently rendered into the task table.",
		}),
		LoadDuration: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "taskboard_load_duration_seconds",
			Help:    "Measures how long it takes to fetch and render the task list.",
			Buckets: prometheus.DefBuckets,
		}),
		DBQueryDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "taskboard_db_query_duration_seconds",
			Help:    "Duration of database queries.",
			Buckets: prometheus.DefBuckets,
		}, []string{"query_type"}), // query_type: 'list_tasks', 'create_task', ...
		APIRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "taskboard_api_requests_total",
			Help: "Total number of requests handled by the task API.",
		}, []string{"method", "status"}),
	}

	metrics.Loads.WithLabelValues("success")
	metrics.Loads.WithLabelValues("failure")

	return metrics
}
