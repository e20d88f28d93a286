package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for the roster service
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight *prometheus.GaugeVec

	// Database Metrics
	DBConflictsTotal *prometheus.CounterVec

	// Cache Metrics
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec

	// Reminder Metrics
	ReminderSweepsTotal   *prometheus.CounterVec
	ReminderSweepDuration *prometheus.HistogramVec
	RemindersSentTotal    *prometheus.CounterVec
}

// NewMetricsRegistry initializes and returns a new MetricsRegistry with all
// metrics registered on reg. Pass prometheus.DefaultRegisterer in main and a
// fresh prometheus.NewRegistry() in tests.
func NewMetricsRegistry(reg prometheus.Registerer) *MetricsRegistry {
	factory := promauto.With(reg)

	return &MetricsRegistry{
		// HTTP Metrics
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "roster_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "roster_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "roster_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		// Database Metrics
		DBConflictsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "roster_db_conflicts_total",
				Help: "Requests rejected by a database constraint conflict, by endpoint",
			},
			[]string{"endpoint"},
		),

		// Cache Metrics
		CacheHitsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "roster_cache_hits_total",
				Help: "Total cache hits by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),
		CacheMissesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "roster_cache_misses_total",
				Help: "Total cache misses by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),

		// Reminder Metrics
		ReminderSweepsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "roster_reminder_sweeps_total",
				Help: "Reminder sweeps run, by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		ReminderSweepDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "roster_reminder_sweep_duration_seconds",
				Help:    "Reminder sweep execution time in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
			},
			[]string{"kind"},
		),
		RemindersSentTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "roster_reminders_sent_total",
				Help: "Notifications written by reminder sweeps",
			},
			[]string{"kind"},
		),
	}
}
