package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests       *prometheus.CounterVec
	HTTPDuration       *prometheus.HistogramVec
	TodosCreated       prometheus.Counter
	RemindersProcessed prometheus.Counter
	SweepFailures      prometheus.Counter
	SweepRuns          prometheus.Counter
}

// New creates a Metrics instance with its own registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())

	m := &Metrics{
		registry: registry,
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		TodosCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "todos_created_total",
			Help: "Total todos created.",
		}),
		RemindersProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "reminders_processed_total",
			Help: "Total reminders promoted to reminder_due.",
		}),
		SweepFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "reminder_sweep_failures_total",
			Help: "Total per-record failures during reminder sweeps.",
		}),
		SweepRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "reminder_sweep_runs_total",
			Help: "Total reminder sweep executions.",
		}),
	}

	registry.MustRegister(
		m.HTTPRequests,
		m.HTTPDuration,
		m.TodosCreated,
		m.RemindersProcessed,
		m.SweepFailures,
		m.SweepRuns,
	)

	return m
}

// Handler returns the /metrics HTTP handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
