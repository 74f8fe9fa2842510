package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for teamboard.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Auth gate metrics
	AuthFailures *prometheus.CounterVec
	AuthDenials  *prometheus.CounterVec
	TokensIssued *prometheus.CounterVec

	// Domain metrics
	TasksCreated    prometheus.Counter
	TaskTransitions *prometheus.CounterVec
	MessagesSent    prometheus.Counter
}

// New creates a Metrics instance registered on its own registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "teamboard_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "teamboard_http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		AuthFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "teamboard_auth_failures_total",
				Help: "Requests rejected with 401, by reason",
			},
			[]string{"reason"},
		),
		AuthDenials: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "teamboard_auth_denials_total",
				Help: "Requests rejected with 403 by the role gate",
			},
			[]string{"required"},
		),
		TokensIssued: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "teamboard_tokens_issued_total",
				Help: "Session tokens issued, by kind",
			},
			[]string{"kind"},
		),
		TasksCreated: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "teamboard_tasks_created_total",
				Help: "Tasks created",
			},
		),
		TaskTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "teamboard_task_transitions_total",
				Help: "Task status changes, by target status",
			},
			[]string{"status"},
		),
		MessagesSent: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "teamboard_messages_sent_total",
				Help: "Direct messages sent",
			},
		),
	}
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the metrics in the Prometheus exposition format.
func (m *Metrics) Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

// Middleware records request counts and latency per route template.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				} else if status < 400 {
					status = 500
				}
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			m.HTTPRequests.WithLabelValues(c.Request().Method, route, strconv.Itoa(status)).Inc()
			m.HTTPDuration.WithLabelValues(c.Request().Method, route).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// nil-safe helpers used by services, which may run without metrics in tests.

// IncTokensIssued counts an issued token of kind.
func (m *Metrics) IncTokensIssued(kind string) {
	if m == nil {
		return
	}
	m.TokensIssued.WithLabelValues(kind).Inc()
}

// IncTasksCreated counts a created task.
func (m *Metrics) IncTasksCreated() {
	if m == nil {
		return
	}
	m.TasksCreated.Inc()
}

// IncTaskTransition counts a task moving to status.
func (m *Metrics) IncTaskTransition(status string) {
	if m == nil {
		return
	}
	m.TaskTransitions.WithLabelValues(status).Inc()
}

// IncMessagesSent counts a sent message.
func (m *Metrics) IncMessagesSent() {
	if m == nil {
		return
	}
	m.MessagesSent.Inc()
}

// IncAuthFailure counts a 401 by reason.
func (m *Metrics) IncAuthFailure(reason string) {
	if m == nil {
		return
	}
	m.AuthFailures.WithLabelValues(reason).Inc()
}

// IncAuthDenial counts a 403 from the role gate.
func (m *Metrics) IncAuthDenial(required string) {
	if m == nil {
		return
	}
	m.AuthDenials.WithLabelValues(required).Inc()
}
