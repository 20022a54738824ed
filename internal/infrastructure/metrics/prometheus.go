package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusExporter exports authorization metrics in Prometheus format.
type PrometheusExporter struct {
	// Permission checks
	checksAllowed prometheus.Counter
	checksDenied  prometheus.Counter

	// Mutations against the registry and the override store
	roleSaves         *prometheus.CounterVec
	overrideMutations *prometheus.CounterVec

	// HTTP surface
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	httpErrors   *prometheus.CounterVec
}

// NewPrometheusExporter creates a new Prometheus exporter.
func NewPrometheusExporter() *PrometheusExporter {
	return &PrometheusExporter{
		checksAllowed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "authcore_permission_checks_allowed_total",
			Help: "Total number of permission checks that resolved to allowed",
		}),
		checksDenied: promauto.NewCounter(prometheus.CounterOpts{
			Name: "authcore_permission_checks_denied_total",
			Help: "Total number of permission checks that resolved to denied",
		}),
		roleSaves: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authcore_role_saves_total",
				Help: "Total number of role permission replace operations",
			},
			[]string{"status"},
		),
		overrideMutations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authcore_override_mutations_total",
				Help: "Total number of override upsert and delete operations",
			},
			[]string{"op", "status"},
		),
		httpRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authcore_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route"},
		),
		httpDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "authcore_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 10.0},
			},
			[]string{"method", "route"},
		),
		httpErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authcore_http_errors_total",
				Help: "Total number of HTTP responses with status >= 500",
			},
			[]string{"method", "route"},
		),
	}
}

// RecordCheck records the outcome of one permission check.
func (e *PrometheusExporter) RecordCheck(allowed bool) {
	if allowed {
		e.checksAllowed.Inc()
	} else {
		e.checksDenied.Inc()
	}
}

// RecordRoleSave records one role permission replace attempt.
func (e *PrometheusExporter) RecordRoleSave(status string) {
	e.roleSaves.WithLabelValues(status).Inc()
}

// RecordOverrideMutation records one override upsert or delete attempt.
func (e *PrometheusExporter) RecordOverrideMutation(op string, status string) {
	e.overrideMutations.WithLabelValues(op, status).Inc()
}

// RecordHTTPRequest records one HTTP request against a route template.
func (e *PrometheusExporter) RecordHTTPRequest(method, route string, durationSeconds float64, statusCode int) {
	e.httpRequests.WithLabelValues(method, route).Inc()
	e.httpDuration.WithLabelValues(method, route).Observe(durationSeconds)
	if statusCode >= 500 {
		e.httpErrors.WithLabelValues(method, route).Inc()
	}
}
