// Package metrics holds Prometheus instruments shared across the service.
// All collectors are registered with the default registry, so mounting
// promhttp.Handler() is enough to expose them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	HTTPInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being served.",
		},
	)

	LeadOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lead_operations_total",
			Help: "Lead write operations by outcome.",
		},
		[]string{"operation", "result"},
	)
)

// RecordLeadOperation counts one create, update or delete outcome.
func RecordLeadOperation(operation, result string) {
	LeadOperationsTotal.WithLabelValues(operation, result).Inc()
}
