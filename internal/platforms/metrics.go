package platforms

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // Prometheus metrics
var (
	// RequestsTotal counts upstream API requests by platform and operation.
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "predictmarket_platform_requests_total",
		Help: "Total number of upstream platform API requests",
	}, []string{"platform", "operation"})

	// ErrorsTotal counts failed upstream requests by platform and operation.
	ErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "predictmarket_platform_errors_total",
		Help: "Total number of failed upstream platform API requests",
	}, []string{"platform", "operation"})

	// RequestDurationSeconds tracks upstream request latency per platform.
	RequestDurationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "predictmarket_platform_request_duration_seconds",
		Help:    "Upstream platform API request duration",
		Buckets: prometheus.DefBuckets,
	}, []string{"platform"})
)
