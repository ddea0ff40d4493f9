package federation

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // Prometheus metrics
var (
	// CallDurationSeconds tracks federated operation latency by operation.
	CallDurationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "predictmarket_federation_call_duration_seconds",
		Help:    "Federated operation duration",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	// PartialFailuresTotal counts per-platform failures absorbed into
	// federated results.
	PartialFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "predictmarket_federation_partial_failures_total",
		Help: "Total number of per-platform failures in federated operations",
	}, []string{"platform"})
)

// observe records an operation's duration; use with defer and time.Now().
func observe(operation string, start time.Time) {
	CallDurationSeconds.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
