package ratelimit

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // Prometheus metrics
var (
	// WaitDurationSeconds tracks how long callers sleep on the token bucket.
	WaitDurationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "predictmarket_ratelimit_wait_duration_seconds",
		Help:    "Time spent waiting for a rate limit token",
		Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"platform"})
)
