package arbitrage

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // Prometheus metrics
var (
	// OpportunitiesTotal counts detected arbitrage opportunities.
	OpportunitiesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "predictmarket_arbitrage_opportunities_total",
		Help: "Total number of arbitrage opportunities detected",
	})

	// SpreadHistogram tracks the spread of detected opportunities.
	SpreadHistogram = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "predictmarket_arbitrage_spread",
		Help:    "Probability spread of detected arbitrage opportunities",
		Buckets: prometheus.LinearBuckets(0.05, 0.05, 10),
	})

	// DetectionDurationSeconds tracks FindArbitrage scan latency.
	DetectionDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "predictmarket_arbitrage_detection_duration_seconds",
		Help:    "Arbitrage detection scan duration",
		Buckets: prometheus.DefBuckets,
	})

	// ComparisonsTotal counts emitted platform comparisons.
	ComparisonsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "predictmarket_comparisons_total",
		Help: "Total number of cross-platform comparisons emitted",
	})

	// ComparisonDurationSeconds tracks ComparePlatforms clustering latency.
	ComparisonDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "predictmarket_comparison_duration_seconds",
		Help:    "Platform comparison clustering duration",
		Buckets: prometheus.DefBuckets,
	})
)
