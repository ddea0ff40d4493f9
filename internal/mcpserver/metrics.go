package mcpserver

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // Prometheus metrics
var (
	// ToolCallsTotal counts tool dispatches by tool name.
	ToolCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "predictmarket_tool_calls_total",
		Help: "Total number of MCP tool calls",
	}, []string{"tool"})

	// ToolErrorsTotal counts failed tool dispatches by tool name.
	ToolErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "predictmarket_tool_errors_total",
		Help: "Total number of failed MCP tool calls",
	}, []string{"tool"})

	// ToolDurationSeconds tracks tool dispatch latency by tool name.
	ToolDurationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "predictmarket_tool_duration_seconds",
		Help:    "MCP tool call duration",
		Buckets: prometheus.DefBuckets,
	}, []string{"tool"})
)
