// Package metrics defines Prometheus metrics for engramview.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "engramview_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engramview_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	ErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engramview_errors_total",
			Help: "Total errors by type",
		},
		[]string{"type"},
	)

	TraversalDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "engramview_traversal_duration_seconds",
			Help:    "Backend traversal query duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	ExpansionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engramview_expansions_total",
			Help: "Graph load and expand operations by outcome",
		},
		[]string{"op", "outcome"},
	)

	ResolutionGaps = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "engramview_resolution_gaps_total",
			Help: "Node identifiers that failed entity resolution and rendered as placeholders",
		},
	)

	ViewSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "engramview_view_sessions",
			Help: "Open view sessions",
		},
	)

	ViewNodes = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "engramview_view_nodes",
			Help: "Total nodes across open view sessions",
		},
	)

	ViewEdges = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "engramview_view_edges",
			Help: "Total edges across open view sessions",
		},
	)

	WSConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "engramview_websocket_connections",
			Help: "Active WebSocket connections",
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestDuration, RequestsTotal, ErrorsTotal,
		TraversalDuration, ExpansionsTotal, ResolutionGaps,
		ViewSessions, ViewNodes, ViewEdges,
		WSConnections,
	)
}
