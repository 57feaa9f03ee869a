package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// DownstreamRequests counts requests issued to the interpreter and
// orchestrator services, partitioned by outcome ("ok", "client_error",
// "server_error", "unreachable").
var DownstreamRequests = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "gateway_downstream_requests_total",
		Help: "Total number of requests sent to downstream services",
	},
	[]string{"service", "method", "outcome"},
)

// DownstreamLatency records latency distribution for downstream calls,
// partitioned the same way as DownstreamRequests.
var DownstreamLatency = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "gateway_downstream_latency_seconds",
		Help:    "Latency in seconds of downstream service calls",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"service", "method", "outcome"},
)

// RequestsTotal counts HTTP requests served by the gateway itself.
var RequestsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "gateway_http_requests_total",
		Help: "Total number of HTTP requests handled by the gateway",
	},
	[]string{"method", "status"},
)

func init() {
	prometheus.MustRegister(DownstreamRequests, DownstreamLatency, RequestsTotal)
}
