package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestTotal counts handled HTTP requests by method, path and status.
	HTTPRequestTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "propel",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of handled HTTP requests",
	}, []string{"method", "path", "status"})

	// HTTPRequestDuration observes request latency by method and path.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "propel",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path"})

	// GuardRejectTotal counts authorization guard rejections by reason.
	GuardRejectTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "propel",
		Subsystem: "guard",
		Name:      "reject_total",
		Help:      "Total number of requests rejected by the workspace guard",
	}, []string{"reason"})
)
