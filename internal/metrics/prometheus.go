package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	ContentWritesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "content_writes_total",
		Help: "Total number of content create/update/delete operations",
	}, []string{"entity", "operation"})

	PageInvalidationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "page_invalidations_total",
		Help: "Total number of page invalidation notifications published",
	})
)
