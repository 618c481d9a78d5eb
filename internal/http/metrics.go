package http

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts completed requests by method and status code.
	// Requests that never got a response are counted with code "error".
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trapper_client_requests_total",
			Help: "Total number of Trapper API requests",
		},
		[]string{"method", "code"},
	)

	// RequestDuration tracks request latency, retries included.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "trapper_client_request_duration_seconds",
			Help:    "Trapper API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)
)
