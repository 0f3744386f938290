package main

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gitboard_http_requests_total",
		Help: "HTTP requests by method and status.",
	}, []string{"method", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gitboard_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})

	eventsPublished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gitboard_events_published_total",
		Help: "Events fanned out to SSE subscribers.",
	})
)

func observeRequest(method, path string, status int, dur time.Duration) {
	_ = path // paths carry ids; labeling on them would explode cardinality
	httpRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method).Observe(dur.Seconds())
}
