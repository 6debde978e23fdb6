package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "simple_ado_http_requests_total",
		Help: "The total number of requests sent to Azure Devops",
	}, []string{"method", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "simple_ado_http_request_duration_seconds",
		Help:    "Latency of requests sent to Azure Devops",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})

	retryCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "simple_ado_http_retries_total",
		Help: "The total number of retried requests",
	}, []string{"method"})

	rateLimitWaitCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: "simple_ado_rate_limit_waits_total",
		Help: "The total number of times a request was delayed by rate limiting",
	})
)

// ObserveRequest records a completed request. A status of 0 means the request never got a response.
func ObserveRequest(method string, status int, elapsed time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	requestCounter.WithLabelValues(method, label).Inc()
	requestDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

// ObserveRetry records a retried request
func ObserveRetry(method string) {
	retryCounter.WithLabelValues(method).Inc()
}

// ObserveRateLimitWait records a rate limit delay
func ObserveRateLimitWait() {
	rateLimitWaitCounter.Inc()
}
