package metrics

import (
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveRequest(t *testing.T) {
	before := testutil.ToFloat64(requestCounter.WithLabelValues(http.MethodGet, "200"))
	ObserveRequest(http.MethodGet, 200, 10*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(requestCounter.WithLabelValues(http.MethodGet, "200")))

	beforeErr := testutil.ToFloat64(requestCounter.WithLabelValues(http.MethodPost, "error"))
	ObserveRequest(http.MethodPost, 0, time.Millisecond)
	assert.Equal(t, beforeErr+1, testutil.ToFloat64(requestCounter.WithLabelValues(http.MethodPost, "error")))
}

func TestObserveRetryAndWait(t *testing.T) {
	before := testutil.ToFloat64(retryCounter.WithLabelValues(http.MethodGet))
	ObserveRetry(http.MethodGet)
	assert.Equal(t, before+1, testutil.ToFloat64(retryCounter.WithLabelValues(http.MethodGet)))

	beforeWait := testutil.ToFloat64(rateLimitWaitCounter)
	ObserveRateLimitWait()
	assert.Equal(t, beforeWait+1, testutil.ToFloat64(rateLimitWaitCounter))
}
