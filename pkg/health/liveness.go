package health

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ogmaresca/simple-ado/pkg/logging"
)

const readinessTimeout = 10 * time.Second

var (
	probeCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "simple_ado_probe_count",
		Help: "The total number of health probes",
	}, []string{"probe", "result"})
)

// LivenessCheck answers OK as long as the process serves requests
type LivenessCheck struct{}

func (LivenessCheck) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	logging.Logger.Trace("Liveness probe")
	probeCounter.WithLabelValues("liveness", "ok").Inc()
	respond(writer, http.StatusOK, "OK")
}

// ReadinessCheck answers OK when Check succeeds, typically when Azure Devops accepts the credentials
type ReadinessCheck struct {
	Check func(ctx context.Context) bool
}

func (c ReadinessCheck) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	ctx, cancel := context.WithTimeout(request.Context(), readinessTimeout)
	defer cancel()

	if !c.Check(ctx) {
		logging.Logger.Warn("Readiness probe failed")
		probeCounter.WithLabelValues("readiness", "failed").Inc()
		respond(writer, http.StatusServiceUnavailable, "NOT READY")
		return
	}
	logging.Logger.Trace("Readiness probe")
	probeCounter.WithLabelValues("readiness", "ok").Inc()
	respond(writer, http.StatusOK, "OK")
}

func respond(writer http.ResponseWriter, status int, body string) {
	writer.WriteHeader(status)
	_, _ = writer.Write([]byte(body))
}

// NewServeMux serves the liveness probe on /healthz and prometheus metrics on /metrics.
// The readiness probe is served on /readyz when ready is set.
func NewServeMux(ready func(ctx context.Context) bool) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/healthz", LivenessCheck{})
	if ready != nil {
		mux.Handle("/readyz", ReadinessCheck{Check: ready})
	}
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}
