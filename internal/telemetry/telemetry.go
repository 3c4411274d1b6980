// Package telemetry exposes Prometheus metrics for simulation runs and
// the HTTP service.
package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/san-kum/chutesim/internal/chute"
	"github.com/san-kum/chutesim/internal/sim"
)

var (
	runsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chutesim_runs_total",
			Help: "Total number of simulation runs by outcome.",
		},
		[]string{"outcome"},
	)

	runSteps = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "chutesim_run_steps",
			Help:    "Integration steps per completed run.",
			Buckets: prometheus.ExponentialBuckets(100, 4, 8),
		},
	)

	runDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "chutesim_run_duration_seconds",
			Help:    "Wall-clock time spent in a simulation run.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
		},
	)

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chutesim_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"path", "method", "code"},
	)

	httpDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chutesim_http_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)
)

func init() {
	prometheus.MustRegister(runsTotal)
	prometheus.MustRegister(runSteps)
	prometheus.MustRegister(runDurationSeconds)
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(httpDurationSeconds)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveRun records one finished (or rejected) run.
func ObserveRun(res *sim.Result, elapsed time.Duration) {
	runsTotal.WithLabelValues(res.Outcome.String()).Inc()
	if res.Outcome == sim.OutcomeRejected {
		return
	}
	runSteps.Observe(float64(res.Steps))
	runDurationSeconds.Observe(elapsed.Seconds())
}

// Simulate wraps sim.Simulate with run metrics.
func Simulate(cfg chute.Config, opts ...sim.Option) (*sim.Result, error) {
	start := time.Now()
	res, err := sim.Simulate(cfg, opts...)
	ObserveRun(res, time.Since(start))
	return res, err
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware records request count and duration. pattern maps a request
// to its route so that path labels stay bounded.
func Middleware(pattern func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(rw, r)

			path := r.URL.Path
			if pattern != nil {
				path = pattern(r)
			}
			code := strconv.Itoa(rw.statusCode)
			httpRequestsTotal.WithLabelValues(path, r.Method, code).Inc()
			httpDurationSeconds.WithLabelValues(path, r.Method).Observe(time.Since(start).Seconds())
		})
	}
}
