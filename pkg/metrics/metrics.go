// Package metrics provides Prometheus instrumentation.
//
// Two surfaces are instrumented: outgoing gateway calls (one series per
// backend operation) and the stub server's inbound HTTP traffic. Mount
// Handler() on GET /metrics to expose the registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ─────────────────────────────────────────────
// Gateway (outgoing) metrics
// ─────────────────────────────────────────────

var (
	// APICallDuration tracks latency of outgoing backend calls per operation.
	APICallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "foodrun",
			Subsystem: "gateway",
			Name:      "call_duration_seconds",
			Help:      "Duration of outgoing backend calls in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// APICallTotal counts outgoing backend calls by operation and outcome.
	// status is the HTTP status code, "transport" for requests that never
	// completed.
	APICallTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "foodrun",
			Subsystem: "gateway",
			Name:      "calls_total",
			Help:      "Total outgoing backend calls.",
		},
		[]string{"operation", "status"},
	)
)

// ─────────────────────────────────────────────
// Stub server (inbound) metrics
// ─────────────────────────────────────────────

var (
	// RequestDuration tracks how long each inbound HTTP request takes.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "foodrun",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts all inbound HTTP requests.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "foodrun",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	// RequestInFlight tracks how many requests are currently being served.
	RequestInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "foodrun",
		Subsystem: "http",
		Name:      "requests_in_flight",
		Help:      "Number of HTTP requests currently being served.",
	})
)

// ─────────────────────────────────────────────
// Registry
// ─────────────────────────────────────────────

// DefaultRegistry is the Prometheus registry used by foodrun.
var DefaultRegistry = prometheus.NewRegistry()

func init() {
	// Go runtime metrics (GC, goroutines, memory)
	DefaultRegistry.MustRegister(collectors.NewGoCollector())
	// OS process metrics (CPU, open FDs)
	DefaultRegistry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	DefaultRegistry.MustRegister(
		APICallDuration,
		APICallTotal,
		RequestDuration,
		RequestTotal,
		RequestInFlight,
	)
}

// MustRegister adds custom collectors to the foodrun registry.
func MustRegister(c ...prometheus.Collector) {
	DefaultRegistry.MustRegister(c...)
}

// ObserveAPICall records one outgoing gateway call:
//
//	defer metrics.ObserveAPICall("runs.join", &status, time.Now())
func ObserveAPICall(operation, status string, start time.Time) {
	APICallDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	APICallTotal.WithLabelValues(operation, status).Inc()
}

// ─────────────────────────────────────────────
// HTTP middleware (stub server)
// ─────────────────────────────────────────────

// responseRecorder wraps http.ResponseWriter to capture the status code.
type responseRecorder struct {
	http.ResponseWriter
	status int
}

func (r *responseRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware records Prometheus metrics for every inbound request.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			path := r.URL.Path // raw path; normalize in high-cardinality APIs

			RequestInFlight.Inc()
			defer RequestInFlight.Dec()

			rr := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rr, r)

			duration := time.Since(start).Seconds()
			status := strconv.Itoa(rr.status)

			RequestDuration.WithLabelValues(r.Method, path, status).Observe(duration)
			RequestTotal.WithLabelValues(r.Method, path, status).Inc()
		})
	}
}

// Handler exposes the Prometheus metrics page.
func Handler() http.HandlerFunc {
	h := promhttp.HandlerFor(DefaultRegistry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
	return h.ServeHTTP
}
