package observability

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Histogram bucket definitions.
var (
	httpDurationBuckets       = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}
	validationDurationBuckets = []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1}
	bodySizeBuckets           = []float64{100, 1024, 10240, 102400, 1048576}
)

// Metrics holds all Prometheus metric instruments for the service.
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal     *prometheus.CounterVec
	HTTPRequestDuration   *prometheus.HistogramVec
	HTTPRequestSizeBytes  *prometheus.HistogramVec
	HTTPResponseSizeBytes *prometheus.HistogramVec

	// Validation metrics
	ValidationsTotal   *prometheus.CounterVec
	ValidationDuration *prometheus.HistogramVec

	// Recovery and repair metrics
	RecoveriesTotal *prometheus.CounterVec
	RepairsTotal    prometheus.Counter
	MigrationsTotal *prometheus.CounterVec

	// Cache metrics
	FingerprintCacheHitsTotal   prometheus.Counter
	FingerprintCacheMissesTotal prometheus.Counter
	FingerprintCacheSize        prometheus.Gauge
}

// InitMetrics creates and registers all Prometheus metric instruments.
func InitMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		// HTTP
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kitstate_http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "path_pattern", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "kitstate_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: httpDurationBuckets,
		}, []string{"method", "path_pattern"}),
		HTTPRequestSizeBytes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "kitstate_http_request_size_bytes",
			Help:    "HTTP request body size in bytes.",
			Buckets: bodySizeBuckets,
		}, []string{"method", "path_pattern"}),
		HTTPResponseSizeBytes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "kitstate_http_response_size_bytes",
			Help:    "HTTP response body size in bytes.",
			Buckets: bodySizeBuckets,
		}, []string{"method", "path_pattern"}),

		// Validations
		ValidationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kitstate_validations_total",
			Help: "Total number of validations by subject and result.",
		}, []string{"subject", "result"}),
		ValidationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "kitstate_validation_duration_seconds",
			Help:    "Validation duration in seconds.",
			Buckets: validationDurationBuckets,
		}, []string{"subject"}),

		// Recovery and repair
		RecoveriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kitstate_recoveries_total",
			Help: "Total number of recovery strategy applications.",
		}, []string{"strategy"}),
		RepairsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kitstate_repairs_total",
			Help: "Total number of full document rebuilds.",
		}),
		MigrationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kitstate_migrations_total",
			Help: "Total number of applied version migrations.",
		}, []string{"from", "to"}),

		// Cache
		FingerprintCacheHitsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kitstate_fingerprint_cache_hits_total",
			Help: "Total fingerprint cache hits.",
		}),
		FingerprintCacheMissesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kitstate_fingerprint_cache_misses_total",
			Help: "Total fingerprint cache misses.",
		}),
		FingerprintCacheSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "kitstate_fingerprint_cache_size",
			Help: "Number of entries in the fingerprint cache.",
		}),
	}

	reg.MustRegister(
		// HTTP
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestSizeBytes,
		m.HTTPResponseSizeBytes,
		// Validations
		m.ValidationsTotal,
		m.ValidationDuration,
		// Recovery and repair
		m.RecoveriesTotal,
		m.RepairsTotal,
		m.MigrationsTotal,
		// Cache
		m.FingerprintCacheHitsTotal,
		m.FingerprintCacheMissesTotal,
		m.FingerprintCacheSize,
	)

	return m
}

// --- Recording helpers ---
//
// All helpers are nil-safe so the validator can run without metrics in tests.

// RecordHTTPRequest records HTTP request metrics.
func (m *Metrics) RecordHTTPRequest(method, pathPattern string, status int, duration time.Duration, reqSize, respSize int) {
	if m == nil {
		return
	}
	statusStr := strconv.Itoa(status)
	m.HTTPRequestsTotal.WithLabelValues(method, pathPattern, statusStr).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, pathPattern).Observe(duration.Seconds())
	m.HTTPRequestSizeBytes.WithLabelValues(method, pathPattern).Observe(float64(reqSize))
	m.HTTPResponseSizeBytes.WithLabelValues(method, pathPattern).Observe(float64(respSize))
}

// RecordValidation records one validation outcome. Subject is "state" or
// "transaction"; result is "passed", "failed", "recovered", or "bypassed".
func (m *Metrics) RecordValidation(subject, result string, duration time.Duration) {
	if m == nil {
		return
	}
	m.ValidationsTotal.WithLabelValues(subject, result).Inc()
	m.ValidationDuration.WithLabelValues(subject).Observe(duration.Seconds())
}

// RecordRecovery records an applied recovery strategy.
func (m *Metrics) RecordRecovery(strategy string) {
	if m == nil {
		return
	}
	m.RecoveriesTotal.WithLabelValues(strategy).Inc()
}

// RecordRepair records a full document rebuild.
func (m *Metrics) RecordRepair() {
	if m == nil {
		return
	}
	m.RepairsTotal.Inc()
}

// RecordMigration records an applied version migration.
func (m *Metrics) RecordMigration(from, to string) {
	if m == nil {
		return
	}
	m.MigrationsTotal.WithLabelValues(from, to).Inc()
}

// RecordCacheHit records a fingerprint cache hit.
func (m *Metrics) RecordCacheHit() {
	if m == nil {
		return
	}
	m.FingerprintCacheHitsTotal.Inc()
}

// RecordCacheMiss records a fingerprint cache miss.
func (m *Metrics) RecordCacheMiss() {
	if m == nil {
		return
	}
	m.FingerprintCacheMissesTotal.Inc()
}

// SetCacheSize sets the current fingerprint cache entry count.
func (m *Metrics) SetCacheSize(n int) {
	if m == nil {
		return
	}
	m.FingerprintCacheSize.Set(float64(n))
}

// --- HTTP Middleware ---

// MetricsMiddleware returns HTTP middleware that records request metrics using
// chi's route pattern (not the actual URL path) to avoid label cardinality
// explosion.
func (m *Metrics) MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &metricsResponseWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		duration := time.Since(start)
		pathPattern := routePattern(r)
		reqSize := 0
		if r.ContentLength > 0 {
			reqSize = int(r.ContentLength)
		}

		m.RecordHTTPRequest(r.Method, pathPattern, sw.status, duration, reqSize, sw.bytes)
	})
}

// Handler returns the Prometheus HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// routePattern extracts chi's route pattern from the request context.
// Falls back to the raw URL path if no pattern is found.
func routePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return r.URL.Path
	}
	pattern := strings.Join(rctx.RoutePatterns, "")
	// chi route patterns have trailing /*, remove it.
	pattern = strings.TrimSuffix(pattern, "/*")
	if pattern == "" {
		return r.URL.Path
	}
	return pattern
}

// metricsResponseWriter wraps http.ResponseWriter to capture status and bytes.
type metricsResponseWriter struct {
	http.ResponseWriter
	status  int
	bytes   int
	written bool
}

func (w *metricsResponseWriter) WriteHeader(code int) {
	if !w.written {
		w.status = code
		w.written = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *metricsResponseWriter) Write(b []byte) (int, error) {
	if !w.written {
		w.written = true
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}
