package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	// Business metrics
	recommendationsComputed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendations_computed_total",
			Help: "Total number of recommendation runs",
		},
		[]string{"has_history"},
	)

	chatMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_messages_total",
			Help: "Total number of chat messages proxied",
		},
		[]string{"status"},
	)

	chatLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "chat_upstream_duration_seconds",
			Help:    "Upstream text-generation request duration in seconds",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30},
		},
	)

	resultsUploaded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "test_results_created_total",
			Help: "Total number of test results recorded",
		},
		[]string{"type"},
	)

	logins = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_logins_total",
			Help: "Total number of login attempts",
		},
		[]string{"outcome"},
	)

	clinicImports = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "clinic_results_imported_total",
			Help: "Total number of lab results imported from the legacy clinic system",
		},
	)
)

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware creates HTTP metrics middleware
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()
		path := normalizePath(r.URL.Path)

		httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.statusCode)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// normalizePath normalizes URL paths for metrics to avoid cardinality explosion
func normalizePath(path string) string {
	if len(path) > 100 {
		return "/api/..."
	}
	return path
}

// --- Business metric helpers ---

// RecordRecommendationRun records one recommendation computation
func RecordRecommendationRun(hasHistory bool) {
	recommendationsComputed.WithLabelValues(strconv.FormatBool(hasHistory)).Inc()
}

// RecordChatMessage records a proxied chat exchange and its upstream latency
func RecordChatMessage(status string, duration time.Duration) {
	chatMessages.WithLabelValues(status).Inc()
	chatLatency.Observe(duration.Seconds())
}

// RecordResultCreated records a test result entry
func RecordResultCreated(resultType string) {
	resultsUploaded.WithLabelValues(resultType).Inc()
}

// RecordLogin records a login attempt
func RecordLogin(success bool) {
	outcome := "failure"
	if success {
		outcome = "success"
	}
	logins.WithLabelValues(outcome).Inc()
}

// RecordClinicImport records one imported lab result
func RecordClinicImport() {
	clinicImports.Inc()
}
