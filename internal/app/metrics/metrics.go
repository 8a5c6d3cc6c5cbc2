package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "vanpos",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vanpos",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "vanpos",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "path"},
	)

	checkouts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "vanpos",
			Subsystem: "pos",
			Name:      "checkouts_total",
			Help:      "Total number of completed checkouts.",
		},
	)

	checkoutAmount = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "vanpos",
			Subsystem: "pos",
			Name:      "checkout_amount",
			Help:      "Sale totals in whole currency units.",
			Buckets:   prometheus.ExponentialBuckets(50, 2, 8), // 50 to ~6400
		},
	)

	cartRejections = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "vanpos",
			Subsystem: "pos",
			Name:      "cart_add_rejections_total",
			Help:      "Cart add attempts rejected by the unique-item cap.",
		},
	)

	resets = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "vanpos",
			Subsystem: "pos",
			Name:      "resets_total",
			Help:      "Total number of confirmed day resets.",
		},
	)

	insightsRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vanpos",
			Subsystem: "insights",
			Name:      "requests_total",
			Help:      "Insights generation attempts by outcome.",
		},
		[]string{"status"},
	)

	insightsDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "vanpos",
			Subsystem: "insights",
			Name:      "request_duration_seconds",
			Help:      "Duration of insights generation calls.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms to ~50s
		},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		checkouts,
		checkoutAmount,
		cartRejections,
		resets,
		insightsRequests,
		insightsDuration,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// InstrumentHandler wraps the provided handler with HTTP metrics collection.
func InstrumentHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		httpInFlight.Inc()
		defer httpInFlight.Dec()

		next.ServeHTTP(rec, r)

		duration := time.Since(start)
		path := canonicalPath(r.URL.Path)
		method := strings.ToUpper(r.Method)

		httpRequests.WithLabelValues(method, path, strconv.Itoa(rec.status)).Inc()
		httpDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	})
}

// RecordCheckout records metrics for a completed checkout.
func RecordCheckout(total int) {
	checkouts.Inc()
	checkoutAmount.Observe(float64(total))
}

// RecordCartRejection counts a cap-rejected cart add.
func RecordCartRejection() {
	cartRejections.Inc()
}

// RecordReset counts a confirmed day reset.
func RecordReset() {
	resets.Inc()
}

// RecordInsights records the outcome and duration of an insights call.
func RecordInsights(status string, duration time.Duration) {
	if duration <= 0 {
		duration = time.Millisecond
	}
	insightsRequests.WithLabelValues(status).Inc()
	insightsDuration.Observe(duration.Seconds())
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

// knownPaths keeps the path label set bounded; anything outside the API
// surface is collapsed into a single bucket.
var knownPaths = map[string]struct{}{
	"/":              {},
	"/healthz":       {},
	"/catalog":       {},
	"/cart":          {},
	"/cart/items":    {},
	"/checkout":      {},
	"/sales":         {},
	"/sales/summary": {},
	"/reset":         {},
	"/stock":         {},
	"/stock/commit":  {},
	"/insights":      {},
	"/view":          {},
}

func canonicalPath(raw string) string {
	trimmed := strings.Trim(raw, "/")
	if trimmed == "" {
		return "/"
	}
	parts := strings.Split(trimmed, "/")
	if parts[0] == "stock" && len(parts) == 2 && parts[1] != "commit" {
		return "/stock/:product"
	}
	path := "/" + trimmed
	if _, ok := knownPaths[path]; ok {
		return path
	}
	return "other"
}
