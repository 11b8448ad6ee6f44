// Package metrics exposes Prometheus collectors for the estimate server.
package metrics

import (
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace = "yacht_calculate"

	// EnvLatencyBuckets overrides the latency buckets, formatted like "5,10,50,100".
	EnvLatencyBuckets = "YACHT_LATENCY_BUCKETS"

	RequestsCollectorName = "http_requests_total"
	LatencyCollectorName  = "http_request_duration_milliseconds"

	scheduleLabel = "schedule"
	resultLabel   = "result"
)

var defaultBuckets = []float64{1, 5, 10, 50, 100, 500}

// Metrics owns a registry holding the HTTP and estimate collectors. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	requests    *prometheus.CounterVec
	latency     *prometheus.HistogramVec
	estimates   *prometheus.CounterVec
	totals      *prometheus.HistogramVec
	cache       *prometheus.CounterVec
	rateLimited prometheus.Counter
}

// LatencyBuckets returns the buckets configured through EnvLatencyBuckets,
// or the defaults when it is unset.
func LatencyBuckets() ([]float64, error) {
	conf, ok := os.LookupEnv(EnvLatencyBuckets)
	if !ok || strings.TrimSpace(conf) == "" {
		return defaultBuckets, nil
	}

	var buckets []float64
	for _, v := range strings.Split(conf, ",") {
		f64v, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, err
		}
		buckets = append(buckets, f64v)
	}
	return buckets, nil
}

// New builds the collectors for the named service and registers them on a
// fresh registry.
func New(service string) (*Metrics, error) {
	buckets, err := LatencyBuckets()
	if err != nil {
		return nil, err
	}
	constLabels := prometheus.Labels{"service": service}

	m := &Metrics{registry: prometheus.NewRegistry()}
	m.requests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   namespace,
		Name:        RequestsCollectorName,
		Help:        "Number of HTTP requests partitioned by status code, method and HTTP path.",
		ConstLabels: constLabels,
	}, []string{"code", "method", "path"})
	m.latency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   namespace,
		Name:        LatencyCollectorName,
		Help:        "Time spent on the request partitioned by status code, method and HTTP path.",
		ConstLabels: constLabels,
		Buckets:     buckets,
	}, []string{"code", "method", "path"})
	m.estimates = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "estimates_total",
		Help:      "Number of estimates computed, by schedule.",
	}, []string{scheduleLabel})
	m.totals = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "estimate_total_euros",
		Help:      "Distribution of estimated annual totals, by schedule.",
		Buckets:   prometheus.ExponentialBuckets(10_000, 4, 8),
	}, []string{scheduleLabel})
	m.cache = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "estimate_cache_lookups_total",
		Help:      "Estimate cache lookups, by result.",
	}, []string{resultLabel})
	m.rateLimited = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_requests_total",
		Help:      "Requests rejected by the rate limiter.",
	})

	for _, c := range m.Collectors() {
		if err := m.registry.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Collectors returns every collector owned by m.
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{m.requests, m.latency, m.estimates, m.totals, m.cache, m.rateLimited}
}

// Registry returns the registry the collectors live in.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency under the chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	fn := func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		path := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			path = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		code := strconv.Itoa(status)
		m.requests.WithLabelValues(code, r.Method, path).Inc()
		m.latency.WithLabelValues(code, r.Method, path).Observe(float64(time.Since(start).Milliseconds()))
	}
	return http.HandlerFunc(fn)
}

// ObserveEstimate counts one computed estimate.
func (m *Metrics) ObserveEstimate(schedule string, total float64) {
	if m == nil {
		return
	}
	m.estimates.WithLabelValues(schedule).Inc()
	m.totals.WithLabelValues(schedule).Observe(total)
}

// ObserveCacheLookup counts a cache hit or miss.
func (m *Metrics) ObserveCacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cache.WithLabelValues(result).Inc()
}

// ObserveRateLimited counts one rejected request.
func (m *Metrics) ObserveRateLimited() {
	if m == nil {
		return
	}
	m.rateLimited.Inc()
}
