package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jamiebuilds/bundlephobia-compare/pkg/session"
)

// Metrics collects Prometheus metrics for the server. It implements the
// fetch, cache and HTTP hook interfaces of the observability package.
type Metrics struct {
	registry *prometheus.Registry

	// Server requests
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	// Fetch cycles
	cyclesTotal    prometheus.Counter
	fetchesTotal   *prometheus.CounterVec
	fetchDuration  prometheus.Histogram
	discardedTotal prometheus.Counter

	// Response cache
	cacheRequests *prometheus.CounterVec
	cacheBytes    *prometheus.CounterVec

	// Upstream API
	upstreamTotal    *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	upstreamErrors   *prometheus.CounterVec
}

// NewMetrics registers all metrics on a private registry. When store is
// non-nil its size is exported as a gauge.
func NewMetrics(store *session.Store) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		registry: reg,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bundlephobia_compare_http_requests_total",
			Help: "Total number of HTTP requests served",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bundlephobia_compare_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"method", "route"}),
		cyclesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bundlephobia_compare_fetch_cycles_total",
			Help: "Total number of fetch cycles started",
		}),
		fetchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bundlephobia_compare_fetches_total",
			Help: "Total number of size history fetches by result",
		}, []string{"result"}),
		fetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "bundlephobia_compare_fetch_duration_seconds",
			Help:    "Size history fetch latency in seconds, cache hits included",
			Buckets: prometheus.DefBuckets,
		}),
		discardedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bundlephobia_compare_results_discarded_total",
			Help: "Fetch results dropped because their cycle was superseded",
		}),
		cacheRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bundlephobia_compare_cache_requests_total",
			Help: "Response cache lookups by result",
		}, []string{"namespace", "result"}),
		cacheBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bundlephobia_compare_cache_written_bytes_total",
			Help: "Bytes written to the response cache",
		}, []string{"namespace"}),
		upstreamTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bundlephobia_compare_upstream_requests_total",
			Help: "Requests sent to upstream APIs by status code",
		}, []string{"host", "status"}),
		upstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bundlephobia_compare_upstream_request_duration_seconds",
			Help:    "Upstream API latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"host"}),
		upstreamErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bundlephobia_compare_upstream_errors_total",
			Help: "Upstream requests that failed without a response",
		}, []string{"host"}),
	}

	reg.MustRegister(
		m.requestsTotal, m.requestDuration,
		m.cyclesTotal, m.fetchesTotal, m.fetchDuration, m.discardedTotal,
		m.cacheRequests, m.cacheBytes,
		m.upstreamTotal, m.upstreamDuration, m.upstreamErrors,
	)
	if store != nil {
		reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "bundlephobia_compare_store_packages",
			Help: "Number of packages held in the shared size history store",
		}, func() float64 { return float64(store.Len()) }))
	}
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware records request counts and latency labelled by chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.requestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

func (m *Metrics) OnCycleStart(context.Context, uint64, int) { m.cyclesTotal.Inc() }

func (m *Metrics) OnFetchStart(context.Context, string) {}

func (m *Metrics) OnFetchComplete(_ context.Context, _ string, d time.Duration, err error) {
	result := "ok"
	switch {
	case errors.Is(err, context.Canceled):
		result = "cancelled"
	case err != nil:
		result = "error"
	}
	m.fetchesTotal.WithLabelValues(result).Inc()
	m.fetchDuration.Observe(d.Seconds())
}

func (m *Metrics) OnResultDiscarded(context.Context, string, uint64) { m.discardedTotal.Inc() }

func (m *Metrics) OnCacheHit(_ context.Context, namespace string) {
	m.cacheRequests.WithLabelValues(namespace, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, namespace string) {
	m.cacheRequests.WithLabelValues(namespace, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, namespace string, size int) {
	m.cacheBytes.WithLabelValues(namespace).Add(float64(size))
}

func (m *Metrics) OnRequest(context.Context, string, string, string) {}

func (m *Metrics) OnResponse(_ context.Context, _, host, _ string, status int, d time.Duration) {
	m.upstreamTotal.WithLabelValues(host, strconv.Itoa(status)).Inc()
	m.upstreamDuration.WithLabelValues(host).Observe(d.Seconds())
}

func (m *Metrics) OnError(_ context.Context, _, host, _ string, _ error) {
	m.upstreamErrors.WithLabelValues(host).Inc()
}
