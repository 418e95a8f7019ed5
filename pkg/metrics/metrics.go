package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the service's prometheus collectors.
// All methods are safe on a nil receiver (metrics disabled).
// ⭐ SSOT: 메트릭 정의는 여기서만
type Metrics struct {
	registry *prometheus.Registry

	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	ratioRequests   *prometheus.CounterVec
	cacheLookups    *prometheus.CounterVec
	persistFailures prometheus.Counter
	collectRuns     *prometheus.CounterVec
}

// New registers every collector on a private registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ratioservice_http_requests_total",
			Help: "HTTP requests by route and status code.",
		}, []string{"route", "method", "code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ratioservice_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		ratioRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ratioservice_ratio_calculations_total",
			Help: "Ratio calculations by outcome (cache_hit, computed, not_found, error).",
		}, []string{"outcome"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ratioservice_ratio_cache_lookups_total",
			Help: "Ratio cache lookups by result (hit, miss, error).",
		}, []string{"result"}),
		persistFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ratioservice_ratio_persist_failures_total",
			Help: "Computed ratio records that failed to persist.",
		}),
		collectRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ratioservice_collect_companies_total",
			Help: "Companies processed by the DART collector by result.",
		}, []string{"result"}),
	}

	reg.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.ratioRequests,
		m.cacheLookups,
		m.persistFailures,
		m.collectRuns,
	)
	return m
}

// Handler serves the registry in the prometheus text format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the registry for tests
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ObserveHTTP(route, method string, code int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(code)).Inc()
	m.httpDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// Ratio calculation outcomes
const (
	OutcomeCacheHit = "cache_hit"
	OutcomeComputed = "computed"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

func (m *Metrics) RatioOutcome(outcome string) {
	if m == nil {
		return
	}
	m.ratioRequests.WithLabelValues(outcome).Inc()
}

// Cache lookup results
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

func (m *Metrics) CacheLookup(result string) {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

func (m *Metrics) PersistFailure() {
	if m == nil {
		return
	}
	m.persistFailures.Inc()
}

// CollectResult records one company processed by the collector ("ok", "empty", "failed")
func (m *Metrics) CollectResult(result string) {
	if m == nil {
		return
	}
	m.collectRuns.WithLabelValues(result).Inc()
}
