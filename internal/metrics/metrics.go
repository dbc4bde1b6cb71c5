// Package metrics exposes Prometheus collectors for ESPN calls, cache
// lookups, projection runs and the HTTP surface.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
)

type Metrics struct {
	namespace string
	registry  *prometheus.Registry

	espnRequests    *prometheus.CounterVec
	espnLatency     *prometheus.HistogramVec
	cacheLookups    *prometheus.CounterVec
	analysisRuns    prometheus.Counter
	playersAnalyzed prometheus.Counter
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
}

type Option func(*Metrics)

func WithNamespace(namespace string) Option {
	return func(m *Metrics) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithRegistry replaces the private registry, mostly for tests.
func WithRegistry(registry *prometheus.Registry) Option {
	return func(m *Metrics) {
		if registry != nil {
			m.registry = registry
		}
	}
}

func New(opts ...Option) *Metrics {
	m := &Metrics{
		namespace: "espn_ffl",
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}

	m.espnRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "espn_requests_total",
		Help:      "ESPN API requests by endpoint and outcome.",
	}, []string{"endpoint", "outcome"})
	m.espnLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "espn_request_duration_seconds",
		Help:      "ESPN API request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"endpoint"})
	m.cacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "cache_lookups_total",
		Help:      "File cache lookups by kind and status.",
	}, []string{"kind", "status"})
	m.analysisRuns = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "projection_analysis_runs_total",
		Help:      "Completed projection analysis runs.",
	})
	m.playersAnalyzed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "projection_players_analyzed_total",
		Help:      "Players passed through the bias correction engine.",
	})
	m.httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests served.",
	}, []string{"method", "path", "status"})
	m.httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path"})

	m.registry.MustRegister(
		m.espnRequests,
		m.espnLatency,
		m.cacheLookups,
		m.analysisRuns,
		m.playersAnalyzed,
		m.httpRequests,
		m.httpDuration,
	)
	return m
}

func (m *Metrics) ObserveESPNRequest(endpoint, outcome string, d time.Duration) {
	m.espnRequests.WithLabelValues(endpoint, outcome).Inc()
	m.espnLatency.WithLabelValues(endpoint).Observe(d.Seconds())
}

func (m *Metrics) ObserveCacheLookup(kind, status string) {
	m.cacheLookups.WithLabelValues(kind, status).Inc()
}

func (m *Metrics) ObserveAnalysis(players int) {
	m.analysisRuns.Inc()
	m.playersAnalyzed.Add(float64(players))
}

func (m *Metrics) ObserveHTTPRequest(method, path string, status int, d time.Duration) {
	m.httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, path).Observe(d.Seconds())
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

var Module = fx.Provide(func() *Metrics { return New() })
