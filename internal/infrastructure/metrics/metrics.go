// Package metrics exposes Prometheus collectors for access decisions, the decision
// cache, HTTP requests and the expiry worker.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"genesiscode/internal/domain/access"
)

const namespace = "genesis"

// Metrics owns a private registry so tests can build as many as they like.
type Metrics struct {
	registry *prometheus.Registry
	handler  http.Handler

	decisions        *prometheus.CounterVec
	decisionDuration *prometheus.HistogramVec
	cacheLookups     *prometheus.CounterVec
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	expiredTotal     *prometheus.CounterVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "access_decisions_total",
			Help:      "Access decisions by outcome and source or reason.",
		}, []string{"outcome", "source", "reason"}),
		decisionDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "access_decision_duration_seconds",
			Help:      "Time to answer an access query, cache hits included.",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"outcome"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "access_cache_lookups_total",
			Help:      "Decision cache lookups by result.",
		}, []string{"result"}),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"method", "route", "code"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		expiredTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entitlements_expired_total",
			Help:      "Entitlements switched off by the expiry worker, by kind.",
		}, []string{"kind"}),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.decisions,
		m.decisionDuration,
		m.cacheLookups,
		m.requestsTotal,
		m.requestDuration,
		m.expiredTotal,
	)
	m.handler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
	return m
}

// Registry exposes the registry for tests and custom collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves /metrics.
func (m *Metrics) Handler() http.Handler {
	return m.handler
}

// ObserveDecision records one engine answer.
func (m *Metrics) ObserveDecision(d access.Decision, elapsed time.Duration) {
	outcome := "deny"
	if d.HasAccess {
		outcome = "allow"
	}
	m.decisions.WithLabelValues(outcome, string(d.Source), string(d.Reason)).Inc()
	m.decisionDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

func (m *Metrics) CacheResult(result string) {
	m.cacheLookups.WithLabelValues(result).Inc()
}

// EntitlementsExpired adds n to the counter of the given kind; zero is ignored.
func (m *Metrics) EntitlementsExpired(kind string, n int) {
	if n <= 0 {
		return
	}
	m.expiredTotal.WithLabelValues(kind).Add(float64(n))
}

// GinMiddleware records request counts and latency labelled by the matched route
// template, never the raw path.
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.requestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
