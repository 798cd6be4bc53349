package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Config configures the metrics registry.
type Config struct {
	ServiceName string
	Environment string
}

// NewRegistry builds the prometheus registry with standard collectors.
func NewRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return registry
}

// HTTPMetrics captures inbound request counters and latency.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewHTTPMetrics registers the HTTP instruments on the registry.
func NewHTTPMetrics(registry *prometheus.Registry) *HTTPMetrics {
	m := &HTTPMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "recouvro_http_requests_total",
			Help: "Total HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "recouvro_http_request_duration_seconds",
			Help:    "HTTP request latency by route and method.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
	registry.MustRegister(m.requests, m.duration)
	return m
}

// GinMiddleware records per-request metrics.
func GinMiddleware(m *HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if strings.TrimSpace(route) == "" {
			route = "unknown"
		}
		method := c.Request.Method
		m.requests.WithLabelValues(route, method, strconv.Itoa(c.Writer.Status())).Inc()
		m.duration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
	}
}

// Metrics exposes application-level instruments.
type Metrics struct {
	oracleRequests   *prometheus.CounterVec
	oracleDuration   *prometheus.HistogramVec
	extractions      *prometheus.CounterVec
	sequences        *prometheus.CounterVec
	confirmations    prometheus.Counter
	rateLimitAllowed *prometheus.CounterVec
	rateLimitDenied  *prometheus.CounterVec
}

// New registers the domain instruments on the registry.
func New(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		oracleRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "recouvro_oracle_requests_total",
			Help: "Generative oracle calls by operation and outcome.",
		}, []string{"operation", "outcome"}),
		oracleDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "recouvro_oracle_request_duration_seconds",
			Help:    "Generative oracle call latency by operation.",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 45},
		}, []string{"operation"}),
		extractions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "recouvro_extractions_total",
			Help: "Invoice extractions by outcome.",
		}, []string{"outcome"}),
		sequences: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "recouvro_sequences_total",
			Help: "Dunning sequence generations by outcome.",
		}, []string{"outcome"}),
		confirmations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "recouvro_recovery_confirmations_total",
			Help: "Recovery procedures confirmed.",
		}),
		rateLimitAllowed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "recouvro_rate_limit_allowed_total",
			Help: "Requests allowed by the rate limiter.",
		}, []string{"endpoint"}),
		rateLimitDenied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "recouvro_rate_limit_denied_total",
			Help: "Requests denied by the rate limiter.",
		}, []string{"endpoint"}),
	}
	registry.MustRegister(
		m.oracleRequests,
		m.oracleDuration,
		m.extractions,
		m.sequences,
		m.confirmations,
		m.rateLimitAllowed,
		m.rateLimitDenied,
	)
	return m
}

// RecordOracleRequest increments oracle call counts and latency.
func (m *Metrics) RecordOracleRequest(operation, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.oracleRequests.WithLabelValues(operation, outcome).Inc()
	m.oracleDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// RecordExtraction increments extraction counts.
func (m *Metrics) RecordExtraction(outcome string) {
	if m == nil {
		return
	}
	m.extractions.WithLabelValues(outcome).Inc()
}

// RecordSequence increments dunning sequence generation counts.
func (m *Metrics) RecordSequence(outcome string) {
	if m == nil {
		return
	}
	m.sequences.WithLabelValues(outcome).Inc()
}

// RecordConfirmation increments confirmed procedure counts.
func (m *Metrics) RecordConfirmation() {
	if m == nil {
		return
	}
	m.confirmations.Inc()
}

// RecordRateLimitAllowed increments rate limit allow counts.
func (m *Metrics) RecordRateLimitAllowed(endpoint string) {
	if m == nil {
		return
	}
	m.rateLimitAllowed.WithLabelValues(endpoint).Inc()
}

// RecordRateLimitDenied increments rate limit deny counts.
func (m *Metrics) RecordRateLimitDenied(endpoint string) {
	if m == nil {
		return
	}
	m.rateLimitDenied.WithLabelValues(endpoint).Inc()
}
