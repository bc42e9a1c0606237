// Package metrics exposes Prometheus instrumentation for the HTTP surface.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the request-level metrics and its registry.
type Collector struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	inFlight        prometheus.Gauge
	recordsTotal    *prometheus.CounterVec
	exportsTotal    *prometheus.CounterVec
}

// NewCollector creates a collector with its own registry, including the
// standard Go and process collectors.
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Collector{
		registry: registry,
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fintrack_http_requests_total",
			Help: "Total HTTP requests by method, path and status code.",
		}, []string{"method", "path", "status"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fintrack_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		inFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "fintrack_http_requests_in_flight",
			Help: "Number of HTTP requests currently being served.",
		}),
		recordsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fintrack_records_total",
			Help: "Total ledger records accepted, by kind.",
		}, []string{"kind"}),
		exportsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fintrack_exports_total",
			Help: "Total export attempts by outcome.",
		}, []string{"outcome"}),
	}
}

// Handler returns the /metrics endpoint handler.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// RecordAccepted counts an accepted ledger record.
func (c *Collector) RecordAccepted(kind string) {
	c.recordsTotal.WithLabelValues(kind).Inc()
}

// ExportResult counts an export attempt outcome ("ok" or "error").
func (c *Collector) ExportResult(outcome string) {
	c.exportsTotal.WithLabelValues(outcome).Inc()
}

// Middleware instruments the wrapped handler. The path label uses the
// route pattern, not the raw URL, to keep cardinality bounded.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		c.inFlight.Inc()
		defer c.inFlight.Dec()

		rw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)

		path := r.Pattern
		if path == "" {
			path = "unmatched"
		}
		c.requestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(rw.status)).Inc()
		c.requestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
