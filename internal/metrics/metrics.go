// Package metrics exposes prometheus instruments for the HTTP API and the
// upload pipeline.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Upload outcomes.
const (
	UploadStored    = "stored"
	UploadRejected  = "rejected"
	UploadFailed    = "failed"
	CleanupDeleted  = "deleted"
	CleanupNotFound = "not_found"
	CleanupFailed   = "failed"
)

// Metrics holds the API and upload instruments.
type Metrics struct {
	registry prometheus.Gatherer

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	uploads         *prometheus.CounterVec
	cleanups        *prometheus.CounterVec
}

// New creates the instruments and registers them on a fresh registry that
// also carries the Go and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return NewWithRegistry(reg, reg)
}

// NewWithRegistry registers the instruments on reg and serves g.
func NewWithRegistry(reg prometheus.Registerer, g prometheus.Gatherer) *Metrics {
	m := &Metrics{
		registry: g,
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "employee_api_http_requests_total", Help: "HTTP requests by route and status"},
			[]string{"method", "route", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "employee_api_http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
			[]string{"method", "route"},
		),
		uploads: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "employee_api_uploads_total", Help: "Profile picture uploads by outcome"},
			[]string{"outcome"},
		),
		cleanups: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "employee_api_upload_cleanups_total", Help: "Stored file deletions by outcome"},
			[]string{"outcome"},
		),
	}
	reg.MustRegister(m.requests, m.requestDuration, m.uploads, m.cleanups)
	return m
}

// ObserveRequest counts a finished request and records its latency.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveUpload counts an upload outcome.
func (m *Metrics) ObserveUpload(outcome string) {
	m.uploads.WithLabelValues(outcome).Inc()
}

// ObserveCleanup counts a stored file deletion outcome.
func (m *Metrics) ObserveCleanup(outcome string) {
	m.cleanups.WithLabelValues(outcome).Inc()
}

// Handler serves the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
