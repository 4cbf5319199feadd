// Package metrics defines the Prometheus collectors exported on /metrics.
//
// Collectors live on a dedicated registry so tests can build as many servers
// as they like without duplicate-registration panics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "events_api"

// Login results.
const (
	LoginSuccess     = "success"
	LoginInvalid     = "invalid"
	LoginError       = "error"
	LoginRateLimited = "rate_limited"
)

// Metrics bundles every collector the service records.
type Metrics struct {
	registry *prometheus.Registry

	// HTTPRequestsTotal counts requests by method, route pattern and status code.
	HTTPRequestsTotal *prometheus.CounterVec
	// HTTPRequestDuration observes latency by method and route pattern.
	HTTPRequestDuration *prometheus.HistogramVec
	// LoginAttemptsTotal counts login outcomes (success, invalid, error, rate_limited).
	LoginAttemptsTotal *prometheus.CounterVec
	// CORSRejectedTotal counts requests refused by the origin allow-list.
	CORSRejectedTotal prometheus.Counter
	// StoreErrorsTotal counts database failures surfaced to handlers, by operation.
	StoreErrorsTotal *prometheus.CounterVec
	// BookingsCreatedTotal counts bookings created through the API.
	BookingsCreatedTotal prometheus.Counter
}

// New builds and registers the collectors on a fresh registry, together with
// the Go runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		LoginAttemptsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "login_attempts_total",
			Help:      "Login attempts by result.",
		}, []string{"result"}),
		CORSRejectedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cors_rejected_total",
			Help:      "Requests rejected because their origin is not allowed.",
		}),
		StoreErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_errors_total",
			Help:      "Database failures by operation.",
		}, []string{"op"}),
		BookingsCreatedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_created_total",
			Help:      "Bookings created through the API.",
		}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.LoginAttemptsTotal,
		m.CORSRejectedTotal,
		m.StoreErrorsTotal,
		m.BookingsCreatedTotal,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
