package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	// HTTP Metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPResponseSize    *prometheus.HistogramVec

	// Lookup Metrics
	LookupsTotal            *prometheus.CounterVec
	LookupErrors            *prometheus.CounterVec
	ProviderRequestDuration *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),

		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint", "status"},
		),

		HTTPResponseSize: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: prometheus.ExponentialBuckets(100, 10, 7),
			},
			[]string{"method", "endpoint", "status"},
		),

		LookupsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "geo_lookups_total",
				Help: "Total number of geolocation lookups",
			},
			[]string{"result", "provider"},
		),

		LookupErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "geo_lookup_errors_total",
				Help: "Total number of geolocation lookup errors by kind",
			},
			[]string{"kind"},
		),

		ProviderRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "geo_provider_request_duration_seconds",
				Help:    "Outbound provider request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"provider"},
		),
	}
}
