package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the collectors of the service.
type Metrics struct {
	HTTPRequests       *prometheus.CounterVec
	RequestSeconds     *prometheus.HistogramVec
	Calculations       *prometheus.CounterVec
	ValidationFailures *prometheus.CounterVec
	RateLimitDecisions *prometheus.CounterVec
}

// NewMetrics registers every collector on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		HTTPRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "geodist_http_requests_total",
			Help: "Total number of HTTP requests served by the API.",
		}, []string{"route", "method", "status"}),
		RequestSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "geodist_http_request_duration_seconds",
			Help:    "Duration of HTTP requests served by the API.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		Calculations: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "geodist_distance_calculations_total",
			Help: "Total number of successful distance calculations.",
		}, []string{"unit"}),
		ValidationFailures: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "geodist_validation_failures_total",
			Help: "Total number of rejected distance queries.",
		}, []string{"kind"}),
		RateLimitDecisions: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "geodist_ratelimit_decisions_total",
			Help: "Total number of rate limiter decisions.",
		}, []string{"store", "decision"}),
	}
}
