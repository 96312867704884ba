package observability

import (
	dto "github.com/prometheus/client_model/go"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts registry HTTP requests by method, status
	// code, and host.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cratecompat_http_requests_total",
			Help: "Total number of HTTP requests by method and status",
		},
		[]string{"method", "status_code", "host"},
	)

	// HTTPRequestDuration tracks registry HTTP request duration in seconds.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cratecompat_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 15), // 1ms to 16s
		},
		[]string{"method", "host"},
	)

	// CrateFetchesTotal counts registry lookups by endpoint and outcome.
	CrateFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cratecompat_crate_fetches_total",
			Help: "Total number of crate metadata fetches by endpoint and status",
		},
		[]string{"endpoint", "status"}, // endpoint: dependencies, versions; status: success, failure
	)

	// CacheHitsTotal counts cache hits by tier.
	CacheHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cratecompat_cache_hits_total",
			Help: "Total number of cache hits by cache tier",
		},
		[]string{"tier"},
	)

	// CacheMissesTotal counts cache misses by tier.
	CacheMissesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cratecompat_cache_misses_total",
			Help: "Total number of cache misses by cache tier",
		},
		[]string{"tier"},
	)

	// CircuitBreakerState tracks circuit breaker state by host.
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cratecompat_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=open, 2=half-open)",
		},
		[]string{"host"},
	)

	// CircuitBreakerFailures counts circuit breaker failures by host.
	CircuitBreakerFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cratecompat_circuit_breaker_failures_total",
			Help: "Total number of circuit breaker failures",
		},
		[]string{"host"},
	)

	// RateLimitRequestsTotal counts rate limiter decisions.
	RateLimitRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cratecompat_rate_limit_requests_total",
			Help: "Total number of rate limited requests",
		},
		[]string{"host", "allowed"},
	)

	// RateLimitTokens tracks currently available rate limit tokens.
	RateLimitTokens = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cratecompat_rate_limit_tokens",
			Help: "Current number of available rate limit tokens",
		},
		[]string{"host"},
	)
)

// GetCounterValue reads the current value of a labeled counter. Primarily
// for tests.
func GetCounterValue(counter *prometheus.CounterVec, labels ...string) (float64, error) {
	metric, err := counter.GetMetricWithLabelValues(labels...)
	if err != nil {
		return 0, err
	}

	var pb dto.Metric
	if err := metric.Write(&pb); err != nil {
		return 0, err
	}

	if pb.Counter != nil {
		return pb.Counter.GetValue(), nil
	}
	return 0, nil
}
