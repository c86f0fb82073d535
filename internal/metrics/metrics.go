// Package metrics holds the Prometheus collectors shared by the service,
// provider and HTTP layers. Collectors register with the default registry and
// are exposed by promhttp on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Cache lookup results.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

var (
	// CacheLookups counts cache reads by result (hit, miss, error).
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "location_cache_lookups_total",
			Help: "Total number of cache lookups by result",
		},
		[]string{"result"},
	)

	// CacheWrites counts background cache inserts by outcome.
	CacheWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "location_cache_writes_total",
			Help: "Total number of cache inserts by outcome",
		},
		[]string{"outcome"},
	)

	// GenerationAttempts counts calls to generation backends.
	GenerationAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "location_generation_attempts_total",
			Help: "Total number of generation backend calls by provider and outcome",
		},
		[]string{"provider", "outcome"},
	)

	// GenerationDuration observes the latency of generation backend calls.
	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "location_generation_duration_seconds",
			Help:    "Generation backend latency in seconds",
			Buckets: []float64{.5, 1, 2.5, 5, 10, 20, 30, 45, 60},
		},
		[]string{"provider"},
	)

	// ImageResolutions counts which source supplied each header image.
	ImageResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "location_image_resolutions_total",
			Help: "Total number of header image resolutions by source",
		},
		[]string{"source"},
	)

	// HTTPRequests counts HTTP requests by method, route and status.
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "location_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPDuration observes HTTP request latency by method and route.
	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "location_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"method", "path"},
	)
)

// Outcome maps an error to the outcome label value.
func Outcome(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
