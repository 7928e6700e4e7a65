// Package metrics registers the Prometheus instruments for the request
// pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus instruments for the gateway.
type Metrics struct {
	Requests          *prometheus.CounterVec
	CacheHits         prometheus.Counter
	CacheMisses       prometheus.Counter
	RateLimited       *prometheus.CounterVec
	ProviderLatencyMS *prometheus.HistogramVec
}

// New creates and registers all instruments on the default registry.
func New() *Metrics {
	return &Metrics{
		Requests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "lexgate_requests_total",
			Help: "Requests handled by the orchestrator, by operation and outcome",
		}, []string{"operation", "outcome"}),
		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "lexgate_cache_hits_total",
			Help: "Cache hits across all operations",
		}),
		CacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "lexgate_cache_misses_total",
			Help: "Cache misses across all operations",
		}),
		RateLimited: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "lexgate_rate_limited_total",
			Help: "Requests rejected by a rate limiter, by operation",
		}, []string{"operation"}),
		ProviderLatencyMS: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lexgate_provider_latency_ms",
			Help:    "Upstream provider call latency in milliseconds",
			Buckets: []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		}, []string{"provider", "operation"}),
	}
}
