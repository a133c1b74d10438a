package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all client-side metrics
type Metrics struct {
	// API client metrics
	APIRequests *prometheus.CounterVec
	APILatency  *prometheus.HistogramVec
	BreakerOpen prometheus.Counter

	// Lookup cache metrics
	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter

	// Cascade delete metrics
	CascadeRuns       *prometheus.CounterVec
	DependentsDeleted *prometheus.CounterVec
}

// New creates and registers all client metrics against the given registerer
func New(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		APIRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "Total number of API requests by resource, method and outcome",
		}, []string{"resource", "method", "outcome"}),
		APILatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_request_duration_seconds",
			Help:      "Duration of API requests",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"resource", "method"}),
		BreakerOpen: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "breaker_rejections_total",
			Help:      "Requests rejected because the circuit breaker was open",
		}),
		CacheHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lookup_cache_hits_total",
			Help:      "Name-lookup list reads served from the in-memory cache",
		}),
		CacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lookup_cache_misses_total",
			Help:      "Name-lookup list reads that went to the backend",
		}),
		CascadeRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cascade_deletes_total",
			Help:      "Cascade delete operations by parent type and outcome",
		}, []string{"parent_type", "outcome"}),
		DependentsDeleted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cascade_dependents_deleted_total",
			Help:      "Dependent records removed during cascade deletes",
		}, []string{"resource"}),
	}
}
