package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the visibility pipeline.
type Metrics struct {
	// Selector cache outcomes
	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter

	// Full pipeline computation latency (cache misses only)
	ApplyLatency prometheus.Histogram
}

// New creates a Metrics instance with all visibility metrics registered.
func New() *Metrics {
	return &Metrics{
		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sajag_visibility_cache_hits_total",
			Help: "Selector invocations served from the memoized result",
		}),
		CacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sajag_visibility_cache_misses_total",
			Help: "Selector invocations that recomputed the pipeline",
		}),
		ApplyLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "sajag_visibility_apply_duration_seconds",
			Help:    "Duration of a full authorize+filter computation",
			Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025},
		}),
	}
}

// RecordHit counts a memoized selector read.
func (m *Metrics) RecordHit() {
	if m != nil {
		m.CacheHits.Inc()
	}
}

// RecordMiss counts a recomputation and its latency.
func (m *Metrics) RecordMiss(d time.Duration) {
	if m != nil {
		m.CacheMisses.Inc()
		m.ApplyLatency.Observe(d.Seconds())
	}
}
