package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the program module.
type Metrics struct {
	ProgramsCreated prometheus.Counter
	ProgramsDeleted prometheus.Counter
	ListLatency     prometheus.Histogram
}

// New creates a Metrics instance with all program module metrics registered.
func New() *Metrics {
	return &Metrics{
		ProgramsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sajag_programs_created_total",
			Help: "Total training programs created",
		}),
		ProgramsDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sajag_programs_deleted_total",
			Help: "Total training programs deleted, bulk deletes included",
		}),
		ListLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "sajag_programs_list_duration_seconds",
			Help:    "Duration of list queries including the visibility pipeline",
			Buckets: []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		}),
	}
}

func (m *Metrics) IncrementCreated() {
	if m != nil {
		m.ProgramsCreated.Inc()
	}
}

func (m *Metrics) AddDeleted(n int) {
	if m != nil {
		m.ProgramsDeleted.Add(float64(n))
	}
}

func (m *Metrics) ObserveListLatency(seconds float64) {
	if m != nil {
		m.ListLatency.Observe(seconds)
	}
}
