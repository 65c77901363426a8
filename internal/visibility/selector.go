package visibility

import (
	"sync"
	"time"

	"sajag/internal/program"
	"sajag/internal/visibility/metrics"
)

// Selector memoizes the last pipeline result so callers may re-read the
// visible set on every render without recomputation.
//
// The cache key is the (record slice identity, principal, criteria) triple.
// Slice identity (length plus backing-array address) stands in for the
// record-set version: the store replaces the slice wholesale on refresh, so a
// new fetch always misses and a stale result can never mix old and new
// records. Memoization is an optimization only; a miss just recomputes.
type Selector struct {
	mu      sync.Mutex
	metrics *metrics.Metrics

	cached        bool
	lastLen       int
	lastHead      *program.TrainingProgram
	lastPrincipal Principal
	lastCriteria  Criteria
	lastResult    []program.TrainingProgram
}

// NewSelector constructs a selector. Metrics may be nil.
func NewSelector(m *metrics.Metrics) *Selector {
	return &Selector{metrics: m}
}

// Visible returns the visible record sequence for the given inputs, reusing
// the previous result when all three inputs are unchanged.
func (s *Selector) Visible(records []program.TrainingProgram, p Principal, c Criteria) []program.TrainingProgram {
	var head *program.TrainingProgram
	if len(records) > 0 {
		head = &records[0]
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached &&
		s.lastLen == len(records) &&
		s.lastHead == head &&
		s.lastPrincipal == p &&
		s.lastCriteria == c {
		s.metrics.RecordHit()
		return s.lastResult
	}

	start := time.Now()
	result := Apply(records, p, c)
	s.metrics.RecordMiss(time.Since(start))

	s.cached = true
	s.lastLen = len(records)
	s.lastHead = head
	s.lastPrincipal = p
	s.lastCriteria = c
	s.lastResult = result
	return result
}

// Invalidate drops the memoized result. Stores call this after any mutation
// so the next read recomputes even if the slice header looks unchanged.
func (s *Selector) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cached = false
	s.lastResult = nil
	s.lastHead = nil
}
