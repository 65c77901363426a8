package visibility

import (
	"strings"
	"time"

	"sajag/internal/program"
)

// DateRange bounds a program's start date. The constraint only applies when
// both bounds are set; a half-open range imposes no constraint, matching how
// the dashboard's date picker submits values.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// IsSet reports whether both bounds are present.
func (r DateRange) IsSet() bool { return !r.Start.IsZero() && !r.End.IsZero() }

// Criteria is the user-chosen filter state layered on top of authorization.
// The zero value imposes no constraint at all. Criteria is comparable so it
// can key the selector cache.
type Criteria struct {
	// Search matches case-insensitively against title, ID, and district;
	// a record matches if any of the three contains the term.
	Search string

	State     string
	District  string
	Theme     string
	PartnerID string
	Status    string

	DateRange DateRange
}

// IsZero reports whether no constraint is set.
func (c Criteria) IsZero() bool { return c == Criteria{} }

// matches evaluates every predicate against one record, combined by AND.
// A panic while evaluating (malformed record data) excludes only that record
// rather than aborting the whole computation.
func (c Criteria) matches(rec program.TrainingProgram) (matched bool) {
	defer func() {
		if recover() != nil {
			matched = false
		}
	}()

	if c.Search != "" {
		term := strings.ToLower(c.Search)
		if !strings.Contains(strings.ToLower(rec.Title), term) &&
			!strings.Contains(strings.ToLower(rec.ID.String()), term) &&
			!strings.Contains(strings.ToLower(rec.District), term) {
			return false
		}
	}
	if c.State != "" && rec.State != c.State {
		return false
	}
	if c.District != "" && rec.District != c.District {
		return false
	}
	if c.Theme != "" && rec.Theme != c.Theme {
		return false
	}
	if c.PartnerID != "" && rec.PartnerID.String() != c.PartnerID {
		return false
	}
	if c.Status != "" && string(rec.Status) != c.Status {
		return false
	}
	if c.DateRange.IsSet() {
		// An inverted range matches nothing rather than erroring; the UI
		// must stay responsive to exploratory filter combinations.
		if rec.StartDate.Before(c.DateRange.Start) || rec.StartDate.After(c.DateRange.End) {
			return false
		}
	}
	return true
}
