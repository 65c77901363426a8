// Package visibility computes which training records a principal may see.
//
// Every downstream consumer (list views, KPI tiles, charts, map markers,
// exports, bulk actions) reads from this pipeline and nothing else. An
// aggregate that queries the unfiltered store directly bypasses authorization
// and is a correctness bug.
//
// The pipeline is a pure function of (records, principal, criteria): no I/O,
// no hidden state, output always a subset of the input in input order.
package visibility

import (
	"sajag/internal/program"
)

// Authorize narrows records to those the principal may see.
//
// Admin and viewer roles bypass scoping unconditionally. Scoped roles
// intersect each non-empty scope set with the matching record field; scopes
// combine by logical AND, so a record must satisfy every constraint at once.
func Authorize(records []program.TrainingProgram, p Principal) []program.TrainingProgram {
	if p.Unrestricted() {
		return records
	}
	out := make([]program.TrainingProgram, 0, len(records))
	for _, rec := range records {
		if !p.allowsState(rec.State) {
			continue
		}
		if !p.allowsPartner(rec.PartnerID) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// Filter narrows records to those matching the criteria. All predicates
// combine by AND; the zero criteria returns the input unchanged.
func Filter(records []program.TrainingProgram, c Criteria) []program.TrainingProgram {
	if c.IsZero() {
		return records
	}
	out := make([]program.TrainingProgram, 0, len(records))
	for _, rec := range records {
		if c.matches(rec) {
			out = append(out, rec)
		}
	}
	return out
}

// Apply is the full pipeline: authorization first, then criteria filtering.
// The result preserves input order and never exceeds the input in size.
func Apply(records []program.TrainingProgram, p Principal, c Criteria) []program.TrainingProgram {
	return Filter(Authorize(records, p), c)
}
