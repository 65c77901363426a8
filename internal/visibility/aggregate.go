package visibility

import (
	"math"
	"sort"

	"sajag/internal/program"
)

// Aggregates are pure reductions over a visible record set. They take the
// pipeline's output, never the raw store contents, so every number on the
// dashboard agrees with the rows in the table.

// Stats are the KPI tile values.
type Stats struct {
	TotalTrainings    int `json:"totalTrainings"`
	TotalParticipants int `json:"totalParticipants"`
	ActivePartners    int `json:"activePartners"`
	StatesCovered     int `json:"statesCovered"`
	CompletedPrograms int `json:"completedPrograms"`
	OngoingPrograms   int `json:"ongoingPrograms"`
	PlannedPrograms   int `json:"plannedPrograms"`
	CompletionRate    int `json:"completionRate"`
}

// ComputeStats reduces the visible set to KPI totals. CompletionRate is a
// whole percentage, rounded.
func ComputeStats(visible []program.TrainingProgram) Stats {
	var s Stats
	partners := make(map[string]struct{})
	states := make(map[string]struct{})
	for _, rec := range visible {
		s.TotalTrainings++
		s.TotalParticipants += rec.Participants
		if rec.PartnerID != "" {
			partners[rec.PartnerID.String()] = struct{}{}
		}
		if rec.State != "" {
			states[rec.State] = struct{}{}
		}
		switch rec.Status {
		case program.StatusCompleted:
			s.CompletedPrograms++
		case program.StatusOngoing:
			s.OngoingPrograms++
		case program.StatusPlanned:
			s.PlannedPrograms++
		}
	}
	s.ActivePartners = len(partners)
	s.StatesCovered = len(states)
	if s.TotalTrainings > 0 {
		s.CompletionRate = int(math.Round(float64(s.CompletedPrograms) / float64(s.TotalTrainings) * 100))
	}
	return s
}

// ThemeSlice is one wedge of the thematic coverage chart.
type ThemeSlice struct {
	Name         string `json:"name"`
	Value        int    `json:"value"`
	Participants int    `json:"participants"`
}

// ThematicCoverage groups the visible set by theme, ordered by count
// descending then name for a stable chart.
func ThematicCoverage(visible []program.TrainingProgram) []ThemeSlice {
	counts := make(map[string]*ThemeSlice)
	for _, rec := range visible {
		s, ok := counts[rec.Theme]
		if !ok {
			s = &ThemeSlice{Name: rec.Theme}
			counts[rec.Theme] = s
		}
		s.Value++
		s.Participants += rec.Participants
	}
	out := make([]ThemeSlice, 0, len(counts))
	for _, s := range counts {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// StateSlice is one row of the geographic spread view.
type StateSlice struct {
	State        string `json:"state"`
	Count        int    `json:"count"`
	Participants int    `json:"participants"`
}

// GeographicSpread groups the visible set by state.
func GeographicSpread(visible []program.TrainingProgram) []StateSlice {
	counts := make(map[string]*StateSlice)
	for _, rec := range visible {
		s, ok := counts[rec.State]
		if !ok {
			s = &StateSlice{State: rec.State}
			counts[rec.State] = s
		}
		s.Count++
		s.Participants += rec.Participants
	}
	out := make([]StateSlice, 0, len(counts))
	for _, s := range counts {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].State < out[j].State
	})
	return out
}

// StatusSlice is one row of the status distribution chart.
type StatusSlice struct {
	Status       string `json:"status"`
	Count        int    `json:"count"`
	Participants int    `json:"participants"`
}

// StatusDistribution groups the visible set by status.
func StatusDistribution(visible []program.TrainingProgram) []StatusSlice {
	counts := make(map[string]*StatusSlice)
	for _, rec := range visible {
		s, ok := counts[string(rec.Status)]
		if !ok {
			s = &StatusSlice{Status: string(rec.Status)}
			counts[string(rec.Status)] = s
		}
		s.Count++
		s.Participants += rec.Participants
	}
	out := make([]StatusSlice, 0, len(counts))
	for _, s := range counts {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Status < out[j].Status
	})
	return out
}

// PartnerRank is one row of the partner leaderboard.
type PartnerRank struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	ProgramsCount     int     `json:"programsCount"`
	TotalParticipants int     `json:"totalParticipants"`
	AvgFeedback       float64 `json:"avgFeedback"`
}

// PartnerLeaderboard ranks partners by program count over the visible set,
// keeping at most limit rows. AvgFeedback averages only records that carry a
// score and is rounded to one decimal.
func PartnerLeaderboard(visible []program.TrainingProgram, limit int) []PartnerRank {
	type acc struct {
		rank     PartnerRank
		scoreSum float64
		scoreN   int
	}
	byPartner := make(map[string]*acc)
	for _, rec := range visible {
		if rec.PartnerID == "" {
			continue
		}
		key := rec.PartnerID.String()
		a, ok := byPartner[key]
		if !ok {
			a = &acc{rank: PartnerRank{ID: key, Name: rec.PartnerName}}
			byPartner[key] = a
		}
		a.rank.ProgramsCount++
		a.rank.TotalParticipants += rec.Participants
		if rec.FeedbackScore != nil {
			a.scoreSum += *rec.FeedbackScore
			a.scoreN++
		}
	}
	out := make([]PartnerRank, 0, len(byPartner))
	for _, a := range byPartner {
		if a.scoreN > 0 {
			a.rank.AvgFeedback = math.Round(a.scoreSum/float64(a.scoreN)*10) / 10
		}
		out = append(out, a.rank)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ProgramsCount != out[j].ProgramsCount {
			return out[i].ProgramsCount > out[j].ProgramsCount
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
