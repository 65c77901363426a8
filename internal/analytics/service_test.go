package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sajag/internal/program"
	"sajag/internal/visibility"
	id "sajag/pkg/domain"
)

// stubSource serves a fixed record set, pre-filtered the way the program
// service would.
type stubSource struct {
	records []program.TrainingProgram
	err     error
}

func (s *stubSource) VisibleAll(context.Context, visibility.Principal, visibility.Criteria) ([]program.TrainingProgram, error) {
	return s.records, s.err
}

func score(v float64) *float64 { return &v }

func fixtureRecords() []program.TrainingProgram {
	day := func(d int) time.Time { return time.Date(2025, time.June, d, 0, 0, 0, 0, time.UTC) }
	return []program.TrainingProgram{
		{ID: "NDMA-TR-25-A", Title: "Flood Response", Theme: "Flood Management", Status: program.StatusCompleted,
			State: "Bihar", District: "Patna", StartDate: day(1), EndDate: day(3),
			Participants: 40, FeedbackScore: score(4.5), PartnerID: id.PartnerID("P01"), PartnerName: "NIDM Delhi"},
		{ID: "NDMA-TR-25-B", Title: "Earthquake Drill", Theme: "Earthquake Preparedness", Status: program.StatusOngoing,
			State: "Gujarat", District: "Kutch", StartDate: day(5), EndDate: day(7),
			Participants: 30, FeedbackScore: score(4.0), PartnerID: id.PartnerID("P01"), PartnerName: "NIDM Delhi"},
		{ID: "NDMA-TR-25-C", Title: "Cyclone Shelter Ops", Theme: "Cyclone Preparedness", Status: program.StatusCompleted,
			State: "Odisha", District: "Puri", StartDate: day(10), EndDate: day(12),
			Participants: 55, PartnerID: id.PartnerID("P02"), PartnerName: "Seeds India"},
		{ID: "NDMA-TR-25-D", Title: "Flood Awareness", Theme: "Flood Management", Status: program.StatusPlanned,
			State: "Bihar", District: "Gaya", StartDate: day(20), EndDate: day(22),
			Participants: 25},
	}
}

func TestStats(t *testing.T) {
	svc := New(&stubSource{records: fixtureRecords()})

	stats, err := svc.Stats(context.Background(), visibility.Admin(), visibility.Criteria{})
	require.NoError(t, err)

	assert.Equal(t, 4, stats.TotalTrainings)
	assert.Equal(t, 150, stats.TotalParticipants)
	assert.Equal(t, 2, stats.ActivePartners)
	assert.Equal(t, 3, stats.StatesCovered)
	assert.Equal(t, 2, stats.CompletedPrograms)
	assert.Equal(t, 50, stats.CompletionRate)
}

func TestStatsPropagatesSourceError(t *testing.T) {
	svc := New(&stubSource{err: errors.New("store down")})

	_, err := svc.Stats(context.Background(), visibility.Admin(), visibility.Criteria{})
	assert.Error(t, err)
}

func TestThematicCoverage(t *testing.T) {
	svc := New(&stubSource{records: fixtureRecords()})

	slices, err := svc.ThematicCoverage(context.Background(), visibility.Admin(), visibility.Criteria{})
	require.NoError(t, err)

	require.Len(t, slices, 3)
	assert.Equal(t, "Flood Management", slices[0].Name)
	assert.Equal(t, 2, slices[0].Value)
	assert.Equal(t, 65, slices[0].Participants)
}

func TestPartnerLeaderboard(t *testing.T) {
	svc := New(&stubSource{records: fixtureRecords()})

	ranks, err := svc.PartnerLeaderboard(context.Background(), visibility.Admin(), visibility.Criteria{})
	require.NoError(t, err)

	// The unattributed record is excluded; P01 leads on program count and its
	// average covers scored records only.
	require.Len(t, ranks, 2)
	assert.Equal(t, "P01", ranks[0].ID)
	assert.Equal(t, 2, ranks[0].ProgramsCount)
	assert.InDelta(t, 4.3, ranks[0].AvgFeedback, 0.001)
	assert.Equal(t, "P02", ranks[1].ID)
	assert.Zero(t, ranks[1].AvgFeedback)
}

func TestDashboard(t *testing.T) {
	svc := New(&stubSource{records: fixtureRecords()})

	dash, err := svc.Dashboard(context.Background(), visibility.Admin(), visibility.Criteria{})
	require.NoError(t, err)

	assert.Equal(t, 4, dash.Stats.TotalTrainings)
	assert.Len(t, dash.ThematicCoverage, 3)
	assert.Len(t, dash.GeographicSpread, 3)
	assert.Len(t, dash.StatusDistribution, 3)
	assert.Len(t, dash.PartnerLeaderboard, 2)

	// The sections reduce the same snapshot, so totals must line up.
	var byStatus int
	for _, s := range dash.StatusDistribution {
		byStatus += s.Count
	}
	assert.Equal(t, dash.Stats.TotalTrainings, byStatus)
}
