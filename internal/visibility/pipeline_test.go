package visibility

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sajag/internal/program"
	id "sajag/pkg/domain"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func fixtureRecords() []program.TrainingProgram {
	return []program.TrainingProgram{
		{
			ID:           "NDMA-TR-25-001",
			Title:        "Flood Rescue Basics",
			Theme:        "Flood Response",
			Status:       program.StatusCompleted,
			State:        "Bihar",
			District:     "Patna",
			StartDate:    date("2025-06-15"),
			Participants: 40,
			PartnerID:    "P01",
			PartnerName:  "NDRF",
		},
		{
			ID:           "NDMA-TR-25-002",
			Title:        "Earthquake Preparedness",
			Theme:        "Earthquake Safety",
			Status:       program.StatusPlanned,
			State:        "Bihar",
			District:     "Gaya",
			StartDate:    date("2025-07-01"),
			Participants: 25,
			PartnerID:    "P02",
			PartnerName:  "Indian Red Cross Society",
		},
		{
			ID:           "NDMA-TR-25-003",
			Title:        "Cyclone Shelter Management",
			Theme:        "Cyclone Response",
			Status:       program.StatusCompleted,
			State:        "Gujarat",
			District:     "Kutch",
			StartDate:    date("2025-05-20"),
			Participants: 60,
			PartnerID:    "P01",
			PartnerName:  "NDRF",
		},
	}
}

func mustRegionManager(t *testing.T, states ...string) Principal {
	t.Helper()
	p, err := RegionManager(states...)
	require.NoError(t, err)
	return p
}

func mustPartnerUser(t *testing.T, partners ...id.PartnerID) Principal {
	t.Helper()
	p, err := PartnerUser(partners...)
	require.NoError(t, err)
	return p
}

func TestAuthorize_AdminBypass(t *testing.T) {
	records := fixtureRecords()

	got := Authorize(records, Admin())

	assert.Equal(t, records, got, "admin must see the full record set unchanged")
}

func TestAuthorize_ViewerBypass(t *testing.T) {
	records := fixtureRecords()

	got := Authorize(records, Viewer())

	assert.Equal(t, records, got, "viewer reads everything; restriction is on mutation, not visibility")
}

func TestAuthorize_ScopeIntersection(t *testing.T) {
	records := fixtureRecords()

	t.Run("state scope alone", func(t *testing.T) {
		got := Authorize(records, mustRegionManager(t, "Bihar"))
		require.Len(t, got, 2)
		for _, rec := range got {
			assert.Equal(t, "Bihar", rec.State)
		}
	})

	t.Run("partner scope alone", func(t *testing.T) {
		got := Authorize(records, mustPartnerUser(t, "P01"))
		require.Len(t, got, 2)
		for _, rec := range got {
			assert.Equal(t, id.PartnerID("P01"), rec.PartnerID)
		}
	})

	t.Run("scopes combine by AND", func(t *testing.T) {
		// A principal carrying both scope sets must intersect them, not
		// union them. Constructed directly since the public constructors
		// pair each scoped role with a single scope kind.
		p := Principal{role: RoleRegionManager, states: "Bihar", partners: "P01"}
		got := Authorize(records, p)
		require.Len(t, got, 1)
		assert.Equal(t, id.ProgramID("NDMA-TR-25-001"), got[0].ID)
	})
}

func TestAuthorize_PreservesInputOrder(t *testing.T) {
	records := fixtureRecords()

	got := Authorize(records, mustRegionManager(t, "Bihar", "Gujarat"))

	require.Len(t, got, 3)
	for i := range got {
		assert.Equal(t, records[i].ID, got[i].ID)
	}
}

func TestScopedRoles_RequireScopes(t *testing.T) {
	_, err := RegionManager()
	assert.Error(t, err, "a region manager without states must be rejected, not granted full visibility")

	_, err = PartnerUser()
	assert.Error(t, err)

	_, err = NewPrincipal(RoleRegionManager, nil, nil)
	assert.Error(t, err)
}

func TestFilter_SearchMatchesAnyOfTitleIDDistrict(t *testing.T) {
	records := []program.TrainingProgram{
		{ID: "NDMA-TR-25-FLOOD1", Title: "Fire Safety Training", District: "Pune"},
		{ID: "NDMA-TR-25-010", Title: "Flood Awareness Camp", District: "Patna"},
		{ID: "NDMA-TR-25-011", Title: "First Aid", District: "Floodplain East"},
		{ID: "NDMA-TR-25-012", Title: "Heat Wave Drill", District: "Jaipur"},
	}

	got := Filter(records, Criteria{Search: "flood"})

	require.Len(t, got, 3, "ID, title, and district matches all count")
	assert.Equal(t, id.ProgramID("NDMA-TR-25-FLOOD1"), got[0].ID, "case-insensitive ID match")
}

func TestFilter_ExactFieldPredicates(t *testing.T) {
	records := fixtureRecords()

	tests := []struct {
		name     string
		criteria Criteria
		wantIDs  []id.ProgramID
	}{
		{"by state", Criteria{State: "Gujarat"}, []id.ProgramID{"NDMA-TR-25-003"}},
		{"by district", Criteria{District: "Gaya"}, []id.ProgramID{"NDMA-TR-25-002"}},
		{"by theme", Criteria{Theme: "Flood Response"}, []id.ProgramID{"NDMA-TR-25-001"}},
		{"by partner", Criteria{PartnerID: "P02"}, []id.ProgramID{"NDMA-TR-25-002"}},
		{"by status", Criteria{Status: "Completed"}, []id.ProgramID{"NDMA-TR-25-001", "NDMA-TR-25-003"}},
		{"combined AND", Criteria{State: "Bihar", Status: "Completed"}, []id.ProgramID{"NDMA-TR-25-001"}},
		{"no match is empty not error", Criteria{State: "Kerala"}, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Filter(records, tc.criteria)
			gotIDs := make([]id.ProgramID, 0, len(got))
			for _, rec := range got {
				gotIDs = append(gotIDs, rec.ID)
			}
			if tc.wantIDs == nil {
				assert.Empty(t, gotIDs)
				return
			}
			assert.Equal(t, tc.wantIDs, gotIDs)
		})
	}
}

func TestFilter_DateRange(t *testing.T) {
	records := fixtureRecords()

	t.Run("boundary inclusive", func(t *testing.T) {
		got := Filter(records, Criteria{DateRange: DateRange{
			Start: date("2025-06-15"),
			End:   date("2025-06-15"),
		}})
		require.Len(t, got, 1)
		assert.Equal(t, id.ProgramID("NDMA-TR-25-001"), got[0].ID)
	})

	t.Run("half-open range imposes no constraint", func(t *testing.T) {
		got := Filter(records, Criteria{DateRange: DateRange{Start: date("2025-06-15")}})
		assert.Len(t, got, len(records))
	})

	t.Run("inverted range matches nothing", func(t *testing.T) {
		got := Filter(records, Criteria{DateRange: DateRange{
			Start: date("2025-07-01"),
			End:   date("2025-06-01"),
		}})
		assert.Empty(t, got)
	})
}

func TestFilter_Idempotent(t *testing.T) {
	records := fixtureRecords()
	c := Criteria{State: "Bihar", Search: "tr"}

	once := Filter(records, c)
	twice := Filter(once, c)

	assert.Equal(t, once, twice, "reapplying the same criteria must be a no-op")
}

func TestApply_SubsetLaw(t *testing.T) {
	records := fixtureRecords()
	principals := []Principal{Admin(), Viewer(), mustRegionManager(t, "Bihar"), mustPartnerUser(t, "P01")}
	criteria := []Criteria{{}, {Status: "Completed"}, {Search: "zzz-no-match"}}

	for _, p := range principals {
		for _, c := range criteria {
			got := Apply(records, p, c)
			assert.LessOrEqual(t, len(got), len(records))
		}
	}
}

func TestApply_EndToEndScenario(t *testing.T) {
	// Three records, principal scoped to Bihar, criteria status=Completed:
	// exactly the Bihar+Completed record survives.
	records := []program.TrainingProgram{
		{ID: "A", State: "Bihar", Status: program.StatusCompleted},
		{ID: "B", State: "Bihar", Status: program.StatusPlanned},
		{ID: "C", State: "Gujarat", Status: program.StatusCompleted},
	}

	got := Apply(records, mustRegionManager(t, "Bihar"), Criteria{Status: "Completed"})

	require.Len(t, got, 1)
	assert.Equal(t, id.ProgramID("A"), got[0].ID)
}

func TestApply_Deterministic(t *testing.T) {
	records := fixtureRecords()
	p := mustRegionManager(t, "Bihar")
	c := Criteria{Search: "a"}

	first := Apply(records, p, c)
	second := Apply(records, p, c)

	assert.Equal(t, first, second, "same inputs must yield identical output")
}

func TestParseRole(t *testing.T) {
	for _, valid := range []string{"admin", "viewer", "region_manager", "partner_user"} {
		_, err := ParseRole(valid)
		assert.NoError(t, err)
	}
	_, err := ParseRole("superuser")
	assert.Error(t, err)
}

func TestPrincipal_ScopesAreCanonical(t *testing.T) {
	a, err := RegionManager("Bihar", "Gujarat")
	require.NoError(t, err)
	b, err := RegionManager("Gujarat", "Bihar", "Bihar")
	require.NoError(t, err)

	assert.Equal(t, a, b, "scope order and duplicates must not affect principal identity")
	assert.Equal(t, []string{"Bihar", "Gujarat"}, a.States())
}
