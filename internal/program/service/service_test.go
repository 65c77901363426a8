package service

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sajag/internal/audit"
	"sajag/internal/program"
	"sajag/internal/visibility"
	id "sajag/pkg/domain"
	dErrors "sajag/pkg/domain-errors"
	"sajag/pkg/testutil"
)

func newService(t *testing.T) (*Service, *program.InMemoryStore, *audit.InMemoryStore) {
	t.Helper()
	store := program.NewInMemoryStore()
	auditStore := audit.NewInMemoryStore()
	svc := New(store, visibility.NewSelector(nil), audit.NewPublisher(auditStore), nil)
	return svc, store, auditStore
}

func seedProgram(t *testing.T, store *program.InMemoryStore, pid, state string, partnerID id.PartnerID, status program.Status) {
	t.Helper()
	day := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.Create(t.Context(), &program.TrainingProgram{
		ID:           id.ProgramID(pid),
		Title:        "Training " + pid,
		Theme:        "Flood Management",
		Status:       status,
		State:        state,
		PartnerID:    partnerID,
		StartDate:    day,
		EndDate:      day.AddDate(0, 0, 2),
		Participants: 30,
	}))
}

func regionManager(t *testing.T, states ...string) visibility.Principal {
	t.Helper()
	p, err := visibility.RegionManager(states...)
	require.NoError(t, err)
	return p
}

func TestList(t *testing.T) {
	svc, store, _ := newService(t)
	for i := range 25 {
		state := "Bihar"
		if i%5 == 0 {
			state = "Gujarat"
		}
		seedProgram(t, store, fmt.Sprintf("NDMA-TR-25-%03d", i), state, "", program.StatusPlanned)
	}

	testutil.When(t, "an admin lists with default pagination", func(t *testing.T) {
		result, err := svc.List(t.Context(), visibility.Admin(), visibility.Criteria{}, Page{})
		require.NoError(t, err)

		assert.Len(t, result.Programs, 10)
		assert.Equal(t, 1, result.Page)
		assert.Equal(t, 10, result.Limit)
		assert.Equal(t, 25, result.Total)
	})

	testutil.When(t, "an admin requests the last page", func(t *testing.T) {
		result, err := svc.List(t.Context(), visibility.Admin(), visibility.Criteria{}, Page{Number: 3, Limit: 10})
		require.NoError(t, err)

		assert.Len(t, result.Programs, 5)
		assert.Equal(t, 25, result.Total)
	})

	testutil.When(t, "the page is past the end", func(t *testing.T) {
		result, err := svc.List(t.Context(), visibility.Admin(), visibility.Criteria{}, Page{Number: 9, Limit: 10})
		require.NoError(t, err)

		assert.Empty(t, result.Programs)
		assert.Equal(t, 25, result.Total)
	})

	testutil.When(t, "a region manager lists", func(t *testing.T) {
		result, err := svc.List(t.Context(), regionManager(t, "Gujarat"), visibility.Criteria{}, Page{Limit: 50})
		require.NoError(t, err)

		assert.Equal(t, 5, result.Total)
		for _, rec := range result.Programs {
			assert.Equal(t, "Gujarat", rec.State)
		}
	})

	testutil.When(t, "criteria filter the visible set", func(t *testing.T) {
		result, err := svc.List(t.Context(), visibility.Admin(), visibility.Criteria{State: "Gujarat"}, Page{Limit: 50})
		require.NoError(t, err)

		assert.Equal(t, 5, result.Total)
	})
}

func TestGet(t *testing.T) {
	svc, store, _ := newService(t)
	seedProgram(t, store, "NDMA-TR-25-A", "Bihar", "P01", program.StatusOngoing)

	testutil.When(t, "the record is in scope", func(t *testing.T) {
		rec, err := svc.Get(t.Context(), regionManager(t, "Bihar"), "NDMA-TR-25-A")
		require.NoError(t, err)
		assert.Equal(t, "Training NDMA-TR-25-A", rec.Title)
	})

	testutil.When(t, "the record is outside the caller's scope", func(t *testing.T) {
		_, err := svc.Get(t.Context(), regionManager(t, "Gujarat"), "NDMA-TR-25-A")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound),
			"out-of-scope records must read as not found")
	})

	testutil.When(t, "the record does not exist", func(t *testing.T) {
		_, err := svc.Get(t.Context(), visibility.Admin(), "NDMA-TR-25-Z")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func TestCreate(t *testing.T) {
	day := time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)
	draft := func(state string) *program.TrainingProgram {
		return &program.TrainingProgram{
			Title:        "Heatwave Response",
			Theme:        "Heatwave Preparedness",
			State:        state,
			StartDate:    day,
			EndDate:      day.AddDate(0, 0, 3),
			Participants: 40,
		}
	}

	testutil.Given(t, "an admin", func(t *testing.T) {
		svc, store, auditStore := newService(t)

		created, err := svc.Create(t.Context(), visibility.Admin(), draft("Odisha"))
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(created.ID.String(), "NDMA-TR-25-"),
			"generated ids carry the yearly prefix, got %s", created.ID)
		assert.Equal(t, program.StatusPlanned, created.Status, "status defaults to Planned")
		assert.WithinDuration(t, time.Now(), created.CreatedAt, time.Minute)

		persisted, err := store.Get(t.Context(), created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Heatwave Response", persisted.Title)

		events, err := auditStore.ListRecent(t.Context(), 10)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, audit.ActionProgramCreated, events[0].Action)
		assert.Equal(t, created.ID.String(), events[0].EntityID)
	})

	testutil.Given(t, "a viewer", func(t *testing.T) {
		svc, _, _ := newService(t)

		_, err := svc.Create(t.Context(), visibility.Viewer(), draft("Odisha"))
		assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	testutil.Given(t, "a region manager writing outside their states", func(t *testing.T) {
		svc, _, _ := newService(t)

		_, err := svc.Create(t.Context(), regionManager(t, "Bihar"), draft("Odisha"))
		assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	testutil.Given(t, "an invalid record", func(t *testing.T) {
		svc, _, _ := newService(t)

		bad := draft("Odisha")
		bad.Participants = -1
		_, err := svc.Create(t.Context(), visibility.Admin(), bad)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	testutil.Given(t, "a duplicate id", func(t *testing.T) {
		svc, store, _ := newService(t)
		seedProgram(t, store, "NDMA-TR-25-DUP", "Odisha", "", program.StatusPlanned)

		dup := draft("Odisha")
		dup.ID = "NDMA-TR-25-DUP"
		_, err := svc.Create(t.Context(), visibility.Admin(), dup)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
	})
}

func TestUpdate(t *testing.T) {
	testutil.Given(t, "a record in the caller's scope", func(t *testing.T) {
		svc, store, auditStore := newService(t)
		seedProgram(t, store, "NDMA-TR-25-A", "Bihar", "", program.StatusPlanned)

		updated, err := svc.Update(t.Context(), regionManager(t, "Bihar"), "NDMA-TR-25-A", func(p *program.TrainingProgram) {
			p.Status = program.StatusOngoing
			p.Participants = 55
		})
		require.NoError(t, err)

		assert.Equal(t, program.StatusOngoing, updated.Status)
		assert.Equal(t, 55, updated.Participants)

		events, err := auditStore.ListRecent(t.Context(), 10)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, audit.ActionProgramUpdated, events[0].Action)
	})

	testutil.Given(t, "an update that moves the record out of scope", func(t *testing.T) {
		svc, store, _ := newService(t)
		seedProgram(t, store, "NDMA-TR-25-A", "Bihar", "", program.StatusPlanned)

		_, err := svc.Update(t.Context(), regionManager(t, "Bihar"), "NDMA-TR-25-A", func(p *program.TrainingProgram) {
			p.State = "Odisha"
		})
		assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	testutil.Given(t, "a viewer", func(t *testing.T) {
		svc, store, _ := newService(t)
		seedProgram(t, store, "NDMA-TR-25-A", "Bihar", "", program.StatusPlanned)

		_, err := svc.Update(t.Context(), visibility.Viewer(), "NDMA-TR-25-A", func(p *program.TrainingProgram) {
			p.Title = "Changed"
		})
		assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	testutil.Given(t, "a record outside the caller's scope", func(t *testing.T) {
		svc, store, _ := newService(t)
		seedProgram(t, store, "NDMA-TR-25-A", "Bihar", "", program.StatusPlanned)

		_, err := svc.Update(t.Context(), regionManager(t, "Gujarat"), "NDMA-TR-25-A", func(p *program.TrainingProgram) {
			p.Title = "Changed"
		})
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	testutil.Given(t, "an update violating the record invariants", func(t *testing.T) {
		svc, store, _ := newService(t)
		seedProgram(t, store, "NDMA-TR-25-A", "Bihar", "", program.StatusPlanned)

		_, err := svc.Update(t.Context(), visibility.Admin(), "NDMA-TR-25-A", func(p *program.TrainingProgram) {
			score := 9.5
			p.FeedbackScore = &score
		})
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

func TestDelete(t *testing.T) {
	testutil.Given(t, "a record in scope", func(t *testing.T) {
		svc, store, auditStore := newService(t)
		seedProgram(t, store, "NDMA-TR-25-A", "Bihar", "", program.StatusPlanned)

		require.NoError(t, svc.Delete(t.Context(), regionManager(t, "Bihar"), "NDMA-TR-25-A"))

		_, err := svc.Get(t.Context(), visibility.Admin(), "NDMA-TR-25-A")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))

		events, err := auditStore.ListRecent(t.Context(), 10)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, audit.ActionProgramDeleted, events[0].Action)
	})

	testutil.Given(t, "a record outside the caller's scope", func(t *testing.T) {
		svc, store, _ := newService(t)
		seedProgram(t, store, "NDMA-TR-25-A", "Bihar", "", program.StatusPlanned)

		err := svc.Delete(t.Context(), regionManager(t, "Gujarat"), "NDMA-TR-25-A")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound),
			"deletion must not reveal records scoping hides")
	})

	testutil.Given(t, "a viewer", func(t *testing.T) {
		svc, store, _ := newService(t)
		seedProgram(t, store, "NDMA-TR-25-A", "Bihar", "", program.StatusPlanned)

		err := svc.Delete(t.Context(), visibility.Viewer(), "NDMA-TR-25-A")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
	})
}

func TestBulkDelete(t *testing.T) {
	testutil.Given(t, "ids mixing in-scope, out-of-scope and missing records", func(t *testing.T) {
		svc, store, auditStore := newService(t)
		seedProgram(t, store, "NDMA-TR-25-A", "Bihar", "", program.StatusPlanned)
		seedProgram(t, store, "NDMA-TR-25-B", "Bihar", "", program.StatusPlanned)
		seedProgram(t, store, "NDMA-TR-25-C", "Gujarat", "", program.StatusPlanned)

		deleted, err := svc.BulkDelete(t.Context(), regionManager(t, "Bihar"),
			[]id.ProgramID{"NDMA-TR-25-A", "NDMA-TR-25-B", "NDMA-TR-25-C", "NDMA-TR-25-Z"})
		require.NoError(t, err)

		assert.Equal(t, 2, deleted, "only visible records are deleted")

		remaining, err := store.List(t.Context())
		require.NoError(t, err)
		require.Len(t, remaining, 1)
		assert.Equal(t, id.ProgramID("NDMA-TR-25-C"), remaining[0].ID)

		events, err := auditStore.ListRecent(t.Context(), 10)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, audit.ActionProgramsBulkDel, events[0].Action)
		assert.Equal(t, "2 programs", events[0].Detail)
	})

	testutil.Given(t, "no visible records among the ids", func(t *testing.T) {
		svc, store, auditStore := newService(t)
		seedProgram(t, store, "NDMA-TR-25-C", "Gujarat", "", program.StatusPlanned)

		deleted, err := svc.BulkDelete(t.Context(), regionManager(t, "Bihar"), []id.ProgramID{"NDMA-TR-25-C"})
		require.NoError(t, err)
		assert.Zero(t, deleted)

		events, err := auditStore.ListRecent(t.Context(), 10)
		require.NoError(t, err)
		assert.Empty(t, events, "no-op bulk deletes are not audited")
	})

	testutil.Given(t, "an empty id list", func(t *testing.T) {
		svc, _, _ := newService(t)

		_, err := svc.BulkDelete(t.Context(), visibility.Admin(), nil)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	testutil.Given(t, "a viewer", func(t *testing.T) {
		svc, store, _ := newService(t)
		seedProgram(t, store, "NDMA-TR-25-A", "Bihar", "", program.StatusPlanned)

		_, err := svc.BulkDelete(t.Context(), visibility.Viewer(), []id.ProgramID{"NDMA-TR-25-A"})
		assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
	})
}
