package handler

import (
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sajag/internal/audit"
	"sajag/internal/partner"
	"sajag/internal/partner/service"
	"sajag/internal/visibility"
	id "sajag/pkg/domain"
	"sajag/pkg/platform/httputil"
	"sajag/pkg/testutil"
)

func newRouter(t *testing.T) (chi.Router, *partner.InMemoryStore) {
	t.Helper()
	store := partner.NewInMemoryStore()
	svc := service.New(store, audit.NewPublisher(audit.NewInMemoryStore()))
	h := New(svc, slog.Default())

	r := chi.NewRouter()
	h.Register(r)
	return r, store
}

func TestHandleListPartners(t *testing.T) {
	r, store := newRouter(t)
	require.NoError(t, store.Create(t.Context(), &partner.TrainingPartner{
		ID: "P01", Name: "NIDM Delhi", Type: partner.TypeNIDM,
	}))
	require.NoError(t, store.Create(t.Context(), &partner.TrainingPartner{
		ID: "P02", Name: "Seeds India", Type: partner.TypeNGO,
	}))

	testutil.Given(t, "an authenticated viewer", func(t *testing.T) {
		req := testutil.WithPrincipal(testutil.NewRequest(t, http.MethodGet, "/api/partners"), visibility.Viewer())
		rr := testutil.DoRequest(r, req)

		testutil.AssertStatusOK(t, rr)
		resp := testutil.UnmarshalResponse[struct {
			Success bool                      `json:"success"`
			Data    []partner.TrainingPartner `json:"data"`
		}](t, rr)
		assert.True(t, resp.Success)
		assert.Len(t, resp.Data, 2)
	})

	testutil.Given(t, "a type filter", func(t *testing.T) {
		req := testutil.WithPrincipal(testutil.NewRequest(t, http.MethodGet, "/api/partners?type=NGO"), visibility.Viewer())
		rr := testutil.DoRequest(r, req)

		testutil.AssertStatusOK(t, rr)
		resp := testutil.UnmarshalResponse[struct {
			Data []partner.TrainingPartner `json:"data"`
		}](t, rr)
		require.Len(t, resp.Data, 1)
		assert.Equal(t, "Seeds India", resp.Data[0].Name)
	})

	testutil.Given(t, "no principal on the request", func(t *testing.T) {
		rr := testutil.DoRequest(r, testutil.NewRequest(t, http.MethodGet, "/api/partners"))
		testutil.AssertStatus(t, rr, http.StatusUnauthorized)
	})
}

func TestHandleCreatePartner(t *testing.T) {
	r, _ := newRouter(t)

	testutil.Given(t, "a valid body from an admin", func(t *testing.T) {
		req := testutil.WithPrincipal(testutil.NewJSONRequest(t, http.MethodPost, "/api/partners", CreatePartnerRequest{
			Name: "ATI Mysuru",
			Type: "ATI",
		}), visibility.Admin())
		rr := testutil.DoRequest(r, req)

		testutil.AssertStatus(t, rr, http.StatusCreated)
		resp := testutil.UnmarshalResponse[struct {
			Data partner.TrainingPartner `json:"data"`
		}](t, rr)
		assert.Equal(t, "ATI Mysuru", resp.Data.Name)
		assert.NotEmpty(t, resp.Data.ID)
	})

	testutil.Given(t, "an unknown partner type", func(t *testing.T) {
		req := testutil.WithPrincipal(testutil.NewJSONRequest(t, http.MethodPost, "/api/partners", CreatePartnerRequest{
			Name: "Something",
			Type: "Startup",
		}), visibility.Admin())
		rr := testutil.DoRequest(r, req)
		testutil.AssertStatus(t, rr, http.StatusBadRequest)
	})

	testutil.Given(t, "a non-admin caller", func(t *testing.T) {
		manager, err := visibility.RegionManager("Bihar")
		require.NoError(t, err)
		req := testutil.WithPrincipal(testutil.NewJSONRequest(t, http.MethodPost, "/api/partners", CreatePartnerRequest{
			Name: "Seeds India",
			Type: "NGO",
		}), manager)
		rr := testutil.DoRequest(r, req)
		testutil.AssertStatus(t, rr, http.StatusForbidden)
	})
}

func TestHandleUpdatePartner(t *testing.T) {
	r, store := newRouter(t)
	require.NoError(t, store.Create(t.Context(), &partner.TrainingPartner{
		ID: "P01", Name: "NIDM Delhi", Type: partner.TypeNIDM,
	}))

	name := "NIDM New Delhi"
	req := testutil.WithPrincipal(testutil.NewJSONRequest(t, http.MethodPut, "/api/partners/P01", UpdatePartnerRequest{
		Name: &name,
	}), visibility.Admin())
	rr := testutil.DoRequest(r, req)

	testutil.AssertStatusOK(t, rr)
	updated, err := store.Get(t.Context(), id.PartnerID("P01"))
	require.NoError(t, err)
	assert.Equal(t, "NIDM New Delhi", updated.Name)
}

func TestHandleDeletePartner(t *testing.T) {
	r, store := newRouter(t)
	require.NoError(t, store.Create(t.Context(), &partner.TrainingPartner{
		ID: "P01", Name: "NIDM Delhi", Type: partner.TypeNIDM,
	}))

	req := testutil.WithPrincipal(testutil.NewRequest(t, http.MethodDelete, "/api/partners/P01"), visibility.Admin())
	rr := testutil.DoRequest(r, req)

	testutil.AssertStatusOK(t, rr)
	resp := testutil.UnmarshalResponse[httputil.Envelope](t, rr)
	assert.Equal(t, "Partner deleted successfully", resp.Message)

	testutil.Then(t, "a second delete reads as not found", func(t *testing.T) {
		rr := testutil.DoRequest(r, testutil.WithPrincipal(testutil.NewRequest(t, http.MethodDelete, "/api/partners/P01"), visibility.Admin()))
		testutil.AssertStatus(t, rr, http.StatusNotFound)
	})
}
