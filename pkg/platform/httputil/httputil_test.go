package httputil

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "sajag/pkg/domain-errors"
)

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body
}

func TestWriteError(t *testing.T) {
	t.Run("internal error omits description", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeInternal, "db failed"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "internal_error", body["error"])
		assert.NotContains(t, body, "error_description",
			"infrastructure details must not leak to clients")
	})

	t.Run("bad request includes description", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid input"))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "bad_request", body["error"])
		assert.Equal(t, "invalid input", body["error_description"])
	})

	t.Run("unclassified errors default to internal", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, context.DeadlineExceeded)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "internal_error", body["error"])
	})
}

func TestWriteEnvelopePage(t *testing.T) {
	w := httptest.NewRecorder()
	WriteEnvelopePage(w, http.StatusOK, []string{"a", "b"}, NewPagination(2, 10, 25))

	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp struct {
		Success    bool       `json:"success"`
		Data       []string   `json:"data"`
		Pagination Pagination `json:"pagination"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.Equal(t, []string{"a", "b"}, resp.Data)
	assert.Equal(t, 3, resp.Pagination.Pages, "25 records at 10 per page is 3 pages")
}

type decodeTarget struct {
	Name string `json:"name"`
}

func (d *decodeTarget) Validate() error {
	if d.Name == "" {
		return dErrors.New(dErrors.CodeBadRequest, "name is required")
	}
	return nil
}

func TestDecodeAndPrepare(t *testing.T) {
	newReq := func(body string) *http.Request {
		return httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	}

	t.Run("valid body", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, ok := DecodeAndPrepare[decodeTarget](w, newReq(`{"name":"x"}`), nil, context.Background(), "")
		require.True(t, ok)
		assert.Equal(t, "x", req.Name)
	})

	t.Run("malformed JSON", func(t *testing.T) {
		w := httptest.NewRecorder()
		_, ok := DecodeAndPrepare[decodeTarget](w, newReq(`{`), nil, context.Background(), "")
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("failing validation", func(t *testing.T) {
		w := httptest.NewRecorder()
		_, ok := DecodeAndPrepare[decodeTarget](w, newReq(`{}`), nil, context.Background(), "")
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "name is required", body["error_description"])
	})
}
