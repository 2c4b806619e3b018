package testutil

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFakeBackend_ServeHTTP(t *testing.T) {
	t.Parallel()

	fake := NewFakeBackend()
	fake.SetPreset("Rainbow", "r")

	rec := httptest.NewRecorder()
	fake.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/presets.json", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `["Rainbow"]`, strings.TrimSpace(rec.Body.String()))

	rec = httptest.NewRecorder()
	fake.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/preset/Snow", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	fake.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/preset/Rainbow", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	assert.Equal(t, []string{"GET /presets.json", "GET /preset/Snow", "DELETE /preset/Rainbow"}, fake.Requests())
}

func TestFakeBackend_UnknownAngleFile(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	NewFakeBackend().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/angle001_mask.png", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
