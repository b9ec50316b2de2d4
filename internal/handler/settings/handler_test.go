package settings

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	settingsmodel "github.com/maxbuilds/panda-ai/backend/internal/model/settings"
)

func setupRouter(t *testing.T) *chi.Mux {
	t.Helper()
	store := settingsmodel.NewFileStore(filepath.Join(t.TempDir(), "settings.json"))
	r := chi.NewRouter()
	New(store).RegisterRoutes(r)
	return r
}

func TestGetReturnsDefaults(t *testing.T) {
	r := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/settings", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)

	var got settingsmodel.Settings
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &got))
	require.Equal(t, settingsmodel.Defaults(), got)
}

func TestPatchMergesPartial(t *testing.T) {
	r := setupRouter(t)

	payload := []byte(`{"assistantName":"Bamboo"}`)
	req := httptest.NewRequest(http.MethodPatch, "/settings", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)

	var got settingsmodel.Settings
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &got))
	require.Equal(t, "Bamboo", got.AssistantName)
	// Unspecified fields keep their defaults.
	require.Equal(t, 1.0, got.SpeakingRate)
}

func TestPatchRejectsMalformedBody(t *testing.T) {
	r := setupRouter(t)

	req := httptest.NewRequest(http.MethodPatch, "/settings", bytes.NewReader([]byte("nope")))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusBadRequest, resp.Code)
}
