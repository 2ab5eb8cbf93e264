package card

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/calpane/calpane/pkg/host"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupHandlerTest(t *testing.T) (*mux.Router, *Card) {
	h := host.NewStubHost()
	c, err := New(testConfig(), h, h)
	require.NoError(t, err)

	handler := NewHandler(c)
	r := mux.NewRouter()
	r.HandleFunc("/api/card/config", handler.GetConfig).Methods("GET")
	r.HandleFunc("/api/card/groups", handler.GetGroups).Methods("GET")
	r.HandleFunc("/api/card/groups/{groupKey}/visibility", handler.SetGroupVisibility).Methods("PUT")
	return r, c
}

func TestHandler_GetConfig(t *testing.T) {
	r, _ := setupHandlerTest(t)

	req := httptest.NewRequest("GET", "/api/card/config", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var cfg Config
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cfg))
	assert.Equal(t, "dayGridMonth", cfg.InitialView)
	assert.Equal(t, []string{"calendar.family", "calendar.holidays"}, cfg.Calendars)
}

func TestHandler_GetGroups(t *testing.T) {
	r, c := setupHandlerTest(t)
	c.ToggleGroup(c.Groups()[0], false)

	req := httptest.NewRequest("GET", "/api/card/groups", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var dtos []GroupDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dtos))
	require.Len(t, dtos, 2)
	assert.Equal(t, "Alice", dtos[0].Key)
	assert.False(t, dtos[0].Visible)
	assert.True(t, dtos[1].Visible)
}

func TestHandler_SetGroupVisibility(t *testing.T) {
	r, c := setupHandlerTest(t)
	alice := c.Groups()[0]

	req := httptest.NewRequest("PUT", "/api/card/groups/Alice/visibility", strings.NewReader(`{"visible": false}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.False(t, c.IsGroupVisible(alice))
}

func TestHandler_SetGroupVisibilityUnknownGroup(t *testing.T) {
	r, _ := setupHandlerTest(t)

	req := httptest.NewRequest("PUT", "/api/card/groups/Nobody/visibility", strings.NewReader(`{"visible": false}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
