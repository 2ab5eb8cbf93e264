package backend

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/calpane/calpane/internal/rest"
	"github.com/calpane/calpane/internal/utils"
	"github.com/calpane/calpane/pkg/host"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// Handler serves the calendar API: the read boundary, the service-call
// boundary, and an iCalendar export of the local store.
type Handler struct {
	provider Provider
	local    *Service
	clock    utils.Clock
}

func NewHandler(provider Provider, local *Service, clock utils.Clock) *Handler {
	return &Handler{provider: provider, local: local, clock: clock}
}

func (h *Handler) GetEvents(w http.ResponseWriter, r *http.Request) {
	calendarId := mux.Vars(r)["calendarId"]
	from, to, ok := parseWindow(w, r)
	if !ok {
		return
	}

	events, err := h.provider.Events(r.Context(), calendarId, from, to)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(events); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) CallService(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	domain := vars["domain"]
	service := vars["service"]

	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	err := h.provider.CallService(r.Context(), domain, service, payload)
	if err != nil {
		if host.IsUnknownService(err) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
				Error:   "Unknown service",
				Details: err.Error(),
			})
			if encodeErr != nil {
				http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
			}
			return
		}
		log.Errorf("service call %s.%s failed: %v", domain, service, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ExportICS serves the iCalendar document. The window is optional so that
// subscription clients can fetch the bare URL; it defaults to one year around
// now.
func (h *Handler) ExportICS(w http.ResponseWriter, r *http.Request) {
	calendarId := mux.Vars(r)["calendarId"]

	now := h.clock.Now()
	from, to := now.AddDate(-1, 0, 0), now.AddDate(1, 0, 0)
	if r.URL.Query().Get("from") != "" || r.URL.Query().Get("to") != "" {
		var ok bool
		from, to, ok = parseWindow(w, r)
		if !ok {
			return
		}
	}

	document, err := h.local.ExportICS(r.Context(), calendarId, from, to)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/calendar")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(document)); err != nil {
		log.Errorf("failed to write ics response: %v", err)
	}
}

func parseWindow(w http.ResponseWriter, r *http.Request) (time.Time, time.Time, bool) {
	fromString := r.URL.Query().Get("from")
	toString := r.URL.Query().Get("to")
	from, err := time.Parse(time.RFC3339, fromString)
	if err != nil {
		writeBadRequest(w, "Invalid from (date) format", "'from' must be in RFC3339 format")
		return time.Time{}, time.Time{}, false
	}
	to, err := time.Parse(time.RFC3339, toString)
	if err != nil {
		writeBadRequest(w, "Invalid to (date) format", "'to' must be in RFC3339 format")
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

func writeBadRequest(w http.ResponseWriter, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	if err := json.NewEncoder(w).Encode(rest.ErrorResponse{Error: message, Details: details}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
