package google

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/calpane/calpane/internal/rest"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	service *Service
}

type calendarItemDTO struct {
	Id      string `json:"id"`
	Summary string `json:"summary"`
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) ListCalendars(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	calendars, err := h.service.ListCalendars(r.Context())
	if err != nil {
		if errors.Is(err, ErrUnauthenticated) {
			w.WriteHeader(http.StatusUnauthorized)
			encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
				Error: "Google authentication is required",
			})
			if encodeErr != nil {
				http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
			}
			return
		}
		log.Errorf("failed to list google calendars: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]calendarItemDTO, 0, len(calendars))
	for _, cal := range calendars {
		dtos = append(dtos, calendarItemDTO{Id: cal.ID, Summary: cal.Summary})
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
