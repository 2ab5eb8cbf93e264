package card

import (
	"encoding/json"
	"net/http"

	"github.com/calpane/calpane/internal/rest"
	"github.com/gorilla/mux"
)

// Handler exposes the card configuration and the visibility filter over HTTP.
type Handler struct {
	card *Card
}

type GroupDTO struct {
	Key       string   `json:"key"`
	Label     string   `json:"label"`
	Calendars []string `json:"calendars"`
	Color     string   `json:"color,omitempty"`
	Icon      string   `json:"icon,omitempty"`
	Visible   bool     `json:"visible"`
}

type groupVisibilityDTO struct {
	Visible bool `json:"visible"`
}

func NewHandler(card *Card) *Handler {
	return &Handler{card: card}
}

func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(h.card.Config()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) GetGroups(w http.ResponseWriter, r *http.Request) {
	groups := h.card.Groups()
	dtos := make([]GroupDTO, 0, len(groups))
	for _, g := range groups {
		dtos = append(dtos, GroupDTO{
			Key:       g.Key,
			Label:     g.Label,
			Calendars: g.Ids,
			Color:     g.Color,
			Icon:      g.Icon,
			Visible:   h.card.IsGroupVisible(g),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) SetGroupVisibility(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["groupKey"]

	var dto groupVisibilityDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	for _, g := range h.card.Groups() {
		if g.Key == key {
			h.card.ToggleGroup(g, dto.Visible)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
		Error: "Unknown group",
	})
	if encodeErr != nil {
		http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
	}
}
