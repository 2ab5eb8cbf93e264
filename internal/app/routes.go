package app

import (
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies) {

	// Card
	r.HandleFunc("/api/card/config", deps.CardHandler.GetConfig).Methods("GET")
	r.HandleFunc("/api/card/groups", deps.CardHandler.GetGroups).Methods("GET")
	r.HandleFunc("/api/card/groups/{groupKey}/visibility", deps.CardHandler.SetGroupVisibility).Methods("PUT")

	// Calendar
	r.HandleFunc("/api/calendar/{calendarId}/events", deps.BackendHandler.GetEvents).Queries("from", "{from}", "to", "{to}").Methods("GET")
	r.HandleFunc("/api/calendar/{calendarId}/ics", deps.BackendHandler.ExportICS).Methods("GET")

	// Service calls
	r.HandleFunc("/api/services/{domain}/{service}", deps.BackendHandler.CallService).Methods("POST")

	// Google integration
	r.HandleFunc("/api/integrations/google/auth/login", deps.GoogleAuth.OAuthLogin).Methods("GET")
	r.HandleFunc("/api/integrations/google/auth/logout", deps.GoogleAuth.OAuthLogout).Methods("DELETE")
	r.HandleFunc("/api/integrations/google/auth/callback", deps.GoogleAuth.OAuthCallback).Methods("GET")
	r.HandleFunc("/api/integrations/google/calendars", deps.GoogleHandler.ListCalendars).Methods("GET")
}
