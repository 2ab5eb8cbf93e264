package google

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/calpane/calpane/internal/rest"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

type googleAuthRedirect struct {
	RedirectUrl string `json:"redirectUrl"`
}

// AuthHandler drives the OAuth consent flow and persists the resulting token
// in the configured token file.
type AuthHandler struct {
	service *Service

	mu    sync.Mutex
	nonce string
}

func NewAuthHandler(service *Service, host string) *AuthHandler {
	service.redirectURL = host + "/api/integrations/google/auth/callback"
	return &AuthHandler{service: service}
}

func (h *AuthHandler) OAuthLogin(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if !h.service.Enabled() {
		w.WriteHeader(http.StatusConflict)
		encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error: "Google integration is not configured",
		})
		if encodeErr != nil {
			http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
		}
		return
	}

	stateNonce := uuid.New().String()
	finalUrl := r.URL.Query().Get("finalUrl")

	h.mu.Lock()
	h.nonce = stateNonce
	h.mu.Unlock()

	log.Tracef("Redirecting to Google auth URL with nonce: %s", stateNonce)
	u := h.service.oauthConfig().AuthCodeURL(finalUrl+"|"+stateNonce, oauth2.AccessTypeOffline, oauth2.ApprovalForce)

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(googleAuthRedirect{RedirectUrl: u}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *AuthHandler) OAuthCallback(w http.ResponseWriter, r *http.Request) {
	code := r.FormValue("code")
	state := r.FormValue("state")

	parts := strings.SplitN(state, "|", 2)
	if len(parts) != 2 {
		http.Error(w, "invalid state", http.StatusBadRequest)
		return
	}
	finalUrl := parts[0]
	nonce := parts[1]

	h.mu.Lock()
	expected := h.nonce
	h.nonce = ""
	h.mu.Unlock()
	if nonce == "" || nonce != expected {
		http.Error(w, "invalid state", http.StatusBadRequest)
		return
	}

	token, err := h.service.oauthConfig().Exchange(context.Background(), code)
	if err != nil {
		err := fmt.Errorf("unable to exchange code for token: %v", err)
		log.Error(err)
		http.Redirect(w, r, finalUrl+"?success=false", http.StatusFound)
		return
	}

	if err := h.saveToken(token); err != nil {
		log.Error(err)
		http.Redirect(w, r, finalUrl+"?success=false", http.StatusFound)
		return
	}
	log.Debug("Successfully stored Google auth token")
	http.Redirect(w, r, finalUrl+"?success=true", http.StatusFound)
}

func (h *AuthHandler) saveToken(token *oauth2.Token) error {
	file, err := os.OpenFile(h.service.cfg.TokenFile, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("unable to create google token file: %w", err)
	}
	defer file.Close()
	if err := json.NewEncoder(file).Encode(token); err != nil {
		return fmt.Errorf("unable to write google token file: %w", err)
	}
	return nil
}

func (h *AuthHandler) OAuthLogout(w http.ResponseWriter, r *http.Request) {
	if err := os.Remove(h.service.cfg.TokenFile); err != nil && !os.IsNotExist(err) {
		log.Errorf("failed to remove google token file: %v", err)
		http.Error(w, "failed to remove stored token", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
