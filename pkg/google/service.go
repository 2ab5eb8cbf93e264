package google

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/calpane/calpane/internal/config"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

var ErrUnauthenticated = fmt.Errorf("google account is unauthenticated, authentication is required")

// Service builds authenticated Google Calendar clients from the configured
// OAuth credentials and the stored token.
type Service struct {
	cfg         config.Google
	redirectURL string
}

func NewService(cfg config.Google) *Service {
	return &Service{cfg: cfg}
}

// Enabled reports whether Google credentials are configured at all.
func (s *Service) Enabled() bool {
	return s.cfg.ClientId != "" && s.cfg.ClientSecret != ""
}

func (s *Service) oauthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     s.cfg.ClientId,
		ClientSecret: s.cfg.ClientSecret,
		Endpoint:     googleoauth.Endpoint,
		RedirectURL:  s.redirectURL,
		Scopes:       []string{gcal.CalendarScope},
	}
}

func (s *Service) loadToken() (*oauth2.Token, error) {
	file, err := os.Open(s.cfg.TokenFile)
	if err != nil {
		if os.IsNotExist(err) {
			log.Debug("google token file does not exist, authentication is required")
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("unable to open google token file: %w", err)
	}
	defer file.Close()

	token := &oauth2.Token{}
	if err := json.NewDecoder(file).Decode(token); err != nil {
		return nil, fmt.Errorf("unable to decode google token file: %w", err)
	}
	return token, nil
}

func (s *Service) prepareGoogleService(ctx context.Context) (*gcal.Service, error) {
	if !s.Enabled() {
		return nil, ErrUnauthenticated
	}
	token, err := s.loadToken()
	if err != nil {
		return nil, err
	}
	source := s.oauthConfig().TokenSource(ctx, token)
	service, err := gcal.NewService(ctx, option.WithTokenSource(source))
	if err != nil {
		err := fmt.Errorf("unable to retrieve Calendar client: %v", err)
		log.Error(err)
		return nil, err
	}
	return service, nil
}

// ListCalendars returns the id and summary of every calendar on the account.
func (s *Service) ListCalendars(ctx context.Context) ([]CalendarItem, error) {
	googleService, err := s.prepareGoogleService(ctx)
	if err != nil {
		return nil, err
	}
	calendars, err := googleService.CalendarList.List().Do()
	if err != nil {
		err := fmt.Errorf("unable to retrieve calendars from Google Calendar: %v", err)
		log.Error(err)
		return nil, err
	}
	var items []CalendarItem
	for _, cal := range calendars.Items {
		items = append(items, CalendarItem{
			ID:      cal.Id,
			Summary: cal.Summary,
		})
	}
	return items, nil
}

type CalendarItem struct {
	ID      string
	Summary string
}
