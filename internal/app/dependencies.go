package app

import (
	"database/sql"

	"github.com/calpane/calpane/internal/config"
	"github.com/calpane/calpane/internal/event_bus"
	"github.com/calpane/calpane/internal/utils"
	"github.com/calpane/calpane/pkg/backend"
	"github.com/calpane/calpane/pkg/card"
	"github.com/calpane/calpane/pkg/google"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Bus *event_bus.EventBus

	BackendRepo    *backend.RepositoryImpl
	BackendService *backend.Service
	Provider       *backend.Router
	BackendHandler *backend.Handler

	GoogleService *google.Service
	GoogleAuth    *google.AuthHandler
	GoogleHandler *google.Handler

	Card        *card.Card
	CardHandler *card.Handler

	Clock utils.Clock
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *sql.DB, bus *event_bus.EventBus, cfg config.Application) (*Dependencies, error) {
	deps := &Dependencies{Bus: bus}

	deps.Clock = &utils.SystemClock{}

	deps.BackendRepo = backend.NewRepository(db)
	deps.BackendService = backend.NewService(deps.BackendRepo, bus, deps.Clock)

	deps.GoogleService = google.NewService(cfg.Google)
	deps.GoogleAuth = google.NewAuthHandler(deps.GoogleService, cfg.Host)
	deps.GoogleHandler = google.NewHandler(deps.GoogleService)

	var googleProvider backend.Provider
	if deps.GoogleService.Enabled() {
		googleProvider = google.NewProvider(deps.GoogleService)
	}
	deps.Provider = backend.NewRouter(deps.BackendService, googleProvider)
	deps.BackendHandler = backend.NewHandler(deps.Provider, deps.BackendService, deps.Clock)

	c, err := card.New(cardConfig(cfg.Card), deps.Provider, deps.Provider)
	if err != nil {
		return nil, err
	}
	c.BindBus(bus)
	deps.Card = c
	deps.CardHandler = card.NewHandler(c)

	return deps, nil
}

func cardConfig(cfg config.Card) card.Config {
	persons := make([]card.PersonConfig, 0, len(cfg.Persons))
	for _, p := range cfg.Persons {
		persons = append(persons, card.PersonConfig{
			Name:      p.Name,
			Calendars: p.Calendars,
			Color:     p.Color,
			Icon:      p.Icon,
		})
	}
	return card.Config{
		Title:            cfg.Title,
		InitialView:      cfg.InitialView,
		InitialTime:      cfg.InitialTime,
		ShowNowIndicator: cfg.ShowNowIndicator,
		Height:           cfg.Height,
		Calendars:        cfg.Calendars,
		Persons:          persons,
	}
}
