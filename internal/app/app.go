package app

import (
	"context"
	"net/http"
	"time"

	"github.com/calpane/calpane/internal/config"
	"github.com/calpane/calpane/internal/database"
	"github.com/calpane/calpane/internal/event_bus"
	"github.com/gorilla/mux"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// Application wires configuration, database, router, refresh schedule, and
// server lifecycle.
type Application struct {
	cfg    config.Application
	router *mux.Router
	srv    *http.Server
	cron   *cron.Cron
}

// NewApplication constructs the full HTTP application, ready to Run().
func NewApplication() (*Application, error) {
	cfg, err := config.Load("./config/application.yaml")
	if err != nil {
		return nil, err
	}

	// DB + migrations
	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, err
	}
	// db will be closed when server shuts down; defer not possible here, leave to process exit.
	if err := database.Migrate(db, cfg.Database); err != nil {
		return nil, err
	}

	bus := event_bus.NewEventBus()

	r := mux.NewRouter()

	// Build dependencies (services, handlers...)
	deps, err := BuildDependencies(db, bus, cfg)
	if err != nil {
		return nil, err
	}

	// Middleware chain
	SetupMiddleware(r, deps, cfg)

	// Routes
	RegisterRoutes(r, deps)

	// Periodic refresh tick; subscribers re-fetch their event sources.
	scheduler := cron.New()
	_, err = scheduler.AddFunc(cfg.Refresh.Schedule, func() {
		err := bus.Publish(event_bus.NewEvent(context.Background(),
			event_bus.TypeCalendarStateChanged, event_bus.CalendarStateChanged{}))
		if err != nil {
			log.Errorf("refresh tick failed: %v", err)
		}
	})
	if err != nil {
		return nil, err
	}

	srv := &http.Server{
		Handler:      r,
		Addr:         cfg.Listen,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Application{cfg: cfg, router: r, srv: srv, cron: scheduler}, nil
}

// Run starts the refresh schedule and the HTTP server and blocks.
func (a *Application) Run() error {
	a.cron.Start()
	log.Infof("Starting server on %s", a.srv.Addr)
	return a.srv.ListenAndServe()
}
