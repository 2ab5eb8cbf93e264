package card

import (
	"time"

	"github.com/calpane/calpane/internal/event_bus"
	"github.com/calpane/calpane/pkg/dialog"
	"github.com/calpane/calpane/pkg/engine"
	"github.com/calpane/calpane/pkg/fetch"
	"github.com/calpane/calpane/pkg/gateway"
	"github.com/calpane/calpane/pkg/groups"
	"github.com/calpane/calpane/pkg/host"
	"github.com/calpane/calpane/pkg/sources"
	"github.com/calpane/calpane/pkg/visibility"
	log "github.com/sirupsen/logrus"
)

// Card is the calendar-card controller: it owns the visibility state, keeps
// the rendering engine's sources synchronized, and drives the event dialog.
// All methods are called from the single UI goroutine.
type Card struct {
	cfg Config
	res groups.Resolution

	vis    *visibility.Store
	sync   *sources.Synchronizer
	dialog *dialog.Controller
}

// New builds a card from its configuration and the host boundary. The card
// starts unmounted; Mount attaches it to a rendering engine.
func New(cfg Config, reader host.EventReader, caller host.ServiceCaller) (*Card, error) {
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}

	c := &Card{
		vis: visibility.NewStore(),
	}
	adapter := fetch.NewAdapter(reader)
	c.sync = sources.NewSynchronizer(adapter)
	c.dialog = dialog.NewController(gateway.NewGateway(caller), c.sync)
	c.applyConfig(cfg)
	return c, nil
}

// SetConfig replaces the configuration: person groups are recomputed, the
// visibility set is re-seeded with all known ids, and mounted engines are
// rebuilt.
func (c *Card) SetConfig(cfg Config) error {
	if err := cfg.Normalize(); err != nil {
		return err
	}
	c.applyConfig(cfg)
	c.sync.Rebuild(c.res, c.vis)
	return nil
}

func (c *Card) applyConfig(cfg Config) {
	c.cfg = cfg
	c.res = groups.Resolve(cfg.Calendars, cfg.persons())
	c.vis.Reset(c.res.AllIds)
	log.Debugf("card configured with %d calendars in %d groups", len(c.res.AllIds), len(c.res.Groups))
}

func (c *Card) Config() Config {
	return c.cfg
}

// Groups returns the ordered visibility groups for the filter bar.
func (c *Card) Groups() []groups.PersonGroup {
	return c.res.Groups
}

func (c *Card) IsGroupVisible(g groups.PersonGroup) bool {
	return c.vis.IsGroupVisible(g)
}

// ToggleGroup flips a group's visibility and rebuilds the engine's sources so
// that exactly the visible calendars are queried.
func (c *Card) ToggleGroup(g groups.PersonGroup, shouldBeVisible bool) {
	c.vis.SetGroupVisible(g, shouldBeVisible)
	c.sync.Rebuild(c.res, c.vis)
}

// Mount attaches the card to a rendering engine and builds its sources.
// Called by the composition layer whenever the output surface changes
// identity, paired with Unmount.
func (c *Card) Mount(e engine.Engine) {
	c.sync.Mount(e)
	c.sync.Rebuild(c.res, c.vis)
}

func (c *Card) Unmount() {
	c.sync.Unmount()
}

// Refresh asks existing sources to re-fetch without a rebuild, e.g. after the
// host's underlying entity state ticked.
func (c *Card) Refresh() {
	c.sync.Refresh()
}

// BindBus subscribes the card's refresh path to host state-change
// notifications. The returned function unsubscribes.
func (c *Card) BindBus(bus *event_bus.EventBus) func() {
	return event_bus.SubscribeTyped(bus, event_bus.TypeCalendarStateChanged,
		func(e event_bus.EventT[event_bus.CalendarStateChanged]) error {
			c.Refresh()
			return nil
		})
}

// Dialog exposes the dialog controller for form binding.
func (c *Card) Dialog() *dialog.Controller {
	return c.dialog
}

// Callbacks returns the engine callback set routing user interaction into
// the dialog state machine.
func (c *Card) Callbacks() engine.Callbacks {
	return engine.Callbacks{
		SelectRange: c.HandleSelectRange,
		DateClick:   c.HandleDateClick,
		EventClick:  c.HandleEventClick,
	}
}

// HandleSelectRange opens a create draft for a slot selection.
func (c *Card) HandleSelectRange(start, end time.Time, allDay bool) {
	c.dialog.OpenCreate(start, end, allDay, c.defaultCalendarId())
}

// HandleDateClick opens a create draft for a day-cell click.
func (c *Card) HandleDateClick(date time.Time, allDay bool) {
	c.dialog.OpenDateClick(date, allDay, c.defaultCalendarId())
}

// HandleEventClick opens an existing event for viewing or editing.
func (c *Card) HandleEventClick(ev engine.RenderableEvent) {
	c.dialog.OpenEvent(ev)
}

// defaultCalendarId is the first currently visible calendar in allIds order.
func (c *Card) defaultCalendarId() string {
	visible := c.vis.VisibleIds(c.res.AllIds)
	if len(visible) == 0 {
		if len(c.res.AllIds) == 0 {
			return ""
		}
		return c.res.AllIds[0]
	}
	return visible[0]
}
