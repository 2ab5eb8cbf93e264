package sources

import (
	"github.com/calpane/calpane/pkg/engine"
	"github.com/calpane/calpane/pkg/groups"
	"github.com/calpane/calpane/pkg/visibility"
	log "github.com/sirupsen/logrus"
)

// defaultPalette is the fixed color palette used when a calendar's group does
// not define a color. Index is the calendar's position in allIds modulo the
// palette size, so the same calendar keeps the same color across rebuilds as
// long as the allIds ordering is stable.
var defaultPalette = []string{
	"#3788d8",
	"#e67c73",
	"#33b679",
	"#f6bf26",
	"#8e24aa",
	"#039be5",
	"#ef6c00",
	"#7986cb",
	"#616161",
	"#0b8043",
}

// Fetcher provides a fetch function bound to one calendar id. Satisfied by
// *fetch.Adapter.
type Fetcher interface {
	FetchFunc(calendarId string) engine.FetchFunc
}

// Synchronizer keeps the rendering engine's event-source list in step with
// the visibility set. It never touches the engine while unmounted. All
// methods are called from the single UI goroutine.
type Synchronizer struct {
	fetcher Fetcher
	engine  engine.Engine
	palette []string
}

func NewSynchronizer(fetcher Fetcher) *Synchronizer {
	return &Synchronizer{fetcher: fetcher, palette: defaultPalette}
}

// Mount attaches the synchronizer to a rendering engine. Called by the
// composition layer whenever the output surface changes identity; the
// matching Unmount tears the pairing down.
func (s *Synchronizer) Mount(e engine.Engine) {
	s.engine = e
}

func (s *Synchronizer) Unmount() {
	s.engine = nil
}

func (s *Synchronizer) Mounted() bool {
	return s.engine != nil
}

// Rebuild removes every existing source and adds one per currently visible
// id, in allIds order. Ordering determines color assignment stability, so the
// visible set is derived by filtering allIds rather than iterating the set.
func (s *Synchronizer) Rebuild(res groups.Resolution, vis *visibility.Store) {
	if s.engine == nil {
		log.Debug("synchronizer not mounted, skipping rebuild")
		return
	}

	s.engine.RemoveAllEventSources()
	for _, id := range vis.VisibleIds(res.AllIds) {
		s.engine.AddEventSource(engine.EventSource{
			ID:    id,
			Color: s.ColorFor(id, res),
			Fetch: s.fetcher.FetchFunc(id),
		})
	}
}

// Refresh asks every existing source to re-fetch its current window without
// removing or re-adding sources.
func (s *Synchronizer) Refresh() {
	if s.engine == nil {
		log.Debug("synchronizer not mounted, skipping refresh")
		return
	}
	s.engine.RefetchEvents()
}

// ColorFor resolves a calendar's display color: the color of its person group
// when that group defines one, otherwise a deterministic palette lookup keyed
// by the calendar's position in allIds.
func (s *Synchronizer) ColorFor(id string, res groups.Resolution) string {
	if g, ok := res.GroupFor(id); ok && g.Color != "" {
		return g.Color
	}
	idx := res.IndexOf(id)
	if idx < 0 {
		idx = 0
	}
	return s.palette[idx%len(s.palette)]
}
