package groups

import "strings"

// Person is one configured person grouping: a name plus the calendars toggled
// together under it.
type Person struct {
	Name      string
	Calendars []string
	Color     string
	Icon      string
}

// PersonGroup is one visibility group shown in the card's filter bar. Key is
// the person name for explicit groups, or the calendar id itself for a
// synthetic single-calendar group.
type PersonGroup struct {
	Key   string
	Label string
	Ids   []string
	Color string
	Icon  string
}

// Resolution is the derived view of the configuration: the de-duplicated id
// set in first-seen order, and the ordered visibility groups. It is
// recomputed from configuration on every configuration change, never stored.
type Resolution struct {
	AllIds []string
	Groups []PersonGroup
}

// Resolve turns the flat calendar list plus the optional person groupings
// into the id set and the visibility groups. Every id referenced anywhere
// appears in exactly one group: the person group that claims it, or its own
// synthetic group. Pure and deterministic.
func Resolve(calendars []string, persons []Person) Resolution {
	var allIds []string
	seen := map[string]bool{}
	add := func(id string) {
		if id == "" || seen[id] {
			return
		}
		seen[id] = true
		allIds = append(allIds, id)
	}

	for _, id := range calendars {
		add(id)
	}
	for _, p := range persons {
		for _, id := range p.Calendars {
			add(id)
		}
	}

	claimed := map[string]bool{}
	groups := make([]PersonGroup, 0, len(persons))
	for _, p := range persons {
		ids := make([]string, 0, len(p.Calendars))
		for _, id := range p.Calendars {
			if id == "" {
				continue
			}
			ids = append(ids, id)
			claimed[id] = true
		}
		groups = append(groups, PersonGroup{
			Key:   p.Name,
			Label: p.Name,
			Ids:   ids,
			Color: p.Color,
			Icon:  p.Icon,
		})
	}

	for _, id := range allIds {
		if claimed[id] {
			continue
		}
		groups = append(groups, PersonGroup{
			Key:   id,
			Label: humanizeId(id),
			Ids:   []string{id},
		})
	}

	return Resolution{AllIds: allIds, Groups: groups}
}

// GroupFor returns the group a calendar id belongs to, if any.
func (r Resolution) GroupFor(id string) (PersonGroup, bool) {
	for _, g := range r.Groups {
		for _, member := range g.Ids {
			if member == id {
				return g, true
			}
		}
	}
	return PersonGroup{}, false
}

// IndexOf returns the position of a calendar id in AllIds, or -1.
func (r Resolution) IndexOf(id string) int {
	for i, candidate := range r.AllIds {
		if candidate == id {
			return i
		}
	}
	return -1
}

// humanizeId turns an entity id like "calendar.living_room" into a readable
// label ("living room"): domain prefix stripped, separators turned into spaces.
func humanizeId(id string) string {
	label := id
	if idx := strings.Index(label, "."); idx >= 0 {
		label = label[idx+1:]
	}
	label = strings.ReplaceAll(label, "_", " ")
	label = strings.ReplaceAll(label, "-", " ")
	return strings.TrimSpace(label)
}
