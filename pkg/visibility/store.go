package visibility

import (
	"github.com/calpane/calpane/pkg/groups"
)

// Store is the mutable set of currently-visible calendar ids. It is owned by
// the UI goroutine and deliberately side-effect free: after a toggle, the
// caller is responsible for asking the synchronizer to rebuild.
type Store struct {
	visible map[string]struct{}
}

func NewStore() *Store {
	return &Store{visible: map[string]struct{}{}}
}

// Reset replaces the set with all of allIds. Called exactly once per
// configuration assignment.
func (s *Store) Reset(allIds []string) {
	s.visible = make(map[string]struct{}, len(allIds))
	for _, id := range allIds {
		s.visible[id] = struct{}{}
	}
}

func (s *Store) IsVisible(id string) bool {
	_, ok := s.visible[id]
	return ok
}

// IsGroupVisible is true iff any member id is present: group visibility is
// OR-over-members.
func (s *Store) IsGroupVisible(g groups.PersonGroup) bool {
	for _, id := range g.Ids {
		if s.IsVisible(id) {
			return true
		}
	}
	return false
}

// SetGroupVisible adds or removes every member id together. Toggling a group
// with zero members is a no-op.
func (s *Store) SetGroupVisible(g groups.PersonGroup, shouldBeVisible bool) {
	for _, id := range g.Ids {
		if shouldBeVisible {
			s.visible[id] = struct{}{}
		} else {
			delete(s.visible, id)
		}
	}
}

// VisibleIds filters allIds by membership, preserving allIds order. Iterating
// the given slice rather than the set keeps the result deterministic.
func (s *Store) VisibleIds(allIds []string) []string {
	out := make([]string, 0, len(allIds))
	for _, id := range allIds {
		if s.IsVisible(id) {
			out = append(out, id)
		}
	}
	return out
}
