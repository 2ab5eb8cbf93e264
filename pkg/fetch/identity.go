package fetch

import (
	"fmt"
	"hash/fnv"

	"github.com/calpane/calpane/pkg/engine"
	"github.com/calpane/calpane/pkg/host"
)

// identityFor derives the click-to-edit identity of one wire event: the
// backend uid when present, otherwise a synthetic hash of calendar, window,
// and summary. A synthetic identity collides for two events with identical
// summary and window on the same calendar; mutation is gated on stable
// identities for exactly that reason.
func identityFor(calendarId string, we host.WireEvent) engine.Identity {
	if we.UID != "" {
		return engine.Identity{Kind: engine.IdentityStable, Value: we.UID}
	}

	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%s|%s|%s", calendarId, we.Start.Value(), we.End.Value(), we.Summary)
	return engine.Identity{
		Kind:  engine.IdentitySynthetic,
		Value: fmt.Sprintf("%016x", h.Sum64()),
	}
}
