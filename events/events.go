// Package events delivers structural change notifications: archetype
// creation, entity insertion, entity removal. Delivery is synchronous and in
// operation order; a sink that cannot accept a notification misses it, the
// storage mutation that produced it stays committed.
package events

import (
	"fmt"

	"github.com/strata-engine/strata/types"
)

// EventKind discriminates the structural events a world emits.
type EventKind int

const (
	// ArchetypeCreated fires when a novel layout creates an archetype.
	ArchetypeCreated EventKind = iota
	// EntityInserted fires when an entity is added to an archetype, both on
	// creation and on migration.
	EntityInserted
	// EntityRemoved fires when an entity leaves an archetype, both on
	// deletion and on migration.
	EntityRemoved
)

func (k EventKind) String() string {
	switch k {
	case ArchetypeCreated:
		return "archetype_created"
	case EntityInserted:
		return "entity_inserted"
	case EntityRemoved:
		return "entity_removed"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Event is one structural change notification.
type Event struct {
	Kind   EventKind
	Entity types.EntityID
	Arch   types.ArchetypeID
	Layout types.Layout
}

// Sink receives events. Notify returning an error means the sink missed this
// notification; the engine makes no retry guarantee.
type Sink interface {
	Notify(Event) error
}
