package storage

import (
	"fmt"

	"github.com/strata-engine/strata/types"
)

// Location is the current address of a live entity: which archetype holds it
// and at which row.
type Location struct {
	ArchID types.ArchetypeID
	Row    types.Row
}

// NewLocation creates a new Location.
func NewLocation(archetype types.ArchetypeID, row types.Row) Location {
	return Location{
		ArchID: archetype,
		Row:    row,
	}
}

func (l Location) String() string {
	return fmt.Sprintf("arch %d row %d", l.ArchID, l.Row)
}

type locationSlot struct {
	loc     Location
	version uint32
	live    bool
}

// LocationMap tracks where every live entity currently sits. It is the single
// source of truth for entity liveness: a lookup for an id that was never
// issued, or whose slot has since been reused under a newer version, reports
// absent rather than an error.
type LocationMap struct {
	slots []locationSlot
	count int
}

// NewLocationMap creates an empty location map.
func NewLocationMap() *LocationMap {
	return &LocationMap{slots: make([]locationSlot, 0, defaultArchetypeCapacity)}
}

// Count returns the number of live entities.
func (m *LocationMap) Count() int {
	return m.count
}

// Contains returns true if the entity is live.
func (m *LocationMap) Contains(id types.EntityID) bool {
	_, ok := m.Locate(id)
	return ok
}

// Locate returns the entity's current location, or false if the entity is
// unknown or removed.
func (m *LocationMap) Locate(id types.EntityID) (Location, bool) {
	idx := int(id.Index())
	if idx >= len(m.slots) {
		return Location{}, false
	}
	slot := m.slots[idx]
	if !slot.live || slot.version != id.Version() {
		return Location{}, false
	}
	return slot.loc, true
}

// Set records the entity's location, growing the map as needed.
func (m *LocationMap) Set(id types.EntityID, loc Location) {
	idx := int(id.Index())
	for idx >= len(m.slots) {
		m.slots = append(m.slots, locationSlot{})
	}
	if !m.slots[idx].live {
		m.count++
	}
	m.slots[idx] = locationSlot{loc: loc, version: id.Version(), live: true}
}

// Remove clears the entity's location and returns where it was. A no-op for
// unknown or already removed entities.
func (m *LocationMap) Remove(id types.EntityID) (Location, bool) {
	loc, ok := m.Locate(id)
	if !ok {
		return Location{}, false
	}
	m.slots[id.Index()] = locationSlot{}
	m.count--
	return loc, true
}
