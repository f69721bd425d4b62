package strata

import (
	"github.com/strata-engine/strata/storage"
	"github.com/strata-engine/strata/types"
)

// Universe is an entity id allocation domain. Every world created from one
// universe shares its allocator, so no two of them ever issue the same
// EntityID and they can be merged without id conflicts.
type Universe struct {
	allocator *storage.Allocator
}

// NewUniverse creates a fresh allocation domain.
func NewUniverse() *Universe {
	return &Universe{allocator: storage.NewAllocator()}
}

// ID returns the universe's identifier.
func (u *Universe) ID() types.UniverseID {
	return u.allocator.UniverseID()
}

// Allocator returns the universe's shared entity id allocator.
func (u *Universe) Allocator() *storage.Allocator {
	return u.allocator
}

// NewWorld creates a world inside this universe.
func (u *Universe) NewWorld(opts ...WorldOption) (*World, error) {
	return newWorld(u, opts...)
}
