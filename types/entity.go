package types

import (
	"fmt"
	"math"

	"github.com/google/uuid"
)

// EntityID uniquely identifies an entity within its universe. The low 32 bits
// hold the slot index, the high 32 bits hold the slot's version. A retired
// index may be handed out again, but only with a bumped version, so an
// EntityID value is never reissued.
type EntityID uint64

// BadID is a sentinel value that never refers to a live entity.
const BadID EntityID = math.MaxUint64

// NewEntityID packs an index and a version into an EntityID.
func NewEntityID(index uint32, version uint32) EntityID {
	return EntityID(uint64(version)<<32 | uint64(index))
}

// Index returns the slot index of this EntityID.
func (id EntityID) Index() uint32 {
	return uint32(id)
}

// Version returns the slot version of this EntityID.
func (id EntityID) Version() uint32 {
	return uint32(id >> 32)
}

func (id EntityID) String() string {
	return fmt.Sprintf("%d.v%d", id.Index(), id.Version())
}

// UniverseID identifies an entity allocation domain. Two worlds sharing a
// UniverseID never issue the same EntityID.
type UniverseID = uuid.UUID

// ArchetypeID identifies an archetype within a single world.
type ArchetypeID int

// Row is the position of an entity inside its archetype's columns.
type Row int
