package storage

import (
	"math"
	"sync"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/strata-engine/strata/types"
)

// ErrIDExhausted is returned when a universe has no representable entity ids
// left. Existing entities are unaffected; further insertion in the domain is
// impossible.
var ErrIDExhausted = eris.New("entity id space exhausted")

type freeSlot struct {
	index   uint32
	version uint32
}

// Allocator issues entity ids for one universe. Allocation is thread safe:
// every world of a universe shares one allocator, and worlds on different
// goroutines may insert concurrently. Retired indices are recycled with a
// bumped version, so an EntityID value is never issued twice.
type Allocator struct {
	mu        sync.Mutex
	universe  types.UniverseID
	nextIndex uint32
	free      []freeSlot
}

// NewAllocator creates an allocator for a fresh universe.
func NewAllocator() *Allocator {
	return &Allocator{
		universe: uuid.New(),
		free:     make([]freeSlot, 0, defaultArchetypeCapacity),
	}
}

// UniverseID returns the allocation domain this allocator serves.
func (a *Allocator) UniverseID() types.UniverseID {
	return a.universe
}

// Allocate issues a fresh EntityID, unique forever within the universe.
func (a *Allocator) Allocate() (types.EntityID, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if n := len(a.free); n > 0 {
		slot := a.free[n-1]
		a.free = a.free[:n-1]
		return types.NewEntityID(slot.index, slot.version+1), nil
	}
	if a.nextIndex == math.MaxUint32 {
		return types.BadID, ErrIDExhausted
	}
	index := a.nextIndex
	a.nextIndex++
	return types.NewEntityID(index, 0), nil
}

// Free retires an id. Its index becomes reusable under the next version;
// slots whose version space is spent are dropped for good.
func (a *Allocator) Free(id types.EntityID) {
	if id.Version() == math.MaxUint32 {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.free = append(a.free, freeSlot{index: id.Index(), version: id.Version()})
}
