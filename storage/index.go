package storage

import (
	"github.com/strata-engine/strata/filter"
	"github.com/strata-engine/strata/types"
)

// Index owns a world's full archetype set. Archetypes are created lazily the
// first time a novel layout is inserted and are retained when they empty so a
// later insert of the same layout can reuse them.
type Index struct {
	archetypes []*Archetype
	byMask     map[types.Mask]types.ArchetypeID
	capacity   int
}

// NewIndex creates an empty archetype index. capacity is the initial per
// column capacity for new archetypes.
func NewIndex(capacity int) *Index {
	return &Index{
		archetypes: make([]*Archetype, 0),
		byMask:     make(map[types.Mask]types.ArchetypeID),
		capacity:   capacity,
	}
}

// GetOrCreate returns the archetype for the given layout, creating it if this
// is the first time the layout is seen. created reports whether a new
// archetype was made.
func (idx *Index) GetOrCreate(layout types.Layout) (arch *Archetype, created bool) {
	if archID, ok := idx.byMask[layout.Mask()]; ok {
		return idx.archetypes[archID], false
	}
	archID := types.ArchetypeID(len(idx.archetypes))
	arch = NewArchetype(archID, layout, idx.capacity)
	idx.archetypes = append(idx.archetypes, arch)
	idx.byMask[layout.Mask()] = archID
	return arch, true
}

// Lookup returns the archetype for the given layout without creating it.
func (idx *Index) Lookup(layout types.Layout) (*Archetype, bool) {
	archID, ok := idx.byMask[layout.Mask()]
	if !ok {
		return nil, false
	}
	return idx.archetypes[archID], true
}

// Archetype returns the archetype with the given id.
func (idx *Index) Archetype(archID types.ArchetypeID) *Archetype {
	return idx.archetypes[archID]
}

// Count returns the number of archetypes, empty ones included.
func (idx *Index) Count() int {
	return len(idx.archetypes)
}

// Search returns an iterator over the archetypes whose layout matches the
// filter. The matching set is snapshotted at call time: archetypes created
// during iteration are not visited.
func (idx *Index) Search(layoutFilter filter.LayoutFilter) *ArchetypeIterator {
	matching := make([]types.ArchetypeID, 0)
	for _, arch := range idx.archetypes {
		if layoutFilter.MatchesLayout(arch.Layout()) {
			matching = append(matching, arch.ID())
		}
	}
	return &ArchetypeIterator{values: matching}
}

// SearchMasked is Search restricted to archetypes whose layout intersects the
// given component mask. Partitioned views use it so they never enumerate
// archetypes they hold no rights over.
func (idx *Index) SearchMasked(layoutFilter filter.LayoutFilter, mask types.Mask) *ArchetypeIterator {
	matching := make([]types.ArchetypeID, 0)
	for _, arch := range idx.archetypes {
		if !arch.Layout().Mask().ContainsAny(mask) {
			continue
		}
		if layoutFilter.MatchesLayout(arch.Layout()) {
			matching = append(matching, arch.ID())
		}
	}
	return &ArchetypeIterator{values: matching}
}

// ArchetypeIterator walks a snapshot of archetype ids. Reset makes it
// restartable.
type ArchetypeIterator struct {
	current int
	values  []types.ArchetypeID
}

func (it *ArchetypeIterator) HasNext() bool {
	return it.current < len(it.values)
}

func (it *ArchetypeIterator) Next() types.ArchetypeID {
	val := it.values[it.current]
	it.current++
	return val
}

// Reset rewinds the iterator to the start of its snapshot.
func (it *ArchetypeIterator) Reset() {
	it.current = 0
}

// Len returns the size of the snapshot.
func (it *ArchetypeIterator) Len() int {
	return len(it.values)
}
