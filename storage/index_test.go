package storage_test

import (
	"testing"

	"github.com/strata-engine/strata/assert"
	"github.com/strata-engine/strata/filter"
	"github.com/strata-engine/strata/storage"
	"github.com/strata-engine/strata/types"
)

func TestIndexGetOrCreate(t *testing.T) {
	idx := storage.NewIndex(0)
	layout := posVelLayout(t)

	arch, created := idx.GetOrCreate(layout)
	assert.True(t, created)
	assert.Equal(t, types.ArchetypeID(0), arch.ID())
	assert.Equal(t, 1, idx.Count())

	again, created := idx.GetOrCreate(layout)
	assert.False(t, created)
	assert.Equal(t, arch.ID(), again.ID())
	assert.Equal(t, 1, idx.Count())
}

func TestIndexDistinguishesLayoutsByMask(t *testing.T) {
	idx := storage.NewIndex(0)
	pos := metadata[Position](t, 0)
	vel := metadata[Velocity](t, 1)

	a, _ := idx.GetOrCreate(types.NewLayout([]types.ComponentMetadata{pos}))
	b, _ := idx.GetOrCreate(types.NewLayout([]types.ComponentMetadata{pos, vel}))
	assert.NotEqual(t, a.ID(), b.ID())
	assert.Equal(t, 2, idx.Count())
}

func TestIndexLookup(t *testing.T) {
	idx := storage.NewIndex(0)
	layout := posVelLayout(t)

	_, ok := idx.Lookup(layout)
	assert.False(t, ok)

	created, _ := idx.GetOrCreate(layout)
	found, ok := idx.Lookup(layout)
	assert.True(t, ok)
	assert.Equal(t, created.ID(), found.ID())
}

func TestIndexSearch(t *testing.T) {
	idx := storage.NewIndex(0)
	pos := metadata[Position](t, 0)
	vel := metadata[Velocity](t, 1)

	posOnly, _ := idx.GetOrCreate(types.NewLayout([]types.ComponentMetadata{pos}))
	both, _ := idx.GetOrCreate(types.NewLayout([]types.ComponentMetadata{pos, vel}))
	velOnly, _ := idx.GetOrCreate(types.NewLayout([]types.ComponentMetadata{vel}))

	it := idx.Search(filter.Contains(filter.Component[Position]()))
	assert.Equal(t, 2, it.Len())
	var matched []types.ArchetypeID
	for it.HasNext() {
		matched = append(matched, it.Next())
	}
	assert.ElementsMatch(t, []types.ArchetypeID{posOnly.ID(), both.ID()}, matched)

	it = idx.Search(filter.Exact(filter.Component[Velocity]()))
	assert.Equal(t, 1, it.Len())
	assert.Equal(t, velOnly.ID(), it.Next())
}

func TestIndexSearchMaskedSkipsInaccessible(t *testing.T) {
	idx := storage.NewIndex(0)
	pos := metadata[Position](t, 0)
	vel := metadata[Velocity](t, 1)

	posOnly, _ := idx.GetOrCreate(types.NewLayout([]types.ComponentMetadata{pos}))
	idx.GetOrCreate(types.NewLayout([]types.ComponentMetadata{vel}))

	var mask types.Mask
	mask.Set(pos.ID())

	it := idx.SearchMasked(filter.All(), mask)
	assert.Equal(t, 1, it.Len())
	assert.Equal(t, posOnly.ID(), it.Next())
}

func TestArchetypeIteratorReset(t *testing.T) {
	idx := storage.NewIndex(0)
	idx.GetOrCreate(posVelLayout(t))

	it := idx.Search(filter.All())
	assert.True(t, it.HasNext())
	first := it.Next()
	assert.False(t, it.HasNext())

	it.Reset()
	assert.True(t, it.HasNext())
	assert.Equal(t, first, it.Next())
}

func TestIndexSearchIsASnapshot(t *testing.T) {
	idx := storage.NewIndex(0)
	idx.GetOrCreate(posVelLayout(t))

	it := idx.Search(filter.All())
	// Archetypes created after the search are not visible to the iterator.
	idx.GetOrCreate(types.NewLayout([]types.ComponentMetadata{metadata[Position](t, 0)}))
	assert.Equal(t, 1, it.Len())
}
