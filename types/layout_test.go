package types_test

import (
	"testing"

	"github.com/strata-engine/strata/assert"
	"github.com/strata-engine/strata/component"
	"github.com/strata-engine/strata/types"
)

type Position struct {
	X, Y float64
}

func (Position) Name() string { return "position" }

type Velocity struct {
	DX, DY float64
}

func (Velocity) Name() string { return "velocity" }

type Health struct {
	Value int
}

func (Health) Name() string { return "health" }

func mustMetadata[T types.Component](t *testing.T, id types.ComponentID) types.ComponentMetadata {
	t.Helper()
	ct, err := component.NewComponentMetadata[T]()
	assert.NilError(t, err)
	assert.NilError(t, ct.SetID(id))
	return ct
}

func TestLayoutSortsAndDeduplicates(t *testing.T) {
	pos := mustMetadata[Position](t, 0)
	vel := mustMetadata[Velocity](t, 1)
	hp := mustMetadata[Health](t, 2)

	layout := types.NewLayout([]types.ComponentMetadata{hp, pos, vel, pos})
	assert.Equal(t, 3, layout.Len())

	comps := layout.Components()
	for i := 1; i < len(comps); i++ {
		assert.True(t, comps[i-1].ID() < comps[i].ID(), "components must be sorted by id")
	}
}

func TestLayoutMaskAndMembership(t *testing.T) {
	pos := mustMetadata[Position](t, 0)
	vel := mustMetadata[Velocity](t, 1)

	layout := types.NewLayout([]types.ComponentMetadata{pos, vel})
	assert.True(t, layout.HasComponent(pos.ID()))
	assert.True(t, layout.HasComponent(vel.ID()))
	assert.False(t, layout.HasComponent(2))
	assert.True(t, layout.Mask().Has(pos.ID()))
	assert.Equal(t, 2, layout.Mask().Count())
}

func TestLayoutEqualsIsOrderIndependent(t *testing.T) {
	pos := mustMetadata[Position](t, 0)
	vel := mustMetadata[Velocity](t, 1)

	a := types.NewLayout([]types.ComponentMetadata{pos, vel})
	b := types.NewLayout([]types.ComponentMetadata{vel, pos})
	c := types.NewLayout([]types.ComponentMetadata{pos})

	assert.True(t, a.Equals(b))
	assert.False(t, a.Equals(c))
}

func TestLayoutWithAndWithout(t *testing.T) {
	pos := mustMetadata[Position](t, 0)
	vel := mustMetadata[Velocity](t, 1)
	hp := mustMetadata[Health](t, 2)

	base := types.NewLayout([]types.ComponentMetadata{pos, vel})

	extended := base.With(hp)
	assert.Equal(t, 3, extended.Len())
	assert.True(t, extended.HasComponent(hp.ID()))
	// The original is untouched.
	assert.Equal(t, 2, base.Len())

	shrunk := extended.Without(vel.ID())
	assert.Equal(t, 2, shrunk.Len())
	assert.False(t, shrunk.HasComponent(vel.ID()))
	assert.True(t, shrunk.HasComponent(pos.ID()))
	assert.True(t, shrunk.HasComponent(hp.ID()))
}

func TestSerializeComponentSchemaIsStable(t *testing.T) {
	one, err := types.SerializeComponentSchema(Position{})
	assert.NilError(t, err)
	two, err := types.SerializeComponentSchema(Position{})
	assert.NilError(t, err)

	match, err := types.IsSchemaValid(one, two)
	assert.NilError(t, err)
	assert.True(t, match)
}

func TestIsSchemaValidDetectsDifferentShapes(t *testing.T) {
	posSchema, err := types.SerializeComponentSchema(Position{})
	assert.NilError(t, err)
	hpSchema, err := types.SerializeComponentSchema(Health{})
	assert.NilError(t, err)

	match, err := types.IsSchemaValid(posSchema, hpSchema)
	assert.NilError(t, err)
	assert.False(t, match)
}
