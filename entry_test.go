package strata_test

import (
	"testing"

	"github.com/strata-engine/strata"
	"github.com/strata-engine/strata/assert"
)

func TestGetComponentReturnsACopy(t *testing.T) {
	world := newTestWorld(t)
	id, err := world.Push(Position{X: 1})
	assert.NilError(t, err)
	entry, err := world.Entry(id)
	assert.NilError(t, err)

	pos, err := strata.GetComponent[Position](entry)
	assert.NilError(t, err)
	pos.X = 99

	again, err := strata.GetComponent[Position](entry)
	assert.NilError(t, err)
	assert.Equal(t, 1.0, again.X, "mutating the returned copy must not touch storage")
}

func TestSetComponent(t *testing.T) {
	world := newTestWorld(t)
	id, err := world.Push(Position{X: 1})
	assert.NilError(t, err)
	entry, err := world.Entry(id)
	assert.NilError(t, err)

	assert.NilError(t, strata.SetComponent(entry, Position{X: 42, Y: 43}))

	pos, err := strata.GetComponent[Position](entry)
	assert.NilError(t, err)
	assert.Equal(t, Position{X: 42, Y: 43}, *pos)
}

func TestGetComponentAbsent(t *testing.T) {
	world := newTestWorld(t)
	id, err := world.Push(Position{})
	assert.NilError(t, err)
	entry, err := world.Entry(id)
	assert.NilError(t, err)

	_, err = strata.GetComponent[Velocity](entry)
	assert.ErrorIs(t, err, strata.ErrComponentNotOnEntity)
}

func TestSetComponentAbsent(t *testing.T) {
	world := newTestWorld(t)
	id, err := world.Push(Position{})
	assert.NilError(t, err)
	entry, err := world.Entry(id)
	assert.NilError(t, err)

	err = strata.SetComponent(entry, Velocity{DX: 1})
	assert.ErrorIs(t, err, strata.ErrComponentNotOnEntity)
}

func TestAddComponentMigratesAndKeepsValues(t *testing.T) {
	world := newTestWorld(t)
	id, err := world.Push(Position{X: 5})
	assert.NilError(t, err)
	entry, err := world.Entry(id)
	assert.NilError(t, err)
	before, err := entry.Archetype()
	assert.NilError(t, err)

	assert.NilError(t, strata.AddComponent(entry, Velocity{DX: 6}))

	after, err := entry.Archetype()
	assert.NilError(t, err)
	assert.NotEqual(t, before, after, "adding a component must migrate the entity")

	pos, err := strata.GetComponent[Position](entry)
	assert.NilError(t, err)
	assert.Equal(t, 5.0, pos.X, "existing values must survive the migration")
	vel, err := strata.GetComponent[Velocity](entry)
	assert.NilError(t, err)
	assert.Equal(t, 6.0, vel.DX)
}

func TestAddComponentAlreadyPresent(t *testing.T) {
	world := newTestWorld(t)
	id, err := world.Push(Position{X: 1})
	assert.NilError(t, err)
	entry, err := world.Entry(id)
	assert.NilError(t, err)

	err = strata.AddComponent(entry, Position{X: 2})
	assert.ErrorIs(t, err, strata.ErrComponentAlreadyOnEntity)

	// The failed add changed nothing.
	pos, err := strata.GetComponent[Position](entry)
	assert.NilError(t, err)
	assert.Equal(t, 1.0, pos.X)
}

func TestRemoveComponentMigratesAndKeepsValues(t *testing.T) {
	world := newTestWorld(t)
	id, err := world.Push(Position{X: 3}, Velocity{DX: 4})
	assert.NilError(t, err)
	entry, err := world.Entry(id)
	assert.NilError(t, err)

	assert.NilError(t, strata.RemoveComponent[Velocity](entry))

	_, err = strata.GetComponent[Velocity](entry)
	assert.ErrorIs(t, err, strata.ErrComponentNotOnEntity)
	pos, err := strata.GetComponent[Position](entry)
	assert.NilError(t, err)
	assert.Equal(t, 3.0, pos.X)

	layout, err := entry.Layout()
	assert.NilError(t, err)
	assert.Equal(t, 1, layout.Len())
}

func TestRemoveComponentAbsent(t *testing.T) {
	world := newTestWorld(t)
	id, err := world.Push(Position{})
	assert.NilError(t, err)
	entry, err := world.Entry(id)
	assert.NilError(t, err)

	err = strata.RemoveComponent[Velocity](entry)
	assert.ErrorIs(t, err, strata.ErrComponentNotOnEntity)
}

func TestRemoveLastComponentIsRejected(t *testing.T) {
	world := newTestWorld(t)
	id, err := world.Push(Position{})
	assert.NilError(t, err)
	entry, err := world.Entry(id)
	assert.NilError(t, err)

	err = strata.RemoveComponent[Position](entry)
	assert.ErrorIs(t, err, strata.ErrEntityMustHaveAtLeastOneComponent)
	assert.True(t, world.Contains(id))
}

func TestEntryStaysValidAcrossMigrations(t *testing.T) {
	world := newTestWorld(t)
	id, err := world.Push(Position{X: 1})
	assert.NilError(t, err)
	entry, err := world.Entry(id)
	assert.NilError(t, err)

	// The handle revalidates the location per access, so it survives any
	// number of structural changes.
	assert.NilError(t, strata.AddComponent(entry, Velocity{}))
	assert.NilError(t, strata.AddComponent(entry, Health{Value: 2}))
	assert.NilError(t, strata.RemoveComponent[Velocity](entry))

	pos, err := strata.GetComponent[Position](entry)
	assert.NilError(t, err)
	assert.Equal(t, 1.0, pos.X)
	hp, err := strata.GetComponent[Health](entry)
	assert.NilError(t, err)
	assert.Equal(t, 2, hp.Value)
}

func TestEntryAfterEntityRemoved(t *testing.T) {
	world := newTestWorld(t)
	id, err := world.Push(Position{})
	assert.NilError(t, err)
	entry, err := world.Entry(id)
	assert.NilError(t, err)

	_, err = world.Remove(id)
	assert.NilError(t, err)

	_, err = strata.GetComponent[Position](entry)
	assert.ErrorIs(t, err, strata.ErrEntityDoesNotExist)
	err = strata.SetComponent(entry, Position{})
	assert.ErrorIs(t, err, strata.ErrEntityDoesNotExist)
}

func TestEntryROReads(t *testing.T) {
	world := newTestWorld(t)
	id, err := world.Push(Position{X: 8}, Health{Value: 9})
	assert.NilError(t, err)

	ro, err := world.EntryRO(id)
	assert.NilError(t, err)
	assert.Equal(t, id, ro.ID())

	pos, err := strata.GetComponent[Position](ro)
	assert.NilError(t, err)
	assert.Equal(t, 8.0, pos.X)

	layout, err := ro.Layout()
	assert.NilError(t, err)
	assert.Equal(t, 2, layout.Len())
}

func TestEntryUnknownEntity(t *testing.T) {
	world := newTestWorld(t)
	id, err := world.Push(Position{})
	assert.NilError(t, err)
	_, err = world.Remove(id)
	assert.NilError(t, err)

	_, err = world.Entry(id)
	assert.ErrorIs(t, err, strata.ErrEntityDoesNotExist)
	_, err = world.EntryRO(id)
	assert.ErrorIs(t, err, strata.ErrEntityDoesNotExist)
}
