package strata

import (
	"github.com/rotisserie/eris"

	"github.com/strata-engine/strata/events"
	"github.com/strata-engine/strata/storage"
	"github.com/strata-engine/strata/types"
)

// CollisionResolution is a merger's verdict on an incoming entity whose id is
// already live in the target world. Collisions can only happen when merging
// across universes; worlds of one universe share an allocator and never hand
// out the same id twice.
type CollisionResolution int

const (
	// Remap gives the incoming entity a fresh id from the target universe.
	Remap CollisionResolution = iota
	// Overwrite replaces the colliding target entity's components with the
	// incoming entity's values, keeping the target id.
	Overwrite
	// Skip keeps the target entity untouched and drops the incoming one.
	Skip
	// RejectCollision aborts the merge with ErrMergeConflict. Entities merged
	// before the collision stay merged.
	RejectCollision
)

func (c CollisionResolution) String() string {
	switch c {
	case Remap:
		return "remap"
	case Overwrite:
		return "overwrite"
	case Skip:
		return "skip"
	case RejectCollision:
		return "reject"
	default:
		return "unknown"
	}
}

// Merger drives World.Merge: it decides whether the source is drained or
// left intact, how component values cross the world boundary, and what
// happens when ids collide. MoveMerger and DuplicateMerger cover the common
// cases; custom policies implement the interface directly.
type Merger interface {
	// RetainsSource reports whether entities stay in the source world after
	// the merge. When false the source is drained as it is merged.
	RetainsSource() bool
	// TransformValue prepares one component value for insertion into the
	// target, for example by deep-copying it.
	TransformValue(ct types.ComponentMetadata, value any) (any, error)
	// ResolveCollision decides what happens when an incoming id is already
	// live in the target world.
	ResolveCollision(existing, incoming types.EntityID) (CollisionResolution, error)
	// EntityMapped records the target id assigned to one merged source
	// entity. A skipped entity is reported with BadID.
	EntityMapped(source, target types.EntityID)
}

// MoveMerger drains the source world into the target. Component values move
// as-is. Within one universe ids are kept; across universes ids are kept
// unless they collide, in which case OnCollision applies.
type MoveMerger struct {
	// OnCollision is applied when an incoming id is already live in the
	// target. The zero value remaps.
	OnCollision CollisionResolution

	mapping map[types.EntityID]types.EntityID
}

func (m *MoveMerger) RetainsSource() bool {
	return false
}

func (m *MoveMerger) TransformValue(_ types.ComponentMetadata, value any) (any, error) {
	return value, nil
}

func (m *MoveMerger) ResolveCollision(_, _ types.EntityID) (CollisionResolution, error) {
	return m.OnCollision, nil
}

func (m *MoveMerger) EntityMapped(source, target types.EntityID) {
	if m.mapping == nil {
		m.mapping = map[types.EntityID]types.EntityID{}
	}
	m.mapping[source] = target
}

// Mapping returns the target id each merged source entity received.
func (m *MoveMerger) Mapping() map[types.EntityID]types.EntityID {
	return m.mapping
}

// DuplicateMerger copies the source world into the target, leaving the
// source intact. Every entity gets a fresh id from the target universe and
// every component value is deep-copied through its codec, so the two worlds
// share no state afterwards.
type DuplicateMerger struct {
	mapping map[types.EntityID]types.EntityID
}

func (m *DuplicateMerger) RetainsSource() bool {
	return true
}

func (m *DuplicateMerger) TransformValue(ct types.ComponentMetadata, value any) (any, error) {
	bz, err := ct.Encode(value)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to copy component %q", ct.Name())
	}
	copied, err := ct.Decode(bz)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to copy component %q", ct.Name())
	}
	return copied, nil
}

func (m *DuplicateMerger) ResolveCollision(_, _ types.EntityID) (CollisionResolution, error) {
	// Duplicated entities always get fresh ids, so no collision can reach
	// this.
	return Remap, nil
}

func (m *DuplicateMerger) EntityMapped(source, target types.EntityID) {
	if m.mapping == nil {
		m.mapping = map[types.EntityID]types.EntityID{}
	}
	m.mapping[source] = target
}

// Mapping returns the target id each duplicated source entity received.
func (m *DuplicateMerger) Mapping() map[types.EntityID]types.EntityID {
	return m.mapping
}

// Merge transfers every entity of the source world into w under the merger's
// policy. Every component type registered in the source must be registered in
// w under the same name with an identical schema, or the merge is rejected
// with ErrMergeConflict before anything moves. A mid-merge rejection leaves
// entities already transferred in place; the error reports what stopped the
// merge. A nil merger moves.
func (w *World) Merge(source *World, merger Merger) error {
	if err := w.checkUsable(); err != nil {
		return err
	}
	if source == nil {
		return eris.New("cannot merge a nil world")
	}
	if source == w {
		return eris.New("cannot merge a world into itself")
	}
	if err := source.checkUsable(); err != nil {
		return err
	}
	if merger == nil {
		merger = &MoveMerger{}
	}

	ctMapping, err := w.mergeComponentMapping(source)
	if err != nil {
		return err
	}

	sameUniverse := w.UniverseID() == source.UniverseID()
	w.logger.Debug().
		Str("source_universe_id", source.UniverseID().String()).
		Bool("same_universe", sameUniverse).
		Bool("retains_source", merger.RetainsSource()).
		Int("entities", source.Len()).
		Msg("merging world")

	var deliveryErr error
	archCount := source.NumArchetypes()
	for i := 0; i < archCount; i++ {
		srcArch := source.archetypes.Archetype(types.ArchetypeID(i))
		destLayout, err := mappedLayout(srcArch.Layout(), ctMapping)
		if err != nil {
			return appendErr(err, deliveryErr)
		}
		// Snapshot ids: draining swap-removes rows under the iteration.
		ids := append([]types.EntityID(nil), srcArch.Entities()...)
		for _, srcID := range ids {
			if err := w.mergeEntity(source, srcID, destLayout, ctMapping, merger, sameUniverse, &deliveryErr); err != nil {
				return appendErr(err, deliveryErr)
			}
		}
	}
	return deliveryErr
}

// mergeComponentMapping checks that every component type registered in the
// source has a schema-identical registration in w, and returns the source
// id to target metadata mapping.
func (w *World) mergeComponentMapping(source *World) (map[types.ComponentID]types.ComponentMetadata, error) {
	srcComponents := source.components.GetComponents()
	mapping := make(map[types.ComponentID]types.ComponentMetadata, len(srcComponents))
	for _, srcCt := range srcComponents {
		dstCt, err := w.components.GetComponentByName(srcCt.Name())
		if err != nil {
			return nil, eris.Wrapf(ErrMergeConflict,
				"component %q is not registered in the target world", srcCt.Name())
		}
		match, err := types.IsSchemaValid(srcCt.GetSchema(), dstCt.GetSchema())
		if err != nil {
			return nil, err
		}
		if !match {
			return nil, eris.Wrapf(ErrMergeConflict,
				"component %q has a different schema in the target world", srcCt.Name())
		}
		mapping[srcCt.ID()] = dstCt
	}
	return mapping, nil
}

func mappedLayout(
	src types.Layout, ctMapping map[types.ComponentID]types.ComponentMetadata,
) (types.Layout, error) {
	metas := make([]types.ComponentMetadata, 0, src.Len())
	for _, srcCt := range src.Components() {
		dstCt, ok := ctMapping[srcCt.ID()]
		if !ok {
			return types.Layout{}, eris.Wrapf(ErrMergeConflict,
				"component %q is not registered in the target world", srcCt.Name())
		}
		metas = append(metas, dstCt)
	}
	return types.NewLayout(metas), nil
}

func (w *World) mergeEntity(
	source *World,
	srcID types.EntityID,
	destLayout types.Layout,
	ctMapping map[types.ComponentID]types.ComponentMetadata,
	merger Merger,
	sameUniverse bool,
	deliveryErr *error,
) error {
	srcArch, srcLoc, ok := source.mustLocate(srcID)
	if !ok {
		return eris.Wrapf(ErrEntityDoesNotExist, "entity %s vanished from the source mid-merge", srcID)
	}

	byTarget := make(map[types.ComponentID]any, destLayout.Len())
	for _, srcCt := range srcArch.Layout().Components() {
		value, ok := srcArch.Component(srcCt.ID(), srcLoc.Row)
		if !ok {
			return eris.Wrapf(ErrComponentNotOnEntity,
				"entity %s is missing %q from its own archetype", srcID, srcCt.Name())
		}
		dstCt := ctMapping[srcCt.ID()]
		transformed, err := merger.TransformValue(dstCt, value)
		if err != nil {
			return err
		}
		byTarget[dstCt.ID()] = transformed
	}
	values := make([]any, destLayout.Len())
	for i, ct := range destLayout.Components() {
		values[i] = byTarget[ct.ID()]
	}

	targetID := srcID
	switch {
	case merger.RetainsSource():
		fresh, err := w.universe.allocator.Allocate()
		if err != nil {
			return err
		}
		targetID = fresh
	case !sameUniverse && w.locations.Contains(srcID):
		resolution, err := merger.ResolveCollision(srcID, srcID)
		if err != nil {
			return err
		}
		switch resolution {
		case Remap:
			fresh, err := w.universe.allocator.Allocate()
			if err != nil {
				return err
			}
			targetID = fresh
		case Overwrite:
			w.dropRow(targetID, deliveryErr)
		case Skip:
			source.dropRow(srcID, deliveryErr)
			source.universe.allocator.Free(srcID)
			merger.EntityMapped(srcID, types.BadID)
			return nil
		case RejectCollision:
			return eris.Wrapf(ErrMergeConflict, "entity id %s is already live in the target world", srcID)
		default:
			return eris.Errorf("unknown collision resolution %d", resolution)
		}
	}

	destArch, dErr := w.archetypeFor(destLayout)
	*deliveryErr = appendErr(*deliveryErr, dErr)
	row, err := destArch.Push(targetID, values)
	if err != nil {
		return err
	}
	w.locations.Set(targetID, storage.NewLocation(destArch.ID(), row))
	*deliveryErr = appendErr(*deliveryErr, w.publish(events.Event{
		Kind:   events.EntityInserted,
		Entity: targetID,
		Arch:   destArch.ID(),
		Layout: destLayout,
	}))

	if !merger.RetainsSource() {
		source.dropRow(srcID, deliveryErr)
		if targetID != srcID {
			source.universe.allocator.Free(srcID)
		}
	}
	merger.EntityMapped(srcID, targetID)
	return nil
}

// dropRow removes a live entity's row and location entry, publishing the
// removal. The id is not freed; the caller decides whether it lives on.
func (w *World) dropRow(id types.EntityID, deliveryErr *error) {
	arch, loc, ok := w.mustLocate(id)
	if !ok {
		return
	}
	w.removeRow(arch, loc.Row)
	w.locations.Remove(id)
	*deliveryErr = appendErr(*deliveryErr, w.publish(events.Event{
		Kind:   events.EntityRemoved,
		Entity: id,
		Arch:   arch.ID(),
		Layout: arch.Layout(),
	}))
}
