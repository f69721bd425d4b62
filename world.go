// Package strata is an in-memory archetype storage engine for entities and
// their components. Entities sharing a component set live together in
// columnar archetypes; a location index tracks where every live entity sits;
// permissioned world splits hand out provably disjoint views for lock-free
// parallel access.
package strata

import (
	"errors"
	"os"
	"sync/atomic"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"

	"github.com/strata-engine/strata/component"
	"github.com/strata-engine/strata/events"
	"github.com/strata-engine/strata/filter"
	ecslog "github.com/strata-engine/strata/log"
	"github.com/strata-engine/strata/storage"
	"github.com/strata-engine/strata/types"
)

// ErrEntityMustHaveAtLeastOneComponent is returned when an insert or a
// component removal would leave an entity with an empty layout.
var ErrEntityMustHaveAtLeastOneComponent = eris.New("entities must have at least 1 component")

// World owns a full archetype set, the location index over it, and a
// subscriber list. A world is single-owner: exactly one goroutine may use an
// unsplit world. Concurrent access is handed out exclusively through Split.
type World struct {
	universe   *Universe
	components *component.Manager
	archetypes *storage.Index
	locations  *storage.LocationMap
	notifier   *events.Notifier
	logger     zerolog.Logger

	archetypeCapacity int
	// outstandingSplits locks the world while children of a split exist.
	// Children may be released from different goroutines.
	outstandingSplits atomic.Int32
}

// NewWorld creates a world in its own private universe.
func NewWorld(opts ...WorldOption) (*World, error) {
	return newWorld(NewUniverse(), opts...)
}

func newWorld(universe *Universe, opts ...WorldOption) (*World, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	level, err := cfg.logLevel()
	if err != nil {
		return nil, err
	}
	logger := zerolog.New(os.Stderr).
		With().
		Timestamp().
		Str("universe_id", universe.ID().String()).
		Logger().
		Level(level)

	w := &World{
		universe:          universe,
		components:        component.NewManager(),
		locations:         storage.NewLocationMap(),
		logger:            logger,
		archetypeCapacity: cfg.StrataArchetypeCapacity,
	}
	for _, opt := range opts {
		if opt.worldOption != nil {
			opt.worldOption(w)
		}
	}
	w.archetypes = storage.NewIndex(w.archetypeCapacity)
	w.notifier = events.NewNotifier(w.logger)
	return w, nil
}

// RegisterComponent registers the component type T with the world. Every
// component type must be registered before entities carrying it are inserted.
func RegisterComponent[T types.Component](w *World, opts ...component.Option[T]) error {
	compMetadata, err := component.NewComponentMetadata[T](opts...)
	if err != nil {
		return err
	}
	return w.registerComponent(compMetadata)
}

func (w *World) registerComponent(compMetadata types.ComponentMetadata) error {
	if err := w.checkUsable(); err != nil {
		return err
	}
	if err := w.components.Register(compMetadata); err != nil {
		return err
	}
	w.logger.Debug().
		Str("component_name", compMetadata.Name()).
		Int("component_id", int(compMetadata.ID())).
		Msg("registered component")
	return nil
}

// GetRegisteredComponents returns all component types known to this world.
func (w *World) GetRegisteredComponents() []types.ComponentMetadata {
	return w.components.GetComponents()
}

// GetComponentByName returns the metadata of a registered component type.
func (w *World) GetComponentByName(name string) (types.ComponentMetadata, error) {
	return w.components.GetComponentByName(name)
}

// UniverseID returns the id of the allocation domain this world belongs to.
func (w *World) UniverseID() types.UniverseID {
	return w.universe.ID()
}

// Universe returns the universe this world belongs to.
func (w *World) Universe() *Universe {
	return w.universe
}

// Len returns the number of live entities.
func (w *World) Len() int {
	return w.locations.Count()
}

// NumArchetypes returns the number of archetypes, empty ones included.
func (w *World) NumArchetypes() int {
	return w.archetypes.Count()
}

// Contains returns true if the entity is live in this world.
func (w *World) Contains(id types.EntityID) bool {
	return w.locations.Contains(id)
}

// Subscribe registers a sink for structural events on archetypes whose layout
// matches the filter. Events are delivered synchronously, in operation order,
// before the operation that produced them returns.
func (w *World) Subscribe(sink events.Sink, layoutFilter filter.LayoutFilter) error {
	if err := w.checkUsable(); err != nil {
		return err
	}
	w.notifier.Subscribe(sink, layoutFilter)
	return nil
}

// Push inserts one entity built from the given component values and returns
// its id.
func (w *World) Push(components ...types.Component) (types.EntityID, error) {
	if err := w.checkUsable(); err != nil {
		return types.BadID, err
	}
	layout, values, err := w.resolveLayout(components)
	if err != nil {
		return types.BadID, err
	}
	arch, deliveryErr := w.archetypeFor(layout)
	id, err := w.universe.allocator.Allocate()
	if err != nil {
		return types.BadID, appendErr(err, deliveryErr)
	}
	row, err := arch.Push(id, values)
	if err != nil {
		return types.BadID, appendErr(err, deliveryErr)
	}
	w.locations.Set(id, storage.NewLocation(arch.ID(), row))
	ecslog.Entity(&w.logger, zerolog.DebugLevel, id, arch.ID(), layout.Components())
	if err := w.publish(events.Event{
		Kind:   events.EntityInserted,
		Entity: id,
		Arch:   arch.ID(),
		Layout: layout,
	}); err != nil {
		deliveryErr = appendErr(deliveryErr, err)
	}
	return id, deliveryErr
}

// Extend inserts many entities in one batch and returns their ids in
// insertion order. Every row must carry the same component set as the first;
// a mismatched row rejects the whole batch before anything is inserted. The
// destination archetype is resolved once for the batch.
func (w *World) Extend(batch [][]types.Component) ([]types.EntityID, error) {
	if err := w.checkUsable(); err != nil {
		return nil, err
	}
	if len(batch) == 0 {
		return nil, nil
	}
	layout, _, err := w.resolveLayout(batch[0])
	if err != nil {
		return nil, err
	}
	// Validate the whole batch before mutating anything.
	rows := make([][]any, len(batch))
	for i, entityComponents := range batch {
		rowLayout, values, err := w.resolveLayout(entityComponents)
		if err != nil {
			return nil, err
		}
		if !rowLayout.Equals(layout) {
			return nil, eris.Wrapf(ErrLayoutMismatch, "row %d has layout %s, batch has %s", i, rowLayout, layout)
		}
		rows[i] = values
	}
	return w.insertRows(layout, rows)
}

// SoAColumn is one column of a structure-of-arrays insertion: every value of
// one component type for a batch of new entities.
type SoAColumn struct {
	name   string
	values []any
}

// SoA builds a SoAColumn from a slice of component values.
func SoA[T types.Component](values []T) SoAColumn {
	var t T
	col := SoAColumn{name: t.Name(), values: make([]any, len(values))}
	for i := range values {
		col.values[i] = values[i]
	}
	return col
}

// ExtendSoA inserts many entities given as parallel component columns, one
// column per component type. All columns must have the same length; a length
// mismatch rejects the whole batch before anything is inserted. Column-major
// insertion appends whole columns at once instead of interleaving per entity.
func (w *World) ExtendSoA(cols ...SoAColumn) ([]types.EntityID, error) {
	if err := w.checkUsable(); err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return nil, nil
	}
	count := len(cols[0].values)
	metas := make([]types.ComponentMetadata, len(cols))
	byID := make(map[types.ComponentID][]any, len(cols))
	for i, col := range cols {
		if len(col.values) != count {
			return nil, eris.Wrapf(ErrShapeMismatch,
				"column %q has %d values, column %q has %d", cols[0].name, count, col.name, len(col.values))
		}
		ct, err := w.components.GetComponentByName(col.name)
		if err != nil {
			return nil, err
		}
		if _, ok := byID[ct.ID()]; ok {
			return nil, eris.Wrapf(ErrLayoutMismatch, "component %q appears in more than one column", col.name)
		}
		metas[i] = ct
		byID[ct.ID()] = col.values
	}
	layout := types.NewLayout(metas)
	arch, deliveryErr := w.archetypeFor(layout)

	ids, err := w.allocateMany(count)
	if err != nil {
		return nil, appendErr(err, deliveryErr)
	}
	ordered := make([][]any, layout.Len())
	for i, ct := range layout.Components() {
		ordered[i] = byID[ct.ID()]
	}
	firstRow, err := arch.PushBatch(ids, ordered)
	if err != nil {
		return nil, appendErr(err, deliveryErr)
	}
	for i, id := range ids {
		w.locations.Set(id, storage.NewLocation(arch.ID(), firstRow+types.Row(i)))
	}
	for _, id := range ids {
		if err := w.publish(events.Event{
			Kind:   events.EntityInserted,
			Entity: id,
			Arch:   arch.ID(),
			Layout: layout,
		}); err != nil {
			deliveryErr = appendErr(deliveryErr, err)
		}
	}
	return ids, deliveryErr
}

// Remove deletes an entity. It returns false and does nothing if the entity
// is unknown or already removed. A non-nil error only ever reports event
// delivery failure; the removal itself has committed.
func (w *World) Remove(id types.EntityID) (bool, error) {
	if err := w.checkUsable(); err != nil {
		return false, err
	}
	arch, loc, ok := w.mustLocate(id)
	if !ok {
		return false, nil
	}
	w.locations.Remove(id)
	w.removeRow(arch, loc.Row)
	w.universe.allocator.Free(id)
	err := w.publish(events.Event{
		Kind:   events.EntityRemoved,
		Entity: id,
		Arch:   arch.ID(),
		Layout: arch.Layout(),
	})
	return true, err
}

// Entry returns a read/write handle to the entity, or ErrEntityDoesNotExist
// if the id is unknown or removed.
func (w *World) Entry(id types.EntityID) (*Entry, error) {
	if err := w.checkUsable(); err != nil {
		return nil, err
	}
	if !w.locations.Contains(id) {
		return nil, eris.Wrapf(ErrEntityDoesNotExist, "entity %s", id)
	}
	return &Entry{access: worldAccess{w}, id: id}, nil
}

// EntryRO returns a read-only handle to the entity, or ErrEntityDoesNotExist
// if the id is unknown or removed.
func (w *World) EntryRO(id types.EntityID) (*EntryRO, error) {
	if err := w.checkUsable(); err != nil {
		return nil, err
	}
	if !w.locations.Contains(id) {
		return nil, eris.Wrapf(ErrEntityDoesNotExist, "entity %s", id)
	}
	return &EntryRO{access: worldAccess{w}, id: id}, nil
}

// Search returns an iterator over archetypes whose layout matches the
// filter. The matching set is a snapshot: it is restartable via Reset and
// unaffected by archetypes created while iterating.
func (w *World) Search(layoutFilter filter.LayoutFilter) (*storage.ArchetypeIterator, error) {
	if err := w.checkUsable(); err != nil {
		return nil, err
	}
	if layoutFilter == nil {
		layoutFilter = filter.All()
	}
	return w.archetypes.Search(layoutFilter), nil
}

// Archetype returns the archetype with the given id.
func (w *World) Archetype(archID types.ArchetypeID) (*storage.Archetype, error) {
	if err := w.checkUsable(); err != nil {
		return nil, err
	}
	if int(archID) < 0 || int(archID) >= w.archetypes.Count() {
		return nil, eris.Errorf("unknown archetype id %d", archID)
	}
	return w.archetypes.Archetype(archID), nil
}

// Logger returns the world's logger.
func (w *World) Logger() *zerolog.Logger {
	return &w.logger
}

// --- internals ---

func (w *World) checkUsable() error {
	if w.outstandingSplits.Load() > 0 {
		return eris.Wrap(ErrWorldSplit, "release the split views first")
	}
	return nil
}

// resolveLayout maps component values to registered metadata and returns the
// layout plus the values ordered parallel to layout.Components().
func (w *World) resolveLayout(components []types.Component) (types.Layout, []any, error) {
	if len(components) == 0 {
		return types.Layout{}, nil, ErrEntityMustHaveAtLeastOneComponent
	}
	metas := make([]types.ComponentMetadata, len(components))
	byID := make(map[types.ComponentID]any, len(components))
	for i, comp := range components {
		ct, err := w.components.GetComponentByName(comp.Name())
		if err != nil {
			return types.Layout{}, nil, err
		}
		if err := ct.Validate(comp); err != nil {
			return types.Layout{}, nil, err
		}
		if _, ok := byID[ct.ID()]; ok {
			return types.Layout{}, nil, eris.Wrapf(ErrLayoutMismatch, "component %q appears twice on one entity", comp.Name())
		}
		metas[i] = ct
		byID[ct.ID()] = comp
	}
	layout := types.NewLayout(metas)
	values := make([]any, layout.Len())
	for i, ct := range layout.Components() {
		values[i] = byID[ct.ID()]
	}
	return layout, values, nil
}

// archetypeFor finds or creates the archetype for a layout, emitting an
// ArchetypeCreated event on creation. The returned error is only ever an
// event delivery failure.
func (w *World) archetypeFor(layout types.Layout) (*storage.Archetype, error) {
	arch, created := w.archetypes.GetOrCreate(layout)
	if !created {
		return arch, nil
	}
	ecslog.Archetype(&w.logger, zerolog.DebugLevel, arch.ID(), layout)
	err := w.publish(events.Event{
		Kind:   events.ArchetypeCreated,
		Entity: types.BadID,
		Arch:   arch.ID(),
		Layout: layout,
	})
	return arch, err
}

func (w *World) allocateMany(count int) ([]types.EntityID, error) {
	ids := make([]types.EntityID, count)
	for i := range ids {
		id, err := w.universe.allocator.Allocate()
		if err != nil {
			// Return the ids already taken so the failed batch leaks nothing.
			for _, taken := range ids[:i] {
				w.universe.allocator.Free(taken)
			}
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}

func (w *World) insertRows(layout types.Layout, rows [][]any) ([]types.EntityID, error) {
	arch, deliveryErr := w.archetypeFor(layout)
	ids, err := w.allocateMany(len(rows))
	if err != nil {
		return nil, appendErr(err, deliveryErr)
	}
	for i, values := range rows {
		row, err := arch.Push(ids[i], values)
		if err != nil {
			return nil, appendErr(err, deliveryErr)
		}
		w.locations.Set(ids[i], storage.NewLocation(arch.ID(), row))
	}
	for _, id := range ids {
		if err := w.publish(events.Event{
			Kind:   events.EntityInserted,
			Entity: id,
			Arch:   arch.ID(),
			Layout: layout,
		}); err != nil {
			deliveryErr = appendErr(deliveryErr, err)
		}
	}
	return ids, deliveryErr
}

// mustLocate resolves an entity to its archetype and location. A stale row,
// where the archetype's id list disagrees with the location index, means the
// index is corrupted and panics: that is an internal bug, not a caller error.
func (w *World) mustLocate(id types.EntityID) (*storage.Archetype, storage.Location, bool) {
	loc, ok := w.locations.Locate(id)
	if !ok {
		return nil, storage.Location{}, false
	}
	arch := w.archetypes.Archetype(loc.ArchID)
	got, ok := arch.EntityAt(loc.Row)
	if !ok || got != id {
		panic(eris.Errorf(
			"location index corrupted: entity %s points at %s occupied by %s", id, loc, got))
	}
	return arch, loc, true
}

// removeRow swap-removes a row and repairs the location of whichever entity
// was moved into the vacated slot, in the same operation.
func (w *World) removeRow(arch *storage.Archetype, row types.Row) {
	moved, ok := arch.SwapRemove(row)
	if !ok {
		panic(eris.Errorf("location index corrupted: row %d missing from archetype %d", row, arch.ID()))
	}
	if moved != types.BadID {
		w.locations.Set(moved, storage.NewLocation(arch.ID(), row))
	}
}

// moveEntity migrates an entity to the archetype of destLayout, carrying
// every component value it already has and taking newly added values from
// setValues. The location index is repointed in the same operation, so no
// observer ever sees the entity absent from all archetypes.
func (w *World) moveEntity(
	id types.EntityID, destLayout types.Layout, setValues map[types.ComponentID]any,
) error {
	srcArch, loc, ok := w.mustLocate(id)
	if !ok {
		return eris.Wrapf(ErrEntityDoesNotExist, "entity %s", id)
	}
	destArch, deliveryErr := w.archetypeFor(destLayout)

	values := make([]any, destLayout.Len())
	for i, ct := range destLayout.Components() {
		if v, ok := setValues[ct.ID()]; ok {
			values[i] = v
			continue
		}
		v, ok := srcArch.Component(ct.ID(), loc.Row)
		if !ok {
			return eris.Wrapf(ErrComponentNotOnEntity,
				"migration needs component %q which entity %s lacks", ct.Name(), id)
		}
		values[i] = v
	}
	row, err := destArch.Push(id, values)
	if err != nil {
		return err
	}
	w.removeRow(srcArch, loc.Row)
	w.locations.Set(id, storage.NewLocation(destArch.ID(), row))

	if err := w.publish(events.Event{
		Kind:   events.EntityRemoved,
		Entity: id,
		Arch:   srcArch.ID(),
		Layout: srcArch.Layout(),
	}); err != nil {
		deliveryErr = appendErr(deliveryErr, err)
	}
	if err := w.publish(events.Event{
		Kind:   events.EntityInserted,
		Entity: id,
		Arch:   destArch.ID(),
		Layout: destLayout,
	}); err != nil {
		deliveryErr = appendErr(deliveryErr, err)
	}
	return deliveryErr
}

func (w *World) publish(ev events.Event) error {
	return w.notifier.Publish(ev)
}

func appendErr(existing, next error) error {
	if existing == nil {
		return next
	}
	if next == nil {
		return existing
	}
	return errors.Join(existing, next)
}
