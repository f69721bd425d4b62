// Package storage holds the columnar entity storage: archetypes, the
// location index that tracks where each live entity currently sits, and the
// allocator that issues entity IDs for a universe.
package storage

import (
	"github.com/rotisserie/eris"

	"github.com/strata-engine/strata/types"
)

const defaultArchetypeCapacity = 256

// column is one contiguous array of component values. Index = row. A column
// is always exactly as long as its archetype's entity id list.
type column struct {
	metadata types.ComponentMetadata
	values   []any
}

// Archetype stores all entities sharing one layout. Every component type in
// the layout owns one column; row i across every column and the id list
// belongs to the same entity.
type Archetype struct {
	id      types.ArchetypeID
	layout  types.Layout
	ids     []types.EntityID
	columns []column
	// slots maps a ComponentID to its column position, -1 if absent.
	slots [types.MaxComponentTypes]int16
}

// NewArchetype creates an empty archetype for the given layout.
func NewArchetype(id types.ArchetypeID, layout types.Layout, capacity int) *Archetype {
	if capacity <= 0 {
		capacity = defaultArchetypeCapacity
	}
	a := &Archetype{
		id:      id,
		layout:  layout,
		ids:     make([]types.EntityID, 0, capacity),
		columns: make([]column, 0, layout.Len()),
	}
	for i := range a.slots {
		a.slots[i] = -1
	}
	for _, ct := range layout.Components() {
		a.slots[ct.ID()] = int16(len(a.columns))
		a.columns = append(a.columns, column{
			metadata: ct,
			values:   make([]any, 0, capacity),
		})
	}
	return a
}

// ID returns the archetype's identifier within its world.
func (a *Archetype) ID() types.ArchetypeID {
	return a.id
}

// Layout returns the archetype's component schema.
func (a *Archetype) Layout() types.Layout {
	return a.layout
}

// Count returns the number of entities in the archetype.
func (a *Archetype) Count() int {
	return len(a.ids)
}

// Entities returns the entity ids stored in this archetype, in row order.
// The returned slice is owned by the archetype and must not be mutated.
func (a *Archetype) Entities() []types.EntityID {
	return a.ids
}

// EntityAt returns the entity occupying the given row.
func (a *Archetype) EntityAt(row types.Row) (types.EntityID, bool) {
	if int(row) < 0 || int(row) >= len(a.ids) {
		return types.BadID, false
	}
	return a.ids[row], true
}

// HasComponent returns true if the archetype's layout includes the component.
func (a *Archetype) HasComponent(cid types.ComponentID) bool {
	return a.slots[cid] >= 0
}

// Component returns the component value stored for the given row.
func (a *Archetype) Component(cid types.ComponentID, row types.Row) (any, bool) {
	slot := a.slots[cid]
	if slot < 0 || int(row) < 0 || int(row) >= len(a.ids) {
		return nil, false
	}
	return a.columns[slot].values[row], true
}

// SetComponent overwrites the component value stored for the given row.
func (a *Archetype) SetComponent(cid types.ComponentID, row types.Row, value any) error {
	slot := a.slots[cid]
	if slot < 0 {
		return eris.Errorf("archetype %d does not store component id %d", a.id, cid)
	}
	if int(row) < 0 || int(row) >= len(a.ids) {
		return eris.Errorf("row %d out of range for archetype %d of size %d", row, a.id, len(a.ids))
	}
	a.columns[slot].values[row] = value
	return nil
}

// Push appends one entity row. values must be parallel to the layout's
// component list (sorted by ComponentID).
func (a *Archetype) Push(id types.EntityID, values []any) (types.Row, error) {
	if len(values) != len(a.columns) {
		return 0, eris.Errorf("expected %d component values, got %d", len(a.columns), len(values))
	}
	row := types.Row(len(a.ids))
	a.ids = append(a.ids, id)
	for i := range a.columns {
		a.columns[i].values = append(a.columns[i].values, values[i])
	}
	return row, nil
}

// PushBatch appends many entity rows column by column. cols must be parallel
// to the layout's component list and every column must have len(ids) values.
// Lengths are validated by the caller before any mutation happens, so this
// appends unconditionally.
func (a *Archetype) PushBatch(ids []types.EntityID, cols [][]any) (types.Row, error) {
	if len(cols) != len(a.columns) {
		return 0, eris.Errorf("expected %d columns, got %d", len(a.columns), len(cols))
	}
	firstRow := types.Row(len(a.ids))
	a.ids = append(a.ids, ids...)
	for i := range a.columns {
		a.columns[i].values = append(a.columns[i].values, cols[i]...)
	}
	return firstRow, nil
}

// SwapRemove removes the row by moving the last row into its place across
// every column and the id list, then truncating by one. It returns the entity
// that now occupies the vacated row, or BadID if the removed row was the last
// one. The caller must repair the moved entity's location in the same
// operation.
func (a *Archetype) SwapRemove(row types.Row) (moved types.EntityID, ok bool) {
	last := len(a.ids) - 1
	if int(row) < 0 || int(row) > last {
		return types.BadID, false
	}
	moved = types.BadID
	if int(row) < last {
		a.ids[row] = a.ids[last]
		moved = a.ids[row]
	}
	a.ids = a.ids[:last]
	for i := range a.columns {
		vals := a.columns[i].values
		if int(row) < last {
			vals[row] = vals[last]
		}
		vals[last] = nil
		a.columns[i].values = vals[:last]
	}
	return moved, true
}

// Row returns all component values of one row, parallel to the layout's
// component list. Used when migrating an entity to another archetype.
func (a *Archetype) Row(row types.Row) ([]any, bool) {
	if int(row) < 0 || int(row) >= len(a.ids) {
		return nil, false
	}
	values := make([]any, len(a.columns))
	for i := range a.columns {
		values[i] = a.columns[i].values[row]
	}
	return values, true
}
