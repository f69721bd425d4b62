package strata

import (
	"github.com/rotisserie/eris"

	"github.com/strata-engine/strata/types"
)

// componentAccess is the surface an Entry reads and mutates entities
// through. The World implements it with direct storage access; a SubWorld
// implements it with a permission check in front of every call.
type componentAccess interface {
	getComponent(ct types.ComponentMetadata, id types.EntityID) (types.Component, error)
	setComponent(ct types.ComponentMetadata, id types.EntityID, value types.Component) error
	addComponent(ct types.ComponentMetadata, id types.EntityID, value types.Component) error
	removeComponent(ct types.ComponentMetadata, id types.EntityID) error
	layoutOf(id types.EntityID) (types.Layout, error)
	archetypeOf(id types.EntityID) (types.ArchetypeID, error)
	componentByName(name string) (types.ComponentMetadata, error)
}

// ComponentReader is the read side of an entry handle. Both Entry and
// EntryRO satisfy it, so the generic accessors below work on either.
type ComponentReader interface {
	readComponent(name string) (types.Component, error)
	// ID returns the entity this handle addresses.
	ID() types.EntityID
}

// ComponentWriter is the mutating side of an entry handle. Only Entry
// satisfies it; a caller holding an EntryRO cannot request mutation.
type ComponentWriter interface {
	ComponentReader
	writeComponent(name string, value types.Component) error
	attachComponent(name string, value types.Component) error
	detachComponent(name string) error
}

// Entry is a validated read/write handle to one entity. The handle
// revalidates the entity's location on every access, so it stays usable
// across migrations; component pointers returned earlier do not, re-read
// after any structural change.
type Entry struct {
	access componentAccess
	id     types.EntityID
}

// ID returns the entity this entry addresses.
func (e *Entry) ID() types.EntityID {
	return e.id
}

// Layout returns the entity's current component set.
func (e *Entry) Layout() (types.Layout, error) {
	return e.access.layoutOf(e.id)
}

// Archetype returns the id of the archetype currently holding the entity.
func (e *Entry) Archetype() (types.ArchetypeID, error) {
	return e.access.archetypeOf(e.id)
}

func (e *Entry) readComponent(name string) (types.Component, error) {
	ct, err := e.access.componentByName(name)
	if err != nil {
		return nil, err
	}
	return e.access.getComponent(ct, e.id)
}

func (e *Entry) writeComponent(name string, value types.Component) error {
	ct, err := e.access.componentByName(name)
	if err != nil {
		return err
	}
	return e.access.setComponent(ct, e.id, value)
}

func (e *Entry) attachComponent(name string, value types.Component) error {
	ct, err := e.access.componentByName(name)
	if err != nil {
		return err
	}
	return e.access.addComponent(ct, e.id, value)
}

func (e *Entry) detachComponent(name string) error {
	ct, err := e.access.componentByName(name)
	if err != nil {
		return err
	}
	return e.access.removeComponent(ct, e.id)
}

// EntryRO is a validated read-only handle to one entity. It exposes no
// mutating surface at all.
type EntryRO struct {
	access componentAccess
	id     types.EntityID
}

// ID returns the entity this entry addresses.
func (e *EntryRO) ID() types.EntityID {
	return e.id
}

// Layout returns the entity's current component set.
func (e *EntryRO) Layout() (types.Layout, error) {
	return e.access.layoutOf(e.id)
}

// Archetype returns the id of the archetype currently holding the entity.
func (e *EntryRO) Archetype() (types.ArchetypeID, error) {
	return e.access.archetypeOf(e.id)
}

func (e *EntryRO) readComponent(name string) (types.Component, error) {
	ct, err := e.access.componentByName(name)
	if err != nil {
		return nil, err
	}
	return e.access.getComponent(ct, e.id)
}

// GetComponent returns a copy of the entity's T component, or
// ErrComponentNotOnEntity if the entity's current layout lacks T.
func GetComponent[T types.Component](e ComponentReader) (*T, error) {
	var t T
	value, err := e.readComponent(t.Name())
	if err != nil {
		return nil, err
	}
	comp, ok := value.(T)
	if !ok {
		ptr, ok := any(value).(*T)
		if !ok {
			return nil, eris.Errorf("type assertion for component failed: %v to %T", value, t)
		}
		copied := *ptr
		return &copied, nil
	}
	return &comp, nil
}

// SetComponent overwrites the entity's T component value.
func SetComponent[T types.Component](e ComponentWriter, value T) error {
	return e.writeComponent(value.Name(), value)
}

// AddComponent attaches a new T component to the entity, migrating it to the
// extended archetype. Returns ErrComponentAlreadyOnEntity if the entity
// already has T.
func AddComponent[T types.Component](e ComponentWriter, value T) error {
	return e.attachComponent(value.Name(), value)
}

// RemoveComponent detaches the entity's T component, migrating it to the
// shrunken archetype. Returns ErrComponentNotOnEntity if the entity does not
// have T.
func RemoveComponent[T types.Component](e ComponentWriter) error {
	var t T
	return e.detachComponent(t.Name())
}

// worldAccess adapts a World to the componentAccess surface with no
// permission checks: the holder of an unsplit world has every right.
type worldAccess struct {
	world *World
}

func (a worldAccess) componentByName(name string) (types.ComponentMetadata, error) {
	return a.world.components.GetComponentByName(name)
}

func (a worldAccess) layoutOf(id types.EntityID) (types.Layout, error) {
	arch, _, ok := a.world.mustLocate(id)
	if !ok {
		return types.Layout{}, eris.Wrapf(ErrEntityDoesNotExist, "entity %s", id)
	}
	return arch.Layout(), nil
}

func (a worldAccess) archetypeOf(id types.EntityID) (types.ArchetypeID, error) {
	arch, _, ok := a.world.mustLocate(id)
	if !ok {
		return 0, eris.Wrapf(ErrEntityDoesNotExist, "entity %s", id)
	}
	return arch.ID(), nil
}

func (a worldAccess) getComponent(ct types.ComponentMetadata, id types.EntityID) (types.Component, error) {
	if err := a.world.checkUsable(); err != nil {
		return nil, err
	}
	arch, loc, ok := a.world.mustLocate(id)
	if !ok {
		return nil, eris.Wrapf(ErrEntityDoesNotExist, "entity %s", id)
	}
	value, ok := arch.Component(ct.ID(), loc.Row)
	if !ok {
		return nil, eris.Wrapf(ErrComponentNotOnEntity, "entity %s has no %q", id, ct.Name())
	}
	comp, ok := value.(types.Component)
	if !ok {
		return nil, eris.Errorf("stored value for %q is not a component", ct.Name())
	}
	return comp, nil
}

func (a worldAccess) setComponent(ct types.ComponentMetadata, id types.EntityID, value types.Component) error {
	if err := a.world.checkUsable(); err != nil {
		return err
	}
	if err := ct.Validate(value); err != nil {
		return err
	}
	arch, loc, ok := a.world.mustLocate(id)
	if !ok {
		return eris.Wrapf(ErrEntityDoesNotExist, "entity %s", id)
	}
	if !arch.HasComponent(ct.ID()) {
		return eris.Wrapf(ErrComponentNotOnEntity, "entity %s has no %q", id, ct.Name())
	}
	return arch.SetComponent(ct.ID(), loc.Row, value)
}

func (a worldAccess) addComponent(ct types.ComponentMetadata, id types.EntityID, value types.Component) error {
	if err := a.world.checkUsable(); err != nil {
		return err
	}
	if err := ct.Validate(value); err != nil {
		return err
	}
	arch, _, ok := a.world.mustLocate(id)
	if !ok {
		return eris.Wrapf(ErrEntityDoesNotExist, "entity %s", id)
	}
	if arch.HasComponent(ct.ID()) {
		return eris.Wrapf(ErrComponentAlreadyOnEntity, "entity %s already has %q", id, ct.Name())
	}
	destLayout := arch.Layout().With(ct)
	return a.world.moveEntity(id, destLayout, map[types.ComponentID]any{ct.ID(): value})
}

func (a worldAccess) removeComponent(ct types.ComponentMetadata, id types.EntityID) error {
	if err := a.world.checkUsable(); err != nil {
		return err
	}
	arch, _, ok := a.world.mustLocate(id)
	if !ok {
		return eris.Wrapf(ErrEntityDoesNotExist, "entity %s", id)
	}
	if !arch.HasComponent(ct.ID()) {
		return eris.Wrapf(ErrComponentNotOnEntity, "entity %s has no %q", id, ct.Name())
	}
	destLayout := arch.Layout().Without(ct.ID())
	if destLayout.Len() == 0 {
		return eris.Wrapf(ErrEntityMustHaveAtLeastOneComponent, "cannot remove last component %q", ct.Name())
	}
	return a.world.moveEntity(id, destLayout, nil)
}
