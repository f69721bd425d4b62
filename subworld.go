package strata

import (
	"sync/atomic"

	"github.com/rotisserie/eris"

	"github.com/strata-engine/strata/filter"
	"github.com/strata-engine/strata/storage"
	"github.com/strata-engine/strata/types"
)

// Split partitions the world into two views with disjoint component rights.
// The first view holds exactly the requested rights; the second holds the
// complement: read on everything the request does not write, write on
// everything the request neither reads nor writes. The two views may be
// handed to different goroutines and used in parallel with no locking, since
// their rights cannot overlap.
//
// The world itself is locked while the views exist: every operation on it
// returns ErrWorldSplit until both views have been released. A world can
// hold only one outstanding split at a time.
func (w *World) Split(reqs ...AccessRequest) (requested, complement *SubWorld, err error) {
	if err := w.checkUsable(); err != nil {
		return nil, nil, err
	}
	perms, err := newPermissions(w.components, reqs)
	if err != nil {
		return nil, nil, err
	}
	comp := perms.Complement(w.components.Mask())
	w.outstandingSplits.Store(2)
	w.logger.Debug().
		Int("requested_components", perms.Accessible().Count()).
		Int("complement_components", comp.Accessible().Count()).
		Msg("world split")
	return &SubWorld{world: w, perms: perms}, &SubWorld{world: w, perms: comp}, nil
}

// SubWorld is a partitioned view of a world, carrying the read/write rights
// computed when it was split off. Every access is checked against those
// rights before storage is touched. Structural operations (insert, remove,
// add/remove component) are not available through a partitioned view; they
// require the unsplit world.
type SubWorld struct {
	world  *World
	perms  Permissions
	parent *SubWorld

	released          atomic.Bool
	outstandingSplits atomic.Int32
}

// Permissions returns the rights this view carries.
func (s *SubWorld) Permissions() Permissions {
	return s.perms
}

// Release gives the view's rights back to its parent. After both views of a
// split are released, the parent becomes usable again. Release is
// idempotent; using the view after releasing it returns ErrWorldSplit.
func (s *SubWorld) Release() {
	if s.released.Swap(true) {
		return
	}
	if s.parent != nil {
		s.parent.outstandingSplits.Add(-1)
		return
	}
	s.world.outstandingSplits.Add(-1)
}

// Split further partitions this view. The requested rights must all be held
// by this view, or ErrAccessDenied is returned. The complement is computed
// within this view's rights, so the two children together cover exactly what
// the parent held. The parent view is locked until both children are
// released.
func (s *SubWorld) Split(reqs ...AccessRequest) (requested, complement *SubWorld, err error) {
	if err := s.checkUsable(); err != nil {
		return nil, nil, err
	}
	perms, err := newPermissions(s.world.components, reqs)
	if err != nil {
		return nil, nil, err
	}
	if !s.perms.Contains(perms) {
		return nil, nil, eris.Wrap(ErrAccessDenied, "requested rights exceed this view's permissions")
	}
	comp := Permissions{
		read:  s.perms.read.AndNot(perms.write),
		write: s.perms.write.AndNot(perms.Accessible()),
	}
	s.outstandingSplits.Store(2)
	return &SubWorld{world: s.world, perms: perms, parent: s},
		&SubWorld{world: s.world, perms: comp, parent: s}, nil
}

// Entry returns a read/write handle to the entity. The entity's layout must
// intersect this view's rights.
func (s *SubWorld) Entry(id types.EntityID) (*Entry, error) {
	if err := s.checkEntity(id); err != nil {
		return nil, err
	}
	return &Entry{access: subWorldAccess{s}, id: id}, nil
}

// EntryRO returns a read-only handle to the entity. The entity's layout must
// intersect this view's rights.
func (s *SubWorld) EntryRO(id types.EntityID) (*EntryRO, error) {
	if err := s.checkEntity(id); err != nil {
		return nil, err
	}
	return &EntryRO{access: subWorldAccess{s}, id: id}, nil
}

// Contains returns true if the entity is live and reachable from this view.
func (s *SubWorld) Contains(id types.EntityID) bool {
	return s.checkEntity(id) == nil
}

// Search returns an iterator over archetypes matching the filter, restricted
// to archetypes whose layout intersects this view's rights.
func (s *SubWorld) Search(layoutFilter filter.LayoutFilter) (*storage.ArchetypeIterator, error) {
	if err := s.checkUsable(); err != nil {
		return nil, err
	}
	if layoutFilter == nil {
		layoutFilter = filter.All()
	}
	return s.world.archetypes.SearchMasked(layoutFilter, s.perms.Accessible()), nil
}

// Archetype returns a permission-checked handle to the archetype with the
// given id, provided its layout intersects this view's rights.
func (s *SubWorld) Archetype(archID types.ArchetypeID) (*ArchetypeView, error) {
	if err := s.checkUsable(); err != nil {
		return nil, err
	}
	if int(archID) < 0 || int(archID) >= s.world.archetypes.Count() {
		return nil, eris.Errorf("unknown archetype id %d", archID)
	}
	arch := s.world.archetypes.Archetype(archID)
	if !arch.Layout().Mask().ContainsAny(s.perms.Accessible()) {
		return nil, eris.Wrapf(ErrAccessDenied, "archetype %d is outside this view's permissions", archID)
	}
	return &ArchetypeView{arch: arch, sub: s}, nil
}

// ArchetypeView is an archetype handle carrying the rights of the view it was
// obtained from. Per-component reads and writes are checked against those
// rights; shape accessors pass through unchecked.
type ArchetypeView struct {
	arch *storage.Archetype
	sub  *SubWorld
}

// ID returns the archetype's identifier within its world.
func (v *ArchetypeView) ID() types.ArchetypeID {
	return v.arch.ID()
}

// Layout returns the archetype's component schema.
func (v *ArchetypeView) Layout() types.Layout {
	return v.arch.Layout()
}

// Count returns the number of entities in the archetype.
func (v *ArchetypeView) Count() int {
	return v.arch.Count()
}

// Entities returns the entity ids stored in the archetype, in row order. The
// returned slice is owned by the archetype and must not be mutated.
func (v *ArchetypeView) Entities() []types.EntityID {
	return v.arch.Entities()
}

// EntityAt returns the entity occupying the given row.
func (v *ArchetypeView) EntityAt(row types.Row) (types.EntityID, bool) {
	return v.arch.EntityAt(row)
}

// HasComponent returns true if the archetype's layout includes the component.
func (v *ArchetypeView) HasComponent(cid types.ComponentID) bool {
	return v.arch.HasComponent(cid)
}

// Component returns the component value stored for the given row. The view
// must hold read permission on the component type.
func (v *ArchetypeView) Component(cid types.ComponentID, row types.Row) (any, error) {
	if err := v.sub.checkUsable(); err != nil {
		return nil, err
	}
	if !v.sub.perms.CanRead(cid) {
		return nil, eris.Wrapf(ErrAccessDenied, "no read permission for component id %d", cid)
	}
	value, ok := v.arch.Component(cid, row)
	if !ok {
		return nil, eris.Errorf("archetype %d has no value for component id %d at row %d", v.arch.ID(), cid, row)
	}
	return value, nil
}

// SetComponent overwrites the component value stored for the given row. The
// view must hold write permission on the component type.
func (v *ArchetypeView) SetComponent(cid types.ComponentID, row types.Row, value any) error {
	if err := v.sub.checkUsable(); err != nil {
		return err
	}
	if !v.sub.perms.CanWrite(cid) {
		return eris.Wrapf(ErrAccessDenied, "no write permission for component id %d", cid)
	}
	ct, err := v.sub.world.components.GetComponentByID(cid)
	if err != nil {
		return err
	}
	if err := ct.Validate(value); err != nil {
		return err
	}
	return v.arch.SetComponent(cid, row, value)
}

func (s *SubWorld) checkUsable() error {
	if s.released.Load() {
		return eris.Wrap(ErrWorldSplit, "view has been released")
	}
	if s.outstandingSplits.Load() > 0 {
		return eris.Wrap(ErrWorldSplit, "release this view's split children first")
	}
	return nil
}

func (s *SubWorld) checkEntity(id types.EntityID) error {
	if err := s.checkUsable(); err != nil {
		return err
	}
	arch, _, ok := s.world.mustLocate(id)
	if !ok {
		return eris.Wrapf(ErrEntityDoesNotExist, "entity %s", id)
	}
	if !arch.Layout().Mask().ContainsAny(s.perms.Accessible()) {
		return eris.Wrapf(ErrAccessDenied, "entity %s is outside this view's permissions", id)
	}
	return nil
}

// subWorldAccess checks every component access against the view's
// permissions before touching storage.
type subWorldAccess struct {
	sub *SubWorld
}

func (a subWorldAccess) componentByName(name string) (types.ComponentMetadata, error) {
	return a.sub.world.components.GetComponentByName(name)
}

func (a subWorldAccess) layoutOf(id types.EntityID) (types.Layout, error) {
	if err := a.sub.checkEntity(id); err != nil {
		return types.Layout{}, err
	}
	arch, _, _ := a.sub.world.mustLocate(id)
	return arch.Layout(), nil
}

func (a subWorldAccess) archetypeOf(id types.EntityID) (types.ArchetypeID, error) {
	if err := a.sub.checkEntity(id); err != nil {
		return 0, err
	}
	arch, _, _ := a.sub.world.mustLocate(id)
	return arch.ID(), nil
}

func (a subWorldAccess) getComponent(ct types.ComponentMetadata, id types.EntityID) (types.Component, error) {
	if err := a.sub.checkUsable(); err != nil {
		return nil, err
	}
	if !a.sub.perms.CanRead(ct.ID()) {
		return nil, eris.Wrapf(ErrAccessDenied, "no read permission for %q", ct.Name())
	}
	arch, loc, ok := a.sub.world.mustLocate(id)
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

func (a subWorldAccess) setComponent(ct types.ComponentMetadata, id types.EntityID, value types.Component) error {
	if err := a.sub.checkUsable(); err != nil {
		return err
	}
	if !a.sub.perms.CanWrite(ct.ID()) {
		return eris.Wrapf(ErrAccessDenied, "no write permission for %q", ct.Name())
	}
	if err := ct.Validate(value); err != nil {
		return err
	}
	arch, loc, ok := a.sub.world.mustLocate(id)
	if !ok {
		return eris.Wrapf(ErrEntityDoesNotExist, "entity %s", id)
	}
	if !arch.HasComponent(ct.ID()) {
		return eris.Wrapf(ErrComponentNotOnEntity, "entity %s has no %q", id, ct.Name())
	}
	return arch.SetComponent(ct.ID(), loc.Row, value)
}

func (a subWorldAccess) addComponent(ct types.ComponentMetadata, _ types.EntityID, _ types.Component) error {
	return eris.Wrapf(ErrAccessDenied,
		"cannot add %q through a partitioned view, structural changes need the unsplit world", ct.Name())
}

func (a subWorldAccess) removeComponent(ct types.ComponentMetadata, _ types.EntityID) error {
	return eris.Wrapf(ErrAccessDenied,
		"cannot remove %q through a partitioned view, structural changes need the unsplit world", ct.Name())
}
