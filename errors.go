package strata

import (
	"github.com/rotisserie/eris"
)

var (
	// ErrEntityDoesNotExist is returned when an operation addresses an
	// entity id that was never issued or has been removed.
	ErrEntityDoesNotExist = eris.New("entity does not exist")
	// ErrComponentNotOnEntity is returned when an entity's current layout
	// lacks the requested component type.
	ErrComponentNotOnEntity = eris.New("component not on entity")
	// ErrComponentAlreadyOnEntity is returned when adding a component the
	// entity already has.
	ErrComponentAlreadyOnEntity = eris.New("component already on entity")
	// ErrShapeMismatch is returned when column-major insertion receives
	// columns of unequal length. Nothing is inserted.
	ErrShapeMismatch = eris.New("soa columns have mismatched lengths")
	// ErrLayoutMismatch is returned when a row-major batch mixes entity
	// layouts. Nothing is inserted.
	ErrLayoutMismatch = eris.New("batch rows do not share one layout")
	// ErrAccessDenied is returned when a partitioned view is used outside
	// its granted read/write component set. Storage is untouched.
	ErrAccessDenied = eris.New("access outside granted permissions")
	// ErrWorldSplit is returned when a world or partition is used while a
	// split of it is outstanding, or when a released partition is used.
	ErrWorldSplit = eris.New("world is locked by an outstanding split")
	// ErrMergeConflict is returned when a merge aborts: an id collision the
	// policy rejects, an unresolvable entity conflict, or a component
	// registration mismatch between the two worlds. Entities already moved
	// stay moved.
	ErrMergeConflict = eris.New("merge conflict")
)
