// Package filter provides predicates over archetype layouts. Filters are used
// to pick which archetypes an enumeration visits and which structural events
// a subscriber receives.
package filter

import (
	"github.com/strata-engine/strata/types"
)

// LayoutFilter is a predicate over an archetype's layout.
type LayoutFilter interface {
	// MatchesLayout returns true if an archetype with the given layout
	// matches the filter.
	MatchesLayout(layout types.Layout) bool
}

// ComponentWrapper wraps a Component type for filtering purposes.
type ComponentWrapper struct {
	Component types.Component
}

// Component returns a ComponentWrapper for the given component type T.
func Component[T types.Component]() ComponentWrapper {
	var x T
	return ComponentWrapper{
		Component: x,
	}
}
