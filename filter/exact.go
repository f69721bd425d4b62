package filter

import (
	"github.com/strata-engine/strata/types"
)

type exact struct {
	components []types.Component
}

// Exact matches layouts that contain exactly the components specified.
func Exact(components ...ComponentWrapper) LayoutFilter {
	return exact{components: unwrap(components)}
}

func (f exact) MatchesLayout(layout types.Layout) bool {
	if layout.Len() != len(f.components) {
		return false
	}
	present := layoutNameSet(layout)
	for _, c := range f.components {
		if !present[c.Name()] {
			return false
		}
	}
	return true
}
