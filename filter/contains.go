package filter

import (
	"github.com/strata-engine/strata/types"
)

type contains struct {
	components []types.Component
}

// Contains matches layouts that contain all the components specified.
func Contains(components ...ComponentWrapper) LayoutFilter {
	return &contains{components: unwrap(components)}
}

func (f *contains) MatchesLayout(layout types.Layout) bool {
	present := layoutNameSet(layout)
	for _, c := range f.components {
		if !present[c.Name()] {
			return false
		}
	}
	return true
}
