package filter

import (
	"github.com/strata-engine/strata/types"
)

type and struct {
	filters []LayoutFilter
}

// And matches layouts that match every given filter.
func And(filters ...LayoutFilter) LayoutFilter {
	return &and{filters: filters}
}

func (f *and) MatchesLayout(layout types.Layout) bool {
	for _, filter := range f.filters {
		if !filter.MatchesLayout(layout) {
			return false
		}
	}
	return true
}
