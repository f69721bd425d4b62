package filter

import (
	"github.com/strata-engine/strata/types"
)

type or struct {
	filters []LayoutFilter
}

// Or matches layouts that match at least one of the given filters.
func Or(filters ...LayoutFilter) LayoutFilter {
	return &or{filters: filters}
}

func (f *or) MatchesLayout(layout types.Layout) bool {
	for _, filter := range f.filters {
		if filter.MatchesLayout(layout) {
			return true
		}
	}
	return false
}
