package filter

import (
	"github.com/strata-engine/strata/types"
)

type not struct {
	filter LayoutFilter
}

// Not matches layouts that do not match the given filter.
func Not(filter LayoutFilter) LayoutFilter {
	return &not{filter: filter}
}

func (f *not) MatchesLayout(layout types.Layout) bool {
	return !f.filter.MatchesLayout(layout)
}
