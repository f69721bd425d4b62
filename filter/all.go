package filter

import (
	"github.com/strata-engine/strata/types"
)

type all struct {
}

// All matches every layout.
func All() LayoutFilter {
	return &all{}
}

func (f *all) MatchesLayout(_ types.Layout) bool {
	return true
}
