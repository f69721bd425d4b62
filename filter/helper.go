package filter

import (
	"github.com/strata-engine/strata/types"
)

func unwrap(wrappers []ComponentWrapper) []types.Component {
	acc := make([]types.Component, 0, len(wrappers))
	for _, wrapper := range wrappers {
		acc = append(acc, wrapper.Component)
	}
	return acc
}

// layoutNameSet collects the component names of a layout for membership tests.
// Components are the same if they have the same Name.
func layoutNameSet(layout types.Layout) map[string]bool {
	present := make(map[string]bool, layout.Len())
	for _, ct := range layout.Components() {
		present[ct.Name()] = true
	}
	return present
}
