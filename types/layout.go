package types

import (
	"bytes"
	"sort"
)

// Layout is the schema of an archetype: the set of component types its
// entities carry. Layouts are value-immutable once built; the component slice
// is kept sorted by ComponentID so equal sets always compare equal.
type Layout struct {
	components []ComponentMetadata
	mask       Mask
}

// NewLayout creates a Layout from the given component types. Duplicate types
// are collapsed.
func NewLayout(components []ComponentMetadata) Layout {
	l := Layout{components: make([]ComponentMetadata, 0, len(components))}
	for _, ct := range components {
		if l.mask.Has(ct.ID()) {
			continue
		}
		l.mask.Set(ct.ID())
		l.components = append(l.components, ct)
	}
	sort.Slice(l.components, func(i, j int) bool {
		return l.components[i].ID() < l.components[j].ID()
	})
	return l
}

// Components returns the component types of the layout, sorted by ID.
func (l Layout) Components() []ComponentMetadata {
	return l.components
}

// Mask returns the component set as a bitmask.
func (l Layout) Mask() Mask {
	return l.mask
}

// HasComponent returns true if the layout contains the given component type.
func (l Layout) HasComponent(id ComponentID) bool {
	return l.mask.Has(id)
}

// Equals returns true if both layouts contain exactly the same component set.
func (l Layout) Equals(other Layout) bool {
	return l.mask == other.mask
}

// Len returns the number of component types in the layout.
func (l Layout) Len() int {
	return len(l.components)
}

// With returns a copy of the layout extended with the given component type.
func (l Layout) With(ct ComponentMetadata) Layout {
	comps := make([]ComponentMetadata, len(l.components), len(l.components)+1)
	copy(comps, l.components)
	return NewLayout(append(comps, ct))
}

// Without returns a copy of the layout with the given component type removed.
func (l Layout) Without(id ComponentID) Layout {
	comps := make([]ComponentMetadata, 0, len(l.components))
	for _, ct := range l.components {
		if ct.ID() == id {
			continue
		}
		comps = append(comps, ct)
	}
	return NewLayout(comps)
}

func (l Layout) String() string {
	var out bytes.Buffer
	out.WriteString("Layout{")
	for i, ct := range l.components {
		if i != 0 {
			out.WriteString(", ")
		}
		out.WriteString(ct.Name())
	}
	out.WriteString("}")
	return out.String()
}
