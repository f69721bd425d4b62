package types

import (
	"math/bits"
)

// Mask is a 256-bit set over ComponentIDs.
type Mask [4]uint64

// Set sets the bit for the given component.
func (m *Mask) Set(id ComponentID) {
	m[id/64] |= 1 << (id % 64)
}

// Clear clears the bit for the given component.
func (m *Mask) Clear(id ComponentID) {
	m[id/64] &^= 1 << (id % 64)
}

// Has returns true if the bit for the given component is set.
func (m Mask) Has(id ComponentID) bool {
	return m[id/64]&(1<<(id%64)) != 0
}

// ContainsAll returns true if all bits set in other are also set in m.
func (m Mask) ContainsAll(other Mask) bool {
	return (m[0]&other[0] == other[0]) &&
		(m[1]&other[1] == other[1]) &&
		(m[2]&other[2] == other[2]) &&
		(m[3]&other[3] == other[3])
}

// ContainsAny returns true if any bit set in other is also set in m.
func (m Mask) ContainsAny(other Mask) bool {
	return (m[0]&other[0] != 0) ||
		(m[1]&other[1] != 0) ||
		(m[2]&other[2] != 0) ||
		(m[3]&other[3] != 0)
}

// IsZero returns true if no bits are set.
func (m Mask) IsZero() bool {
	return m[0] == 0 && m[1] == 0 && m[2] == 0 && m[3] == 0
}

// Or returns the union of m and other.
func (m Mask) Or(other Mask) Mask {
	return Mask{m[0] | other[0], m[1] | other[1], m[2] | other[2], m[3] | other[3]}
}

// And returns the intersection of m and other.
func (m Mask) And(other Mask) Mask {
	return Mask{m[0] & other[0], m[1] & other[1], m[2] & other[2], m[3] & other[3]}
}

// AndNot returns the bits of m that are not set in other.
func (m Mask) AndNot(other Mask) Mask {
	return Mask{m[0] &^ other[0], m[1] &^ other[1], m[2] &^ other[2], m[3] &^ other[3]}
}

// Count returns the number of bits set.
func (m Mask) Count() int {
	return bits.OnesCount64(m[0]) + bits.OnesCount64(m[1]) +
		bits.OnesCount64(m[2]) + bits.OnesCount64(m[3])
}
