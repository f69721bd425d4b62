package strata

import (
	"testing"

	"github.com/strata-engine/strata/assert"
	"github.com/strata-engine/strata/types"
)

func perms(read, write []types.ComponentID) Permissions {
	var p Permissions
	for _, id := range read {
		p.read.Set(id)
	}
	for _, id := range write {
		p.read.Set(id)
		p.write.Set(id)
	}
	return p
}

func TestPermissionsWriteImpliesRead(t *testing.T) {
	p := perms(nil, []types.ComponentID{3})
	assert.True(t, p.CanWrite(3))
	assert.True(t, p.CanRead(3))
	assert.False(t, p.CanRead(4))
}

func TestPermissionsIsCompatible(t *testing.T) {
	// Readers of the same component are compatible.
	a := perms([]types.ComponentID{0}, nil)
	b := perms([]types.ComponentID{0}, nil)
	assert.True(t, a.IsCompatible(b))

	// A writer conflicts with any reader of the same component.
	writer := perms(nil, []types.ComponentID{0})
	assert.False(t, writer.IsCompatible(a))
	assert.False(t, a.IsCompatible(writer))

	// Two writers of disjoint components are compatible.
	other := perms(nil, []types.ComponentID{1})
	assert.True(t, writer.IsCompatible(other))
}

func TestPermissionsContains(t *testing.T) {
	parent := perms([]types.ComponentID{0, 1}, []types.ComponentID{2})
	assert.True(t, parent.Contains(perms([]types.ComponentID{0}, nil)))
	assert.True(t, parent.Contains(perms([]types.ComponentID{2}, []types.ComponentID{2})))
	// Read right does not grant write right.
	assert.False(t, parent.Contains(perms(nil, []types.ComponentID{0})))
	assert.False(t, parent.Contains(perms([]types.ComponentID{5}, nil)))
}

func TestPermissionsComplement(t *testing.T) {
	var universe types.Mask
	for _, id := range []types.ComponentID{0, 1, 2} {
		universe.Set(id)
	}
	p := perms([]types.ComponentID{1}, []types.ComponentID{0})
	c := p.Complement(universe)

	// The written component is out of reach, the read one is read-only, the
	// untouched one is fully available.
	assert.False(t, c.CanRead(0))
	assert.True(t, c.CanRead(1))
	assert.False(t, c.CanWrite(1))
	assert.True(t, c.CanWrite(2))

	assert.True(t, p.IsCompatible(c))
	assert.True(t, c.IsCompatible(p))
}
