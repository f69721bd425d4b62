package strata

import (
	"github.com/strata-engine/strata/component"
	"github.com/strata-engine/strata/types"
)

// AccessRequest names one component type and the right requested over it.
// Build them with Read and Write and pass them to Split.
type AccessRequest struct {
	component types.Component
	write     bool
}

// Read requests read access to component type T.
func Read[T types.Component]() AccessRequest {
	var t T
	return AccessRequest{component: t}
}

// Write requests write access to component type T. Write implies read.
func Write[T types.Component]() AccessRequest {
	var t T
	return AccessRequest{component: t, write: true}
}

// Permissions is a pair of component-type sets: what a partitioned view may
// read and what it may write. The write set is always a subset of the read
// set. Permissions are computed once at split time and carried by the
// partition handle; every later access is a mask membership test.
type Permissions struct {
	read  types.Mask
	write types.Mask
}

func newPermissions(manager *component.Manager, reqs []AccessRequest) (Permissions, error) {
	var p Permissions
	for _, req := range reqs {
		ct, err := manager.GetComponentByName(req.component.Name())
		if err != nil {
			return Permissions{}, err
		}
		p.read.Set(ct.ID())
		if req.write {
			p.write.Set(ct.ID())
		}
	}
	return p, nil
}

// CanRead returns true if the component type may be read.
func (p Permissions) CanRead(cid types.ComponentID) bool {
	return p.read.Has(cid)
}

// CanWrite returns true if the component type may be written.
func (p Permissions) CanWrite(cid types.ComponentID) bool {
	return p.write.Has(cid)
}

// ReadMask returns the readable component set.
func (p Permissions) ReadMask() types.Mask {
	return p.read
}

// WriteMask returns the writable component set.
func (p Permissions) WriteMask() types.Mask {
	return p.write
}

// Accessible returns the union of the read and write sets. A partition may
// only enumerate archetypes whose layout intersects this mask.
func (p Permissions) Accessible() types.Mask {
	return p.read.Or(p.write)
}

// IsCompatible returns true if two permission sets can be used concurrently:
// neither side's write set touches anything the other reads or writes.
func (p Permissions) IsCompatible(other Permissions) bool {
	if p.write.ContainsAny(other.Accessible()) {
		return false
	}
	if other.write.ContainsAny(p.Accessible()) {
		return false
	}
	return true
}

// Contains returns true if every right in sub is also granted by p.
func (p Permissions) Contains(sub Permissions) bool {
	return p.read.ContainsAll(sub.read) && p.write.ContainsAll(sub.write)
}

// Complement computes the permissions left over for the other side of a
// split of the given component universe: read everything p does not write,
// write everything p neither reads nor writes. The result is compatible with
// p by construction.
func (p Permissions) Complement(universe types.Mask) Permissions {
	return Permissions{
		read:  universe.AndNot(p.write),
		write: universe.AndNot(p.read.Or(p.write)),
	}
}
