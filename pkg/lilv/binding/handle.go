package binding

import "github.com/gramotor/lilv-go/pkg/lilv"

// WorldHandle names a world registered with a Host. Zero is never issued.
type WorldHandle uint64

// NodeRef names a cached node: the owning world handle in the high bits and
// the identifier index in the low nodeIndexBits.
type NodeRef uint64

const nodeIndexBits = 8

// Fails to compile if the identifier table outgrows the index bits.
var _ [1<<nodeIndexBits - lilv.NumIdentifiers]struct{}

func makeNodeRef(world WorldHandle, id lilv.Identifier) NodeRef {
	return NodeRef(uint64(world)<<nodeIndexBits | uint64(id))
}

// World returns the handle of the world that owns the node.
func (r NodeRef) World() WorldHandle {
	return WorldHandle(uint64(r) >> nodeIndexBits)
}

// Identifier returns the identifier index encoded in r.
func (r NodeRef) Identifier() lilv.Identifier {
	return lilv.Identifier(uint64(r) & (1<<nodeIndexBits - 1))
}

func shardHandle(h WorldHandle) uint32 {
	return uint32(h) ^ uint32(h>>32)
}
