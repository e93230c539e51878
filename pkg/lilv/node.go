package lilv

import (
	"runtime"
	"unsafe"
)

// Node is a borrowed reference to one well-known URI node. It is owned by the
// World that produced it and is never freed individually. A reachable Node
// keeps its World reachable, so the native node is only released by Close or
// once neither is referenced any more.
type Node struct {
	owner *World
	id    Identifier
}

// Identifier returns the table entry this node was materialized from.
func (n *Node) Identifier() Identifier {
	return n.id
}

// URI returns the node's URI.
func (n *Node) URI() string {
	return n.id.URI()
}

func (n *Node) String() string {
	return n.id.String()
}

// Valid reports whether the owning world is still alive.
func (n *Node) Valid() bool {
	return n != nil && n.owner.owns(n)
}

// Ptr returns the native node pointer, or ErrInvalidHandle once the owning
// world has been closed. The pointer stays valid only while n is reachable;
// keep n alive (runtime.KeepAlive) across native calls that use it.
func (n *Node) Ptr() (unsafe.Pointer, error) {
	if !n.Valid() {
		return nil, newError("node_ptr", ErrInvalidHandle, "node is not alive")
	}
	ptr := n.owner.s.nodes[n.id]
	runtime.KeepAlive(n)
	return ptr, nil
}
