// Package lilv owns the lifecycle of a lilv world and the well-known URI
// nodes derived from it.
//
// A World wraps exactly one native LilvWorld. Nodes for the identifiers in
// the static table (see Identifier) are created on first use, cached in a
// fixed array for the rest of the world's life, and freed together when the
// world is closed:
//
//	w, err := lilv.NewWorld()
//	if err != nil {
//	    return err
//	}
//	defer w.Close()
//
//	audio, err := w.Node(lilv.AudioPort)
//	if err != nil {
//	    return err
//	}
//
// Callers only ever borrow a *Node. It stays valid until the owning World is
// closed and must not be used afterwards.
//
// # Native library
//
// The default collaborator is liblilv, linked when building with
// `-tags lilv` and cgo enabled. Without it NewWorld fails with an error that
// matches both ErrInitialization and ErrNotBuilt. WithNative substitutes any
// other implementation of the Native contract, such as the in-memory fake in
// package fakelilv.
//
// # Threading
//
// A World performs no internal locking. Callers must not use a World, or its
// Nodes, from more than one goroutine at a time without their own mutual
// exclusion.
package lilv
