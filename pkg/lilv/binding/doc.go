// Package binding exposes lilv worlds to callers on the far side of a
// language or sandbox boundary through a small, handle-based surface:
//
//	world_new()                          -> WorldHandle | error
//	world_set_option(world, key, node)   -> error
//	world_get_node(world, index)         -> NodeRef | error
//	world_destroy(world)                 -> error
//
// Host keeps the only strong references to the worlds it creates. Handles are
// plain integers, never reused, and become invalid as soon as the world is
// destroyed; NodeRef values encode the owning world handle, so a ref from a
// destroyed world is rejected with lilv.ErrInvalidHandle. The adapter adds no
// caching or lifecycle rules of its own.
//
// Errors keep their kind across the boundary: CodeOf maps any error returned
// here to a Code, and Code.Err maps it back to the matching lilv sentinel.
//
// # WebAssembly guests
//
// Host.Instantiate registers the same four operations as a wazero host module
// (default name "lilv_world"). Results are i64/i32; non-negative values are
// handles or CodeOK, negative values are Codes.
//
// # Lifetime
//
// A world is released exactly once: by world_destroy, by Host.Close, or by
// the engine cleanup if the Host itself is dropped. Host.Close should be
// called when the external runtime shuts down.
package binding
