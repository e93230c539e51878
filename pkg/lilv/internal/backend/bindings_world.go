//go:build cgo && lilv

package backend

/*
#cgo pkg-config: lilv-0
#include <stdlib.h>
#include <lilv/lilv.h>
*/
import "C"

import "unsafe"

// Built reports whether the native bindings are linked in.
func Built() bool { return true }

// Version names the lilv API the bindings were compiled against. lilv does not
// export a runtime version query.
func Version() string { return "lilv-0" }

// NewWorld calls lilv_world_new. A nil pointer with a nil error means the
// library itself refused to build a world.
func NewWorld() (unsafe.Pointer, error) {
	return unsafe.Pointer(C.lilv_world_new()), nil
}

// FreeWorld calls lilv_world_free. Every node created from the world must be
// freed first.
func FreeWorld(world unsafe.Pointer) error {
	if world == nil {
		return nil
	}
	C.lilv_world_free((*C.LilvWorld)(world))
	return nil
}

// LoadAll calls lilv_world_load_all, scanning LV2_PATH for bundles.
func LoadAll(world unsafe.Pointer) {
	if world == nil {
		return
	}
	C.lilv_world_load_all((*C.LilvWorld)(world))
}

// LoadBundle calls lilv_world_load_bundle with a URI node naming the bundle.
func LoadBundle(world, bundle unsafe.Pointer) {
	if world == nil || bundle == nil {
		return
	}
	C.lilv_world_load_bundle((*C.LilvWorld)(world), (*C.LilvNode)(bundle))
}

// NewURI calls lilv_new_uri and returns nil when lilv rejects the URI.
func NewURI(world unsafe.Pointer, uri string) unsafe.Pointer {
	if world == nil {
		return nil
	}
	curi := C.CString(uri)
	defer C.free(unsafe.Pointer(curi))
	return unsafe.Pointer(C.lilv_new_uri((*C.LilvWorld)(world), curi))
}

// FreeNode calls lilv_node_free.
func FreeNode(node unsafe.Pointer) error {
	if node == nil {
		return nil
	}
	C.lilv_node_free((*C.LilvNode)(node))
	return nil
}

// SetOption calls lilv_world_set_option.
func SetOption(world unsafe.Pointer, key string, value unsafe.Pointer) {
	if world == nil || value == nil {
		return
	}
	ckey := C.CString(key)
	defer C.free(unsafe.Pointer(ckey))
	C.lilv_world_set_option((*C.LilvWorld)(world), ckey, (*C.LilvNode)(value))
}

// PluginCount returns the size of the world's plugin collection.
func PluginCount(world unsafe.Pointer) int {
	if world == nil {
		return 0
	}
	plugins := C.lilv_world_get_all_plugins((*C.LilvWorld)(world))
	return int(C.lilv_plugins_size(plugins))
}
