package lilv

import (
	"unsafe"

	"github.com/gramotor/lilv-go/pkg/lilv/internal/backend"
)

// Native is the subset of the lilv C API a World consumes. Pointers are opaque
// to this package; a nil pointer is the failure sentinel the C API uses.
//
// Implementations need not be safe for concurrent use on the same world.
type Native interface {
	// NewWorld creates a native world. A nil pointer with a nil error means
	// the library refused; a non-nil error explains why no attempt was made.
	NewWorld() (unsafe.Pointer, error)
	// FreeWorld destroys a world. All of its nodes are freed beforehand.
	FreeWorld(world unsafe.Pointer) error
	// NewURI materializes a URI node, returning nil on failure.
	NewURI(world unsafe.Pointer, uri string) unsafe.Pointer
	// FreeNode destroys a node created by NewURI.
	FreeNode(node unsafe.Pointer) error
	// SetOption forwards a world option.
	SetOption(world unsafe.Pointer, key string, value unsafe.Pointer)
	// LoadAll loads every bundle on the LV2 search path.
	LoadAll(world unsafe.Pointer)
	// LoadBundle loads one bundle named by a URI node.
	LoadBundle(world, bundle unsafe.Pointer)
	// PluginCount returns the number of plugins the world knows of.
	PluginCount(world unsafe.Pointer) int
}

// DefaultNative returns the cgo-backed lilv implementation. In builds without
// the native bindings every world construction fails with ErrNotBuilt.
func DefaultNative() Native {
	return nativeLilv{}
}

type nativeLilv struct{}

func (nativeLilv) NewWorld() (unsafe.Pointer, error) {
	ptr, err := backend.NewWorld()
	return ptr, remapError(err)
}

func (nativeLilv) FreeWorld(world unsafe.Pointer) error {
	return remapError(backend.FreeWorld(world))
}

func (nativeLilv) NewURI(world unsafe.Pointer, uri string) unsafe.Pointer {
	return backend.NewURI(world, uri)
}

func (nativeLilv) FreeNode(node unsafe.Pointer) error {
	return remapError(backend.FreeNode(node))
}

func (nativeLilv) SetOption(world unsafe.Pointer, key string, value unsafe.Pointer) {
	backend.SetOption(world, key, value)
}

func (nativeLilv) LoadAll(world unsafe.Pointer) {
	backend.LoadAll(world)
}

func (nativeLilv) LoadBundle(world, bundle unsafe.Pointer) {
	backend.LoadBundle(world, bundle)
}

func (nativeLilv) PluginCount(world unsafe.Pointer) int {
	return backend.PluginCount(world)
}
