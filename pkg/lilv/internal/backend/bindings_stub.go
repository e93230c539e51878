//go:build !cgo || !lilv

package backend

import "unsafe"

// Stub implementations for builds without cgo or without the lilv tag.
// They allow the package to compile but report ErrNotBuilt where a caller
// could tell the difference.

func Built() bool { return false }

func Version() string { return "" }

func NewWorld() (unsafe.Pointer, error) {
	return nil, ErrNotBuilt
}

func FreeWorld(unsafe.Pointer) error { return ErrNotBuilt }

func LoadAll(unsafe.Pointer) {}

func LoadBundle(unsafe.Pointer, unsafe.Pointer) {}

func NewURI(unsafe.Pointer, string) unsafe.Pointer { return nil }

func FreeNode(unsafe.Pointer) error { return ErrNotBuilt }

func SetOption(unsafe.Pointer, string, unsafe.Pointer) {}

func PluginCount(unsafe.Pointer) int { return 0 }
