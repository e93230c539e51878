package lilv

import "github.com/gramotor/lilv-go/pkg/lilv/internal/backend"

var (
	Version         = "v0.0.0-in-progress"
	UpstreamVersion = "unknown"
)

// WrapperVersion returns the semantic version populated at build time via
// ldflags. In development it defaults to v0.0.0-in-progress.
func WrapperVersion() string {
	return Version
}

// NativeVersion returns the lilv API name reported by the linked bindings, or
// UpstreamVersion when the bindings are not built.
func NativeVersion() string {
	if v := backend.Version(); v != "" {
		return v
	}
	return UpstreamVersion
}

// NativeBuilt reports whether liblilv is linked into this binary.
func NativeBuilt() bool {
	return backend.Built()
}
