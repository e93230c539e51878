// Package backend hosts the thin cgo layer that links the Go API to the
// native lilv library. The real implementation lives behind the `cgo` and
// `lilv` build tags so that the rest of the repository compiles, and its tests
// run, on machines without liblilv installed.
//
// Build with `-tags lilv` (and CGO_ENABLED=1) to link against lilv-0 through
// pkg-config.
//
// Pointers returned by this package are owned by the caller and must be
// released with the matching Free function. Nothing here keeps state.
package backend
