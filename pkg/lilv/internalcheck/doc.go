// Package internalcheck holds source policy tests for the lilv packages.
//
// The tests load the library packages with golang.org/x/tools/go/packages and
// inspect their syntax. The package has no exported API and is not intended
// to be imported.
package internalcheck
