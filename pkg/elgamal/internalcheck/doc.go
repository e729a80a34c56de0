// Package internalcheck holds static policy tests over the elgamal packages.
//
// The tests load the library with golang.org/x/tools/go/packages and walk
// the syntax trees looking for patterns the library must not contain. The
// package has no exported API and should not be imported.
package internalcheck
