// Package keystore persists key bundles as two plain-text files: a private
// file holding x and a public file holding p, g and y, one decimal value per
// line. The session key k is never written.
//
// Loading does not validate the values; pass the result through
// keys.Configure (with keys.WithStrict to refuse repairs) before use.
package keystore
