// Package testrand provides deterministic randomness sources for tests.
package testrand

import (
	"encoding/binary"
	"io"
	"math/rand/v2"
)

// New returns a reproducible io.Reader seeded from seed.
func New(seed uint64) io.Reader {
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:], seed)
	return rand.NewChaCha8(key)
}

// Zero is an io.Reader that yields only zero bytes, which pins every
// sampled value to the low end of its range.
var Zero io.Reader = zeroReader{}

type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	clear(p)
	return len(p), nil
}

// Failing returns an io.Reader whose every Read fails with err.
func Failing(err error) io.Reader {
	return failingReader{err: err}
}

type failingReader struct{ err error }

func (f failingReader) Read([]byte) (int, error) {
	return 0, f.err
}
