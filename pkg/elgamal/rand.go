package elgamal

import (
	"crypto/rand"
	"io"
	"math/big"
)

// Reader returns r, or crypto/rand.Reader when r is nil. Every generation
// call threads its randomness through here so tests can substitute a seeded
// source.
func Reader(r io.Reader) io.Reader {
	if r == nil {
		return rand.Reader
	}
	return r
}

// RandInt returns a uniform integer in the closed range [lo, hi].
func RandInt(r io.Reader, lo, hi *big.Int) (*big.Int, error) {
	if lo.Cmp(hi) > 0 {
		return nil, Errorf("RandInt", ErrInvalidParameter, "empty range [%s, %s]", lo, hi)
	}
	span := new(big.Int).Sub(hi, lo)
	span.Add(span, big.NewInt(1))
	n, err := rand.Int(Reader(r), span)
	if err != nil {
		return nil, WrapIO("RandInt", err)
	}
	return n.Add(n, lo), nil
}

// RandOddBits returns a uniform odd integer with exactly bits bits, that is
// a value in [2^(bits-1), 2^bits) with the low bit set.
func RandOddBits(r io.Reader, bits int) (*big.Int, error) {
	if bits < 2 {
		return nil, Errorf("RandOddBits", ErrInvalidParameter, "bit length %d below 2", bits)
	}
	half := new(big.Int).Lsh(big.NewInt(1), uint(bits-1))
	n, err := rand.Int(Reader(r), half)
	if err != nil {
		return nil, WrapIO("RandOddBits", err)
	}
	n.Add(n, half)
	return n.SetBit(n, 0, 1), nil
}
