// Package modarith holds the small big.Int helpers shared by the prime,
// primitive root and cipher packages.
package modarith

import "math/big"

var (
	one = big.NewInt(1)
	two = big.NewInt(2)
)

// Exp returns base^exp mod m as a new value.
func Exp(base, exp, m *big.Int) *big.Int {
	return new(big.Int).Exp(base, exp, m)
}

// MulMod returns a*b mod m as a new value.
func MulMod(a, b, m *big.Int) *big.Int {
	r := new(big.Int).Mul(a, b)
	return r.Mod(r, m)
}

// GCD returns gcd(a, b) as a new value.
func GCD(a, b *big.Int) *big.Int {
	return new(big.Int).GCD(nil, nil, a, b)
}

// Coprime reports whether gcd(a, b) == 1.
func Coprime(a, b *big.Int) bool {
	return GCD(a, b).Cmp(one) == 0
}

// IsZero reports whether n is nil or zero.
func IsZero(n *big.Int) bool {
	return n == nil || n.Sign() == 0
}

// IsOne reports whether n == 1.
func IsOne(n *big.Int) bool {
	return n != nil && n.Cmp(one) == 0
}

// MinusOne returns n-1 as a new value.
func MinusOne(n *big.Int) *big.Int {
	return new(big.Int).Sub(n, one)
}

// MinusTwo returns n-2 as a new value.
func MinusTwo(n *big.Int) *big.Int {
	return new(big.Int).Sub(n, two)
}

// Between reports whether lo < n < hi.
func Between(lo, n, hi *big.Int) bool {
	return n.Cmp(lo) > 0 && n.Cmp(hi) < 0
}

// Decompose writes n-1 as 2^t * s with s odd and returns s and t. n must be
// odd and greater than 2.
func Decompose(n *big.Int) (s *big.Int, t int) {
	s = MinusOne(n)
	t = int(s.TrailingZeroBits())
	s.Rsh(s, uint(t))
	return s, t
}
