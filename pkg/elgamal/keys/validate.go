package keys

import (
	"context"
	"io"
	"math/big"

	"github.com/hsiuhsiu/elgamal-go/internal/modarith"
	"github.com/hsiuhsiu/elgamal-go/pkg/elgamal/primroot"
)

// minModulus is the largest value p must exceed so every byte is a residue.
var minModulus = big.NewInt(256)

// ValidP reports whether p > 256. Primality is checked separately by
// Configure because it needs a randomness source.
func ValidP(p *big.Int) bool {
	return p != nil && p.Cmp(minModulus) > 0
}

// ValidG reports whether g and p are nonzero and g passes the restricted
// primitive root check. The check is exact only for safe primes; Configure
// additionally runs the full check before accepting a supplied g.
func ValidG(g, p *big.Int) bool {
	if modarith.IsZero(g) || modarith.IsZero(p) {
		return false
	}
	return primroot.IsPrimitiveRootRestricted(g, p)
}

// ValidGenerator runs the full primitive root check, factoring p-1 when
// needed. It is the check Configure applies to a supplied g.
func ValidGenerator(ctx context.Context, r io.Reader, g, p *big.Int) (bool, error) {
	if !ValidG(g, p) {
		return false, nil
	}
	return primroot.Check(ctx, r, g, p)
}

// ValidY reports whether y == g^x mod p.
func ValidY(y, p, g, x *big.Int) bool {
	if y == nil || g == nil || x == nil || p == nil || p.Sign() <= 0 {
		return false
	}
	return y.Cmp(modarith.Exp(g, x, p)) == 0
}

// ValidX reports whether 2 < x < p-1.
func ValidX(x, p *big.Int) bool {
	if x == nil || p == nil {
		return false
	}
	return modarith.Between(big.NewInt(2), x, modarith.MinusOne(p))
}

// ValidK reports whether 1 < k < p and gcd(k, p) == 1.
func ValidK(k, p *big.Int) bool {
	if k == nil || p == nil {
		return false
	}
	return modarith.Between(big.NewInt(1), k, p) && modarith.Coprime(k, p)
}
