package primroot

import (
	"context"
	"io"
	"iter"
	"math/big"

	"github.com/hsiuhsiu/elgamal-go/internal/modarith"
	"github.com/hsiuhsiu/elgamal-go/pkg/elgamal"
)

// IsPrimitiveRoot reports whether g generates the multiplicative group modulo
// the prime p, given the distinct prime factors of p-1.
func IsPrimitiveRoot(g, p *big.Int, factors []*big.Int) bool {
	if g == nil || p == nil || p.Cmp(big.NewInt(3)) < 0 {
		return false
	}
	if !modarith.Between(big.NewInt(0), g, p) {
		return false
	}
	pMinusOne := modarith.MinusOne(p)
	var e big.Int
	for _, q := range factors {
		e.Quo(pMinusOne, q)
		if modarith.IsOne(modarith.Exp(g, &e, p)) {
			return false
		}
	}
	return len(factors) > 0
}

// IsPrimitiveRootRestricted is the legacy check: g^((p-1)/2) != 1 and
// g^2 != 1 modulo p. It equals IsPrimitiveRoot only when p is a safe prime.
func IsPrimitiveRootRestricted(g, p *big.Int) bool {
	if modarith.IsZero(g) || modarith.IsZero(p) || p.Cmp(big.NewInt(3)) < 0 {
		return false
	}
	pMinusOne := modarith.MinusOne(p)
	half := new(big.Int).Rsh(pMinusOne, 1)
	if modarith.IsOne(modarith.Exp(g, half, p)) {
		return false
	}
	// (p-1) / ((p-1)/2) is 2 for odd p.
	e := new(big.Int).Quo(pMinusOne, half)
	return !modarith.IsOne(modarith.Exp(g, e, p))
}

// Check factors p-1 and runs the full primitive root test on g.
func Check(ctx context.Context, r io.Reader, g, p *big.Int, opts ...Option) (bool, error) {
	factors, err := factorsOf(ctx, r, p, opts)
	if err != nil {
		return false, err
	}
	return IsPrimitiveRoot(g, p, factors), nil
}

// Find returns a random primitive root of the prime p, drawing candidates
// uniformly from [2, p-1].
func Find(ctx context.Context, r io.Reader, p *big.Int, opts ...Option) (*big.Int, error) {
	const op = "Find"
	if p == nil || p.Cmp(big.NewInt(3)) < 0 {
		return nil, elgamal.Errorf(op, elgamal.ErrInvalidParameter, "modulus %v below 3", p)
	}
	o := newOptions(opts)
	factors, err := factorsOf(ctx, r, p, opts)
	if err != nil {
		return nil, err
	}

	low, high := big.NewInt(2), modarith.MinusOne(p)
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, &elgamal.Error{Op: op, Err: err}
		}
		if o.maxAttempts > 0 && attempt > o.maxAttempts {
			o.logger.Warn(ctx, "primitive root search stopped", "attempts", attempt-1)
			return nil, elgamal.Errorf(op, elgamal.ErrMaxAttempts, "no generator after %d candidates", o.maxAttempts)
		}
		g, err := elgamal.RandInt(r, low, high)
		if err != nil {
			return nil, err
		}
		if IsPrimitiveRoot(g, p, factors) {
			o.logger.Debug(ctx, "primitive root found", "attempts", attempt)
			return g, nil
		}
	}
}

// Smallest returns the least primitive root of the prime p.
func Smallest(ctx context.Context, r io.Reader, p *big.Int, opts ...Option) (*big.Int, error) {
	const op = "Smallest"
	if p == nil || p.Cmp(big.NewInt(3)) < 0 {
		return nil, elgamal.Errorf(op, elgamal.ErrInvalidParameter, "modulus %v below 3", p)
	}
	factors, err := factorsOf(ctx, r, p, opts)
	if err != nil {
		return nil, err
	}
	for g := range All(p, factors) {
		return g, nil
	}
	return nil, elgamal.Errorf(op, elgamal.ErrInvalidParameter, "%s has no primitive root", p)
}

// All yields every primitive root of the prime p in ascending order. The
// sequence is lazy; stop ranging once enough roots have been seen.
func All(p *big.Int, factors []*big.Int) iter.Seq[*big.Int] {
	return func(yield func(*big.Int) bool) {
		if p == nil || p.Cmp(big.NewInt(3)) < 0 {
			return
		}
		for g := big.NewInt(2); g.Cmp(p) < 0; g.Add(g, big.NewInt(1)) {
			if IsPrimitiveRoot(g, p, factors) && !yield(new(big.Int).Set(g)) {
				return
			}
		}
	}
}

func factorsOf(ctx context.Context, r io.Reader, p *big.Int, opts []Option) ([]*big.Int, error) {
	o := newOptions(opts)
	if o.factors != nil {
		return o.factors, nil
	}
	if p == nil || p.Cmp(big.NewInt(3)) < 0 {
		return nil, elgamal.Errorf("factorsOf", elgamal.ErrInvalidParameter, "modulus %v below 3", p)
	}
	return DistinctPrimeFactors(ctx, r, modarith.MinusOne(p), opts...)
}

// SafePrimeFactors returns {2, (p-1)/2}, the distinct prime factors of p-1
// for a safe prime p. The caller vouches that p is safe.
func SafePrimeFactors(p *big.Int) []*big.Int {
	q := new(big.Int).Rsh(p, 1)
	if q.Cmp(big.NewInt(2)) == 0 {
		return []*big.Int{big.NewInt(2)}
	}
	return []*big.Int{big.NewInt(2), q}
}
