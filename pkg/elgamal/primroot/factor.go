package primroot

import (
	"context"
	"io"
	"math/big"
	"slices"

	"github.com/hsiuhsiu/elgamal-go/internal/modarith"
	"github.com/hsiuhsiu/elgamal-go/pkg/elgamal"
	"github.com/hsiuhsiu/elgamal-go/pkg/elgamal/prime"
)

// DistinctPrimeFactors returns the distinct prime factors of n in ascending
// order. Factors below prime.SmallPrimeLimit are found by trial division; the
// remaining cofactor is split with Pollard's rho. A cofactor that cannot be
// split within the step budget fails with ErrFactorization.
func DistinctPrimeFactors(ctx context.Context, r io.Reader, n *big.Int, opts ...Option) ([]*big.Int, error) {
	const op = "DistinctPrimeFactors"
	if n == nil || n.Cmp(big.NewInt(2)) < 0 {
		return nil, elgamal.Errorf(op, elgamal.ErrInvalidParameter, "cannot factor %v", n)
	}
	o := newOptions(opts)

	var factors []*big.Int
	m := new(big.Int).Set(n)
	var q, rem big.Int
	for _, sp := range prime.SmallPrimes() {
		if modarith.IsOne(m) {
			break
		}
		p := big.NewInt(sp)
		if q.QuoRem(m, p, &rem); rem.Sign() != 0 {
			continue
		}
		factors = append(factors, p)
		for {
			q.QuoRem(m, p, &rem)
			if rem.Sign() != 0 {
				break
			}
			m.Set(&q)
		}
	}

	pending := []*big.Int{}
	if !modarith.IsOne(m) {
		pending = append(pending, m)
	}
	for len(pending) > 0 {
		c := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		if prime.IsProbablePrime(r, c) {
			factors = append(factors, c)
			continue
		}
		d, err := pollardRho(ctx, r, c, o)
		if err != nil {
			o.logger.Warn(ctx, "factorization failed", "bits", c.BitLen(), "error", err)
			return nil, err
		}
		pending = append(pending, d, new(big.Int).Quo(c, d))
	}

	slices.SortFunc(factors, func(a, b *big.Int) int { return a.Cmp(b) })
	return slices.CompactFunc(factors, func(a, b *big.Int) bool { return a.Cmp(b) == 0 }), nil
}

// rhoBatch is how many differences are multiplied together per GCD.
const rhoBatch = 128

// pollardRho returns a nontrivial divisor of the odd composite n using
// Floyd cycle detection on x -> x^2 + c. Differences are accumulated into a
// product mod n so only one GCD runs per rhoBatch steps; a batch whose GCD
// collapses to n is replayed one step at a time.
func pollardRho(ctx context.Context, r io.Reader, n *big.Int, o options) (*big.Int, error) {
	const op = "pollardRho"
	nMinusOne := modarith.MinusOne(n)

	for restart := 0; restart < o.rhoRestarts(); restart++ {
		x, err := elgamal.RandInt(r, big.NewInt(2), nMinusOne)
		if err != nil {
			return nil, err
		}
		c, err := elgamal.RandInt(r, big.NewInt(1), nMinusOne)
		if err != nil {
			return nil, err
		}
		w := rhoWalk{n: n, c: c, x: x, y: new(big.Int).Set(x)}

		for done := 0; done < o.rhoSteps; done += rhoBatch {
			if done%1024 == 0 {
				if err := ctx.Err(); err != nil {
					return nil, &elgamal.Error{Op: op, Err: err}
				}
			}
			steps := min(rhoBatch, o.rhoSteps-done)
			saved := w.save()
			d := w.batch(steps)
			if modarith.IsOne(d) {
				continue
			}
			if d.Cmp(n) == 0 {
				w.restore(saved)
				d = w.single(steps)
			}
			if !modarith.IsOne(d) && d.Cmp(n) != 0 {
				return d, nil
			}
			break
		}
	}
	return nil, elgamal.Errorf(op, elgamal.ErrFactorization, "no divisor of a %d-bit cofactor", n.BitLen())
}

type rhoWalk struct {
	n, c, x, y *big.Int
	diff       big.Int
}

func (w *rhoWalk) advance() *big.Int {
	w.x.Mul(w.x, w.x).Add(w.x, w.c).Mod(w.x, w.n)
	for range 2 {
		w.y.Mul(w.y, w.y).Add(w.y, w.c).Mod(w.y, w.n)
	}
	return w.diff.Sub(w.x, w.y).Abs(&w.diff)
}

// batch runs steps iterations and returns gcd of the product of the
// differences with n.
func (w *rhoWalk) batch(steps int) *big.Int {
	acc := big.NewInt(1)
	for range steps {
		acc.Mul(acc, w.advance()).Mod(acc, w.n)
	}
	return new(big.Int).GCD(nil, nil, acc, w.n)
}

// single runs up to steps iterations with a GCD after each one and returns
// the first divisor other than 1.
func (w *rhoWalk) single(steps int) *big.Int {
	d := new(big.Int)
	for range steps {
		d.GCD(nil, nil, w.advance(), w.n)
		if !modarith.IsOne(d) {
			return d
		}
	}
	return d
}

func (w *rhoWalk) save() [2]*big.Int {
	return [2]*big.Int{new(big.Int).Set(w.x), new(big.Int).Set(w.y)}
}

func (w *rhoWalk) restore(s [2]*big.Int) {
	w.x.Set(s[0])
	w.y.Set(s[1])
}
