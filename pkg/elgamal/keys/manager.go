package keys

import (
	"context"
	"errors"
	"io"
	"math/big"

	"github.com/hsiuhsiu/elgamal-go/internal/modarith"
	"github.com/hsiuhsiu/elgamal-go/pkg/elgamal"
	"github.com/hsiuhsiu/elgamal-go/pkg/elgamal/logging"
	"github.com/hsiuhsiu/elgamal-go/pkg/elgamal/prime"
	"github.com/hsiuhsiu/elgamal-go/pkg/elgamal/primroot"
)

// Configure returns a complete, validated bundle built from partial. Unset
// fields are generated; supplied fields are kept when valid and replaced
// otherwise (or rejected under WithStrict). partial is never modified and may
// be nil.
func Configure(ctx context.Context, partial *KeyBundle, opts ...Option) (*KeyBundle, error) {
	o := newOptions(opts)
	if err := (elgamal.Config{
		Bits:        o.bits,
		MaxAttempts: o.maxAttempts,
		Rounds:      o.rounds,
		SessionMode: elgamal.SessionPerMessage,
		KeyDir:      elgamal.DefaultKeyDir,
	}).Validate(); err != nil {
		return nil, err
	}

	c := &configurator{ctx: ctx, o: o, in: partial.Clone(), out: &KeyBundle{}}
	steps := []func() error{c.modulus, c.generator, c.private, c.public, c.session}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}

	o.logger.Info(ctx, "keys configured",
		"bits", c.out.P.BitLen(),
		"generated", c.generated,
		"replaced", c.replaced,
	)
	return c.out, nil
}

type configurator struct {
	ctx       context.Context
	o         options
	in, out   *KeyBundle
	factors   []*big.Int
	generated []string
	replaced  []string
}

// reject handles a supplied field that failed validation. Under WithStrict it
// returns ErrInvalidKey; otherwise it records the replacement.
func (c *configurator) reject(field, reason string) error {
	if c.o.strict {
		c.o.logger.Error(c.ctx, "supplied key field rejected", "field", field, "reason", reason)
		return elgamal.Errorf("Configure", elgamal.ErrInvalidKey, "%s: %s", field, reason)
	}
	c.o.logger.Warn(c.ctx, "supplied key field replaced", "field", field, "reason", reason)
	c.replaced = append(c.replaced, field)
	return nil
}

func (c *configurator) modulus() error {
	p := c.in.P
	switch {
	case p == nil:
	case !ValidP(p):
		if err := c.reject("p", "must exceed 256"); err != nil {
			return err
		}
		p = nil
	case !prime.IsProbablePrime(c.o.rand, p):
		if err := c.reject("p", "not prime"); err != nil {
			return err
		}
		p = nil
	}

	if p != nil {
		factors, err := c.factor(p)
		switch {
		case err == nil:
			c.out.P, c.factors = p, factors
			return nil
		case errors.Is(err, elgamal.ErrFactorization):
			// Without the factors of p-1 no generator can be confirmed.
			if err := c.reject("p", "p-1 could not be factored"); err != nil {
				return err
			}
		default:
			return err
		}
	}

	if c.in.P != nil {
		// Everything else was chosen against the old modulus.
		for _, field := range c.dropDependents() {
			c.o.logger.Warn(c.ctx, "supplied key field discarded with modulus", "field", field)
		}
	}

	var err error
	if c.o.plainPrimes {
		p, err = c.plainModulus()
	} else {
		p, err = prime.GenerateSafePrime(c.ctx, c.o.rand, c.o.bits, c.primeOptions()...)
		if err == nil {
			c.factors = primroot.SafePrimeFactors(p)
		}
	}
	if err != nil {
		return err
	}
	c.out.P = p
	c.generated = append(c.generated, "p")
	return nil
}

// plainModulus draws plain primes until one has a p-1 that factors within
// the Pollard rho budget.
func (c *configurator) plainModulus() (*big.Int, error) {
	for attempt := 1; ; attempt++ {
		if c.o.maxAttempts > 0 && attempt > c.o.maxAttempts {
			return nil, elgamal.Errorf("Configure", elgamal.ErrMaxAttempts, "no factorable modulus after %d primes", c.o.maxAttempts)
		}
		p, err := prime.GenerateLargePrime(c.ctx, c.o.rand, c.o.bits, c.primeOptions()...)
		if err != nil {
			return nil, err
		}
		factors, err := c.factor(p)
		if errors.Is(err, elgamal.ErrFactorization) {
			c.o.logger.Warn(c.ctx, "generated modulus discarded", "reason", "p-1 could not be factored", "bits", p.BitLen())
			continue
		}
		if err != nil {
			return nil, err
		}
		c.factors = factors
		return p, nil
	}
}

func (c *configurator) factor(p *big.Int) ([]*big.Int, error) {
	return primroot.DistinctPrimeFactors(c.ctx, c.o.rand, modarith.MinusOne(p),
		primroot.WithMaxAttempts(c.o.maxAttempts),
		primroot.WithRhoSteps(c.o.rhoSteps),
		primroot.WithLogger(c.o.logger))
}

func (c *configurator) primeOptions() []prime.Option {
	return []prime.Option{
		prime.WithMaxAttempts(c.o.maxAttempts),
		prime.WithRounds(c.o.rounds),
		prime.WithLogger(c.o.logger),
	}
}

func (c *configurator) dropDependents() []string {
	var dropped []string
	for _, f := range []struct {
		name string
		val  **big.Int
	}{{"g", &c.in.G}, {"y", &c.in.Y}, {"x", &c.in.X}, {"k", &c.in.K}} {
		if *f.val != nil {
			dropped = append(dropped, f.name)
			*f.val = nil
		}
	}
	return dropped
}

func (c *configurator) generator() error {
	p := c.out.P
	if g := c.in.G; g != nil {
		if ValidG(g, p) && primroot.IsPrimitiveRoot(g, p, c.factors) {
			c.out.G = g
			return nil
		}
		if err := c.reject("g", "not a primitive root"); err != nil {
			return err
		}
	}
	g, err := primroot.Find(c.ctx, c.o.rand, p,
		primroot.WithFactors(c.factors),
		primroot.WithMaxAttempts(c.o.maxAttempts),
		primroot.WithLogger(c.o.logger))
	if err != nil {
		return err
	}
	c.out.G = g
	c.generated = append(c.generated, "g")
	return nil
}

func (c *configurator) private() error {
	p := c.out.P
	if x := c.in.X; x != nil {
		if ValidX(x, p) {
			c.out.X = x
			return nil
		}
		if err := c.reject("x", "outside (2, p-1)"); err != nil {
			return err
		}
	}
	x, err := NewPrivateExponent(c.o.rand, p)
	if err != nil {
		return err
	}
	c.out.X = x
	c.generated = append(c.generated, "x")
	return nil
}

func (c *configurator) public() error {
	y := modarith.Exp(c.out.G, c.out.X, c.out.P)
	switch {
	case c.in.Y == nil:
		c.generated = append(c.generated, "y")
	case c.in.Y.Cmp(y) != 0:
		if err := c.reject("y", "does not equal g^x mod p"); err != nil {
			return err
		}
	}
	c.out.Y = y
	return nil
}

func (c *configurator) session() error {
	p := c.out.P
	if k := c.in.K; k != nil {
		if ValidK(k, p) {
			c.out.K = k
			return nil
		}
		if err := c.reject("k", "outside (1, p) or not coprime to p"); err != nil {
			return err
		}
	}
	k, err := NewSessionKey(c.ctx, p,
		WithRand(c.o.rand),
		WithMaxAttempts(c.o.maxAttempts),
		WithRounds(c.o.rounds),
		WithLogger(c.o.logger))
	if err != nil {
		return err
	}
	c.out.K = k
	c.generated = append(c.generated, "k")
	return nil
}

// NewPrivateExponent returns x uniform in [3, p-2], the range ValidX accepts.
func NewPrivateExponent(r io.Reader, p *big.Int) (*big.Int, error) {
	if p == nil || p.Cmp(big.NewInt(5)) < 0 {
		return nil, elgamal.Errorf("NewPrivateExponent", elgamal.ErrInvalidParameter, "modulus %v below 5", p)
	}
	return elgamal.RandInt(r, big.NewInt(3), modarith.MinusTwo(p))
}

// NewSessionKey returns a session key for p: a random prime whose bit length
// is itself drawn from [2, bitlen(p)], retried until it lies below p and is
// coprime to it.
func NewSessionKey(ctx context.Context, p *big.Int, opts ...Option) (*big.Int, error) {
	const op = "NewSessionKey"
	if p == nil || p.Cmp(big.NewInt(3)) < 0 {
		return nil, elgamal.Errorf(op, elgamal.ErrInvalidParameter, "modulus %v below 3", p)
	}
	o := newOptions(opts)
	maxBits := big.NewInt(int64(p.BitLen()))

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, &elgamal.Error{Op: op, Err: err}
		}
		if o.maxAttempts > 0 && attempt > o.maxAttempts {
			return nil, elgamal.Errorf(op, elgamal.ErrMaxAttempts, "no session key after %d candidates", o.maxAttempts)
		}
		bits, err := elgamal.RandInt(o.rand, big.NewInt(2), maxBits)
		if err != nil {
			return nil, err
		}
		k, err := prime.GenerateLargePrime(ctx, o.rand, int(bits.Int64()),
			prime.WithMaxAttempts(o.maxAttempts),
			prime.WithRounds(o.rounds),
			prime.WithLogger(o.logger))
		if err != nil {
			return nil, err
		}
		if ValidK(k, p) {
			o.logger.Debug(ctx, "session key chosen", "attempts", attempt, logging.Redacted("k"))
			return k, nil
		}
	}
}
