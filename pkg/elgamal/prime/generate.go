package prime

import (
	"context"
	"io"
	"math/big"

	"github.com/hsiuhsiu/elgamal-go/pkg/elgamal"
	"github.com/hsiuhsiu/elgamal-go/pkg/elgamal/logging"
)

type options struct {
	maxAttempts int
	rounds      int
	logger      logging.Logger
}

// Option configures the prime searches.
type Option func(*options)

// WithMaxAttempts caps the number of candidates tried. Zero, the default,
// leaves the search unbounded.
func WithMaxAttempts(n int) Option {
	return func(o *options) { o.maxAttempts = n }
}

// WithRounds sets the Miller-Rabin rounds per candidate.
func WithRounds(n int) Option {
	return func(o *options) { o.rounds = n }
}

// WithLogger routes search notices to l.
func WithLogger(l logging.Logger) Option {
	return func(o *options) { o.logger = l }
}

func newOptions(opts []Option) options {
	o := options{rounds: elgamal.DefaultRounds}
	for _, opt := range opts {
		opt(&o)
	}
	o.logger = logging.OrDiscard(o.logger)
	if o.rounds < 1 {
		o.rounds = elgamal.DefaultRounds
	}
	return o
}

// next reports whether attempt may run, returning the reason when it may not.
func (o options) next(ctx context.Context, op string, attempt int) error {
	if err := ctx.Err(); err != nil {
		return &elgamal.Error{Op: op, Err: err}
	}
	if o.maxAttempts > 0 && attempt > o.maxAttempts {
		return elgamal.Errorf(op, elgamal.ErrMaxAttempts, "no prime after %d candidates", o.maxAttempts)
	}
	return nil
}

// GenerateLargePrime returns a probable prime with exactly bits bits. It
// samples uniform odd integers in [2^(bits-1), 2^bits) until one passes
// IsProbablePrime.
func GenerateLargePrime(ctx context.Context, r io.Reader, bits int, opts ...Option) (*big.Int, error) {
	const op = "GenerateLargePrime"
	if bits < 2 {
		return nil, elgamal.Errorf(op, elgamal.ErrInvalidParameter, "bit length %d below 2", bits)
	}
	o := newOptions(opts)

	for attempt := 1; ; attempt++ {
		if err := o.next(ctx, op, attempt); err != nil {
			o.logger.Warn(ctx, "prime search stopped", "bits", bits, "attempts", attempt-1, "error", err)
			return nil, err
		}
		candidate, err := elgamal.RandOddBits(r, bits)
		if err != nil {
			return nil, err
		}
		ok, err := probablePrime(r, candidate, o.rounds)
		if err != nil {
			return nil, err
		}
		if ok {
			o.logger.Debug(ctx, "prime found", "bits", bits, "attempts", attempt)
			return candidate, nil
		}
	}
}

// GenerateSafePrime returns a probable safe prime p = 2q+1 with exactly bits
// bits, where q is also a probable prime. Knowing q makes the factorization
// of p-1 trivial, which is what the primitive root search needs.
func GenerateSafePrime(ctx context.Context, r io.Reader, bits int, opts ...Option) (*big.Int, error) {
	const op = "GenerateSafePrime"
	if bits < 3 {
		return nil, elgamal.Errorf(op, elgamal.ErrInvalidParameter, "bit length %d below 3", bits)
	}
	o := newOptions(opts)

	for attempt := 1; ; attempt++ {
		if err := o.next(ctx, op, attempt); err != nil {
			o.logger.Warn(ctx, "safe prime search stopped", "bits", bits, "attempts", attempt-1, "error", err)
			return nil, err
		}
		q, err := elgamal.RandOddBits(r, bits-1)
		if err != nil {
			return nil, err
		}
		p := new(big.Int).Lsh(q, 1)
		p.Add(p, big.NewInt(1))

		// Cheap rejection on both halves before any modular exponentiation.
		if !survivesTrialDivision(q) || !survivesTrialDivision(p) {
			continue
		}
		ok, err := probablePrime(r, q, o.rounds)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if ok, err = probablePrime(r, p, o.rounds); err != nil {
			return nil, err
		}
		if ok {
			o.logger.Debug(ctx, "safe prime found", "bits", bits, "attempts", attempt)
			return p, nil
		}
	}
}

// IsSafePrime reports whether p and (p-1)/2 are both probable primes.
func IsSafePrime(r io.Reader, p *big.Int) bool {
	if p.Cmp(big.NewInt(5)) < 0 || p.Bit(0) == 0 {
		return false
	}
	q := new(big.Int).Rsh(p, 1)
	return IsProbablePrime(r, q) && IsProbablePrime(r, p)
}

func survivesTrialDivision(n *big.Int) bool {
	isPrime, settled := trialDivision(n)
	return !settled || isPrime
}
