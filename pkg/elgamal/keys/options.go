package keys

import (
	"io"

	"github.com/hsiuhsiu/elgamal-go/pkg/elgamal"
	"github.com/hsiuhsiu/elgamal-go/pkg/elgamal/logging"
)

type options struct {
	bits        int
	maxAttempts int
	rounds      int
	rand        io.Reader
	logger      logging.Logger
	rhoSteps    int
	strict      bool
	plainPrimes bool
}

// Option configures Configure and the session key helpers.
type Option func(*options)

// WithConfig copies Bits, MaxAttempts and Rounds from cfg. Options listed
// after it override individual values.
func WithConfig(cfg elgamal.Config) Option {
	return func(o *options) {
		o.bits = cfg.Bits
		o.maxAttempts = cfg.MaxAttempts
		o.rounds = cfg.Rounds
	}
}

// WithBits sets the bit length of a generated modulus.
func WithBits(n int) Option {
	return func(o *options) { o.bits = n }
}

// WithMaxAttempts caps every randomized search Configure runs. Zero leaves
// them unbounded.
func WithMaxAttempts(n int) Option {
	return func(o *options) { o.maxAttempts = n }
}

// WithRounds sets the Miller-Rabin rounds used while generating primes.
func WithRounds(n int) Option {
	return func(o *options) { o.rounds = n }
}

// WithRhoSteps bounds each Pollard rho walk used to factor p-1. Zero keeps
// the primroot default.
func WithRhoSteps(n int) Option {
	return func(o *options) { o.rhoSteps = n }
}

// WithRand sets the randomness source. Nil means crypto/rand.Reader.
func WithRand(r io.Reader) Option {
	return func(o *options) { o.rand = r }
}

// WithLogger routes notices to l.
func WithLogger(l logging.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithStrict makes Configure fail with ErrInvalidKey instead of replacing a
// supplied field that does not validate.
func WithStrict() Option {
	return func(o *options) { o.strict = true }
}

// WithPlainPrimes generates P with prime.GenerateLargePrime instead of
// prime.GenerateSafePrime. P-1 then has to be factored before a generator
// can be confirmed, which is slower for large moduli.
func WithPlainPrimes() Option {
	return func(o *options) { o.plainPrimes = true }
}

func newOptions(opts []Option) options {
	o := options{
		bits:   elgamal.DefaultBits,
		rounds: elgamal.DefaultRounds,
	}
	for _, opt := range opts {
		opt(&o)
	}
	o.rand = elgamal.Reader(o.rand)
	o.logger = logging.OrDiscard(o.logger)
	return o
}
