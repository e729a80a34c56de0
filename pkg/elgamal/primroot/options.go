package primroot

import (
	"math/big"

	"github.com/hsiuhsiu/elgamal-go/pkg/elgamal/logging"
)

// Default Pollard rho budget. A walk of 2^20 steps finds prime factors up
// to roughly 2^40; larger factors make DistinctPrimeFactors give up with
// ErrFactorization after defaultRhoRestarts walks rather than run for
// minutes.
const (
	defaultRhoSteps    = 1 << 20
	defaultRhoRestarts = 8
)

type options struct {
	maxAttempts int
	rhoSteps    int
	factors     []*big.Int
	logger      logging.Logger
}

// Option configures factorization and root searches.
type Option func(*options)

// WithMaxAttempts caps the number of random candidates Find tries and the
// number of Pollard rho restarts. Zero leaves Find unbounded and uses a
// default restart budget for factorization.
func WithMaxAttempts(n int) Option {
	return func(o *options) { o.maxAttempts = n }
}

// WithRhoSteps bounds each Pollard rho walk.
func WithRhoSteps(n int) Option {
	return func(o *options) { o.rhoSteps = n }
}

// WithFactors supplies the distinct prime factors of p-1 so no factorization
// is attempted. The caller vouches for the list.
func WithFactors(factors []*big.Int) Option {
	return func(o *options) { o.factors = factors }
}

// WithLogger routes notices to l.
func WithLogger(l logging.Logger) Option {
	return func(o *options) { o.logger = l }
}

func newOptions(opts []Option) options {
	o := options{rhoSteps: defaultRhoSteps}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rhoSteps <= 0 {
		o.rhoSteps = defaultRhoSteps
	}
	o.logger = logging.OrDiscard(o.logger)
	return o
}

func (o options) rhoRestarts() int {
	if o.maxAttempts > 0 {
		return o.maxAttempts
	}
	return defaultRhoRestarts
}
