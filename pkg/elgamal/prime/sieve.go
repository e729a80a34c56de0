package prime

import (
	"iter"
	"math/big"
	"sync"
)

// SmallPrimeLimit bounds the trial-division table used by IsProbablePrime.
const SmallPrimeLimit = 1000

// Sieve returns the primes below limit in ascending order using the sieve of
// Eratosthenes. The sequence is lazy and finite, and each range over it runs
// a fresh sieve, so it can be consumed more than once.
func Sieve(limit int) iter.Seq[int] {
	return func(yield func(int) bool) {
		if limit <= 2 {
			return
		}
		composite := make([]bool, limit)
		for i := 2; i < limit; i++ {
			if composite[i] {
				continue
			}
			if !yield(i) {
				return
			}
			if i > (limit-1)/i {
				continue
			}
			for n := i * i; n < limit; n += i {
				composite[n] = true
			}
		}
	}
}

type smallTable struct {
	primes []*big.Int
	set    map[int64]struct{}
}

var smallPrimeTable = sync.OnceValue(func() *smallTable {
	t := &smallTable{set: make(map[int64]struct{})}
	for p := range Sieve(SmallPrimeLimit) {
		t.primes = append(t.primes, big.NewInt(int64(p)))
		t.set[int64(p)] = struct{}{}
	}
	return t
})

// SmallPrimes returns the trial-division table: every prime below
// SmallPrimeLimit. The returned slice is a copy.
func SmallPrimes() []int64 {
	t := smallPrimeTable()
	out := make([]int64, len(t.primes))
	for i, p := range t.primes {
		out[i] = p.Int64()
	}
	return out
}

// trialDivision reports whether n is settled by the small-prime table. When
// settled is true, prime holds the answer; otherwise n has no factor below
// SmallPrimeLimit and needs a probabilistic test.
func trialDivision(n *big.Int) (prime, settled bool) {
	if n.Cmp(big.NewInt(2)) < 0 {
		return false, true
	}
	t := smallPrimeTable()
	if n.IsInt64() && n.Int64() < SmallPrimeLimit {
		_, ok := t.set[n.Int64()]
		return ok, true
	}
	var r big.Int
	for _, p := range t.primes {
		if r.Mod(n, p).Sign() == 0 {
			return false, true
		}
	}
	return false, false
}
