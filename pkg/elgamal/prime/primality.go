package prime

import (
	"io"
	"math/big"

	"github.com/hsiuhsiu/elgamal-go/internal/modarith"
	"github.com/hsiuhsiu/elgamal-go/pkg/elgamal"
)

// IsProbablePrime reports whether n is prime, using the small-prime table
// first and DefaultRounds of Miller-Rabin for anything the table cannot
// settle. A composite passes with probability at most 4^-rounds. A failing
// random source makes the test report false.
func IsProbablePrime(r io.Reader, n *big.Int) bool {
	ok, err := probablePrime(r, n, elgamal.DefaultRounds)
	return err == nil && ok
}

func probablePrime(r io.Reader, n *big.Int, rounds int) (bool, error) {
	if isPrime, settled := trialDivision(n); settled {
		return isPrime, nil
	}
	return MillerRabin(r, n, rounds)
}

// MillerRabin runs rounds independent Miller-Rabin trials on n with bases
// drawn uniformly from [2, n-2]. It returns false as soon as a base
// witnesses that n is composite. Inputs below 5 and even inputs are answered
// directly.
func MillerRabin(r io.Reader, n *big.Int, rounds int) (bool, error) {
	if n.Cmp(big.NewInt(5)) < 0 {
		isPrime, _ := trialDivision(n)
		return isPrime, nil
	}
	if n.Bit(0) == 0 {
		return false, nil
	}
	if rounds < 1 {
		return false, elgamal.Errorf("MillerRabin", elgamal.ErrInvalidParameter, "rounds %d below 1", rounds)
	}

	nMinusOne := modarith.MinusOne(n)
	nMinusTwo := modarith.MinusTwo(n)
	s, t := modarith.Decompose(n)
	low := big.NewInt(2)

	for i := 0; i < rounds; i++ {
		a, err := elgamal.RandInt(r, low, nMinusTwo)
		if err != nil {
			return false, err
		}
		v := modarith.Exp(a, s, n)
		if modarith.IsOne(v) || v.Cmp(nMinusOne) == 0 {
			continue
		}
		witness := true
		for j := 1; j < t; j++ {
			v.Mul(v, v).Mod(v, n)
			if v.Cmp(nMinusOne) == 0 {
				witness = false
				break
			}
		}
		if witness {
			return false, nil
		}
	}
	return true, nil
}
