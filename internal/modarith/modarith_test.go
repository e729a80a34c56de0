package modarith

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecompose(t *testing.T) {
	for _, tc := range []struct {
		n int64
		s int64
		t int
	}{
		{3, 1, 1},
		{5, 1, 2},
		{13, 3, 2},
		{257, 1, 8},
		{561, 35, 4},
	} {
		s, twos := Decompose(big.NewInt(tc.n))
		assert.Equal(t, tc.s, s.Int64(), "n=%d", tc.n)
		assert.Equal(t, tc.t, twos, "n=%d", tc.n)
	}
}

func TestHelpers(t *testing.T) {
	p := big.NewInt(257)
	assert.Equal(t, int64(243), Exp(big.NewInt(3), big.NewInt(5), p).Int64())
	assert.Equal(t, int64(11), MulMod(big.NewInt(186), big.NewInt(65), p).Int64())
	assert.Equal(t, int64(6), GCD(big.NewInt(12), big.NewInt(18)).Int64())
	assert.True(t, Coprime(big.NewInt(7), p))
	assert.False(t, Coprime(big.NewInt(12), big.NewInt(18)))
	assert.True(t, IsZero(nil))
	assert.True(t, IsZero(new(big.Int)))
	assert.False(t, IsOne(nil))
	assert.True(t, IsOne(big.NewInt(1)))
	assert.Equal(t, int64(256), MinusOne(p).Int64())
	assert.Equal(t, int64(255), MinusTwo(p).Int64())
	assert.True(t, Between(big.NewInt(2), big.NewInt(3), big.NewInt(4)))
	assert.False(t, Between(big.NewInt(2), big.NewInt(2), big.NewInt(4)))
	assert.Equal(t, int64(257), p.Int64(), "inputs are not modified")
}
