package keys

import (
	"bytes"
	"context"
	"log/slog"
	"math/big"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsiuhsiu/elgamal-go/internal/testrand"
	"github.com/hsiuhsiu/elgamal-go/pkg/elgamal"
	"github.com/hsiuhsiu/elgamal-go/pkg/elgamal/logging"
	"github.com/hsiuhsiu/elgamal-go/pkg/elgamal/prime"
	"github.com/hsiuhsiu/elgamal-go/pkg/elgamal/primroot"
)

func n(v int64) *big.Int { return big.NewInt(v) }

// referenceBundle is the worked example: p=257, g=3, x=5, k=7.
func referenceBundle() *KeyBundle {
	return &KeyBundle{P: n(257), G: n(3), Y: n(243), X: n(5), K: n(7)}
}

func requireConsistent(t *testing.T, b *KeyBundle) {
	t.Helper()
	require.True(t, b.Complete(), "incomplete bundle: %s", spew.Sdump(b))
	require.NoError(t, b.Validate())

	r := testrand.New(99)
	factors, err := primroot.DistinctPrimeFactors(context.Background(), r, new(big.Int).Sub(b.P, big.NewInt(1)))
	require.NoError(t, err)
	assert.True(t, prime.IsProbablePrime(r, b.P), "p not prime")
	assert.True(t, primroot.IsPrimitiveRoot(b.G, b.P, factors), "g not a generator")
	assert.True(t, ValidY(b.Y, b.P, b.G, b.X))
	assert.True(t, ValidX(b.X, b.P))
	assert.True(t, ValidK(b.K, b.P))
}

func TestValidP(t *testing.T) {
	assert.False(t, ValidP(nil))
	assert.False(t, ValidP(n(-300)))
	assert.False(t, ValidP(n(256)))
	assert.True(t, ValidP(n(257)))
}

func TestValidG(t *testing.T) {
	assert.True(t, ValidG(n(3), n(257)))
	assert.False(t, ValidG(n(2), n(257)))
	assert.False(t, ValidG(n(0), n(257)))
	assert.False(t, ValidG(n(3), n(0)))
	assert.False(t, ValidG(nil, n(257)))
}

func TestValidY(t *testing.T) {
	assert.Equal(t, int64(243), new(big.Int).Exp(n(3), n(5), n(257)).Int64())
	assert.True(t, ValidY(n(243), n(257), n(3), n(5)))

	// Changing any single input breaks the relation.
	assert.False(t, ValidY(n(244), n(257), n(3), n(5)), "y")
	assert.False(t, ValidY(n(243), n(241), n(3), n(5)), "p")
	assert.False(t, ValidY(n(243), n(257), n(5), n(5)), "g")
	assert.False(t, ValidY(n(243), n(257), n(3), n(6)), "x")

	assert.False(t, ValidY(nil, n(257), n(3), n(5)))
	assert.False(t, ValidY(n(243), n(0), n(3), n(5)))
}

func TestValidYProperty(t *testing.T) {
	r := testrand.New(30)
	p := n(263)
	for i := 0; i < 50; i++ {
		g, err := elgamal.RandInt(r, n(2), n(261))
		require.NoError(t, err)
		x, err := NewPrivateExponent(r, p)
		require.NoError(t, err)
		y := new(big.Int).Exp(g, x, p)
		assert.True(t, ValidY(y, p, g, x))
	}
}

func TestValidX(t *testing.T) {
	p := n(257)
	for x, want := range map[int64]bool{0: false, 2: false, 3: true, 128: true, 255: true, 256: false, 300: false} {
		assert.Equal(t, want, ValidX(n(x), p), "x=%d", x)
	}
	assert.False(t, ValidX(nil, p))
}

func TestValidK(t *testing.T) {
	p := n(257)
	for k, want := range map[int64]bool{1: false, 2: true, 7: true, 256: true, 257: false} {
		assert.Equal(t, want, ValidK(n(k), p), "k=%d", k)
	}
	assert.False(t, ValidK(n(6), n(300)), "shares a factor with the modulus")
	assert.False(t, ValidK(nil, p))
}

func TestConfigureKeepsValidFields(t *testing.T) {
	rec := logging.NewRecorder()
	in := referenceBundle()
	in.Y = nil

	out, err := Configure(context.Background(), in, WithRand(testrand.New(31)), WithLogger(rec), WithStrict())
	require.NoError(t, err)

	assert.True(t, out.Equal(referenceBundle()), "got %s", spew.Sdump(out))
	assert.Zero(t, rec.Count(slog.LevelWarn))
	assert.Nil(t, in.Y, "input must not be modified")
}

func TestConfigureGeneratesEverything(t *testing.T) {
	for _, tt := range []struct {
		name string
		opts []Option
	}{
		{"safe prime", nil},
		{"plain prime", []Option{WithPlainPrimes()}},
	} {
		t.Run(tt.name, func(t *testing.T) {
			opts := append([]Option{WithBits(64), WithRand(testrand.New(32))}, tt.opts...)
			b, err := Configure(context.Background(), nil, opts...)
			require.NoError(t, err)
			assert.Equal(t, 64, b.P.BitLen())
			requireConsistent(t, b)
		})
	}
}

func TestConfigureSafePrimeByDefault(t *testing.T) {
	b, err := Configure(context.Background(), &KeyBundle{}, WithBits(48), WithRand(testrand.New(33)))
	require.NoError(t, err)
	assert.True(t, prime.IsSafePrime(testrand.New(34), b.P))
	assert.True(t, ValidG(b.G, b.P), "restricted check must agree for a safe prime")
}

func TestConfigureReplacesInvalidFields(t *testing.T) {
	tests := []struct {
		name  string
		in    *KeyBundle
		field string
	}{
		{"generator", &KeyBundle{P: n(257), G: n(2), X: n(5), K: n(7)}, "g"},
		{"private exponent", &KeyBundle{P: n(257), G: n(3), X: n(256), K: n(7)}, "x"},
		{"public key", &KeyBundle{P: n(257), G: n(3), Y: n(1), X: n(5), K: n(7)}, "y"},
		{"session key", &KeyBundle{P: n(257), G: n(3), X: n(5), K: n(257)}, "k"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := logging.NewRecorder()
			out, err := Configure(context.Background(), tt.in, WithRand(testrand.New(35)), WithLogger(rec))
			require.NoError(t, err)
			requireConsistent(t, out)
			assert.Equal(t, int64(257), out.P.Int64())

			warns := 0
			for _, notice := range rec.Notices() {
				if notice.Level == slog.LevelWarn {
					warns++
					assert.Equal(t, tt.field, notice.Attrs["field"])
				}
			}
			assert.Equal(t, 1, warns)
		})
	}
}

func TestConfigureStrictRejects(t *testing.T) {
	tests := []struct {
		name string
		in   *KeyBundle
	}{
		{"small modulus", &KeyBundle{P: n(251)}},
		{"composite modulus", &KeyBundle{P: n(1000)}},
		{"generator", &KeyBundle{P: n(257), G: n(2)}},
		// 13 passes the restricted check mod 1009 but has order dividing 336.
		{"restricted-only generator", &KeyBundle{P: n(1009), G: n(13)}},
		{"private exponent", &KeyBundle{P: n(257), X: n(2)}},
		{"public key", &KeyBundle{P: n(257), G: n(3), X: n(5), Y: n(242)}},
		{"session key", &KeyBundle{P: n(257), K: n(1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Configure(context.Background(), tt.in, WithRand(testrand.New(36)), WithStrict())
			require.ErrorIs(t, err, elgamal.ErrInvalidKey)
		})
	}
}

func TestConfigureRegeneratesDependentsWithModulus(t *testing.T) {
	rec := logging.NewRecorder()
	in := &KeyBundle{P: n(256), G: n(3), X: n(5), K: n(7)}

	out, err := Configure(context.Background(), in, WithBits(40), WithRand(testrand.New(37)), WithLogger(rec))
	require.NoError(t, err)
	requireConsistent(t, out)
	assert.Equal(t, 40, out.P.BitLen())

	// One notice for p, then one per discarded dependent.
	assert.Equal(t, 4, rec.Count(slog.LevelWarn))
	assert.Equal(t, int64(256), in.P.Int64(), "input must not be modified")
	assert.Equal(t, int64(5), in.X.Int64(), "input must not be modified")
}

func TestConfigureErrors(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Configure(ctx, nil, WithBits(64), WithRand(testrand.New(38)))
	require.ErrorIs(t, err, context.Canceled)

	_, err = Configure(context.Background(), nil, WithBits(8))
	require.ErrorIs(t, err, elgamal.ErrInvalidParameter)

	_, err = Configure(context.Background(), nil, WithBits(64), WithRand(testrand.Zero), WithMaxAttempts(3))
	require.ErrorIs(t, err, elgamal.ErrMaxAttempts)
}

func TestConfigureWithConfig(t *testing.T) {
	cfg := elgamal.DefaultConfig()
	cfg.Bits = 32
	b, err := Configure(context.Background(), nil, WithConfig(cfg), WithRand(testrand.New(39)))
	require.NoError(t, err)
	assert.Equal(t, 32, b.P.BitLen())
}

func TestNewSessionKey(t *testing.T) {
	r := testrand.New(40)
	p := n(257)
	for i := 0; i < 20; i++ {
		k, err := NewSessionKey(context.Background(), p, WithRand(r))
		require.NoError(t, err)
		assert.True(t, ValidK(k, p), "k=%s", k)
		assert.True(t, k.ProbablyPrime(10), "k=%s", k)
	}

	_, err := NewSessionKey(context.Background(), n(2))
	require.ErrorIs(t, err, elgamal.ErrInvalidParameter)
}

func TestNewPrivateExponentRange(t *testing.T) {
	r := testrand.New(41)
	p := n(263)
	for i := 0; i < 200; i++ {
		x, err := NewPrivateExponent(r, p)
		require.NoError(t, err)
		require.True(t, ValidX(x, p), "x=%s", x)
	}
	_, err := NewPrivateExponent(r, n(3))
	require.ErrorIs(t, err, elgamal.ErrInvalidParameter)
}

func TestBundleHelpers(t *testing.T) {
	b := referenceBundle()
	c := b.Clone()
	require.True(t, b.Equal(c))

	c.X.SetInt64(6)
	assert.False(t, b.Equal(c), "clone must be deep")
	assert.Equal(t, int64(5), b.X.Int64())

	var nilBundle *KeyBundle
	assert.True(t, nilBundle.Equal(nil))
	assert.False(t, nilBundle.Equal(b))
	assert.Equal(t, &KeyBundle{}, nilBundle.Clone())

	pub := b.Public()
	assert.Equal(t, int64(243), pub.Y.Int64())

	assert.True(t, b.HasPublic())
	assert.True(t, b.HasPrivate())
	assert.True(t, b.Complete())
	assert.False(t, (&KeyBundle{P: n(257), X: n(5)}).HasPublic())
	assert.False(t, (&KeyBundle{P: n(257), G: n(3), Y: n(243)}).HasPrivate())
}

func TestBundleValidate(t *testing.T) {
	require.NoError(t, referenceBundle().Validate())

	var nilBundle *KeyBundle
	require.ErrorIs(t, nilBundle.Validate(), elgamal.ErrKeysNotConfigured)

	for name, mutate := range map[string]func(*KeyBundle){
		"p": func(b *KeyBundle) { b.P = n(200) },
		"g": func(b *KeyBundle) { b.G = n(2) },
		"x": func(b *KeyBundle) { b.X = n(1) },
		"y": func(b *KeyBundle) { b.Y = n(1) },
		"k": func(b *KeyBundle) { b.K = n(257) },
	} {
		b := referenceBundle()
		mutate(b)
		assert.ErrorIs(t, b.Validate(), elgamal.ErrInvalidKey, name)
	}
}

func TestBundleNeverPrintsSecrets(t *testing.T) {
	b := &KeyBundle{P: n(257), G: n(3), Y: n(243), X: n(123), K: n(191)}

	s := b.String()
	assert.NotContains(t, s, "123")
	assert.NotContains(t, s, "191")
	assert.Contains(t, s, logging.Placeholder())

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.Attr{}
			}
			return a
		},
	}))
	logger.Info("bundle", "keys", b)
	assert.NotContains(t, buf.String(), "123")
	assert.True(t, strings.Contains(buf.String(), "keys.bits=9"), buf.String())
}

func TestBundleWipe(t *testing.T) {
	b := referenceBundle()
	x := b.X
	b.Wipe()
	assert.Nil(t, b.X)
	assert.Nil(t, b.K)
	assert.Zero(t, x.Sign())
	assert.True(t, b.HasPublic())
}

func TestValidGenerator(t *testing.T) {
	ctx := context.Background()
	r := testrand.New(40)
	for _, tc := range []struct {
		g, p int64
		want bool
	}{
		{3, 257, true},
		{2, 13, true},
		{5, 13, false}, // passes the restricted check only
		{13, 1009, false},
		{11, 1009, true},
		{0, 257, false},
	} {
		got, err := ValidGenerator(ctx, r, n(tc.g), n(tc.p))
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "g=%d p=%d", tc.g, tc.p)
	}
}

// unfactorableModulus is 2*q1*q2 + 1 with q1 and q2 60-bit primes, so p-1
// has no factor Pollard rho can reach on a small step budget.
func unfactorableModulus(t *testing.T) *big.Int {
	t.Helper()
	p, ok := new(big.Int).SetString("1525796823350791083647047707627925223", 10)
	require.True(t, ok)
	return p
}

func TestConfigureReplacesUnfactorableModulus(t *testing.T) {
	rec := logging.NewRecorder()
	p := unfactorableModulus(t)
	require.True(t, ValidP(p))
	require.True(t, prime.IsProbablePrime(testrand.New(42), p))

	out, err := Configure(context.Background(), &KeyBundle{P: p, G: n(3), X: n(5)},
		WithBits(64),
		WithRhoSteps(256),
		WithRand(testrand.New(43)),
		WithLogger(rec))
	require.NoError(t, err)
	requireConsistent(t, out)
	assert.NotEqual(t, 0, out.P.Cmp(p))
	assert.Equal(t, 64, out.P.BitLen())

	var replaced, discarded []string
	for _, notice := range rec.Notices() {
		switch notice.Msg {
		case "supplied key field replaced":
			replaced = append(replaced, notice.Attrs["field"]+": "+notice.Attrs["reason"])
		case "supplied key field discarded with modulus":
			discarded = append(discarded, notice.Attrs["field"])
		}
	}
	assert.Equal(t, []string{"p: p-1 could not be factored"}, replaced)
	assert.ElementsMatch(t, []string{"g", "x"}, discarded)
}

func TestConfigureStrictRejectsUnfactorableModulus(t *testing.T) {
	_, err := Configure(context.Background(), &KeyBundle{P: unfactorableModulus(t)},
		WithRhoSteps(256),
		WithRand(testrand.New(44)),
		WithStrict())
	require.ErrorIs(t, err, elgamal.ErrInvalidKey)
	assert.Contains(t, err.Error(), "p-1 could not be factored")
}

func TestConfigurePlainPrimesSmallFactorBudget(t *testing.T) {
	// A tiny rho budget forces some candidates to be discarded; the search
	// keeps drawing until p-1 splits by trial division and a prime cofactor.
	rec := logging.NewRecorder()
	out, err := Configure(context.Background(), nil,
		WithBits(64),
		WithPlainPrimes(),
		WithRhoSteps(1),
		WithRand(testrand.New(45)),
		WithLogger(rec))
	require.NoError(t, err)
	requireConsistent(t, out)
	for _, notice := range rec.Notices() {
		if notice.Msg == "generated modulus discarded" {
			assert.Equal(t, "p-1 could not be factored", notice.Attrs["reason"])
		}
	}
}
