package cipher

import (
	"context"
	"io"
	"math/big"

	"github.com/hsiuhsiu/elgamal-go/internal/modarith"
	"github.com/hsiuhsiu/elgamal-go/pkg/elgamal"
	"github.com/hsiuhsiu/elgamal-go/pkg/elgamal/keys"
)

// SessionMode selects how Encrypt picks session keys.
type SessionMode int

const (
	// SessionPerMessage draws one fresh k per Encrypt call.
	SessionPerMessage SessionMode = iota
	// SessionPerByte draws a fresh k for every plaintext byte.
	SessionPerByte
	// SessionFixed uses the bundle's K.
	SessionFixed
)

func (m SessionMode) String() string {
	switch m {
	case SessionPerMessage:
		return elgamal.SessionPerMessage
	case SessionPerByte:
		return elgamal.SessionPerByte
	case SessionFixed:
		return elgamal.SessionFixed
	default:
		return "unknown"
	}
}

// ParseSessionMode maps the Config.SessionMode strings to a SessionMode.
func ParseSessionMode(s string) (SessionMode, error) {
	switch s {
	case elgamal.SessionPerMessage, "":
		return SessionPerMessage, nil
	case elgamal.SessionPerByte:
		return SessionPerByte, nil
	case elgamal.SessionFixed:
		return SessionFixed, nil
	}
	return 0, elgamal.Errorf("ParseSessionMode", elgamal.ErrInvalidParameter, "unknown session mode %q", s)
}

// session caches alpha = g^k and the shared secret y^k for one k.
type session struct {
	p      *big.Int
	alpha  *big.Int
	shared *big.Int
}

func newSession(b *keys.KeyBundle, k *big.Int) session {
	return session{
		p:      b.P,
		alpha:  modarith.Exp(b.G, k, b.P),
		shared: modarith.Exp(b.Y, k, b.P),
	}
}

func (s session) beta(m byte) *big.Int {
	mm := new(big.Int).SetUint64(uint64(m))
	return modarith.MulMod(s.shared, mm.Mod(mm, s.p), s.p)
}

// maxSessionDraws caps the draws freshSessionKey makes. Every candidate is
// coprime to a prime p, so only a composite modulus can exhaust it.
const maxSessionDraws = 64

// freshSessionKey returns k uniform in [2, p-2] with gcd(k, p) = 1.
func freshSessionKey(ctx context.Context, r io.Reader, p *big.Int) (*big.Int, error) {
	const op = "freshSessionKey"
	high := modarith.MinusTwo(p)
	for range maxSessionDraws {
		if err := ctx.Err(); err != nil {
			return nil, &elgamal.Error{Op: op, Err: err}
		}
		k, err := elgamal.RandInt(r, big.NewInt(2), high)
		if err != nil {
			return nil, err
		}
		if keys.ValidK(k, p) {
			return k, nil
		}
		elgamal.ZeroizeInt(k)
	}
	return nil, elgamal.Errorf(op, elgamal.ErrMaxAttempts, "no session key coprime to p after %d draws", maxSessionDraws)
}

// EncryptPair encrypts the single byte m under session key k.
func EncryptPair(b *keys.KeyBundle, k *big.Int, m byte) (alpha, beta *big.Int) {
	s := newSession(b, k)
	return s.alpha, s.beta(m)
}

// DecryptPair returns beta * alpha^(p-1-x) mod p. The result is not range
// checked; a wrong key yields an arbitrary residue.
func DecryptPair(b *keys.KeyBundle, alpha, beta *big.Int) *big.Int {
	return modarith.MulMod(beta, inverseShared(b, alpha), b.P)
}

// pairFault reports why (alpha, beta) cannot be a ciphertext under modulus
// p, or "" if it can. alpha is a power of g so it lies in [1, p-1]; beta is
// reduced mod p.
func pairFault(p, alpha, beta *big.Int) string {
	switch {
	case alpha.Sign() <= 0:
		return "alpha must be positive"
	case alpha.Cmp(p) >= 0:
		return "alpha not below p"
	case beta.Cmp(p) >= 0:
		return "beta not below p"
	}
	return ""
}

// inverseShared returns alpha^(p-1-x) mod p, the inverse of alpha^x.
func inverseShared(b *keys.KeyBundle, alpha *big.Int) *big.Int {
	e := modarith.MinusOne(b.P)
	e.Sub(e, b.X)
	return modarith.Exp(alpha, e, b.P)
}
