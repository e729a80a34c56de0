package keys

import (
	"fmt"
	"log/slog"
	"math/big"

	"github.com/hsiuhsiu/elgamal-go/pkg/elgamal"
	"github.com/hsiuhsiu/elgamal-go/pkg/elgamal/logging"
)

// KeyBundle is the full ElGamal key state. A nil field is unset.
type KeyBundle struct {
	P *big.Int // prime modulus
	G *big.Int // generator
	Y *big.Int // public key
	X *big.Int // private exponent
	K *big.Int // session key
}

// PublicKey is the (p, g, y) triple that may be shared.
type PublicKey struct {
	P, G, Y *big.Int
}

// Clone returns a deep copy. Cloning a nil bundle yields an empty one.
func (b *KeyBundle) Clone() *KeyBundle {
	if b == nil {
		return &KeyBundle{}
	}
	return &KeyBundle{
		P: cloneInt(b.P),
		G: cloneInt(b.G),
		Y: cloneInt(b.Y),
		X: cloneInt(b.X),
		K: cloneInt(b.K),
	}
}

// Equal reports whether both bundles hold the same values field by field.
func (b *KeyBundle) Equal(other *KeyBundle) bool {
	if b == nil || other == nil {
		return b == other
	}
	return equalInt(b.P, other.P) &&
		equalInt(b.G, other.G) &&
		equalInt(b.Y, other.Y) &&
		equalInt(b.X, other.X) &&
		equalInt(b.K, other.K)
}

// Public returns a copy of the public triple.
func (b *KeyBundle) Public() PublicKey {
	return PublicKey{P: cloneInt(b.P), G: cloneInt(b.G), Y: cloneInt(b.Y)}
}

// HasPublic reports whether P, G and Y are set, which is what encryption
// needs.
func (b *KeyBundle) HasPublic() bool {
	return b != nil && b.P != nil && b.G != nil && b.Y != nil
}

// HasPrivate reports whether P and X are set, which is what decryption needs.
func (b *KeyBundle) HasPrivate() bool {
	return b != nil && b.P != nil && b.X != nil
}

// Complete reports whether every field is set.
func (b *KeyBundle) Complete() bool {
	return b.HasPublic() && b.HasPrivate() && b.K != nil
}

// Validate runs every validator over the set fields and reports the first
// failure as ErrInvalidKey. Unset fields are not an error here; use
// HasPublic, HasPrivate or Complete for that.
func (b *KeyBundle) Validate() error {
	const op = "KeyBundle.Validate"
	if b == nil || b.P == nil {
		return elgamal.Errorf(op, elgamal.ErrKeysNotConfigured, "modulus unset")
	}
	if !ValidP(b.P) {
		return elgamal.Errorf(op, elgamal.ErrInvalidKey, "p must exceed 256")
	}
	if b.G != nil && !ValidG(b.G, b.P) {
		return elgamal.Errorf(op, elgamal.ErrInvalidKey, "g is not a primitive root")
	}
	if b.X != nil && !ValidX(b.X, b.P) {
		return elgamal.Errorf(op, elgamal.ErrInvalidKey, "x outside (2, p-1)")
	}
	if b.Y != nil && b.G != nil && b.X != nil && !ValidY(b.Y, b.P, b.G, b.X) {
		return elgamal.Errorf(op, elgamal.ErrInvalidKey, "y != g^x mod p")
	}
	if b.K != nil && !ValidK(b.K, b.P) {
		return elgamal.Errorf(op, elgamal.ErrInvalidKey, "k outside (1, p) or not coprime to p")
	}
	return nil
}

// Wipe zeroizes the private exponent and session key and unsets them.
func (b *KeyBundle) Wipe() {
	if b == nil {
		return
	}
	elgamal.ZeroizeInt(b.X)
	elgamal.ZeroizeInt(b.K)
	b.X, b.K = nil, nil
}

// String describes the bundle without revealing X or K.
func (b *KeyBundle) String() string {
	if b == nil {
		return "KeyBundle(nil)"
	}
	return fmt.Sprintf("KeyBundle{p: %s, g: %s, y: %s, x: %s, k: %s}",
		describe(b.P), describe(b.G), describe(b.Y), secret(b.X), secret(b.K))
}

// LogValue keeps the private fields out of structured logs.
func (b *KeyBundle) LogValue() slog.Value {
	if b == nil {
		return slog.StringValue("nil")
	}
	bits := 0
	if b.P != nil {
		bits = b.P.BitLen()
	}
	return slog.GroupValue(
		slog.Int("bits", bits),
		slog.Bool("public", b.HasPublic()),
		logging.Redacted("x"),
		logging.Redacted("k"),
	)
}

func describe(n *big.Int) string {
	if n == nil {
		return "unset"
	}
	return fmt.Sprintf("%d-bit", n.BitLen())
}

func secret(n *big.Int) string {
	if n == nil {
		return "unset"
	}
	return logging.Placeholder()
}

func cloneInt(n *big.Int) *big.Int {
	if n == nil {
		return nil
	}
	return new(big.Int).Set(n)
}

func equalInt(a, b *big.Int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Cmp(b) == 0
}
