// Package keys holds the ElGamal KeyBundle, the pure field validators and
// the Configure key manager that fills in or replaces missing and invalid
// fields.
//
// # Fields
//
//   - P: prime modulus, public
//   - G: primitive root modulo P, public
//   - Y: public key, G^X mod P
//   - X: private exponent, 2 < X < P-1
//   - K: session key, 1 < K < P and gcd(K, P) = 1
//
// # Configure
//
// Configure never mutates its input. Every field the caller supplied is kept
// when it passes validation and is regenerated otherwise, with a Warn notice
// naming the field. WithStrict turns those replacements into ErrInvalidKey.
// Replacing P invalidates everything derived from it, so G, X, Y and K are
// regenerated along with it.
//
//	bundle, err := keys.Configure(ctx, &keys.KeyBundle{X: x}, keys.WithBits(512))
package keys
