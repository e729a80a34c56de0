// Package elgamal is the root of a reference ElGamal cipher engine over the
// multiplicative group of integers modulo a prime.
//
// The root package carries the pieces every subpackage shares: the error
// taxonomy, the Config knobs, randomness helpers and zeroization. The
// algorithms live in subpackages:
//
//   - prime: small-prime sieve, Miller-Rabin, large and safe prime generation
//   - primroot: factorization of p-1 and primitive root search
//   - keys: the KeyBundle, field validators and the Configure key manager
//   - cipher: byte-stream encryption and decryption to (alpha, beta) pairs
//   - keystore: two-file decimal persistence of a KeyBundle
//   - logging: the notice sink the core reports progress through
//
// # Typical Flow
//
//	bundle, err := keys.Configure(ctx, &keys.KeyBundle{}, keys.WithBits(512))
//	if err != nil {
//	    return err
//	}
//	engine := cipher.NewEngine()
//	if _, err := engine.Encrypt(ctx, bundle, plaintext, ciphertext); err != nil {
//	    return err
//	}
//
// # Security Considerations
//
// This is an educational engine. It makes no attempt at constant-time
// arithmetic or side-channel resistance, and the ciphertext is not
// authenticated. Do not use it to protect real data.
package elgamal
