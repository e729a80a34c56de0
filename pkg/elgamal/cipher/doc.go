// Package cipher encrypts byte streams into ElGamal (alpha, beta) pair
// streams and back.
//
// Each plaintext byte m becomes one pair:
//
//	alpha = g^k mod p
//	beta  = y^k * m mod p
//
// written as two decimal lines. Decryption recovers m = beta * alpha^(p-1-x)
// mod p, which is beta divided by the shared secret alpha^x, using Fermat's
// little theorem for the inverse.
//
// # Session Keys
//
// SessionPerMessage, the default, draws a fresh k for every Encrypt call, so
// alpha is constant within one message. SessionPerByte draws a fresh k for
// every byte, which hides repeated plaintext bytes. SessionFixed reuses the
// bundle's K across calls; identical bytes then encrypt to identical pairs,
// so it exists only for reproducing known ciphertexts.
package cipher
