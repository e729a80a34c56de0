// Package primroot finds generators of the multiplicative group modulo a
// prime p.
//
// An element g is a primitive root modulo p iff g^((p-1)/q) != 1 (mod p) for
// every distinct prime q dividing p-1. IsPrimitiveRoot performs that full
// check against a factorization produced by DistinctPrimeFactors.
//
// # Restricted Check
//
// IsPrimitiveRootRestricted reproduces the legacy two-exponent test, which
// only looks at the factor 2 and the cofactor (p-1)/2. It is exact when p is
// a safe prime (p-1 = 2q with q prime) and can accept non-generators for any
// other p. The key manager only ever uses it as the cheap field validator;
// generation and acceptance of g go through the full check.
package primroot
