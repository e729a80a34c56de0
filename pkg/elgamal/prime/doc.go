// Package prime implements the number-theoretic primitives the key manager
// builds on: a small-prime sieve, the Miller-Rabin probabilistic test, and
// randomized searches for large primes and safe primes.
//
// Every function that needs randomness takes an io.Reader. Passing nil uses
// crypto/rand.Reader; tests pass a seeded reader for reproducible runs.
//
// # Unbounded Searches
//
// GenerateLargePrime and GenerateSafePrime retry until they find a prime.
// Primes near 2^L have density about 1/(L ln 2), so the expected number of
// odd candidates is small, but there is no hard bound. Both functions check
// the context between candidates and accept WithMaxAttempts to cap the loop.
package prime
