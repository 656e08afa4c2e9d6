// Package rng provides the random number streams consumed by the battle
// engine. Every draw the engine makes flows through a Source so that a
// battle replayed with the same seed produces identical results.
package rng

import (
	"crypto/rand"
	"math/big"
	mathrand "math/rand/v2"
)

// Source produces uniformly distributed random values.
// Implementations need not be safe for concurrent use; each battle
// session owns its own stream.
type Source interface {
	// Intn returns a random int in [0, n). Panics if n <= 0.
	Intn(n int) int
	// Float64 returns a random float64 in [0.0, 1.0).
	Float64() float64
}

// seededSource implements Source using a deterministic PCG generator.
//
// Invariant: two seededSources constructed with the same seed pair produce
// identical draw sequences.
type seededSource struct {
	r *mathrand.Rand
}

// NewSeededSource returns a deterministic Source seeded with seed.
//
// Postcondition: the returned Source replays the same sequence for the
// same seed.
func NewSeededSource(seed uint64) Source {
	return &seededSource{r: mathrand.New(mathrand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Intn returns a deterministic random int in [0, n).
//
// Precondition: n > 0. Panics with "rng: Intn called with n <= 0" if n <= 0.
func (s *seededSource) Intn(n int) int {
	if n <= 0 {
		panic("rng: Intn called with n <= 0")
	}
	return s.r.IntN(n)
}

// Float64 returns a deterministic random float64 in [0.0, 1.0).
func (s *seededSource) Float64() float64 {
	return s.r.Float64()
}

// cryptoSource implements Source using crypto/rand, for sessions where
// replayability is not wanted (e.g. ranked matches).
type cryptoSource struct{}

// NewCryptoSource returns a Source backed by crypto/rand.
//
// Postcondition: every value returned by Intn is in [0, n).
func NewCryptoSource() Source {
	return &cryptoSource{}
}

// Intn returns a cryptographically secure random int in [0, n).
//
// Precondition: n > 0. Panics with "rng: Intn called with n <= 0" if n <= 0.
// Panics with "rng: crypto/rand failure: <err>" if crypto/rand fails.
func (c *cryptoSource) Intn(n int) int {
	if n <= 0 {
		panic("rng: Intn called with n <= 0")
	}
	val, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("rng: crypto/rand failure: " + err.Error())
	}
	return int(val.Int64())
}

// Float64 returns a cryptographically secure random float64 in [0.0, 1.0).
// The value is built from 53 random bits, matching math/rand precision.
func (c *cryptoSource) Float64() float64 {
	const mantissaBits = 1 << 53
	val, err := rand.Int(rand.Reader, big.NewInt(mantissaBits))
	if err != nil {
		panic("rng: crypto/rand failure: " + err.Error())
	}
	return float64(val.Int64()) / float64(mantissaBits)
}
