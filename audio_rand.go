// audio_rand.go - Seeded randomness for reproducible renders

package main

import (
	"math/rand"
	"time"
)

// RandomSource is the single source of musical randomness for a render.
// Every draw happens during planning, never during synthesis, so a plan
// replayed from the same seed and config reproduces the output byte for
// byte no matter how synthesis is scheduled.
type RandomSource struct {
	seed int64
	rng  *rand.Rand
}

func newRandomSource(seed int64) *RandomSource {
	return &RandomSource{
		seed: seed,
		rng:  rand.New(rand.NewSource(seed)),
	}
}

// newRandomSourceFromClock derives a seed from the wall clock. The seed
// is recorded so any heard render can be regenerated exactly.
func newRandomSourceFromClock() *RandomSource {
	return newRandomSource(time.Now().UnixNano())
}

func (r *RandomSource) Seed() int64 {
	return r.seed
}

// Float returns a draw in [0, 1).
func (r *RandomSource) Float() float64 {
	return r.rng.Float64()
}

// Range returns a draw in [lo, hi).
func (r *RandomSource) Range(lo, hi float64) float64 {
	return lo + r.rng.Float64()*(hi-lo)
}

// Intn returns a draw in [0, n).
func (r *RandomSource) Intn(n int) int {
	return r.rng.Intn(n)
}

// NoiseSeed produces a nonzero 23-bit LFSR seed for a noise oscillator.
// Zero would lock the shift register, so it maps to the full mask.
func (r *RandomSource) NoiseSeed() uint32 {
	s := uint32(r.rng.Int63()) & NOISE_LFSR_MASK
	if s == 0 {
		s = NOISE_LFSR_MASK
	}
	return s
}
