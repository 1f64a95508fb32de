// Package rng wraps math/rand with deterministic position tracking.
// Position increments with every draw, enabling save/restore to
// reproduce the exact stream.
package rng

import "math/rand"

// RNG is a seeded random source with a replayable position.
type RNG struct {
	seed int64
	src  *rand.Rand
	pos  int64
}

// New creates a deterministic RNG from a seed.
func New(seed int64) *RNG {
	return &RNG{
		seed: seed,
		src:  rand.New(rand.NewSource(seed)),
	}
}

// Roll returns a random integer in [1, sides].
func (r *RNG) Roll(sides int) int {
	r.pos++
	return r.src.Intn(sides) + 1
}

// IntRange returns a uniform random integer in [min, max] inclusive.
func (r *RNG) IntRange(min, max int) int {
	if max <= min {
		return min
	}
	r.pos++
	return min + r.src.Intn(max-min+1)
}

// Chance returns true with probability p in [0, 1].
func (r *RNG) Chance(p float64) bool {
	r.pos++
	return r.src.Float64() < p
}

// Seed returns the seed this RNG was created from.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Position returns the number of draws made since creation.
func (r *RNG) Position() int64 {
	return r.pos
}

// Restore creates an RNG and advances it to the given position,
// reproducing the exact stream state for save/load.
func Restore(seed int64, position int64) *RNG {
	r := New(seed)
	for i := int64(0); i < position; i++ {
		r.src.Int63()
	}
	r.pos = position
	return r
}
