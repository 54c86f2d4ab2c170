// Package rng centralizes deterministic random streams for parameter initialization,
// restarts and root selection.
//
// Policy: seed == 0 selects DefaultSeed, any other seed is used verbatim, so the same
// seed reproduces the same models. math/rand.Rand is not goroutine-safe; Derive gives
// each restart or worker its own stream.
package rng

import "math/rand"

// DefaultSeed is used when callers pass seed == 0.
const DefaultSeed int64 = 1

// FromSeed returns a deterministic *rand.Rand for seed.
func FromSeed(seed int64) *rand.Rand {
	if seed == 0 {
		seed = DefaultSeed
	}
	return rand.New(rand.NewSource(seed))
}

// DeriveSeed mixes a parent seed and a stream identifier with a SplitMix64 finalizer,
// so neighbouring streams are decorrelated.
func DeriveSeed(parent int64, stream uint64) int64 {
	x := uint64(parent) ^ (stream + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31
	return int64(x)
}

// Derive returns the stream-th child of seed. Unlike drawing from a shared parent, the
// child does not depend on how many streams were derived before it.
func Derive(seed int64, stream uint64) *rand.Rand {
	if seed == 0 {
		seed = DefaultSeed
	}
	return rand.New(rand.NewSource(DeriveSeed(seed, stream)))
}

// Pick returns a uniformly random index in [0,n), or 0 for n <= 1 without consuming r.
func Pick(r *rand.Rand, n int) int {
	if n <= 1 {
		return 0
	}
	if r == nil {
		r = FromSeed(0)
	}
	return r.Intn(n)
}
