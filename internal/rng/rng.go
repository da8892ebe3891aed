package rng

import "math/rand"

// Generator provides a uniform random number source
type Generator interface {
	// Intn will return a random number up to but not including n
	Intn(n int) int
}

// Seeded returns a deterministic generator for the given seed.
// Only tests should rely on a seeded generator; live shuffles must use Crypto.
func Seeded(seed int64) Generator {
	return rand.New(rand.NewSource(seed))
}
