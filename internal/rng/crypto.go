package rng

import (
	"crypto/rand"
	"math/big"
)

// Crypto draws from the operating system's entropy source. Live shuffles
// and room codes must use this generator; Seeded exists for tests only.
type Crypto struct{}

// Intn returns a uniform random int in [0, n)
func (c Crypto) Intn(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic(err)
	}

	return int(v.Int64())
}
