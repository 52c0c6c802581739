package grid

import "math/rand"

// FillRand deterministically fills b with bits biased by p (probability a
// given cell is set), using a seeded PRNG so callers get reproducible test
// fixtures.
func FillRand(b *Bits, seed int64, p float64) {
	rng := rand.New(rand.NewSource(seed))
	for i := range b.Data {
		if rng.Float64() < p {
			b.Data[i] = 1
		} else {
			b.Data[i] = 0
		}
	}
}
