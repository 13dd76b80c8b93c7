package spawn

import "math/rand"

// newSeededRand returns a fresh, independent RNG stream for one sample.
// Grounded on original_source's StdRng::seed_from_u64(seed.wrapping_add(n))
// pattern: every sample gets its own stream keyed by an integer seed rather
// than sharing a single mutable generator.
func newSeededRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewSource(int64(seed)))
}
