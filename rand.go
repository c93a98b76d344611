package visualcrypt

import "math/rand/v2"

// Rand supplies the randomness the encoder consumes: one threshold draw and
// one slot permutation per (pixel, channel). *rand.Rand from math/rand/v2
// satisfies it. Uniformity is all that matters here; the security of the
// scheme rests on the covering design, not on unpredictability of this
// source, so tests may substitute a fully scripted implementation.
type Rand interface {
	// IntN returns a uniform int in [0, n). n must be > 0.
	IntN(n int) int
}

// globalRand adapts the process-global math/rand/v2 source, which is safe
// for concurrent use.
type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// newWorkerRand seeds a private source per scanline worker so parallel bands
// do not contend on the global source's lock.
func newWorkerRand() Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}
