package ports

import (
	"math/rand"
)

// RNGPort supplies the random stream used for point jitter.
// Jitter is accepted nondeterminism: the unseeded stream matches the tool's
// interactive behavior, the seeded stream exists so tests and golden renders
// can pin the draw sequence.
type RNGPort interface {
	// JitterStream returns the generator for one layout pass.
	// A zero seed yields a time-seeded, non-reproducible stream.
	JitterStream(seed int64) *rand.Rand
}
