package rng

import (
	"math/rand"
	"time"
)

// Source supplies jitter streams for layout passes.
// Implements ports.RNGPort.
type Source struct{}

// NewSource creates a jitter stream source.
func NewSource() *Source {
	return &Source{}
}

// JitterStream returns a seeded stream for reproducible layouts, or a
// time-seeded stream when seed is zero. The zero-seed path matches the
// tool's interactive behavior: jitter differs between passes and no
// reproducibility is promised.
func (s *Source) JitterStream(seed int64) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return rand.New(rand.NewSource(seed))
}
