package service

import "math/rand/v2"

// RandomSource is the randomness the generator draws from.
// *rand.Rand from math/rand/v2 satisfies it.
type RandomSource interface {
	IntN(n int) int
}

type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// DefaultRandomSource is safe for concurrent use.
func DefaultRandomSource() RandomSource {
	return globalSource{}
}
