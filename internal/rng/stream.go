// Package rng provides the seedable random stream used by card generation and
// backtesting, plus the two sampling primitives built on top of it.
package rng

import (
	"math/rand/v2"
)

// Source is the minimal random stream the samplers consume.
type Source interface {
	// Float64 returns a uniform value in [0,1).
	Float64() float64
	// IntN returns a uniform value in [0,n). It panics when n <= 0.
	IntN(n int) int
}

// Stream is a PCG-backed Source. A Stream is not safe for concurrent use;
// give each request or backtest its own.
type Stream struct {
	r *rand.Rand
}

// stream increment constant for the PCG second seed word
const pcgIncrement = 0x9e3779b97f4a7c15

// New returns a stream fully determined by seed.
func New(seed int64) *Stream {
	s := uint64(seed)
	return &Stream{r: rand.New(rand.NewPCG(s, s^pcgIncrement))}
}

// NewFromOptional seeds from the first non-nil seed, or from fresh entropy
// when none is set.
func NewFromOptional(seeds ...*int64) *Stream {
	return New(ResolveSeed(seeds...))
}

// ResolveSeed returns the first non-nil seed, or a fresh random one.
func ResolveSeed(seeds ...*int64) int64 {
	for _, seed := range seeds {
		if seed != nil {
			return *seed
		}
	}
	return rand.Int64()
}

func (s *Stream) Float64() float64 {
	return s.r.Float64()
}

func (s *Stream) IntN(n int) int {
	return s.r.IntN(n)
}
