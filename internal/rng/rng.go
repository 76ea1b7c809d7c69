package rng

import (
	"math/rand/v2"
)

//go:generate mockgen -source=rng.go -destination=mocks/mock_rng.go

// Source is the only way randomness enters the game core. every
// draw is uniform in [0, 1)
type Source interface {
	Float64() float64
}

// Resetter is implemented by sources that can rewind to their
// first draw
type Resetter interface {
	Reset()
}

type Seeded struct {
	seed uint64
	r    *rand.Rand
}

// NewSeeded returns a reproducible source. two sources with the same
// seed produce the same draws
func NewSeeded(seed uint64) *Seeded {
	s := &Seeded{seed: seed}
	s.Reset()
	return s
}

func (s *Seeded) Float64() float64 {
	return s.r.Float64()
}

func (s *Seeded) Reset() {
	s.r = rand.New(rand.NewPCG(s.seed, s.seed^0x9e3779b97f4a7c15))
}

func (s *Seeded) Seed() uint64 {
	return s.seed
}

// New returns a source with a fresh random seed. Seed reports it so
// the run can be replayed
func New() *Seeded {
	return NewSeeded(rand.Uint64())
}

// FromSeed is NewSeeded when seed is set, New otherwise
func FromSeed(seed *uint64) Source {
	if seed == nil {
		return New()
	}
	return NewSeeded(*seed)
}

// Uniform maps a draw onto [-amplitude, amplitude)
func Uniform(src Source, amplitude float64) float64 {
	return (src.Float64()*2 - 1) * amplitude
}
