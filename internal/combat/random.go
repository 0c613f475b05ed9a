package combat

import "math/rand"

// Random is the injectable source of every combat roll (miss, variance,
// critical, ring-effect procs). The teacher sources randomness directly
// from math/rand as a package-level global (world.RandInt); here it is a
// collaborator passed into Resolver so tests can swap in a deterministic
// stub without touching package state.
type Random interface {
	Float64() float64 // [0,1)
}

// SeededRandom wraps math/rand.Rand for production use.
type SeededRandom struct {
	r *rand.Rand
}

func NewSeededRandom(seed int64) *SeededRandom {
	return &SeededRandom{r: rand.New(rand.NewSource(seed))}
}

func (s *SeededRandom) Float64() float64 { return s.r.Float64() }

// FixedRandom always returns the same value; used by tests to force a
// guaranteed hit/miss/crit outcome.
type FixedRandom struct {
	Value float64
}

func (f FixedRandom) Float64() float64 { return f.Value }
