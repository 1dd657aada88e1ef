// Package rng defines the single random source threaded through every
// stochastic step of the simulation.
package rng

import (
	"fmt"
	"math/rand"
)

// Source is the narrow random interface consumed by operators, selection and
// the interaction engine. *rand.Rand satisfies it.
type Source interface {
	Intn(n int) int
	Float64() float64
}

// New returns a seeded source. The same seed always yields the same run.
func New(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// Scripted replays fixed draws. Integer and float draws are queued separately
// so a test can script each kind in call order. When a queue runs dry the
// Fallback source is used; without one the call panics.
type Scripted struct {
	Ints     []int
	Floats   []float64
	Fallback Source

	intCalls   int
	floatCalls int
}

func (s *Scripted) Intn(n int) int {
	if n <= 0 {
		panic(fmt.Sprintf("rng: invalid argument to Intn: %d", n))
	}
	if s.intCalls < len(s.Ints) {
		v := s.Ints[s.intCalls]
		s.intCalls++
		if v < 0 || v >= n {
			panic(fmt.Sprintf("rng: scripted int %d outside [0,%d) at call %d", v, n, s.intCalls))
		}
		return v
	}
	if s.Fallback != nil {
		return s.Fallback.Intn(n)
	}
	panic(fmt.Sprintf("rng: int script exhausted after %d calls", s.intCalls))
}

func (s *Scripted) Float64() float64 {
	if s.floatCalls < len(s.Floats) {
		v := s.Floats[s.floatCalls]
		s.floatCalls++
		return v
	}
	if s.Fallback != nil {
		return s.Fallback.Float64()
	}
	panic(fmt.Sprintf("rng: float script exhausted after %d calls", s.floatCalls))
}

// Remaining reports how many scripted draws have not been consumed yet.
func (s *Scripted) Remaining() (ints, floats int) {
	return len(s.Ints) - s.intCalls, len(s.Floats) - s.floatCalls
}
