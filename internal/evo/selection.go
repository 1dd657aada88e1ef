package evo

import (
	"errors"
	"fmt"

	"zombies/internal/agent"
	"zombies/internal/genotype"
	"zombies/internal/rng"
)

var ErrEmptyPopulation = errors.New("population is empty")

// Selector chooses chromosomes from a population for manipulation.
type Selector interface {
	Name() string
	Select(src rng.Source, pop *agent.Population) ([]genotype.Chromosome, error)
}

// RouletteSelector draws Count members with probability proportional to
// fitness, with replacement. The returned chromosomes are the members' own.
type RouletteSelector struct {
	Count int
}

func (RouletteSelector) Name() string {
	return "roulette"
}

func (s RouletteSelector) Select(src rng.Source, pop *agent.Population) ([]genotype.Chromosome, error) {
	if s.Count < 0 {
		return nil, fmt.Errorf("invalid selection count: %d", s.Count)
	}
	if pop == nil || pop.Len() == 0 {
		return nil, ErrEmptyPopulation
	}
	members := pop.Snapshot()
	weights := make([]float64, len(members))
	for i, m := range members {
		weights[i] = m.Fitness
	}
	out := make([]genotype.Chromosome, 0, s.Count)
	for i := 0; i < s.Count; i++ {
		out = append(out, members[Pick(src, weights)].Chromosome())
	}
	return out, nil
}

// Pick spins the wheel once over weights and returns the chosen index.
// Negative weights count as zero. When nothing has positive weight the pick
// is uniform. weights must not be empty.
func Pick(src rng.Source, weights []float64) int {
	total := 0.0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return src.Intn(len(weights))
	}
	u := src.Float64()
	cumulative := 0.0
	for i, w := range weights {
		if w > 0 {
			cumulative += w
		}
		if cumulative/total > u {
			return i
		}
	}
	return len(weights) - 1
}
