package evo

import (
	"errors"
	"fmt"

	"zombies/internal/agent"
	"zombies/internal/genotype"
	"zombies/internal/rng"
)

var ErrNoOffspring = errors.New("manipulation produced no offspring")

const DefaultMaxAttempts = 100

// Explicit replaces a population with size-1 offspring bred by selection and
// manipulation, plus the best current member carried over unchanged.
type Explicit struct {
	// Strength is the starting strength of every offspring.
	Strength float64
	Width    int
	Height   int
	// Fitness, when set, is assigned to every member before selection.
	Fitness FitnessFunction
	// MaxAttempts bounds the retries for one offspring whose pipeline
	// yields nothing. Zero means DefaultMaxAttempts.
	MaxAttempts int
}

func (e Explicit) Evolve(src rng.Source, pop *agent.Population, sel Selector, m *Manipulator) (*agent.Population, error) {
	if pop == nil || pop.Len() == 0 {
		return nil, ErrEmptyPopulation
	}
	if e.Width <= 0 || e.Height <= 0 {
		return nil, errors.New("evolution grid dimensions must be positive")
	}
	if e.Fitness != nil {
		if err := AssignFitness(pop, e.Fitness); err != nil {
			return nil, err
		}
	}
	attempts := e.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultMaxAttempts
	}

	next, err := agent.NewPopulation(pop.Species())
	if err != nil {
		return nil, err
	}
	for next.Len() < pop.Len()-1 {
		child, err := e.offspring(src, pop, sel, m, attempts)
		if err != nil {
			return nil, fmt.Errorf("offspring %d: %w", next.Len(), err)
		}
		if err := next.Add(child); err != nil {
			return nil, err
		}
	}
	best, _ := pop.Best()
	if err := next.Add(best); err != nil {
		return nil, err
	}
	return next, nil
}

func (e Explicit) offspring(src rng.Source, pop *agent.Population, sel Selector, m *Manipulator, attempts int) (*agent.Phenotype, error) {
	for i := 0; i < attempts; i++ {
		parents, err := sel.Select(src, pop)
		if err != nil {
			return nil, err
		}
		// Mutation works in place, so parents are never handed over directly.
		for j, p := range parents {
			parents[j] = p.Clone()
		}
		out, err := m.Apply(src, parents)
		if err != nil {
			return nil, err
		}
		if len(out) == 0 {
			continue
		}
		c, ok := out[0].(*genotype.Matrix)
		if !ok {
			return nil, fmt.Errorf("%w: offspring is %T", ErrUnsupportedChromosome, out[0])
		}
		x := src.Intn(e.Width)
		y := src.Intn(e.Height)
		return agent.New(pop.Species(), c, x, y, e.Strength)
	}
	return nil, fmt.Errorf("%w after %d attempts", ErrNoOffspring, attempts)
}
