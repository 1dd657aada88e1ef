package evo

import (
	"fmt"
	"math"

	"zombies/internal/agent"
	"zombies/internal/genotype"
)

// FitnessFunction scores one individual.
type FitnessFunction interface {
	Evaluate(p *agent.Phenotype) (float64, error)
}

type FitnessFunc func(p *agent.Phenotype) (float64, error)

func (f FitnessFunc) Evaluate(p *agent.Phenotype) (float64, error) {
	return f(p)
}

// AssignFitness stores fn's score on every member of pop.
func AssignFitness(pop *agent.Population, fn FitnessFunction) error {
	for _, m := range pop.Snapshot() {
		v, err := fn.Evaluate(m)
		if err != nil {
			return fmt.Errorf("evaluate %s: %w", m, err)
		}
		m.Fitness = v
	}
	return nil
}

// StrengthFitness is strength scaled by Scale.
type StrengthFitness struct {
	Scale float64
}

func (f StrengthFitness) Evaluate(p *agent.Phenotype) (float64, error) {
	return p.Strength * f.Scale, nil
}

// ValueFitness decodes a whole segment as one gene onto Bounds and scores it
// as 1 - |tan(v)|, which peaks where v is a multiple of pi.
type ValueFitness struct {
	Segment int
	Bounds  genotype.Bounds
}

func (f ValueFitness) Evaluate(p *agent.Phenotype) (float64, error) {
	c := p.Chromosome()
	n, err := c.SegmentLen(f.Segment)
	if err != nil {
		return 0, err
	}
	gene, err := c.Gene(f.Segment, 0, n)
	if err != nil {
		return 0, err
	}
	v, err := genotype.MapGene(gene, f.Bounds)
	if err != nil {
		return 0, err
	}
	return 1 - math.Abs(math.Tan(v)), nil
}
