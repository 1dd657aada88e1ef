package evo

import (
	"fmt"
	"slices"

	"zombies/internal/genotype"
	"zombies/internal/rng"
)

// Crossover recombines two flat parents at one random point. When the
// probability gate fails it passes one parent through unchanged.
type Crossover struct {
	Probability float64
}

func (Crossover) Name() string {
	return "crossover"
}

func (Crossover) Arity() int {
	return 2
}

func (c Crossover) Apply(src rng.Source, in []genotype.Chromosome) ([]genotype.Chromosome, error) {
	if err := checkArity(c, in); err != nil {
		return nil, err
	}
	dad, err := asBits(c, in[0])
	if err != nil {
		return nil, err
	}
	mom, err := asBits(c, in[1])
	if err != nil {
		return nil, err
	}
	if dad.Len() != mom.Len() {
		return nil, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, dad.Len(), mom.Len())
	}

	if src.Float64() > c.Probability {
		return []genotype.Chromosome{in[src.Intn(2)]}, nil
	}

	first, second := dad, mom
	if src.Intn(2) == 1 {
		first, second = mom, dad
	}
	if first.Len() == 0 {
		return []genotype.Chromosome{first.Clone()}, nil
	}
	point := src.Intn(first.Len())
	head, err := first.Gene(0, point)
	if err != nil {
		return nil, err
	}
	tail, err := second.Gene(point, second.Len())
	if err != nil {
		return nil, err
	}
	return []genotype.Chromosome{head.Concat(tail)}, nil
}

// SegmentedCrossover recombines two segmented parents independently in every
// segment after the species tag, with one crossover point per segment drawn
// in [1, len-1]. The child is always tagged human. When the probability gate
// fails there is no offspring.
type SegmentedCrossover struct {
	Probability float64
}

func (SegmentedCrossover) Name() string {
	return "segmented_crossover"
}

func (SegmentedCrossover) Arity() int {
	return 2
}

func (c SegmentedCrossover) Apply(src rng.Source, in []genotype.Chromosome) ([]genotype.Chromosome, error) {
	if err := checkArity(c, in); err != nil {
		return nil, err
	}
	dad, err := asMatrix(c, in[0])
	if err != nil {
		return nil, err
	}
	mom, err := asMatrix(c, in[1])
	if err != nil {
		return nil, err
	}
	if !slices.Equal(dad.Lens(), mom.Lens()) {
		return nil, fmt.Errorf("%w: %v vs %v", ErrLengthMismatch, dad.Lens(), mom.Lens())
	}

	if src.Float64() > c.Probability {
		return nil, nil
	}

	segments := make([]*genotype.Bits, dad.Segments())
	tag, err := dad.Segment(genotype.SegmentSpecies)
	if err != nil {
		return nil, err
	}
	if err := tag.Set(0, true); err != nil {
		return nil, fmt.Errorf("species tag: %w", err)
	}
	segments[genotype.SegmentSpecies] = tag

	for seg := genotype.SegmentSpecies + 1; seg < dad.Segments(); seg++ {
		n, _ := dad.SegmentLen(seg)
		if n < 2 {
			segments[seg], _ = dad.Segment(seg)
			continue
		}
		point := 1 + src.Intn(n-1)
		head, err := dad.Gene(seg, 0, point)
		if err != nil {
			return nil, err
		}
		tail, err := mom.Gene(seg, point, n)
		if err != nil {
			return nil, err
		}
		segments[seg] = head.Concat(tail)
	}

	child, err := genotype.FromSegments(segments...)
	if err != nil {
		return nil, err
	}
	return []genotype.Chromosome{child}, nil
}
