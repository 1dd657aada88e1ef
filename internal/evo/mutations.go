package evo

import (
	"zombies/internal/genotype"
	"zombies/internal/rng"
)

// Mutation flips each bit independently with the given probability, in place.
// On a segmented chromosome the species tag segment is never touched.
type Mutation struct {
	Probability float64
}

func (Mutation) Name() string {
	return "mutation"
}

func (Mutation) Arity() int {
	return 1
}

// Apply flips a bit when its draw u satisfies u < Probability, so 0 never
// flips and 1 always does.
func (m Mutation) Apply(src rng.Source, in []genotype.Chromosome) ([]genotype.Chromosome, error) {
	if err := checkArity(m, in); err != nil {
		return nil, err
	}
	switch c := in[0].(type) {
	case *genotype.Matrix:
		for seg := genotype.SegmentSpecies + 1; seg < c.Segments(); seg++ {
			n, _ := c.SegmentLen(seg)
			for i := 0; i < n; i++ {
				if src.Float64() < m.Probability {
					if err := c.Flip(seg, i); err != nil {
						return nil, err
					}
				}
			}
		}
	case *genotype.Bits:
		for i := 0; i < c.Len(); i++ {
			if src.Float64() < m.Probability {
				if err := c.Flip(i); err != nil {
					return nil, err
				}
			}
		}
	default:
		_, err := asMatrix(m, in[0])
		return nil, err
	}
	return []genotype.Chromosome{in[0]}, nil
}

// SpeciesConversion re-tags a human chromosome as a zombie on a clone, leaving
// every other bit as it was. With Probability below 1 a draw u converts iff
// u < Probability; otherwise the input passes through.
type SpeciesConversion struct {
	Probability float64
}

func (SpeciesConversion) Name() string {
	return "species_conversion"
}

func (SpeciesConversion) Arity() int {
	return 1
}

func (s SpeciesConversion) Apply(src rng.Source, in []genotype.Chromosome) ([]genotype.Chromosome, error) {
	if err := checkArity(s, in); err != nil {
		return nil, err
	}
	human, err := asMatrix(s, in[0])
	if err != nil {
		return nil, err
	}
	if s.Probability < 1 && !(src.Float64() < s.Probability) {
		return []genotype.Chromosome{in[0]}, nil
	}
	child := human.CloneMatrix()
	if err := child.Set(genotype.SegmentSpecies, 0, false); err != nil {
		return nil, err
	}
	return []genotype.Chromosome{child}, nil
}
