package agent

import (
	"errors"

	"zombies/internal/genotype"
	"zombies/internal/rng"
)

// Factory builds random individuals of one species at random grid cells.
type Factory struct {
	Species  Species
	Decoder  genotype.Decoder
	Size     int
	Strength float64
	Width    int
	Height   int
}

func (f Factory) Phenotype(src rng.Source) (*Phenotype, error) {
	if f.Width <= 0 || f.Height <= 0 {
		return nil, errors.New("factory grid dimensions must be positive")
	}
	c, err := genotype.Construct(f.Decoder, f.Species.Tag(), src)
	if err != nil {
		return nil, err
	}
	x := src.Intn(f.Width)
	y := src.Intn(f.Height)
	return New(f.Species, c, x, y, f.Strength)
}

func (f Factory) Population(src rng.Source) (*Population, error) {
	if f.Size < 0 {
		return nil, errors.New("factory population size must not be negative")
	}
	pop, err := NewPopulation(f.Species)
	if err != nil {
		return nil, err
	}
	for i := 0; i < f.Size; i++ {
		ph, err := f.Phenotype(src)
		if err != nil {
			return nil, err
		}
		if err := pop.Add(ph); err != nil {
			return nil, err
		}
	}
	return pop, nil
}
