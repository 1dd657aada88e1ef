// Package agent holds the individuals of the simulation and the populations
// that own them.
package agent

import (
	"errors"
	"fmt"

	"zombies/internal/genotype"
)

var ErrSpeciesMismatch = errors.New("species mismatch")

// Species is read from the tag bit of a chromosome: 1 is human, 0 is zombie.
type Species int

const (
	Zombie Species = iota
	Human
)

func (s Species) String() string {
	switch s {
	case Human:
		return "human"
	case Zombie:
		return "zombie"
	default:
		return fmt.Sprintf("Species(%d)", int(s))
	}
}

// Tag is the species bit value.
func (s Species) Tag() bool {
	return s == Human
}

// Opponent is the species s hunts or flees.
func (s Species) Opponent() Species {
	if s == Human {
		return Zombie
	}
	return Human
}

// SpeciesOf reads bit 0 of segment 0.
func SpeciesOf(c *genotype.Matrix) (Species, error) {
	tag, err := c.Bit(genotype.SegmentSpecies, 0)
	if err != nil {
		return 0, fmt.Errorf("species tag: %w", err)
	}
	if tag {
		return Human, nil
	}
	return Zombie, nil
}

// Phenotype is one individual. Its species is never stored separately; it is
// always the tag bit of the chromosome it carries.
type Phenotype struct {
	Strength float64
	X, Y     int
	Fitness  float64

	chromosome *genotype.Matrix
}

// New takes ownership of c and writes the tag bit for species into it.
func New(species Species, c *genotype.Matrix, x, y int, strength float64) (*Phenotype, error) {
	if c == nil {
		return nil, errors.New("chromosome is required")
	}
	if err := c.Set(genotype.SegmentSpecies, 0, species.Tag()); err != nil {
		return nil, fmt.Errorf("species tag: %w", err)
	}
	return &Phenotype{
		Strength:   strength,
		X:          x,
		Y:          y,
		chromosome: c,
	}, nil
}

func NewHuman(c *genotype.Matrix, x, y int, strength float64) (*Phenotype, error) {
	return New(Human, c, x, y, strength)
}

func NewZombie(c *genotype.Matrix, x, y int, strength float64) (*Phenotype, error) {
	return New(Zombie, c, x, y, strength)
}

func (p *Phenotype) Chromosome() *genotype.Matrix {
	return p.chromosome
}

// SetChromosome replaces the genome. The species follows the new tag bit, so
// callers that must keep the species pass a chromosome tagged accordingly.
func (p *Phenotype) SetChromosome(c *genotype.Matrix) error {
	if c == nil {
		return errors.New("chromosome is required")
	}
	if _, err := SpeciesOf(c); err != nil {
		return err
	}
	p.chromosome = c
	return nil
}

// Species panics only if the chromosome lost its tag segment, which the
// constructors rule out.
func (p *Phenotype) Species() Species {
	s, err := SpeciesOf(p.chromosome)
	if err != nil {
		panic(err)
	}
	return s
}

func (p *Phenotype) IsHuman() bool {
	return p.Species() == Human
}

func (p *Phenotype) String() string {
	return fmt.Sprintf("%s@(%d,%d) strength=%.2f", p.Species(), p.X, p.Y, p.Strength)
}
