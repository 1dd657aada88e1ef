package evo

import (
	"errors"
	"fmt"

	"zombies/internal/genotype"
	"zombies/internal/rng"
)

var (
	ErrInvalidArity          = errors.New("invalid operator arity")
	ErrUnsupportedChromosome = errors.New("unsupported chromosome encoding")
	ErrLengthMismatch        = errors.New("parent chromosome lengths differ")
)

// Operator transforms a fixed number of chromosomes into new ones. An empty,
// error-free result means the operator produced no offspring.
type Operator interface {
	Name() string
	Arity() int
	Apply(src rng.Source, in []genotype.Chromosome) ([]genotype.Chromosome, error)
}

func checkArity(op Operator, in []genotype.Chromosome) error {
	if len(in) != op.Arity() {
		return fmt.Errorf("%w: %s takes %d chromosomes, got %d", ErrInvalidArity, op.Name(), op.Arity(), len(in))
	}
	return nil
}

func asMatrix(op Operator, c genotype.Chromosome) (*genotype.Matrix, error) {
	m, ok := c.(*genotype.Matrix)
	if !ok || m == nil {
		return nil, fmt.Errorf("%w: %s needs a segmented chromosome, got %T", ErrUnsupportedChromosome, op.Name(), c)
	}
	return m, nil
}

func asBits(op Operator, c genotype.Chromosome) (*genotype.Bits, error) {
	b, ok := c.(*genotype.Bits)
	if !ok || b == nil {
		return nil, fmt.Errorf("%w: %s needs a flat chromosome, got %T", ErrUnsupportedChromosome, op.Name(), c)
	}
	return b, nil
}
