package evo

import (
	"fmt"
	"slices"

	"zombies/internal/genotype"
	"zombies/internal/rng"
)

// Manipulator runs an ordered pipeline of operators. The output of one
// operator is the input of the next, so arities must line up.
type Manipulator struct {
	// Probability gates every operator. With a value below 1 each operator
	// draws u and runs only when u < Probability.
	Probability float64

	operators []Operator
}

func NewManipulator(probability float64, ops ...Operator) *Manipulator {
	return &Manipulator{Probability: probability, operators: slices.Clone(ops)}
}

func (m *Manipulator) Add(op Operator) {
	m.operators = append(m.operators, op)
}

// Remove drops the first operator with the given name.
func (m *Manipulator) Remove(name string) bool {
	i := slices.IndexFunc(m.operators, func(op Operator) bool { return op.Name() == name })
	if i < 0 {
		return false
	}
	m.operators = slices.Delete(m.operators, i, i+1)
	return true
}

func (m *Manipulator) Clear() {
	m.operators = nil
}

func (m *Manipulator) Operators() []Operator {
	return slices.Clone(m.operators)
}

// Apply feeds in through the pipeline. A nil result with a nil error means
// some operator produced no offspring and the remaining ones were skipped.
func (m *Manipulator) Apply(src rng.Source, in []genotype.Chromosome) ([]genotype.Chromosome, error) {
	current := in
	for _, op := range m.operators {
		if m.Probability < 1 && !(src.Float64() < m.Probability) {
			continue
		}
		out, err := op.Apply(src, current)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op.Name(), err)
		}
		if len(out) == 0 {
			return nil, nil
		}
		current = out
	}
	return current, nil
}
