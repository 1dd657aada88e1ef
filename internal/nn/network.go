package nn

import (
	"errors"
	"fmt"
)

var ErrDimensionMismatch = errors.New("network dimension mismatch")

// Topology lists layer sizes from the sensory layer to the output layer.
type Topology []int

// ReferenceTopology is the 8-5-3 network every individual carries.
var ReferenceTopology = Topology{8, 5, 3}

// Validate requires at least an input and an output layer of positive size.
func (t Topology) Validate() error {
	if len(t) < 2 {
		return fmt.Errorf("%w: topology needs at least 2 layers, got %d", ErrDimensionMismatch, len(t))
	}
	for i, n := range t {
		if n <= 0 {
			return fmt.Errorf("%w: layer %d has size %d", ErrDimensionMismatch, i, n)
		}
	}
	return nil
}

// WeightShape is rows x columns of the weight matrix feeding layer.
// Layer 0 takes exactly one input per unit.
func (t Topology) WeightShape(layer int) (rows, cols int) {
	if layer == 0 {
		return t[0], 1
	}
	return t[layer], t[layer-1]
}

// Network is a decoded, layered feed-forward network. Weights[l][i][j] connects
// unit j of layer l-1 to unit i of layer l; Thresholds[l][i] is subtracted from
// the weighted sum of unit i.
type Network struct {
	Topology   Topology
	Weights    [][][]float64
	Thresholds [][]float64

	activation ActivationFunc
}

// New validates the weight and threshold shapes against topology.
func New(topology Topology, weights [][][]float64, thresholds [][]float64, activation string) (*Network, error) {
	if err := topology.Validate(); err != nil {
		return nil, err
	}
	if len(weights) != len(topology) || len(thresholds) != len(topology) {
		return nil, fmt.Errorf("%w: %d layers, got %d weight and %d threshold layers",
			ErrDimensionMismatch, len(topology), len(weights), len(thresholds))
	}
	for l := range topology {
		rows, cols := topology.WeightShape(l)
		if len(weights[l]) != rows {
			return nil, fmt.Errorf("%w: layer %d weights have %d rows, want %d", ErrDimensionMismatch, l, len(weights[l]), rows)
		}
		for i, row := range weights[l] {
			if len(row) != cols {
				return nil, fmt.Errorf("%w: layer %d row %d has %d columns, want %d", ErrDimensionMismatch, l, i, len(row), cols)
			}
		}
		if len(thresholds[l]) != rows {
			return nil, fmt.Errorf("%w: layer %d has %d thresholds, want %d", ErrDimensionMismatch, l, len(thresholds[l]), rows)
		}
	}
	if activation == "" {
		activation = DefaultActivation
	}
	fn, err := GetActivation(activation)
	if err != nil {
		return nil, err
	}
	return &Network{
		Topology:   topology,
		Weights:    weights,
		Thresholds: thresholds,
		activation: fn,
	}, nil
}

// Forward propagates inputs through every layer. The sensory layer scales each
// input by its single weight and is not squashed.
func (n *Network) Forward(inputs []float64) ([]float64, error) {
	if len(inputs) != n.Topology[0] {
		return nil, fmt.Errorf("%w: got %d inputs, want %d", ErrDimensionMismatch, len(inputs), n.Topology[0])
	}

	values := make([]float64, len(inputs))
	for i, x := range inputs {
		values[i] = n.Weights[0][i][0]*x - n.Thresholds[0][i]
	}

	for l := 1; l < len(n.Topology); l++ {
		next := make([]float64, n.Topology[l])
		for i := range next {
			total := -n.Thresholds[l][i]
			for j, x := range values {
				total += n.Weights[l][i][j] * x
			}
			next[i] = n.activation(total)
		}
		values = next
	}
	return values, nil
}

// Decide runs Forward and discretizes the outputs into a Direction.
func (n *Network) Decide(inputs []float64) (Direction, error) {
	outputs, err := n.Forward(inputs)
	if err != nil {
		return 0, err
	}
	return DirectionFromOutputs(outputs)
}
