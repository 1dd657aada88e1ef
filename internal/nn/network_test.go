package nn

import (
	"errors"
	"math"
	"testing"
)

func uniformNetwork(t *testing.T, weight, hiddenTheta, outputTheta float64) *Network {
	t.Helper()
	topology := ReferenceTopology
	weights := make([][][]float64, len(topology))
	thresholds := make([][]float64, len(topology))
	for l := range topology {
		rows, cols := topology.WeightShape(l)
		weights[l] = make([][]float64, rows)
		thresholds[l] = make([]float64, rows)
		for i := range weights[l] {
			weights[l][i] = make([]float64, cols)
			for j := range weights[l][i] {
				if l == 0 {
					weights[l][i][j] = 1
				} else {
					weights[l][i][j] = weight
				}
			}
			switch l {
			case 1:
				thresholds[l][i] = hiddenTheta
			case 2:
				thresholds[l][i] = outputTheta
			}
		}
	}
	net, err := New(topology, weights, thresholds, "")
	if err != nil {
		t.Fatalf("new network: %v", err)
	}
	return net
}

func TestForwardComputesSquashedWeightedSums(t *testing.T) {
	net := uniformNetwork(t, 0.5, 1, 2)
	inputs := []float64{1, 0, 2, 0, 0, 0, 0, 1}

	out, err := net.Forward(inputs)
	if err != nil {
		t.Fatalf("forward: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("expected 3 outputs, got %d", len(out))
	}

	hidden := Sigmoid(0.5*4 - 1)
	want := Sigmoid(0.5*5*hidden - 2)
	for i, got := range out {
		if math.Abs(got-want) > 1e-12 {
			t.Fatalf("output %d: got=%f want=%f", i, got, want)
		}
	}
}

func TestDecideIgnoresInputsWhenWeightsAreZero(t *testing.T) {
	cases := []struct {
		name        string
		outputTheta float64
		want        Direction
	}{
		{name: "low thresholds fire every output", outputTheta: -1, want: West},
		{name: "high thresholds silence every output", outputTheta: 3, want: NorthWest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			net := uniformNetwork(t, 0, 0, tc.outputTheta)
			for _, inputs := range [][]float64{
				{0, 0, 0, 0, 0, 0, 0, 0},
				{5, 4, 3, 2, 1, 0, 9, 9},
			} {
				got, err := net.Decide(inputs)
				if err != nil {
					t.Fatalf("decide: %v", err)
				}
				if got != tc.want {
					t.Fatalf("got=%s want=%s", got, tc.want)
				}
			}
		})
	}
}

func TestForwardRejectsWrongInputWidth(t *testing.T) {
	net := uniformNetwork(t, 0, 0, 0)
	if _, err := net.Forward([]float64{1, 2, 3}); !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got: %v", err)
	}
}

func TestNewRejectsShapeMismatch(t *testing.T) {
	topology := Topology{2, 1}
	good := [][][]float64{{{1}, {1}}, {{0.5, 0.5}}}
	goodTheta := [][]float64{{0, 0}, {0}}

	if _, err := New(topology, good, goodTheta, "sigmoid"); err != nil {
		t.Fatalf("expected valid network, got: %v", err)
	}

	cases := map[string]struct {
		weights    [][][]float64
		thresholds [][]float64
	}{
		"missing layer":    {weights: good[:1], thresholds: goodTheta},
		"short row":        {weights: [][][]float64{{{1}, {1}}, {{0.5}}}, thresholds: goodTheta},
		"extra row":        {weights: [][][]float64{{{1}, {1}, {1}}, {{0.5, 0.5}}}, thresholds: goodTheta},
		"threshold length": {weights: good, thresholds: [][]float64{{0, 0}, {0, 0}}},
	}
	for name, tc := range cases {
		if _, err := New(topology, tc.weights, tc.thresholds, "sigmoid"); !errors.Is(err, ErrDimensionMismatch) {
			t.Fatalf("%s: expected ErrDimensionMismatch, got: %v", name, err)
		}
	}
}

func TestNewRejectsUnknownActivation(t *testing.T) {
	topology := Topology{1, 1}
	_, err := New(topology, [][][]float64{{{1}}, {{1}}}, [][]float64{{0}, {0}}, "nope")
	if !errors.Is(err, ErrActivationNotFound) {
		t.Fatalf("expected ErrActivationNotFound, got: %v", err)
	}
}

func TestDirectionFromOutputsBitWeights(t *testing.T) {
	cases := []struct {
		outputs []float64
		want    Direction
	}{
		{[]float64{0.1, 0.2, 0.3}, NorthWest},
		{[]float64{0.1, 0.2, 0.9}, North},
		{[]float64{0.1, 0.9, 0.3}, NorthEast},
		{[]float64{0.1, 0.9, 0.9}, East},
		{[]float64{0.9, 0.2, 0.3}, SouthEast},
		{[]float64{0.9, 0.2, 0.9}, South},
		{[]float64{0.9, 0.9, 0.3}, SouthWest},
		{[]float64{0.9, 0.9, 0.9}, West},
		{[]float64{0.5, 0.5, 0.5}, NorthWest},
	}
	for _, tc := range cases {
		got, err := DirectionFromOutputs(tc.outputs)
		if err != nil {
			t.Fatalf("decide %v: %v", tc.outputs, err)
		}
		if got != tc.want {
			t.Fatalf("outputs %v: got=%s want=%s", tc.outputs, got, tc.want)
		}
	}
	if _, err := DirectionFromOutputs([]float64{1, 1}); !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got: %v", err)
	}
}

func TestDirectionOffsets(t *testing.T) {
	want := map[Direction][2]int{
		NorthWest: {-1, -1}, North: {0, -1}, NorthEast: {1, -1}, East: {1, 0},
		SouthEast: {1, 1}, South: {0, 1}, SouthWest: {-1, 1}, West: {-1, 0},
	}
	for _, d := range Directions {
		dx, dy := d.Offset()
		if [2]int{dx, dy} != want[d] {
			t.Fatalf("%s: got=(%d,%d) want=%v", d, dx, dy, want[d])
		}
	}
}
