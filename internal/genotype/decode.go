package genotype

import (
	"fmt"
	"math/big"

	"zombies/internal/nn"
)

const (
	DefaultWeightGeneWidth    = 5
	DefaultThresholdGeneWidth = 3
)

// Bounds is the closed real interval a gene is mapped onto.
type Bounds struct {
	Lower float64
	Upper float64
}

var (
	WeightBounds    = Bounds{Lower: 0, Upper: 1}
	ThresholdBounds = Bounds{Lower: -1, Upper: 3}
)

// MapGene maps the unsigned value v of a W-bit gene linearly from
// [0, 2^W-1] onto b.
func MapGene(gene *Bits, b Bounds) (float64, error) {
	width := gene.Len()
	if width == 0 {
		return 0, ErrEmptyGene
	}
	prec := uint(width) + 64

	maxValue := new(big.Int).Lsh(big.NewInt(1), uint(width))
	maxValue.Sub(maxValue, big.NewInt(1))

	value := new(big.Float).SetPrec(prec).SetInt(gene.Uint())
	value.Mul(value, new(big.Float).SetPrec(prec).SetFloat64(b.Upper-b.Lower))
	value.Quo(value, new(big.Float).SetPrec(prec).SetInt(maxValue))
	value.Add(value, new(big.Float).SetPrec(prec).SetFloat64(b.Lower))

	out, _ := value.Float64()
	return out, nil
}

// Decoder turns the weight and threshold segments of a genome into a network.
// Genes are consumed contiguously: layer 1 before layer 2, row-major within a
// layer. The sensory layer is fixed at weight 1 and threshold 0 and consumes no
// genes.
type Decoder struct {
	Topology        nn.Topology
	WeightWidth     int
	ThresholdWidth  int
	WeightBounds    Bounds
	ThresholdBounds Bounds
	Activation      string
}

func DefaultDecoder() Decoder {
	return Decoder{
		Topology:        nn.ReferenceTopology,
		WeightWidth:     DefaultWeightGeneWidth,
		ThresholdWidth:  DefaultThresholdGeneWidth,
		WeightBounds:    WeightBounds,
		ThresholdBounds: ThresholdBounds,
		Activation:      nn.DefaultActivation,
	}
}

func (d Decoder) Validate() error {
	if err := d.Topology.Validate(); err != nil {
		return err
	}
	if d.WeightWidth <= 0 || d.ThresholdWidth <= 0 {
		return fmt.Errorf("gene widths must be positive: weight=%d threshold=%d", d.WeightWidth, d.ThresholdWidth)
	}
	return nil
}

// WeightGenes counts the gene-encoded weights.
func (d Decoder) WeightGenes() int {
	total := 0
	for l := 1; l < len(d.Topology); l++ {
		rows, cols := d.Topology.WeightShape(l)
		total += rows * cols
	}
	return total
}

// ThresholdGenes counts the gene-encoded thresholds.
func (d Decoder) ThresholdGenes() int {
	total := 0
	for l := 1; l < len(d.Topology); l++ {
		total += d.Topology[l]
	}
	return total
}

// Shape is the segment layout a genome needs: the species tag, then the
// weight and threshold segments.
func (d Decoder) Shape() []int {
	return []int{1, d.WeightGenes() * d.WeightWidth, d.ThresholdGenes() * d.ThresholdWidth}
}

// Decode reads a network from c. Segments longer than Shape requires are
// accepted; the trailing bits are ignored.
func (d Decoder) Decode(c *Matrix) (*nn.Network, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	weights := make([][][]float64, len(d.Topology))
	thresholds := make([][]float64, len(d.Topology))

	rows, _ := d.Topology.WeightShape(0)
	weights[0] = make([][]float64, rows)
	for i := range weights[0] {
		weights[0][i] = []float64{1}
	}
	thresholds[0] = make([]float64, rows)

	weightLocus := Locus{Segment: SegmentWeights, Length: d.WeightWidth}
	thetaLocus := Locus{Segment: SegmentThresholds, Length: d.ThresholdWidth}
	for l := 1; l < len(d.Topology); l++ {
		rows, cols := d.Topology.WeightShape(l)
		weights[l] = make([][]float64, rows)
		thresholds[l] = make([]float64, rows)
		for i := 0; i < rows; i++ {
			weights[l][i] = make([]float64, cols)
			for j := 0; j < cols; j++ {
				v, err := d.read(c, weightLocus, d.WeightBounds)
				if err != nil {
					return nil, fmt.Errorf("layer %d weight [%d][%d]: %w", l, i, j, err)
				}
				weights[l][i][j] = v
				weightLocus.Offset += d.WeightWidth
			}
		}
		for i := 0; i < rows; i++ {
			v, err := d.read(c, thetaLocus, d.ThresholdBounds)
			if err != nil {
				return nil, fmt.Errorf("layer %d threshold [%d]: %w", l, i, err)
			}
			thresholds[l][i] = v
			thetaLocus.Offset += d.ThresholdWidth
		}
	}

	return nn.New(d.Topology, weights, thresholds, d.Activation)
}

func (d Decoder) read(c *Matrix, l Locus, b Bounds) (float64, error) {
	gene, err := c.Extract(l)
	if err != nil {
		return 0, err
	}
	return MapGene(gene, b)
}
