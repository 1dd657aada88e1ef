package genotype

import (
	"fmt"
	"strings"

	"zombies/internal/nn"
	"zombies/internal/rng"
)

// Construct builds a random genome laid out for d, with the species tag set to
// tag.
func Construct(d Decoder, tag bool, src rng.Source) (*Matrix, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	m, err := NewMatrix(d.Shape(), src)
	if err != nil {
		return nil, err
	}
	if err := m.Set(SegmentSpecies, 0, tag); err != nil {
		return nil, err
	}
	return m, nil
}

// ConstructMover builds a genome whose network picks dir for every input.
// All weights decode to the weight lower bound, which must be zero, so the
// outputs depend only on their thresholds: an all-zero threshold gene decodes
// to the lower bound and fires, an all-one gene decodes to the upper bound and
// stays silent.
func ConstructMover(d Decoder, tag bool, dir nn.Direction) (*Matrix, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if d.WeightBounds.Lower != 0 {
		return nil, fmt.Errorf("mover genome needs a zero weight lower bound, got %f", d.WeightBounds.Lower)
	}
	if !(d.ThresholdBounds.Lower < 0 && d.ThresholdBounds.Upper > 0) {
		return nil, fmt.Errorf("mover genome needs thresholds straddling zero, got [%f,%f]",
			d.ThresholdBounds.Lower, d.ThresholdBounds.Upper)
	}
	outputs := d.Topology[len(d.Topology)-1]
	if outputs != 3 {
		return nil, fmt.Errorf("%w: mover genome needs 3 outputs, got %d", nn.ErrDimensionMismatch, outputs)
	}

	shape := d.Shape()
	species := "0"
	if tag {
		species = "1"
	}
	silent := strings.Repeat("1", d.ThresholdWidth)
	firing := strings.Repeat("0", d.ThresholdWidth)

	var thresholds strings.Builder
	thresholds.WriteString(strings.Repeat("0", (d.ThresholdGenes()-outputs)*d.ThresholdWidth))
	for k := 0; k < outputs; k++ {
		bit := int(dir) >> (outputs - 1 - k) & 1
		if bit == 1 {
			thresholds.WriteString(firing)
		} else {
			thresholds.WriteString(silent)
		}
	}

	return ParseMatrix([]string{
		species,
		strings.Repeat("0", shape[SegmentWeights]),
		thresholds.String(),
	})
}
