package genotype

import (
	"errors"
	"fmt"
	"strings"

	"zombies/internal/rng"
)

// SegmentSeparator joins segments in the canonical string form of a Matrix.
const SegmentSeparator = "|"

// Reference segment layout of an individual's genome.
const (
	SegmentSpecies = iota
	SegmentWeights
	SegmentThresholds
)

var ErrNoSegments = errors.New("chromosome requires at least one segment")

// Locus addresses a gene: Length bits starting at Offset inside Segment.
type Locus struct {
	Segment int
	Offset  int
	Length  int
}

func (l Locus) End() int {
	return l.Offset + l.Length
}

func (l Locus) String() string {
	return fmt.Sprintf("%d[%d:%d]", l.Segment, l.Offset, l.End())
}

// Matrix is an ordered list of independently addressable bit segments.
// Segment boundaries are supplied by the caller and never inferred.
type Matrix struct {
	segments []*Bits
}

// NewMatrix builds a random chromosome with the given segment lengths.
func NewMatrix(shape []int, src rng.Source) (*Matrix, error) {
	if len(shape) == 0 {
		return nil, ErrNoSegments
	}
	m := &Matrix{segments: make([]*Bits, len(shape))}
	for i, n := range shape {
		if n < 0 {
			return nil, fmt.Errorf("segment %d: negative length %d", i, n)
		}
		m.segments[i] = NewBits(n, src)
	}
	return m, nil
}

// ParseMatrix builds a chromosome from one bit string per segment.
func ParseMatrix(segments []string) (*Matrix, error) {
	if len(segments) == 0 {
		return nil, ErrNoSegments
	}
	m := &Matrix{segments: make([]*Bits, len(segments))}
	for i, s := range segments {
		b, err := ParseBits(s)
		if err != nil {
			return nil, fmt.Errorf("segment %d: %w", i, err)
		}
		m.segments[i] = b
	}
	return m, nil
}

// FromSegments assembles a chromosome from copies of segs.
func FromSegments(segs ...*Bits) (*Matrix, error) {
	if len(segs) == 0 {
		return nil, ErrNoSegments
	}
	m := &Matrix{segments: make([]*Bits, len(segs))}
	for i, seg := range segs {
		if seg == nil {
			return nil, fmt.Errorf("segment %d is nil", i)
		}
		m.segments[i] = seg.clone()
	}
	return m, nil
}

// ParseMatrixString reverses Matrix.String.
func ParseMatrixString(s string) (*Matrix, error) {
	return ParseMatrix(strings.Split(s, SegmentSeparator))
}

// MustParseMatrix is ParseMatrix for literals known to be valid.
func MustParseMatrix(segments ...string) *Matrix {
	m, err := ParseMatrix(segments)
	if err != nil {
		panic(err)
	}
	return m
}

func (m *Matrix) Segments() int {
	return len(m.segments)
}

// Len is the total number of bits across all segments.
func (m *Matrix) Len() int {
	total := 0
	for _, seg := range m.segments {
		total += seg.Len()
	}
	return total
}

// Lens returns the length of every segment.
func (m *Matrix) Lens() []int {
	out := make([]int, len(m.segments))
	for i, seg := range m.segments {
		out[i] = seg.Len()
	}
	return out
}

func (m *Matrix) SegmentLen(segment int) (int, error) {
	seg, err := m.segment(segment)
	if err != nil {
		return 0, err
	}
	return seg.Len(), nil
}

// Segment returns a copy of one segment.
func (m *Matrix) Segment(segment int) (*Bits, error) {
	seg, err := m.segment(segment)
	if err != nil {
		return nil, err
	}
	return seg.clone(), nil
}

func (m *Matrix) Bit(segment, index int) (bool, error) {
	seg, err := m.segment(segment)
	if err != nil {
		return false, err
	}
	return seg.Bit(index)
}

func (m *Matrix) Set(segment, index int, v bool) error {
	seg, err := m.segment(segment)
	if err != nil {
		return err
	}
	return seg.Set(index, v)
}

func (m *Matrix) Flip(segment, index int) error {
	seg, err := m.segment(segment)
	if err != nil {
		return err
	}
	return seg.Flip(index)
}

// Gene copies [start, end) of a segment into a new flat chromosome.
func (m *Matrix) Gene(segment, start, end int) (*Bits, error) {
	seg, err := m.segment(segment)
	if err != nil {
		return nil, err
	}
	gene, err := seg.Gene(start, end)
	if err != nil {
		return nil, fmt.Errorf("segment %d: %w", segment, err)
	}
	return gene, nil
}

// Extract is Gene addressed by a Locus.
func (m *Matrix) Extract(l Locus) (*Bits, error) {
	if l.Length < 0 {
		return nil, fmt.Errorf("%w: negative length at %s", ErrIndexOutOfRange, l)
	}
	return m.Gene(l.Segment, l.Offset, l.End())
}

// StringSegments returns the bit string of every segment.
func (m *Matrix) StringSegments() []string {
	out := make([]string, len(m.segments))
	for i, seg := range m.segments {
		out[i] = seg.String()
	}
	return out
}

func (m *Matrix) String() string {
	return strings.Join(m.StringSegments(), SegmentSeparator)
}

func (m *Matrix) Clone() Chromosome {
	return m.CloneMatrix()
}

// CloneMatrix is Clone without the interface conversion.
func (m *Matrix) CloneMatrix() *Matrix {
	out := &Matrix{segments: make([]*Bits, len(m.segments))}
	for i, seg := range m.segments {
		out.segments[i] = seg.clone()
	}
	return out
}

func (m *Matrix) Equal(other Chromosome) bool {
	o, ok := other.(*Matrix)
	if !ok || o == nil {
		return false
	}
	return m.String() == o.String()
}

func (m *Matrix) segment(segment int) (*Bits, error) {
	if segment < 0 || segment >= len(m.segments) {
		return nil, fmt.Errorf("%w: segment %d of %d", ErrIndexOutOfRange, segment, len(m.segments))
	}
	return m.segments[segment], nil
}
