package genotype

import (
	"errors"
	"testing"

	"zombies/internal/rng"
)

func TestNewMatrixFollowsTemplateShape(t *testing.T) {
	shape := []int{1, 275, 45}
	m, err := NewMatrix(shape, rng.New(5))
	if err != nil {
		t.Fatalf("new matrix: %v", err)
	}
	got := m.Lens()
	for i := range shape {
		if got[i] != shape[i] {
			t.Fatalf("segment %d: got=%d want=%d", i, got[i], shape[i])
		}
	}
	if m.Len() != 321 {
		t.Fatalf("total length: got=%d want=321", m.Len())
	}

	ones := 0
	for _, s := range m.StringSegments() {
		for _, c := range s {
			if c == '1' {
				ones++
			}
		}
	}
	if ones == 0 || ones == m.Len() {
		t.Fatalf("expected mixed random bits, got %d ones of %d", ones, m.Len())
	}
}

func TestNewMatrixRejectsEmptyShape(t *testing.T) {
	if _, err := NewMatrix(nil, rng.New(1)); !errors.Is(err, ErrNoSegments) {
		t.Fatalf("expected ErrNoSegments, got: %v", err)
	}
}

func TestMatrixStringRoundTrip(t *testing.T) {
	src := rng.New(9)
	m, err := NewMatrix([]int{1, 12, 0, 6}, src)
	if err != nil {
		t.Fatalf("new matrix: %v", err)
	}
	parsed, err := ParseMatrixString(m.String())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed.String() != m.String() {
		t.Fatalf("round trip mismatch: got=%s want=%s", parsed, m)
	}
	if !parsed.Equal(m) {
		t.Fatal("expected round-tripped matrix to equal source")
	}
}

func TestMatrixStringJoinsSegments(t *testing.T) {
	m := MustParseMatrix("1", "0110", "01")
	if got := m.String(); got != "1|0110|01" {
		t.Fatalf("got=%s", got)
	}
}

func TestMatrixFullSegmentGeneEqualsSegment(t *testing.T) {
	m := MustParseMatrix("1", "1011001", "011")
	for seg, want := range m.StringSegments() {
		n, err := m.SegmentLen(seg)
		if err != nil {
			t.Fatalf("segment len: %v", err)
		}
		gene, err := m.Gene(seg, 0, n)
		if err != nil {
			t.Fatalf("gene: %v", err)
		}
		if gene.String() != want {
			t.Fatalf("segment %d: got=%s want=%s", seg, gene, want)
		}
	}
}

func TestMatrixGeneBounds(t *testing.T) {
	m := MustParseMatrix("1", "1011001", "011")
	cases := []struct {
		name               string
		segment, from, end int
	}{
		{name: "negative start", segment: 1, from: -1, end: 2},
		{name: "end past segment", segment: 2, from: 0, end: 4},
		{name: "start after end", segment: 1, from: 4, end: 3},
		{name: "missing segment", segment: 3, from: 0, end: 1},
	}
	for _, tc := range cases {
		if _, err := m.Gene(tc.segment, tc.from, tc.end); !errors.Is(err, ErrIndexOutOfRange) {
			t.Fatalf("%s: expected ErrIndexOutOfRange, got: %v", tc.name, err)
		}
	}

	gene, err := m.Extract(Locus{Segment: 1, Offset: 2, Length: 3})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if gene.String() != "110" {
		t.Fatalf("extract: got=%s want=110", gene)
	}
	if _, err := m.Extract(Locus{Segment: 1, Offset: 2, Length: -1}); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange for negative length, got: %v", err)
	}
}

func TestMatrixCloneIsDeep(t *testing.T) {
	m := MustParseMatrix("1", "0000", "11")
	c := m.CloneMatrix()
	if err := c.Flip(1, 2); err != nil {
		t.Fatalf("flip: %v", err)
	}
	if err := c.Set(0, 0, false); err != nil {
		t.Fatalf("set: %v", err)
	}
	if m.String() != "1|0000|11" {
		t.Fatalf("source mutated through clone: %s", m)
	}
	if c.String() != "0|0010|11" {
		t.Fatalf("clone: got=%s", c)
	}
}

func TestMatrixSegmentIsACopy(t *testing.T) {
	m := MustParseMatrix("1", "0000")
	seg, err := m.Segment(1)
	if err != nil {
		t.Fatalf("segment: %v", err)
	}
	_ = seg.Flip(0)
	if m.String() != "1|0000" {
		t.Fatalf("source mutated through segment copy: %s", m)
	}
}
