package genotype

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"zombies/internal/rng"
)

var (
	ErrIndexOutOfRange = errors.New("gene index out of range")
	ErrInvalidBits     = errors.New("invalid bit string")
	ErrEmptyGene       = errors.New("gene has no bits")
)

// Chromosome is the common surface of the flat and segmented genome encodings.
type Chromosome interface {
	Len() int
	String() string
	Clone() Chromosome
	Equal(other Chromosome) bool
}

// Bits is a flat, fixed-length bit vector. Bit 0 is the most significant bit
// when the vector is read as a number.
type Bits struct {
	bits []bool
}

// NewBits fills length bits independently and uniformly at random.
func NewBits(length int, src rng.Source) *Bits {
	out := &Bits{bits: make([]bool, length)}
	for i := range out.bits {
		out.bits[i] = src.Intn(2) == 1
	}
	return out
}

// ParseBits reads a left-to-right string of '0' and '1' characters.
func ParseBits(s string) (*Bits, error) {
	out := &Bits{bits: make([]bool, len(s))}
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '1':
			out.bits[i] = true
		case '0':
		default:
			return nil, fmt.Errorf("%w: %q at offset %d", ErrInvalidBits, s[i], i)
		}
	}
	return out, nil
}

// MustParseBits is ParseBits for literals known to be valid.
func MustParseBits(s string) *Bits {
	b, err := ParseBits(s)
	if err != nil {
		panic(err)
	}
	return b
}

func (b *Bits) Len() int {
	return len(b.bits)
}

func (b *Bits) Bit(i int) (bool, error) {
	if i < 0 || i >= len(b.bits) {
		return false, fmt.Errorf("%w: bit %d of %d", ErrIndexOutOfRange, i, len(b.bits))
	}
	return b.bits[i], nil
}

func (b *Bits) Set(i int, v bool) error {
	if i < 0 || i >= len(b.bits) {
		return fmt.Errorf("%w: bit %d of %d", ErrIndexOutOfRange, i, len(b.bits))
	}
	b.bits[i] = v
	return nil
}

func (b *Bits) Flip(i int) error {
	if i < 0 || i >= len(b.bits) {
		return fmt.Errorf("%w: bit %d of %d", ErrIndexOutOfRange, i, len(b.bits))
	}
	b.bits[i] = !b.bits[i]
	return nil
}

// Gene copies [start, end) into a new flat chromosome.
func (b *Bits) Gene(start, end int) (*Bits, error) {
	if err := checkRange(start, end, len(b.bits)); err != nil {
		return nil, err
	}
	out := &Bits{bits: make([]bool, end-start)}
	copy(out.bits, b.bits[start:end])
	return out, nil
}

// Concat joins b and other into a new vector.
func (b *Bits) Concat(other *Bits) *Bits {
	out := &Bits{bits: make([]bool, 0, len(b.bits)+len(other.bits))}
	out.bits = append(out.bits, b.bits...)
	out.bits = append(out.bits, other.bits...)
	return out
}

func (b *Bits) String() string {
	var sb strings.Builder
	sb.Grow(len(b.bits))
	for _, bit := range b.bits {
		if bit {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

func (b *Bits) Clone() Chromosome {
	return b.clone()
}

func (b *Bits) clone() *Bits {
	out := &Bits{bits: make([]bool, len(b.bits))}
	copy(out.bits, b.bits)
	return out
}

func (b *Bits) Equal(other Chromosome) bool {
	o, ok := other.(*Bits)
	if !ok || o == nil {
		return false
	}
	return b.String() == o.String()
}

// Uint reads the vector as an unsigned binary number, most significant bit first.
func (b *Bits) Uint() *big.Int {
	v := new(big.Int)
	for _, bit := range b.bits {
		v.Lsh(v, 1)
		if bit {
			v.SetBit(v, 0, 1)
		}
	}
	return v
}

// Decimal is Uint as an arbitrary-precision float.
func (b *Bits) Decimal() *big.Float {
	prec := uint(len(b.bits))
	if prec < 64 {
		prec = 64
	}
	return new(big.Float).SetPrec(prec).SetInt(b.Uint())
}

func checkRange(start, end, length int) error {
	if start < 0 || end > length || start > end {
		return fmt.Errorf("%w: [%d,%d) of %d", ErrIndexOutOfRange, start, end, length)
	}
	return nil
}
