package nn

import "fmt"

// DecisionCut separates a 0 output digit from a 1.
const DecisionCut = 0.5

// Direction is one of the eight compass moves, numbered clockwise from
// north-west. Sensory input i is read from the neighbor in Direction(i).
type Direction int

const (
	NorthWest Direction = iota
	North
	NorthEast
	East
	SouthEast
	South
	SouthWest
	West
)

// Directions lists every move in sensing order.
var Directions = [8]Direction{NorthWest, North, NorthEast, East, SouthEast, South, SouthWest, West}

var directionOffsets = [8][2]int{
	{-1, -1}, {0, -1}, {1, -1}, {1, 0},
	{1, 1}, {0, 1}, {-1, 1}, {-1, 0},
}

var directionNames = [8]string{"NW", "N", "NE", "E", "SE", "S", "SW", "W"}

// Offset is the (dx, dy) step; y grows southward.
func (d Direction) Offset() (dx, dy int) {
	o := directionOffsets[d&7]
	return o[0], o[1]
}

func (d Direction) String() string {
	if d < 0 || d > West {
		return fmt.Sprintf("Direction(%d)", int(d))
	}
	return directionNames[d]
}

// DirectionFromOutputs thresholds three outputs at DecisionCut and reads them
// as bits weighted 4, 2 and 1.
func DirectionFromOutputs(outputs []float64) (Direction, error) {
	if len(outputs) != 3 {
		return 0, fmt.Errorf("%w: decision needs 3 outputs, got %d", ErrDimensionMismatch, len(outputs))
	}
	d := 0
	for _, out := range outputs {
		d <<= 1
		if out > DecisionCut {
			d |= 1
		}
	}
	return Direction(d), nil
}
