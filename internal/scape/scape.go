// Package scape is the world individuals live in: a wrap-around grid of
// occupancy counters and the rule engine that moves, feeds, breeds and fights
// individuals on it.
package scape

import (
	"errors"
	"fmt"

	"zombies/internal/agent"
	"zombies/internal/nn"
)

var (
	ErrOutOfBounds = errors.New("coordinates outside grid")
	ErrNotResident = errors.New("phenotype not resident at cell")
	ErrSameSpecies = errors.New("duel needs one human and one zombie")
)

// Layer selects which occupancy counter is read.
type Layer int

const (
	FoodLayer Layer = iota
	HumanLayer
	ZombieLayer
)

func (l Layer) String() string {
	switch l {
	case FoodLayer:
		return "food"
	case HumanLayer:
		return "human"
	case ZombieLayer:
		return "zombie"
	default:
		return fmt.Sprintf("Layer(%d)", int(l))
	}
}

// LayerOf is the occupancy layer residents of species s are counted in.
func LayerOf(s agent.Species) Layer {
	if s == agent.Human {
		return HumanLayer
	}
	return ZombieLayer
}

// Environment is the view of the world the engine and the tick driver need.
// Coordinates passed in must already be wrapped.
type Environment interface {
	Width() int
	Height() int
	Wrap(x, y int) (int, int)
	Count(layer Layer, x, y int) (int, error)
	AddFood(x, y int) error
	TakeFood(x, y int) (int, error)
	Add(p *agent.Phenotype, x, y int) error
	Remove(p *agent.Phenotype, x, y int) error
	Last(species agent.Species, x, y int) (*agent.Phenotype, bool)
}

// Sense reads the layer counter of the eight wrapped neighbors of (x, y).
// Input i comes from the neighbor in direction i.
func Sense(env Environment, layer Layer, x, y int) ([]float64, error) {
	if x < 0 || x >= env.Width() || y < 0 || y >= env.Height() {
		return nil, fmt.Errorf("%w: (%d,%d)", ErrOutOfBounds, x, y)
	}
	out := make([]float64, len(nn.Directions))
	for i, d := range nn.Directions {
		dx, dy := d.Offset()
		nx, ny := env.Wrap(x+dx, y+dy)
		n, err := env.Count(layer, nx, ny)
		if err != nil {
			return nil, err
		}
		out[i] = float64(n)
	}
	return out, nil
}
