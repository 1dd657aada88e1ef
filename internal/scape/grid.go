package scape

import (
	"errors"
	"fmt"
	"slices"

	"zombies/internal/agent"
	"zombies/internal/nn"
)

var _ Environment = (*Grid)(nil)

type cell struct {
	food    int
	humans  []*agent.Phenotype
	zombies []*agent.Phenotype
}

func (c *cell) residents(s agent.Species) *[]*agent.Phenotype {
	if s == agent.Human {
		return &c.humans
	}
	return &c.zombies
}

// Grid is a fixed-size torus. Human and zombie occupancy counts are the
// lengths of the per-cell resident lists, so counter and list can never
// disagree.
type Grid struct {
	width  int
	height int
	cells  []cell
}

func NewGrid(width, height int) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("grid dimensions must be positive: %dx%d", width, height)
	}
	return &Grid{width: width, height: height, cells: make([]cell, width*height)}, nil
}

func (g *Grid) Width() int {
	return g.width
}

func (g *Grid) Height() int {
	return g.height
}

// Wrap folds any coordinate onto the torus.
func (g *Grid) Wrap(x, y int) (int, int) {
	return wrap(x, g.width), wrap(y, g.height)
}

func wrap(v, size int) int {
	v %= size
	if v < 0 {
		v += size
	}
	return v
}

// Neighbor is the wrapped cell one step from (x, y) in direction d.
func (g *Grid) Neighbor(x, y int, d nn.Direction) (int, int) {
	dx, dy := d.Offset()
	return g.Wrap(x+dx, y+dy)
}

// Sense reads the layer counter of the eight neighbors of (x, y), indexed by
// direction.
func (g *Grid) Sense(layer Layer, x, y int) ([]float64, error) {
	return Sense(g, layer, x, y)
}

func (g *Grid) Count(layer Layer, x, y int) (int, error) {
	c, err := g.at(x, y)
	if err != nil {
		return 0, err
	}
	switch layer {
	case FoodLayer:
		return c.food, nil
	case HumanLayer:
		return len(c.humans), nil
	case ZombieLayer:
		return len(c.zombies), nil
	default:
		return 0, fmt.Errorf("unknown layer %s", layer)
	}
}

func (g *Grid) Food(x, y int) (int, error) {
	return g.Count(FoodLayer, x, y)
}

func (g *Grid) Humans(x, y int) (int, error) {
	return g.Count(HumanLayer, x, y)
}

func (g *Grid) Zombies(x, y int) (int, error) {
	return g.Count(ZombieLayer, x, y)
}

func (g *Grid) AddFood(x, y int) error {
	c, err := g.at(x, y)
	if err != nil {
		return err
	}
	c.food++
	return nil
}

func (g *Grid) SubtractFood(x, y int) error {
	c, err := g.at(x, y)
	if err != nil {
		return err
	}
	if c.food == 0 {
		return fmt.Errorf("no food at (%d,%d)", x, y)
	}
	c.food--
	return nil
}

// TakeFood empties the food counter of a cell and returns what was there.
func (g *Grid) TakeFood(x, y int) (int, error) {
	c, err := g.at(x, y)
	if err != nil {
		return 0, err
	}
	n := c.food
	c.food = 0
	return n, nil
}

// Add registers p as a resident of (x, y) in the list of its species.
func (g *Grid) Add(p *agent.Phenotype, x, y int) error {
	if p == nil {
		return errors.New("phenotype is required")
	}
	c, err := g.at(x, y)
	if err != nil {
		return err
	}
	list := c.residents(p.Species())
	*list = append(*list, p)
	return nil
}

// Remove drops p from the residents of (x, y).
func (g *Grid) Remove(p *agent.Phenotype, x, y int) error {
	if p == nil {
		return errors.New("phenotype is required")
	}
	c, err := g.at(x, y)
	if err != nil {
		return err
	}
	list := c.residents(p.Species())
	i := slices.Index(*list, p)
	if i < 0 {
		return fmt.Errorf("%w: %s at (%d,%d)", ErrNotResident, p, x, y)
	}
	*list = slices.Delete(*list, i, i+1)
	return nil
}

func (g *Grid) AddHuman(p *agent.Phenotype, x, y int) error {
	return g.addAs(agent.Human, p, x, y)
}

func (g *Grid) RemoveHuman(p *agent.Phenotype, x, y int) error {
	return g.removeAs(agent.Human, p, x, y)
}

func (g *Grid) AddZombie(p *agent.Phenotype, x, y int) error {
	return g.addAs(agent.Zombie, p, x, y)
}

func (g *Grid) RemoveZombie(p *agent.Phenotype, x, y int) error {
	return g.removeAs(agent.Zombie, p, x, y)
}

func (g *Grid) addAs(s agent.Species, p *agent.Phenotype, x, y int) error {
	if p != nil && p.Species() != s {
		return fmt.Errorf("%w: %s added as %s", agent.ErrSpeciesMismatch, p, s)
	}
	return g.Add(p, x, y)
}

func (g *Grid) removeAs(s agent.Species, p *agent.Phenotype, x, y int) error {
	if p != nil && p.Species() != s {
		return fmt.Errorf("%w: %s removed as %s", agent.ErrSpeciesMismatch, p, s)
	}
	return g.Remove(p, x, y)
}

// Last returns the most recently added resident of species s at (x, y).
func (g *Grid) Last(s agent.Species, x, y int) (*agent.Phenotype, bool) {
	c, err := g.at(x, y)
	if err != nil {
		return nil, false
	}
	list := *c.residents(s)
	if len(list) == 0 {
		return nil, false
	}
	return list[len(list)-1], true
}

func (g *Grid) Human(x, y int) (*agent.Phenotype, bool) {
	return g.Last(agent.Human, x, y)
}

func (g *Grid) Zombie(x, y int) (*agent.Phenotype, bool) {
	return g.Last(agent.Zombie, x, y)
}

// Resident reports whether p is registered at its own coordinates.
func (g *Grid) Resident(p *agent.Phenotype) bool {
	c, err := g.at(p.X, p.Y)
	if err != nil {
		return false
	}
	return slices.Contains(*c.residents(p.Species()), p)
}

// Residents copies the resident list of species s at (x, y).
func (g *Grid) Residents(s agent.Species, x, y int) []*agent.Phenotype {
	c, err := g.at(x, y)
	if err != nil {
		return nil
	}
	return slices.Clone(*c.residents(s))
}

// ResetOccupancy clears every resident list. Food is kept.
func (g *Grid) ResetOccupancy() {
	for i := range g.cells {
		g.cells[i].humans = nil
		g.cells[i].zombies = nil
	}
}

// Place registers every member of pop at its current position.
func (g *Grid) Place(pop *agent.Population) error {
	for _, m := range pop.Snapshot() {
		x, y := g.Wrap(m.X, m.Y)
		m.X, m.Y = x, y
		if err := g.Add(m, x, y); err != nil {
			return err
		}
	}
	return nil
}

// TotalFood sums the food counters of every cell.
func (g *Grid) TotalFood() int {
	total := 0
	for i := range g.cells {
		total += g.cells[i].food
	}
	return total
}

func (g *Grid) at(x, y int) (*cell, error) {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		return nil, fmt.Errorf("%w: (%d,%d) on %dx%d", ErrOutOfBounds, x, y, g.width, g.height)
	}
	return &g.cells[y*g.width+x], nil
}
