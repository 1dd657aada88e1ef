package platform

import (
	"fmt"

	"github.com/google/uuid"

	"zombies/internal/agent"
	"zombies/internal/evo"
	"zombies/internal/model"
	"zombies/internal/rng"
	"zombies/internal/scape"
)

// evolvedFitnessScale turns strength into fitness before a generational step.
const evolvedFitnessScale = 0.01

func NewRunID() string {
	return uuid.NewString()
}

// Simulation drives the interaction engine one tick at a time. It owns both
// populations and the grid; nothing else may mutate them between ticks.
type Simulation struct {
	cfg  Config
	rng  rng.Source
	grid *scape.Grid

	engine  *scape.Engine
	humans  *agent.Population
	zombies *agent.Population

	humanPipeline  *evo.Manipulator
	zombiePipeline *evo.Manipulator

	tick        int
	generations int
}

// NewSimulation builds random populations from cfg. Humans are drawn before
// zombies.
func NewSimulation(cfg Config, src rng.Source) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	humans, err := agent.Factory{
		Species:  agent.Human,
		Decoder:  cfg.Decoder(),
		Size:     cfg.Humans,
		Strength: cfg.HumanStrength,
		Width:    cfg.Width,
		Height:   cfg.Height,
	}.Population(src)
	if err != nil {
		return nil, fmt.Errorf("humans: %w", err)
	}
	zombies, err := agent.Factory{
		Species:  agent.Zombie,
		Decoder:  cfg.Decoder(),
		Size:     cfg.Zombies,
		Strength: cfg.ZombieStrength,
		Width:    cfg.Width,
		Height:   cfg.Height,
	}.Population(src)
	if err != nil {
		return nil, fmt.Errorf("zombies: %w", err)
	}
	return newSimulation(cfg, src, humans, zombies)
}

func newSimulation(cfg Config, src rng.Source, humans, zombies *agent.Population) (*Simulation, error) {
	if humans.Species() != agent.Human || zombies.Species() != agent.Zombie {
		return nil, fmt.Errorf("%w: populations given as %s and %s", agent.ErrSpeciesMismatch, humans.Species(), zombies.Species())
	}
	grid, err := scape.NewGrid(cfg.Width, cfg.Height)
	if err != nil {
		return nil, err
	}
	hp, err := cfg.humanPipeline()
	if err != nil {
		return nil, fmt.Errorf("human pipeline: %w", err)
	}
	zp, err := cfg.zombiePipeline()
	if err != nil {
		return nil, fmt.Errorf("zombie pipeline: %w", err)
	}
	return &Simulation{
		cfg:  cfg,
		rng:  src,
		grid: grid,
		engine: &scape.Engine{
			Env:     grid,
			Humans:  humans,
			Zombies: zombies,
			Decoder: cfg.Decoder(),
			Rules:   cfg.Rules,
			RNG:     src,
		},
		humans:         humans,
		zombies:        zombies,
		humanPipeline:  hp,
		zombiePipeline: zp,
	}, nil
}

func (s *Simulation) Humans() *agent.Population { return s.humans }
func (s *Simulation) Zombies() *agent.Population { return s.zombies }
func (s *Simulation) Grid() *scape.Grid { return s.grid }
func (s *Simulation) Ticks() int { return s.tick }
func (s *Simulation) Generations() int { return s.generations }

// Extinct reports whether no human is left.
func (s *Simulation) Extinct() bool {
	return s.humans.Len() == 0
}

// Tick drops food, rebuilds occupancy from the populations and updates every
// zombie and then every human. Each species is iterated over the members it
// had when its turn started: individuals removed earlier in the tick are
// skipped and those born or converted during the tick wait for the next one.
func (s *Simulation) Tick() (model.TickStats, error) {
	s.tick++
	stats := model.TickStats{Tick: s.tick}

	if s.cfg.MaxFood > 0 {
		n := s.rng.Intn(s.cfg.MaxFood)
		for i := 0; i < n; i++ {
			x := s.rng.Intn(s.cfg.Width)
			y := s.rng.Intn(s.cfg.Height)
			if err := s.grid.AddFood(x, y); err != nil {
				return stats, err
			}
		}
		stats.FoodSpawned = n
	}

	s.grid.ResetOccupancy()
	if err := s.grid.Place(s.humans); err != nil {
		return stats, fmt.Errorf("place humans: %w", err)
	}
	if err := s.grid.Place(s.zombies); err != nil {
		return stats, fmt.Errorf("place zombies: %w", err)
	}

	for _, phase := range []*agent.Population{s.zombies, s.humans} {
		for i, p := range phase.Snapshot() {
			if !phase.Contains(p) {
				continue
			}
			out, err := s.engine.Update(p)
			if err != nil {
				return stats, fmt.Errorf("tick %d: %s %d: %w", s.tick, phase.Species(), i, err)
			}
			record(&stats, out)
		}
	}

	if s.cfg.EvolveEvery > 0 && s.tick%s.cfg.EvolveEvery == 0 {
		if err := s.Evolve(); err != nil {
			return stats, fmt.Errorf("tick %d: %w", s.tick, err)
		}
		stats.Evolved = true
	}

	stats.Humans = s.humans.Len()
	stats.Zombies = s.zombies.Len()
	stats.FoodOnGrid = s.grid.TotalFood()
	stats.MeanHumanStrength = s.humans.MeanStrength()
	stats.MeanZombieStrength = s.zombies.MeanStrength()
	return stats, nil
}

// Evolve replaces each non-empty population with its next generation.
// Fitness is the current strength scaled down.
func (s *Simulation) Evolve() error {
	strategy := evo.Explicit{
		Strength: s.cfg.EvolvedStrength,
		Width:    s.cfg.Width,
		Height:   s.cfg.Height,
		Fitness:  evo.StrengthFitness{Scale: evolvedFitnessScale},
	}
	if s.humans.Len() > 0 {
		next, err := strategy.Evolve(s.rng, s.humans, evo.RouletteSelector{Count: 2}, s.humanPipeline)
		if err != nil {
			return fmt.Errorf("evolve humans: %w", err)
		}
		s.humans = next
		s.engine.Humans = next
	}
	if s.zombies.Len() > 0 {
		next, err := strategy.Evolve(s.rng, s.zombies, evo.RouletteSelector{Count: 1}, s.zombiePipeline)
		if err != nil {
			return fmt.Errorf("evolve zombies: %w", err)
		}
		s.zombies = next
		s.engine.Zombies = next
	}
	s.generations++
	return nil
}

func record(stats *model.TickStats, out scape.Outcome) {
	stats.FoodEaten += out.FoodEaten
	if out.Offspring != nil {
		stats.Births++
	}
	if out.Duel == nil {
		return
	}
	if !out.Duel.ZombieWon {
		stats.ZombieDeaths++
	} else if out.Duel.Converted != nil {
		stats.Conversions++
	}
}
