package scape

import (
	"errors"
	"fmt"

	"zombies/internal/agent"
	"zombies/internal/evo"
	"zombies/internal/genotype"
)

// DuelResult reports one encounter. Converted is the zombie the losing human
// turned into, nil when the human won or conversion did not happen.
type DuelResult struct {
	Winner    *agent.Phenotype
	Loser     *agent.Phenotype
	ZombieWon bool
	Converted *agent.Phenotype
	Draw      int
}

// Duel resolves an encounter between a human and a zombie given in either
// order. The draw is uniform in [0, sum+bonus) where sum is the combined
// strength clamped at zero; the zombie wins when the draw reaches the human's
// strength.
//
// A winning zombie pays the duel cost, the human leaves its population and
// the grid, its genome comes back as a new zombie at the same cell and
// strength, and the winner feeds on the humans still at the cell. A winning
// human pays the duel cost and the zombie is removed with zero strength.
func (e *Engine) Duel(a, b *agent.Phenotype) (DuelResult, error) {
	human, zombie, err := classify(a, b)
	if err != nil {
		return DuelResult{}, err
	}

	sum := max(human.Strength+zombie.Strength, 0)
	bound := max(int(sum+float64(e.Rules.ZombieCombatBonus)), 1)
	draw := e.RNG.Intn(bound)

	if float64(draw) < human.Strength {
		human.Strength -= e.Rules.DuelCost
		zombie.Strength = 0
		e.Zombies.Remove(zombie)
		if err := e.evict(zombie); err != nil {
			return DuelResult{}, err
		}
		return DuelResult{Winner: human, Loser: zombie, Draw: draw}, nil
	}

	zombie.Strength -= e.Rules.DuelCost
	result := DuelResult{Winner: zombie, Loser: human, ZombieWon: true, Draw: draw}

	conversion := evo.SpeciesConversion{Probability: e.Rules.ConversionProbability}
	out, err := conversion.Apply(e.RNG, []genotype.Chromosome{human.Chromosome()})
	if err != nil {
		return DuelResult{}, fmt.Errorf("convert %s: %w", human, err)
	}
	e.Humans.Remove(human)
	if err := e.evict(human); err != nil {
		return DuelResult{}, err
	}

	if c, ok := out[0].(*genotype.Matrix); ok && c != human.Chromosome() {
		converted, err := agent.NewZombie(c, human.X, human.Y, human.Strength)
		if err != nil {
			return DuelResult{}, err
		}
		if err := e.Zombies.Add(converted); err != nil {
			return DuelResult{}, err
		}
		if err := e.Env.Add(converted, converted.X, converted.Y); err != nil {
			return DuelResult{}, err
		}
		result.Converted = converted
	}

	remaining, err := e.Env.Count(HumanLayer, human.X, human.Y)
	if err != nil {
		return DuelResult{}, err
	}
	zombie.Strength += e.Rules.ZombieFeedBonus * float64(remaining)
	return result, nil
}

func classify(a, b *agent.Phenotype) (human, zombie *agent.Phenotype, err error) {
	if a == nil || b == nil {
		return nil, nil, errors.New("duel needs two phenotypes")
	}
	switch {
	case a.IsHuman() && !b.IsHuman():
		return a, b, nil
	case !a.IsHuman() && b.IsHuman():
		return b, a, nil
	default:
		return nil, nil, fmt.Errorf("%w: %s vs %s", ErrSameSpecies, a.Species(), b.Species())
	}
}

// evict drops p from the grid if it is registered there. A mover in the
// middle of its update is not.
func (e *Engine) evict(p *agent.Phenotype) error {
	err := e.Env.Remove(p, p.X, p.Y)
	if errors.Is(err, ErrNotResident) {
		return nil
	}
	return err
}
