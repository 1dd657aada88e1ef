package scape

import (
	"errors"
	"fmt"

	"zombies/internal/agent"
	"zombies/internal/evo"
	"zombies/internal/genotype"
	"zombies/internal/nn"
	"zombies/internal/rng"
)

// Rules are the constants of the interaction engine.
type Rules struct {
	UpkeepCost            float64 `json:"upkeep_cost"`
	FoodGain              float64 `json:"food_gain"`
	BreedProbability      float64 `json:"breed_probability"`
	BreedStrengthDivisor  float64 `json:"breed_strength_divisor"`
	OffspringStrength     float64 `json:"offspring_strength"`
	ZombieCombatBonus     int     `json:"zombie_combat_bonus"`
	DuelCost              float64 `json:"duel_cost"`
	ZombieFeedBonus       float64 `json:"zombie_feed_bonus"`
	ConversionProbability float64 `json:"conversion_probability"`
}

func DefaultRules() Rules {
	return Rules{
		UpkeepCost:            1,
		FoodGain:              3,
		BreedProbability:      0.8,
		BreedStrengthDivisor:  100,
		OffspringStrength:     25,
		ZombieCombatBonus:     20,
		DuelCost:              10,
		ZombieFeedBonus:       5,
		ConversionProbability: 1,
	}
}

func (r Rules) Validate() error {
	switch {
	case r.BreedProbability < 0 || r.BreedProbability > 1:
		return fmt.Errorf("breed probability must be in [0,1]: %f", r.BreedProbability)
	case r.ConversionProbability < 0 || r.ConversionProbability > 1:
		return fmt.Errorf("conversion probability must be in [0,1]: %f", r.ConversionProbability)
	case r.BreedStrengthDivisor <= 0:
		return fmt.Errorf("breed strength divisor must be positive: %f", r.BreedStrengthDivisor)
	case r.ZombieCombatBonus < 0:
		return fmt.Errorf("zombie combat bonus must not be negative: %d", r.ZombieCombatBonus)
	}
	return nil
}

// Outcome describes what one update did.
type Outcome struct {
	Individual *agent.Phenotype
	Move       nn.Direction
	FoodEaten  int
	Offspring  *agent.Phenotype
	Duel       *DuelResult
}

// Engine applies one tick of behavior to single individuals. Every mover must
// be resident in Env at its coordinates before its update.
type Engine struct {
	Env     Environment
	Humans  *agent.Population
	Zombies *agent.Population
	Decoder genotype.Decoder
	Rules   Rules
	RNG     rng.Source
}

// Update dispatches on the species of p.
func (e *Engine) Update(p *agent.Phenotype) (Outcome, error) {
	if p.IsHuman() {
		return e.UpdateHuman(p)
	}
	return e.UpdateZombie(p)
}

// UpdateHuman moves h toward the food its network picks, eats what is on the
// new cell and may breed with a human already there.
func (e *Engine) UpdateHuman(h *agent.Phenotype) (Outcome, error) {
	if !h.IsHuman() {
		return Outcome{}, fmt.Errorf("%w: %s updated as human", agent.ErrSpeciesMismatch, h)
	}
	dir, err := e.decide(h, FoodLayer)
	if err != nil {
		return Outcome{}, err
	}
	if err := e.Env.Remove(h, h.X, h.Y); err != nil {
		return Outcome{}, err
	}
	h.Strength -= e.Rules.UpkeepCost
	e.move(h, dir)
	out := Outcome{Individual: h, Move: dir}

	food, err := e.Env.TakeFood(h.X, h.Y)
	if err == nil {
		out.FoodEaten = food
		h.Strength += e.Rules.FoodGain * float64(food)
		if e.RNG.Float64() < e.Rules.BreedProbability {
			if partner, ok := e.Env.Last(agent.Human, h.X, h.Y); ok {
				out.Offspring, err = e.Breed(h, partner)
			}
		}
	}
	if addErr := e.Env.Add(h, h.X, h.Y); addErr != nil {
		return out, errors.Join(err, addErr)
	}
	return out, err
}

// UpdateZombie moves z toward the humans its network picks and duels the
// human last added to the new cell, if any.
func (e *Engine) UpdateZombie(z *agent.Phenotype) (Outcome, error) {
	if z.IsHuman() {
		return Outcome{}, fmt.Errorf("%w: %s updated as zombie", agent.ErrSpeciesMismatch, z)
	}
	dir, err := e.decide(z, HumanLayer)
	if err != nil {
		return Outcome{}, err
	}
	if err := e.Env.Remove(z, z.X, z.Y); err != nil {
		return Outcome{}, err
	}
	z.Strength -= e.Rules.UpkeepCost
	e.move(z, dir)
	out := Outcome{Individual: z, Move: dir}

	if human, ok := e.Env.Last(agent.Human, z.X, z.Y); ok {
		result, err := e.Duel(z, human)
		if err != nil {
			return out, errors.Join(err, e.Env.Add(z, z.X, z.Y))
		}
		out.Duel = &result
		if !result.ZombieWon {
			return out, nil
		}
	}
	return out, e.Env.Add(z, z.X, z.Y)
}

// Breed crosses a and b with a probability proportional to their combined
// strength. A nil child with a nil error means the crossover declined.
func (e *Engine) Breed(a, b *agent.Phenotype) (*agent.Phenotype, error) {
	op := evo.SegmentedCrossover{Probability: (a.Strength + b.Strength) / e.Rules.BreedStrengthDivisor}
	out, err := op.Apply(e.RNG, []genotype.Chromosome{a.Chromosome(), b.Chromosome()})
	if err != nil {
		return nil, fmt.Errorf("breed: %w", err)
	}
	if len(out) == 0 {
		return nil, nil
	}
	c, ok := out[0].(*genotype.Matrix)
	if !ok {
		return nil, fmt.Errorf("%w: offspring is %T", evo.ErrUnsupportedChromosome, out[0])
	}
	child, err := agent.NewHuman(c, a.X, a.Y, e.Rules.OffspringStrength)
	if err != nil {
		return nil, err
	}
	if err := e.Humans.Add(child); err != nil {
		return nil, err
	}
	if err := e.Env.Add(child, child.X, child.Y); err != nil {
		return nil, err
	}
	return child, nil
}

func (e *Engine) decide(p *agent.Phenotype, layer Layer) (nn.Direction, error) {
	inputs, err := Sense(e.Env, layer, p.X, p.Y)
	if err != nil {
		return 0, err
	}
	net, err := e.Decoder.Decode(p.Chromosome())
	if err != nil {
		return 0, fmt.Errorf("decode %s: %w", p, err)
	}
	return net.Decide(inputs)
}

func (e *Engine) move(p *agent.Phenotype, dir nn.Direction) {
	dx, dy := dir.Offset()
	p.X, p.Y = e.Env.Wrap(p.X+dx, p.Y+dy)
}
