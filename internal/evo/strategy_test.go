package evo

import (
	"errors"
	"testing"

	"zombies/internal/agent"
	"zombies/internal/genotype"
	"zombies/internal/rng"
)

func zombiePopulation(t *testing.T, strengths ...float64) *agent.Population {
	t.Helper()
	f := agent.Factory{
		Species:  agent.Zombie,
		Decoder:  genotype.DefaultDecoder(),
		Size:     len(strengths),
		Strength: 10,
		Width:    20,
		Height:   20,
	}
	pop, err := f.Population(rng.New(5))
	if err != nil {
		t.Fatalf("factory: %v", err)
	}
	for i, s := range strengths {
		pop.At(i).Strength = s
	}
	return pop
}

func TestExplicitKeepsBestAndBreedsRest(t *testing.T) {
	pop := zombiePopulation(t, 10, 50, 20)
	before := make([]string, pop.Len())
	for i, m := range pop.Snapshot() {
		before[i] = m.Chromosome().String()
	}
	best := pop.At(1)

	e := Explicit{Strength: 10, Width: 20, Height: 20, Fitness: StrengthFitness{Scale: 0.01}}
	next, err := e.Evolve(rng.New(9), pop, RouletteSelector{Count: 1}, NewManipulator(1, Mutation{Probability: 1}))
	if err != nil {
		t.Fatalf("evolve: %v", err)
	}
	if next.Len() != 3 || next.Species() != agent.Zombie {
		t.Fatalf("unexpected next generation: len=%d species=%s", next.Len(), next.Species())
	}
	if next.At(2) != best {
		t.Fatalf("expected best member carried over last, got %s", next.At(2))
	}
	for i, m := range next.Snapshot()[:2] {
		if m.Strength != 10 || m.Species() != agent.Zombie {
			t.Fatalf("offspring %d: unexpected %s", i, m)
		}
		if m.X < 0 || m.X >= 20 || m.Y < 0 || m.Y >= 20 {
			t.Fatalf("offspring %d outside grid: %s", i, m)
		}
	}
	for i, m := range pop.Snapshot() {
		if m.Chromosome().String() != before[i] {
			t.Fatalf("parent %d mutated during evolution", i)
		}
	}
}

func TestExplicitGivesUpWithoutOffspring(t *testing.T) {
	pop := humanPopulation(t, 1, 1)
	var calls int
	m := NewManipulator(1, countingOperator{name: "barren", calls: &calls, empty: true})

	_, err := Explicit{Width: 5, Height: 5, MaxAttempts: 3}.Evolve(rng.New(1), pop, RouletteSelector{Count: 1}, m)
	if !errors.Is(err, ErrNoOffspring) {
		t.Fatalf("expected ErrNoOffspring, got: %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
}

func TestExplicitSegmentedCrossoverBreedsHumans(t *testing.T) {
	pop := humanPopulation(t, 0.5, 0.5, 0.5, 0.5)
	m := NewManipulator(1, SegmentedCrossover{Probability: 1})

	next, err := Explicit{Strength: 25, Width: 5, Height: 5}.Evolve(rng.New(2), pop, RouletteSelector{Count: 2}, m)
	if err != nil {
		t.Fatalf("evolve: %v", err)
	}
	if next.Len() != 4 {
		t.Fatalf("unexpected size: %d", next.Len())
	}
	for _, h := range next.Snapshot()[:3] {
		if !h.IsHuman() || h.Chromosome().String() != "1|0101|11" {
			t.Fatalf("unexpected offspring: %s %s", h, h.Chromosome())
		}
	}
}

func TestExplicitRejectsEmptyPopulation(t *testing.T) {
	_, err := Explicit{Width: 1, Height: 1}.Evolve(rng.New(1), humanPopulation(t), RouletteSelector{Count: 1}, NewManipulator(1))
	if !errors.Is(err, ErrEmptyPopulation) {
		t.Fatalf("expected ErrEmptyPopulation, got: %v", err)
	}
}
