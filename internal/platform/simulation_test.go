package platform

import (
	"testing"

	"zombies/internal/agent"
	"zombies/internal/genotype"
	"zombies/internal/nn"
	"zombies/internal/rng"
)

func newPopulations(t *testing.T) (*agent.Population, *agent.Population) {
	t.Helper()
	humans, err := agent.NewPopulation(agent.Human)
	if err != nil {
		t.Fatalf("human population: %v", err)
	}
	zombies, err := agent.NewPopulation(agent.Zombie)
	if err != nil {
		t.Fatalf("zombie population: %v", err)
	}
	return humans, zombies
}

// mover adds to pop an individual whose network always picks dir.
func mover(t *testing.T, cfg Config, pop *agent.Population, dir nn.Direction, x, y int, strength float64) *agent.Phenotype {
	t.Helper()
	c, err := genotype.ConstructMover(cfg.Decoder(), pop.Species().Tag(), dir)
	if err != nil {
		t.Fatalf("mover genome: %v", err)
	}
	p, err := agent.New(pop.Species(), c, x, y, strength)
	if err != nil {
		t.Fatalf("new phenotype: %v", err)
	}
	if err := pop.Add(p); err != nil {
		t.Fatalf("add: %v", err)
	}
	return p
}

func TestTickUpdatesZombiesBeforeHumans(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxFood = 0
	humans, zombies := newPopulations(t)
	human := mover(t, cfg, humans, nn.North, 1, 2, 30)
	zombie := mover(t, cfg, zombies, nn.West, 2, 2, 10)

	// The duel bound is 9 + 30 + 20 = 59; 45 reaches the human's strength.
	src := &rng.Scripted{Ints: []int{45}}
	sim, err := newSimulation(cfg, src, humans, zombies)
	if err != nil {
		t.Fatalf("new simulation: %v", err)
	}
	stats, err := sim.Tick()
	if err != nil {
		t.Fatalf("tick: %v", err)
	}

	if humans.Contains(human) || humans.Len() != 0 {
		t.Fatalf("expected the human to be converted before it could move, humans=%d", humans.Len())
	}
	if zombies.Len() != 2 {
		t.Fatalf("expected 2 zombies, got %d", zombies.Len())
	}
	converted := zombies.At(1)
	if converted.X != 1 || converted.Y != 2 || converted.Strength != 30 {
		t.Fatalf("unexpected converted zombie: %s strength=%f", converted, converted.Strength)
	}
	if zombie.X != 1 || zombie.Y != 2 || zombie.Strength != -1 {
		t.Fatalf("unexpected winner: %s strength=%f", zombie, zombie.Strength)
	}
	if stats.Conversions != 1 || stats.Humans != 0 || stats.Zombies != 2 || stats.Tick != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if ints, floats := src.Remaining(); ints != 0 || floats != 0 {
		t.Fatalf("unused draws: ints=%d floats=%d", ints, floats)
	}
}

func TestTickSkipsOffspringBornThisTick(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxFood = 0
	humans, zombies := newPopulations(t)
	a := mover(t, cfg, humans, nn.East, 3, 3, 30)
	b := mover(t, cfg, humans, nn.North, 4, 3, 30)

	src := &rng.Scripted{
		// a: breeding gate, crossover gate; b: breeding gate only.
		Floats: []float64{0.5, 0.1, 0.9},
		Ints:   []int{10, 5},
	}
	sim, err := newSimulation(cfg, src, humans, zombies)
	if err != nil {
		t.Fatalf("new simulation: %v", err)
	}
	if err := sim.Grid().AddFood(4, 3); err != nil {
		t.Fatalf("add food: %v", err)
	}
	stats, err := sim.Tick()
	if err != nil {
		t.Fatalf("tick: %v", err)
	}

	if humans.Len() != 3 || stats.Births != 1 || stats.FoodEaten != 1 {
		t.Fatalf("unexpected outcome: humans=%d stats=%+v", humans.Len(), stats)
	}
	child := humans.At(2)
	if child.X != 4 || child.Y != 3 || child.Strength != 25 {
		t.Fatalf("offspring should stay where it was born: %s strength=%f", child, child.Strength)
	}
	if a.X != 4 || a.Y != 3 || a.Strength != 32 {
		t.Fatalf("unexpected parent a: %s strength=%f", a, a.Strength)
	}
	if b.X != 4 || b.Y != 2 || b.Strength != 29 {
		t.Fatalf("unexpected parent b: %s strength=%f", b, b.Strength)
	}
	if ints, floats := src.Remaining(); ints != 0 || floats != 0 {
		t.Fatalf("unused draws: ints=%d floats=%d", ints, floats)
	}
}

func TestTickSpawnsFood(t *testing.T) {
	cfg := DefaultConfig()
	humans, zombies := newPopulations(t)
	src := &rng.Scripted{Ints: []int{2, 0, 0, 5, 7}}
	sim, err := newSimulation(cfg, src, humans, zombies)
	if err != nil {
		t.Fatalf("new simulation: %v", err)
	}
	stats, err := sim.Tick()
	if err != nil {
		t.Fatalf("tick: %v", err)
	}
	if stats.FoodSpawned != 2 || stats.FoodOnGrid != 2 {
		t.Fatalf("unexpected food stats: %+v", stats)
	}
	for _, cell := range [][2]int{{0, 0}, {5, 7}} {
		n, err := sim.Grid().Food(cell[0], cell[1])
		if err != nil || n != 1 {
			t.Fatalf("food at %v: n=%d err=%v", cell, n, err)
		}
	}
}

func TestNewSimulationBuildsPopulations(t *testing.T) {
	cfg := DefaultConfig()
	sim, err := NewSimulation(cfg, rng.New(1))
	if err != nil {
		t.Fatalf("new simulation: %v", err)
	}
	if sim.Humans().Len() != cfg.Humans || sim.Zombies().Len() != cfg.Zombies {
		t.Fatalf("unexpected sizes: humans=%d zombies=%d", sim.Humans().Len(), sim.Zombies().Len())
	}
	for _, h := range sim.Humans().Snapshot() {
		if !h.IsHuman() || h.Strength != cfg.HumanStrength {
			t.Fatalf("unexpected human: %s strength=%f", h, h.Strength)
		}
	}
	for _, z := range sim.Zombies().Snapshot() {
		if z.IsHuman() || z.Strength != cfg.ZombieStrength {
			t.Fatalf("unexpected zombie: %s strength=%f", z, z.Strength)
		}
	}
}

func TestSimulationDeterministicForSeed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EvolveEvery = 4
	cfg.MutationProbability = 0.05

	runTicks := func() []string {
		sim, err := NewSimulation(cfg, rng.New(42))
		if err != nil {
			t.Fatalf("new simulation: %v", err)
		}
		var out []string
		for i := 0; i < 12; i++ {
			stats, err := sim.Tick()
			if err != nil {
				t.Fatalf("tick %d: %v", i+1, err)
			}
			out = append(out, formatStats(stats))
		}
		return out
	}

	first, second := runTicks(), runTicks()
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("tick %d diverged:\n%s\n%s", i+1, first[i], second[i])
		}
	}
}

func TestEvolveKeepsSizesAndBest(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Humans = 6
	cfg.Zombies = 4
	sim, err := NewSimulation(cfg, rng.New(9))
	if err != nil {
		t.Fatalf("new simulation: %v", err)
	}
	sim.Humans().At(3).Strength = 90
	best := sim.Humans().At(3)

	if err := sim.Evolve(); err != nil {
		t.Fatalf("evolve: %v", err)
	}
	if sim.Generations() != 1 {
		t.Fatalf("expected one generation, got %d", sim.Generations())
	}
	if sim.Humans().Len() != 6 || sim.Zombies().Len() != 4 {
		t.Fatalf("unexpected sizes: humans=%d zombies=%d", sim.Humans().Len(), sim.Zombies().Len())
	}
	if !sim.Humans().Contains(best) {
		t.Fatal("expected the strongest human to be carried over")
	}
	for i := 0; i < sim.Humans().Len()-1; i++ {
		h := sim.Humans().At(i)
		if !h.IsHuman() || h.Strength != cfg.EvolvedStrength {
			t.Fatalf("unexpected offspring %d: %s strength=%f", i, h, h.Strength)
		}
	}

	// the engine must follow the replaced populations
	if _, err := sim.Tick(); err != nil {
		t.Fatalf("tick after evolve: %v", err)
	}
}
