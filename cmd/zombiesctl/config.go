package main

import (
	"flag"

	zapi "zombies/pkg/zombies"
)

// configFlags are the run flags that override a config file. Only flags
// given on the command line are applied.
type configFlags struct {
	runID       *string
	seed        *int64
	width       *int
	height      *int
	maxFood     *int
	humans      *int
	zombies     *int
	ticks       *int
	evolveEvery *int
	mutation    *float64
	operation   *float64
	breed       *float64
	conversion  *float64
	activation  *string
	keepGoing   *bool
}

func addConfigFlags(fs *flag.FlagSet) configFlags {
	def := zapi.DefaultConfig()
	return configFlags{
		runID:       fs.String("run-id", "", "explicit run id (optional)"),
		seed:        fs.Int64("seed", def.Seed, "rng seed"),
		width:       fs.Int("width", def.Width, "grid width"),
		height:      fs.Int("height", def.Height, "grid height"),
		maxFood:     fs.Int("max-food", def.MaxFood, "upper bound (exclusive) of food items dropped per tick"),
		humans:      fs.Int("humans", def.Humans, "initial human count"),
		zombies:     fs.Int("zombies", def.Zombies, "initial zombie count"),
		ticks:       fs.Int("ticks", def.Ticks, "tick limit"),
		evolveEvery: fs.Int("evolve-every", def.EvolveEvery, "run a generational step every N ticks (0 disables)"),
		mutation:    fs.Float64("mutation", def.MutationProbability, "per-bit mutation probability"),
		operation:   fs.Float64("operation", def.OperationProbability, "probability that each pipeline operator runs"),
		breed:       fs.Float64("breed", def.Rules.BreedProbability, "probability that a fed human tries to breed"),
		conversion:  fs.Float64("conversion", def.Rules.ConversionProbability, "probability that a defeated human turns"),
		activation:  fs.String("activation", def.Activation, "network activation function"),
		keepGoing:   fs.Bool("keep-going", !def.StopWhenExtinct, "keep ticking after the humans die out"),
	}
}

func (f configFlags) apply(fs *flag.FlagSet, cfg *zapi.Config) {
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "run-id":
			cfg.RunID = *f.runID
		case "seed":
			cfg.Seed = *f.seed
		case "width":
			cfg.Width = *f.width
		case "height":
			cfg.Height = *f.height
		case "max-food":
			cfg.MaxFood = *f.maxFood
		case "humans":
			cfg.Humans = *f.humans
		case "zombies":
			cfg.Zombies = *f.zombies
		case "ticks":
			cfg.Ticks = *f.ticks
		case "evolve-every":
			cfg.EvolveEvery = *f.evolveEvery
		case "mutation":
			cfg.MutationProbability = *f.mutation
		case "operation":
			cfg.OperationProbability = *f.operation
		case "breed":
			cfg.Rules.BreedProbability = *f.breed
		case "conversion":
			cfg.Rules.ConversionProbability = *f.conversion
		case "activation":
			cfg.Activation = *f.activation
		case "keep-going":
			cfg.StopWhenExtinct = !*f.keepGoing
		}
	})
}
