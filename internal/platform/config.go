package platform

import (
	"errors"
	"fmt"

	"zombies/internal/evo"
	"zombies/internal/genotype"
	"zombies/internal/nn"
	"zombies/internal/scape"
)

// Config holds every constant of a run. The zero value is not usable; start
// from DefaultConfig.
type Config struct {
	RunID string `json:"run_id,omitempty"`
	Seed  int64  `json:"seed"`

	Width   int `json:"width"`
	Height  int `json:"height"`
	MaxFood int `json:"max_food"`

	Humans          int     `json:"humans"`
	Zombies         int     `json:"zombies"`
	HumanStrength   float64 `json:"human_strength"`
	ZombieStrength  float64 `json:"zombie_strength"`
	EvolvedStrength float64 `json:"evolved_strength"`

	WeightGeneWidth    int    `json:"weight_gene_width"`
	ThresholdGeneWidth int    `json:"threshold_gene_width"`
	Activation         string `json:"activation"`

	OperationProbability float64 `json:"operation_probability"`
	MutationProbability  float64 `json:"mutation_probability"`
	// HumanOperators and ZombieOperators override the evolution pipelines
	// derived from the probabilities above.
	HumanOperators  []evo.OperatorConfig `json:"human_operators,omitempty"`
	ZombieOperators []evo.OperatorConfig `json:"zombie_operators,omitempty"`

	Ticks int `json:"ticks"`
	// EvolveEvery runs a generational step every N ticks; 0 disables it.
	EvolveEvery     int  `json:"evolve_every"`
	StopWhenExtinct bool `json:"stop_when_extinct"`

	Rules scape.Rules `json:"rules"`
}

func DefaultConfig() Config {
	return Config{
		Seed:                 1,
		Width:                20,
		Height:               20,
		MaxFood:              5,
		Humans:               30,
		Zombies:              3,
		HumanStrength:        30,
		ZombieStrength:       10,
		EvolvedStrength:      10,
		WeightGeneWidth:      genotype.DefaultWeightGeneWidth,
		ThresholdGeneWidth:   genotype.DefaultThresholdGeneWidth,
		Activation:           nn.DefaultActivation,
		OperationProbability: 1,
		MutationProbability:  0,
		Ticks:                300,
		StopWhenExtinct:      true,
		Rules:                scape.DefaultRules(),
	}
}

func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("grid dimensions must be positive: %dx%d", c.Width, c.Height)
	case c.MaxFood < 0:
		return fmt.Errorf("max food must not be negative: %d", c.MaxFood)
	case c.Humans < 0 || c.Zombies < 0:
		return fmt.Errorf("population sizes must not be negative: humans=%d zombies=%d", c.Humans, c.Zombies)
	case c.Ticks <= 0:
		return fmt.Errorf("ticks must be positive: %d", c.Ticks)
	case c.EvolveEvery < 0:
		return fmt.Errorf("evolve every must not be negative: %d", c.EvolveEvery)
	case c.OperationProbability < 0 || c.OperationProbability > 1:
		return fmt.Errorf("operation probability must be in [0,1]: %f", c.OperationProbability)
	case c.MutationProbability < 0 || c.MutationProbability > 1:
		return fmt.Errorf("mutation probability must be in [0,1]: %f", c.MutationProbability)
	}
	if err := c.Rules.Validate(); err != nil {
		return fmt.Errorf("rules: %w", err)
	}
	if err := c.Decoder().Validate(); err != nil {
		return fmt.Errorf("decoder: %w", err)
	}
	if _, err := nn.GetActivation(c.Decoder().Activation); err != nil {
		return err
	}
	for _, ops := range [][]evo.OperatorConfig{c.HumanOperators, c.ZombieOperators} {
		for _, op := range ops {
			if _, err := evo.ResolveOperator(op.Name, op.Probability); err != nil {
				return err
			}
		}
	}
	if c.Humans+c.Zombies == 0 {
		return errors.New("at least one individual is required")
	}
	return nil
}

// Decoder is the gene layout shared by every individual of the run.
func (c Config) Decoder() genotype.Decoder {
	d := genotype.DefaultDecoder()
	d.WeightWidth = c.WeightGeneWidth
	d.ThresholdWidth = c.ThresholdGeneWidth
	if c.Activation != "" {
		d.Activation = c.Activation
	}
	return d
}

// humanPipeline breeds pairs and then mutates the child.
func (c Config) humanPipeline() (*evo.Manipulator, error) {
	ops := c.HumanOperators
	if len(ops) == 0 {
		ops = []evo.OperatorConfig{
			{Name: "segmented_crossover", Probability: c.Rules.BreedProbability},
			{Name: "mutation", Probability: c.MutationProbability},
		}
	}
	return evo.BuildManipulator(c.OperationProbability, ops)
}

// zombiePipeline mutates a single sampled parent.
func (c Config) zombiePipeline() (*evo.Manipulator, error) {
	ops := c.ZombieOperators
	if len(ops) == 0 {
		ops = []evo.OperatorConfig{{Name: "mutation", Probability: c.MutationProbability}}
	}
	return evo.BuildManipulator(c.OperationProbability, ops)
}
