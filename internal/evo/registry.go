package evo

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	ErrOperatorExists   = errors.New("operator already registered")
	ErrOperatorNotFound = errors.New("operator not found")
)

// OperatorFactory builds an operator for a given per-operator probability.
type OperatorFactory func(probability float64) Operator

// OperatorConfig names a registered operator and its probability. Manipulator
// pipelines are described as ordered lists of these in run configuration.
type OperatorConfig struct {
	Name        string  `json:"name"`
	Probability float64 `json:"probability"`
}

var operatorRegistry = struct {
	mu sync.RWMutex
	m  map[string]OperatorFactory
}{
	m: builtinOperators(),
}

func builtinOperators() map[string]OperatorFactory {
	return map[string]OperatorFactory{
		"crossover":           func(p float64) Operator { return Crossover{Probability: p} },
		"segmented_crossover": func(p float64) Operator { return SegmentedCrossover{Probability: p} },
		"mutation":            func(p float64) Operator { return Mutation{Probability: p} },
		"species_conversion":  func(p float64) Operator { return SpeciesConversion{Probability: p} },
	}
}

func RegisterOperator(name string, factory OperatorFactory) error {
	if name == "" {
		return errors.New("operator name is required")
	}
	if factory == nil {
		return errors.New("operator factory is required")
	}

	operatorRegistry.mu.Lock()
	defer operatorRegistry.mu.Unlock()

	if _, exists := operatorRegistry.m[name]; exists {
		return fmt.Errorf("%w: %s", ErrOperatorExists, name)
	}
	operatorRegistry.m[name] = factory
	return nil
}

// ResolveOperator builds the named operator with the given probability.
func ResolveOperator(name string, probability float64) (Operator, error) {
	operatorRegistry.mu.RLock()
	factory, ok := operatorRegistry.m[name]
	operatorRegistry.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrOperatorNotFound, name)
	}
	return factory(probability), nil
}

func ListOperators() []string {
	operatorRegistry.mu.RLock()
	defer operatorRegistry.mu.RUnlock()

	names := make([]string, 0, len(operatorRegistry.m))
	for name := range operatorRegistry.m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BuildManipulator resolves every configured operator in order.
func BuildManipulator(probability float64, ops []OperatorConfig) (*Manipulator, error) {
	m := NewManipulator(probability)
	for i, cfg := range ops {
		op, err := ResolveOperator(cfg.Name, cfg.Probability)
		if err != nil {
			return nil, fmt.Errorf("operator %d: %w", i, err)
		}
		m.Add(op)
	}
	return m, nil
}

func resetOperatorRegistryForTests() {
	operatorRegistry.mu.Lock()
	defer operatorRegistry.mu.Unlock()
	operatorRegistry.m = builtinOperators()
}
