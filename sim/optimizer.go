package sim

import (
	"fmt"
	"math/rand"
	"sort"
)

// Optimizer maps a batch onto the live warehouse.
//
// Solve commits every placement it makes directly to wh and returns the
// products it could not place, in batch order. Cost reports the total
// PlacementCost committed by the most recent Solve call only.
type Optimizer interface {
	Solve(batch []*Product, wh *Warehouse) []*Product
	Cost() float64
}

// Recognized algorithm names.
const (
	AlgorithmGreedy    = "greedy"
	AlgorithmGenetic   = "genetic"
	AlgorithmAntColony = "ant-colony"
)

// validAlgorithms is the set of names accepted by NewOptimizer. Empty selects greedy.
var validAlgorithms = map[string]bool{
	"":                 true,
	AlgorithmGreedy:    true,
	AlgorithmGenetic:   true,
	AlgorithmAntColony: true,
}

// IsValidAlgorithm reports whether name selects a known strategy.
func IsValidAlgorithm(name string) bool {
	return validAlgorithms[name]
}

// ValidAlgorithmNames returns the non-empty algorithm names, sorted.
func ValidAlgorithmNames() []string {
	names := make([]string, 0, len(validAlgorithms))
	for name := range validAlgorithms {
		if name != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// NewOptimizer creates the strategy named by cfg.Algorithm.
// rng drives the stochastic strategies and is ignored by greedy.
// Panics on unrecognized names; call cfg.Validate() first.
func NewOptimizer(cfg OptimizerConfig, rng *rand.Rand) Optimizer {
	if !IsValidAlgorithm(cfg.Algorithm) {
		panic(fmt.Sprintf("unknown algorithm %q", cfg.Algorithm))
	}
	switch cfg.Algorithm {
	case "", AlgorithmGreedy:
		return NewGreedy()
	case AlgorithmGenetic:
		return NewGenetic(cfg.Genetic, rng)
	case AlgorithmAntColony:
		return NewAntColony(cfg.AntColony, rng)
	default:
		panic(fmt.Sprintf("unhandled algorithm %q", cfg.Algorithm))
	}
}
