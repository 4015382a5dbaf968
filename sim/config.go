package sim

import (
	"fmt"
	"runtime"
)

// GeneticConfig groups genetic-algorithm parameters for NewGenetic.
type GeneticConfig struct {
	PopulationSize  int     // individuals per generation (must be > 0)
	Generations     int     // evolution rounds (must be > 0)
	MutationRate    float64 // per-gene redraw probability in [0,1]
	CrossoverRate   float64 // per-pair single-point crossover probability in [0,1]
	TournamentSize  int     // individuals sampled per selection (clamped to PopulationSize)
	UnplacedPenalty float64 // cost charged per unplaced product in the fitness
	Workers         int     // parallel fitness evaluators (0 = GOMAXPROCS)
}

// DefaultGeneticConfig returns the stock parameters.
func DefaultGeneticConfig() GeneticConfig {
	return GeneticConfig{
		PopulationSize:  50,
		Generations:     100,
		MutationRate:    0.05,
		CrossoverRate:   0.8,
		TournamentSize:  3,
		UnplacedPenalty: 1_000_000,
	}
}

// Validate checks parameter ranges.
func (c GeneticConfig) Validate() error {
	if c.PopulationSize <= 0 {
		return fmt.Errorf("population_size must be positive, got %d", c.PopulationSize)
	}
	if c.Generations <= 0 {
		return fmt.Errorf("generations must be positive, got %d", c.Generations)
	}
	if c.MutationRate < 0 || c.MutationRate > 1 {
		return fmt.Errorf("mutation_rate must be in [0,1], got %f", c.MutationRate)
	}
	if c.CrossoverRate < 0 || c.CrossoverRate > 1 {
		return fmt.Errorf("crossover_rate must be in [0,1], got %f", c.CrossoverRate)
	}
	if c.TournamentSize <= 0 {
		return fmt.Errorf("tournament_size must be positive, got %d", c.TournamentSize)
	}
	if c.UnplacedPenalty < 0 {
		return fmt.Errorf("unplaced_penalty must be non-negative, got %f", c.UnplacedPenalty)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", c.Workers)
	}
	return nil
}

// AntColonyConfig groups ant-colony parameters for NewAntColony.
type AntColonyConfig struct {
	Ants             int     // ants per generation (must be > 0)
	Generations      int     // iterations (must be > 0)
	Alpha            float64 // pheromone exponent
	Beta             float64 // attractiveness exponent
	EvaporationRate  float64 // rho in (0,1]
	Q                float64 // deposit scale
	InitialPheromone float64 // uniform starting value (must be > 0)
	Epsilon          float64 // guards 1/(unit cost) against zero-cost shelves
	Workers          int     // parallel ants (0 = GOMAXPROCS)
}

// DefaultAntColonyConfig returns the stock parameters.
func DefaultAntColonyConfig() AntColonyConfig {
	return AntColonyConfig{
		Ants:             10,
		Generations:      50,
		Alpha:            1.0,
		Beta:             2.0,
		EvaporationRate:  0.5,
		Q:                100.0,
		InitialPheromone: 1.0,
		Epsilon:          1e-10,
	}
}

// Validate checks parameter ranges.
func (c AntColonyConfig) Validate() error {
	if c.Ants <= 0 {
		return fmt.Errorf("ants must be positive, got %d", c.Ants)
	}
	if c.Generations <= 0 {
		return fmt.Errorf("generations must be positive, got %d", c.Generations)
	}
	if c.Alpha < 0 || c.Beta < 0 {
		return fmt.Errorf("alpha and beta must be non-negative, got alpha=%f beta=%f", c.Alpha, c.Beta)
	}
	if c.EvaporationRate <= 0 || c.EvaporationRate > 1 {
		return fmt.Errorf("evaporation_rate must be in (0,1], got %f", c.EvaporationRate)
	}
	if c.Q <= 0 {
		return fmt.Errorf("q must be positive, got %f", c.Q)
	}
	if c.InitialPheromone <= 0 {
		return fmt.Errorf("initial_pheromone must be positive, got %f", c.InitialPheromone)
	}
	if c.Epsilon <= 0 {
		return fmt.Errorf("epsilon must be positive, got %g", c.Epsilon)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", c.Workers)
	}
	return nil
}

// OptimizerConfig selects a strategy and carries the parameters of every strategy.
// Only the block matching Algorithm is read.
type OptimizerConfig struct {
	Algorithm string // "greedy" (default), "genetic", "ant-colony"
	Genetic   GeneticConfig
	AntColony AntColonyConfig
}

// DefaultOptimizerConfig returns the greedy strategy with stock parameters for the others.
func DefaultOptimizerConfig() OptimizerConfig {
	return OptimizerConfig{
		Algorithm: AlgorithmGreedy,
		Genetic:   DefaultGeneticConfig(),
		AntColony: DefaultAntColonyConfig(),
	}
}

// Validate checks the selected algorithm name and its parameters.
func (c OptimizerConfig) Validate() error {
	if !IsValidAlgorithm(c.Algorithm) {
		return fmt.Errorf("unknown algorithm %q", c.Algorithm)
	}
	switch c.Algorithm {
	case AlgorithmGenetic:
		if err := c.Genetic.Validate(); err != nil {
			return fmt.Errorf("genetic: %w", err)
		}
	case AlgorithmAntColony:
		if err := c.AntColony.Validate(); err != nil {
			return fmt.Errorf("ant_colony: %w", err)
		}
	}
	return nil
}

func resolveWorkers(n int) int {
	if n <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return n
}
