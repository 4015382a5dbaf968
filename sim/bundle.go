package sim

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// OptimizerBundle holds optimizer configuration, loadable from YAML.
// Nil pointer fields mean "not set in YAML" and keep the stock defaults.
// Algorithm uses empty string for "not set".
type OptimizerBundle struct {
	Algorithm string          `yaml:"algorithm"`
	Workers   *int            `yaml:"workers"`
	Genetic   GeneticBundle   `yaml:"genetic"`
	AntColony AntColonyBundle `yaml:"ant_colony"`
}

// GeneticBundle holds genetic-algorithm overrides.
type GeneticBundle struct {
	PopulationSize  *int     `yaml:"population_size"`
	Generations     *int     `yaml:"generations"`
	MutationRate    *float64 `yaml:"mutation_rate"`
	CrossoverRate   *float64 `yaml:"crossover_rate"`
	TournamentSize  *int     `yaml:"tournament_size"`
	UnplacedPenalty *float64 `yaml:"unplaced_penalty"`
}

// AntColonyBundle holds ant-colony overrides.
type AntColonyBundle struct {
	Ants             *int     `yaml:"ants"`
	Generations      *int     `yaml:"generations"`
	Alpha            *float64 `yaml:"alpha"`
	Beta             *float64 `yaml:"beta"`
	EvaporationRate  *float64 `yaml:"evaporation_rate"`
	Q                *float64 `yaml:"q"`
	InitialPheromone *float64 `yaml:"initial_pheromone"`
	Epsilon          *float64 `yaml:"epsilon"`
}

// LoadOptimizerBundle reads and strictly parses a YAML optimizer file.
// Unknown keys are errors so typos do not silently fall back to defaults.
func LoadOptimizerBundle(path string) (*OptimizerBundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading optimizer config: %w", err)
	}
	var bundle OptimizerBundle
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&bundle); err != nil {
		return nil, fmt.Errorf("parsing optimizer config: %w", err)
	}
	return &bundle, nil
}

// Overlay copies every field set in o over b. Fields o leaves unset keep b's value.
func (b *OptimizerBundle) Overlay(o *OptimizerBundle) {
	if o.Algorithm != "" {
		b.Algorithm = o.Algorithm
	}
	overlayPtr(&b.Workers, o.Workers)

	overlayPtr(&b.Genetic.PopulationSize, o.Genetic.PopulationSize)
	overlayPtr(&b.Genetic.Generations, o.Genetic.Generations)
	overlayPtr(&b.Genetic.MutationRate, o.Genetic.MutationRate)
	overlayPtr(&b.Genetic.CrossoverRate, o.Genetic.CrossoverRate)
	overlayPtr(&b.Genetic.TournamentSize, o.Genetic.TournamentSize)
	overlayPtr(&b.Genetic.UnplacedPenalty, o.Genetic.UnplacedPenalty)

	overlayPtr(&b.AntColony.Ants, o.AntColony.Ants)
	overlayPtr(&b.AntColony.Generations, o.AntColony.Generations)
	overlayPtr(&b.AntColony.Alpha, o.AntColony.Alpha)
	overlayPtr(&b.AntColony.Beta, o.AntColony.Beta)
	overlayPtr(&b.AntColony.EvaporationRate, o.AntColony.EvaporationRate)
	overlayPtr(&b.AntColony.Q, o.AntColony.Q)
	overlayPtr(&b.AntColony.InitialPheromone, o.AntColony.InitialPheromone)
	overlayPtr(&b.AntColony.Epsilon, o.AntColony.Epsilon)
}

func overlayPtr[T any](dst **T, v *T) {
	if v != nil {
		c := *v
		*dst = &c
	}
}

// Validate checks the algorithm name and, after overlaying defaults, the
// parameters of the selected algorithm.
func (b *OptimizerBundle) Validate() error {
	if b.Workers != nil && *b.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", *b.Workers)
	}
	return b.Config().Validate()
}

// Config overlays the bundle on DefaultOptimizerConfig.
func (b *OptimizerBundle) Config() OptimizerConfig {
	cfg := DefaultOptimizerConfig()
	if b.Algorithm != "" {
		cfg.Algorithm = b.Algorithm
	}
	if b.Workers != nil {
		cfg.Genetic.Workers = *b.Workers
		cfg.AntColony.Workers = *b.Workers
	}

	g := &cfg.Genetic
	setInt(&g.PopulationSize, b.Genetic.PopulationSize)
	setInt(&g.Generations, b.Genetic.Generations)
	setFloat(&g.MutationRate, b.Genetic.MutationRate)
	setFloat(&g.CrossoverRate, b.Genetic.CrossoverRate)
	setInt(&g.TournamentSize, b.Genetic.TournamentSize)
	setFloat(&g.UnplacedPenalty, b.Genetic.UnplacedPenalty)

	a := &cfg.AntColony
	setInt(&a.Ants, b.AntColony.Ants)
	setInt(&a.Generations, b.AntColony.Generations)
	setFloat(&a.Alpha, b.AntColony.Alpha)
	setFloat(&a.Beta, b.AntColony.Beta)
	setFloat(&a.EvaporationRate, b.AntColony.EvaporationRate)
	setFloat(&a.Q, b.AntColony.Q)
	setFloat(&a.InitialPheromone, b.AntColony.InitialPheromone)
	setFloat(&a.Epsilon, b.AntColony.Epsilon)
	return cfg
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}
