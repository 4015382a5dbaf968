package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/warehouse-sim/warehouse-sim/sim"
	"github.com/warehouse-sim/warehouse-sim/sim/scenario"
	"github.com/warehouse-sim/warehouse-sim/sim/topology"
)

// RunConfig is the full run.yaml structure.
// All top-level sections must be listed to satisfy KnownFields(true) strict parsing.
type RunConfig struct {
	Seed      int64               `yaml:"seed"`
	Warehouse topology.Config     `yaml:"warehouse"`
	Scenario  scenario.Spec       `yaml:"scenario"`
	Optimizer sim.OptimizerBundle `yaml:"optimizer"`
}

// DefaultRunConfig returns the configuration used when no file is given.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		Seed:      42,
		Warehouse: topology.DefaultConfig(),
		Scenario:  scenario.DefaultSpec(),
	}
}

// LoadRunConfig parses path over DefaultRunConfig. Keys absent from the file
// keep their defaults; unknown keys are errors. An empty path or empty file
// returns the defaults.
func LoadRunConfig(path string) (RunConfig, error) {
	cfg := DefaultRunConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading run config: %w", err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parsing run config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadRunConfigWithTuning loads runPath and then overlays the optimizer file at
// tuningPath, if any. Keys set in the tuning file win over the run file.
func LoadRunConfigWithTuning(runPath, tuningPath string) (RunConfig, error) {
	cfg, err := LoadRunConfig(runPath)
	if err != nil || tuningPath == "" {
		return cfg, err
	}
	bundle, err := sim.LoadOptimizerBundle(tuningPath)
	if err != nil {
		return cfg, err
	}
	cfg.Optimizer.Overlay(bundle)
	return cfg, nil
}

// Validate checks every section.
func (c RunConfig) Validate() error {
	if err := c.Warehouse.Validate(); err != nil {
		return fmt.Errorf("warehouse: %w", err)
	}
	if err := c.Scenario.Validate(); err != nil {
		return fmt.Errorf("scenario: %w", err)
	}
	if err := c.Optimizer.Validate(); err != nil {
		return fmt.Errorf("optimizer: %w", err)
	}
	return nil
}

// optimizerConfig returns the optimizer settings with the algorithm replaced by name.
func (c RunConfig) optimizerConfig(name string) (sim.OptimizerConfig, error) {
	oc := c.Optimizer.Config()
	oc.Algorithm = name
	if err := oc.Validate(); err != nil {
		return oc, fmt.Errorf("optimizer: %w", err)
	}
	return oc, nil
}
