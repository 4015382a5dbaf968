package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warehouse-sim/warehouse-sim/sim"
)

func writeRunYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadRunConfig_EmptyPathGivesDefaults(t *testing.T) {
	cfg, err := LoadRunConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultRunConfig(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoadRunConfig_EmptyFileGivesDefaults(t *testing.T) {
	cfg, err := LoadRunConfig(writeRunYAML(t, "# nothing set\n"))
	require.NoError(t, err)
	assert.Equal(t, DefaultRunConfig(), cfg)
}

func TestLoadRunConfig_PartialFileKeepsDefaults(t *testing.T) {
	// GIVEN a file that sets only a few keys in each section
	path := writeRunYAML(t, `
seed: 7
warehouse:
  racks: 2
  shelves_per_rack: 3
scenario:
  epochs: 4
optimizer:
  algorithm: ant-colony
  ant_colony:
    ants: 3
`)

	// WHEN loaded
	cfg, err := LoadRunConfig(path)
	require.NoError(t, err)

	// THEN set keys win and the rest keep their defaults
	assert.Equal(t, int64(7), cfg.Seed)
	assert.Equal(t, 2, cfg.Warehouse.Racks)
	assert.Equal(t, 3, cfg.Warehouse.ShelvesPerRack)
	assert.Equal(t, 0.1, cfg.Warehouse.VoxelSize)
	assert.Equal(t, 4, cfg.Scenario.Epochs)
	assert.Equal(t, 20, cfg.Scenario.ProductsPerEpoch)
	assert.Len(t, cfg.Scenario.Catalog, 4)

	oc := cfg.Optimizer.Config()
	assert.Equal(t, sim.AlgorithmAntColony, oc.Algorithm)
	assert.Equal(t, 3, oc.AntColony.Ants)
	assert.Equal(t, 50, oc.AntColony.Generations)
	assert.NoError(t, cfg.Validate())
}

func TestLoadRunConfig_ExplicitLayoutAndCatalog(t *testing.T) {
	path := writeRunYAML(t, `
warehouse:
  voxel_size: 0.5
  layout:
    - id: north
      shelves:
        - id: n0
          dimensions: {l: 2, w: 1, h: 1}
          access_cost: 1
          operational_cost: 2
scenario:
  catalog:
    - name: box
      weight: 1
      dimensions: {l: 0.5, w: 0.5, h: 0.5}
      frequency: 3
`)
	cfg, err := LoadRunConfig(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	require.Len(t, cfg.Warehouse.Layout, 1)
	assert.Equal(t, sim.Dims{L: 2, W: 1, H: 1}, cfg.Warehouse.Layout[0].Shelves[0].Dimensions)
	require.Len(t, cfg.Scenario.Catalog, 1)
	assert.Equal(t, "box", cfg.Scenario.Catalog[0].Name)
}

func TestLoadRunConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"unknown top-level key", "seeed: 1\n", "parsing run config"},
		{"unknown nested key", "warehouse:\n  rack: 3\n", "parsing run config"},
		{"malformed yaml", "warehouse: [\n", "parsing run config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadRunConfig(writeRunYAML(t, tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	_, err := LoadRunConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading run config")
}

func TestLoadRunConfigWithTuning_TuningFileWins(t *testing.T) {
	// GIVEN a run file choosing genetic with 40 individuals and a tuning file
	// that switches to ant-colony and sets the population to 12
	runPath := writeRunYAML(t, `
optimizer:
  algorithm: genetic
  workers: 2
  genetic:
    population_size: 40
    generations: 7
`)
	tuningPath := writeRunYAML(t, `
algorithm: ant-colony
genetic:
  population_size: 12
`)

	// WHEN both are loaded
	cfg, err := LoadRunConfigWithTuning(runPath, tuningPath)
	require.NoError(t, err)

	// THEN tuning keys override and the rest of the run file survives
	oc := cfg.Optimizer.Config()
	assert.Equal(t, sim.AlgorithmAntColony, oc.Algorithm)
	assert.Equal(t, 12, oc.Genetic.PopulationSize)
	assert.Equal(t, 7, oc.Genetic.Generations)
	assert.Equal(t, 2, oc.Genetic.Workers)
	assert.NoError(t, cfg.Validate())
}

func TestLoadRunConfigWithTuning_Errors(t *testing.T) {
	_, err := LoadRunConfigWithTuning("", writeRunYAML(t, "genetic:\n  populaton_size: 3\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing optimizer config")

	_, err = LoadRunConfigWithTuning("", filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading optimizer config")

	cfg, err := LoadRunConfigWithTuning("", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultRunConfig(), cfg)
}

func TestRunConfig_Validate_NamesSection(t *testing.T) {
	cfg := DefaultRunConfig()
	cfg.Scenario.BaseRemovalChance = 2
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scenario:")

	cfg = DefaultRunConfig()
	cfg.Warehouse.VoxelSize = 0
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "warehouse:")

	cfg = DefaultRunConfig()
	cfg.Optimizer.Algorithm = "tabu"
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "optimizer:")
}

func TestRunConfig_OptimizerConfig_OverridesAlgorithm(t *testing.T) {
	cfg := DefaultRunConfig()
	oc, err := cfg.optimizerConfig(sim.AlgorithmGenetic)
	require.NoError(t, err)
	assert.Equal(t, sim.AlgorithmGenetic, oc.Algorithm)

	_, err = cfg.optimizerConfig("tabu")
	assert.Error(t, err)
}
