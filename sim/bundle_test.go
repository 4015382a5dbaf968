package sim

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func float64Ptr(v float64) *float64 { return &v }

func intPtr(v int) *int { return &v }

func TestLoadOptimizerBundle_ValidYAML(t *testing.T) {
	yaml := `
algorithm: genetic
workers: 4
genetic:
  population_size: 20
  generations: 30
  mutation_rate: 0.1
  tournament_size: 5
ant_colony:
  ants: 8
  beta: 3.0
`
	path := writeTempYAML(t, yaml)
	bundle, err := LoadOptimizerBundle(path)
	require.NoError(t, err)

	assert.Equal(t, AlgorithmGenetic, bundle.Algorithm)
	require.NotNil(t, bundle.Workers)
	assert.Equal(t, 4, *bundle.Workers)
	require.NotNil(t, bundle.Genetic.PopulationSize)
	assert.Equal(t, 20, *bundle.Genetic.PopulationSize)
	require.NotNil(t, bundle.Genetic.MutationRate)
	assert.Equal(t, 0.1, *bundle.Genetic.MutationRate)
	assert.Nil(t, bundle.Genetic.CrossoverRate, "unset keys stay nil")
	require.NotNil(t, bundle.AntColony.Beta)
	assert.Equal(t, 3.0, *bundle.AntColony.Beta)
}

func TestLoadOptimizerBundle_UnknownKeyRejected(t *testing.T) {
	// GIVEN a typo in a genetic key
	path := writeTempYAML(t, "genetic:\n  mutaton_rate: 0.2\n")

	// WHEN loading
	_, err := LoadOptimizerBundle(path)

	// THEN strict parsing fails instead of silently using the default
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing optimizer config")
}

func TestLoadOptimizerBundle_MissingFile(t *testing.T) {
	_, err := LoadOptimizerBundle(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading optimizer config")
}

func TestOptimizerBundle_Overlay_SetFieldsWin(t *testing.T) {
	// GIVEN a run-config bundle and a tuning file that sets a different subset
	base := &OptimizerBundle{
		Algorithm: AlgorithmGreedy,
		Workers:   intPtr(2),
		Genetic:   GeneticBundle{PopulationSize: intPtr(30), MutationRate: float64Ptr(0.1)},
	}
	tuning := &OptimizerBundle{
		Algorithm: AlgorithmGenetic,
		Genetic:   GeneticBundle{MutationRate: float64Ptr(0)},
		AntColony: AntColonyBundle{Beta: float64Ptr(4)},
	}

	// WHEN the tuning file is overlaid
	base.Overlay(tuning)

	// THEN set fields replace, unset fields keep the base, and zero counts as set
	assert.Equal(t, AlgorithmGenetic, base.Algorithm)
	assert.Equal(t, 2, *base.Workers)
	assert.Equal(t, 30, *base.Genetic.PopulationSize)
	assert.Equal(t, 0.0, *base.Genetic.MutationRate)
	assert.Equal(t, 4.0, *base.AntColony.Beta)
	assert.Nil(t, base.AntColony.Ants)

	// AND the overlay does not alias the tuning bundle
	*tuning.AntColony.Beta = 9
	assert.Equal(t, 4.0, *base.AntColony.Beta)
}

func TestOptimizerBundle_Config_OverlaysDefaults(t *testing.T) {
	// GIVEN a bundle that sets only the mutation rate and ant count
	bundle := &OptimizerBundle{
		Genetic:   GeneticBundle{MutationRate: float64Ptr(0.2)},
		AntColony: AntColonyBundle{Ants: intPtr(3)},
	}

	// WHEN building the config
	cfg := bundle.Config()

	// THEN set values win and everything else keeps its default
	want := DefaultOptimizerConfig()
	want.Genetic.MutationRate = 0.2
	want.AntColony.Ants = 3
	assert.Equal(t, want, cfg)
}

func TestOptimizerBundle_Config_ZeroIsDistinctFromUnset(t *testing.T) {
	// GIVEN an explicit zero crossover rate
	bundle := &OptimizerBundle{Genetic: GeneticBundle{CrossoverRate: float64Ptr(0)}}

	// THEN the zero is applied rather than the 0.8 default
	assert.Equal(t, 0.0, bundle.Config().Genetic.CrossoverRate)
}

func TestOptimizerBundle_Config_WorkersAppliesToBoth(t *testing.T) {
	bundle := &OptimizerBundle{Workers: intPtr(2)}
	cfg := bundle.Config()
	assert.Equal(t, 2, cfg.Genetic.Workers)
	assert.Equal(t, 2, cfg.AntColony.Workers)
}

func TestOptimizerBundle_Validate(t *testing.T) {
	tests := []struct {
		name    string
		bundle  OptimizerBundle
		wantErr string
	}{
		{"empty bundle", OptimizerBundle{}, ""},
		{"unknown algorithm", OptimizerBundle{Algorithm: "simulated-annealing"}, "unknown algorithm"},
		{"negative workers", OptimizerBundle{Workers: intPtr(-1)}, "workers"},
		{"bad mutation rate for genetic", OptimizerBundle{
			Algorithm: AlgorithmGenetic,
			Genetic:   GeneticBundle{MutationRate: float64Ptr(1.5)},
		}, "genetic: mutation_rate"},
		{"bad rate ignored for greedy", OptimizerBundle{
			Algorithm: AlgorithmGreedy,
			Genetic:   GeneticBundle{MutationRate: float64Ptr(1.5)},
		}, ""},
		{"zero evaporation for ant colony", OptimizerBundle{
			Algorithm: AlgorithmAntColony,
			AntColony: AntColonyBundle{EvaporationRate: float64Ptr(0)},
		}, "ant_colony: evaporation_rate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.bundle.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func writeTempYAML(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "optimizer.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}
