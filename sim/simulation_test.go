package sim

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warehouse-sim/warehouse-sim/sim/trace"
)

func cube(id string, freq int) *Product {
	return NewProduct(id, 1, Dims{0.5, 0.5, 0.5}, freq)
}

func assertConserved(t *testing.T, s EpochSummary) {
	t.Helper()
	assert.Equal(t, s.CarriedIn+s.Incoming-s.Rejected, s.Placed+s.CarriedOut,
		"epoch %d: carried-in %d + accepted %d != placed %d + carried-out %d",
		s.Epoch, s.CarriedIn, s.Incoming-s.Rejected, s.Placed, s.CarriedOut)
}

func TestSimulation_CarryOverRetriedAfterRemoval(t *testing.T) {
	// GIVEN one 8-voxel shelf with cost 1
	wh := singleShelfWarehouse(t, Dims{1, 1, 1})
	sim := NewSimulation(wh, NewGreedy(), nil)

	// WHEN epoch 1 delivers 10 cubes
	var first []*Product
	for i := 0; i < 10; i++ {
		first = append(first, cube(fmt.Sprintf("P%d", i), 1))
	}
	s1 := sim.RunEpoch(first, nil)

	// THEN 8 are placed and 2 carried
	assert.Equal(t, 8, s1.Placed)
	assert.Equal(t, 2, s1.CarriedOut)
	assert.Equal(t, 8.0, s1.BatchCost)
	assertConserved(t, s1)
	require.Len(t, sim.Pending(), 2)

	// WHEN epoch 2 removes three stored cubes and delivers one more
	s2 := sim.RunEpoch([]*Product{cube("late", 5)}, []string{"P0", "P1", "P2"})

	// THEN the carried products and the new one fill the freed space
	assert.Equal(t, 3, s2.Removed)
	assert.Equal(t, 2, s2.CarriedIn)
	assert.Equal(t, 3, s2.Placed)
	assert.Equal(t, 0, s2.CarriedOut)
	assert.Equal(t, 8, s2.StoredProducts)
	assert.InDelta(t, 100.0, s2.OccupancyPercent, 1e-9)
	assert.Equal(t, 7.0, s2.BatchCost)
	assert.Equal(t, 15.0, s2.CumulativeCost)
	assertConserved(t, s2)
	assert.Empty(t, sim.Pending())
}

func TestSimulation_UnknownAndPendingRemovalsIgnored(t *testing.T) {
	wh := singleShelfWarehouse(t, Dims{1, 1, 1})
	sim := NewSimulation(wh, NewGreedy(), nil)
	sim.RunEpoch([]*Product{cube("A", 1), NewProduct("huge", 1, Dims{2, 2, 2}, 1)}, nil)
	require.Len(t, sim.Pending(), 1)

	// WHEN removals name an unknown ID, a pending product and a stored one twice
	s := sim.RunEpoch(nil, []string{"ghost", "huge", "A", "A"})

	// THEN only the stored product is removed and the pending one is still retried
	assert.Equal(t, 1, s.Removed)
	assert.Equal(t, 3, s.IgnoredRemovals)
	assert.Equal(t, 1, s.CarriedOut)
	assert.Equal(t, []string{}, sim.StoredIDs())
}

func TestSimulation_RejectsInvalidAndDuplicateProducts(t *testing.T) {
	wh := singleShelfWarehouse(t, Dims{1, 1, 1})
	sim := NewSimulation(wh, NewGreedy(), nil)
	sim.RunEpoch([]*Product{cube("A", 1)}, nil)

	s := sim.RunEpoch([]*Product{
		cube("A", 1),                            // already stored
		cube("B", 1),                            // ok
		cube("B", 2),                            // duplicate within batch
		NewProduct("C", 1, Dims{0, 1, 1}, 1),    // invalid dims
		NewProduct("D", 1, Dims{.5, .5, .5}, 0), // invalid frequency
	}, nil)

	assert.Equal(t, 5, s.Incoming)
	assert.Equal(t, 4, s.Rejected)
	assert.Equal(t, 1, s.Placed)
	assertConserved(t, s)
	assert.Equal(t, []string{"A", "B"}, sim.StoredIDs())
}

func TestSimulation_Conservation_RandomScenario(t *testing.T) {
	// GIVEN a small warehouse and a stream of random batches and removals
	rng := rand.New(rand.NewSource(21))
	wh := newTestWarehouse(t, 2, 2)
	sim := NewSimulation(wh, NewGreedy(), trace.NewSimulationTrace(trace.TraceLevelPlacements))

	next := 0
	for epoch := 0; epoch < 15; epoch++ {
		var removals []string
		for _, id := range sim.StoredIDs() {
			if rng.Float64() < 0.3 {
				removals = append(removals, id)
			}
		}
		var batch []*Product
		for i := 0; i < 6; i++ {
			d := Dims{0.2 + rng.Float64()*0.8, 0.2 + rng.Float64()*0.8, 0.2 + rng.Float64()*0.3}
			batch = append(batch, NewProduct(fmt.Sprintf("P%03d", next), 1, d, 1+rng.Intn(9)))
			next++
		}

		s := sim.RunEpoch(batch, removals)

		// THEN every epoch conserves products and the warehouse agrees with the index
		assertConserved(t, s)
		assert.Equal(t, len(sim.StoredIDs()), wh.ProductCount())
		for _, shelf := range wh.Shelves() {
			assertShelfConsistent(t, shelf)
		}
	}
	assert.Len(t, sim.Metrics.Epochs, 15)
	assert.InDelta(t, sim.TotalCost(), sim.Metrics.TotalCost, 1e-9)
}

func TestSimulation_Run_UsesRemovalsPerEpoch(t *testing.T) {
	wh := singleShelfWarehouse(t, Dims{1, 1, 1})
	sim := NewSimulation(wh, NewGreedy(), nil)

	m := sim.Run(
		[][]*Product{{cube("A", 2)}, {cube("B", 3)}, {}},
		[][]string{nil, {"A"}},
	)

	assert.Equal(t, 3, sim.Epoch())
	assert.Equal(t, 2, m.TotalPlaced)
	assert.Equal(t, 1, m.TotalRemoved)
	assert.Equal(t, 5.0, m.TotalCost)
	assert.Equal(t, []string{"B"}, sim.StoredIDs())
}

func TestSimulation_TraceAndLayout(t *testing.T) {
	wh := singleShelfWarehouse(t, Dims{1, 1, 1})
	tr := trace.NewSimulationTrace(trace.TraceLevelPlacements)
	sim := NewSimulation(wh, NewGreedy(), tr)

	sim.RunEpoch([]*Product{cube("A", 4), NewProduct("huge", 1, Dims{2, 2, 2}, 1)}, nil)
	sim.RunEpoch(nil, []string{"A"})

	want := []trace.PlacementRecord{{
		Epoch: 1, ProductID: "A", ShelfID: "S",
		Position: [3]int{0, 0, 0}, Footprint: [3]float64{0.5, 0.5, 0.5},
		Frequency: 4, Cost: 4,
	}}
	if diff := cmp.Diff(want, tr.Placements); diff != "" {
		t.Errorf("placements mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []trace.RemovalRecord{{Epoch: 2, ProductID: "A", ShelfID: "S"}}, tr.Removals)
	assert.Equal(t, []trace.CarryRecord{
		{Epoch: 1, ProductID: "huge", Attempts: 1},
		{Epoch: 2, ProductID: "huge", Attempts: 2},
	}, tr.Carries)
	assert.Empty(t, sim.Layout())
}

func TestSimulation_IndexesPreStoredProducts(t *testing.T) {
	wh := singleShelfWarehouse(t, Dims{1, 1, 1})
	pre := cube("pre", 1)
	require.True(t, wh.Shelves()[0].PlaceProduct(pre))

	sim := NewSimulation(wh, NewGreedy(), nil)
	s := sim.RunEpoch(nil, []string{"pre"})

	assert.Equal(t, 1, s.Removed)
	assert.False(t, pre.IsPlaced())
}

func TestNewSimulation_PanicsOnNil(t *testing.T) {
	assert.Panics(t, func() { NewSimulation(nil, NewGreedy(), nil) })
	assert.Panics(t, func() { NewSimulation(NewWarehouse(0.5), nil, nil) })
}

func TestSimulation_StochasticStrategiesConserve(t *testing.T) {
	for _, name := range []string{AlgorithmGenetic, AlgorithmAntColony} {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultOptimizerConfig()
			cfg.Algorithm = name
			cfg.Genetic = smallGeneticConfig()
			cfg.AntColony = smallAntColonyConfig()
			wh := newTestWarehouse(t, 1, 2)
			sim := NewSimulation(wh, NewOptimizer(cfg, rand.New(rand.NewSource(2))), nil)

			for epoch := 0; epoch < 3; epoch++ {
				batch := cubeBatch(7)
				for _, p := range batch {
					p.ID = fmt.Sprintf("E%d-%s", epoch, p.ID)
				}
				s := sim.RunEpoch(batch, nil)
				assertConserved(t, s)
				for _, shelf := range wh.Shelves() {
					assertShelfConsistent(t, shelf)
				}
			}
		})
	}
}
