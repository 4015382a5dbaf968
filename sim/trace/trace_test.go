package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidTraceLevel(t *testing.T) {
	assert.True(t, IsValidTraceLevel("none"))
	assert.True(t, IsValidTraceLevel("placements"))
	assert.True(t, IsValidTraceLevel(""))
	assert.False(t, IsValidTraceLevel("decisions"))
}

func TestSimulationTrace_Enabled(t *testing.T) {
	var nilTrace *SimulationTrace
	assert.False(t, nilTrace.Enabled())
	assert.False(t, NewSimulationTrace(TraceLevelNone).Enabled())
	assert.True(t, NewSimulationTrace(TraceLevelPlacements).Enabled())
}

func TestSimulationTrace_PlacementsForEpoch(t *testing.T) {
	st := NewSimulationTrace(TraceLevelPlacements)
	st.RecordPlacement(PlacementRecord{Epoch: 1, ProductID: "a"})
	st.RecordPlacement(PlacementRecord{Epoch: 2, ProductID: "b"})
	st.RecordPlacement(PlacementRecord{Epoch: 2, ProductID: "c"})

	got := st.PlacementsForEpoch(2)

	assert.Equal(t, []PlacementRecord{{Epoch: 2, ProductID: "b"}, {Epoch: 2, ProductID: "c"}}, got)
	assert.Empty(t, st.PlacementsForEpoch(3))
}

func TestSummarize(t *testing.T) {
	// GIVEN a trace with placements on two shelves, one removal, and a product carried twice
	st := NewSimulationTrace(TraceLevelPlacements)
	st.RecordPlacement(PlacementRecord{Epoch: 1, ProductID: "a", ShelfID: "R0-S0", Cost: 10})
	st.RecordPlacement(PlacementRecord{Epoch: 1, ProductID: "b", ShelfID: "R0-S0", Cost: 20})
	st.RecordPlacement(PlacementRecord{Epoch: 2, ProductID: "c", ShelfID: "R1-S0", Cost: 30})
	st.RecordRemoval(RemovalRecord{Epoch: 2, ProductID: "a", ShelfID: "R0-S0"})
	st.RecordCarry(CarryRecord{Epoch: 1, ProductID: "x", Attempts: 1})
	st.RecordCarry(CarryRecord{Epoch: 2, ProductID: "x", Attempts: 2})

	// WHEN summarized
	s := Summarize(st)

	// THEN
	assert.Equal(t, 3, s.TotalPlacements)
	assert.Equal(t, 1, s.TotalRemovals)
	assert.Equal(t, 2, s.TotalCarries)
	assert.Equal(t, 60.0, s.TotalCost)
	assert.Equal(t, 20.0, s.MeanPlacementCost)
	assert.Equal(t, 2, s.MaxCarryAttempts)
	assert.Equal(t, 1, s.UniqueCarried)
	assert.Equal(t, 2, s.UniqueShelves)
	assert.Equal(t, map[string]int{"R0-S0": 2, "R1-S0": 1}, s.ShelfDistribution)
}

func TestSummarize_NilTrace(t *testing.T) {
	s := Summarize(nil)
	assert.Equal(t, 0, s.TotalPlacements)
	assert.NotNil(t, s.ShelfDistribution)
}
