package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalPlacements   int
	TotalRemovals     int
	TotalCarries      int
	TotalCost         float64
	MeanPlacementCost float64
	MaxCarryAttempts  int
	UniqueShelves     int
	ShelfDistribution map[string]int // shelf ID → count of placements
	UniqueCarried     int            // distinct products that were ever carried over
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		ShelfDistribution: make(map[string]int),
	}
	if st == nil {
		return summary
	}

	summary.TotalPlacements = len(st.Placements)
	for _, p := range st.Placements {
		summary.ShelfDistribution[p.ShelfID]++
		summary.TotalCost += p.Cost
	}
	if summary.TotalPlacements > 0 {
		summary.MeanPlacementCost = summary.TotalCost / float64(summary.TotalPlacements)
	}
	summary.UniqueShelves = len(summary.ShelfDistribution)

	summary.TotalRemovals = len(st.Removals)

	summary.TotalCarries = len(st.Carries)
	carried := make(map[string]bool)
	for _, c := range st.Carries {
		carried[c.ProductID] = true
		if c.Attempts > summary.MaxCarryAttempts {
			summary.MaxCarryAttempts = c.Attempts
		}
	}
	summary.UniqueCarried = len(carried)

	return summary
}
