package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/warehouse-sim/warehouse-sim/sim"
	"github.com/warehouse-sim/warehouse-sim/sim/report"
	"github.com/warehouse-sim/warehouse-sim/sim/scenario"
	"github.com/warehouse-sim/warehouse-sim/sim/topology"
	"github.com/warehouse-sim/warehouse-sim/sim/trace"
)

// runResult is one finished simulation.
type runResult struct {
	Algorithm  string
	Simulation *sim.Simulation
	Metrics    *sim.Metrics
	Trace      *trace.SimulationTrace // nil when tracing is off
	Elapsed    time.Duration
}

func generateScenario(cfg RunConfig, rng *sim.PartitionedRNG) *scenario.Scenario {
	sc, err := scenario.Generate(cfg.Scenario, rng.ForSubsystem(sim.SubsystemScenario))
	if err != nil {
		logrus.Fatalf("Generating scenario: %v", err)
	}
	logrus.Infof("Generated %d epochs, %d products (seed %d)", len(sc.Batches), sc.TotalProducts(), cfg.Seed)
	return sc
}

// simulate builds a fresh warehouse and runs sc with the named strategy.
// Each strategy draws from its own RNG stream so results for one strategy do
// not depend on which others ran before it.
func simulate(cfg RunConfig, name string, sc *scenario.Scenario, rng *sim.PartitionedRNG, level trace.TraceLevel) (*runResult, error) {
	optCfg, err := cfg.optimizerConfig(name)
	if err != nil {
		return nil, err
	}
	wh, err := topology.Build(cfg.Warehouse)
	if err != nil {
		return nil, err
	}
	logrus.Infof("Warehouse: %d racks, %d shelves, %d voxels", len(wh.Racks()), len(wh.Shelves()), wh.TotalVoxels())

	var tr *trace.SimulationTrace
	if level == trace.TraceLevelPlacements {
		tr = trace.NewSimulationTrace(level)
	}
	opt := sim.NewOptimizer(optCfg, rng.ForSubsystem(sim.SubsystemAlgorithm(name)))
	s := sim.NewSimulation(wh, opt, tr)

	start := time.Now()
	m := s.Run(sc.Batches, sc.Removals)
	return &runResult{
		Algorithm:  name,
		Simulation: s,
		Metrics:    m,
		Trace:      tr,
		Elapsed:    time.Since(start),
	}, nil
}

func saveReport(path string, seed int64, results []*runResult) error {
	store, err := report.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()
	for _, r := range results {
		runID, err := store.SaveRun(r.Algorithm, seed, r.Metrics, r.Simulation.Layout())
		if err != nil {
			return fmt.Errorf("saving %s run: %w", r.Algorithm, err)
		}
		logrus.Infof("Saved %s run %s to %s", r.Algorithm, runID, path)
	}
	return nil
}

func printLayout(w io.Writer, records []trace.PlacementRecord) {
	fmt.Fprintln(w, "=== Final Layout ===")
	fmt.Fprintf(w, "%-10s %-12s %-14s %-18s %6s %10s\n", "Shelf", "Product", "Voxel(x,y,z)", "Footprint(m)", "Freq", "Cost")
	for _, r := range records {
		fmt.Fprintf(w, "%-10s %-12s %-14s %-18s %6d %10.2f\n",
			r.ShelfID, r.ProductID,
			fmt.Sprintf("(%d,%d,%d)", r.Position[0], r.Position[1], r.Position[2]),
			fmt.Sprintf("%.2fx%.2fx%.2f", r.Footprint[0], r.Footprint[1], r.Footprint[2]),
			r.Frequency, r.Cost)
	}
}

// printTrace writes the trace summary followed by each epoch's placements.
func printTrace(w io.Writer, tr *trace.SimulationTrace, epochs int) {
	ts := trace.Summarize(tr)
	fmt.Fprintln(w, "=== Trace Summary ===")
	fmt.Fprintf(w, "Placements           : %d (mean cost %.2f)\n", ts.TotalPlacements, ts.MeanPlacementCost)
	fmt.Fprintf(w, "Removals             : %d\n", ts.TotalRemovals)
	fmt.Fprintf(w, "Carry-overs          : %d (%d products, max %d attempts)\n",
		ts.TotalCarries, ts.UniqueCarried, ts.MaxCarryAttempts)
	fmt.Fprintf(w, "Shelves used         : %d\n", ts.UniqueShelves)
	shelves := make([]string, 0, len(ts.ShelfDistribution))
	for id := range ts.ShelfDistribution {
		shelves = append(shelves, id)
	}
	sort.Strings(shelves)
	for _, id := range shelves {
		fmt.Fprintf(w, "  %-10s %d\n", id, ts.ShelfDistribution[id])
	}

	fmt.Fprintln(w, "=== Placements by Epoch ===")
	for epoch := 1; epoch <= epochs; epoch++ {
		records := tr.PlacementsForEpoch(epoch)
		cost := 0.0
		ids := make([]string, len(records))
		for i, r := range records {
			cost += r.Cost
			ids[i] = r.ProductID + "@" + r.ShelfID
		}
		fmt.Fprintf(w, "[%03d] %3d placed, cost %10.2f  %s\n", epoch, len(records), cost, strings.Join(ids, " "))
	}
}
