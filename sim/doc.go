// Package sim provides the core placement engine and epoch simulation for
// warehouse-sim.
//
// # Reading Guide
//
// Start with these files to understand the kernel:
//   - occupancy.go, shelf.go: the voxel grid and first-fit place/remove engine
//   - warehouse.go: racks, the flattened shelf universe, and scratch Snapshots
//   - simulation.go: the epoch loop (removal, merge, optimize, carry-over)
//
// # Strategies
//
// Optimizer is the single extension point. Three strategies implement it:
//   - Greedy (greedy.go): frequency-first, cheapest-shelf-first, one pass
//   - Genetic (genetic.go): direct-assignment GA with run-wide elitism
//   - AntColony (antcolony.go): pheromone-guided assignment construction
//
// The stochastic strategies evaluate candidates on Snapshots in parallel and
// commit only the winning assignment to the real shelves.
//
// # Sub-packages
//   - sim/scenario/: batch and removal-decision generation
//   - sim/topology/: warehouse construction from configuration
//   - sim/trace/: placement, removal and carry-over records
//   - sim/report/: SQLite run reports
package sim
