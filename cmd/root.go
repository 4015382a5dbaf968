package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/warehouse-sim/warehouse-sim/sim"
	"github.com/warehouse-sim/warehouse-sim/sim/trace"
)

var (
	// CLI flags shared by run and compare
	configPath          string  // Path to run.yaml
	optimizerConfigPath string  // Path to an optimizer tuning YAML overlaid on the run config
	seed                int64   // Seed for scenario generation and stochastic optimizers
	epochs              int     // Number of epochs to simulate
	productsPerEpoch    int     // Products arriving per epoch
	removalChance       float64 // Base per-epoch removal probability of a stored product
	workers             int     // Parallel evaluators for genetic / ant-colony (0 = GOMAXPROCS)
	logLevel            string  // Log verbosity level
	reportDB            string  // SQLite report path; empty disables the report

	// run-only flags
	algorithm      string // Placement strategy
	showPlacements bool   // Print the final layout
	traceLevel     string // Placement trace verbosity

	// compare-only flags
	compareAlgorithms []string // Strategies to compare
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "warehouse-sim",
	Short: "Epoch simulator for voxel-based warehouse product placement",
}

// runCmd executes one simulation using parameters from the config file and CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the placement simulation with one strategy",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()
		if !trace.IsValidTraceLevel(traceLevel) {
			logrus.Fatalf("Invalid trace level: %s", traceLevel)
		}

		cfg := loadConfig(cmd)
		name := cfg.Optimizer.Config().Algorithm
		if cmd.Flags().Changed("algorithm") {
			name = algorithm
		}
		if !sim.IsValidAlgorithm(name) || name == "" {
			logrus.Fatalf("Unknown algorithm %q; valid: %v", name, sim.ValidAlgorithmNames())
		}

		rng := sim.NewPartitionedRNG(sim.NewSimulationKey(cfg.Seed))
		sc := generateScenario(cfg, rng)

		level := trace.TraceLevel(traceLevel)
		if showPlacements && level != trace.TraceLevelPlacements {
			level = trace.TraceLevelPlacements
		}
		res, err := simulate(cfg, name, sc, rng, level)
		if err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}

		res.Metrics.Print()
		fmt.Printf("Wall time            : %v\n", res.Elapsed)
		if res.Trace.Enabled() {
			printTrace(os.Stdout, res.Trace, res.Simulation.Epoch())
		}
		if showPlacements {
			printLayout(os.Stdout, res.Simulation.Layout())
		}
		if reportDB != "" {
			if err := saveReport(reportDB, cfg.Seed, []*runResult{res}); err != nil {
				logrus.Fatalf("Writing report: %v", err)
			}
		}
		logrus.Info("Simulation complete.")
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogging() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// loadConfig reads --config and --optimizer-config, applies explicitly set flags, and validates.
func loadConfig(cmd *cobra.Command) RunConfig {
	cfg, err := LoadRunConfigWithTuning(configPath, optimizerConfigPath)
	if err != nil {
		logrus.Fatalf("%v", err)
	}
	applyFlagOverrides(cmd, &cfg)
	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("Invalid configuration: %v", err)
	}
	return cfg
}

// applyFlagOverrides copies flag values into cfg only for flags the user set,
// so a config file value is never clobbered by a flag default.
func applyFlagOverrides(cmd *cobra.Command, cfg *RunConfig) {
	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("epochs") {
		cfg.Scenario.Epochs = epochs
	}
	if flags.Changed("products-per-epoch") {
		cfg.Scenario.ProductsPerEpoch = productsPerEpoch
	}
	if flags.Changed("removal-chance") {
		cfg.Scenario.BaseRemovalChance = removalChance
	}
	if flags.Changed("workers") {
		w := workers
		cfg.Optimizer.Workers = &w
	}
}

func registerCommonFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configPath, "config", "", "Path to run YAML (warehouse, scenario, optimizer sections)")
	cmd.Flags().StringVar(&optimizerConfigPath, "optimizer-config", "", "Path to optimizer YAML (algorithm, workers, genetic, ant_colony); overrides the run config's optimizer section")
	cmd.Flags().Int64Var(&seed, "seed", 42, "Seed for scenario generation and stochastic strategies")
	cmd.Flags().IntVar(&epochs, "epochs", 10, "Number of epochs to simulate")
	cmd.Flags().IntVar(&productsPerEpoch, "products-per-epoch", 20, "Products arriving per epoch")
	cmd.Flags().Float64Var(&removalChance, "removal-chance", 0.1, "Base per-epoch removal probability of a stored product")
	cmd.Flags().IntVar(&workers, "workers", 0, "Parallel evaluators for genetic and ant-colony (0 = GOMAXPROCS)")
	cmd.Flags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	cmd.Flags().StringVar(&reportDB, "report-db", "", "Write a SQLite run report to this path")
}

// init sets up CLI flags and subcommands
func init() {
	registerCommonFlags(runCmd)
	runCmd.Flags().StringVar(&algorithm, "algorithm", sim.AlgorithmGreedy, "Placement strategy (greedy, genetic, ant-colony)")
	runCmd.Flags().BoolVar(&showPlacements, "show-placements", false, "Print the final product layout")
	runCmd.Flags().StringVar(&traceLevel, "trace-level", "none", "Trace verbosity (none, placements)")

	registerCommonFlags(compareCmd)
	compareCmd.Flags().StringSliceVar(&compareAlgorithms, "algorithms", sim.ValidAlgorithmNames(), "Strategies to compare")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(compareCmd)
}
