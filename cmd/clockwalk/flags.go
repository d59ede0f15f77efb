package main

import (
	"fmt"

	"github.com/nvandessel/clockwalk/internal/config"
	"github.com/nvandessel/clockwalk/internal/cycle"
	"github.com/spf13/cobra"
)

// addWalkFlags registers the flags shared by every command that walks.
// Unset flags leave the configured value alone.
func addWalkFlags(cmd *cobra.Command) {
	cmd.Flags().Int("positions", 0, "Number of positions on the cycle (default 12)")
	cmd.Flags().Int("start", 0, "Start position (default: the last position, 12 on a clock)")
	cmd.Flags().Float64("prob", 0, "Probability that a step moves clockwise (default 0.5)")
	cmd.Flags().Uint64("seed", 0, "Random seed for a reproducible run (0 = random)")
	cmd.Flags().Int("step-limit", 0, "Abort a walk after this many steps (0 = unlimited)")
}

// addBatchFlags registers the flags that only apply to batches.
func addBatchFlags(cmd *cobra.Command) {
	cmd.Flags().Int("trials", 0, "Number of trials (default 50000)")
	cmd.Flags().Int("target", 0, "Position whose probability of being last is highlighted (default 6)")
	cmd.Flags().Int("workers", 0, "Run trials on this many goroutines (0 = sequential)")
	cmd.Flags().IntSlice("symmetry", nil, "Positions to list in the symmetry check (default 1,3,9 and the target)")
	cmd.Flags().String("metrics-file", "", "Write Prometheus metrics for this batch to a textfile")
}

// loadConfig resolves configuration in order: defaults, config file,
// CLOCKWALK_* environment variables, then command-line flags.
func loadConfig(cmd *cobra.Command) (*config.ClockwalkConfig, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadPath(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Logging.Level = level
	}

	sim := &cfg.Simulation
	flags := cmd.Flags()
	if flags.Changed("positions") {
		n, _ := flags.GetInt("positions")
		sim.Resize(n)
	}
	intFlag := func(name string, dst *int) {
		if flags.Changed(name) {
			*dst, _ = flags.GetInt(name)
		}
	}
	intFlag("start", &sim.StartPosition)
	intFlag("step-limit", &sim.StepLimit)
	intFlag("trials", &sim.Trials)
	intFlag("target", &sim.TargetNode)
	intFlag("workers", &sim.Workers)
	if flags.Changed("prob") {
		sim.ClockwiseProbability, _ = flags.GetFloat64("prob")
	}
	if flags.Changed("seed") {
		sim.Seed, _ = flags.GetUint64("seed")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// symmetryNodes returns the --symmetry positions, or nil to select the
// report defaults.
func symmetryNodes(cmd *cobra.Command, n int) ([]int, error) {
	if !cmd.Flags().Changed("symmetry") {
		return nil, nil
	}
	nodes, _ := cmd.Flags().GetIntSlice("symmetry")
	for _, node := range nodes {
		if err := cycle.ValidateLabel(n, node); err != nil {
			return nil, fmt.Errorf("--symmetry: %w", err)
		}
	}
	return nodes, nil
}

// traceDir resolves where trials.jsonl goes.
func traceDir(cfg *config.ClockwalkConfig) string {
	if cfg.Logging.TraceDir != "" {
		return cfg.Logging.TraceDir
	}
	dir, err := config.Dir()
	if err != nil {
		return ".clockwalk"
	}
	return dir
}
