package main

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/nvandessel/clockwalk/internal/aggregate"
	"github.com/nvandessel/clockwalk/internal/logging"
	"github.com/nvandessel/clockwalk/internal/metrics"
	"github.com/nvandessel/clockwalk/internal/report"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

func newBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Run many walks and report which position tends to be last",
		Long: `Run a batch of independent walks and report the distribution of the
last-visited position, the probability for the target position, and how it
compares with the theoretical 1/(n-1) for an unbiased walk.

Progress is logged to stderr every 1,000 trials (every tenth of a smaller
batch). Interrupting the command stops the batch between trials.

Examples:
  clockwalk batch                                 # 50,000 walks on the clock
  clockwalk batch --trials 200000 --workers 8     # Parallel, larger batch
  clockwalk batch --seed 42 --json                # Reproducible JSON output
  clockwalk batch --prob 0.7                      # Biased walk (no 1/11 comparison)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			metricsFile, _ := cmd.Flags().GetString("metrics-file")

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			symmetry, err := symmetryNodes(cmd, cfg.Simulation.NumPositions)
			if err != nil {
				return err
			}
			logger := logging.NewLogger(cfg.Logging.Level, cmd.ErrOrStderr())

			runID := uuid.NewString()
			tl := logging.NewTraceLogger(traceDir(cfg), cfg.Logging.Level, runID)
			defer tl.Close()

			bc := cfg.Simulation.BatchConfig()
			bc.RunID = runID
			bc.Walk.RecordPath = tl.WantsPaths()

			observers := aggregate.Observers{
				logging.ProgressLogger{Logger: logger, Format: report.ProgressLine},
				tl,
			}
			var collector *metrics.Collector
			if metricsFile != "" {
				collector = metrics.NewCollector()
				observers = append(observers, collector)
			}
			bc.Observer = observers

			rng, seed := cfg.Simulation.Rand()
			logger.Info("starting batch",
				"run_id", runID,
				"trials", bc.Trials,
				"positions", bc.Walk.Size,
				"start", bc.Walk.Start,
				"clockwise_probability", bc.Walk.ClockwiseProbability,
				"workers", bc.Workers,
				"seed", seed,
			)

			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			snap, err := aggregate.RunBatch(ctx, bc, rng)
			if collector != nil {
				collector.BatchFinished(err)
				if werr := prometheus.WriteToTextfile(metricsFile, collector.Registry()); werr != nil {
					logger.Warn("failed to write metrics file", "path", metricsFile, "error", werr)
				}
			}
			if err != nil {
				return fmt.Errorf("batch %s: %w", runID, err)
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				return json.NewEncoder(out).Encode(struct {
					Seed uint64 `json:"seed"`
					report.BatchView
				}{seed, report.NewBatchView(snap, symmetry)})
			}

			if err := report.WriteBatch(out, snap, symmetry); err != nil {
				return err
			}
			fmt.Fprintf(out, "\nRun %s (seed %d)\n", runID, seed)
			return nil
		},
	}

	addWalkFlags(cmd)
	addBatchFlags(cmd)

	return cmd
}
