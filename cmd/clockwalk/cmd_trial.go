package main

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"github.com/google/uuid"
	"github.com/nvandessel/clockwalk/internal/logging"
	"github.com/nvandessel/clockwalk/internal/report"
	"github.com/nvandessel/clockwalk/internal/walk"
	"github.com/spf13/cobra"
)

func newTrialCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trial",
		Short: "Run a single covering walk and show how it went",
		Long: `Run one walk (or a few with --runs) and show the path taken and the
position that was reached last.

Examples:
  clockwalk trial                     # One walk on the clock, from 12
  clockwalk trial --trace             # Step-by-step account of the walk
  clockwalk trial --runs 10           # Compare the last position across runs
  clockwalk trial --prob 1            # Always clockwise: 11 is last`,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			trace, _ := cmd.Flags().GetBool("trace")
			runs, _ := cmd.Flags().GetInt("runs")
			if runs < 1 {
				return fmt.Errorf("--runs must be at least 1, got %d", runs)
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := logging.NewLogger(cfg.Logging.Level, cmd.ErrOrStderr())

			runID := uuid.NewString()
			tl := logging.NewTraceLogger(traceDir(cfg), cfg.Logging.Level, runID)
			defer tl.Close()

			wc := cfg.Simulation.WalkConfig()
			wc.RecordPath = true
			engine, err := walk.NewEngine(wc)
			if err != nil {
				return err
			}

			rng, seed := cfg.Simulation.Rand()
			logger.Debug("running trials", "run_id", runID, "runs", runs, "seed", seed)

			results := make([]walk.TrialResult, 0, runs)
			for i := 0; i < runs; i++ {
				r, err := engine.Run(rng)
				if err != nil {
					return fmt.Errorf("trial %d: %w", i+1, err)
				}
				tl.OnTrial(r)
				results = append(results, r)
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				views := make([]report.TrialView, len(results))
				for i, r := range results {
					views[i] = report.NewTrialView(r)
				}
				return json.NewEncoder(out).Encode(map[string]interface{}{
					"run_id": runID,
					"seed":   seed,
					"trials": views,
				})
			}

			fmt.Fprintf(out, "Walking %d positions from %d (clockwise probability %.2f, seed %d)\n\n",
				wc.Size, wc.Start, wc.ClockwiseProbability, seed)
			if runs == 1 {
				return writeSingleTrial(out, results[0], trace)
			}
			return writeTrialComparison(out, results, trace)
		},
	}

	addWalkFlags(cmd)
	cmd.Flags().Bool("trace", false, "Print every step of the walk")
	cmd.Flags().Int("runs", 1, "Number of walks to run and compare")

	return cmd
}

func writeSingleTrial(w io.Writer, r walk.TrialResult, trace bool) error {
	if trace {
		if err := report.WriteTrace(w, r); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(w, "Last position to be colored: %d\n", r.LastVisited)
		fmt.Fprintf(w, "All positions visited in %d steps\n", r.Steps)
	}
	_, err := fmt.Fprintf(w, "\nPath: %s\n", report.PathLine(r))
	return err
}

func writeTrialComparison(w io.Writer, results []walk.TrialResult, trace bool) error {
	counts := make(map[int]int)
	for i, r := range results {
		if trace {
			fmt.Fprintf(w, "--- Run %d ---\n", i+1)
			if err := report.WriteTrace(w, r); err != nil {
				return err
			}
			fmt.Fprintln(w)
		}
		if err := report.WriteTrialSummary(w, i+1, r); err != nil {
			return err
		}
		counts[r.LastVisited]++
	}

	nodes := make([]int, 0, len(counts))
	for n := range counts {
		nodes = append(nodes, n)
	}
	slices.Sort(nodes)

	fmt.Fprintln(w, "\nLast position counts:")
	for _, n := range nodes {
		fmt.Fprintf(w, "  %2d: %d\n", n, counts[n])
	}
	return nil
}
