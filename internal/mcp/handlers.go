package mcp

import (
	"context"
	"fmt"
	"time"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/nvandessel/clockwalk/internal/aggregate"
	"github.com/nvandessel/clockwalk/internal/config"
	"github.com/nvandessel/clockwalk/internal/cycle"
	"github.com/nvandessel/clockwalk/internal/report"
	"github.com/nvandessel/clockwalk/internal/walk"
)

const (
	// maxTrialRuns bounds clockwalk_trial, whose output carries full paths.
	maxTrialRuns = 50

	// maxTrialPositions bounds the cycle size of clockwalk_trial below the
	// server-wide cap.
	maxTrialPositions = 100

	// trialStepFactor scales the clockwalk_trial step limit with n². The
	// unbiased cover time of an n-cycle averages n(n-1)/2 steps.
	trialStepFactor = 20
)

// registerTools registers all clockwalk tools with the MCP server.
func (s *Server) registerTools() {
	// Register clockwalk_trial tool
	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "clockwalk_trial",
		Description: "Run covering random walks on a cycle and return each walk's path and last-visited node",
	}, s.handleClockwalkTrial)

	// Register clockwalk_batch tool
	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "clockwalk_batch",
		Description: "Run many covering walks and return the distribution of the last-visited node, with the target node compared to 1/(n-1)",
	}, s.handleClockwalkBatch)
}

// walkParams are the walk settings both tools accept.
type walkParams struct {
	numPositions         int
	startPosition        int
	clockwiseProbability *float64
	seed                 uint64
	stepLimit            int
}

func (in ClockwalkTrialInput) params() walkParams {
	return walkParams{in.NumPositions, in.StartPosition, in.ClockwiseProbability, in.Seed, in.StepLimit}
}

func (in ClockwalkBatchInput) params() walkParams {
	return walkParams{in.NumPositions, in.StartPosition, in.ClockwiseProbability, in.Seed, in.StepLimit}
}

// simulation merges tool input over the server defaults.
func (s *Server) simulation(in walkParams) config.SimulationConfig {
	sim := s.defaults
	if in.numPositions != 0 {
		sim.Resize(in.numPositions)
	}
	if in.startPosition != 0 {
		sim.StartPosition = in.startPosition
	}
	if in.clockwiseProbability != nil {
		sim.ClockwiseProbability = *in.clockwiseProbability
	}
	if in.seed != 0 {
		sim.Seed = in.seed
	}
	if in.stepLimit != 0 {
		sim.StepLimit = in.stepLimit
	}
	return sim
}

// validate checks the merged settings and the server's size cap.
func (s *Server) validate(sim config.SimulationConfig) error {
	c := config.Default()
	c.Simulation = sim
	if err := c.Validate(); err != nil {
		return err
	}
	if sim.NumPositions > s.maxPos {
		return fmt.Errorf("num_positions %d exceeds server limit %d: %w", sim.NumPositions, s.maxPos, cycle.ErrInvalidArgument)
	}
	return nil
}

// trialStepLimit bounds a recorded walk, whose path grows with every step.
// An explicit step_limit is honored only below the cap.
func trialStepLimit(n, requested int) int {
	limit := trialStepFactor * n * n
	if requested > 0 && requested < limit {
		return requested
	}
	return limit
}

// handleClockwalkTrial implements the clockwalk_trial tool.
func (s *Server) handleClockwalkTrial(ctx context.Context, req *sdk.CallToolRequest, args ClockwalkTrialInput) (*sdk.CallToolResult, ClockwalkTrialOutput, error) {
	if err := s.limiters.Check("clockwalk_trial"); err != nil {
		return nil, ClockwalkTrialOutput{}, err
	}

	sim := s.simulation(args.params())
	if err := s.validate(sim); err != nil {
		return nil, ClockwalkTrialOutput{}, err
	}

	if limit := min(s.maxPos, maxTrialPositions); sim.NumPositions > limit {
		return nil, ClockwalkTrialOutput{}, fmt.Errorf("num_positions %d exceeds trial limit %d: %w", sim.NumPositions, limit, cycle.ErrInvalidArgument)
	}

	runs := args.Runs
	if runs == 0 {
		runs = 1
	}
	if runs < 0 || runs > maxTrialRuns {
		return nil, ClockwalkTrialOutput{}, fmt.Errorf("runs %d outside 1..%d: %w", runs, maxTrialRuns, cycle.ErrInvalidArgument)
	}

	wc := sim.WalkConfig()
	wc.RecordPath = true
	wc.StepLimit = trialStepLimit(wc.Size, wc.StepLimit)
	engine, err := walk.NewEngine(wc)
	if err != nil {
		return nil, ClockwalkTrialOutput{}, err
	}

	rng, seed := sim.Rand()
	out := ClockwalkTrialOutput{Seed: seed, Trials: make([]report.TrialView, 0, runs)}
	for i := 0; i < runs; i++ {
		if err := ctx.Err(); err != nil {
			return nil, ClockwalkTrialOutput{}, err
		}
		r, err := engine.Run(rng)
		if err != nil {
			return nil, ClockwalkTrialOutput{}, err
		}
		s.metrics.OnTrial(r)
		out.Trials = append(out.Trials, report.NewTrialView(r))
	}

	s.logger.Debug("clockwalk_trial", "runs", runs, "seed", seed)
	return nil, out, nil
}

// handleClockwalkBatch implements the clockwalk_batch tool.
func (s *Server) handleClockwalkBatch(ctx context.Context, req *sdk.CallToolRequest, args ClockwalkBatchInput) (_ *sdk.CallToolResult, _ ClockwalkBatchOutput, retErr error) {
	if err := s.limiters.Check("clockwalk_batch"); err != nil {
		return nil, ClockwalkBatchOutput{}, err
	}

	start := time.Now()
	defer func() {
		s.metrics.BatchFinished(retErr)
		s.logger.Info("clockwalk_batch", "duration", time.Since(start), "error", retErr)
	}()

	sim := s.simulation(args.params())
	if args.Trials != 0 {
		sim.Trials = args.Trials
	}
	if args.TargetNode != 0 {
		sim.TargetNode = args.TargetNode
	}
	if args.Workers != 0 {
		sim.Workers = args.Workers
	}
	if err := s.validate(sim); err != nil {
		return nil, ClockwalkBatchOutput{}, err
	}
	if sim.Trials > s.maxTrials {
		return nil, ClockwalkBatchOutput{}, fmt.Errorf("trials %d exceeds server limit %d: %w", sim.Trials, s.maxTrials, cycle.ErrInvalidArgument)
	}
	for _, n := range args.Symmetry {
		if err := cycle.ValidateLabel(sim.NumPositions, n); err != nil {
			return nil, ClockwalkBatchOutput{}, fmt.Errorf("symmetry: %w", err)
		}
	}

	rng, seed := sim.Rand()
	bc := sim.BatchConfig()
	bc.Observer = s.metrics

	snap, err := aggregate.RunBatch(ctx, bc, rng)
	if err != nil {
		return nil, ClockwalkBatchOutput{}, err
	}

	return nil, ClockwalkBatchOutput{
		Seed:      seed,
		BatchView: report.NewBatchView(snap, args.Symmetry),
	}, nil
}
