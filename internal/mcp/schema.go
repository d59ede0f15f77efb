// Package mcp provides an MCP (Model Context Protocol) server for clockwalk.
package mcp

import (
	"github.com/nvandessel/clockwalk/internal/report"
)

// ClockwalkTrialInput defines the input for clockwalk_trial tool. Zero values
// fall back to the server's configured defaults.
type ClockwalkTrialInput struct {
	NumPositions         int      `json:"num_positions,omitempty" jsonschema:"Number of positions on the cycle (default 12, max 100)"`
	StartPosition        int      `json:"start_position,omitempty" jsonschema:"Start position (default num_positions)"`
	ClockwiseProbability *float64 `json:"clockwise_probability,omitempty" jsonschema:"Probability of each step moving clockwise, 0.0-1.0 (default 0.5)"`
	Seed                 uint64   `json:"seed,omitempty" jsonschema:"Random seed for reproducible walks (0 = random)"`
	StepLimit            int      `json:"step_limit,omitempty" jsonschema:"Abort a walk after this many steps (default and cap 20*n^2)"`
	Runs                 int      `json:"runs,omitempty" jsonschema:"Number of independent walks to return (default 1, max 50)"`
}

// ClockwalkTrialOutput defines the output for clockwalk_trial tool.
type ClockwalkTrialOutput struct {
	Seed   uint64             `json:"seed" jsonschema:"Seed used; pass it back to reproduce these trials"`
	Trials []report.TrialView `json:"trials" jsonschema:"One entry per trial with path and first-visit order"`
}

// ClockwalkBatchInput defines the input for clockwalk_batch tool. Zero values
// fall back to the server's configured defaults.
type ClockwalkBatchInput struct {
	NumPositions         int      `json:"num_positions,omitempty" jsonschema:"Number of positions on the cycle (default 12, max 1000)"`
	StartPosition        int      `json:"start_position,omitempty" jsonschema:"Start position (default num_positions)"`
	ClockwiseProbability *float64 `json:"clockwise_probability,omitempty" jsonschema:"Probability of each step moving clockwise, 0.0-1.0 (default 0.5)"`
	Seed                 uint64   `json:"seed,omitempty" jsonschema:"Random seed for a reproducible batch (0 = random)"`
	StepLimit            int      `json:"step_limit,omitempty" jsonschema:"Abort a walk after this many steps (0 = unlimited)"`
	Trials               int      `json:"trials,omitempty" jsonschema:"Number of walks to aggregate (default 50000)"`
	TargetNode           int      `json:"target_node,omitempty" jsonschema:"Position to compare against 1/(n-1) (default 6)"`
	Workers              int      `json:"workers,omitempty" jsonschema:"Parallel workers (0 = sequential)"`
	Symmetry             []int    `json:"symmetry,omitempty" jsonschema:"Positions to list in the symmetry check"`
}

// ClockwalkBatchOutput defines the output for clockwalk_batch tool.
type ClockwalkBatchOutput struct {
	Seed uint64 `json:"seed" jsonschema:"Seed used; pass it back to reproduce this batch"`
	report.BatchView
}
