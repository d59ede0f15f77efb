package aggregate

import (
	"math"
	"slices"

	"github.com/nvandessel/clockwalk/internal/walk"
)

// NodeStats is one row of the distribution table.
type NodeStats struct {
	Node        int     `json:"position"`
	Count       int     `json:"count"`
	Probability float64 `json:"probability"`
	Percentage  float64 `json:"percentage"`
}

// TargetStats summarizes the distinguished node against the symmetry result.
//
// The theoretical value 1/(n-1) holds only for unbiased walks. When
// TheoryValid is false, Theoretical and Deviation are zero and must not be
// read as a comparison.
type TargetStats struct {
	NodeStats
	ApproxOneIn float64 `json:"approx_one_in,omitempty"` // 1/Probability, 0 when never last
	Theoretical float64 `json:"theoretical,omitempty"`
	Deviation   float64 `json:"deviation,omitempty"`
	TheoryValid bool    `json:"theory_valid"`
}

// StepStats summarizes the cover time over a batch.
type StepStats struct {
	Min  int     `json:"min"`
	Max  int     `json:"max"`
	Mean float64 `json:"mean"`
}

// Snapshot is the frozen distribution of last-visited nodes for one batch.
// It exposes read-only accessors; nothing a consumer does can change it.
type Snapshot struct {
	runID  string
	config walk.Config
	target int
	trials int
	counts map[int]int
	steps  StepStats
}

// RunID identifies the batch in logs and trace files.
func (s *Snapshot) RunID() string { return s.runID }

// Trials returns the number of trials aggregated. Always equals the sum of
// all node counts.
func (s *Snapshot) Trials() int { return s.trials }

// Size returns the cycle size.
func (s *Snapshot) Size() int { return s.config.Size }

// Start returns the start node shared by every trial.
func (s *Snapshot) Start() int { return s.config.Start }

// ClockwiseProbability returns the step bias used for every trial.
func (s *Snapshot) ClockwiseProbability() float64 { return s.config.ClockwiseProbability }

// WalkConfig returns the per-trial configuration.
func (s *Snapshot) WalkConfig() walk.Config { return s.config }

// Count returns how many trials ended with node last. Zero for nodes never
// observed last.
func (s *Snapshot) Count(node int) int { return s.counts[node] }

// Probability returns Count(node)/Trials().
func (s *Snapshot) Probability(node int) float64 {
	if s.trials == 0 {
		return 0
	}
	return float64(s.counts[node]) / float64(s.trials)
}

// Percentage returns Probability(node) as a percentage.
func (s *Snapshot) Percentage(node int) float64 {
	return s.Probability(node) * 100
}

// Stats returns the row for node, whether or not it was observed.
func (s *Snapshot) Stats(node int) NodeStats {
	return NodeStats{
		Node:        node,
		Count:       s.Count(node),
		Probability: s.Probability(node),
		Percentage:  s.Percentage(node),
	}
}

// Nodes returns the observed terminal nodes in ascending order.
func (s *Snapshot) Nodes() []int {
	nodes := make([]int, 0, len(s.counts))
	for n := range s.counts {
		nodes = append(nodes, n)
	}
	slices.Sort(nodes)
	return nodes
}

// Rows returns one row per observed terminal node sorted by label.
func (s *Snapshot) Rows() []NodeStats {
	nodes := s.Nodes()
	rows := make([]NodeStats, len(nodes))
	for i, n := range nodes {
		rows[i] = s.Stats(n)
	}
	return rows
}

// Symmetry returns rows for the requested nodes in the order given,
// including nodes that were never last.
func (s *Snapshot) Symmetry(nodes ...int) []NodeStats {
	rows := make([]NodeStats, len(nodes))
	for i, n := range nodes {
		rows[i] = s.Stats(n)
	}
	return rows
}

// Theoretical returns 1/(n-1), the probability of any non-start node being
// last on an unbiased walk, and whether that value applies to this batch.
func (s *Snapshot) Theoretical() (float64, bool) {
	return 1 / float64(s.config.Size-1), s.config.Unbiased()
}

// TargetNode returns the distinguished node.
func (s *Snapshot) TargetNode() int { return s.target }

// Target returns statistics for the distinguished node.
func (s *Snapshot) Target() TargetStats {
	return s.TargetFor(s.target)
}

// TargetFor returns target-style statistics for an arbitrary node.
func (s *Snapshot) TargetFor(node int) TargetStats {
	ts := TargetStats{NodeStats: s.Stats(node)}
	if ts.Probability > 0 {
		ts.ApproxOneIn = 1 / ts.Probability
	}
	if theory, ok := s.Theoretical(); ok {
		// The start node is visited at step 0 and is never last.
		if node == s.config.Start {
			theory = 0
		}
		ts.TheoryValid = true
		ts.Theoretical = theory
		ts.Deviation = math.Abs(ts.Probability - theory)
	}
	return ts
}

// Steps returns cover-time statistics.
func (s *Snapshot) Steps() StepStats { return s.steps }
