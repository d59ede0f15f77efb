package simulation

import (
	"math"
	"testing"

	"github.com/nvandessel/clockwalk/internal/cycle"
)

// AssertCountsSum asserts that every round's last-visited counts add up to
// its trial count.
func AssertCountsSum(t *testing.T, result SimulationResult) {
	t.Helper()
	for _, rr := range result.Rounds {
		sum := 0
		for _, n := range rr.Snapshot.Nodes() {
			sum += rr.Snapshot.Count(n)
		}
		if sum != rr.Config.Trials {
			t.Errorf("AssertCountsSum: round %d: counts sum to %d, want %d", rr.Index, sum, rr.Config.Trials)
		}
		if rr.Snapshot.Trials() != rr.Config.Trials {
			t.Errorf("AssertCountsSum: round %d: snapshot reports %d trials, want %d", rr.Index, rr.Snapshot.Trials(), rr.Config.Trials)
		}
	}
}

// AssertStartNeverLast asserts that no round ever reports its start node as
// the last visited.
func AssertStartNeverLast(t *testing.T, result SimulationResult) {
	t.Helper()
	for _, rr := range result.Rounds {
		start := rr.Config.Walk.Start
		if c := rr.Snapshot.Count(start); c != 0 {
			t.Errorf("AssertStartNeverLast: round %d: start %d was last %d times", rr.Index, start, c)
		}
	}
}

// AssertProbabilityWithin asserts that node's last-visited probability lies
// in [min, max] in every round.
func AssertProbabilityWithin(t *testing.T, result SimulationResult, node int, min, max float64) {
	t.Helper()
	for _, rr := range result.Rounds {
		p := rr.Snapshot.Probability(node)
		if p < min || p > max {
			t.Errorf("AssertProbabilityWithin: round %d (seed %d): P(last=%d) = %.6f not in [%.4f, %.4f]",
				rr.Index, rr.Seed, node, p, min, max)
		}
	}
}

// AssertDeterministicLast asserts that every trial of every round ended on
// node.
func AssertDeterministicLast(t *testing.T, result SimulationResult, node int) {
	t.Helper()
	for _, rr := range result.Rounds {
		if c := rr.Snapshot.Count(node); c != rr.Config.Trials {
			t.Errorf("AssertDeterministicLast: round %d: node %d last in %d of %d trials", rr.Index, node, c, rr.Config.Trials)
		}
	}
}

// AssertPooledUniform asserts that, pooled across rounds, every non-start
// node is last with probability within tolerance of 1/(n-1).
func AssertPooledUniform(t *testing.T, result SimulationResult, tolerance float64) {
	t.Helper()
	if len(result.Rounds) == 0 {
		t.Error("AssertPooledUniform: no rounds")
		return
	}
	walkCfg := result.Rounds[0].Config.Walk
	counts, total := result.Pooled()
	want := 1 / float64(walkCfg.Size-1)

	for _, node := range cycle.Labels(walkCfg.Size) {
		if node == walkCfg.Start {
			continue
		}
		p := float64(counts[node]) / float64(total)
		if math.Abs(p-want) > tolerance {
			t.Errorf("AssertPooledUniform: P(last=%d) = %.6f, want %.6f ± %.4f over %d trials", node, p, want, tolerance, total)
		}
	}
}

// AssertTrialsCover asserts that each recorded trial visited every node,
// finished on its last first-visit, and walked between neighbors only.
// The scenario must record paths.
func AssertTrialsCover(t *testing.T, result SimulationResult) {
	t.Helper()
	for _, rr := range result.Rounds {
		if len(rr.Trials) == 0 {
			t.Errorf("AssertTrialsCover: round %d recorded no trials (enable Walk.RecordPath)", rr.Index)
			continue
		}
		n := rr.Config.Walk.Size
		for i, tr := range rr.Trials {
			order := tr.VisitOrder()
			if len(order) != n {
				t.Errorf("AssertTrialsCover: round %d trial %d: visited %d of %d nodes", rr.Index, i, len(order), n)
				continue
			}
			if order[n-1] != tr.LastVisited {
				t.Errorf("AssertTrialsCover: round %d trial %d: last first-visit %d, LastVisited %d", rr.Index, i, order[n-1], tr.LastVisited)
			}
			path := tr.Path()
			for j, d := range tr.Directions() {
				if next := cycle.Neighbor(n, path[j], d); next != path[j+1] {
					t.Errorf("AssertTrialsCover: round %d trial %d step %d: %d %s should reach %d, got %d",
						rr.Index, i, j+1, path[j], d, next, path[j+1])
					break
				}
			}
		}
	}
}
