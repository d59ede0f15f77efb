package simulation

import (
	"github.com/nvandessel/clockwalk/internal/aggregate"
	"github.com/nvandessel/clockwalk/internal/walk"
)

// Scenario defines a complete simulation experiment.
type Scenario struct {
	Name    string
	Walk    *walk.Config // nil = walk.DefaultConfig()
	Trials  int          // 0 = aggregate.DefaultBatchConfig().Trials
	Target  int          // 0 = the node opposite the start
	Workers int
	Rounds  int    // 0 = 1
	Seed    uint64 // round i is seeded with Seed+i

	// BeforeRound, when non-nil, is called with the round index and the
	// batch configuration about to run. Use this to vary parameters across
	// rounds (e.g., sweeping the clockwise probability).
	BeforeRound func(round int, cfg *aggregate.BatchConfig)
}

// RoundResult captures the outcome of a single batch.
type RoundResult struct {
	Index    int
	Seed     uint64
	Config   aggregate.BatchConfig
	Snapshot *aggregate.Snapshot

	// Trials holds every trial of the round when the walk records paths,
	// in completion order.
	Trials []walk.TrialResult
}

// SimulationResult captures all rounds of a scenario.
type SimulationResult struct {
	Name   string
	Rounds []RoundResult
}

// Pooled sums last-visited counts across rounds and returns them with the
// total number of trials.
func (r SimulationResult) Pooled() (map[int]int, int) {
	counts := make(map[int]int)
	total := 0
	for _, rr := range r.Rounds {
		for _, n := range rr.Snapshot.Nodes() {
			counts[n] += rr.Snapshot.Count(n)
		}
		total += rr.Snapshot.Trials()
	}
	return counts, total
}
