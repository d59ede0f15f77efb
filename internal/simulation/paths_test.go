package simulation_test

import (
	"testing"

	"github.com/nvandessel/clockwalk/internal/simulation"
	"github.com/nvandessel/clockwalk/internal/walk"
)

// TestRecordedWalksCover validates every recorded walk step by step, in
// sequential and parallel batches.
func TestRecordedWalksCover(t *testing.T) {
	for _, workers := range []int{0, 3} {
		r := simulation.NewRunner(t)
		cfg := walk.Config{Size: 7, Start: 4, ClockwiseProbability: 0.5, RecordPath: true}

		result := r.Run(simulation.Scenario{
			Name:    "recorded-walks",
			Walk:    &cfg,
			Trials:  500,
			Workers: workers,
			Rounds:  2,
			Seed:    5,
		})

		for _, rr := range result.Rounds {
			if len(rr.Trials) != 500 {
				t.Errorf("workers=%d round %d: recorded %d trials, want 500", workers, rr.Index, len(rr.Trials))
			}
		}
		simulation.AssertTrialsCover(t, result)
	}
}

// TestReproducibleScenario runs the same seeded scenario twice and expects
// identical snapshots round by round.
func TestReproducibleScenario(t *testing.T) {
	scenario := simulation.Scenario{
		Name:    "reproducible",
		Trials:  3_000,
		Workers: 4,
		Rounds:  3,
		Seed:    123,
	}

	a := simulation.NewRunner(t).Run(scenario)
	b := simulation.NewRunner(t).Run(scenario)

	for i := range a.Rounds {
		sa, sb := a.Rounds[i].Snapshot, b.Rounds[i].Snapshot
		for _, n := range sa.Nodes() {
			if sa.Count(n) != sb.Count(n) {
				t.Errorf("round %d: node %d count %d vs %d", i, n, sa.Count(n), sb.Count(n))
			}
		}
		if sa.Steps() != sb.Steps() {
			t.Errorf("round %d: cover time %+v vs %+v", i, sa.Steps(), sb.Steps())
		}
	}

	// Different seeds per round give different batches.
	if a.Rounds[0].Snapshot.Steps() == a.Rounds[1].Snapshot.Steps() {
		t.Error("rounds 0 and 1 produced identical cover-time statistics")
	}
}
