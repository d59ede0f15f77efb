package aggregate

import (
	"testing"

	"github.com/nvandessel/clockwalk/internal/walk"
	"github.com/stretchr/testify/assert"
)

func TestTally_AddAndMerge(t *testing.T) {
	a := NewTally(5)
	a.Add(walk.TrialResult{LastVisited: 3, Steps: 4})
	a.Add(walk.TrialResult{LastVisited: 3, Steps: 10})

	b := NewTally(5)
	b.Add(walk.TrialResult{LastVisited: 4, Steps: 6})

	a.Merge(b)
	assert.Equal(t, 3, a.Trials())

	snap := a.freeze(meta{config: walk.Config{Size: 5, Start: 1, ClockwiseProbability: 0.5}, target: 3})
	assert.Equal(t, []int{3, 4}, snap.Nodes())
	assert.Equal(t, 2, snap.Count(3))
	assert.Equal(t, 1, snap.Count(4))
	assert.Zero(t, snap.Count(2))
	assert.Equal(t, StepStats{Min: 4, Max: 10, Mean: 20.0 / 3}, snap.Steps())
}

func TestTally_MergeEmpty(t *testing.T) {
	a := NewTally(4)
	a.Add(walk.TrialResult{LastVisited: 2, Steps: 3})
	a.Merge(NewTally(4))

	snap := a.freeze(meta{config: walk.Config{Size: 4, Start: 1}})
	assert.Equal(t, StepStats{Min: 3, Max: 3, Mean: 3}, snap.Steps())
}

func TestSnapshot_Derived(t *testing.T) {
	tl := NewTally(12)
	for i := 0; i < 3; i++ {
		tl.Add(walk.TrialResult{LastVisited: 6, Steps: 20})
	}
	tl.Add(walk.TrialResult{LastVisited: 1, Steps: 30})
	snap := tl.freeze(meta{
		runID:  "run-1",
		config: walk.Config{Size: 12, Start: 12, ClockwiseProbability: 0.5},
		target: 6,
	})

	assert.Equal(t, "run-1", snap.RunID())
	assert.Equal(t, 12, snap.Size())
	assert.Equal(t, 12, snap.Start())
	assert.Equal(t, 0.5, snap.ClockwiseProbability())
	assert.Equal(t, 6, snap.TargetNode())

	rows := snap.Rows()
	assert.Equal(t, []NodeStats{
		{Node: 1, Count: 1, Probability: 0.25, Percentage: 25},
		{Node: 6, Count: 3, Probability: 0.75, Percentage: 75},
	}, rows)

	target := snap.Target()
	assert.InDelta(t, 1/0.75, target.ApproxOneIn, 1e-12)
	assert.InDelta(t, 0.75-1.0/11, target.Deviation, 1e-12)

	start := snap.TargetFor(12)
	assert.True(t, start.TheoryValid)
	assert.Zero(t, start.Theoretical, "the start node is never last")
	assert.Zero(t, start.Deviation)
}
