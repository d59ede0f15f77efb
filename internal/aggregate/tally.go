package aggregate

import (
	"math"

	"github.com/nvandessel/clockwalk/internal/walk"
)

// Tally accumulates trial outcomes. It is mutated additively and is not safe
// for concurrent use; parallel batches keep one tally per worker and Merge
// them once every worker has finished.
type Tally struct {
	size     int
	counts   []int // indexed by label; slot 0 unused
	trials   int
	stepsSum int64
	stepsMin int
	stepsMax int
}

// NewTally returns an empty tally for a cycle of size nodes.
func NewTally(size int) *Tally {
	return &Tally{
		size:     size,
		counts:   make([]int, size+1),
		stepsMin: math.MaxInt,
	}
}

// Add records one trial outcome.
func (t *Tally) Add(r walk.TrialResult) {
	t.counts[r.LastVisited]++
	t.trials++
	t.stepsSum += int64(r.Steps)
	t.stepsMin = min(t.stepsMin, r.Steps)
	t.stepsMax = max(t.stepsMax, r.Steps)
}

// Merge adds every outcome recorded in o. Both tallies must share a size.
func (t *Tally) Merge(o *Tally) {
	for label, c := range o.counts {
		t.counts[label] += c
	}
	t.trials += o.trials
	t.stepsSum += o.stepsSum
	t.stepsMin = min(t.stepsMin, o.stepsMin)
	t.stepsMax = max(t.stepsMax, o.stepsMax)
}

// Trials returns the number of outcomes recorded so far.
func (t *Tally) Trials() int {
	return t.trials
}

type meta struct {
	runID  string
	config walk.Config
	target int
}

// freeze copies the tally into a read-only Snapshot.
func (t *Tally) freeze(m meta) *Snapshot {
	counts := make(map[int]int)
	for label, c := range t.counts {
		if c > 0 {
			counts[label] = c
		}
	}
	steps := StepStats{}
	if t.trials > 0 {
		steps = StepStats{
			Min:  t.stepsMin,
			Max:  t.stepsMax,
			Mean: float64(t.stepsSum) / float64(t.trials),
		}
	}
	return &Snapshot{
		runID:  m.runID,
		config: m.config,
		target: m.target,
		trials: t.trials,
		counts: counts,
		steps:  steps,
	}
}
