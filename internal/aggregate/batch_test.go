package aggregate

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/nvandessel/clockwalk/internal/cycle"
	"github.com/nvandessel/clockwalk/internal/walk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func batch(trials int) BatchConfig {
	cfg := DefaultBatchConfig()
	cfg.Trials = trials
	return cfg
}

func TestDefaultBatchConfig(t *testing.T) {
	cfg := DefaultBatchConfig()
	assert.Equal(t, 50000, cfg.Trials)
	assert.Equal(t, 6, cfg.Target)
	assert.Equal(t, walk.DefaultConfig(), cfg.Walk)
	require.NoError(t, cfg.Validate())
}

func TestRunBatch_InvalidArgument(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*BatchConfig)
	}{
		{"zero trials", func(c *BatchConfig) { c.Trials = 0 }},
		{"negative trials", func(c *BatchConfig) { c.Trials = -5 }},
		{"cycle of two", func(c *BatchConfig) { c.Walk.Size = 2; c.Walk.Start = 1; c.Target = 2 }},
		{"probability 1.5", func(c *BatchConfig) { c.Walk.ClockwiseProbability = 1.5 }},
		{"target outside cycle", func(c *BatchConfig) { c.Target = 13 }},
		{"negative workers", func(c *BatchConfig) { c.Workers = -1 }},
		{"negative progress interval", func(c *BatchConfig) { c.ProgressEvery = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := batch(10)
			var calls atomic.Int64
			cfg.Observer = ObserverFuncs{Trial: func(walk.TrialResult) { calls.Add(1) }}
			tt.mutate(&cfg)

			snap, err := RunBatch(context.Background(), cfg, walk.NewRand(1, 1))
			require.ErrorIs(t, err, ErrInvalidArgument)
			assert.Nil(t, snap)
			assert.Zero(t, calls.Load(), "no trial may run before validation passes")
		})
	}

	t.Run("nil rng", func(t *testing.T) {
		_, err := RunBatch(context.Background(), batch(10), nil)
		require.ErrorIs(t, err, ErrInvalidArgument)
	})
}

func TestRunBatch_CountsSumToTrials(t *testing.T) {
	configs := []struct {
		name    string
		size    int
		start   int
		p       float64
		trials  int
		workers int
	}{
		{"clock sequential", 12, 12, 0.5, 2000, 0},
		{"clock parallel", 12, 12, 0.5, 2001, 4},
		{"triangle", 3, 2, 0.5, 500, 0},
		{"biased", 10, 1, 0.8, 777, 3},
		{"more workers than trials", 6, 3, 0.5, 3, 8},
		{"single trial", 12, 12, 0.5, 1, 0},
	}

	for _, tt := range configs {
		t.Run(tt.name, func(t *testing.T) {
			cfg := BatchConfig{
				Walk:    walk.Config{Size: tt.size, Start: tt.start, ClockwiseProbability: tt.p},
				Trials:  tt.trials,
				Target:  tt.start,
				Workers: tt.workers,
			}
			snap, err := RunBatch(context.Background(), cfg, walk.NewRand(2024, 1))
			require.NoError(t, err)

			assert.Equal(t, tt.trials, snap.Trials())
			sum := 0
			for _, row := range snap.Rows() {
				assert.GreaterOrEqual(t, row.Count, 1)
				assert.NotEqual(t, tt.start, row.Node, "start node can never be last")
				sum += row.Count
			}
			assert.Equal(t, tt.trials, sum)
		})
	}
}

func TestRunBatch_TargetNearOneEleventh(t *testing.T) {
	snap, err := RunBatch(context.Background(), batch(50000), walk.NewRand(12, 6))
	require.NoError(t, err)

	target := snap.Target()
	assert.Equal(t, 6, target.Node)
	assert.GreaterOrEqual(t, target.Probability, 0.08)
	assert.LessOrEqual(t, target.Probability, 0.10)
	assert.True(t, target.TheoryValid)
	assert.InDelta(t, 1.0/11, target.Theoretical, 1e-12)
	assert.InDelta(t, 11, target.ApproxOneIn, 1.5)
	assert.Less(t, target.Deviation, 0.01)
	assert.InDelta(t, target.Probability*100, target.Percentage, 1e-9)
}

func TestRunBatch_SymmetryAcrossNonStartNodes(t *testing.T) {
	cfg := batch(50000)
	cfg.Workers = 4
	snap, err := RunBatch(context.Background(), cfg, walk.NewRand(3, 9))
	require.NoError(t, err)

	for _, row := range snap.Symmetry(3, 9, 1, 11) {
		assert.InDelta(t, 1.0/11, row.Probability, 0.01, "node %d", row.Node)
	}
	assert.Zero(t, snap.Count(12))
}

func TestRunBatch_DeterministicClockwise(t *testing.T) {
	cfg := batch(1000)
	cfg.Walk.ClockwiseProbability = 1.0
	snap, err := RunBatch(context.Background(), cfg, walk.NewRand(1, 2))
	require.NoError(t, err)

	want := cycle.Neighbor(12, 12, cycle.Counterclockwise)
	require.Equal(t, []int{want}, snap.Nodes())
	assert.Equal(t, 1000, snap.Count(11))
	assert.Equal(t, StepStats{Min: 11, Max: 11, Mean: 11}, snap.Steps())

	target := snap.Target()
	assert.Zero(t, target.Count)
	assert.Zero(t, target.ApproxOneIn)
	assert.False(t, target.TheoryValid, "1/(n-1) does not apply to a biased walk")
	assert.Zero(t, target.Theoretical)
	assert.Zero(t, target.Deviation)
}

func TestRunBatch_SameSeedSameSnapshot(t *testing.T) {
	for _, workers := range []int{0, 5} {
		cfg := batch(3000)
		cfg.Workers = workers

		a, err := RunBatch(context.Background(), cfg, walk.NewRand(77, 0))
		require.NoError(t, err)
		b, err := RunBatch(context.Background(), cfg, walk.NewRand(77, 0))
		require.NoError(t, err)

		assert.Equal(t, a.Rows(), b.Rows(), "workers=%d", workers)
		assert.Equal(t, a.Steps(), b.Steps(), "workers=%d", workers)
		assert.NotEqual(t, a.RunID(), b.RunID())
	}
}

func TestRunBatch_RunID(t *testing.T) {
	cfg := batch(10)
	cfg.RunID = "fixed-run"
	snap, err := RunBatch(context.Background(), cfg, walk.NewRand(1, 1))
	require.NoError(t, err)
	assert.Equal(t, "fixed-run", snap.RunID())
}

func TestRunBatch_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, workers := range []int{0, 3} {
		cfg := batch(1000)
		cfg.Workers = workers
		snap, err := RunBatch(ctx, cfg, walk.NewRand(1, 1))
		require.ErrorIs(t, err, context.Canceled)
		assert.Nil(t, snap)
	}
}

func TestRunBatch_CancelBetweenTrials(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var trials atomic.Int64
	cfg := batch(1000)
	cfg.Observer = ObserverFuncs{Trial: func(walk.TrialResult) {
		if trials.Add(1) == 10 {
			cancel()
		}
	}}

	_, err := RunBatch(ctx, cfg, walk.NewRand(1, 1))
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int64(10), trials.Load(), "the trial in flight completes, the next one never starts")
}

func TestRunBatch_StepLimitAborts(t *testing.T) {
	for _, workers := range []int{0, 2} {
		cfg := batch(100)
		cfg.Walk.StepLimit = 2
		cfg.Workers = workers
		_, err := RunBatch(context.Background(), cfg, walk.NewRand(1, 1))
		require.ErrorIs(t, err, walk.ErrStepLimit)
		assert.ErrorContains(t, err, "after 0 completed trials", "no trial can cover a 12-cycle in 2 steps")
	}
}

func TestRunBatch_Progress(t *testing.T) {
	for _, workers := range []int{0, 4} {
		var (
			mu       sync.Mutex
			trials   atomic.Int64
			progress []int
		)
		var lastTotal int
		cfg := batch(100)
		cfg.Workers = workers
		cfg.Observer = Observers{
			ObserverFuncs{Trial: func(walk.TrialResult) { trials.Add(1) }},
			nil,
			ObserverFuncs{Progress: func(done, total int) {
				mu.Lock()
				progress = append(progress, done)
				lastTotal = total
				mu.Unlock()
			}},
		}

		_, err := RunBatch(context.Background(), cfg, walk.NewRand(4, 4))
		require.NoError(t, err)

		assert.Equal(t, int64(100), trials.Load())
		assert.Len(t, progress, 10, "a 100-trial batch reports every 10 trials")
		assert.Contains(t, progress, 100)
		assert.Equal(t, 100, lastTotal)
	}
}

func TestProgressInterval(t *testing.T) {
	tests := []struct {
		trials, every, want int
	}{
		{50000, 0, 1000},
		{5000, 0, 500},
		{5, 0, 1},
		{50000, 250, 250},
	}
	for _, tt := range tests {
		cfg := BatchConfig{Trials: tt.trials, ProgressEvery: tt.every}
		assert.Equal(t, tt.want, cfg.progressInterval(), "trials=%d every=%d", tt.trials, tt.every)
	}
}
