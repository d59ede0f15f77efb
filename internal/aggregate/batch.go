// Package aggregate runs batches of independent covering-walk trials and
// summarizes which node was visited last into a probability distribution.
package aggregate

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/nvandessel/clockwalk/internal/constants"
	"github.com/nvandessel/clockwalk/internal/cycle"
	"github.com/nvandessel/clockwalk/internal/walk"
	"golang.org/x/sync/errgroup"
)

// ErrInvalidArgument is the shared configuration error sentinel.
var ErrInvalidArgument = cycle.ErrInvalidArgument

// BatchConfig describes one aggregation run.
type BatchConfig struct {
	// Walk is the per-trial configuration, identical for every trial.
	Walk walk.Config

	// Trials is the number of independent trials. Must be positive.
	Trials int

	// Target is the distinguished node reported by Snapshot.Target. Default: 6.
	Target int

	// Workers > 1 spreads trials over that many goroutines, each with its own
	// generator derived from the batch generator. 0 or 1 runs sequentially.
	Workers int

	// ProgressEvery is the number of trials between OnProgress calls.
	// 0 selects DefaultProgressInterval, capped to a tenth of the batch.
	ProgressEvery int

	// Observer receives per-trial and progress notifications. May be nil.
	Observer Observer

	// RunID labels the snapshot. Empty generates a random UUID.
	RunID string
}

// DefaultBatchConfig returns the reference batch: 50,000 unbiased trials on
// the clock face, reporting node 6.
func DefaultBatchConfig() BatchConfig {
	return BatchConfig{
		Walk:   walk.DefaultConfig(),
		Trials: constants.DefaultTrials,
		Target: constants.DefaultTarget,
	}
}

// Validate checks the batch and walk configuration.
func (c BatchConfig) Validate() error {
	if err := c.Walk.Validate(); err != nil {
		return err
	}
	if c.Trials <= 0 {
		return fmt.Errorf("trial count %d must be positive: %w", c.Trials, ErrInvalidArgument)
	}
	if err := cycle.ValidateLabel(c.Walk.Size, c.Target); err != nil {
		return fmt.Errorf("target: %w", err)
	}
	if c.Workers < 0 {
		return fmt.Errorf("worker count %d is negative: %w", c.Workers, ErrInvalidArgument)
	}
	if c.ProgressEvery < 0 {
		return fmt.Errorf("progress interval %d is negative: %w", c.ProgressEvery, ErrInvalidArgument)
	}
	return nil
}

// progressInterval resolves ProgressEvery for a batch of the configured size.
func (c BatchConfig) progressInterval() int {
	if c.ProgressEvery > 0 {
		return c.ProgressEvery
	}
	every := constants.DefaultProgressInterval
	if tenth := c.Trials / constants.ProgressFraction; tenth < every {
		every = max(tenth, 1)
	}
	return every
}

// RunBatch executes cfg.Trials trials and returns the frozen distribution.
//
// Configuration is validated before any trial runs. The context is checked
// between trials; a cancelled batch returns ctx.Err() and no snapshot. A
// trial truncated by the walk step limit aborts the batch with an error
// wrapping walk.ErrStepLimit.
func RunBatch(ctx context.Context, cfg BatchConfig, rng *rand.Rand) (*Snapshot, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("nil random source: %w", ErrInvalidArgument)
	}
	engine, err := walk.NewEngine(cfg.Walk)
	if err != nil {
		return nil, err
	}

	r := &runner{
		cfg:    cfg,
		engine: engine,
		obs:    observerOrNop(cfg.Observer),
		every:  cfg.progressInterval(),
	}

	var tally *Tally
	if cfg.Workers <= 1 {
		tally, err = r.sequential(ctx, rng)
	} else {
		tally, err = r.parallel(ctx, rng)
	}
	if err != nil {
		return nil, err
	}

	runID := cfg.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	return tally.freeze(meta{
		runID:  runID,
		config: cfg.Walk,
		target: cfg.Target,
	}), nil
}

type runner struct {
	cfg    BatchConfig
	engine *walk.Engine
	obs    Observer
	every  int
	done   atomic.Int64
}

func (r *runner) sequential(ctx context.Context, rng *rand.Rand) (*Tally, error) {
	t := NewTally(r.cfg.Walk.Size)
	if err := r.runTrials(ctx, r.cfg.Trials, rng, t); err != nil {
		return nil, err
	}
	return t, nil
}

// parallel splits the batch across workers. Worker generators are seeded
// from rng in worker order before any goroutine starts, so a fixed batch
// seed reproduces the same distribution regardless of scheduling.
func (r *runner) parallel(ctx context.Context, rng *rand.Rand) (*Tally, error) {
	workers := min(r.cfg.Workers, r.cfg.Trials)
	tallies := make([]*Tally, workers)
	g, gctx := errgroup.WithContext(ctx)

	base, extra := r.cfg.Trials/workers, r.cfg.Trials%workers
	for w := 0; w < workers; w++ {
		n := base
		if w < extra {
			n++
		}
		wrng := walk.NewRand(rng.Uint64(), rng.Uint64())
		t := NewTally(r.cfg.Walk.Size)
		tallies[w] = t
		g.Go(func() error {
			return r.runTrials(gctx, n, wrng, t)
		})
	}
	if err := g.Wait(); err != nil {
		// errgroup cancels gctx on the first failure; report the caller's
		// cancellation rather than a worker's view of it.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}

	merged := NewTally(r.cfg.Walk.Size)
	for _, t := range tallies {
		merged.Merge(t)
	}
	return merged, nil
}

func (r *runner) runTrials(ctx context.Context, n int, rng *rand.Rand, t *Tally) error {
	total := r.cfg.Trials
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		res, err := r.engine.Run(rng)
		if err != nil {
			return fmt.Errorf("after %d completed trials: %w", r.done.Load(), err)
		}
		t.Add(res)
		r.obs.OnTrial(res)

		if done := int(r.done.Add(1)); done%r.every == 0 || done == total {
			r.obs.OnProgress(done, total)
		}
	}
	return nil
}
