package simulation

import (
	"context"
	"sync"
	"testing"

	"github.com/nvandessel/clockwalk/internal/aggregate"
	"github.com/nvandessel/clockwalk/internal/cycle"
	"github.com/nvandessel/clockwalk/internal/walk"
)

// Runner orchestrates multi-round simulation experiments against the real
// engine and aggregator.
type Runner struct {
	t *testing.T
}

// NewRunner creates a simulation runner bound to t.
func NewRunner(t *testing.T) *Runner {
	t.Helper()
	return &Runner{t: t}
}

// Run executes the scenario and returns the collected results. Any batch
// error fails the test immediately.
func (r *Runner) Run(scenario Scenario) SimulationResult {
	r.t.Helper()
	ctx := context.Background()

	base := scenario.batchConfig()
	rounds := scenario.Rounds
	if rounds <= 0 {
		rounds = 1
	}

	results := make([]RoundResult, rounds)
	for i := range rounds {
		cfg := base
		if scenario.BeforeRound != nil {
			scenario.BeforeRound(i, &cfg)
		}

		var rec *recorder
		if cfg.Walk.RecordPath {
			rec = &recorder{}
			cfg.Observer = rec
		}

		seed := scenario.Seed + uint64(i)
		snap, err := aggregate.RunBatch(ctx, cfg, walk.NewRand(seed, 0))
		if err != nil {
			r.t.Fatalf("scenario %s: round %d: RunBatch: %v", scenario.Name, i, err)
		}

		results[i] = RoundResult{
			Index:    i,
			Seed:     seed,
			Config:   cfg,
			Snapshot: snap,
		}
		if rec != nil {
			results[i].Trials = rec.trials
		}
	}

	return SimulationResult{Name: scenario.Name, Rounds: results}
}

// batchConfig applies the scenario's defaults.
func (s Scenario) batchConfig() aggregate.BatchConfig {
	cfg := aggregate.DefaultBatchConfig()
	if s.Walk != nil {
		cfg.Walk = *s.Walk
	}
	if s.Trials > 0 {
		cfg.Trials = s.Trials
	}
	cfg.Target = s.Target
	if cfg.Target == 0 && cfg.Walk.Size > 0 {
		cfg.Target = cycle.Opposite(cfg.Walk.Size, cfg.Walk.Start)
	}
	cfg.Workers = s.Workers
	return cfg
}

// recorder keeps every trial of a round.
type recorder struct {
	mu     sync.Mutex
	trials []walk.TrialResult
}

func (r *recorder) OnTrial(result walk.TrialResult) {
	r.mu.Lock()
	r.trials = append(r.trials, result)
	r.mu.Unlock()
}

func (r *recorder) OnProgress(int, int) {}
