// Package walk runs covering random walks on a labeled cycle. A walk starts
// at one node and steps to a neighbor chosen by a biased coin until every
// node has been visited; the node visited for the first time last is the
// trial's outcome.
package walk

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/nvandessel/clockwalk/internal/constants"
	"github.com/nvandessel/clockwalk/internal/cycle"
)

// ErrInvalidArgument aliases the cycle sentinel so callers of this package
// need not import cycle just to test for bad configuration.
var ErrInvalidArgument = cycle.ErrInvalidArgument

// ErrStepLimit is returned when a walk is truncated by Config.StepLimit
// before covering the cycle. A truncated trial has no last-visited node.
var ErrStepLimit = errors.New("step limit reached before cover")

// Config holds the parameters of a single covering-walk trial.
type Config struct {
	// Size is the number of nodes on the cycle. Default: 12.
	Size int

	// Start is the label the walk begins on. Default: 12.
	Start int

	// ClockwiseProbability is the chance of each step moving clockwise.
	// Default: 0.5.
	ClockwiseProbability float64

	// StepLimit truncates the walk after this many steps. 0 means no limit.
	StepLimit int

	// RecordPath keeps the visited sequence, step directions and first-visit
	// times on the result.
	RecordPath bool
}

// DefaultConfig returns the clock-face configuration: 12 nodes, starting at
// 12, unbiased steps.
func DefaultConfig() Config {
	return Config{
		Size:                 constants.DefaultPositions,
		Start:                constants.DefaultPositions,
		ClockwiseProbability: constants.DefaultClockwiseProbability,
	}
}

// Validate checks the configuration without consuming any randomness.
func (c Config) Validate() error {
	if err := cycle.ValidateSize(c.Size); err != nil {
		return err
	}
	if err := cycle.ValidateLabel(c.Size, c.Start); err != nil {
		return fmt.Errorf("start: %w", err)
	}
	if err := cycle.ValidateProbability(c.ClockwiseProbability); err != nil {
		return err
	}
	if c.StepLimit < 0 {
		return fmt.Errorf("step limit %d is negative: %w", c.StepLimit, ErrInvalidArgument)
	}
	return nil
}

// Unbiased reports whether steps are equally likely in both directions.
func (c Config) Unbiased() bool {
	return c.ClockwiseProbability == constants.UnbiasedProbability
}

// Engine executes covering walks for a fixed configuration.
// The engine is stateless: each call to Run allocates its own walk state, so
// one Engine may serve many goroutines as long as each passes its own rng.
type Engine struct {
	config Config
}

// NewEngine validates config and returns an engine for it.
func NewEngine(config Config) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Engine{config: config}, nil
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config {
	return e.config
}

// Run executes one trial, drawing one uniform variate from rng per step.
func (e *Engine) Run(rng *rand.Rand) (TrialResult, error) {
	st := newState(e.config)
	for st.phase == Walking {
		if e.config.StepLimit > 0 && st.steps >= e.config.StepLimit {
			return TrialResult{}, fmt.Errorf("after %d steps with %d/%d visited: %w",
				st.steps, st.visitedCount, e.config.Size, ErrStepLimit)
		}
		d := cycle.Counterclockwise
		if rng.Float64() < e.config.ClockwiseProbability {
			d = cycle.Clockwise
		}
		st.step(d)
	}
	return st.result(), nil
}

// Run validates config and executes a single trial.
func Run(config Config, rng *rand.Rand) (TrialResult, error) {
	e, err := NewEngine(config)
	if err != nil {
		return TrialResult{}, err
	}
	return e.Run(rng)
}

// NewRand returns a PCG-backed generator for the given seed. Two generators
// built from the same seed and stream produce identical walks.
func NewRand(seed, stream uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, stream))
}
