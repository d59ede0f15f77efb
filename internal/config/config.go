// Package config provides unified configuration loading for clockwalk.
// It supports loading from YAML files and environment variables.
package config

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/nvandessel/clockwalk/internal/aggregate"
	"github.com/nvandessel/clockwalk/internal/constants"
	"github.com/nvandessel/clockwalk/internal/cycle"
	"github.com/nvandessel/clockwalk/internal/walk"
	"gopkg.in/yaml.v3"
)

// ClockwalkConfig contains all clockwalk configuration settings.
type ClockwalkConfig struct {
	// Simulation contains the walk and batch parameters.
	Simulation SimulationConfig `json:"simulation" yaml:"simulation"`

	// Logging contains settings for operational logging and trial tracing.
	Logging LoggingConfig `json:"logging" yaml:"logging"`

	// Server contains settings for the MCP server mode.
	Server ServerConfig `json:"server" yaml:"server"`
}

// SimulationConfig configures the cycle, the walk and the batch.
type SimulationConfig struct {
	// NumPositions is the number of nodes on the cycle. Default: 12.
	NumPositions int `json:"num_positions" yaml:"num_positions" validate:"gte=3"`

	// StartPosition is the node every walk begins on. 0 means NumPositions,
	// i.e. "12 o'clock" on the default clock.
	StartPosition int `json:"start_position" yaml:"start_position" validate:"gte=0"`

	// ClockwiseProbability is the chance each step moves clockwise.
	// Range: 0.0 to 1.0. Default: 0.5.
	ClockwiseProbability float64 `json:"clockwise_probability" yaml:"clockwise_probability" validate:"gte=0,lte=1"`

	// Trials is the number of walks per batch. Default: 50,000.
	Trials int `json:"trials" yaml:"trials" validate:"gt=0"`

	// TargetNode is the node whose last-visited probability is highlighted.
	TargetNode int `json:"target_node" yaml:"target_node" validate:"gte=1"`

	// Seed makes batches reproducible. 0 picks a random seed per run.
	Seed uint64 `json:"seed,omitempty" yaml:"seed,omitempty"`

	// Workers spreads a batch over that many goroutines. 0 or 1 is sequential.
	Workers int `json:"workers,omitempty" yaml:"workers,omitempty" validate:"gte=0"`

	// StepLimit truncates pathological walks. 0 means unlimited.
	StepLimit int `json:"step_limit,omitempty" yaml:"step_limit,omitempty" validate:"gte=0"`
}

// LoggingConfig configures clockwalk's logging behavior.
type LoggingConfig struct {
	// Level sets the log verbosity: "info" (default), "debug", or "trace".
	// "debug" enables per-trial tracing to <trace_dir>/trials.jsonl.
	// "trace" additionally records every trial's full path.
	Level string `json:"level" yaml:"level" validate:"omitempty,oneof=info debug trace"`

	// TraceDir is where trials.jsonl is written. Default: ~/.clockwalk.
	TraceDir string `json:"trace_dir,omitempty" yaml:"trace_dir,omitempty"`
}

// ServerConfig configures the MCP server.
type ServerConfig struct {
	// MetricsAddr, when set, serves Prometheus metrics on host:port.
	MetricsAddr string `json:"metrics_addr,omitempty" yaml:"metrics_addr,omitempty" validate:"omitempty,hostname_port"`
}

// Default returns a ClockwalkConfig with the reference settings.
func Default() *ClockwalkConfig {
	return &ClockwalkConfig{
		Simulation: SimulationConfig{
			NumPositions:         constants.DefaultPositions,
			StartPosition:        0,
			ClockwiseProbability: constants.DefaultClockwiseProbability,
			Trials:               constants.DefaultTrials,
			TargetNode:           constants.DefaultTarget,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Dir returns the per-user clockwalk directory (~/.clockwalk).
func Dir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".clockwalk"), nil
}

// Load loads configuration from the default locations and environment variables.
// Order: defaults -> ~/.clockwalk/config.yaml -> environment variables
func Load() (*ClockwalkConfig, error) {
	config := Default()

	// Try to load from default config file
	if dir, err := Dir(); err == nil {
		configPath := filepath.Join(dir, "config.yaml")
		if _, statErr := os.Stat(configPath); statErr == nil {
			fileConfig, loadErr := LoadFromFile(configPath)
			if loadErr != nil {
				return nil, fmt.Errorf("loading config file: %w", loadErr)
			}
			config = fileConfig
		}
	}

	// Apply environment variable overrides
	applyEnvOverrides(config)

	return config, nil
}

// LoadFromFile loads configuration from a specific YAML file.
func LoadFromFile(path string) (*ClockwalkConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	config.Logging.TraceDir = expandEnvVars(config.Logging.TraceDir)

	return config, nil
}

// LoadPath loads configuration from path instead of the default location,
// then applies environment overrides. An empty path behaves like Load.
func LoadPath(path string) (*ClockwalkConfig, error) {
	if path == "" {
		return Load()
	}
	config, err := LoadFromFile(path)
	if err != nil {
		return nil, err
	}
	applyEnvOverrides(config)
	return config, nil
}

var validate = newValidator()

// newValidator reports field names by their yaml keys so errors match what
// users write in config.yaml.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks that the configuration is valid. Every failure wraps
// cycle.ErrInvalidArgument.
func (c *ClockwalkConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("validating config: %w", err)
		}
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, describe(fe))
		}
		return fmt.Errorf("%s: %w", strings.Join(msgs, "; "), cycle.ErrInvalidArgument)
	}

	sim := c.Simulation
	if sim.StartPosition > sim.NumPositions {
		return fmt.Errorf("start_position %d exceeds num_positions %d: %w",
			sim.StartPosition, sim.NumPositions, cycle.ErrInvalidArgument)
	}
	if sim.TargetNode > sim.NumPositions {
		return fmt.Errorf("target_node %d exceeds num_positions %d: %w",
			sim.TargetNode, sim.NumPositions, cycle.ErrInvalidArgument)
	}

	return nil
}

func describe(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "ClockwalkConfig.")
	switch fe.Tag() {
	case "gte":
		return fmt.Sprintf("%s must be >= %s, got %v", field, fe.Param(), fe.Value())
	case "lte":
		return fmt.Sprintf("%s must be <= %s, got %v", field, fe.Param(), fe.Value())
	case "gt":
		return fmt.Sprintf("%s must be > %s, got %v", field, fe.Param(), fe.Value())
	case "oneof":
		return fmt.Sprintf("invalid %s: %v (valid: %s)", field, fe.Value(), fe.Param())
	case "hostname_port":
		return fmt.Sprintf("%s must be host:port, got %q", field, fe.Value())
	}
	return fmt.Sprintf("%s failed %s", field, fe.Tag())
}

// Start resolves StartPosition, where 0 means the last label.
func (s SimulationConfig) Start() int {
	if s.StartPosition == 0 {
		return s.NumPositions
	}
	return s.StartPosition
}

// Resize changes the cycle size. The start falls back to its default, node
// n, and a target that no longer exists or now sits on the start moves to
// the node opposite the start.
func (s *SimulationConfig) Resize(n int) {
	s.NumPositions = n
	s.StartPosition = 0
	if n > 0 && s.TargetNode >= n {
		s.TargetNode = cycle.Opposite(n, n)
	}
}

// WalkConfig converts to the per-trial walk configuration.
func (s SimulationConfig) WalkConfig() walk.Config {
	return walk.Config{
		Size:                 s.NumPositions,
		Start:                s.Start(),
		ClockwiseProbability: s.ClockwiseProbability,
		StepLimit:            s.StepLimit,
	}
}

// BatchConfig converts to an aggregate batch configuration without an
// observer or run ID; callers attach those.
func (s SimulationConfig) BatchConfig() aggregate.BatchConfig {
	return aggregate.BatchConfig{
		Walk:    s.WalkConfig(),
		Trials:  s.Trials,
		Target:  s.TargetNode,
		Workers: s.Workers,
	}
}

// Rand returns the batch generator and the seed it was built from. With a
// zero Seed a fresh seed is drawn so the run can still be reproduced from
// the logged value.
func (s SimulationConfig) Rand() (*rand.Rand, uint64) {
	seed := s.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	return walk.NewRand(seed, 0), seed
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(config *ClockwalkConfig) {
	intVar := func(name string, dst *int) {
		if v := os.Getenv(name); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}

	// A new size resizes like --positions; explicit start and target
	// overrides below still win.
	if v := os.Getenv("CLOCKWALK_POSITIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Simulation.Resize(n)
		}
	}
	intVar("CLOCKWALK_START", &config.Simulation.StartPosition)
	intVar("CLOCKWALK_TRIALS", &config.Simulation.Trials)
	intVar("CLOCKWALK_TARGET", &config.Simulation.TargetNode)
	intVar("CLOCKWALK_WORKERS", &config.Simulation.Workers)
	intVar("CLOCKWALK_STEP_LIMIT", &config.Simulation.StepLimit)

	if v := os.Getenv("CLOCKWALK_CLOCKWISE_PROB"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			config.Simulation.ClockwiseProbability = f
		}
	}

	if v := os.Getenv("CLOCKWALK_SEED"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			config.Simulation.Seed = n
		}
	}

	if v := os.Getenv("CLOCKWALK_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}

	if v := os.Getenv("CLOCKWALK_TRACE_DIR"); v != "" {
		config.Logging.TraceDir = v
	}

	if v := os.Getenv("CLOCKWALK_METRICS_ADDR"); v != "" {
		config.Server.MetricsAddr = v
	}
}

// expandEnvVars expands ${VAR} patterns in a string with environment variable values.
func expandEnvVars(s string) string {
	if !strings.Contains(s, "${") {
		return s
	}
	return os.Expand(s, os.Getenv)
}
