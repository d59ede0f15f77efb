package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/nvandessel/clockwalk/internal/config"
	"github.com/nvandessel/clockwalk/internal/metrics"
	"github.com/nvandessel/clockwalk/internal/ratelimit"
)

const (
	// DefaultMaxTrials bounds a single clockwalk_batch call.
	DefaultMaxTrials = 1_000_000

	// DefaultMaxPositions bounds the cycle size either tool will walk.
	DefaultMaxPositions = 1_000
)

// Server wraps the MCP SDK server and exposes the simulation as tools.
type Server struct {
	server      *sdk.Server
	defaults    config.SimulationConfig
	maxTrials   int
	maxPos      int
	logger      *slog.Logger
	metrics     *metrics.Collector
	metricsAddr string
	limiters    *ratelimit.ToolLimiters
}

// Config holds server configuration.
type Config struct {
	Name         string                  // Server name (e.g., "clockwalk")
	Version      string                  // Server version
	Simulation   config.SimulationConfig // Defaults for omitted tool inputs
	MaxTrials    int                     // Per-call trial cap; 0 selects DefaultMaxTrials
	MaxPositions int                     // Per-call cycle size cap; 0 selects DefaultMaxPositions
	MetricsAddr  string                  // Serve /metrics on this address when set
	Logger       *slog.Logger            // Operational logger; nil discards

	// RateLimits caps calls per tool. Nil selects ratelimit.DefaultLimits;
	// an empty map disables limiting.
	RateLimits map[string]ratelimit.Limit
}

// NewServer creates a new MCP server with clockwalk tools.
func NewServer(cfg *Config) (*Server, error) {
	if cfg.Simulation.NumPositions == 0 {
		cfg.Simulation = config.Default().Simulation
	}
	check := config.Default()
	check.Simulation = cfg.Simulation
	if err := check.Validate(); err != nil {
		return nil, fmt.Errorf("invalid simulation defaults: %w", err)
	}

	maxTrials := cfg.MaxTrials
	if maxTrials <= 0 {
		maxTrials = DefaultMaxTrials
	}
	maxPos := cfg.MaxPositions
	if maxPos <= 0 {
		maxPos = DefaultMaxPositions
	}
	if cfg.Simulation.NumPositions > maxPos {
		return nil, fmt.Errorf("invalid simulation defaults: %d positions exceeds limit %d", cfg.Simulation.NumPositions, maxPos)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	limits := cfg.RateLimits
	if limits == nil {
		limits = ratelimit.DefaultLimits()
	}

	// Create MCP server
	mcpServer := sdk.NewServer(&sdk.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, nil)

	s := &Server{
		server:      mcpServer,
		defaults:    cfg.Simulation,
		maxTrials:   maxTrials,
		maxPos:      maxPos,
		logger:      logger,
		metrics:     metrics.NewCollector(),
		metricsAddr: cfg.MetricsAddr,
		limiters:    ratelimit.NewToolLimiters(limits),
	}

	s.registerTools()

	return s, nil
}

// Run starts the MCP server over stdio transport.
// This blocks until the client disconnects or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	// Set up graceful shutdown
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Handle OS signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	if s.metricsAddr != "" {
		stop := s.serveMetrics()
		defer stop()
	}

	// Run server (blocks)
	return s.server.Run(ctx, &sdk.StdioTransport{})
}

// serveMetrics starts the /metrics endpoint and returns a shutdown func.
func (s *Server) serveMetrics() func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", s.metrics.Handler())
	srv := &http.Server{
		Addr:              s.metricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		s.logger.Info("serving metrics", "addr", s.metricsAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("metrics server failed", "error", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

// Metrics returns the server's collector.
func (s *Server) Metrics() *metrics.Collector {
	return s.metrics
}
