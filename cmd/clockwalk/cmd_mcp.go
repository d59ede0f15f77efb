package main

import (
	"fmt"

	"github.com/nvandessel/clockwalk/internal/logging"
	"github.com/nvandessel/clockwalk/internal/mcp"
	"github.com/spf13/cobra"
)

func newMCPServerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp-server",
		Short: "Serve clockwalk tools over the Model Context Protocol (stdio)",
		Long: `Start an MCP server on stdin/stdout exposing two tools:

  clockwalk_trial   run one or a few walks and return their paths
  clockwalk_batch   run a batch and return the last-position distribution

Tool inputs that are omitted fall back to the loaded configuration. When
server.metrics_addr (or --metrics-addr) is set, Prometheus metrics are served
on http://<addr>/metrics. Logs go to stderr; stdout carries the protocol.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			server, err := newMCPServer(cmd)
			if err != nil {
				return err
			}
			return server.Run(cmd.Context())
		},
	}

	cmd.Flags().String("metrics-addr", "", "Serve Prometheus metrics on host:port")
	cmd.Flags().Int("max-trials", mcp.DefaultMaxTrials, "Largest batch a single tool call may request")
	cmd.Flags().Int("max-positions", mcp.DefaultMaxPositions, "Largest cycle a single tool call may request")

	return cmd
}

// newMCPServer builds the server from the loaded configuration and flags.
func newMCPServer(cmd *cobra.Command) (*mcp.Server, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("metrics-addr") {
		cfg.Server.MetricsAddr, _ = cmd.Flags().GetString("metrics-addr")
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	maxTrials, _ := cmd.Flags().GetInt("max-trials")
	maxPositions, _ := cmd.Flags().GetInt("max-positions")

	server, err := mcp.NewServer(&mcp.Config{
		Name:         "clockwalk",
		Version:      version,
		Simulation:   cfg.Simulation,
		MaxTrials:    maxTrials,
		MaxPositions: maxPositions,
		MetricsAddr:  cfg.Server.MetricsAddr,
		Logger:       logging.NewLogger(cfg.Logging.Level, cmd.ErrOrStderr()),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MCP server: %w", err)
	}
	return server, nil
}
