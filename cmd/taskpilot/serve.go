package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/taskpilot/taskpilot/internal/analyzer"
	"github.com/taskpilot/taskpilot/internal/config"
	"github.com/taskpilot/taskpilot/internal/gateway"
	"github.com/taskpilot/taskpilot/internal/logging"
	"github.com/taskpilot/taskpilot/internal/mapper"
	"github.com/taskpilot/taskpilot/internal/orchestrator"
	"github.com/taskpilot/taskpilot/internal/tracker/linear"
)

func newServeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the webhook server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}
			if err := logging.Init(cfg.Logging); err != nil {
				return fmt.Errorf("failed to initialize logging: %w", err)
			}

			server, digest := buildServer(cfg)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := digest.Start(ctx); err != nil {
				return fmt.Errorf("failed to start digest scheduler: %w", err)
			}
			defer digest.Stop()

			return server.Start(ctx)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigPath(), "Path to config file")
	return cmd
}

// buildServer constructs the full dependency graph once at process start.
// One orchestrator instance is shared by every request; it holds no
// per-event state.
func buildServer(cfg *config.Config) (*gateway.Server, *gateway.Digest) {
	trackerClient := linear.NewClient(cfg.Linear.APIKey)
	llm := analyzer.New(cfg.LLM)
	taskMapper := mapper.New(trackerClient, cfg.Linear.TeamID, cfg.Linear.ProjectID)
	pipeline := orchestrator.New(llm, trackerClient, taskMapper, cfg.Linear.TeamID, cfg.ProjectDescription)

	stats := gateway.NewStats()
	server := gateway.NewServer(cfg.Gateway, pipeline, stats)
	digest := gateway.NewDigest(cfg.Digest, stats, pipeline)
	return server, digest
}
