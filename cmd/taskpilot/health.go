package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/taskpilot/taskpilot/internal/analyzer"
	"github.com/taskpilot/taskpilot/internal/config"
	"github.com/taskpilot/taskpilot/internal/mapper"
	"github.com/taskpilot/taskpilot/internal/orchestrator"
	"github.com/taskpilot/taskpilot/internal/tracker/linear"
)

func newHealthCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Probe tracker connectivity and LLM configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}

			trackerClient := linear.NewClient(cfg.Linear.APIKey)
			llm := analyzer.New(cfg.LLM)
			taskMapper := mapper.New(trackerClient, cfg.Linear.TeamID, cfg.Linear.ProjectID)
			pipeline := orchestrator.New(llm, trackerClient, taskMapper, cfg.Linear.TeamID, cfg.ProjectDescription)

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			report := pipeline.Health(ctx)
			fmt.Printf("Status: %s\n", report.Status)
			fmt.Printf("  llm:    %s\n", report.Services.LLM)
			fmt.Printf("  linear: %s\n", report.Services.Linear)

			if report.Status != orchestrator.StatusHealthy {
				return fmt.Errorf("one or more services are unhealthy")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigPath(), "Path to config file")
	return cmd
}
