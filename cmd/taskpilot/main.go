package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "taskpilot",
		Short: "Turn repository activity into tracker tasks",
		Long: `Taskpilot receives GitHub webhook events, asks an LLM what task
tracker activity the change warrants, and creates or updates Linear
issues from the suggestions.`,
	}

	rootCmd.AddCommand(
		newServeCmd(),
		newHealthCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show taskpilot version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("taskpilot v%s\n", version)
		},
	}
}
