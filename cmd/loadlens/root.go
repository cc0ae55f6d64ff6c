// Package main provides the entry point for the loadlens CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for loadlens.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "loadlens",
		Short: "Analyzer for k6 load test results",
		Long: `loadlens reads a k6 load test result file (JSON summary export) and
prints a human-readable analysis: request latency, error rate, virtual
users, and data transfer, each classified against thresholds, followed
by recommendations.

Analyzed runs are saved to a local history database so that later runs
of the same test can be compared with 'loadlens compare'.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewAnalyzeCmd())
	cmd.AddCommand(NewCompareCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
