// Package cmd holds the proctorctl commands: offline replay of recorded signal
// histories and educator password hashing.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "proctorctl",
	Short:         "Operator tooling for the ProctorGuard monitoring engine.",
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute runs proctorctl and exits with non-zero status on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.AddCommand(newReplayCommand(), newHashPasswordCommand())
}
