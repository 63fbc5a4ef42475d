// Package cli implements the Ascend command-line interface using Cobra.
// Each subcommand maps to a progression operation (award, streak, prestige)
// or to the server lifecycle (serve).
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ascend",
	Short: "Ascend: level up your life",
	Long: `Ascend is a gamified self-improvement engine.
Complete tasks, habits, routines, and challenges to earn XP across seven
life categories and level up an overall profile.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
