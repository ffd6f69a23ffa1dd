// Package cmd provides the command-line interface for inspecting data
// recorded by the agent.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use: "tracemark",
	Short: "Tracemark CLI tool can inspect the performance data recorded " +
		"by the agent.",
	Long: `Tracemark CLI tool can inspect the performance data recorded ` +
		`by the agent. Currently, it supports summarizing metric ` +
		`aggregates and listing retained slow transactions.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
