// Package app contains the Cobra command tree for speechcmp.
package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"speech-insights-go/internal/logger"
	"speech-insights-go/internal/output"
)

// SetVersion sets the application version (called from main with ldflags value).
func SetVersion(v string) {
	rootCmd.Version = v
}

var (
	flagNoColor bool
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "speechcmp",
	Short: "Compare and rank analyzed speeches",
	Long: `speechcmp reads exported speech analyses (JSON, YAML or XLSX) and
compares them offline: composite rankings, shared themes, emotion and topic
series, and score distributions across a historical dataset.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if flagNoColor {
			output.SetNoColor(true)
		}
	},
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose output")
}

// cliLogger logs to stderr so it never mixes with command output.
func cliLogger() *logger.Logger {
	level := "warn"
	if flagVerbose {
		level = "debug"
	}
	return logger.New(logger.Options{Level: level, Output: os.Stderr})
}
