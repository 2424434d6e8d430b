package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	strategyFile string
	verbose      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "trigate",
	Short: "Three-gate stock screener for the A-share market",
	Long: `trigate - multi-gate screening and signal fusion

A daily screener that runs every listed instrument through three
independent gates (fundamental quality, growth/valuation, entry
timing) and fuses the verdicts into tiered, confidence-scored,
position-sized signals.

Usage:
  go run ./cmd/trigate [command]

Examples:
  go run ./cmd/trigate scan
  go run ./cmd/trigate scan --csv output/today.csv
  go run ./cmd/trigate report
  go run ./cmd/trigate api
  go run ./cmd/trigate scheduler start`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&strategyFile, "strategy", "", "strategy file (default is config/strategy.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
