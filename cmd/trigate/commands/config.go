package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/haoyuan-z/trigate/internal/strategyconfig"
	"github.com/haoyuan-z/trigate/pkg/config"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective strategy parameters",
	Long: `Loads and validates the strategy file, then prints the
effective parameters and their hash. The hash changes whenever any
parameter changes, which makes stored scan results attributable to a
strategy revision.

Example:
  go run ./cmd/trigate config
  go run ./cmd/trigate config --strategy custom.yaml`,
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if strategyFile != "" {
		cfg.StrategyPath = strategyFile
	}

	strategy, _, err := strategyconfig.Load(cfg.StrategyPath)
	if err != nil {
		fmt.Printf("Strategy file %s not usable (%v), showing defaults\n\n", cfg.StrategyPath, err)
		strategy = strategyconfig.Default()
	}

	hash, err := strategyconfig.Hash(strategy)
	if err != nil {
		return fmt.Errorf("hash strategy: %w", err)
	}

	out, err := yaml.Marshal(strategy)
	if err != nil {
		return fmt.Errorf("encode strategy: %w", err)
	}

	fmt.Printf("Strategy file: %s\n", cfg.StrategyPath)
	fmt.Printf("Hash: %s\n\n", hash)
	fmt.Print(string(out))

	return nil
}
