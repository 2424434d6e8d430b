package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/haoyuan-z/trigate/internal/pipeline"
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run one full screening pass",
	Long: `Runs the full pipeline once: builds the instrument universe,
evaluates every instrument through the three gates in parallel, fuses
the verdicts and prints the ranked signal report.

Signals are persisted when DATABASE_URL is set; a CSV export is
written when --csv is given.

Example:
  go run ./cmd/trigate scan
  go run ./cmd/trigate scan --csv output/today.csv
  go run ./cmd/trigate scan --no-save`,
	RunE: runScan,
}

var (
	scanCSVPath string
	scanNoSave  bool
)

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringVar(&scanCSVPath, "csv", "", "write signals to this CSV file")
	scanCmd.Flags().BoolVar(&scanNoSave, "no-save", false, "skip database persistence")
}

func runScan(cmd *cobra.Command, args []string) error {
	a, err := initApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx := context.Background()

	var progress pipeline.ProgressFunc
	if verbose {
		progress = func(ev pipeline.ProgressEvent) {
			if ev.Stage == "gates" && ev.Processed > 0 && ev.Processed%100 == 0 {
				fmt.Printf("  evaluated %d/%d\n", ev.Processed, ev.Total)
			}
		}
	}

	result, err := a.runner.Run(ctx, progress)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	fmt.Println(result.Report.Format())
	fmt.Printf("Universe: %d instruments, prefiltered: %d, errors: %d, took %s\n",
		result.Universe.Count(), result.Prefiltered, result.Errors, result.Duration.Round(time.Millisecond))

	if a.repo != nil && !scanNoSave {
		if err := a.repo.SaveSignals(ctx, result.Date, result.Signals); err != nil {
			return fmt.Errorf("persist signals: %w", err)
		}
		fmt.Printf("Saved %d signals for %s\n", len(result.Signals), result.Date.Format("2006-01-02"))
	}

	csvPath := scanCSVPath
	if csvPath == "" && a.cfg.ExportDir != "" {
		csvPath = filepath.Join(a.cfg.ExportDir,
			fmt.Sprintf("signals_%s.csv", result.Date.Format("2006-01-02")))
	}
	if csvPath != "" {
		if err := pipeline.ExportCSV(csvPath, result.Signals); err != nil {
			return fmt.Errorf("export signals: %w", err)
		}
		fmt.Printf("Exported signals to %s\n", csvPath)
	}

	return nil
}
