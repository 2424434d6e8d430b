package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/haoyuan-z/trigate/internal/integrator"
)

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the signal report for a stored scan",
	Long: `Reads stored signals from the database and prints the ranked
report. Defaults to the most recent scan date.

Requires DATABASE_URL.

Example:
  go run ./cmd/trigate report
  go run ./cmd/trigate report --date 2024-06-03`,
	RunE: runReport,
}

var reportDate string

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVar(&reportDate, "date", "", "scan date (YYYY-MM-DD, default: latest)")
}

func runReport(cmd *cobra.Command, args []string) error {
	a, err := initApp()
	if err != nil {
		return err
	}
	defer a.close()

	if a.repo == nil {
		return fmt.Errorf("DATABASE_URL is not set, no stored signals to report on")
	}

	ctx := context.Background()

	var date time.Time
	if reportDate != "" {
		date, err = time.Parse("2006-01-02", reportDate)
		if err != nil {
			return fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", reportDate)
		}
	} else {
		date, err = a.repo.GetLatestDate(ctx)
		if err != nil {
			return fmt.Errorf("no stored signals: %w", err)
		}
	}

	signals, err := a.repo.GetSignals(ctx, date)
	if err != nil {
		return fmt.Errorf("load signals: %w", err)
	}

	report := integrator.BuildReport(signals, a.strategy.Integration.ReportTopN)

	fmt.Printf("Scan date: %s\n\n", date.Format("2006-01-02"))
	fmt.Println(report.Format())

	return nil
}
