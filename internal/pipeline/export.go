package pipeline

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/haoyuan-z/trigate/internal/contracts"
)

var csvHeader = []string{
	"code", "name", "tier", "confidence", "pass_all",
	"fundamental_score", "quadrant", "priority",
	"current_price", "entry_low", "entry_high",
	"target_1", "target_2", "stop_loss", "risk_reward",
	"position_pct", "holding_min_days", "holding_max_days",
}

// WriteCSV renders the ranked signals as a decision card
func WriteCSV(w io.Writer, signals []*contracts.IntegratedSignal) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, s := range signals {
		row := []string{
			s.Code,
			s.Name,
			s.Tier.String(),
			fmt.Sprintf("%.1f", s.Confidence),
			fmt.Sprintf("%t", s.PassAllStrategies),
			fmt.Sprintf("%.1f", s.Fundamental.TotalScore),
			s.GrowthValue.Quadrant.String(),
			fmt.Sprintf("%d", s.GrowthValue.Priority),
			fmt.Sprintf("%.2f", s.Timing.CurrentPrice),
			fmt.Sprintf("%.2f", s.EntryLow),
			fmt.Sprintf("%.2f", s.EntryHigh),
			fmt.Sprintf("%.2f", s.Timing.Target1),
			fmt.Sprintf("%.2f", s.Timing.Target2),
			fmt.Sprintf("%.2f", s.StopLoss),
			fmt.Sprintf("%.2f", contracts.RiskRewardRatio(s.Timing)),
			fmt.Sprintf("%.2f", s.PositionFraction*100),
			fmt.Sprintf("%d", s.HoldingMinDays),
			fmt.Sprintf("%d", s.HoldingMaxDays),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row for %s: %w", s.Code, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ExportCSV writes the decision card to path, creating parent
// directories as needed
func ExportCSV(path string, signals []*contracts.IntegratedSignal) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	defer f.Close()

	if err := WriteCSV(f, signals); err != nil {
		return err
	}
	return f.Close()
}
