package integrator

import (
	"fmt"
	"strings"
	"time"

	"github.com/haoyuan-z/trigate/internal/contracts"
)

// Report summarizes one run's ranked signals
type Report struct {
	GeneratedAt time.Time `json:"generated_at"`

	Total        int `json:"total"`
	Tier1Count   int `json:"tier1_count"`
	Tier2Count   int `json:"tier2_count"`
	Tier3Count   int `json:"tier3_count"`
	PassAllCount int `json:"pass_all_count"`

	AvgFundamentalScore float64 `json:"avg_fundamental_score"`
	AvgConfidence       float64 `json:"avg_confidence"`
	MaxConfidence       float64 `json:"max_confidence"`

	Top []*contracts.IntegratedSignal `json:"top"`
}

// BuildReport computes the summary for an already-ranked signal list.
// topN bounds the detail section; the counts and averages always cover
// the full list.
func BuildReport(signals []*contracts.IntegratedSignal, topN int) *Report {
	report := &Report{
		GeneratedAt: time.Now(),
		Total:       len(signals),
	}

	if len(signals) == 0 {
		return report
	}

	var sumScore, sumConfidence float64
	for _, s := range signals {
		switch s.Tier {
		case contracts.Tier1:
			report.Tier1Count++
		case contracts.Tier2:
			report.Tier2Count++
		default:
			report.Tier3Count++
		}
		if s.PassAllStrategies {
			report.PassAllCount++
		}
		sumScore += s.Fundamental.TotalScore
		sumConfidence += s.Confidence
		if s.Confidence > report.MaxConfidence {
			report.MaxConfidence = s.Confidence
		}
	}
	report.AvgFundamentalScore = sumScore / float64(len(signals))
	report.AvgConfidence = sumConfidence / float64(len(signals))

	if topN > len(signals) {
		topN = len(signals)
	}
	report.Top = signals[:topN]

	return report
}

// Format renders the report as console text
func (r *Report) Format() string {
	var b strings.Builder
	line := strings.Repeat("=", 60)

	b.WriteString(line + "\n")
	b.WriteString("Strategy Integration Report\n")
	b.WriteString(line + "\n")
	fmt.Fprintf(&b, "Generated: %s\n", r.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Signals: %d\n", r.Total)

	if r.Total == 0 {
		b.WriteString("No qualifying signals for this run.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "Tier 1 (all gates): %d\n", r.Tier1Count)
	fmt.Fprintf(&b, "Tier 2 (growth + timing): %d\n", r.Tier2Count)
	fmt.Fprintf(&b, "Tier 3 (fundamental only): %d\n", r.Tier3Count)
	fmt.Fprintf(&b, "Passed all strategies: %d\n", r.PassAllCount)

	b.WriteString("\nTop signals\n")
	for i, s := range r.Top {
		rr := contracts.RiskRewardRatio(s.Timing)
		fmt.Fprintf(&b, "\n%d. %s(%s)\n", i+1, s.Name, s.Code)
		fmt.Fprintf(&b, "   tier: %s | confidence: %.1f/10\n", s.Tier, s.Confidence)
		fmt.Fprintf(&b, "   fundamental: %.1f | quadrant: %s\n", s.Fundamental.TotalScore, s.GrowthValue.Quadrant)
		fmt.Fprintf(&b, "   price: %.2f | targets: %.2f / %.2f | stop: %.2f\n",
			s.Timing.CurrentPrice, s.Timing.Target1, s.Timing.Target2, s.StopLoss)
		fmt.Fprintf(&b, "   position: %.1f%% | risk/reward: %.2f\n", s.PositionFraction*100, rr)
	}

	b.WriteString("\n" + line + "\n")
	fmt.Fprintf(&b, "Average fundamental score: %.2f\n", r.AvgFundamentalScore)
	fmt.Fprintf(&b, "Average confidence: %.2f\n", r.AvgConfidence)
	fmt.Fprintf(&b, "Max confidence: %.2f\n", r.MaxConfidence)
	b.WriteString(line + "\n")

	return b.String()
}
