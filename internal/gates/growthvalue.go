package gates

import (
	"math"

	"github.com/haoyuan-z/trigate/internal/contracts"
	"github.com/haoyuan-z/trigate/internal/strategyconfig"
	"github.com/haoyuan-z/trigate/pkg/logger"
)

// IndustryBaseline carries optional industry averages for the quadrant
// classifier. Nil means no baseline is known and fixed thresholds
// apply.
type IndustryBaseline struct {
	Growth    float64
	Valuation float64
}

// GrowthValueGate maps (growth, valuation) into a priority tier and a
// quadrant.
// SSOT: growth-valuation classification happens only here.
type GrowthValueGate struct {
	cfg    strategyconfig.GrowthValue
	logger *logger.Logger
}

// NewGrowthValueGate creates a new growth-value gate
func NewGrowthValueGate(cfg *strategyconfig.Config, log *logger.Logger) *GrowthValueGate {
	return &GrowthValueGate{
		cfg:    cfg.GrowthValue,
		logger: log.WithComponent("gate.growthvalue"),
	}
}

// Evaluate classifies one instrument from its fundamental snapshots.
// A derived growth figure needs a prior baseline, so fewer than two
// snapshots yields priority 0 and the bottom-left quadrant.
func (g *GrowthValueGate) Evaluate(code, name string, snapshots []contracts.FundamentalSnapshot, industry *IndustryBaseline) *contracts.GrowthValuationVerdict {
	verdict := &contracts.GrowthValuationVerdict{
		Code:     code,
		Name:     name,
		Quadrant: contracts.QuadrantBottomLeft,
	}

	if industry != nil {
		verdict.IndustryGrowth = industry.Growth
		verdict.IndustryValuation = industry.Valuation
		verdict.HasIndustry = true
	}

	if len(snapshots) < 2 {
		return verdict
	}

	latest := snapshots[len(snapshots)-1]
	prev := snapshots[len(snapshots)-2]

	verdict.GrowthRate = growthRate(prev.NetProfit, latest.NetProfit)
	verdict.ValuationMultiple = latest.PERatio
	verdict.Priority = g.priority(verdict.GrowthRate, verdict.ValuationMultiple)
	verdict.Quadrant = g.classify(verdict.GrowthRate, verdict.ValuationMultiple, industry)

	if verdict.GrowthRate > 0 && verdict.ValuationMultiple > 0 {
		verdict.PEG = verdict.ValuationMultiple / verdict.GrowthRate
		verdict.HasPEG = true
	}

	g.logger.WithFields(map[string]interface{}{
		"code":     code,
		"growth":   verdict.GrowthRate,
		"pe":       verdict.ValuationMultiple,
		"priority": verdict.Priority,
		"quadrant": verdict.Quadrant.String(),
	}).Debug("Evaluated growth-value gate")

	return verdict
}

// priority is the pre-filter tier. Zero or negative growth is always 0
// regardless of valuation; the highest tier is reserved for high
// growth combined with low valuation.
func (g *GrowthValueGate) priority(growth, pe float64) int {
	switch {
	case growth <= 0:
		return 0
	case growth > g.cfg.HighGrowthCutoff && pe > 0 && pe < g.cfg.CheapPEMax:
		return 3
	case growth > g.cfg.MidGrowthCutoff:
		return 2
	case growth > g.cfg.LowGrowthCutoff:
		return 1
	default:
		return 0
	}
}

// classify partitions (growth, valuation) against the industry
// baseline, or against (0, valuation_baseline) when none is known.
// Pure function of its inputs; identical inputs always yield the
// identical quadrant.
func (g *GrowthValueGate) classify(growth, valuation float64, industry *IndustryBaseline) contracts.Quadrant {
	growthBase := 0.0
	valuationBase := g.cfg.ValuationBaseline
	if industry != nil {
		growthBase = industry.Growth
		valuationBase = industry.Valuation
	}

	highGrowth := growth > growthBase
	highValuation := valuation > valuationBase

	switch {
	case highGrowth && !highValuation:
		return contracts.QuadrantBottomRight
	case highGrowth && highValuation:
		return contracts.QuadrantTopRight
	case !highGrowth && highValuation:
		return contracts.QuadrantTopLeft
	default:
		return contracts.QuadrantBottomLeft
	}
}

// growthRate returns the percent change from prev to latest. A zero
// prior baseline yields 0; a negative baseline measures against its
// magnitude so turnarounds read as positive growth.
func growthRate(prev, latest float64) float64 {
	if prev == 0 {
		return 0
	}
	return (latest - prev) / math.Abs(prev) * 100
}
