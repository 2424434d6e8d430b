package gates

import (
	"time"

	"github.com/haoyuan-z/trigate/internal/contracts"
	"github.com/haoyuan-z/trigate/internal/strategyconfig"
	"github.com/haoyuan-z/trigate/pkg/logger"
)

// FundamentalGate is the rational investment scorer.
// SSOT: fundamental scoring happens only here.
type FundamentalGate struct {
	cfg    strategyconfig.Fundamental
	logger *logger.Logger
}

// NewFundamentalGate creates a new fundamental gate
func NewFundamentalGate(cfg *strategyconfig.Config, log *logger.Logger) *FundamentalGate {
	return &FundamentalGate{
		cfg:    cfg.Fundamental,
		logger: log.WithComponent("gate.fundamental"),
	}
}

// Evaluate scores one instrument from its fundamental snapshots.
// Empty input yields a zero score, which fails the downstream
// threshold; it is never an error. Each condition is evaluated
// independently against the latest snapshot and the raw total is
// clamped at zero.
func (g *FundamentalGate) Evaluate(code, name string, snapshots []contracts.FundamentalSnapshot) *contracts.FundamentalVerdict {
	verdict := &contracts.FundamentalVerdict{
		Code:        code,
		Name:        name,
		Components:  map[string]float64{},
		EvaluatedAt: time.Now(),
	}

	if len(snapshots) == 0 {
		return verdict
	}

	latest := snapshots[len(snapshots)-1]
	score := 0.0

	if latest.DebtRatio < g.cfg.DebtRatioMax {
		score += g.cfg.DebtRatioPoints
		verdict.Components["debt_ratio"] = g.cfg.DebtRatioPoints
	}
	if latest.CurrentRatio > g.cfg.CurrentRatioMin {
		score += g.cfg.CurrentRatioPoints
		verdict.Components["current_ratio"] = g.cfg.CurrentRatioPoints
	}
	if latest.ROE > g.cfg.ROEMin {
		score += g.cfg.ROEPoints
		verdict.Components["roe"] = g.cfg.ROEPoints
	}
	if latest.OperatingCashFlow > 0 {
		score += g.cfg.CashFlowPoints
		verdict.Components["operating_cash_flow"] = g.cfg.CashFlowPoints
	}
	if latest.NetProfitGrowthRate > 0 {
		score += g.cfg.ProfitGrowthPoints
		verdict.Components["profit_growth"] = g.cfg.ProfitGrowthPoints
	}
	if latest.NetProfit < 0 {
		score -= g.cfg.LossPenalty
		verdict.Components["net_profit"] = -g.cfg.LossPenalty
		if g.cfg.VetoOnLoss {
			verdict.Veto = true
			verdict.VetoReason = "negative net profit"
		}
	}

	// Negative raw totals are not meaningful
	if score < 0 {
		score = 0
	}
	verdict.TotalScore = score

	g.logger.WithFields(map[string]interface{}{
		"code":  code,
		"score": score,
	}).Debug("Evaluated fundamental gate")

	return verdict
}
