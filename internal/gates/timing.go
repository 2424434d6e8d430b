package gates

import (
	"context"
	"time"

	"github.com/haoyuan-z/trigate/internal/contracts"
	"github.com/haoyuan-z/trigate/internal/strategyconfig"
	"github.com/haoyuan-z/trigate/pkg/logger"
)

// TimingGate is the short-term signal detector.
// SSOT: timing classification and target derivation happen only here.
type TimingGate struct {
	cfg       strategyconfig.Timing
	sentiment contracts.SentimentSource
	logger    *logger.Logger
}

// NewTimingGate creates a new timing gate. A nil sentiment source
// leaves the sentiment hard condition neutral-positive so the gate
// stays usable offline.
func NewTimingGate(cfg *strategyconfig.Config, sentiment contracts.SentimentSource, log *logger.Logger) *TimingGate {
	return &TimingGate{
		cfg:       cfg.Timing,
		sentiment: sentiment,
		logger:    log.WithComponent("gate.timing"),
	}
}

// Classify is the lightweight pipeline path: trailing-mean positioning
// only, no targets. Fewer observations than the window yields NO.
func (g *TimingGate) Classify(bars []contracts.PriceBar) contracts.TimingState {
	if len(bars) < g.cfg.MinBars {
		return contracts.TimingNo
	}

	ma := trailingMeanClose(bars, g.cfg.MAWindow)
	latest := bars[len(bars)-1].Close

	switch {
	case latest < ma*g.cfg.OversoldDiscount:
		return contracts.TimingWatch
	case latest > ma:
		return contracts.TimingYes
	default:
		return contracts.TimingNo
	}
}

// Evaluate is the full detector: three hard conditions, counted soft
// conditions, and price targets projected from the structural low.
// Targets are never derived from a current price <= 0.
func (g *TimingGate) Evaluate(ctx context.Context, code, name string, bars []contracts.PriceBar) *contracts.TimingVerdict {
	verdict := &contracts.TimingVerdict{
		Code:                code,
		Name:                name,
		State:               contracts.TimingNo,
		SoftConditionsTotal: 4,
		EvaluatedAt:         time.Now(),
	}

	if len(bars) < g.cfg.MinBars {
		return verdict
	}

	latest := bars[len(bars)-1]
	verdict.CurrentPrice = latest.Close
	verdict.State = g.Classify(bars)

	if latest.Close <= 0 {
		return verdict
	}

	low := structuralLow(bars, g.cfg.StructureWindow)
	verdict.StructuralLow = low

	// Hard conditions
	verdict.TrendOK = latest.Close > trailingMeanClose(bars, g.cfg.TrendMAWindow)
	verdict.SentimentOK = g.sentimentOK(ctx)
	verdict.StructureOK = low > 0 && latest.Close > low*(1+g.cfg.StructureMargin)

	// Soft conditions, counted never required
	soft := 0
	if volumeExpanded(bars, g.cfg.TrendMAWindow, g.cfg.VolumeExpansionRatio) {
		soft++
	}
	if len(bars) >= 2 && latest.Close > bars[len(bars)-2].Close {
		soft++
	}
	if latest.Close > trailingMeanClose(bars, g.cfg.MAWindow) {
		soft++
	}
	if isRecentHigh(bars, g.cfg.HighLookback) {
		soft++
	}
	verdict.SoftConditionsMet = soft

	// Targets and stop project from the structural low
	if low > 0 {
		verdict.Target1 = low * g.cfg.Target1Multiplier
		verdict.Target2 = low * g.cfg.Target2Multiplier
		verdict.StopLoss = low * g.cfg.StopLossMultiplier
	}

	g.logger.WithFields(map[string]interface{}{
		"code":      code,
		"state":     string(verdict.State),
		"trend":     verdict.TrendOK,
		"sentiment": verdict.SentimentOK,
		"structure": verdict.StructureOK,
		"soft":      soft,
	}).Debug("Evaluated timing gate")

	return verdict
}

func (g *TimingGate) sentimentOK(ctx context.Context) bool {
	if g.sentiment == nil {
		return true
	}
	ok, err := g.sentiment.SentimentOK(ctx)
	if err != nil {
		// A failed gauge reads as neutral, not as a veto
		g.logger.WithError(err).Warn("Sentiment source failed, treating as neutral")
		return true
	}
	return ok
}

// trailingMeanClose averages the last window closes. Callers guarantee
// len(bars) >= window via MinBars.
func trailingMeanClose(bars []contracts.PriceBar, window int) float64 {
	if window <= 0 || len(bars) < window {
		return 0
	}
	sum := 0.0
	for _, b := range bars[len(bars)-window:] {
		sum += b.Close
	}
	return sum / float64(window)
}

// structuralLow is the lowest low over the lookback window
func structuralLow(bars []contracts.PriceBar, window int) float64 {
	if window <= 0 || len(bars) == 0 {
		return 0
	}
	start := len(bars) - window
	if start < 0 {
		start = 0
	}
	low := bars[start].Low
	for _, b := range bars[start:] {
		if b.Low < low {
			low = b.Low
		}
	}
	return low
}

// volumeExpanded reports whether the latest volume exceeds the trailing
// mean volume by the configured ratio
func volumeExpanded(bars []contracts.PriceBar, window int, ratio float64) bool {
	if len(bars) < window+1 {
		return false
	}
	sum := 0.0
	for _, b := range bars[len(bars)-window-1 : len(bars)-1] {
		sum += b.Volume
	}
	mean := sum / float64(window)
	return mean > 0 && bars[len(bars)-1].Volume > mean*ratio
}

// isRecentHigh reports whether the latest close is the highest close of
// the lookback window
func isRecentHigh(bars []contracts.PriceBar, lookback int) bool {
	if lookback <= 0 || len(bars) < lookback {
		return false
	}
	latest := bars[len(bars)-1].Close
	for _, b := range bars[len(bars)-lookback:] {
		if b.Close > latest {
			return false
		}
	}
	return true
}
