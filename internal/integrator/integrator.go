package integrator

import (
	"sort"
	"time"

	"github.com/haoyuan-z/trigate/internal/contracts"
	"github.com/haoyuan-z/trigate/internal/strategyconfig"
	"github.com/haoyuan-z/trigate/pkg/logger"
)

// Integrator fuses the three per-instrument verdicts into tiered,
// confidence-scored, position-sized signals.
// SSOT: signal fusion, confidence scoring and position sizing happen
// only here.
type Integrator struct {
	cfg            strategyconfig.Integration
	scoreThreshold float64
	targetQuadrant contracts.Quadrant
	logger         *logger.Logger
}

// New creates a new integrator
func New(cfg *strategyconfig.Config, log *logger.Logger) *Integrator {
	return &Integrator{
		cfg:            cfg.Integration,
		scoreThreshold: cfg.Fundamental.ScoreThreshold,
		targetQuadrant: contracts.ParseQuadrant(cfg.GrowthValue.TargetQuadrant),
		logger:         log.WithComponent("integrator"),
	}
}

// Integrate joins the three verdict collections by instrument code and
// returns the ranked signals. The join is strict AND: a code missing
// any one of the three verdicts is skipped entirely, never reported as
// an error. The source verdicts are shared read-only and never
// mutated.
func (it *Integrator) Integrate(
	fundamentals []*contracts.FundamentalVerdict,
	growthValues []*contracts.GrowthValuationVerdict,
	timings []*contracts.TimingVerdict,
) []*contracts.IntegratedSignal {
	fundamentalByCode := make(map[string]*contracts.FundamentalVerdict, len(fundamentals))
	for _, v := range fundamentals {
		fundamentalByCode[v.Code] = v
	}
	growthByCode := make(map[string]*contracts.GrowthValuationVerdict, len(growthValues))
	for _, v := range growthValues {
		growthByCode[v.Code] = v
	}
	timingByCode := make(map[string]*contracts.TimingVerdict, len(timings))
	for _, v := range timings {
		timingByCode[v.Code] = v
	}

	// Union of keys, then explicit intersection
	allCodes := make(map[string]struct{}, len(fundamentalByCode))
	for code := range fundamentalByCode {
		allCodes[code] = struct{}{}
	}
	for code := range growthByCode {
		allCodes[code] = struct{}{}
	}
	for code := range timingByCode {
		allCodes[code] = struct{}{}
	}

	signals := make([]*contracts.IntegratedSignal, 0, len(allCodes))
	skipped := 0

	for code := range allCodes {
		fundamental := fundamentalByCode[code]
		growth := growthByCode[code]
		timing := timingByCode[code]
		if fundamental == nil || growth == nil || timing == nil {
			skipped++
			continue
		}
		signals = append(signals, it.fuse(fundamental, growth, timing))
	}

	// Tier is the primary key, confidence breaks ties within a tier
	sort.Slice(signals, func(i, j int) bool {
		if signals[i].Tier != signals[j].Tier {
			return signals[i].Tier.StrongerThan(signals[j].Tier)
		}
		return signals[i].Confidence > signals[j].Confidence
	})

	it.logger.WithFields(map[string]interface{}{
		"signals": len(signals),
		"skipped": skipped,
	}).Info("Integrated strategy verdicts")

	return signals
}

// fuse builds one integrated signal from a complete verdict triple
func (it *Integrator) fuse(
	fundamental *contracts.FundamentalVerdict,
	growth *contracts.GrowthValuationVerdict,
	timing *contracts.TimingVerdict,
) *contracts.IntegratedSignal {
	passFundamental := contracts.FundamentalPass(fundamental, it.scoreThreshold)
	passGrowth := contracts.InTargetQuadrant(growth, it.targetQuadrant)
	passTiming := contracts.AllHardConditionsMet(timing)
	passAll := passFundamental && passGrowth && passTiming

	tier := it.tier(passFundamental, passGrowth, passTiming)
	confidence := it.confidence(fundamental, growth, timing, passAll)
	position := it.positionSize(tier, confidence, contracts.RiskRewardRatio(timing))

	name := fundamental.Name
	if name == "" {
		name = timing.Name
	}

	return &contracts.IntegratedSignal{
		Code:              fundamental.Code,
		Name:              name,
		Fundamental:       fundamental,
		GrowthValue:       growth,
		Timing:            timing,
		Tier:              tier,
		PassAllStrategies: passAll,
		Confidence:        confidence,
		PositionFraction:  position,
		EntryLow:          timing.CurrentPrice * (1 - it.cfg.EntryBandPct),
		EntryHigh:         timing.CurrentPrice * (1 + it.cfg.EntryBandPct),
		Targets:           []float64{timing.Target1, timing.Target2},
		StopLoss:          timing.StopLoss,
		HoldingMinDays:    it.cfg.HoldingMinDays,
		HoldingMaxDays:    it.cfg.HoldingMaxDays,
		AnalyzedAt:        time.Now(),
	}
}

// tier is the deterministic decision table, evaluated in priority
// order. A signal is never dropped once all three verdicts exist; the
// floor tier keeps it ranked last instead.
func (it *Integrator) tier(passFundamental, passGrowth, passTiming bool) contracts.SignalTier {
	switch {
	case passFundamental && passGrowth && passTiming:
		return contracts.Tier1
	case passGrowth && passTiming:
		return contracts.Tier2
	case passFundamental:
		return contracts.Tier3
	default:
		return contracts.Tier3
	}
}

// confidence is additive then clamped to the configured ceiling. The
// terms can sum above the ceiling, so the clamp is part of the output
// contract, not paranoia.
func (it *Integrator) confidence(
	fundamental *contracts.FundamentalVerdict,
	growth *contracts.GrowthValuationVerdict,
	timing *contracts.TimingVerdict,
	passAll bool,
) float64 {
	conf := it.cfg.Confidence
	score := 0.0

	// Fundamental contribution, scaled linearly by the normalized score
	norm := fundamental.TotalScore / 10.0
	if norm > 1.0 {
		norm = 1.0
	}
	score += norm * conf.FundamentalWeight

	// Growth-valuation contribution
	switch {
	case growth.Quadrant == it.targetQuadrant:
		score += conf.QuadrantMatch
	case growth.HasPEG && growth.PEG < 1.0:
		score += conf.PEGFallback
	default:
		score += conf.QuadrantBase
	}

	// Timing contribution
	if contracts.AllHardConditionsMet(timing) {
		score += conf.HardConditions
	}
	if timing.SoftConditionsMet >= conf.SoftBonusMin {
		score += conf.SoftBonus
	}

	if passAll {
		score += conf.PassAllBonus
	}

	if score > conf.Max {
		score = conf.Max
	}
	if score < 0 {
		score = 0
	}
	return score
}

// positionSize scales the tier's base fraction by confidence and the
// risk/reward multiplier, then applies the hard cap. The cap is a risk
// invariant and holds regardless of how favorable the inputs are.
func (it *Integrator) positionSize(tier contracts.SignalTier, confidence, riskReward float64) float64 {
	pos := it.cfg.Position

	var base float64
	switch tier {
	case contracts.Tier1:
		base = pos.Tier1Base
	case contracts.Tier2:
		base = pos.Tier2Base
	default:
		base = pos.Tier3Base
	}

	var rrMultiplier float64
	switch {
	case riskReward > pos.RRBoostThreshold:
		rrMultiplier = pos.RRBoost
	case riskReward > pos.RRNeutralThreshold:
		rrMultiplier = pos.RRNeutral
	default:
		rrMultiplier = pos.RRPenalty
	}

	final := base * (confidence / it.cfg.Confidence.Max) * rrMultiplier
	if final > pos.MaxFraction {
		final = pos.MaxFraction
	}
	if final < 0 {
		final = 0
	}
	return final
}
