package contracts

import "time"

// SignalTier is the ordinal strength of an integrated signal.
// Tier1 is the strongest; lower tiers rank after higher ones.
type SignalTier int

const (
	Tier1 SignalTier = iota + 1 // all three gates aligned
	Tier2                       // quadrant + timing without fundamental pass
	Tier3                       // fundamental only, or floor tier
)

// String returns the display label for a tier
func (t SignalTier) String() string {
	switch t {
	case Tier1:
		return "TIER_1"
	case Tier2:
		return "TIER_2"
	case Tier3:
		return "TIER_3"
	default:
		return "TIER_UNKNOWN"
	}
}

// StrongerThan reports whether t ranks above other
func (t SignalTier) StrongerThan(other SignalTier) bool {
	return t < other
}

// Quadrant classifies an instrument by (growth, valuation) relative to
// a baseline. BottomRight is the "cheap growth" corner that the
// strategy targets by default.
type Quadrant int

const (
	QuadrantBottomLeft  Quadrant = iota // low growth, low valuation
	QuadrantBottomRight                 // high growth, low valuation
	QuadrantTopLeft                     // low growth, high valuation
	QuadrantTopRight                    // high growth, high valuation
)

// String returns the display label for a quadrant
func (q Quadrant) String() string {
	switch q {
	case QuadrantBottomLeft:
		return "bottom_left"
	case QuadrantBottomRight:
		return "bottom_right"
	case QuadrantTopLeft:
		return "top_left"
	case QuadrantTopRight:
		return "top_right"
	default:
		return "unknown"
	}
}

// ParseQuadrant maps a config label to a Quadrant. Unknown labels fall
// back to the target corner so a typo never disables the whole filter.
func ParseQuadrant(s string) Quadrant {
	switch s {
	case "bottom_left":
		return QuadrantBottomLeft
	case "bottom_right":
		return QuadrantBottomRight
	case "top_left":
		return QuadrantTopLeft
	case "top_right":
		return QuadrantTopRight
	default:
		return QuadrantBottomRight
	}
}

// FundamentalVerdict is the fundamental gate's opinion on one
// instrument. Immutable once created; Pass is derived on demand.
// SSOT: fundamental gate -> integrator verdict record
type FundamentalVerdict struct {
	Code       string             `json:"code"`
	Name       string             `json:"name"`
	TotalScore float64            `json:"total_score"` // clamped >= 0
	Components map[string]float64 `json:"components"`  // named sub-scores
	Veto       bool               `json:"veto"`
	VetoReason string             `json:"veto_reason,omitempty"`
	EvaluatedAt time.Time         `json:"evaluated_at"`
}

// FundamentalPass reports whether the verdict clears the configured
// score threshold. A veto always fails regardless of score.
func FundamentalPass(v *FundamentalVerdict, threshold float64) bool {
	return !v.Veto && v.TotalScore >= threshold
}

// GrowthValuationVerdict is the growth-value gate's opinion on one
// instrument.
// SSOT: growth-value gate -> integrator verdict record
type GrowthValuationVerdict struct {
	Code              string   `json:"code"`
	Name              string   `json:"name"`
	GrowthRate        float64  `json:"growth_rate"`        // percent
	ValuationMultiple float64  `json:"valuation_multiple"` // PE
	Quadrant          Quadrant `json:"quadrant"`
	Priority          int      `json:"priority"` // 0..3 pre-filter tier
	PEG               float64  `json:"peg,omitempty"`
	HasPEG            bool     `json:"has_peg"`
	IndustryGrowth    float64  `json:"industry_growth,omitempty"`
	IndustryValuation float64  `json:"industry_valuation,omitempty"`
	HasIndustry       bool     `json:"has_industry"`
}

// InTargetQuadrant reports whether the verdict sits in the configured
// target quadrant.
func InTargetQuadrant(v *GrowthValuationVerdict, target Quadrant) bool {
	return v.Quadrant == target
}

// RelativePosition returns (growth - industry growth, valuation -
// industry valuation). Without industry baselines the position is
// neutral (0, 0).
func RelativePosition(v *GrowthValuationVerdict) (float64, float64) {
	if !v.HasIndustry {
		return 0, 0
	}
	return v.GrowthRate - v.IndustryGrowth, v.ValuationMultiple - v.IndustryValuation
}

// TimingState is the lightweight timing classification
type TimingState string

const (
	TimingNo    TimingState = "NO"
	TimingWatch TimingState = "WATCH"
	TimingYes   TimingState = "YES"
)

// TimingVerdict is the timing gate's opinion on one instrument.
// SSOT: timing gate -> integrator verdict record
type TimingVerdict struct {
	Code string `json:"code"`
	Name string `json:"name"`

	State TimingState `json:"state"`

	// Hard conditions, all required for a timing pass
	TrendOK     bool `json:"trend_ok"`
	SentimentOK bool `json:"sentiment_ok"`
	StructureOK bool `json:"structure_ok"`

	// Soft conditions are counted, never required
	SoftConditionsMet   int `json:"soft_conditions_met"`
	SoftConditionsTotal int `json:"soft_conditions_total"`

	CurrentPrice  float64 `json:"current_price"`
	StructuralLow float64 `json:"structural_low"`
	Target1       float64 `json:"target_1"`
	Target2       float64 `json:"target_2"`
	StopLoss      float64 `json:"stop_loss"`

	EvaluatedAt time.Time `json:"evaluated_at"`
}

// AllHardConditionsMet reports whether every hard timing condition
// holds.
func AllHardConditionsMet(v *TimingVerdict) bool {
	return v.TrendOK && v.SentimentOK && v.StructureOK
}

// PotentialReturns returns the percentage gain to each target relative
// to the current price. A current price <= 0 yields zero returns, never
// a division fault.
func PotentialReturns(v *TimingVerdict) (float64, float64) {
	if v.CurrentPrice <= 0 {
		return 0, 0
	}
	r1 := (v.Target1 - v.CurrentPrice) / v.CurrentPrice * 100
	r2 := (v.Target2 - v.CurrentPrice) / v.CurrentPrice * 100
	return r1, r2
}

// RiskRewardRatio returns gain-to-first-target divided by
// loss-to-stop. When the loss side is not positive the ratio is zero,
// not infinite.
func RiskRewardRatio(v *TimingVerdict) float64 {
	if v.CurrentPrice <= 0 {
		return 0
	}
	loss := v.CurrentPrice - v.StopLoss
	if loss <= 0 {
		return 0
	}
	gain := v.Target1 - v.CurrentPrice
	if gain <= 0 {
		return 0
	}
	return gain / loss
}

// IntegratedSignal is the fused, ranked output of the strategy
// integrator. The three source verdicts are shared read-only; the
// integrator never mutates them.
// SSOT: integrator -> report/store ranked signal record
type IntegratedSignal struct {
	Code string `json:"code"`
	Name string `json:"name"`

	Fundamental *FundamentalVerdict     `json:"fundamental"`
	GrowthValue *GrowthValuationVerdict `json:"growth_value"`
	Timing      *TimingVerdict          `json:"timing"`

	Tier              SignalTier `json:"tier"`
	PassAllStrategies bool       `json:"pass_all_strategies"`
	Confidence        float64    `json:"confidence"` // 0..10

	PositionFraction float64   `json:"position_fraction"` // of capital
	EntryLow         float64   `json:"entry_low"`
	EntryHigh        float64   `json:"entry_high"`
	Targets          []float64 `json:"targets"`
	StopLoss         float64   `json:"stop_loss"`
	HoldingMinDays   int       `json:"holding_min_days"`
	HoldingMaxDays   int       `json:"holding_max_days"`

	AnalyzedAt time.Time `json:"analyzed_at"`
}
