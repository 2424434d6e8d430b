package strategyconfig

// Config is the full strategy configuration for one analysis run.
// Loaded once, immutable afterwards; every tuned constant the gates
// and the integrator consume lives here, not in code.
type Config struct {
	Meta        Meta        `yaml:"meta" json:"meta"`
	Fundamental Fundamental `yaml:"fundamental" json:"fundamental"`
	GrowthValue GrowthValue `yaml:"growth_value" json:"growth_value"`
	Timing      Timing      `yaml:"timing" json:"timing"`
	Integration Integration `yaml:"integration" json:"integration"`
	Universe    Universe    `yaml:"universe" json:"universe"`
	Pipeline    Pipeline    `yaml:"pipeline" json:"pipeline"`
}

// Meta identifies the strategy revision
type Meta struct {
	StrategyID string `yaml:"strategy_id" json:"strategy_id"`
	Version    string `yaml:"version" json:"version"`
	Timezone   string `yaml:"timezone" json:"timezone"`
}

// Fundamental holds the rational investment scorer's thresholds and
// point awards
type Fundamental struct {
	ScoreThreshold float64 `yaml:"score_threshold" json:"score_threshold"` // pass cutoff

	DebtRatioMax      float64 `yaml:"debt_ratio_max" json:"debt_ratio_max"`
	DebtRatioPoints   float64 `yaml:"debt_ratio_points" json:"debt_ratio_points"`
	CurrentRatioMin   float64 `yaml:"current_ratio_min" json:"current_ratio_min"`
	CurrentRatioPoints float64 `yaml:"current_ratio_points" json:"current_ratio_points"`
	ROEMin            float64 `yaml:"roe_min" json:"roe_min"`
	ROEPoints         float64 `yaml:"roe_points" json:"roe_points"`
	CashFlowPoints    float64 `yaml:"cash_flow_points" json:"cash_flow_points"`
	ProfitGrowthPoints float64 `yaml:"profit_growth_points" json:"profit_growth_points"`
	LossPenalty       float64 `yaml:"loss_penalty" json:"loss_penalty"` // subtracted when net profit < 0

	VetoOnLoss bool `yaml:"veto_on_loss" json:"veto_on_loss"`
}

// GrowthValue holds the growth-value gate's priority cutoffs and the
// quadrant classifier's baselines
type GrowthValue struct {
	TargetQuadrant string `yaml:"target_quadrant" json:"target_quadrant"`

	// Priority pre-filter growth cutoffs, percent
	HighGrowthCutoff float64 `yaml:"high_growth_cutoff" json:"high_growth_cutoff"`
	MidGrowthCutoff  float64 `yaml:"mid_growth_cutoff" json:"mid_growth_cutoff"`
	LowGrowthCutoff  float64 `yaml:"low_growth_cutoff" json:"low_growth_cutoff"`

	// PE ceiling for the "cheap growth" bonus tier
	CheapPEMax float64 `yaml:"cheap_pe_max" json:"cheap_pe_max"`

	// Valuation baseline used by the quadrant classifier when no
	// industry average is available
	ValuationBaseline float64 `yaml:"valuation_baseline" json:"valuation_baseline"`
}

// Timing holds the short-term signal detector's windows and
// multipliers
type Timing struct {
	MAWindow         int     `yaml:"ma_window" json:"ma_window"`                 // trailing mean window
	MinBars          int     `yaml:"min_bars" json:"min_bars"`                   // observations required
	OversoldDiscount float64 `yaml:"oversold_discount" json:"oversold_discount"` // close below MA by this factor -> WATCH

	TrendMAWindow      int     `yaml:"trend_ma_window" json:"trend_ma_window"`           // hard trend filter window
	StructureWindow    int     `yaml:"structure_window" json:"structure_window"`         // swing-low lookback
	StructureMargin    float64 `yaml:"structure_margin" json:"structure_margin"`         // price above low by this fraction
	Target1Multiplier  float64 `yaml:"target1_multiplier" json:"target1_multiplier"`     // from structural low
	Target2Multiplier  float64 `yaml:"target2_multiplier" json:"target2_multiplier"`     // from structural low
	StopLossMultiplier float64 `yaml:"stop_loss_multiplier" json:"stop_loss_multiplier"` // from structural low

	// Soft conditions
	VolumeExpansionRatio float64 `yaml:"volume_expansion_ratio" json:"volume_expansion_ratio"`
	HighLookback         int     `yaml:"high_lookback" json:"high_lookback"`
}

// Integration holds the fusion confidence weights and position sizing
type Integration struct {
	Confidence Confidence `yaml:"confidence" json:"confidence"`
	Position   Position   `yaml:"position" json:"position"`

	EntryBandPct   float64 `yaml:"entry_band_pct" json:"entry_band_pct"`
	HoldingMinDays int     `yaml:"holding_min_days" json:"holding_min_days"`
	HoldingMaxDays int     `yaml:"holding_max_days" json:"holding_max_days"`
	ReportTopN     int     `yaml:"report_top_n" json:"report_top_n"`
}

// Confidence weights are additive then clamped to Max
type Confidence struct {
	FundamentalWeight float64 `yaml:"fundamental_weight" json:"fundamental_weight"` // scaled by score/10
	QuadrantMatch     float64 `yaml:"quadrant_match" json:"quadrant_match"`
	PEGFallback       float64 `yaml:"peg_fallback" json:"peg_fallback"` // PEG < 1 without quadrant match
	QuadrantBase      float64 `yaml:"quadrant_base" json:"quadrant_base"`
	HardConditions    float64 `yaml:"hard_conditions" json:"hard_conditions"`
	SoftBonus         float64 `yaml:"soft_bonus" json:"soft_bonus"`
	SoftBonusMin      int     `yaml:"soft_bonus_min" json:"soft_bonus_min"` // soft conditions needed for bonus
	PassAllBonus      float64 `yaml:"pass_all_bonus" json:"pass_all_bonus"`
	Max               float64 `yaml:"max" json:"max"`
}

// Position sizing: tier base fraction, scaled by confidence and
// risk/reward, capped at MaxFraction. The cap is a risk invariant.
type Position struct {
	Tier1Base float64 `yaml:"tier1_base" json:"tier1_base"`
	Tier2Base float64 `yaml:"tier2_base" json:"tier2_base"`
	Tier3Base float64 `yaml:"tier3_base" json:"tier3_base"`

	RRBoostThreshold   float64 `yaml:"rr_boost_threshold" json:"rr_boost_threshold"`
	RRNeutralThreshold float64 `yaml:"rr_neutral_threshold" json:"rr_neutral_threshold"`
	RRBoost            float64 `yaml:"rr_boost" json:"rr_boost"`
	RRNeutral          float64 `yaml:"rr_neutral" json:"rr_neutral"`
	RRPenalty          float64 `yaml:"rr_penalty" json:"rr_penalty"`

	MaxFraction float64 `yaml:"max_fraction" json:"max_fraction"`
}

// Universe holds the instrument-list filters applied before the gate
// fan-out
type Universe struct {
	ExcludeSTInstruments bool `yaml:"exclude_st_instruments" json:"exclude_st_instruments"`
	MinListingAgeDays    int  `yaml:"min_listing_age_days" json:"min_listing_age_days"`
	MaxInstruments       int  `yaml:"max_instruments" json:"max_instruments"` // 0 = unbounded
}

// Pipeline holds the run orchestration knobs
type Pipeline struct {
	Workers     int `yaml:"workers" json:"workers"`
	HistoryDays int `yaml:"history_days" json:"history_days"`

	// Pre-filter cutoffs applied before the full gate evaluation
	PrefilterMinScore    float64 `yaml:"prefilter_min_score" json:"prefilter_min_score"`
	PrefilterMinPriority int     `yaml:"prefilter_min_priority" json:"prefilter_min_priority"`
}

// Default returns the documented fallback configuration. Malformed or
// missing YAML degrades to these values rather than failing the run.
func Default() *Config {
	return &Config{
		Meta: Meta{
			StrategyID: "three_gate_v1",
			Version:    "1.0",
			Timezone:   "Asia/Shanghai",
		},
		Fundamental: Fundamental{
			ScoreThreshold:     7.5,
			DebtRatioMax:       70,
			DebtRatioPoints:    2,
			CurrentRatioMin:    1.0,
			CurrentRatioPoints: 1,
			ROEMin:             10,
			ROEPoints:          2,
			CashFlowPoints:     2,
			ProfitGrowthPoints: 2,
			LossPenalty:        2,
			VetoOnLoss:         false,
		},
		GrowthValue: GrowthValue{
			TargetQuadrant:    "bottom_right",
			HighGrowthCutoff:  30,
			MidGrowthCutoff:   20,
			LowGrowthCutoff:   10,
			CheapPEMax:        20,
			ValuationBaseline: 30,
		},
		Timing: Timing{
			MAWindow:             20,
			MinBars:              20,
			OversoldDiscount:     0.95,
			TrendMAWindow:        5,
			StructureWindow:      20,
			StructureMargin:      0.02,
			Target1Multiplier:    1.10,
			Target2Multiplier:    1.25,
			StopLossMultiplier:   0.97,
			VolumeExpansionRatio: 1.5,
			HighLookback:         10,
		},
		Integration: Integration{
			Confidence: Confidence{
				FundamentalWeight: 4,
				QuadrantMatch:     3,
				PEGFallback:       2,
				QuadrantBase:      1,
				HardConditions:    2,
				SoftBonus:         1,
				SoftBonusMin:      3,
				PassAllBonus:      1,
				Max:               10,
			},
			Position: Position{
				Tier1Base:          0.04,
				Tier2Base:          0.02,
				Tier3Base:          0.01,
				RRBoostThreshold:   2.0,
				RRNeutralThreshold: 1.5,
				RRBoost:            1.2,
				RRNeutral:          1.0,
				RRPenalty:          0.8,
				MaxFraction:        0.08,
			},
			EntryBandPct:   0.02,
			HoldingMinDays: 5,
			HoldingMaxDays: 20,
			ReportTopN:     10,
		},
		Universe: Universe{
			ExcludeSTInstruments: true,
			MinListingAgeDays:    180,
			MaxInstruments:       0,
		},
		Pipeline: Pipeline{
			Workers:              8,
			HistoryDays:          120,
			PrefilterMinScore:    6,
			PrefilterMinPriority: 1,
		},
	}
}
