package strategyconfig

import "fmt"

// ValidationError reports a config constraint violation
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks all required constraints. A failed validation makes
// the loader fall back to defaults rather than running with a broken
// strategy.
func Validate(cfg *Config) error {
	// === Meta ===
	if cfg.Meta.StrategyID == "" {
		return ValidationError{"meta.strategy_id", "required"}
	}

	// === Fundamental ===
	if cfg.Fundamental.ScoreThreshold < 0 {
		return ValidationError{"fundamental.score_threshold", "must be >= 0"}
	}
	if cfg.Fundamental.DebtRatioMax <= 0 {
		return ValidationError{"fundamental.debt_ratio_max", "must be > 0"}
	}

	// === GrowthValue ===
	switch cfg.GrowthValue.TargetQuadrant {
	case "bottom_right", "bottom_left", "top_right", "top_left":
	default:
		return ValidationError{"growth_value.target_quadrant", fmt.Sprintf("unknown quadrant %q", cfg.GrowthValue.TargetQuadrant)}
	}
	if cfg.GrowthValue.HighGrowthCutoff <= cfg.GrowthValue.MidGrowthCutoff {
		return ValidationError{"growth_value.high_growth_cutoff", "must be > mid_growth_cutoff"}
	}
	if cfg.GrowthValue.MidGrowthCutoff <= cfg.GrowthValue.LowGrowthCutoff {
		return ValidationError{"growth_value.mid_growth_cutoff", "must be > low_growth_cutoff"}
	}
	if cfg.GrowthValue.LowGrowthCutoff <= 0 {
		return ValidationError{"growth_value.low_growth_cutoff", "must be > 0"}
	}
	if cfg.GrowthValue.CheapPEMax <= 0 {
		return ValidationError{"growth_value.cheap_pe_max", "must be > 0"}
	}

	// === Timing ===
	if cfg.Timing.MAWindow <= 0 {
		return ValidationError{"timing.ma_window", "must be > 0"}
	}
	if cfg.Timing.MinBars < cfg.Timing.MAWindow {
		return ValidationError{"timing.min_bars", "must be >= ma_window"}
	}
	if cfg.Timing.OversoldDiscount <= 0 || cfg.Timing.OversoldDiscount >= 1 {
		return ValidationError{"timing.oversold_discount", "must be in (0, 1)"}
	}
	if cfg.Timing.Target1Multiplier <= 1 {
		return ValidationError{"timing.target1_multiplier", "must be > 1"}
	}
	if cfg.Timing.Target2Multiplier <= cfg.Timing.Target1Multiplier {
		return ValidationError{"timing.target2_multiplier", "must be > target1_multiplier"}
	}
	if cfg.Timing.StopLossMultiplier <= 0 || cfg.Timing.StopLossMultiplier >= 1 {
		return ValidationError{"timing.stop_loss_multiplier", "must be in (0, 1)"}
	}

	// === Integration ===
	conf := cfg.Integration.Confidence
	if conf.Max <= 0 {
		return ValidationError{"integration.confidence.max", "must be > 0"}
	}
	if conf.FundamentalWeight < 0 || conf.QuadrantMatch < 0 || conf.HardConditions < 0 {
		return ValidationError{"integration.confidence", "weights must be >= 0"}
	}
	if conf.QuadrantBase > conf.PEGFallback || conf.PEGFallback > conf.QuadrantMatch {
		return ValidationError{"integration.confidence", "quadrant weights must be ordered base <= peg_fallback <= quadrant_match"}
	}

	pos := cfg.Integration.Position
	if pos.Tier1Base < pos.Tier2Base || pos.Tier2Base < pos.Tier3Base {
		return ValidationError{"integration.position", "tier bases must be non-increasing, tier1 >= tier2 >= tier3"}
	}
	if pos.Tier3Base <= 0 {
		return ValidationError{"integration.position.tier3_base", "must be > 0"}
	}
	if pos.MaxFraction <= 0 || pos.MaxFraction > 1 {
		return ValidationError{"integration.position.max_fraction", "must be in (0, 1]"}
	}
	if pos.RRBoostThreshold <= pos.RRNeutralThreshold {
		return ValidationError{"integration.position.rr_boost_threshold", "must be > rr_neutral_threshold"}
	}

	if cfg.Integration.EntryBandPct < 0 || cfg.Integration.EntryBandPct > 0.1 {
		return ValidationError{"integration.entry_band_pct", "must be in [0, 0.1]"}
	}
	if cfg.Integration.HoldingMinDays <= 0 {
		return ValidationError{"integration.holding_min_days", "must be > 0"}
	}
	if cfg.Integration.HoldingMaxDays < cfg.Integration.HoldingMinDays {
		return ValidationError{"integration.holding_max_days", "must be >= holding_min_days"}
	}
	if cfg.Integration.ReportTopN <= 0 {
		return ValidationError{"integration.report_top_n", "must be > 0"}
	}

	// === Pipeline ===
	if cfg.Pipeline.Workers <= 0 {
		return ValidationError{"pipeline.workers", "must be > 0"}
	}
	if cfg.Pipeline.HistoryDays < cfg.Timing.MinBars {
		return ValidationError{"pipeline.history_days", "must be >= timing.min_bars"}
	}

	return nil
}
