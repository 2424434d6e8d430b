package contracts

import (
	"testing"
)

func TestSignalTier_StrongerThan(t *testing.T) {
	if !Tier1.StrongerThan(Tier2) {
		t.Error("Tier1 should rank above Tier2")
	}
	if !Tier2.StrongerThan(Tier3) {
		t.Error("Tier2 should rank above Tier3")
	}
	if Tier3.StrongerThan(Tier1) {
		t.Error("Tier3 should not rank above Tier1")
	}
}

func TestSignalTier_String(t *testing.T) {
	tests := []struct {
		tier SignalTier
		want string
	}{
		{Tier1, "TIER_1"},
		{Tier2, "TIER_2"},
		{Tier3, "TIER_3"},
		{SignalTier(0), "TIER_UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.tier.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestParseQuadrant(t *testing.T) {
	tests := []struct {
		label string
		want  Quadrant
	}{
		{"bottom_right", QuadrantBottomRight},
		{"bottom_left", QuadrantBottomLeft},
		{"top_right", QuadrantTopRight},
		{"top_left", QuadrantTopLeft},
		{"typo", QuadrantBottomRight}, // unknown falls back to target corner
	}

	for _, tt := range tests {
		if got := ParseQuadrant(tt.label); got != tt.want {
			t.Errorf("ParseQuadrant(%q) = %v, want %v", tt.label, got, tt.want)
		}
	}
}

func TestFundamentalPass(t *testing.T) {
	tests := []struct {
		name      string
		verdict   *FundamentalVerdict
		threshold float64
		want      bool
	}{
		{
			name:      "score above threshold",
			verdict:   &FundamentalVerdict{Code: "600519", TotalScore: 8},
			threshold: 7.5,
			want:      true,
		},
		{
			name:      "score below threshold",
			verdict:   &FundamentalVerdict{Code: "600519", TotalScore: 5},
			threshold: 7.5,
			want:      false,
		},
		{
			name:      "veto overrides high score",
			verdict:   &FundamentalVerdict{Code: "600519", TotalScore: 9, Veto: true, VetoReason: "negative net profit"},
			threshold: 7.5,
			want:      false,
		},
		{
			name:      "score exactly at threshold",
			verdict:   &FundamentalVerdict{Code: "600519", TotalScore: 7.5},
			threshold: 7.5,
			want:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FundamentalPass(tt.verdict, tt.threshold); got != tt.want {
				t.Errorf("FundamentalPass() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAllHardConditionsMet(t *testing.T) {
	tests := []struct {
		name    string
		verdict *TimingVerdict
		want    bool
	}{
		{
			name:    "all met",
			verdict: &TimingVerdict{TrendOK: true, SentimentOK: true, StructureOK: true},
			want:    true,
		},
		{
			name:    "trend missing",
			verdict: &TimingVerdict{TrendOK: false, SentimentOK: true, StructureOK: true},
			want:    false,
		},
		{
			name:    "none met",
			verdict: &TimingVerdict{},
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AllHardConditionsMet(tt.verdict); got != tt.want {
				t.Errorf("AllHardConditionsMet() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPotentialReturns(t *testing.T) {
	v := &TimingVerdict{
		CurrentPrice: 100,
		Target1:      110,
		Target2:      125,
	}

	r1, r2 := PotentialReturns(v)
	if r1 != 10 {
		t.Errorf("first return = %v, want 10", r1)
	}
	if r2 != 25 {
		t.Errorf("second return = %v, want 25", r2)
	}
}

func TestPotentialReturns_ZeroPrice(t *testing.T) {
	v := &TimingVerdict{
		CurrentPrice: 0,
		Target1:      110,
		Target2:      125,
	}

	r1, r2 := PotentialReturns(v)
	if r1 != 0 || r2 != 0 {
		t.Errorf("returns = (%v, %v), want (0, 0) for zero price", r1, r2)
	}
}

func TestRiskRewardRatio(t *testing.T) {
	tests := []struct {
		name    string
		verdict *TimingVerdict
		want    float64
	}{
		{
			name:    "favorable ratio",
			verdict: &TimingVerdict{CurrentPrice: 100, Target1: 120, StopLoss: 90},
			want:    2.0,
		},
		{
			name:    "stop loss above current price",
			verdict: &TimingVerdict{CurrentPrice: 100, Target1: 120, StopLoss: 105},
			want:    0,
		},
		{
			name:    "stop loss equals current price",
			verdict: &TimingVerdict{CurrentPrice: 100, Target1: 120, StopLoss: 100},
			want:    0,
		},
		{
			name:    "zero current price",
			verdict: &TimingVerdict{CurrentPrice: 0, Target1: 120, StopLoss: 90},
			want:    0,
		},
		{
			name:    "target below current price",
			verdict: &TimingVerdict{CurrentPrice: 100, Target1: 95, StopLoss: 90},
			want:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RiskRewardRatio(tt.verdict)
			epsilon := 0.0001
			if diff := got - tt.want; diff > epsilon || diff < -epsilon {
				t.Errorf("RiskRewardRatio() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRelativePosition(t *testing.T) {
	with := &GrowthValuationVerdict{
		GrowthRate:        25,
		ValuationMultiple: 15,
		IndustryGrowth:    10,
		IndustryValuation: 20,
		HasIndustry:       true,
	}

	g, v := RelativePosition(with)
	if g != 15 || v != -5 {
		t.Errorf("RelativePosition() = (%v, %v), want (15, -5)", g, v)
	}

	without := &GrowthValuationVerdict{GrowthRate: 25, ValuationMultiple: 15}
	g, v = RelativePosition(without)
	if g != 0 || v != 0 {
		t.Errorf("RelativePosition() without baselines = (%v, %v), want (0, 0)", g, v)
	}
}

func TestUniverse(t *testing.T) {
	u := &Universe{
		Instruments: []Instrument{
			{Code: "600519", Name: "Kweichow Moutai"},
			{Code: "000858", Name: "Wuliangye"},
		},
		Excluded: map[string]string{
			"600001": "ST instrument",
		},
	}

	if !u.Contains("600519") {
		t.Error("Expected universe to contain 600519")
	}
	if u.Contains("999999") {
		t.Error("Expected universe not to contain 999999")
	}

	excluded, reason := u.IsExcluded("600001")
	if !excluded || reason != "ST instrument" {
		t.Errorf("IsExcluded() = (%v, %q)", excluded, reason)
	}

	if u.Count() != 2 {
		t.Errorf("Count() = %d, want 2", u.Count())
	}
}
