package integrator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haoyuan-z/trigate/internal/contracts"
	"github.com/haoyuan-z/trigate/internal/strategyconfig"
	"github.com/haoyuan-z/trigate/pkg/config"
	"github.com/haoyuan-z/trigate/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(&config.Config{Env: "development", LogLevel: "error"})
}

func testIntegrator() *Integrator {
	return New(strategyconfig.Default(), testLogger())
}

func fundamental(code string, score float64) *contracts.FundamentalVerdict {
	return &contracts.FundamentalVerdict{
		Code:       code,
		Name:       "stock " + code,
		TotalScore: score,
	}
}

func growth(code string, quadrant contracts.Quadrant) *contracts.GrowthValuationVerdict {
	return &contracts.GrowthValuationVerdict{
		Code:     code,
		Quadrant: quadrant,
	}
}

func timing(code string, hardOK bool, soft int) *contracts.TimingVerdict {
	return &contracts.TimingVerdict{
		Code:                code,
		TrendOK:             hardOK,
		SentimentOK:         hardOK,
		StructureOK:         hardOK,
		SoftConditionsMet:   soft,
		SoftConditionsTotal: 4,
		CurrentPrice:        100,
		StructuralLow:       90,
		Target1:             110,
		Target2:             125,
		StopLoss:            95,
	}
}

func TestIntegrate_Tier1Scenario(t *testing.T) {
	it := testIntegrator()

	// Fundamental 8 (pass at 7.5), target quadrant, all hard timing
	// conditions, 3 of 4 soft conditions
	signals := it.Integrate(
		[]*contracts.FundamentalVerdict{fundamental("600519", 8)},
		[]*contracts.GrowthValuationVerdict{growth("600519", contracts.QuadrantBottomRight)},
		[]*contracts.TimingVerdict{timing("600519", true, 3)},
	)

	require.Len(t, signals, 1)
	s := signals[0]
	assert.Equal(t, contracts.Tier1, s.Tier)
	assert.True(t, s.PassAllStrategies)
	// 0.8*4 + 3 + 2 + 1 + 1 = 10.2 clamped to 10
	assert.GreaterOrEqual(t, s.Confidence, 9.0)
	assert.LessOrEqual(t, s.Confidence, 10.0)
}

func TestIntegrate_Tier2Scenario(t *testing.T) {
	it := testIntegrator()

	// Fundamental 5 fails the threshold but quadrant and timing hold
	signals := it.Integrate(
		[]*contracts.FundamentalVerdict{fundamental("600519", 5)},
		[]*contracts.GrowthValuationVerdict{growth("600519", contracts.QuadrantBottomRight)},
		[]*contracts.TimingVerdict{timing("600519", true, 2)},
	)

	require.Len(t, signals, 1)
	assert.Equal(t, contracts.Tier2, signals[0].Tier)
	assert.False(t, signals[0].PassAllStrategies)
}

func TestIntegrate_Tier3AndFloor(t *testing.T) {
	it := testIntegrator()

	signals := it.Integrate(
		[]*contracts.FundamentalVerdict{fundamental("A", 8), fundamental("B", 2)},
		[]*contracts.GrowthValuationVerdict{growth("A", contracts.QuadrantTopLeft), growth("B", contracts.QuadrantTopLeft)},
		[]*contracts.TimingVerdict{timing("A", false, 1), timing("B", false, 1)},
	)

	require.Len(t, signals, 2)
	for _, s := range signals {
		// Fundamental alone is Tier3; passing nothing is still Tier3,
		// never dropped
		assert.Equal(t, contracts.Tier3, s.Tier)
	}
}

func TestIntegrate_StrictANDJoin(t *testing.T) {
	it := testIntegrator()

	// "ONLY_TWO" is missing its timing verdict and must not appear,
	// regardless of how strong the other two verdicts are
	signals := it.Integrate(
		[]*contracts.FundamentalVerdict{fundamental("FULL", 8), fundamental("ONLY_TWO", 10)},
		[]*contracts.GrowthValuationVerdict{growth("FULL", contracts.QuadrantBottomRight), growth("ONLY_TWO", contracts.QuadrantBottomRight)},
		[]*contracts.TimingVerdict{timing("FULL", true, 4)},
	)

	require.Len(t, signals, 1)
	assert.Equal(t, "FULL", signals[0].Code)
}

func TestIntegrate_EmptyCollections(t *testing.T) {
	it := testIntegrator()
	assert.Empty(t, it.Integrate(nil, nil, nil))
}

func TestIntegrate_Ranking(t *testing.T) {
	it := testIntegrator()

	codes := []string{"T3", "T1_LOW", "T2", "T1_HIGH"}
	var funds []*contracts.FundamentalVerdict
	var growths []*contracts.GrowthValuationVerdict
	var timings []*contracts.TimingVerdict

	add := func(code string, score float64, q contracts.Quadrant, hard bool, soft int) {
		funds = append(funds, fundamental(code, score))
		growths = append(growths, growth(code, q))
		timings = append(timings, timing(code, hard, soft))
	}
	add("T3", 8, contracts.QuadrantTopLeft, false, 0)
	add("T1_LOW", 7.5, contracts.QuadrantBottomRight, true, 0)
	add("T2", 5, contracts.QuadrantBottomRight, true, 4)
	add("T1_HIGH", 10, contracts.QuadrantBottomRight, true, 4)
	_ = codes

	signals := it.Integrate(funds, growths, timings)
	require.Len(t, signals, 4)

	assert.Equal(t, "T1_HIGH", signals[0].Code)
	assert.Equal(t, "T1_LOW", signals[1].Code)
	assert.Equal(t, "T2", signals[2].Code)
	assert.Equal(t, "T3", signals[3].Code)

	// Non-increasing in (tier, confidence)
	for i := 1; i < len(signals); i++ {
		prev, cur := signals[i-1], signals[i]
		if prev.Tier == cur.Tier {
			assert.GreaterOrEqual(t, prev.Confidence, cur.Confidence)
		} else {
			assert.True(t, prev.Tier.StrongerThan(cur.Tier))
		}
	}
}

func TestConfidence_Bounds(t *testing.T) {
	it := testIntegrator()

	// Every additive term maxed: 4 + 3 + 2 + 1 + 1 = 11, clamped to 10
	max := it.confidence(
		fundamental("X", 12),
		growth("X", contracts.QuadrantBottomRight),
		timing("X", true, 4),
		true,
	)
	assert.Equal(t, 10.0, max)

	// Weakest case still lands inside [0, 10]
	min := it.confidence(
		fundamental("X", 0),
		growth("X", contracts.QuadrantTopLeft),
		timing("X", false, 0),
		false,
	)
	assert.GreaterOrEqual(t, min, 0.0)
	assert.LessOrEqual(t, min, 10.0)
}

func TestConfidence_PEGFallback(t *testing.T) {
	it := testIntegrator()

	cheap := &contracts.GrowthValuationVerdict{Code: "X", Quadrant: contracts.QuadrantTopRight, PEG: 0.8, HasPEG: true}
	expensive := &contracts.GrowthValuationVerdict{Code: "X", Quadrant: contracts.QuadrantTopRight, PEG: 2.0, HasPEG: true}

	withPEG := it.confidence(fundamental("X", 5), cheap, timing("X", false, 0), false)
	withoutPEG := it.confidence(fundamental("X", 5), expensive, timing("X", false, 0), false)

	// PEG under 1 earns the fallback weight over the base weight
	assert.InDelta(t, 1.0, withPEG-withoutPEG, 0.001)
}

func TestPositionSize(t *testing.T) {
	it := testIntegrator()

	tests := []struct {
		name       string
		tier       contracts.SignalTier
		confidence float64
		riskReward float64
		want       float64
	}{
		{"tier1 full confidence boosted", contracts.Tier1, 10, 2.5, 0.048}, // 0.04*1.0*1.2
		{"tier1 full confidence neutral", contracts.Tier1, 10, 1.8, 0.04},
		{"tier1 full confidence penalized", contracts.Tier1, 10, 1.0, 0.032},
		{"tier2 half confidence", contracts.Tier2, 5, 1.8, 0.01},
		{"tier3 floor", contracts.Tier3, 2, 0, 0.0016}, // 0.01*0.2*0.8
		{"zero confidence sizes zero", contracts.Tier1, 0, 3.0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := it.positionSize(tt.tier, tt.confidence, tt.riskReward)
			assert.InDelta(t, tt.want, got, 0.0001)
			assert.LessOrEqual(t, got, 0.08, "hard cap must hold")
			assert.GreaterOrEqual(t, got, 0.0)
		})
	}
}

func TestPositionSize_CapHolds(t *testing.T) {
	cfg := strategyconfig.Default()
	cfg.Integration.Position.Tier1Base = 0.10 // above the cap on purpose
	it := New(cfg, testLogger())

	got := it.positionSize(contracts.Tier1, 10, 3.0)
	assert.Equal(t, 0.08, got)
}

func TestIntegrate_EntryBandAndHolding(t *testing.T) {
	it := testIntegrator()

	signals := it.Integrate(
		[]*contracts.FundamentalVerdict{fundamental("600519", 8)},
		[]*contracts.GrowthValuationVerdict{growth("600519", contracts.QuadrantBottomRight)},
		[]*contracts.TimingVerdict{timing("600519", true, 3)},
	)

	require.Len(t, signals, 1)
	s := signals[0]
	assert.InDelta(t, 98.0, s.EntryLow, 0.001)
	assert.InDelta(t, 102.0, s.EntryHigh, 0.001)
	assert.Equal(t, []float64{110, 125}, s.Targets)
	assert.Equal(t, 95.0, s.StopLoss)
	assert.Equal(t, 5, s.HoldingMinDays)
	assert.Equal(t, 20, s.HoldingMaxDays)
}
