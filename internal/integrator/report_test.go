package integrator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haoyuan-z/trigate/internal/contracts"
)

func rankedSignals(t *testing.T) []*contracts.IntegratedSignal {
	t.Helper()
	it := testIntegrator()

	var funds []*contracts.FundamentalVerdict
	var growths []*contracts.GrowthValuationVerdict
	var timings []*contracts.TimingVerdict

	funds = append(funds, fundamental("A", 8), fundamental("B", 5), fundamental("C", 8))
	growths = append(growths,
		growth("A", contracts.QuadrantBottomRight),
		growth("B", contracts.QuadrantBottomRight),
		growth("C", contracts.QuadrantTopLeft),
	)
	timings = append(timings, timing("A", true, 4), timing("B", true, 2), timing("C", false, 0))

	signals := it.Integrate(funds, growths, timings)
	require.Len(t, signals, 3)
	return signals
}

func TestBuildReport(t *testing.T) {
	signals := rankedSignals(t)
	report := BuildReport(signals, 10)

	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 1, report.Tier1Count)
	assert.Equal(t, 1, report.Tier2Count)
	assert.Equal(t, 1, report.Tier3Count)
	assert.Equal(t, 1, report.PassAllCount)
	assert.InDelta(t, 7.0, report.AvgFundamentalScore, 0.001) // (8+5+8)/3
	assert.Greater(t, report.MaxConfidence, report.AvgConfidence)
	assert.Len(t, report.Top, 3)
}

func TestBuildReport_TopNBound(t *testing.T) {
	signals := rankedSignals(t)

	report := BuildReport(signals, 2)
	assert.Len(t, report.Top, 2)
	assert.Equal(t, 3, report.Total, "counts cover the full list")
}

func TestBuildReport_Empty(t *testing.T) {
	report := BuildReport(nil, 10)
	assert.Equal(t, 0, report.Total)
	assert.Empty(t, report.Top)

	text := report.Format()
	assert.Contains(t, text, "No qualifying signals")
}

func TestReport_Format(t *testing.T) {
	report := BuildReport(rankedSignals(t), 10)
	text := report.Format()

	assert.Contains(t, text, "Strategy Integration Report")
	assert.Contains(t, text, "Tier 1 (all gates): 1")
	assert.Contains(t, text, "stock A")
	// Ranked order holds in the detail section
	assert.Less(t, strings.Index(text, "stock A"), strings.Index(text, "stock B"))
	assert.Less(t, strings.Index(text, "stock B"), strings.Index(text, "stock C"))
}
