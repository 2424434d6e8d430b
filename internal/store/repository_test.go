package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/haoyuan-z/trigate/internal/contracts"
	"github.com/haoyuan-z/trigate/pkg/config"
	"github.com/haoyuan-z/trigate/pkg/database"
)

func testRepository(t *testing.T) *Repository {
	t.Helper()

	if os.Getenv("DATABASE_URL") == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	t.Cleanup(db.Close)

	repo := NewRepository(db.Pool)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := repo.EnsureSchema(ctx); err != nil {
		t.Fatalf("Failed to ensure schema: %v", err)
	}

	return repo
}

func sampleSignal(code string, tier contracts.SignalTier, confidence float64) *contracts.IntegratedSignal {
	return &contracts.IntegratedSignal{
		Code: code,
		Name: "Test " + code,
		Fundamental: &contracts.FundamentalVerdict{
			Code:       code,
			TotalScore: 8,
			Components: map[string]float64{"roe": 2},
		},
		GrowthValue: &contracts.GrowthValuationVerdict{
			Code:     code,
			Quadrant: contracts.QuadrantBottomRight,
			Priority: 3,
		},
		Timing: &contracts.TimingVerdict{
			Code:         code,
			State:        contracts.TimingYes,
			TrendOK:      true,
			CurrentPrice: 100,
		},
		Tier:              tier,
		PassAllStrategies: tier == contracts.Tier1,
		Confidence:        confidence,
		PositionFraction:  0.04,
		EntryLow:          98,
		EntryHigh:         102,
		Targets:           []float64{110, 125},
		StopLoss:          95,
		HoldingMinDays:    5,
		HoldingMaxDays:    20,
		AnalyzedAt:        time.Now(),
	}
}

func TestRepository_SaveAndGetSignals(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	repo := testRepository(t)
	ctx := context.Background()
	date := time.Date(2001, 1, 2, 0, 0, 0, 0, time.UTC)

	signals := []*contracts.IntegratedSignal{
		sampleSignal("TST001", contracts.Tier1, 9.2),
		sampleSignal("TST002", contracts.Tier2, 6.5),
	}

	if err := repo.SaveSignals(ctx, date, signals); err != nil {
		t.Fatalf("SaveSignals failed: %v", err)
	}

	got, err := repo.GetSignals(ctx, date)
	if err != nil {
		t.Fatalf("GetSignals failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 signals, got %d", len(got))
	}
	if got[0].Code != "TST001" {
		t.Errorf("Expected strongest signal first, got %s", got[0].Code)
	}
	if got[0].Fundamental == nil || got[0].Fundamental.TotalScore != 8 {
		t.Errorf("Fundamental verdict not restored: %+v", got[0].Fundamental)
	}
	if len(got[0].Targets) != 2 || got[0].Targets[1] != 125 {
		t.Errorf("Targets not restored: %v", got[0].Targets)
	}
}

func TestRepository_SaveSignalsReplacesDate(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	repo := testRepository(t)
	ctx := context.Background()
	date := time.Date(2001, 1, 3, 0, 0, 0, 0, time.UTC)

	first := []*contracts.IntegratedSignal{
		sampleSignal("TST001", contracts.Tier1, 9.0),
		sampleSignal("TST002", contracts.Tier3, 3.0),
	}
	if err := repo.SaveSignals(ctx, date, first); err != nil {
		t.Fatalf("SaveSignals failed: %v", err)
	}

	second := []*contracts.IntegratedSignal{
		sampleSignal("TST003", contracts.Tier2, 7.0),
	}
	if err := repo.SaveSignals(ctx, date, second); err != nil {
		t.Fatalf("SaveSignals failed: %v", err)
	}

	got, err := repo.GetSignals(ctx, date)
	if err != nil {
		t.Fatalf("GetSignals failed: %v", err)
	}
	if len(got) != 1 || got[0].Code != "TST003" {
		t.Errorf("Expected replaced set with TST003 only, got %+v", got)
	}
}

func TestRepository_GetSignal(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	repo := testRepository(t)
	ctx := context.Background()
	date := time.Date(2001, 1, 4, 0, 0, 0, 0, time.UTC)

	if err := repo.SaveSignals(ctx, date, []*contracts.IntegratedSignal{
		sampleSignal("TST009", contracts.Tier1, 8.8),
	}); err != nil {
		t.Fatalf("SaveSignals failed: %v", err)
	}

	s, err := repo.GetSignal(ctx, date, "TST009")
	if err != nil {
		t.Fatalf("GetSignal failed: %v", err)
	}
	if s.Tier != contracts.Tier1 || s.Confidence != 8.8 {
		t.Errorf("Unexpected signal: %+v", s)
	}

	if _, err := repo.GetSignal(ctx, date, "MISSING"); err == nil {
		t.Error("Expected error for missing signal")
	}
}

func TestRepository_GetLatestDate(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	repo := testRepository(t)
	ctx := context.Background()
	date := time.Date(2001, 1, 5, 0, 0, 0, 0, time.UTC)

	if err := repo.SaveSignals(ctx, date, []*contracts.IntegratedSignal{
		sampleSignal("TST010", contracts.Tier2, 6.0),
	}); err != nil {
		t.Fatalf("SaveSignals failed: %v", err)
	}

	latest, err := repo.GetLatestDate(ctx)
	if err != nil {
		t.Fatalf("GetLatestDate failed: %v", err)
	}
	if latest.IsZero() {
		t.Error("Expected a non-zero latest date")
	}
}
