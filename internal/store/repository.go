package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/haoyuan-z/trigate/internal/contracts"
)

// Repository handles signal persistence.
// SSOT: signal storage and retrieval happen only here.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new signal repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

var _ contracts.SignalRepository = (*Repository)(nil)

// SaveSignals replaces all signals stored for the given date.
func (r *Repository) SaveSignals(ctx context.Context, date time.Time, signals []*contracts.IntegratedSignal) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, "DELETE FROM trigate.signals WHERE signal_date = $1", date)
	if err != nil {
		return fmt.Errorf("failed to delete old signals: %w", err)
	}

	query := `
		INSERT INTO trigate.signals (
			stock_code, signal_date, stock_name, tier, pass_all,
			confidence, position_fraction,
			entry_low, entry_high, targets, stop_loss,
			holding_min_days, holding_max_days,
			fundamental, growth_value, timing, analyzed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	for _, s := range signals {
		fundamentalJSON, err := json.Marshal(s.Fundamental)
		if err != nil {
			return fmt.Errorf("failed to marshal fundamental verdict: %w", err)
		}
		growthJSON, err := json.Marshal(s.GrowthValue)
		if err != nil {
			return fmt.Errorf("failed to marshal growth-value verdict: %w", err)
		}
		timingJSON, err := json.Marshal(s.Timing)
		if err != nil {
			return fmt.Errorf("failed to marshal timing verdict: %w", err)
		}

		targets := make([]float64, len(s.Targets))
		copy(targets, s.Targets)

		_, err = tx.Exec(ctx, query,
			s.Code, date, s.Name, int(s.Tier), s.PassAllStrategies,
			s.Confidence, s.PositionFraction,
			s.EntryLow, s.EntryHigh, targets, s.StopLoss,
			s.HoldingMinDays, s.HoldingMaxDays,
			fundamentalJSON, growthJSON, timingJSON, s.AnalyzedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert signal %s: %w", s.Code, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetSignals retrieves all signals for a date, strongest first.
func (r *Repository) GetSignals(ctx context.Context, date time.Time) ([]*contracts.IntegratedSignal, error) {
	query := `
		SELECT
			stock_code, stock_name, tier, pass_all,
			confidence, position_fraction,
			entry_low, entry_high, targets, stop_loss,
			holding_min_days, holding_max_days,
			fundamental, growth_value, timing, analyzed_at
		FROM trigate.signals
		WHERE signal_date = $1
		ORDER BY tier ASC, confidence DESC
	`

	rows, err := r.pool.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query signals: %w", err)
	}
	defer rows.Close()

	signals := make([]*contracts.IntegratedSignal, 0)

	for rows.Next() {
		s, err := scanSignal(rows)
		if err != nil {
			return nil, err
		}
		signals = append(signals, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return signals, nil
}

// GetSignal retrieves a single signal by date and stock code.
func (r *Repository) GetSignal(ctx context.Context, date time.Time, code string) (*contracts.IntegratedSignal, error) {
	query := `
		SELECT
			stock_code, stock_name, tier, pass_all,
			confidence, position_fraction,
			entry_low, entry_high, targets, stop_loss,
			holding_min_days, holding_max_days,
			fundamental, growth_value, timing, analyzed_at
		FROM trigate.signals
		WHERE signal_date = $1 AND stock_code = $2
	`

	row := r.pool.QueryRow(ctx, query, date, code)
	s, err := scanSignal(row)
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("no signal found for %s on %s", code, date.Format("2006-01-02"))
	}
	if err != nil {
		return nil, err
	}

	return s, nil
}

// GetLatestDate returns the most recent date with stored signals.
func (r *Repository) GetLatestDate(ctx context.Context) (time.Time, error) {
	query := `SELECT signal_date FROM trigate.signals ORDER BY signal_date DESC LIMIT 1`

	var date time.Time
	err := r.pool.QueryRow(ctx, query).Scan(&date)
	if err == pgx.ErrNoRows {
		return time.Time{}, fmt.Errorf("no signals stored yet")
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get latest signal date: %w", err)
	}

	return date, nil
}

func scanSignal(row pgx.Row) (*contracts.IntegratedSignal, error) {
	var s contracts.IntegratedSignal
	var tier int
	var fundamentalJSON, growthJSON, timingJSON []byte

	err := row.Scan(
		&s.Code, &s.Name, &tier, &s.PassAllStrategies,
		&s.Confidence, &s.PositionFraction,
		&s.EntryLow, &s.EntryHigh, &s.Targets, &s.StopLoss,
		&s.HoldingMinDays, &s.HoldingMaxDays,
		&fundamentalJSON, &growthJSON, &timingJSON, &s.AnalyzedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan signal: %w", err)
	}

	s.Tier = contracts.SignalTier(tier)

	if len(fundamentalJSON) > 0 {
		if err := json.Unmarshal(fundamentalJSON, &s.Fundamental); err != nil {
			return nil, fmt.Errorf("failed to unmarshal fundamental verdict: %w", err)
		}
	}
	if len(growthJSON) > 0 {
		if err := json.Unmarshal(growthJSON, &s.GrowthValue); err != nil {
			return nil, fmt.Errorf("failed to unmarshal growth-value verdict: %w", err)
		}
	}
	if len(timingJSON) > 0 {
		if err := json.Unmarshal(timingJSON, &s.Timing); err != nil {
			return nil, fmt.Errorf("failed to unmarshal timing verdict: %w", err)
		}
	}

	return &s, nil
}
