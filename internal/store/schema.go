package store

import (
	"context"
	"fmt"
)

// EnsureSchema creates the signal schema and table if they do not exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE SCHEMA IF NOT EXISTS trigate`,
		`CREATE TABLE IF NOT EXISTS trigate.signals (
			stock_code       TEXT NOT NULL,
			signal_date      DATE NOT NULL,
			stock_name       TEXT NOT NULL DEFAULT '',
			tier             INT NOT NULL,
			pass_all         BOOLEAN NOT NULL DEFAULT FALSE,
			confidence       DOUBLE PRECISION NOT NULL,
			position_fraction DOUBLE PRECISION NOT NULL,
			entry_low        DOUBLE PRECISION NOT NULL,
			entry_high       DOUBLE PRECISION NOT NULL,
			targets          DOUBLE PRECISION[] NOT NULL DEFAULT '{}',
			stop_loss        DOUBLE PRECISION NOT NULL,
			holding_min_days INT NOT NULL,
			holding_max_days INT NOT NULL,
			fundamental      JSONB,
			growth_value     JSONB,
			timing           JSONB,
			analyzed_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (signal_date, stock_code)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_signals_date_rank
			ON trigate.signals (signal_date, tier ASC, confidence DESC)`,
	}

	for _, stmt := range statements {
		if _, err := r.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure signal schema: %w", err)
		}
	}

	return nil
}
