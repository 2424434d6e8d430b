package contracts

import (
	"context"
	"time"
)

// DataProvider supplies raw market data per instrument. A failed or
// empty fetch degrades to "insufficient data" in the gates; the core
// never retries here.
// SSOT: external market-data collaborator interface
type DataProvider interface {
	// FetchInstrumentList returns every listed instrument
	FetchInstrumentList(ctx context.Context) ([]Instrument, error)

	// FetchFundamentals returns fundamental snapshots for one
	// instrument, oldest first, possibly empty
	FetchFundamentals(ctx context.Context, code string) ([]FundamentalSnapshot, error)

	// FetchPriceHistory returns daily bars for one instrument,
	// oldest first, possibly empty
	FetchPriceHistory(ctx context.Context, code string, days int) ([]PriceBar, error)
}

// SentimentSource answers the timing gate's sentiment hard condition.
// Implementations may scrape headlines or read an external gauge; a
// stub returning neutral-positive keeps the gate usable offline.
type SentimentSource interface {
	// SentimentOK reports whether market sentiment permits entries
	SentimentOK(ctx context.Context) (bool, error)
}

// SignalRepository persists a run's ranked signals and report
// SSOT: integrator output persistence interface
type SignalRepository interface {
	SaveSignals(ctx context.Context, date time.Time, signals []*IntegratedSignal) error
	GetSignals(ctx context.Context, date time.Time) ([]*IntegratedSignal, error)
	GetSignal(ctx context.Context, date time.Time, code string) (*IntegratedSignal, error)
	GetLatestDate(ctx context.Context) (time.Time, error)
}
