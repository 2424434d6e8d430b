package contracts

import "time"

// Instrument identifies one listed instrument in the raw universe
type Instrument struct {
	Code     string    `json:"code"`
	Name     string    `json:"name"`
	ListedAt time.Time `json:"listed_at,omitempty"`
}

// FundamentalSnapshot is one reporting period's fundamental statement
// for one instrument. Providers return snapshots time-ordered, oldest
// first. Missing fields carry conservative defaults chosen to fail the
// conditions they feed, never to pass them.
// SSOT: provider -> gates fundamental input record
type FundamentalSnapshot struct {
	Code       string    `json:"code"`
	ReportDate time.Time `json:"report_date"`

	DebtRatio           float64 `json:"debt_ratio"`    // percent, default 100
	CurrentRatio        float64 `json:"current_ratio"` // default 0
	ROE                 float64 `json:"roe"`           // percent, default 0
	OperatingCashFlow   float64 `json:"operating_cash_flow"`   // default -1
	NetProfit           float64 `json:"net_profit"`            // default -1
	NetProfitGrowthRate float64 `json:"net_profit_growth_rate"` // percent yoy, default 0
	RevenueGrowthRate   float64 `json:"revenue_growth_rate"`    // percent, default 0
	PERatio             float64 `json:"pe_ratio"`               // default 100
}

// PriceBar is one trading day's OHLCV record for one instrument.
// Providers return bars time-ordered, oldest first.
// SSOT: provider -> gates price history input record
type PriceBar struct {
	Code   string    `json:"code"`
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// Universe is the set of instruments that enter the gate fan-out,
// with per-code exclusion reasons for the ones filtered out.
// SSOT: universe builder -> pipeline instrument set
type Universe struct {
	Date        time.Time         `json:"date"`
	Instruments []Instrument      `json:"instruments"`
	Excluded    map[string]string `json:"excluded"` // code -> reason
	TotalCount  int               `json:"total_count,omitempty"`
}

// Contains checks if an instrument code is in the universe
func (u *Universe) Contains(code string) bool {
	for _, inst := range u.Instruments {
		if inst.Code == code {
			return true
		}
	}
	return false
}

// IsExcluded checks if a code was excluded, with its reason
func (u *Universe) IsExcluded(code string) (bool, string) {
	reason, exists := u.Excluded[code]
	return exists, reason
}

// Count returns the number of instruments that passed the filters
func (u *Universe) Count() int {
	return len(u.Instruments)
}

// Headline is one scraped finance news headline
type Headline struct {
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	Source    string    `json:"source"`
	FetchedAt time.Time `json:"fetched_at"`
}
