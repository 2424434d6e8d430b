package provider

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/haoyuan-z/trigate/internal/contracts"
	"github.com/haoyuan-z/trigate/pkg/config"
	"github.com/haoyuan-z/trigate/pkg/httputil"
	"github.com/haoyuan-z/trigate/pkg/logger"
	"github.com/haoyuan-z/trigate/pkg/redis"
)

// Eastmoney implements contracts.DataProvider against the Eastmoney
// quote and datacenter endpoints.
// SSOT: Eastmoney API calls happen only in this client.
type Eastmoney struct {
	httpClient *httputil.Client
	cache      *redis.Cache
	limiter    *rate.Limiter
	cfg        config.ProviderConfig
	logger     *logger.Logger
}

// NewEastmoney creates the Eastmoney provider. The cache may be backed
// by a disabled Redis client, in which case every lookup is a miss.
func NewEastmoney(cfg *config.Config, httpClient *httputil.Client, cache *redis.Cache, log *logger.Logger) *Eastmoney {
	rps := cfg.Provider.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}
	return &Eastmoney{
		httpClient: httpClient,
		cache:      cache,
		limiter:    rate.NewLimiter(rate.Limit(rps), rps),
		cfg:        cfg.Provider,
		logger:     log.WithComponent("provider.eastmoney"),
	}
}

// instrumentListResponse is the clist/get wire format. f12 is the
// code, f14 the display name.
type instrumentListResponse struct {
	Data *struct {
		Total int `json:"total"`
		Diff  []struct {
			Code string `json:"f12"`
			Name string `json:"f14"`
		} `json:"diff"`
	} `json:"data"`
}

// FetchInstrumentList returns every listed A-share instrument
func (p *Eastmoney) FetchInstrumentList(ctx context.Context) ([]contracts.Instrument, error) {
	cacheKey := redis.InstrumentListKey(time.Now().Format("2006-01-02"))
	var cached []contracts.Instrument
	if found, _ := p.cache.Get(ctx, cacheKey, &cached); found {
		return cached, nil
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	url := fmt.Sprintf(
		"%s/api/qt/clist/get?pn=1&pz=6000&po=1&np=1&fltt=2&invt=2&fid=f12&fs=m:0+t:6,m:0+t:80,m:1+t:2,m:1+t:23&fields=f12,f14",
		p.cfg.QuoteBaseURL,
	)

	var resp instrumentListResponse
	if err := p.httpClient.GetJSON(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("fetch instrument list failed: %w", err)
	}
	if resp.Data == nil {
		return nil, nil
	}

	instruments := make([]contracts.Instrument, 0, len(resp.Data.Diff))
	for _, row := range resp.Data.Diff {
		if row.Code == "" {
			continue
		}
		instruments = append(instruments, contracts.Instrument{
			Code: row.Code,
			Name: row.Name,
		})
	}

	p.logger.WithField("count", len(instruments)).Info("Fetched instrument list")

	if err := p.cache.Set(ctx, cacheKey, instruments, redis.TTLDaily); err != nil {
		p.logger.WithError(err).Warn("Failed to cache instrument list")
	}
	return instruments, nil
}

// klineResponse is the kline/get wire format. Each kline is a
// comma-joined string: date,open,close,high,low,volume
type klineResponse struct {
	Data *struct {
		Code   string   `json:"code"`
		Klines []string `json:"klines"`
	} `json:"data"`
}

// FetchPriceHistory returns up to days daily bars for one instrument,
// oldest first
func (p *Eastmoney) FetchPriceHistory(ctx context.Context, code string, days int) ([]contracts.PriceBar, error) {
	cacheKey := redis.PriceHistoryKey(code, time.Now().Format("2006-01-02"))
	var cached []contracts.PriceBar
	if found, _ := p.cache.Get(ctx, cacheKey, &cached); found {
		return cached, nil
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	beg := time.Now().AddDate(0, 0, -days*2).Format("20060102")
	url := fmt.Sprintf(
		"%s/api/qt/stock/kline/get?secid=%s&klt=101&fqt=1&beg=%s&end=20500101&fields1=f1,f2,f3&fields2=f51,f52,f53,f54,f55,f56",
		p.cfg.HistoryBaseURL, secID(code), beg,
	)

	var resp klineResponse
	if err := p.httpClient.GetJSON(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("fetch price history for %s failed: %w", code, err)
	}
	if resp.Data == nil {
		return nil, nil
	}

	bars := parseKlines(code, resp.Data.Klines)
	if len(bars) > days {
		bars = bars[len(bars)-days:]
	}

	if err := p.cache.Set(ctx, cacheKey, bars, redis.TTLIntraday); err != nil {
		p.logger.WithError(err).Warn("Failed to cache price history")
	}
	return bars, nil
}

// fundamentalsResponse is the datacenter wire format. Fields are
// nullable; missing values get conservative defaults at parse time.
type fundamentalsResponse struct {
	Result *struct {
		Data []fundamentalRow `json:"data"`
	} `json:"result"`
}

type fundamentalRow struct {
	SecurityCode string   `json:"SECURITY_CODE"`
	ReportDate   string   `json:"REPORT_DATE"`
	DebtRatio    *float64 `json:"DEBT_ASSET_RATIO"`
	CurrentRatio *float64 `json:"CURRENT_RATIO"`
	ROE          *float64 `json:"ROE_WEIGHT"`
	NetCashFlow  *float64 `json:"NET_OPERATE_CASH_FLOW"`
	NetProfit    *float64 `json:"PARENT_NET_PROFIT"`
	ProfitYoy    *float64 `json:"PARENT_NETPROFIT_YOY"`
	RevenueYoy   *float64 `json:"TOTAL_OPERATE_INCOME_YOY"`
	PERatio      *float64 `json:"PE_TTM"`
}

// FetchFundamentals returns fundamental snapshots for one instrument,
// oldest first
func (p *Eastmoney) FetchFundamentals(ctx context.Context, code string) ([]contracts.FundamentalSnapshot, error) {
	cacheKey := redis.FundamentalsKey(code)
	var cached []contracts.FundamentalSnapshot
	if found, _ := p.cache.Get(ctx, cacheKey, &cached); found {
		return cached, nil
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	url := fmt.Sprintf(
		"%s/api/data/v1/get?reportName=RPT_DMSK_FN_MAIN&columns=ALL&pageSize=8&sortColumns=REPORT_DATE&sortTypes=1&filter=(SECURITY_CODE=%%22%s%%22)",
		p.cfg.DatacenterBaseURL, code,
	)

	var resp fundamentalsResponse
	if err := p.httpClient.GetJSON(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("fetch fundamentals for %s failed: %w", code, err)
	}
	if resp.Result == nil {
		return nil, nil
	}

	snapshots := make([]contracts.FundamentalSnapshot, 0, len(resp.Result.Data))
	for _, row := range resp.Result.Data {
		snapshots = append(snapshots, snapshotFromRow(code, row))
	}

	if err := p.cache.Set(ctx, cacheKey, snapshots, redis.TTLReport); err != nil {
		p.logger.WithError(err).Warn("Failed to cache fundamentals")
	}
	return snapshots, nil
}

// snapshotFromRow maps a datacenter row to a snapshot. A missing field
// takes the conservative default for its condition: designed to fail
// the gate, never to pass it.
func snapshotFromRow(code string, row fundamentalRow) contracts.FundamentalSnapshot {
	snap := contracts.FundamentalSnapshot{
		Code:              code,
		DebtRatio:         100,
		CurrentRatio:      0,
		ROE:               0,
		OperatingCashFlow: -1,
		NetProfit:         -1,
		RevenueGrowthRate: 0,
		PERatio:           100,
	}

	if t, err := time.Parse("2006-01-02 15:04:05", row.ReportDate); err == nil {
		snap.ReportDate = t
	} else if t, err := time.Parse("2006-01-02", row.ReportDate); err == nil {
		snap.ReportDate = t
	}

	if row.DebtRatio != nil {
		snap.DebtRatio = *row.DebtRatio
	}
	if row.CurrentRatio != nil {
		snap.CurrentRatio = *row.CurrentRatio
	}
	if row.ROE != nil {
		snap.ROE = *row.ROE
	}
	if row.NetCashFlow != nil {
		snap.OperatingCashFlow = *row.NetCashFlow
	}
	if row.NetProfit != nil {
		snap.NetProfit = *row.NetProfit
	}
	if row.ProfitYoy != nil {
		snap.NetProfitGrowthRate = *row.ProfitYoy
	}
	if row.RevenueYoy != nil {
		snap.RevenueGrowthRate = *row.RevenueYoy
	}
	if row.PERatio != nil {
		snap.PERatio = *row.PERatio
	}

	return snap
}

var _ contracts.DataProvider = (*Eastmoney)(nil)

// secID prefixes the exchange market id: 1 for Shanghai, 0 for
// Shenzhen and Beijing
func secID(code string) string {
	if strings.HasPrefix(code, "6") {
		return "1." + code
	}
	return "0." + code
}
