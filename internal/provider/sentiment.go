package provider

import (
	"context"
	"strings"

	"github.com/haoyuan-z/trigate/internal/contracts"
	"github.com/haoyuan-z/trigate/pkg/logger"
)

// HeadlineSentiment answers the timing gate's sentiment condition from
// scraped headlines: bearish keywords outnumbering bullish ones reads
// as hostile, anything else as permissive. A failed scrape is neutral.
type HeadlineSentiment struct {
	fetcher *NewsFetcher
	limit   int
	logger  *logger.Logger
}

// NewHeadlineSentiment creates a headline-driven sentiment source
func NewHeadlineSentiment(fetcher *NewsFetcher, log *logger.Logger) *HeadlineSentiment {
	return &HeadlineSentiment{
		fetcher: fetcher,
		limit:   20,
		logger:  log.WithComponent("provider.sentiment"),
	}
}

var (
	bearishKeywords = []string{"暴跌", "大跌", "跌停", "崩盘", "恐慌", "抛售", "下挫"}
	bullishKeywords = []string{"大涨", "涨停", "反弹", "利好", "上涨", "走强", "攀升"}
)

// SentimentOK implements contracts.SentimentSource
func (s *HeadlineSentiment) SentimentOK(ctx context.Context) (bool, error) {
	headlines, err := s.fetcher.FetchHeadlines(ctx, s.limit)
	if err != nil || len(headlines) == 0 {
		// No gauge reading is neutral, not a veto
		return true, err
	}

	bearish, bullish := scoreHeadlines(headlines)

	s.logger.WithFields(map[string]interface{}{
		"headlines": len(headlines),
		"bearish":   bearish,
		"bullish":   bullish,
	}).Debug("Scored headline sentiment")

	return bearish <= bullish, nil
}

func scoreHeadlines(headlines []contracts.Headline) (bearish, bullish int) {
	for _, h := range headlines {
		for _, kw := range bearishKeywords {
			if strings.Contains(h.Title, kw) {
				bearish++
				break
			}
		}
		for _, kw := range bullishKeywords {
			if strings.Contains(h.Title, kw) {
				bullish++
				break
			}
		}
	}
	return bearish, bullish
}

// NeutralSentiment always permits entries; the offline default
type NeutralSentiment struct{}

// SentimentOK implements contracts.SentimentSource
func (NeutralSentiment) SentimentOK(ctx context.Context) (bool, error) {
	return true, nil
}

var _ contracts.SentimentSource = (*HeadlineSentiment)(nil)
var _ contracts.SentimentSource = NeutralSentiment{}
