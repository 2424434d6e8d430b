package provider

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/haoyuan-z/trigate/internal/contracts"
	"github.com/haoyuan-z/trigate/pkg/config"
	"github.com/haoyuan-z/trigate/pkg/httputil"
	"github.com/haoyuan-z/trigate/pkg/logger"
	"github.com/haoyuan-z/trigate/pkg/redis"
)

// NewsFetcher scrapes finance headlines from Sina.
// SSOT: headline scraping happens only here.
type NewsFetcher struct {
	httpClient *httputil.Client
	cache      *redis.Cache
	baseURL    string
	logger     *logger.Logger
}

// NewNewsFetcher creates a new headline fetcher
func NewNewsFetcher(cfg *config.Config, httpClient *httputil.Client, cache *redis.Cache, log *logger.Logger) *NewsFetcher {
	return &NewsFetcher{
		httpClient: httpClient,
		cache:      cache,
		baseURL:    cfg.Provider.NewsBaseURL,
		logger:     log.WithComponent("provider.news"),
	}
}

// FetchHeadlines returns up to limit finance headlines. Scrape
// failures return an empty list with the error; callers treat that as
// "no news", never as a run abort.
func (f *NewsFetcher) FetchHeadlines(ctx context.Context, limit int) ([]contracts.Headline, error) {
	cacheKey := redis.HeadlinesKey("sina")
	var cached []contracts.Headline
	if found, _ := f.cache.Get(ctx, cacheKey, &cached); found && len(cached) >= limit {
		return cached[:limit], nil
	}

	resp, err := f.httpClient.Get(ctx, f.baseURL+"/stock/")
	if err != nil {
		return nil, fmt.Errorf("fetch headlines failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse headline page failed: %w", err)
	}

	headlines := parseHeadlines(doc, f.baseURL, limit)

	f.logger.WithField("count", len(headlines)).Debug("Fetched headlines")

	if err := f.cache.Set(ctx, cacheKey, headlines, redis.TTLIntraday); err != nil {
		f.logger.WithError(err).Warn("Failed to cache headlines")
	}
	return headlines, nil
}

// parseHeadlines extracts headline anchors from the finance portal
// markup
func parseHeadlines(doc *goquery.Document, baseURL string, limit int) []contracts.Headline {
	now := time.Now()
	headlines := make([]contracts.Headline, 0, limit)

	doc.Find(".news-item a, .blk_02 a, .blk_03 a").EachWithBreak(func(i int, sel *goquery.Selection) bool {
		title := strings.TrimSpace(sel.Text())
		link, _ := sel.Attr("href")
		if title == "" || link == "" {
			return true
		}
		if !strings.HasPrefix(link, "http") {
			link = baseURL + link
		}

		headlines = append(headlines, contracts.Headline{
			Title:     title,
			URL:       link,
			Source:    "sina",
			FetchedAt: now,
		})
		return len(headlines) < limit
	})

	return headlines
}
