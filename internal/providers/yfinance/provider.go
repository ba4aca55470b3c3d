// Package yfinance implements the Yahoo Finance news provider.
// It wraps Yahoo Finance's public v1 search API, which returns recent
// headlines for a symbol alongside quote matches.
//
// Yahoo Finance is a free, no-API-key provider; it blocks aggressively, so
// callers treat it as best-effort and keep a fallback feed.
package yfinance

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/seenimoa/tickerintel/internal/config"
	"github.com/seenimoa/tickerintel/internal/infra"
	"github.com/seenimoa/tickerintel/internal/metrics"
	"github.com/seenimoa/tickerintel/pkg/models"
	"github.com/seenimoa/tickerintel/pkg/utils"
)

const providerName = "yfinance"

// defaultPublisher is the source shown when Yahoo omits the publisher.
const defaultPublisher = "Yahoo"

// Provider fetches company news from Yahoo Finance.
type Provider struct {
	searchURL string
	limit     int
	client    *infra.Client
}

// New creates a Yahoo Finance news provider. m may be nil.
func New(cfg config.NewsConfig, httpCfg config.HTTPConfig, m *metrics.Metrics) *Provider {
	return &Provider{
		searchURL: cfg.YahooSearchURL,
		limit:     cfg.Limit,
		client: infra.NewClient(providerName,
			infra.WithTimeout(httpCfg.ClientTimeout()),
			infra.WithMetrics(m),
		),
	}
}

// Name returns the source shown to users.
func (p *Provider) Name() string { return "Yahoo Finance" }

// FetchNews returns up to limit headlines for ticker. A zero limit uses the
// configured news limit.
func (p *Provider) FetchNews(ctx context.Context, ticker string, limit int) ([]models.NewsItem, error) {
	if limit <= 0 {
		limit = p.limit
	}
	symbol := toYFTicker(ticker)

	q := url.Values{}
	q.Set("q", symbol)
	q.Set("quotesCount", "0")
	q.Set("newsCount", strconv.Itoa(limit))
	u := p.searchURL + "?" + q.Encode()

	var resp yfSearchResponse
	if err := p.client.GetJSON(ctx, u, &resp); err != nil {
		return nil, fmt.Errorf("yfinance news %s: %w", symbol, err)
	}

	items := make([]models.NewsItem, 0, min(limit, len(resp.News)))
	for _, n := range resp.News {
		if len(items) == limit {
			break
		}
		if n.Title == "" || n.Link == "" {
			continue
		}
		items = append(items, models.NewsItem{
			Title:  n.Title,
			Link:   n.Link,
			Source: coalesce(n.Publisher, defaultPublisher),
		})
	}
	return items, nil
}

// toYFTicker converts user input to a Yahoo Finance symbol.
func toYFTicker(symbol string) string {
	return utils.NormalizeTicker(symbol)
}

// coalesce returns the first non-empty string.
func coalesce(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
