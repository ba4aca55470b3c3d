package datasource

import (
	"context"
	"fmt"

	"github.com/seenimoa/tickerintel/internal/logging"
	"github.com/seenimoa/tickerintel/internal/metrics"
	"github.com/seenimoa/tickerintel/pkg/models"
	"github.com/seenimoa/tickerintel/pkg/utils"
)

// Aggregator serves company news from a primary source, falling back to a
// secondary feed when the primary fails or has nothing. Results are never
// merged: exactly one source's items are returned.
type Aggregator struct {
	primary   NewsSource
	secondary NewsSource
	limit     int
	logger    *logging.Logger
	metrics   *metrics.Metrics
}

// NewAggregator creates a news aggregator. primary may be nil, in which case
// every lookup goes to secondary. logger and m may be nil.
func NewAggregator(primary, secondary NewsSource, limit int, logger *logging.Logger, m *metrics.Metrics) *Aggregator {
	if limit <= 0 {
		limit = DefaultNewsLimit
	}
	if logger == nil {
		logger = logging.NewSilent()
	}
	return &Aggregator{
		primary:   primary,
		secondary: secondary,
		limit:     limit,
		logger:    logger.Component("news"),
		metrics:   m,
	}
}

// Fetch returns at most the configured number of headlines for ticker.
//
// The primary result is used whenever it holds at least one item, and the
// secondary is not queried then. A primary error is kept on the result as
// PrimaryErr. Both sources empty is a valid empty result with a nil error;
// only a secondary failure is returned as an error.
func (a *Aggregator) Fetch(ctx context.Context, ticker string) (*models.NewsResult, error) {
	symbol := utils.NormalizeTicker(ticker)
	result := &models.NewsResult{Ticker: symbol}

	reason := metrics.ReasonPrimaryEmpty
	if a.primary != nil {
		items, err := a.primary.FetchNews(ctx, symbol, a.limit)
		switch {
		case err != nil:
			reason = metrics.ReasonPrimaryError
			result.PrimaryErr = err
			a.logger.Warn().Err(err).
				Str("ticker", symbol).
				Str("source", a.primary.Name()).
				Msg("primary news source failed, using fallback")
		case len(items) > 0:
			result.Items = truncate(items, a.limit)
			result.Source = a.primary.Name()
			return result, nil
		default:
			a.logger.Debug().Str("ticker", symbol).Msg("primary news source empty, using fallback")
		}
	}

	if a.secondary == nil {
		if result.PrimaryErr != nil {
			return nil, fmt.Errorf("news %s: %w", symbol, result.PrimaryErr)
		}
		return nil, ErrNoSources
	}

	a.metrics.IncrementFallback(reason)
	items, err := a.secondary.FetchNews(ctx, symbol, a.limit)
	if err != nil {
		return nil, fmt.Errorf("news %s: %w", symbol, err)
	}

	result.Items = truncate(items, a.limit)
	result.Source = a.secondary.Name()
	result.Fallback = true
	return result, nil
}

func truncate(items []models.NewsItem, limit int) []models.NewsItem {
	if len(items) > limit {
		return items[:limit]
	}
	return items
}
