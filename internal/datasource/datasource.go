// Package datasource provides company news from multiple feeds. It defines a
// common NewsSource interface, implements the Google News RSS feed, and
// combines a primary and a fallback source in an Aggregator.
package datasource

import (
	"context"
	"errors"

	"github.com/seenimoa/tickerintel/pkg/models"
)

// NewsSource defines the interface every news feed implements.
type NewsSource interface {
	// Name returns the human-readable name of this source.
	Name() string

	// FetchNews returns up to limit headlines for ticker, newest first as
	// the upstream orders them. An empty slice with a nil error means the
	// source has nothing for this ticker.
	FetchNews(ctx context.Context, ticker string, limit int) ([]models.NewsItem, error)
}

// --- Sentinel errors ---

// ErrNoSources is returned when an aggregator has no fallback configured.
var ErrNoSources = errors.New("datasource: no news sources configured")

// DefaultNewsLimit is the number of headlines shown per ticker.
const DefaultNewsLimit = 10
