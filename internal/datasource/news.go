package datasource

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed/rss"

	"github.com/seenimoa/tickerintel/internal/infra"
	"github.com/seenimoa/tickerintel/pkg/models"
	"github.com/seenimoa/tickerintel/pkg/utils"
)

// GoogleNewsSource is the source name used when an entry carries no
// <source> element.
const GoogleNewsSource = "Google News"

// DefaultGoogleRSSURL is the Google News search feed endpoint.
const DefaultGoogleRSSURL = "https://news.google.com/rss/search"

// GoogleNews implements NewsSource over the Google News search RSS feed.
type GoogleNews struct {
	searchURL string
	client    *infra.Client
	parser    *rss.Parser
}

// NewGoogleNews creates a Google News feed source. An empty searchURL uses
// DefaultGoogleRSSURL.
func NewGoogleNews(searchURL string, client *infra.Client) *GoogleNews {
	if searchURL == "" {
		searchURL = DefaultGoogleRSSURL
	}
	if client == nil {
		client = infra.NewClient("google_news")
	}
	return &GoogleNews{
		searchURL: searchURL,
		client:    client,
		parser:    &rss.Parser{},
	}
}

// Name returns the data source name.
func (g *GoogleNews) Name() string { return GoogleNewsSource }

// FetchNews returns the first limit entries of the "{ticker} stock news"
// search feed.
func (g *GoogleNews) FetchNews(ctx context.Context, ticker string, limit int) ([]models.NewsItem, error) {
	if limit <= 0 {
		limit = DefaultNewsLimit
	}
	symbol := utils.NormalizeTicker(ticker)

	data, err := g.client.GetBytes(ctx, g.feedURL(symbol), map[string]string{
		"Accept": "application/rss+xml, application/xml, text/xml",
	})
	if err != nil {
		return nil, fmt.Errorf("google news %s: %w", symbol, err)
	}

	feed, err := g.parser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse google news RSS %s: %w", symbol, err)
	}

	items := make([]models.NewsItem, 0, min(limit, len(feed.Items)))
	for _, entry := range feed.Items {
		if len(items) == limit {
			break
		}
		source := GoogleNewsSource
		if entry.Source != nil && strings.TrimSpace(entry.Source.Title) != "" {
			source = strings.TrimSpace(entry.Source.Title)
		}
		items = append(items, models.NewsItem{
			Title:  cleanHTML(entry.Title),
			Link:   strings.TrimSpace(entry.Link),
			Source: source,
		})
	}
	return items, nil
}

// feedURL builds ?q={ticker}+stock+news&hl=en-US&gl=US&ceid=US:en.
func (g *GoogleNews) feedURL(symbol string) string {
	q := url.Values{}
	q.Set("q", symbol+" stock news")
	q.Set("hl", "en-US")
	q.Set("gl", "US")
	q.Set("ceid", "US:en")
	return g.searchURL + "?" + q.Encode()
}

// --- Internal helpers ---

// cleanHTML strips HTML tags from a string using goquery.
func cleanHTML(s string) string {
	if s == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<body>" + s + "</body>"))
	if err != nil {
		return s
	}
	return strings.TrimSpace(doc.Text())
}
