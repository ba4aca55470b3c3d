package datasource

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seenimoa/tickerintel/internal/infra"
	"github.com/seenimoa/tickerintel/internal/metrics"
	"github.com/seenimoa/tickerintel/pkg/models"
)

// fakeSource is a NewsSource with canned output that counts calls.
type fakeSource struct {
	name  string
	items []models.NewsItem
	err   error
	calls int
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) FetchNews(_ context.Context, _ string, _ int) ([]models.NewsItem, error) {
	f.calls++
	return f.items, f.err
}

func headlines(n int, source string) []models.NewsItem {
	items := make([]models.NewsItem, n)
	for i := range items {
		items[i] = models.NewsItem{
			Title:  fmt.Sprintf("headline %d", i),
			Link:   fmt.Sprintf("https://example.com/%d", i),
			Source: source,
		}
	}
	return items
}

func TestAggregator_PrimaryWins(t *testing.T) {
	primary := &fakeSource{name: "Yahoo Finance", items: headlines(3, "Reuters")}
	secondary := &fakeSource{name: "Google News", items: headlines(10, "Google News")}
	agg := NewAggregator(primary, secondary, 10, nil, nil)

	res, err := agg.Fetch(context.Background(), "nvda")
	require.NoError(t, err)

	assert.Equal(t, "NVDA", res.Ticker)
	assert.Len(t, res.Items, 3)
	assert.Equal(t, "Yahoo Finance", res.Source)
	assert.False(t, res.Fallback)
	assert.NoError(t, res.PrimaryErr)
	assert.Equal(t, 0, secondary.calls)
}

func TestAggregator_PrimaryEmptyFallsBack(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	primary := &fakeSource{name: "Yahoo Finance"}
	secondary := &fakeSource{name: "Google News", items: headlines(15, "CNBC")}
	agg := NewAggregator(primary, secondary, 10, nil, m)

	res, err := agg.Fetch(context.Background(), "NVDA")
	require.NoError(t, err)

	require.Len(t, res.Items, 10)
	assert.Equal(t, "headline 0", res.Items[0].Title)
	assert.Equal(t, "headline 9", res.Items[9].Title)
	assert.True(t, res.Fallback)
	assert.Equal(t, "Google News", res.Source)
	assert.NoError(t, res.PrimaryErr)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, secondary.calls)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.NewsFallbacks.WithLabelValues(metrics.ReasonPrimaryEmpty)))
}

func TestAggregator_PrimaryErrorFallsBack(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	blocked := errors.New("blocked")
	primary := &fakeSource{name: "Yahoo Finance", err: blocked}
	secondary := &fakeSource{name: "Google News", items: headlines(2, "Google News")}
	agg := NewAggregator(primary, secondary, 10, nil, m)

	res, err := agg.Fetch(context.Background(), "NVDA")
	require.NoError(t, err)

	assert.Len(t, res.Items, 2)
	assert.True(t, res.Fallback)
	assert.ErrorIs(t, res.PrimaryErr, blocked)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.NewsFallbacks.WithLabelValues(metrics.ReasonPrimaryError)))
}

func TestAggregator_BothEmpty(t *testing.T) {
	agg := NewAggregator(&fakeSource{name: "a"}, &fakeSource{name: "b"}, 10, nil, nil)

	res, err := agg.Fetch(context.Background(), "ZZZZ")
	require.NoError(t, err)
	assert.True(t, res.Empty())
	assert.True(t, res.Fallback)
}

func TestAggregator_SecondaryError(t *testing.T) {
	primary := &fakeSource{name: "a", err: errors.New("primary down")}
	secondary := &fakeSource{name: "b", err: errors.New("feed down")}
	agg := NewAggregator(primary, secondary, 10, nil, nil)

	res, err := agg.Fetch(context.Background(), "NVDA")
	require.Error(t, err)
	assert.Nil(t, res)
	assert.Contains(t, err.Error(), "feed down")
}

func TestAggregator_NoSecondary(t *testing.T) {
	agg := NewAggregator(&fakeSource{name: "a"}, nil, 10, nil, nil)
	_, err := agg.Fetch(context.Background(), "NVDA")
	assert.ErrorIs(t, err, ErrNoSources)
}

const googleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>"NVDA stock news" - Google News</title>
%s
</channel></rss>`

func rssItems(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		src := ""
		if i%2 == 0 {
			src = fmt.Sprintf(`<source url="https://pub%d.example.com">Publisher %d</source>`, i, i)
		}
		fmt.Fprintf(&b, `<item><title>Story %d</title><link>https://news.example.com/%d</link>%s</item>`, i, i, src)
	}
	return b.String()
}

func TestGoogleNews_FetchNews(t *testing.T) {
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprintf(w, googleFeed, rssItems(14))
	}))
	t.Cleanup(srv.Close)

	g := NewGoogleNews(srv.URL+"/rss/search", infra.NewClient("google_news"))
	items, err := g.FetchNews(context.Background(), "nvda", 10)
	require.NoError(t, err)
	require.Len(t, items, 10)

	assert.Equal(t, "Story 0", items[0].Title)
	assert.Equal(t, "https://news.example.com/0", items[0].Link)
	assert.Equal(t, "Publisher 0", items[0].Source)
	assert.Equal(t, GoogleNewsSource, items[1].Source)

	assert.Equal(t, []string{"NVDA stock news"}, gotQuery["q"])
	assert.Equal(t, []string{"en-US"}, gotQuery["hl"])
	assert.Equal(t, []string{"US"}, gotQuery["gl"])
	assert.Equal(t, []string{"US:en"}, gotQuery["ceid"])
}

func TestGoogleNews_EmptyFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, googleFeed, "")
	}))
	t.Cleanup(srv.Close)

	items, err := NewGoogleNews(srv.URL, nil).FetchNews(context.Background(), "ZZZZ", 10)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestGoogleNews_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "broken") {
			fmt.Fprint(w, "this is not xml <<<")
			return
		}
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	_, err := NewGoogleNews(srv.URL+"/down", nil).FetchNews(context.Background(), "NVDA", 10)
	var httpErr *infra.ErrHTTP
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusServiceUnavailable, httpErr.StatusCode)

	_, err = NewGoogleNews(srv.URL+"/broken", nil).FetchNews(context.Background(), "NVDA", 10)
	assert.Error(t, err)
}

func TestCleanHTML(t *testing.T) {
	assert.Equal(t, "Bold move", cleanHTML("<b>Bold</b> move"))
	assert.Equal(t, "", cleanHTML(""))
}
