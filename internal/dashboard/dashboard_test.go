package dashboard

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seenimoa/tickerintel/internal/llm"
	"github.com/seenimoa/tickerintel/internal/metrics"
	"github.com/seenimoa/tickerintel/internal/providers/sec"
	"github.com/seenimoa/tickerintel/pkg/models"
)

type fakeResolver map[string]string

func (f fakeResolver) Lookup(_ context.Context, ticker string) (string, error) {
	cik, ok := f[ticker]
	if !ok {
		return "", fmt.Errorf("%w: %s", sec.ErrTickerNotFound, ticker)
	}
	return cik, nil
}

type fakeLister struct {
	filings []models.FilingRecord
	err     error
	calls   int
}

func (f *fakeLister) RecentFilings(_ context.Context, _ string, _ int) ([]models.FilingRecord, error) {
	f.calls++
	return f.filings, f.err
}

type fakeExtractor struct {
	text string
	urls []string
}

func (f *fakeExtractor) Text(_ context.Context, url string) string {
	f.urls = append(f.urls, url)
	return f.text
}

type fakeNews struct {
	result *models.NewsResult
	err    error
}

func (f *fakeNews) Fetch(_ context.Context, ticker string) (*models.NewsResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	r := *f.result
	r.Ticker = ticker
	return &r, nil
}

type fakeSummarizer struct {
	calls int
	last  llm.Request
}

func (f *fakeSummarizer) Summarize(_ context.Context, req llm.Request) (*models.AnalysisResult, error) {
	f.calls++
	f.last = req
	return &models.AnalysisResult{Ticker: req.Ticker, Form: req.Form, AccessionNumber: req.AccessionNumber, Summary: "summary"}, nil
}

func nvdaFilings(n int) []models.FilingRecord {
	out := make([]models.FilingRecord, n)
	for i := range out {
		acc := fmt.Sprintf("0001045810-25-%06d", i)
		out[i] = models.FilingRecord{
			Form:            "10-Q",
			Date:            "2025-01-01",
			PrimaryDocument: "doc.htm",
			AccessionNumber: acc,
			URL:             "https://www.sec.gov/Archives/edgar/data/1045810/" + acc + "/doc.htm",
		}
	}
	return out
}

type fixture struct {
	svc        *Service
	lister     *fakeLister
	extractor  *fakeExtractor
	news       *fakeNews
	summarizer *fakeSummarizer
	metrics    *metrics.Metrics
}

func newFixture() *fixture {
	f := &fixture{
		lister:     &fakeLister{filings: nvdaFilings(10)},
		extractor:  &fakeExtractor{text: "filing body"},
		news:       &fakeNews{result: &models.NewsResult{Items: []models.NewsItem{{Title: "t", Link: "l", Source: "s"}}, Source: "Yahoo Finance"}},
		summarizer: &fakeSummarizer{},
		metrics:    metrics.New(prometheus.NewRegistry()),
	}
	f.svc = New(Deps{
		Resolver:   fakeResolver{"NVDA": "0001045810"},
		Filings:    f.lister,
		Extractor:  f.extractor,
		News:       f.news,
		Summarizer: f.summarizer,
		Metrics:    f.metrics,
	})
	return f
}

func TestBuild(t *testing.T) {
	f := newFixture()

	view, err := f.svc.Build(context.Background(), " nvda")
	require.NoError(t, err)

	assert.Equal(t, "NVDA", view.Ticker)
	assert.Equal(t, "0001045810", view.CIK)
	assert.Len(t, view.Filings, 10)
	assert.False(t, view.NotFound)
	require.NotNil(t, view.News)
	assert.Len(t, view.News.Items, 1)
	assert.Empty(t, view.NewsError())
	assert.Empty(t, view.FilingsError())
}

func TestBuild_UnknownTicker(t *testing.T) {
	f := newFixture()

	view, err := f.svc.Build(context.Background(), "ZZZZ")
	require.NoError(t, err)

	assert.True(t, view.NotFound)
	assert.Empty(t, view.Filings)
	assert.Equal(t, 0, f.lister.calls)
	require.NotNil(t, view.News, "news panel is independent of resolution")
}

func TestBuild_PanelsAreIndependent(t *testing.T) {
	f := newFixture()
	f.news.err = errors.New("feed down")
	f.lister.err = errors.New("edgar down")

	view, err := f.svc.Build(context.Background(), "NVDA")
	require.NoError(t, err)
	assert.Equal(t, "feed down", view.NewsError())
	assert.Equal(t, "edgar down", view.FilingsError())
	assert.False(t, view.NotFound)

	f.lister.err = nil
	view, err = f.svc.Build(context.Background(), "NVDA")
	require.NoError(t, err)
	assert.Error(t, view.NewsErr)
	assert.Len(t, view.Filings, 10)
}

func TestBuild_EmptyTicker(t *testing.T) {
	_, err := newFixture().svc.Build(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrEmptyTicker)
}

func TestAnalyze(t *testing.T) {
	f := newFixture()

	res, err := f.svc.Analyze(context.Background(), "nvda", "0001045810-25-000004", "sk-test")
	require.NoError(t, err)

	assert.Equal(t, "summary", res.Summary)
	assert.Equal(t, 1, f.summarizer.calls)
	assert.Equal(t, llm.Request{
		Ticker:          "NVDA",
		Form:            "10-Q",
		AccessionNumber: "0001045810-25-000004",
		Text:            "filing body",
		APIKey:          "sk-test",
	}, f.summarizer.last)
	assert.Equal(t, []string{"https://www.sec.gov/Archives/edgar/data/1045810/0001045810-25-000004/doc.htm"}, f.extractor.urls)
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.Analyses.WithLabelValues(metrics.OutcomeOK)))
}

func TestAnalyze_NoKeyFetchesNothing(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Analyze(context.Background(), "NVDA", "0001045810-25-000004", "")
	assert.ErrorIs(t, err, llm.ErrNoAPIKey)
	assert.Equal(t, 0, f.lister.calls)
	assert.Empty(t, f.extractor.urls)
	assert.Equal(t, 0, f.summarizer.calls)
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.Analyses.WithLabelValues(metrics.OutcomeError)))
}

func TestAnalyze_ExtractionFailureStillSummarizes(t *testing.T) {
	f := newFixture()
	f.extractor.text = sec.ExtractionFailed

	_, err := f.svc.Analyze(context.Background(), "NVDA", "0001045810-25-000000", "sk")
	require.NoError(t, err)
	assert.Equal(t, "Extraction failed.", f.summarizer.last.Text)
}

func TestAnalyze_NotFound(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Analyze(context.Background(), "NVDA", "does-not-exist", "sk")
	assert.ErrorIs(t, err, ErrFilingNotFound)

	_, err = f.svc.Analyze(context.Background(), "ZZZZ", "0001045810-25-000000", "sk")
	assert.ErrorIs(t, err, sec.ErrTickerNotFound)
	assert.Equal(t, 0, f.summarizer.calls)
}

func TestAnalyze_NotCached(t *testing.T) {
	f := newFixture()
	for i := 0; i < 2; i++ {
		_, err := f.svc.Analyze(context.Background(), "NVDA", "0001045810-25-000001", "sk")
		require.NoError(t, err)
	}
	assert.Equal(t, 2, f.summarizer.calls)
	assert.Equal(t, 2, f.lister.calls)
	assert.Len(t, f.extractor.urls, 2)
}
