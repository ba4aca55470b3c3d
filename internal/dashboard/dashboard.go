// Package dashboard composes the ticker resolver, news aggregator, filings
// lister, extractor and summarizer into the two operations the UI and API
// expose: building the ticker view and analyzing one filing.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/seenimoa/tickerintel/internal/llm"
	"github.com/seenimoa/tickerintel/internal/logging"
	"github.com/seenimoa/tickerintel/internal/metrics"
	"github.com/seenimoa/tickerintel/internal/providers/sec"
	"github.com/seenimoa/tickerintel/pkg/models"
	"github.com/seenimoa/tickerintel/pkg/utils"
)

// Errors surfaced to the presentation layer.
var (
	ErrEmptyTicker    = errors.New("dashboard: ticker is required")
	ErrFilingNotFound = errors.New("dashboard: filing not found")
)

// Resolver maps a ticker to its zero-padded CIK.
type Resolver interface {
	Lookup(ctx context.Context, ticker string) (string, error)
}

// FilingLister lists the most recent filings of a filer.
type FilingLister interface {
	RecentFilings(ctx context.Context, cik string, limit int) ([]models.FilingRecord, error)
}

// TextExtractor reduces a filing document to bounded text, never failing.
type TextExtractor interface {
	Text(ctx context.Context, url string) string
}

// NewsFetcher returns headlines for a ticker.
type NewsFetcher interface {
	Fetch(ctx context.Context, ticker string) (*models.NewsResult, error)
}

// Summarizer produces an analysis for one filing.
type Summarizer interface {
	Summarize(ctx context.Context, req llm.Request) (*models.AnalysisResult, error)
}

// Deps bundles the collaborators of a Service.
type Deps struct {
	Resolver   Resolver
	Filings    FilingLister
	Extractor  TextExtractor
	News       NewsFetcher
	Summarizer Summarizer
	Logger     *logging.Logger
	Metrics    *metrics.Metrics

	// FilingLimit caps the filings panel. Zero uses the lister's default.
	FilingLimit int
}

// Service runs the dashboard operations. Every call is independent; the
// only shared state is the resolver's memoized registry.
type Service struct {
	deps   Deps
	logger *logging.Logger
}

// New creates a dashboard service.
func New(deps Deps) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = logging.NewSilent()
	}
	return &Service{deps: deps, logger: logger.Component("dashboard")}
}

// View is the rendered state of both panels for one ticker. The panels are
// independent: an error in one leaves the other intact.
type View struct {
	Ticker string `json:"ticker"`
	CIK    string `json:"cik,omitempty"`

	News    *models.NewsResult `json:"news,omitempty"`
	NewsErr error              `json:"-"`

	Filings    []models.FilingRecord `json:"filings"`
	NotFound   bool                  `json:"not_found"`
	FilingsErr error                 `json:"-"`
}

// NewsError returns the news panel error text, if any.
func (v *View) NewsError() string { return errString(v.NewsErr) }

// FilingsError returns the filings panel error text, if any.
func (v *View) FilingsError() string { return errString(v.FilingsErr) }

// Build fetches news and filings for ticker, one after the other.
func (s *Service) Build(ctx context.Context, ticker string) (*View, error) {
	symbol := utils.NormalizeTicker(ticker)
	if symbol == "" {
		return nil, ErrEmptyTicker
	}
	view := &View{Ticker: symbol}

	view.News, view.NewsErr = s.News(ctx, symbol)
	if view.NewsErr != nil {
		s.logger.Error().Err(view.NewsErr).Str("ticker", symbol).Msg("news panel failed")
	}

	view.CIK, view.Filings, view.FilingsErr = s.filings(ctx, symbol)
	switch {
	case errors.Is(view.FilingsErr, sec.ErrTickerNotFound):
		view.NotFound = true
	case view.FilingsErr != nil:
		s.logger.Error().Err(view.FilingsErr).Str("ticker", symbol).Msg("filings panel failed")
	}
	return view, nil
}

// News returns the news panel for ticker.
func (s *Service) News(ctx context.Context, ticker string) (*models.NewsResult, error) {
	symbol := utils.NormalizeTicker(ticker)
	if symbol == "" {
		return nil, ErrEmptyTicker
	}
	return s.deps.News.Fetch(ctx, symbol)
}

// Filings returns the filings panel for ticker. An unknown ticker yields
// sec.ErrTickerNotFound.
func (s *Service) Filings(ctx context.Context, ticker string) ([]models.FilingRecord, error) {
	symbol := utils.NormalizeTicker(ticker)
	if symbol == "" {
		return nil, ErrEmptyTicker
	}
	_, filings, err := s.filings(ctx, symbol)
	return filings, err
}

func (s *Service) filings(ctx context.Context, symbol string) (string, []models.FilingRecord, error) {
	cik, err := s.deps.Resolver.Lookup(ctx, symbol)
	if err != nil {
		return "", nil, err
	}
	filings, err := s.deps.Filings.RecentFilings(ctx, cik, s.deps.FilingLimit)
	if err != nil {
		return cik, nil, err
	}
	return cik, filings, nil
}

// Analyze extracts and summarizes the filing with the given accession
// number. A blank apiKey returns llm.ErrNoAPIKey before anything is
// fetched. Results are not cached; each call redoes the whole pipeline.
func (s *Service) Analyze(ctx context.Context, ticker, accession, apiKey string) (*models.AnalysisResult, error) {
	result, err := s.analyze(ctx, ticker, accession, apiKey)
	if err != nil {
		s.deps.Metrics.IncrementAnalyses(metrics.OutcomeError)
		return nil, err
	}
	s.deps.Metrics.IncrementAnalyses(metrics.OutcomeOK)
	return result, nil
}

func (s *Service) analyze(ctx context.Context, ticker, accession, apiKey string) (*models.AnalysisResult, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, llm.ErrNoAPIKey
	}
	symbol := utils.NormalizeTicker(ticker)
	if symbol == "" {
		return nil, ErrEmptyTicker
	}

	filing, err := s.findFiling(ctx, symbol, strings.TrimSpace(accession))
	if err != nil {
		return nil, err
	}

	text := s.deps.Extractor.Text(ctx, filing.URL)
	if text == sec.ExtractionFailed {
		s.logger.Warn().Str("ticker", symbol).Str("accession", filing.AccessionNumber).Msg("summarizing without filing text")
	}

	return s.deps.Summarizer.Summarize(ctx, llm.Request{
		Ticker:          symbol,
		Form:            filing.Form,
		AccessionNumber: filing.AccessionNumber,
		Text:            text,
		APIKey:          apiKey,
	})
}

func (s *Service) findFiling(ctx context.Context, symbol, accession string) (models.FilingRecord, error) {
	_, filings, err := s.filings(ctx, symbol)
	if err != nil {
		return models.FilingRecord{}, err
	}
	for _, f := range filings {
		if f.AccessionNumber == accession {
			return f, nil
		}
	}
	return models.FilingRecord{}, fmt.Errorf("%w: %s %s", ErrFilingNotFound, symbol, accession)
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
