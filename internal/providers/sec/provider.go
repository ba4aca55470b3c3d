// Package sec implements the SEC EDGAR data provider: the ticker→CIK
// registry, per-filer submission lists and filing document text.
//
// No API key required. Must include a User-Agent header per SEC policy.
// Docs: https://www.sec.gov/edgar/sec-api-documentation
// Rate limit: 10 requests/second per user-agent.
package sec

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/seenimoa/tickerintel/internal/config"
	"github.com/seenimoa/tickerintel/internal/infra"
	"github.com/seenimoa/tickerintel/internal/logging"
	"github.com/seenimoa/tickerintel/internal/metrics"
)

const providerName = "sec"

// Metric source labels.
const (
	sourceTickers     = "sec_tickers"
	sourceSubmissions = "sec_submissions"
	sourceDocuments   = "sec_documents"
)

// ErrTickerNotFound is returned when a ticker is absent from the registry.
var ErrTickerNotFound = errors.New("ticker not found")

// Provider groups the EDGAR endpoints behind one configured set of clients.
type Provider struct {
	cfg       config.SECConfig
	logger    *logging.Logger
	json      *infra.Client
	documents *infra.Client

	tickers   *TickerIndex
	extractor *Extractor
}

// New creates a SEC provider from configuration. m may be nil.
func New(cfg config.SECConfig, httpCfg config.HTTPConfig, logger *logging.Logger, m *metrics.Metrics) *Provider {
	if logger == nil {
		logger = logging.NewSilent()
	}
	logger = logger.Component(providerName)

	common := []infra.Option{
		infra.WithUserAgent(cfg.UserAgent),
		infra.WithTimeout(httpCfg.ClientTimeout()),
		infra.WithRateLimit(cfg.RateLimit),
		infra.WithMetrics(m),
	}

	p := &Provider{
		cfg:       cfg,
		logger:    logger,
		json:      infra.NewClient(sourceSubmissions, common...),
		documents: infra.NewClient(sourceDocuments, common...),
	}
	p.tickers = NewTickerIndex(
		infra.NewClient(sourceTickers, common...),
		cfg.TickersURL,
		logger,
		m,
	)
	p.extractor = NewExtractor(p.documents, cfg.TextLimit, logger)
	return p
}

// Tickers returns the process-wide ticker→CIK index.
func (p *Provider) Tickers() *TickerIndex { return p.tickers }

// Extractor returns the filing-text extractor.
func (p *Provider) Extractor() *Extractor { return p.extractor }

// Ping checks connectivity to SEC EDGAR.
func (p *Provider) Ping(ctx context.Context) error {
	u := fmt.Sprintf("%s/CIK0000320193.json", strings.TrimRight(p.cfg.SubmissionsURL, "/")) // Apple
	body, _, err := p.json.DoGet(ctx, u, secHeaders())
	if err != nil {
		return fmt.Errorf("sec ping: %w", err)
	}
	body.Close()
	return nil
}

// --- Shared helpers ---

func secHeaders() map[string]string {
	return map[string]string{
		"Accept": "application/json",
	}
}

// padCIK pads a CIK number to 10 digits with leading zeros.
func padCIK(cik string) string {
	for len(cik) < 10 {
		cik = "0" + cik
	}
	return cik
}

// unpadCIK strips leading zeros, as used in Archives paths.
func unpadCIK(cik string) string {
	trimmed := strings.TrimLeft(cik, "0")
	if trimmed == "" {
		return "0"
	}
	return trimmed
}
