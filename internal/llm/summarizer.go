package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/seenimoa/tickerintel/internal/logging"
	"github.com/seenimoa/tickerintel/pkg/models"
)

// promptTemplate is filled with form type then ticker.
const promptTemplate = "As a hedge fund analyst, summarize the business impact of this %s filing for %s in 3 bullet points. Focus on strategy and future outlook."

// Request is one summarization job.
type Request struct {
	Ticker          string
	Form            string
	AccessionNumber string
	Text            string
	APIKey          string
}

// BuildPrompt returns the single user message sent to the model.
func BuildPrompt(ticker, form, text string) string {
	return fmt.Sprintf(promptTemplate, form, ticker) + "\n\nContent: " + text
}

// Summarizer turns filing text into an analyst summary.
type Summarizer struct {
	backend Backend
	logger  *logging.Logger
	now     func() time.Time
}

// NewSummarizer creates a summarizer over backend. logger may be nil.
func NewSummarizer(backend Backend, logger *logging.Logger) *Summarizer {
	if logger == nil {
		logger = logging.NewSilent()
	}
	return &Summarizer{
		backend: backend,
		logger:  logger.Component("llm"),
		now:     time.Now,
	}
}

// Backend returns the configured backend.
func (s *Summarizer) Backend() Backend { return s.backend }

// Summarize asks the model for a three-bullet impact summary of one filing.
// It returns ErrNoAPIKey without contacting the model when req.APIKey is
// blank.
func (s *Summarizer) Summarize(ctx context.Context, req Request) (*models.AnalysisResult, error) {
	if strings.TrimSpace(req.APIKey) == "" {
		return nil, ErrNoAPIKey
	}

	start := s.now()
	summary, err := s.backend.Complete(ctx, req.APIKey, BuildPrompt(req.Ticker, req.Form, req.Text))
	if err != nil {
		return nil, fmt.Errorf("summarize %s %s: %w", req.Ticker, req.Form, err)
	}

	s.logger.Info().
		Str("ticker", req.Ticker).
		Str("form", req.Form).
		Str("backend", s.backend.Name()).
		Str("model", s.backend.Model()).
		Dur("latency", s.now().Sub(start)).
		Msg("filing summarized")

	return &models.AnalysisResult{
		Ticker:          req.Ticker,
		Form:            req.Form,
		AccessionNumber: req.AccessionNumber,
		Summary:         summary,
		Backend:         s.backend.Name(),
		Model:           s.backend.Model(),
		GeneratedAt:     start,
	}, nil
}
