package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/seenimoa/tickerintel/internal/dashboard"
	"github.com/seenimoa/tickerintel/internal/llm"
	"github.com/seenimoa/tickerintel/internal/providers/sec"
	"github.com/seenimoa/tickerintel/pkg/models"
)

// ════════════════════════════════════════════════════════════════════
// Request / Response types
// ════════════════════════════════════════════════════════════════════

// APIResponse is the standard JSON envelope.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// AnalyzeRequest is the body for POST /api/v1/analyze. The key may instead
// be sent as "Authorization: Bearer <key>".
type AnalyzeRequest struct {
	Ticker          string `json:"ticker"`
	AccessionNumber string `json:"accession_number"`
	APIKey          string `json:"api_key,omitempty"`
}

// DashboardResponse carries both panels; each reports its own error.
type DashboardResponse struct {
	Ticker       string                `json:"ticker"`
	CIK          string                `json:"cik,omitempty"`
	News         *NewsResponse         `json:"news,omitempty"`
	NewsError    string                `json:"news_error,omitempty"`
	Filings      []models.FilingRecord `json:"filings"`
	NotFound     bool                  `json:"not_found"`
	FilingsError string                `json:"filings_error,omitempty"`
}

// NewsResponse is a news lookup result with the primary failure, if any,
// spelled out.
type NewsResponse struct {
	*models.NewsResult
	PrimaryError string `json:"primary_error,omitempty"`
}

func newNewsResponse(r *models.NewsResult) *NewsResponse {
	if r == nil {
		return nil
	}
	resp := &NewsResponse{NewsResult: r}
	if r.PrimaryErr != nil {
		resp.PrimaryError = r.PrimaryErr.Error()
	}
	if resp.Items == nil {
		resp.Items = []models.NewsItem{}
	}
	return resp
}

// ════════════════════════════════════════════════════════════════════
// Handlers
// ════════════════════════════════════════════════════════════════════

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"status":  "ok",
			"version": Version,
			"ticker_index": map[string]interface{}{
				"loaded": s.index.Loaded(),
				"size":   s.index.Len(),
			},
			"llm": map[string]string{
				"backend": s.backend.Name(),
				"model":   s.backend.Model(),
			},
		},
	})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	view, err := s.svc.Build(r.Context(), chi.URLParam(r, "ticker"))
	if err != nil {
		s.writeError(w, statusFor(err), err.Error())
		return
	}

	filings := view.Filings
	if filings == nil {
		filings = []models.FilingRecord{}
	}
	s.writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: DashboardResponse{
			Ticker:       view.Ticker,
			CIK:          view.CIK,
			News:         newNewsResponse(view.News),
			NewsError:    view.NewsError(),
			Filings:      filings,
			NotFound:     view.NotFound,
			FilingsError: view.FilingsError(),
		},
	})
}

func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	news, err := s.svc.News(r.Context(), chi.URLParam(r, "ticker"))
	if err != nil {
		s.writeError(w, statusFor(err), err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: newNewsResponse(news)})
}

func (s *Server) handleFilings(w http.ResponseWriter, r *http.Request) {
	filings, err := s.svc.Filings(r.Context(), chi.URLParam(r, "ticker"))
	if err != nil {
		s.writeError(w, statusFor(err), err.Error())
		return
	}
	if filings == nil {
		filings = []models.FilingRecord{}
	}
	s.writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: filings})
}

// maxAnalyzeBody caps the JSON body accepted by the analyze endpoint.
const maxAnalyzeBody = 64 << 10

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxAnalyzeBody)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Ticker == "" || req.AccessionNumber == "" {
		s.writeError(w, http.StatusBadRequest, "ticker and accession_number are required")
		return
	}

	apiKey := req.APIKey
	if apiKey == "" {
		apiKey = bearerToken(r)
	}

	result, err := s.svc.Analyze(r.Context(), req.Ticker, req.AccessionNumber, apiKey)
	if err != nil {
		msg := err.Error()
		if errors.Is(err, llm.ErrNoAPIKey) {
			msg = s.missingKeyMessage()
		}
		s.writeError(w, statusFor(err), msg)
		return
	}
	s.writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: result})
}

// ════════════════════════════════════════════════════════════════════
// Helpers
// ════════════════════════════════════════════════════════════════════

// statusFor maps service errors to HTTP status codes. Anything unknown is
// an upstream failure.
func statusFor(err error) int {
	switch {
	case errors.Is(err, dashboard.ErrEmptyTicker), errors.Is(err, llm.ErrNoAPIKey):
		return http.StatusBadRequest
	case errors.Is(err, sec.ErrTickerNotFound), errors.Is(err, dashboard.ErrFilingNotFound):
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(h, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

// keyLabel names the credential the configured backend expects.
func (s *Server) keyLabel() string {
	if s.backend.Name() == llm.ProviderGemini {
		return "Gemini API Key"
	}
	return "OpenAI API Key"
}

func (s *Server) missingKeyMessage() string {
	return "Please enter your " + s.keyLabel() + " in the sidebar."
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error().Err(err).Msg("failed to write JSON response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, APIResponse{
		Success: false,
		Error:   msg,
	})
}
