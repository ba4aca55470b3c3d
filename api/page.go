package api

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/seenimoa/tickerintel/internal/dashboard"
	"github.com/seenimoa/tickerintel/internal/llm"
	"github.com/seenimoa/tickerintel/pkg/utils"
)

// pageData is the model rendered by the "index" template.
type pageData struct {
	KeyLabel string
	APIKey   string // echoed into the password field only
	Ticker   string
	Error    string
	View     *dashboard.View
	Analysis analysisPanel
}

// analysisPanel is shown under the filing row whose accession matches.
// Detached panels have no such row and render above both columns.
type analysisPanel struct {
	Accession string
	Summary   string
	Error     string
	Detached  bool
}

// handlePage renders the dashboard. GET shows the default or ?ticker=
// symbol; POST carries the sidebar form and, when an "Analyze Impact"
// button was pressed, the accession number to analyze.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	data := pageData{KeyLabel: s.keyLabel()}

	var analyze string
	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}
		data.Ticker = utils.NormalizeTicker(r.PostFormValue("ticker"))
		data.APIKey = r.PostFormValue("api_key")
		analyze = r.PostFormValue("analyze")
	} else {
		data.Ticker = utils.NormalizeTicker(r.URL.Query().Get("ticker"))
		if data.Ticker == "" {
			data.Ticker = utils.NormalizeTicker(s.cfg.Server.DefaultTicker)
		}
	}

	if data.Ticker != "" {
		ctx := r.Context()
		if analyze != "" {
			data.Analysis = s.runAnalysis(r, data.Ticker, analyze, data.APIKey)
		}
		view, err := s.svc.Build(ctx, data.Ticker)
		if err != nil {
			data.Error = err.Error()
		}
		data.View = view
		if analyze != "" && !hasFiling(view, analyze) {
			data.Analysis.Detached = true
		}
	}

	var buf bytes.Buffer
	if err := s.pages.ExecuteTemplate(&buf, "index", data); err != nil {
		s.logger.Error().Err(err).Msg("render page")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = buf.WriteTo(w)
}

func (s *Server) runAnalysis(r *http.Request, ticker, accession, apiKey string) analysisPanel {
	panel := analysisPanel{Accession: accession}
	result, err := s.svc.Analyze(r.Context(), ticker, accession, apiKey)
	switch {
	case errors.Is(err, llm.ErrNoAPIKey):
		panel.Error = s.missingKeyMessage()
	case err != nil:
		s.logger.Error().Err(err).Str("ticker", ticker).Str("accession", accession).Msg("analysis failed")
		panel.Error = err.Error()
	default:
		panel.Summary = result.Summary
	}
	return panel
}

func hasFiling(view *dashboard.View, accession string) bool {
	if view == nil {
		return false
	}
	for _, f := range view.Filings {
		if f.AccessionNumber == accession {
			return true
		}
	}
	return false
}
