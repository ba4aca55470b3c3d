package models

import "time"

// AnalysisResult is the model's summary of one filing. It is produced on
// demand and never stored.
type AnalysisResult struct {
	Ticker          string    `json:"ticker"`
	Form            string    `json:"form"`
	AccessionNumber string    `json:"accession_number"`
	Summary         string    `json:"summary"`
	Backend         string    `json:"backend"`
	Model           string    `json:"model"`
	GeneratedAt     time.Time `json:"generated_at"`
}
