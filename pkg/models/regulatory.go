package models

// --- SEC Filings ---

// FilingRecord is one row of a filer's recent submissions list.
// Records keep the order EDGAR returns them in (most recent first).
type FilingRecord struct {
	Form            string `json:"form"`              // "10-K", "10-Q", "8-K", "4", etc.
	Date            string `json:"filing_date"`       // YYYY-MM-DD, as published
	PrimaryDocument string `json:"primary_document"`
	AccessionNumber string `json:"accession_number"` // dashed form, e.g. 0001045810-24-000029
	URL             string `json:"url"`
}

// CIKMapping represents a mapping from ticker to a zero-padded CIK.
type CIKMapping struct {
	CIK    string `json:"cik"`
	Symbol string `json:"symbol"`
	Name   string `json:"name,omitempty"`
}
