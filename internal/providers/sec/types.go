package sec

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// --- EDGAR Submissions (data.sec.gov/submissions) ---

// edgarSubmissionsResponse is the response from company submissions endpoint.
type edgarSubmissionsResponse struct {
	CIK     string       `json:"cik"`
	Name    string       `json:"name"`
	Tickers []string     `json:"tickers"`
	Filings edgarFilings `json:"filings"`
}

type edgarFilings struct {
	Recent edgarFilingSet `json:"recent"`
}

// edgarFilingSet holds the recent filings as parallel arrays.
type edgarFilingSet struct {
	AccessionNumber []string `json:"accessionNumber"`
	FilingDate      []string `json:"filingDate"`
	Form            []string `json:"form"`
	PrimaryDocument []string `json:"primaryDocument"`
}

// Len returns how many complete records the parallel arrays describe.
// Arrays of unequal length are cut to the shortest.
func (s edgarFilingSet) Len() int {
	n := len(s.AccessionNumber)
	for _, l := range []int{len(s.FilingDate), len(s.Form), len(s.PrimaryDocument)} {
		if l < n {
			n = l
		}
	}
	return n
}

// --- CIK / Ticker Mapping ---

// edgarTickerEntry is a row from company_tickers.json, which is a map:
// {"0": {"cik_str": 320193, "ticker": "AAPL", "title": "Apple Inc."}, ...}
type edgarTickerEntry struct {
	CIK    cikNumber `json:"cik_str"`
	Ticker string    `json:"ticker"`
	Title  string    `json:"title"`
}

// cikNumber accepts the registry CIK as either a JSON number or a string.
type cikNumber string

func (c *cikNumber) UnmarshalJSON(data []byte) error {
	var num json.Number
	if err := json.Unmarshal(data, &num); err == nil {
		if _, err := strconv.ParseUint(num.String(), 10, 64); err != nil {
			return fmt.Errorf("cik_str %s is not an integer", num)
		}
		*c = cikNumber(num.String())
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("cannot unmarshal %s into cik", string(data))
	}
	if _, err := strconv.ParseUint(s, 10, 64); err != nil {
		return fmt.Errorf("cik_str %q is not an integer", s)
	}
	*c = cikNumber(s)
	return nil
}
