package models

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewsResultEmpty(t *testing.T) {
	var nilResult *NewsResult
	assert.True(t, nilResult.Empty())
	assert.True(t, (&NewsResult{}).Empty())
	assert.False(t, (&NewsResult{Items: []NewsItem{{Title: "x"}}}).Empty())
}

func TestNewsResultHidesPrimaryErr(t *testing.T) {
	r := NewsResult{
		Ticker:     "NVDA",
		Items:      []NewsItem{{Title: "Chips", Link: "https://example.com/a", Source: "Reuters"}},
		Source:     "Google News",
		Fallback:   true,
		PrimaryErr: errors.New("yahoo blocked"),
	}
	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "yahoo blocked")
	assert.Contains(t, string(data), `"fallback":true`)
}

func TestFilingRecordJSONFields(t *testing.T) {
	data, err := json.Marshal(FilingRecord{
		Form:            "10-K",
		Date:            "2024-02-21",
		PrimaryDocument: "nvda-20240128.htm",
		AccessionNumber: "0001045810-24-000029",
	})
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "10-K", raw["form"])
	assert.Equal(t, "2024-02-21", raw["filing_date"])
	assert.Equal(t, "0001045810-24-000029", raw["accession_number"])
}
