package models

// NewsItem is a single headline shown in the news panel.
type NewsItem struct {
	Title  string `json:"title"`
	Link   string `json:"link"`
	Source string `json:"source"`
}

// NewsResult is the outcome of one news lookup. Exactly one upstream
// contributes Items; Source names it.
type NewsResult struct {
	Ticker   string     `json:"ticker"`
	Items    []NewsItem `json:"items"`
	Source   string     `json:"source,omitempty"`
	Fallback bool       `json:"fallback"` // true when the secondary feed was used

	// PrimaryErr is set when the primary source failed rather than
	// returning nothing. It is informational; the fallback still ran.
	PrimaryErr error `json:"-"`
}

// Empty reports whether no source produced any headline.
func (r *NewsResult) Empty() bool {
	return r == nil || len(r.Items) == 0
}
