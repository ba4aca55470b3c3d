package yfinance

// yfSearchResponse wraps the v1 finance/search response. Only the news
// section is consumed.
type yfSearchResponse struct {
	Count int            `json:"count"`
	News  []yfSearchNews `json:"news"`
}

type yfSearchNews struct {
	UUID                string `json:"uuid"`
	Title               string `json:"title"`
	Publisher           string `json:"publisher"`
	Link                string `json:"link"`
	ProviderPublishTime int64  `json:"providerPublishTime"`
}
