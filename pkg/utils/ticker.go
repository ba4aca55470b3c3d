package utils

import (
	"strings"
)

// NormalizeTicker converts user input into a ticker symbol: surrounding
// whitespace and a leading "$" (common in chat and social posts) are
// dropped and the result is uppercased. No further validation is done.
func NormalizeTicker(ticker string) string {
	ticker = strings.TrimSpace(strings.ToUpper(ticker))
	ticker = strings.TrimPrefix(ticker, "$")
	return ticker
}

// TruncateRunes returns s cut to at most limit characters. It counts runes,
// not bytes, so multi-byte text is never split mid-character.
func TruncateRunes(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if len(s) <= limit {
		return s
	}
	n := 0
	for i := range s {
		if n == limit {
			return s[:i]
		}
		n++
	}
	return s
}
