package sec

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/seenimoa/tickerintel/internal/infra"
	"github.com/seenimoa/tickerintel/internal/logging"
	"github.com/seenimoa/tickerintel/pkg/utils"
)

// ExtractionFailed is returned by Extractor.Text in place of document text
// when the document could not be fetched or parsed.
const ExtractionFailed = "Extraction failed."

// DefaultTextLimit bounds extracted text, in characters.
const DefaultTextLimit = 12000

// Extractor reduces a filing document to bounded plain text.
type Extractor struct {
	client *infra.Client
	limit  int
	logger *logging.Logger
}

// NewExtractor creates an extractor that truncates to limit characters.
func NewExtractor(client *infra.Client, limit int, logger *logging.Logger) *Extractor {
	if limit <= 0 {
		limit = DefaultTextLimit
	}
	if logger == nil {
		logger = logging.NewSilent()
	}
	return &Extractor{client: client, limit: limit, logger: logger}
}

// Extract fetches url and returns its visible text with script and style
// content removed and line breaks collapsed to single spaces.
func (e *Extractor) Extract(ctx context.Context, url string) (string, error) {
	data, err := e.client.GetBytes(ctx, url, map[string]string{
		"Accept": "text/html, application/xhtml+xml, */*",
	})
	if err != nil {
		return "", fmt.Errorf("sec: fetch document: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("sec: parse document: %w", err)
	}
	return utils.TruncateRunes(documentText(doc), e.limit), nil
}

// Text is Extract with failures replaced by ExtractionFailed.
func (e *Extractor) Text(ctx context.Context, url string) string {
	text, err := e.Extract(ctx, url)
	if err != nil {
		e.logger.Warn().Err(err).Str("url", url).Msg("filing extraction failed")
		return ExtractionFailed
	}
	return text
}

// documentText strips script/style elements, joins the remaining text nodes
// with spaces and collapses the result onto a single line.
func documentText(doc *goquery.Document) string {
	doc.Find("script, style").Remove()

	var parts []string
	for _, n := range doc.Nodes {
		collectText(n, &parts)
	}
	return collapseLines(strings.Join(parts, " "))
}

func collectText(n *html.Node, parts *[]string) {
	switch n.Type {
	case html.TextNode:
		*parts = append(*parts, n.Data)
		return
	case html.CommentNode, html.DoctypeNode:
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, parts)
	}
}

// collapseLines joins the non-blank lines of s with single spaces.
func collapseLines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	var b strings.Builder
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(line)
	}
	return b.String()
}
