package sec

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const archivePath = "/Archives/edgar/data/1045810/000104581025000001/doc1.htm"

func TestExtract_StripsScriptAndStyle(t *testing.T) {
	stub := &edgarStub{documents: map[string]string{
		archivePath: `<html><head><title>Q3</title>
<style>body { color: red; }</style>
<script>var secret = "do not include";</script></head>
<body><p>Revenue grew
strongly.</p><!-- hidden --><div>Outlook<br>remains positive.</div></body></html>`,
	}}
	p, _ := newTestProvider(t, stub)
	url := p.documentURL("0001045810", "0001045810-25-000001", "doc1.htm")

	text, err := p.Extractor().Extract(context.Background(), url)
	require.NoError(t, err)

	assert.NotContains(t, text, "color: red")
	assert.NotContains(t, text, "do not include")
	assert.NotContains(t, text, "hidden")
	assert.NotContains(t, text, "\n")
	assert.Contains(t, text, "Revenue grew strongly.")
	assert.Contains(t, text, "Outlook remains positive.")
}

func TestExtract_TruncatesToLimit(t *testing.T) {
	big := "<html><body>" + strings.Repeat("<p>Ω segment revenue</p>\n", 5000) + "</body></html>"
	stub := &edgarStub{documents: map[string]string{archivePath: big}}
	p, _ := newTestProvider(t, stub)
	url := p.documentURL("1045810", "0001045810-25-000001", "doc1.htm")

	text, err := p.Extractor().Extract(context.Background(), url)
	require.NoError(t, err)
	assert.Equal(t, DefaultTextLimit, utf8.RuneCountInString(text))
}

func TestText_FailureSentinel(t *testing.T) {
	p, _ := newTestProvider(t, &edgarStub{})
	ctx := context.Background()

	// Missing document on a reachable host.
	missing := p.documentURL("1045810", "0001045810-25-000009", "none.htm")
	assert.Equal(t, ExtractionFailed, p.Extractor().Text(ctx, missing))

	// Host that does not resolve.
	assert.Equal(t, "Extraction failed.", p.Extractor().Text(ctx, "http://invalid.invalid/doc.htm"))
}

func TestText_Success(t *testing.T) {
	stub := &edgarStub{documents: map[string]string{archivePath: "<p>Hello</p>"}}
	p, _ := newTestProvider(t, stub)
	url := p.documentURL("1045810", "0001045810-25-000001", "doc1.htm")

	assert.Equal(t, "Hello", p.Extractor().Text(context.Background(), url))
}

func TestCollapseLines(t *testing.T) {
	assert.Equal(t, "a b c", collapseLines("a\n\n  b \r\nc\r"))
	assert.Equal(t, "", collapseLines("\n\n"))
}
