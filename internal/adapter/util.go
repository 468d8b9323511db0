package adapter

import (
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// blockSelectors are elements whose boundaries should read as whitespace once
// the markup is stripped.
const blockSelectors = "p, div, li, br, tr, h1, h2, h3, h4, h5, h6"

// ExtractText converts an HTML or HTML-encoded description to plain text.
// It first unescapes HTML entities (handles double-encoded payloads; no-op on
// already-real HTML), drops scripts and styles, then collapses whitespace.
func ExtractText(content string) string {
	if strings.TrimSpace(content) == "" {
		return ""
	}
	unescaped := html.UnescapeString(content)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(unescaped))
	if err != nil {
		return strings.Join(strings.Fields(unescaped), " ")
	}
	doc.Find("script, style").Remove()
	doc.Find(blockSelectors).Each(func(_ int, s *goquery.Selection) {
		s.AfterHtml(" ")
	})

	return strings.Join(strings.Fields(doc.Text()), " ")
}
