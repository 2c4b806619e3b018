// Package testutil provides shared test helpers and FakeBackend, an
// in-memory installation server.
package testutil

import (
	"io"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

// ParseHTML parses an HTML document for selector-based assertions.
func ParseHTML(t *testing.T, r io.Reader) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		t.Fatalf("parsing html: %v", err)
	}
	return doc
}
