// Package schemaorg provides a format plugin for schema.org JSON-LD. The
// reader also accepts an HTML landing page and scrapes its embedded JSON-LD
// and citation meta tags.
package schemaorg

import (
	"bytes"

	"github.com/lehigh-university-libraries/commonmeta/format"
)

// Version is the schema.org version this implementation targets.
const Version = "29.4"

// Format implements the schema.org JSON-LD format.
type Format struct{}

// Ensure Format implements the interfaces
var (
	_ format.Format     = (*Format)(nil)
	_ format.Parser     = (*Format)(nil)
	_ format.Serializer = (*Format)(nil)
)

// Name returns the format identifier.
func (f *Format) Name() string {
	return "schemaorg"
}

// Description returns a human-readable format description.
func (f *Format) Description() string {
	return "schema.org JSON-LD (v" + Version + ") or HTML landing page"
}

// Extensions returns file extensions associated with this format.
func (f *Format) Extensions() []string {
	return []string{"jsonld", "html", "htm"}
}

// CanParse returns true if the input looks like schema.org JSON-LD or an
// HTML page.
func (f *Format) CanParse(peek []byte) bool {
	peek = bytes.TrimSpace(peek)
	if len(peek) == 0 {
		return false
	}
	if isHTML(peek) {
		return true
	}

	// Must be JSON
	if peek[0] != '{' && peek[0] != '[' {
		return false
	}

	// Look for schema.org patterns
	schemaOrgPatterns := [][]byte{
		[]byte(`"@context"`),
		[]byte(`"@type"`),
		[]byte(`schema.org`),
		[]byte(`"ScholarlyArticle"`),
		[]byte(`"Dataset"`),
		[]byte(`"Person"`),
		[]byte(`"Organization"`),
	}

	matchCount := 0
	for _, pattern := range schemaOrgPatterns {
		if bytes.Contains(peek, pattern) {
			matchCount++
		}
	}

	// If we have @context or @type plus another match, it's likely schema.org
	hasContext := bytes.Contains(peek, []byte(`"@context"`))
	hasType := bytes.Contains(peek, []byte(`"@type"`))

	return (hasContext || hasType) && matchCount >= 2
}

func isHTML(peek []byte) bool {
	lower := bytes.ToLower(peek[:min(len(peek), 512)])
	return bytes.HasPrefix(lower, []byte("<!doctype html")) || bytes.HasPrefix(lower, []byte("<html"))
}

func init() {
	format.Register(&Format{})
}
