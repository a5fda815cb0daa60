// Package jsonfeed reads blog posts from JSON Feed documents and from
// Rogue Scholar style post records.
package jsonfeed

import (
	"bytes"

	"github.com/lehigh-university-libraries/commonmeta/format"
)

// Format implements the JSON Feed format.
type Format struct{}

var (
	_ format.Format = (*Format)(nil)
	_ format.Parser = (*Format)(nil)
)

// Name returns the format identifier.
func (f *Format) Name() string {
	return "jsonfeed"
}

// Description returns a human-readable format description.
func (f *Format) Description() string {
	return "JSON Feed blog posts"
}

// Extensions returns file extensions associated with this format.
func (f *Format) Extensions() []string {
	return []string{"json"}
}

// CanParse returns true for a JSON Feed or a post record with blog
// metadata.
func (f *Format) CanParse(peek []byte) bool {
	peek = bytes.TrimSpace(peek)
	if len(peek) == 0 || peek[0] != '{' {
		return false
	}
	if bytes.Contains(peek, []byte("jsonfeed.org/version/")) {
		return true
	}
	patterns := [][]byte{
		[]byte(`"published_at"`),
		[]byte(`"blog"`),
		[]byte(`"blog_name"`),
		[]byte(`"content_html"`),
	}
	matchCount := 0
	for _, pattern := range patterns {
		if bytes.Contains(peek, pattern) {
			matchCount++
		}
	}
	return matchCount >= 2
}

func init() {
	format.Register(&Format{})
}
