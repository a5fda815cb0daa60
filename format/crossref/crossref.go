// Package crossref provides a format plugin for Crossref REST API works.
package crossref

import (
	"bytes"

	"github.com/lehigh-university-libraries/commonmeta/format"
)

// Format implements the Crossref JSON format.
type Format struct{}

// Ensure Format implements the interfaces
var (
	_ format.Format = (*Format)(nil)
	_ format.Parser = (*Format)(nil)
)

// Name returns the format identifier.
func (f *Format) Name() string {
	return "crossref"
}

// Description returns a human-readable format description.
func (f *Format) Description() string {
	return "Crossref REST API work (JSON)"
}

// Extensions returns file extensions associated with this format.
func (f *Format) Extensions() []string {
	return []string{"json"}
}

// CanParse returns true if the input looks like a Crossref work, either
// inside the API's message envelope or bare.
func (f *Format) CanParse(peek []byte) bool {
	peek = bytes.TrimSpace(peek)
	if len(peek) == 0 || peek[0] != '{' {
		return false
	}

	patterns := [][]byte{
		[]byte(`"message-type"`),
		[]byte(`"reference-count"`),
		[]byte(`"deposited"`),
		[]byte(`"is-referenced-by-count"`),
	}

	for _, pattern := range patterns {
		if bytes.Contains(peek, pattern) {
			return true
		}
	}

	return false
}

func init() {
	format.Register(&Format{})
}
