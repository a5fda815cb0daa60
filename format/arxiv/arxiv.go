// Package arxiv provides a format plugin for arXiv metadata, read from the
// arXiv API Atom feed or the OAI-PMH arXiv metadata format.
package arxiv

import (
	"bytes"

	"github.com/lehigh-university-libraries/commonmeta/format"
)

// DOIPrefix is the prefix of the DOIs arXiv registers with DataCite.
const DOIPrefix = "10.48550"

// Format implements the arXiv metadata format.
type Format struct{}

// Ensure Format implements the interfaces
var (
	_ format.Format = (*Format)(nil)
	_ format.Parser = (*Format)(nil)
)

// Name returns the format identifier.
func (f *Format) Name() string {
	return "arxiv"
}

// Description returns a human-readable format description.
func (f *Format) Description() string {
	return "arXiv API Atom feed or OAI-PMH arXiv metadata"
}

// Extensions returns file extensions associated with this format.
func (f *Format) Extensions() []string {
	return []string{"atom"}
}

// CanParse returns true if the input looks like arXiv XML.
func (f *Format) CanParse(peek []byte) bool {
	peek = bytes.TrimSpace(peek)
	if len(peek) == 0 || peek[0] != '<' {
		return false
	}

	patterns := [][]byte{
		[]byte(`http://arxiv.org/OAI/arXiv/`),   // OAI-PMH namespace
		[]byte(`http://arxiv.org/schemas/atom`), // Atom API namespace
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
