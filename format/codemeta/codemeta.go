// Package codemeta reads CodeMeta software metadata (codemeta.json).
//
// CodeMeta is a schema.org profile, so records are handed to the schema.org
// reader and the software specific properties are applied on top.
package codemeta

import (
	"bytes"

	"github.com/lehigh-university-libraries/commonmeta/format"
)

// Format implements the CodeMeta format.
type Format struct{}

var (
	_ format.Format = (*Format)(nil)
	_ format.Parser = (*Format)(nil)
)

// Name returns the format identifier.
func (f *Format) Name() string {
	return "codemeta"
}

// Description returns a human-readable format description.
func (f *Format) Description() string {
	return "CodeMeta software metadata (codemeta.json)"
}

// Extensions returns file extensions associated with this format.
func (f *Format) Extensions() []string {
	return []string{"json"}
}

// CanParse returns true if the input looks like a codemeta.json file.
func (f *Format) CanParse(peek []byte) bool {
	peek = bytes.TrimSpace(peek)
	if len(peek) == 0 || peek[0] != '{' {
		return false
	}

	patterns := [][]byte{
		[]byte("codemeta"),
		[]byte(`"codeRepository"`),
		[]byte(`"SoftwareSourceCode"`),
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
