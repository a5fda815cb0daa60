// Package cff reads Citation File Format (CITATION.cff) files.
package cff

import (
	"bytes"

	"github.com/lehigh-university-libraries/commonmeta/format"
)

// Format implements the Citation File Format.
type Format struct{}

var (
	_ format.Format = (*Format)(nil)
	_ format.Parser = (*Format)(nil)
)

// Name returns the format identifier.
func (f *Format) Name() string {
	return "cff"
}

// Description returns a human-readable format description.
func (f *Format) Description() string {
	return "Citation File Format (CITATION.cff)"
}

// Extensions returns file extensions associated with this format.
func (f *Format) Extensions() []string {
	return []string{"cff", "yaml", "yml"}
}

// CanParse returns true if the input looks like a CITATION.cff file.
func (f *Format) CanParse(peek []byte) bool {
	return bytes.Contains(peek, []byte("cff-version"))
}

func init() {
	format.Register(&Format{})
}
