// Package crossrefxml provides a format plugin for Crossref deposit XML.
//
// The reader accepts a deposit (doi_batch) and the unixsd query result the
// Crossref API returns for a single DOI. The writer produces one doi_batch
// per call.
package crossrefxml

import (
	"bytes"

	"github.com/lehigh-university-libraries/commonmeta/format"
)

// Version documents the Crossref schema this implementation targets.
const Version = "5.3.1"

// Format implements the Crossref deposit format.
type Format struct{}

// Ensure Format implements the interfaces
var (
	_ format.Format     = (*Format)(nil)
	_ format.Parser     = (*Format)(nil)
	_ format.Serializer = (*Format)(nil)
)

// Name returns the format identifier.
func (f *Format) Name() string {
	return "crossref_xml"
}

// Description returns a human-readable format description.
func (f *Format) Description() string {
	return "Crossref Deposit XML (Schema v" + Version + ")"
}

// Extensions returns file extensions associated with this format.
func (f *Format) Extensions() []string {
	return []string{"xml"}
}

// CanParse returns true if the input looks like Crossref deposit XML.
func (f *Format) CanParse(peek []byte) bool {
	peek = bytes.TrimSpace(peek)
	if len(peek) == 0 {
		return false
	}

	if peek[0] != '<' {
		return false
	}

	patterns := [][]byte{
		[]byte("<doi_batch"),
		[]byte("<crossref_result"),
		[]byte("crossref.org/schema"),
		[]byte("crossref.org/qrschema"),
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
