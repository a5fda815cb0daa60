// Package datacitexml reads DataCite kernel-3 and kernel-4 XML.
//
// Resources are decoded into the attribute shape of the DataCite REST API
// and handed to the datacite reader, so both encodings normalize the same
// way.
package datacitexml

import (
	"bytes"

	"github.com/lehigh-university-libraries/commonmeta/format"
)

// Format implements the DataCite XML format.
type Format struct{}

var (
	_ format.Format = (*Format)(nil)
	_ format.Parser = (*Format)(nil)
)

// Name returns the format identifier.
func (f *Format) Name() string {
	return "datacite_xml"
}

// Description returns a human-readable format description.
func (f *Format) Description() string {
	return "DataCite Metadata Schema (kernel-3 and kernel-4 XML)"
}

// Extensions returns file extensions associated with this format.
func (f *Format) Extensions() []string {
	return []string{"xml"}
}

// CanParse returns true if the input looks like DataCite XML.
func (f *Format) CanParse(peek []byte) bool {
	peek = bytes.TrimSpace(peek)
	if len(peek) == 0 || peek[0] != '<' {
		return false
	}

	patterns := [][]byte{
		[]byte("datacite.org/schema"),
		[]byte("<identifier identifierType"),
		[]byte("<resource xmlns"),
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
