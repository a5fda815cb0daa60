// Package datacite provides a format plugin for DataCite metadata in the
// JSON shape of the DataCite REST API.
package datacite

import (
	"bytes"

	"github.com/lehigh-university-libraries/commonmeta/format"
)

// Version documents the DataCite specification this implementation targets.
const Version = "4.5"

// Format implements the DataCite format.
type Format struct{}

// Ensure Format implements the interfaces
var (
	_ format.Format     = (*Format)(nil)
	_ format.Parser     = (*Format)(nil)
	_ format.Serializer = (*Format)(nil)
)

// Name returns the format identifier.
func (f *Format) Name() string {
	return "datacite"
}

// Description returns a human-readable format description.
func (f *Format) Description() string {
	return "DataCite Metadata Schema (v" + Version + ", REST API JSON)"
}

// Extensions returns file extensions associated with this format.
func (f *Format) Extensions() []string {
	return []string{"json"}
}

// CanParse returns true if the input looks like DataCite JSON.
func (f *Format) CanParse(peek []byte) bool {
	peek = bytes.TrimSpace(peek)
	if len(peek) == 0 {
		return false
	}

	if peek[0] != '{' {
		return false
	}

	patterns := [][]byte{
		[]byte(`"resourceTypeGeneral"`),
		[]byte(`"publicationYear"`),
		[]byte(`"nameIdentifiers"`),
		[]byte(`"relatedIdentifiers"`),
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
