// Package inveniordm provides a format plugin for InvenioRDM records as
// served by Zenodo and other InvenioRDM repositories.
package inveniordm

import (
	"bytes"

	"github.com/lehigh-university-libraries/commonmeta/format"
)

// Format implements the InvenioRDM record format.
type Format struct{}

var (
	_ format.Format     = (*Format)(nil)
	_ format.Parser     = (*Format)(nil)
	_ format.Serializer = (*Format)(nil)
)

// Name returns the format identifier.
func (f *Format) Name() string {
	return "inveniordm"
}

// Description returns a human-readable format description.
func (f *Format) Description() string {
	return "InvenioRDM record JSON"
}

// Extensions returns file extensions associated with this format.
func (f *Format) Extensions() []string {
	return []string{"json"}
}

// CanParse returns true if the input looks like an InvenioRDM record.
func (f *Format) CanParse(peek []byte) bool {
	peek = bytes.TrimSpace(peek)
	if len(peek) == 0 || peek[0] != '{' {
		return false
	}
	patterns := [][]byte{
		[]byte(`"resource_type"`),
		[]byte(`"person_or_org"`),
		[]byte(`"pids"`),
		[]byte(`"publication_date"`),
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
