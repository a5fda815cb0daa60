// Package kbase reads KBase credit metadata, the citation record KBase
// attaches to its data products.
package kbase

import (
	"bytes"

	"github.com/lehigh-university-libraries/commonmeta/format"
)

// Format implements the KBase credit metadata format.
type Format struct{}

var (
	_ format.Format = (*Format)(nil)
	_ format.Parser = (*Format)(nil)
)

func (f *Format) Name() string {
	return "kbase"
}

func (f *Format) Description() string {
	return "KBase credit metadata JSON"
}

func (f *Format) Extensions() []string {
	return []string{"json"}
}

// CanParse returns true for JSON carrying the KBase-specific keys.
func (f *Format) CanParse(peek []byte) bool {
	peek = bytes.TrimSpace(peek)
	if len(peek) == 0 || peek[0] != '{' {
		return false
	}
	patterns := [][]byte{
		[]byte(`"contributor_roles"`),
		[]byte(`"contributor_id"`),
		[]byte(`"credit_metadata_schema_version"`),
		[]byte(`"relationship_type"`),
		[]byte(`"organization_name"`),
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
