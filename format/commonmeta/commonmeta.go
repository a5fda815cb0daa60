// Package commonmeta reads and writes the canonical record itself as
// commonmeta JSON.
package commonmeta

import (
	"bytes"

	"github.com/lehigh-university-libraries/commonmeta/format"
)

// Format implements commonmeta JSON.
type Format struct{}

var (
	_ format.Format     = (*Format)(nil)
	_ format.Parser     = (*Format)(nil)
	_ format.Serializer = (*Format)(nil)
)

func (f *Format) Name() string {
	return "commonmeta"
}

func (f *Format) Description() string {
	return "Commonmeta JSON, the canonical record"
}

func (f *Format) Extensions() []string {
	return []string{"json"}
}

// CanParse returns true for JSON that names the commonmeta schema or uses
// its distinctive camelCase keys next to snake_case envelope keys.
func (f *Format) CanParse(peek []byte) bool {
	peek = bytes.TrimSpace(peek)
	if len(peek) == 0 || (peek[0] != '{' && peek[0] != '[') {
		return false
	}
	if bytes.Contains(peek, []byte("commonmeta.org/commonmeta_v")) {
		return true
	}
	patterns := [][]byte{
		[]byte(`"contributorRoles"`),
		[]byte(`"schema_version"`),
		[]byte(`"funding_references"`),
		[]byte(`"identifierType"`),
	}
	matchCount := 0
	for _, pattern := range patterns {
		if bytes.Contains(peek, pattern) {
			matchCount++
		}
	}
	return matchCount >= 3
}

func init() {
	format.Register(&Format{})
}
