// Package dublincore provides a format plugin for Dublin Core metadata:
// simple and qualified DC, bare or inside OAI-PMH oai_dc records.
package dublincore

import (
	"bytes"

	"github.com/lehigh-university-libraries/commonmeta/format"
)

// Namespaces of the elements the plugin reads and writes.
const (
	NamespaceDC      = "http://purl.org/dc/elements/1.1/"
	NamespaceTerms   = "http://purl.org/dc/terms/"
	NamespaceOAIDC   = "http://www.openarchives.org/OAI/2.0/oai_dc/"
	SchemaLocationDC = "http://www.openarchives.org/OAI/2.0/oai_dc/ http://www.openarchives.org/OAI/2.0/oai_dc.xsd"
)

// Format implements the Dublin Core format.
type Format struct{}

// Ensure Format implements the interfaces
var (
	_ format.Format     = (*Format)(nil)
	_ format.Parser     = (*Format)(nil)
	_ format.Serializer = (*Format)(nil)
)

// Name returns the format identifier.
func (f *Format) Name() string {
	return "dublincore"
}

// Description returns a human-readable format description.
func (f *Format) Description() string {
	return "Dublin Core XML (oai_dc and dcterms)"
}

// Extensions returns file extensions associated with this format.
func (f *Format) Extensions() []string {
	return []string{"dc"}
}

// CanParse returns true if the input looks like Dublin Core XML.
func (f *Format) CanParse(peek []byte) bool {
	peek = bytes.TrimSpace(peek)
	if len(peek) == 0 || peek[0] != '<' {
		return false
	}
	// landing pages link the DC schema from their meta tags
	if bytes.Contains(bytes.ToLower(peek[:min(len(peek), 512)]), []byte("<html")) {
		return false
	}

	patterns := [][]byte{
		[]byte("purl.org/dc/elements"),
		[]byte("purl.org/dc/terms"),
		[]byte("openarchives.org/OAI/2.0/oai_dc"),
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
