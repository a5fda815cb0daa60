// Package format defines the interface for metadata format plugins.
//
// A plugin reads a source format into hub.Metadata (Parser), writes
// hub.Metadata into a target format (Serializer), or both. Plugins register
// themselves with DefaultRegistry from an init function.
package format

import (
	"bytes"
	"io"
	"time"

	"github.com/lehigh-university-libraries/commonmeta/hub"
)

// Format defines the interface that all format plugins must implement.
type Format interface {
	// Name returns the format identifier (e.g., "crossref", "bibtex")
	Name() string

	// Description returns a human-readable format description
	Description() string

	// Extensions returns file extensions associated with this format
	Extensions() []string

	// CanParse returns true if this format can parse the given input
	CanParse(peek []byte) bool
}

// Parser is a format that can read input into canonical records.
type Parser interface {
	Format

	// Parse reads input and returns records. Empty input yields a single
	// not_found record and no error; structurally broken input yields a
	// *MalformedInputError.
	Parse(r io.Reader, opts *ParseOptions) ([]*hub.Metadata, error)
}

// Serializer is a format that can write canonical records to output.
type Serializer interface {
	Format

	// Serialize writes records to the output. Records in the not_found
	// state are skipped. A *WriteError reports records that were written
	// but fail the target's validation rules.
	Serialize(w io.Writer, records []*hub.Metadata, opts *SerializeOptions) error
}

// ParseOptions contains options for parsing.
type ParseOptions struct {
	// DOI overrides the identifier found in the record
	DOI string

	// SourceURL is where the record was obtained; readers for repository
	// files (CFF, CodeMeta) derive the code repository from it
	SourceURL string

	// SourceName is an identifier for the source (for error messages)
	SourceName string

	// StripHTML removes all markup from descriptions instead of keeping
	// the allowed inline tags
	StripHTML bool

	// Provider overrides the provider reported on the record
	Provider string
}

// SerializeOptions contains options for serialization.
type SerializeOptions struct {
	// Pretty enables pretty-printing (for JSON/XML formats)
	Pretty bool

	// Depositor, Email and Registrant fill the Crossref deposit head
	Depositor  string
	Email      string
	Registrant string

	// Timestamp of a deposit; zero derives it from the records
	Timestamp time.Time
}

// NewParseOptions creates ParseOptions with defaults.
func NewParseOptions() *ParseOptions {
	return &ParseOptions{}
}

// NewSerializeOptions creates SerializeOptions with defaults.
func NewSerializeOptions() *SerializeOptions {
	return &SerializeOptions{
		Pretty:     true,
		Depositor:  "commonmeta",
		Email:      "info@example.org",
		Registrant: "commonmeta",
	}
}

// Write serializes a single record and returns the output. When the
// serializer reports a *WriteError the output is returned with it.
func Write(s Serializer, m *hub.Metadata, opts *SerializeOptions) ([]byte, error) {
	var buf bytes.Buffer
	err := s.Serialize(&buf, []*hub.Metadata{m}, opts)
	if err != nil && !IsWriteError(err) {
		return nil, err
	}
	return buf.Bytes(), err
}

// Live filters out records in the not_found state.
func Live(records []*hub.Metadata) []*hub.Metadata {
	out := make([]*hub.Metadata, 0, len(records))
	for _, m := range records {
		if !m.IsNotFound() {
			out = append(out, m)
		}
	}
	return out
}
