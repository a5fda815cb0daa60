package format

import (
	"bytes"
	"fmt"
	"io"

	"github.com/segmentio/encoding/json"

	"github.com/lehigh-university-libraries/commonmeta/value"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadAll reads r fully and trims a byte order mark and surrounding
// whitespace.
func ReadAll(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return bytes.TrimSpace(bytes.TrimPrefix(data, utf8BOM)), nil
}

// DecodeJSON reads a JSON document into a Value. Empty input yields an
// absent Value; invalid JSON yields a *MalformedInputError.
func DecodeJSON(formatName string, r io.Reader, opts *ParseOptions) (value.Value, error) {
	data, err := ReadAll(r)
	if err != nil {
		return value.Value{}, err
	}
	v, err := value.FromJSON(data)
	if err != nil {
		return value.Value{}, Malformed(formatName, opts, err)
	}
	return v, nil
}

// DecodeYAML reads a YAML document into a Value.
func DecodeYAML(formatName string, r io.Reader, opts *ParseOptions) (value.Value, error) {
	data, err := ReadAll(r)
	if err != nil {
		return value.Value{}, err
	}
	v, err := value.FromYAML(data)
	if err != nil {
		return value.Value{}, Malformed(formatName, opts, err)
	}
	return v, nil
}

// EncodeJSON writes v as JSON followed by a newline.
func EncodeJSON(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	return nil
}

// EncodeJSONRecords writes a single document for one record and a JSON
// array for several.
func EncodeJSONRecords[T any](w io.Writer, docs []T, pretty bool) error {
	if len(docs) == 1 {
		return EncodeJSON(w, docs[0], pretty)
	}
	if docs == nil {
		docs = []T{}
	}
	return EncodeJSON(w, docs, pretty)
}

// ParseOptionsOrDefault returns opts, or defaults when opts is nil.
func ParseOptionsOrDefault(opts *ParseOptions) *ParseOptions {
	if opts == nil {
		return NewParseOptions()
	}
	return opts
}

// SerializeOptionsOrDefault returns opts, or defaults when opts is nil.
func SerializeOptionsOrDefault(opts *SerializeOptions) *SerializeOptions {
	if opts == nil {
		return NewSerializeOptions()
	}
	return opts
}
