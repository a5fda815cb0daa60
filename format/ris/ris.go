// Package ris provides a format plugin for RIS tagged citation records.
package ris

import (
	"bytes"

	"github.com/lehigh-university-libraries/commonmeta/format"
)

// Format implements the RIS format.
type Format struct{}

var (
	_ format.Format     = (*Format)(nil)
	_ format.Parser     = (*Format)(nil)
	_ format.Serializer = (*Format)(nil)
)

// Name returns the format identifier.
func (f *Format) Name() string {
	return "ris"
}

// Description returns a human-readable format description.
func (f *Format) Description() string {
	return "RIS tagged citation format"
}

// Extensions returns file extensions associated with this format.
func (f *Format) Extensions() []string {
	return []string{"ris"}
}

// CanParse returns true if the input starts with a TY tag.
func (f *Format) CanParse(peek []byte) bool {
	peek = bytes.TrimSpace(bytes.TrimPrefix(peek, []byte{0xEF, 0xBB, 0xBF}))
	return tagLine.Match(firstLine(peek)) && bytes.HasPrefix(peek, []byte("TY  -"))
}

func firstLine(b []byte) []byte {
	if i := bytes.IndexByte(b, '\n'); i >= 0 {
		return bytes.TrimRight(b[:i], "\r")
	}
	return b
}

func init() {
	format.Register(&Format{})
}
