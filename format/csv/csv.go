// Package csv provides a format plugin for flat CSV metadata: one record
// per row, multi-valued cells joined with "|".
package csv

import (
	"bufio"
	"bytes"
	"strings"

	"github.com/lehigh-university-libraries/commonmeta/format"
)

// Separator joins the values of a multi-valued cell.
const Separator = "|"

// Columns is the header written by the serializer, in order.
var Columns = []string{
	"id",
	"type",
	"title",
	"contributors",
	"contributor_roles",
	"contributor_ids",
	"publisher",
	"published",
	"container_title",
	"volume",
	"issue",
	"pages",
	"language",
	"license",
	"subjects",
	"abstract",
	"url",
}

// Format implements the CSV format.
type Format struct{}

// Ensure Format implements the interfaces
var (
	_ format.Format     = (*Format)(nil)
	_ format.Parser     = (*Format)(nil)
	_ format.Serializer = (*Format)(nil)
)

// Name returns the format identifier.
func (f *Format) Name() string {
	return "csv"
}

// Description returns a human-readable format description.
func (f *Format) Description() string {
	return "Comma-separated values (CSV) metadata"
}

// Extensions returns file extensions associated with this format.
func (f *Format) Extensions() []string {
	return []string{"csv"}
}

// CanParse returns true if the first line is a header naming at least
// the id and title columns.
func (f *Format) CanParse(peek []byte) bool {
	peek = bytes.TrimSpace(peek)
	if len(peek) == 0 || peek[0] == '{' || peek[0] == '[' || peek[0] == '<' {
		return false
	}

	line, _, _ := bufio.NewReader(bytes.NewReader(peek)).ReadLine()
	header := map[string]bool{}
	for _, col := range strings.Split(string(line), ",") {
		header[columnName(col)] = true
	}
	return header["id"] && header["title"]
}

// columnName normalizes a header cell and resolves aliases.
func columnName(col string) string {
	col = strings.ToLower(strings.Trim(strings.TrimSpace(col), `"`))
	if alias, ok := columnAliases[col]; ok {
		return alias
	}
	return col
}

func init() {
	format.Register(&Format{})
}
