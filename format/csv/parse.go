package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/lehigh-university-libraries/commonmeta/contributor"
	"github.com/lehigh-university-libraries/commonmeta/crosswalk"
	"github.com/lehigh-university-libraries/commonmeta/format"
	"github.com/lehigh-university-libraries/commonmeta/helpers"
	"github.com/lehigh-university-libraries/commonmeta/hub"
)

// Header aliases accepted on input.
var columnAliases = map[string]string{
	"doi":           "id",
	"identifier":    "id",
	"resource_type": "type",
	"authors":       "contributors",
	"author":        "contributors",
	"creator":       "contributors",
	"roles":         "contributor_roles",
	"orcid":         "contributor_ids",
	"date":          "published",
	"date_issued":   "published",
	"year":          "published",
	"journal":       "container_title",
	"container":     "container_title",
	"lang":          "language",
	"rights":        "license",
	"keywords":      "subjects",
	"subject":       "subjects",
	"description":   "abstract",
	"page":          "pages",
}

// Parse reads CSV with a header row and returns one record per data row.
func (f *Format) Parse(r io.Reader, opts *format.ParseOptions) ([]*hub.Metadata, error) {
	opts = format.ParseOptionsOrDefault(opts)

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, format.Malformed(f.Name(), opts, fmt.Errorf("parsing CSV: %w", err))
	}
	if len(rows) < 2 {
		return []*hub.Metadata{hub.NotFound(format.RecordID(opts))}, nil
	}

	header := make([]string, len(rows[0]))
	for i, col := range rows[0] {
		header[i] = columnName(col)
	}

	records := make([]*hub.Metadata, 0, len(rows)-1)
	for _, row := range rows[1:] {
		cells := make(map[string]string, len(header))
		for i, value := range row {
			if i < len(header) {
				cells[header[i]] = strings.TrimSpace(value)
			}
		}
		records = append(records, rowToRecord(cells, opts))
	}
	return records, nil
}

func rowToRecord(cells map[string]string, opts *format.ParseOptions) *hub.Metadata {
	m := &hub.Metadata{
		ID:            format.RecordID(opts, cells["id"]),
		Type:          cells["type"],
		URL:           hub.NormalizeURL(cells["url"]),
		Language:      cells["language"],
		State:         "findable",
		SchemaVersion: hub.SchemaVersion,
	}
	if m.ID == "" && cells["title"] == "" {
		return hub.NotFound("")
	}
	if !crosswalk.InVocabulary("commonmeta", m.Type) {
		m.Type = crosswalk.Translate("crossref_commonmeta", helpers.PascalCase(m.Type))
	}
	if t := cells["title"]; t != "" {
		m.Titles = []hub.Title{{Title: t}}
	}
	if p := cells["publisher"]; p != "" {
		m.Publisher = &hub.Publisher{Name: p}
	}
	m.Date.Published = hub.NormalizeDate(cells["published"])
	m.License = format.License(cells["license"])
	if a := format.Description(cells["abstract"], opts); a != "" {
		m.Descriptions = []hub.Description{{Description: a, Type: "Abstract"}}
	}
	for _, s := range split(cells["subjects"]) {
		m.Subjects = append(m.Subjects, hub.Subject{Subject: s})
	}

	if cells["container_title"] != "" || cells["volume"] != "" || cells["issue"] != "" || cells["pages"] != "" {
		first, last := format.Pages(cells["pages"])
		m.Container = &hub.Container{
			Title:     cells["container_title"],
			Volume:    cells["volume"],
			Issue:     cells["issue"],
			FirstPage: first,
			LastPage:  last,
		}
	}

	names := split(cells["contributors"])
	roles := strings.Split(cells["contributor_roles"], Separator)
	ids := strings.Split(cells["contributor_ids"], Separator)
	for i, name := range names {
		c := contributor.FromName(name)
		if i < len(roles) && crosswalk.InVocabulary("commonmeta_role", strings.TrimSpace(roles[i])) {
			c.ContributorRoles = []string{strings.TrimSpace(roles[i])}
		}
		if i < len(ids) {
			c.ID = hub.NormalizeID(strings.TrimSpace(ids[i]))
		}
		m.Contributors = append(m.Contributors, c)
	}

	return hub.Compact(m)
}

// split breaks a multi-valued cell apart, dropping blanks.
func split(cell string) []string {
	var out []string
	for _, v := range strings.Split(cell, Separator) {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
