package csv

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/lehigh-university-libraries/commonmeta/format"
	"github.com/lehigh-university-libraries/commonmeta/helpers"
	"github.com/lehigh-university-libraries/commonmeta/hub"
)

// Serialize writes hub records as CSV with a header row.
func (f *Format) Serialize(w io.Writer, records []*hub.Metadata, _ *format.SerializeOptions) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(Columns); err != nil {
		return err
	}
	for _, record := range format.Live(records) {
		row := make([]string, len(Columns))
		for i, col := range Columns {
			row[i] = columnValue(record, col)
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func columnValue(m *hub.Metadata, column string) string {
	switch column {
	case "id":
		return m.ID

	case "type":
		return m.Type

	case "title":
		return m.Title()

	case "contributors":
		names := make([]string, 0, len(m.Contributors))
		for _, c := range m.Contributors {
			names = append(names, c.InvertedName())
		}
		return join(names)

	case "contributor_roles":
		roles := make([]string, 0, len(m.Contributors))
		for _, c := range m.Contributors {
			if len(c.ContributorRoles) > 0 {
				roles = append(roles, c.ContributorRoles[0])
			} else {
				roles = append(roles, "")
			}
		}
		return join(roles)

	case "contributor_ids":
		ids := make([]string, 0, len(m.Contributors))
		for _, c := range m.Contributors {
			ids = append(ids, c.ID)
		}
		return join(ids)

	case "publisher":
		return m.PublisherName()

	case "published":
		return m.Date.Published

	case "container_title":
		if m.Container != nil {
			return m.Container.Title
		}
		return ""

	case "volume":
		if m.Container != nil {
			return m.Container.Volume
		}
		return ""

	case "issue":
		if m.Container != nil {
			return m.Container.Issue
		}
		return ""

	case "pages":
		if m.Container != nil {
			return format.PageRange(m.Container.FirstPage, m.Container.LastPage)
		}
		return ""

	case "language":
		return m.Language

	case "license":
		if m.License == nil {
			return ""
		}
		if m.License.ID != "" {
			return m.License.ID
		}
		return m.License.URL

	case "subjects":
		subjects := make([]string, 0, len(m.Subjects))
		for _, s := range m.Subjects {
			subjects = append(subjects, s.Subject)
		}
		return join(subjects)

	case "abstract":
		return helpers.StripHTML(m.Abstract())

	case "url":
		return m.URL

	default:
		if v, ok := m.GetExtra(column); ok {
			if s, ok := v.(string); ok {
				return s
			}
		}
		return ""
	}
}

// join keeps positions of empty values so that aligned columns still line
// up, but writes an empty cell when every value is empty.
func join(values []string) string {
	for _, v := range values {
		if v != "" {
			return strings.Join(values, Separator)
		}
	}
	return ""
}
