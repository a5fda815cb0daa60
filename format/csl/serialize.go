package csl

import (
	"io"
	"strings"

	"github.com/lehigh-university-libraries/commonmeta/crosswalk"
	"github.com/lehigh-university-libraries/commonmeta/format"
	"github.com/lehigh-university-libraries/commonmeta/helpers"
	"github.com/lehigh-university-libraries/commonmeta/hub"
)

// Serialize writes hub records as CSL-JSON.
func (f *Format) Serialize(w io.Writer, records []*hub.Metadata, opts *format.SerializeOptions) error {
	opts = format.SerializeOptionsOrDefault(opts)

	items := make([]*Item, 0, len(records))
	for _, record := range format.Live(records) {
		// Step 1: Convert hub record to a CSL item
		items = append(items, hubToSpoke(record))
	}

	// Step 2: Marshal to JSON
	return format.EncodeJSONRecords(w, items, opts.Pretty)
}

// hubToSpoke converts a hub record to a CSL item.
func hubToSpoke(record *hub.Metadata) *Item {
	item := &Item{
		ID:        record.ID,
		Type:      crosswalk.Translate("commonmeta_csl", record.Type),
		Title:     record.Title(),
		Abstract:  record.Abstract(),
		Language:  record.Language,
		DOI:       record.DOI(),
		URL:       record.URL,
		Publisher: record.PublisherName(),
		Version:   record.Version,
		Issued:    date(record.Date.Published),
		Submitted: date(record.Date.Submitted),
	}
	if item.ID == "" {
		item.ID = generateID(record)
	}
	for _, t := range record.Titles {
		if t.Type == "AlternativeTitle" {
			item.TitleShort = t.Title
			break
		}
	}

	// Authors, editors, translators from contributors
	for _, c := range record.Contributors {
		name := Name{Given: c.GivenName, Family: c.FamilyName}
		if name.Family == "" {
			name.Literal = c.Name
		}
		switch {
		case c.HasRole(hub.RoleAuthor):
			item.Author = append(item.Author, name)
		case c.HasRole("Editor"):
			item.Editor = append(item.Editor, name)
		case c.HasRole("Translator"):
			item.Translator = append(item.Translator, name)
		}
	}

	if c := record.Container; c != nil {
		item.ContainerTitle = c.Title
		item.Volume = c.Volume
		item.Issue = c.Issue
		item.Page = format.PageRange(c.FirstPage, c.LastPage)
		switch c.IdentifierType {
		case hub.IdentifierISSN:
			item.ISSN = c.Identifier
		case hub.IdentifierISBN:
			item.ISBN = c.Identifier
		}
	}
	for _, id := range record.Identifiers {
		if id.IdentifierType == hub.IdentifierISBN && item.ISBN == "" {
			item.ISBN = id.Identifier
		}
	}

	var keywords []string
	for _, s := range record.Subjects {
		keywords = append(keywords, s.Subject)
	}
	item.Keyword = strings.Join(keywords, ", ")

	if record.License != nil {
		item.Copyright = record.License.URL
	}

	return item
}

func date(iso string) *Date {
	parts := hub.PartsFromISO(iso).Slice()
	if parts == nil {
		return nil
	}
	return &Date{DateParts: [][]int{parts}}
}

// generateID creates an ID from record metadata.
func generateID(record *hub.Metadata) string {
	var author string
	if len(record.Contributors) > 0 {
		c := record.Contributors[0]
		if c.FamilyName != "" {
			author = c.FamilyName
		} else if c.Name != "" {
			parts := strings.Fields(c.Name)
			if len(parts) > 0 {
				author = parts[len(parts)-1]
			}
		}
	}
	if author == "" {
		author = "unknown"
	}

	year := record.PublicationYearString()
	if year == "" {
		year = "nd"
	}

	author = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return r
		}
		return -1
	}, helpers.FoldASCII(author))

	return strings.ToLower(author) + year
}
