package bibtex

import (
	"fmt"
	"io"
	"strings"

	"github.com/lehigh-university-libraries/commonmeta/crosswalk"
	"github.com/lehigh-university-libraries/commonmeta/format"
	"github.com/lehigh-university-libraries/commonmeta/helpers"
	"github.com/lehigh-university-libraries/commonmeta/hub"
)

// Serialize writes hub records as BibTeX.
func (f *Format) Serialize(w io.Writer, records []*hub.Metadata, opts *format.SerializeOptions) error {
	for i, record := range format.Live(records) {
		// Step 1: Convert hub record to a BibTeX entry
		entry := hubToSpoke(record)

		// Step 2: Serialize entry to BibTeX text
		text := spokeToBibtex(entry)
		if i > 0 {
			text = "\n" + text
		}
		if _, err := io.WriteString(w, text); err != nil {
			return fmt.Errorf("writing bibtex entry %d: %w", i, err)
		}
	}
	return nil
}

// hubToSpoke converts a hub record to a BibTeX entry.
func hubToSpoke(record *hub.Metadata) *Entry {
	entry := &Entry{
		EntryType:   crosswalk.Translate("commonmeta_bibtex", record.Type),
		CitationKey: generateCitationKey(record),
		Title:       record.Title(),
		Year:        record.PublicationYearString(),
		Month:       hub.MonthAbbreviation(record.Date.Published),
		Publisher:   record.PublisherName(),
		Doi:         record.DOI(),
		Url:         record.URL,
		Abstract:    helpers.StripHTML(record.Abstract()),
		Language:    record.Language,
		Version:     record.Version,
	}
	if record.License != nil {
		entry.Copyright = record.License.URL
	}

	for _, c := range record.Contributors {
		person := Person{Given: c.GivenName, Family: c.FamilyName}
		if person.Family == "" {
			person.Name = c.Name
		}
		switch {
		case c.HasRole(hub.RoleAuthor):
			entry.Author = append(entry.Author, person)
		case c.HasRole("Editor"):
			entry.Editor = append(entry.Editor, person)
		}
	}

	if c := record.Container; c != nil {
		switch entry.EntryType {
		case "article":
			entry.Journal = c.Title
		case "inbook", "incollection", "inproceedings":
			entry.Booktitle = c.Title
		default:
			if c.Type == "BookSeries" {
				entry.Series = c.Title
			}
		}
		entry.Volume = c.Volume
		entry.Number = c.Issue
		entry.Pages = format.PageRange(c.FirstPage, c.LastPage)
		switch c.IdentifierType {
		case hub.IdentifierISSN:
			entry.Issn = c.Identifier
		case hub.IdentifierISBN:
			entry.Isbn = c.Identifier
		}
	}
	for _, id := range record.Identifiers {
		if id.IdentifierType == hub.IdentifierISBN && entry.Isbn == "" {
			entry.Isbn = id.Identifier
		}
	}

	// the degree-granting or issuing institution is the publisher
	switch entry.EntryType {
	case "phdthesis", "mastersthesis":
		entry.School, entry.Publisher = entry.Publisher, ""
	case "techreport":
		entry.Institution, entry.Publisher = entry.Publisher, ""
	}

	for _, s := range record.Subjects {
		entry.Keywords = append(entry.Keywords, s.Subject)
	}

	return entry
}

// generateCitationKey uses the DOI URL when there is one, else the folded
// family name of the first author and the publication year.
func generateCitationKey(record *hub.Metadata) string {
	if record.DOI() != "" {
		return record.ID
	}

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

	// Clean author name
	author = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return r
		}
		return -1
	}, helpers.FoldASCII(author))
	if author == "" {
		author = "unknown"
	}

	return strings.ToLower(author) + year
}

// spokeToBibtex converts an entry to BibTeX text.
func spokeToBibtex(entry *Entry) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "@%s{%s,\n", entry.EntryType, entry.CitationKey)

	field := func(name, val string) {
		if val != "" {
			fmt.Fprintf(&sb, "  %s = {%s},\n", name, val)
		}
	}

	field("title", escapeBibtex(entry.Title))
	field("author", formatPersons(entry.Author))
	field("editor", formatPersons(entry.Editor))

	// Month is a bare macro, not a braced string
	field("year", entry.Year)
	if entry.Month != "" {
		fmt.Fprintf(&sb, "  month = %s,\n", entry.Month)
	}

	field("journal", escapeBibtex(entry.Journal))
	field("booktitle", escapeBibtex(entry.Booktitle))
	field("series", escapeBibtex(entry.Series))
	field("publisher", escapeBibtex(entry.Publisher))
	field("school", escapeBibtex(entry.School))
	field("institution", escapeBibtex(entry.Institution))

	field("volume", entry.Volume)
	field("number", entry.Number)
	field("pages", entry.Pages)
	field("version", entry.Version)

	field("doi", entry.Doi)
	field("isbn", entry.Isbn)
	field("issn", entry.Issn)
	field("url", entry.Url)
	field("copyright", entry.Copyright)

	field("keywords", escapeBibtex(strings.Join(entry.Keywords, ", ")))
	field("abstract", escapeBibtex(entry.Abstract))
	field("language", entry.Language)

	sb.WriteString("}\n")
	return sb.String()
}

// formatPersons formats a list of persons for BibTeX.
func formatPersons(persons []Person) string {
	var names []string
	for _, p := range persons {
		name := formatPerson(p)
		if name != "" {
			names = append(names, name)
		}
	}
	return strings.Join(names, " and ")
}

// formatPerson formats a single person for BibTeX.
func formatPerson(p Person) string {
	if p.Family != "" {
		if p.Given != "" {
			return escapeBibtex(p.Family + ", " + p.Given)
		}
		return escapeBibtex(p.Family)
	}
	if p.Name != "" {
		return "{" + escapeBibtex(p.Name) + "}"
	}
	return ""
}

// escapeBibtex escapes special characters for BibTeX.
func escapeBibtex(s string) string {
	s = helpers.NormalizeWhitespace(s)
	s = strings.ReplaceAll(s, "&", "\\&")
	s = strings.ReplaceAll(s, "%", "\\%")
	s = strings.ReplaceAll(s, "$", "\\$")
	s = strings.ReplaceAll(s, "#", "\\#")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}
