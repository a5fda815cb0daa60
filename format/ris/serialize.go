package ris

import (
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"

	"github.com/lehigh-university-libraries/commonmeta/crosswalk"
	"github.com/lehigh-university-libraries/commonmeta/format"
	"github.com/lehigh-university-libraries/commonmeta/helpers"
	"github.com/lehigh-university-libraries/commonmeta/hub"
	"github.com/lehigh-university-libraries/commonmeta/value"
)

var extraTag = regexp.MustCompile(`^[A-Z][A-Z0-9]$`)

// Serialize writes hub records as RIS. Records are separated by a blank
// line.
func (f *Format) Serialize(w io.Writer, records []*hub.Metadata, opts *format.SerializeOptions) error {
	for i, record := range format.Live(records) {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, Entry(record)); err != nil {
			return fmt.Errorf("writing ris record %d: %w", i, err)
		}
	}
	return nil
}

// Entry renders one record as a TY...ER block.
func Entry(m *hub.Metadata) string {
	var sb strings.Builder
	line := func(tag, val string) {
		if val = helpers.NormalizeWhitespace(val); val != "" {
			fmt.Fprintf(&sb, "%s  - %s\n", tag, val)
		}
	}

	line("TY", crosswalk.Translate("commonmeta_ris", m.Type))
	line("T1", m.Title())
	for _, t := range m.Titles {
		if t.Type == "AlternativeTitle" {
			line("ST", t.Title)
			break
		}
	}
	if c := m.Container; c != nil {
		line("T2", c.Title)
	}
	for _, c := range m.Contributors {
		switch {
		case c.HasRole(hub.RoleAuthor):
			line("AU", c.InvertedName())
		case c.HasRole("Editor"):
			line("A2", c.InvertedName())
		}
	}
	line("DO", m.DOI())
	line("UR", m.URL)
	line("AB", helpers.StripHTML(m.Abstract()))
	for _, s := range m.Subjects {
		line("KW", s.Subject)
	}
	line("PY", m.PublicationYearString())
	line("DA", dateRIS(m.Date.Published))
	line("PB", m.PublisherName())
	line("LA", m.Language)
	if c := m.Container; c != nil {
		line("SN", c.Identifier)
		line("VL", c.Volume)
		line("IS", c.Issue)
		line("SP", c.FirstPage)
		line("EP", c.LastPage)
	}
	for _, id := range m.Identifiers {
		if id.IdentifierType == hub.IdentifierISBN {
			line("SN", id.Identifier)
		}
	}
	for _, f := range m.Files {
		if f.MimeType == "application/pdf" {
			line("L1", f.URL)
		}
	}

	// tags retained from an RIS source
	extra := m.ExtraFields()
	tags := make([]string, 0, len(extra))
	for tag := range extra {
		if extraTag.MatchString(tag) && !knownTags[tag] {
			tags = append(tags, tag)
		}
	}
	sort.Strings(tags)
	for _, tag := range tags {
		for _, val := range value.Of(extra[tag]).Texts() {
			line(tag, val)
		}
	}

	sb.WriteString("ER  - \n")
	return sb.String()
}

// dateRIS renders an ISO partial date as "YYYY/MM/DD". Missing parts are
// left empty the way RIS expects.
func dateRIS(iso string) string {
	p := hub.PartsFromISO(iso)
	if p.Year == 0 {
		return ""
	}
	parts := []string{fmt.Sprintf("%04d", p.Year), "", ""}
	if p.Month > 0 {
		parts[1] = fmt.Sprintf("%02d", p.Month)
	}
	if p.Day > 0 {
		parts[2] = fmt.Sprintf("%02d", p.Day)
	}
	return strings.Join(parts, "/")
}
