package proquest

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/lehigh-university-libraries/commonmeta/format"
	"github.com/lehigh-university-libraries/commonmeta/helpers"
	"github.com/lehigh-university-libraries/commonmeta/hub"
)

// Serialize writes hub records as ProQuest ETD XML, one DISS_submission
// per record after a single XML declaration.
func (f *Format) Serialize(w io.Writer, records []*hub.Metadata, opts *format.SerializeOptions) error {
	opts = format.SerializeOptionsOrDefault(opts)

	for i, m := range format.Live(records) {
		sub := hubToSpoke(m)

		var output []byte
		var err error
		if opts.Pretty {
			output, err = xml.MarshalIndent(sub, "", "  ")
		} else {
			output, err = xml.Marshal(sub)
		}
		if err != nil {
			return fmt.Errorf("marshaling record %d: %w", i, err)
		}

		if i == 0 {
			if _, err := io.WriteString(w, xml.Header); err != nil {
				return err
			}
		}
		if _, err := w.Write(output); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}

// hubToSpoke converts a hub record to a DISS_submission.
func hubToSpoke(m *hub.Metadata) *Submission {
	sub := &Submission{
		Authorship:  &Authorship{},
		Description: &Description{Title: m.Title()},
	}
	desc := sub.Description

	// Contributors: authors, advisors, and every other person on the committee
	for _, c := range m.Contributors {
		if !c.IsPerson() {
			continue
		}
		name := contributorToName(c)
		switch {
		case c.HasRole(hub.RoleAuthor):
			sub.Authorship.Authors = append(sub.Authorship.Authors, Author{Type: "primary", Name: &name, ORCID: c.ORCID()})
		case c.HasRole("Supervisor"):
			desc.Advisors = append(desc.Advisors, Advisor{Name: name})
		default:
			desc.CommitteeMembers = append(desc.CommitteeMembers, Advisor{Name: name})
		}
	}
	if len(sub.Authorship.Authors) == 0 {
		sub.Authorship = nil
	}

	if name := m.PublisherName(); name != "" {
		desc.Institution = &Institution{Name: name, Department: extraString(m, "department")}
	}
	desc.Degree = extraString(m, "degree")
	desc.Type = degreeLevelToCode(extraString(m, "degree_level"))
	if n, err := strconv.Atoi(extraString(m, "page_count")); err == nil && n > 0 {
		desc.PageCount = int32(n)
	}

	cat := &Categorization{Language: m.Language}
	for _, s := range m.Subjects {
		if s.SubjectScheme == "ProQuest" {
			cat.Categories = append(cat.Categories, Category{Description: s.Subject})
		} else {
			cat.Keywords = append(cat.Keywords, s.Subject)
		}
	}
	if len(cat.Categories) > 0 || len(cat.Keywords) > 0 || cat.Language != "" {
		desc.Categorization = cat
	}

	if m.Date.Published != "" || m.Date.Accepted != "" {
		desc.Dates = &Dates{CompletionDate: m.Date.Published, AcceptDate: m.Date.Accepted}
	}

	content := &Content{}
	if abstract := m.Abstract(); abstract != "" {
		var paras []string
		for _, p := range strings.Split(abstract, "\n\n") {
			if p = helpers.StripHTML(p); p != "" {
				paras = append(paras, p)
			}
		}
		content.Abstract = &Abstract{Paragraphs: paras}
	}
	if binaries, ok := m.GetExtra("binaries"); ok {
		list, _ := binaries.([]any)
		for _, b := range list {
			entry, _ := b.(map[string]any)
			key, _ := entry["key"].(string)
			mime, _ := entry["mimeType"].(string)
			if key != "" {
				content.Binary = append(content.Binary, Binary{Type: binaryCode(mime), FileName: key})
			}
		}
	}
	if content.Abstract != nil || len(content.Binary) > 0 {
		sub.Content = content
	}

	if code, ok := m.GetExtra("embargo_code"); ok {
		if n, ok := code.(float64); ok {
			sub.EmbargoCode = int32(n)
		}
	}
	if m.Date.Available != "" || extraString(m, "access_option") != "" {
		sub.Repository = &Repository{DelayedRelease: m.Date.Available, AccessOption: extraString(m, "access_option")}
	}
	return sub
}

// contributorToName converts a hub contributor to a ProQuest Name.
func contributorToName(c hub.Contributor) Name {
	if c.FamilyName != "" || c.GivenName != "" {
		return Name{Surname: c.FamilyName, First: c.GivenName}
	}
	// Try to parse a simple "Last, First" format
	if family, given, ok := strings.Cut(c.Name, ","); ok {
		return Name{Surname: strings.TrimSpace(family), First: strings.TrimSpace(given)}
	}
	return Name{Surname: c.Name}
}

// degreeLevelToCode converts degree level to ProQuest code.
func degreeLevelToCode(level string) string {
	switch strings.ToLower(level) {
	case "doctoral", "phd", "doctorate":
		return "doctoral"
	case "masters", "master", "master's":
		return "masters"
	default:
		return level
	}
}

func binaryCode(mime string) string {
	if mime == "application/pdf" {
		return "PDF"
	}
	return mime
}

func extraString(m *hub.Metadata, key string) string {
	v, _ := m.GetExtra(key)
	s, _ := v.(string)
	return s
}
