package proquest

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/lehigh-university-libraries/commonmeta/format"
	"github.com/lehigh-university-libraries/commonmeta/helpers"
	"github.com/lehigh-university-libraries/commonmeta/hub"
)

// Parse reads ProQuest ETD XML and returns hub records.
// Each DISS_submission element in the input produces one hub record.
func (f *Format) Parse(r io.Reader, opts *format.ParseOptions) ([]*hub.Metadata, error) {
	opts = format.ParseOptionsOrDefault(opts)
	data, err := format.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var records []*hub.Metadata
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, format.Malformed(f.Name(), opts, err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "DISS_submission" {
			continue
		}
		var sub Submission
		if err := dec.DecodeElement(&sub, &start); err != nil {
			return nil, format.Malformed(f.Name(), opts, err)
		}
		records = append(records, Read(&sub, opts))
	}

	if len(records) == 0 {
		return []*hub.Metadata{hub.NotFound(format.RecordID(opts))}, nil
	}
	return records, nil
}

// Read converts one decoded submission.
func Read(sub *Submission, opts *format.ParseOptions) *hub.Metadata {
	m := &hub.Metadata{
		ID:            format.RecordID(opts),
		Type:          "Dissertation",
		State:         "findable",
		SchemaVersion: hub.SchemaVersion,
	}

	if sub.Authorship != nil {
		for _, a := range sub.Authorship.Authors {
			if c, ok := person(a.Name, hub.RoleAuthor); ok {
				c.ID = hub.NormalizeORCID(a.ORCID)
				m.Contributors = append(m.Contributors, c)
			}
		}
	}

	if d := sub.Description; d != nil {
		mapDescription(m, d)
	}

	if c := sub.Content; c != nil {
		if c.Abstract != nil {
			var paras []string
			for _, p := range c.Abstract.Paragraphs {
				if p = format.Description(p, opts); p != "" {
					paras = append(paras, p)
				}
			}
			if len(paras) > 0 {
				m.Descriptions = append(m.Descriptions, hub.Description{
					Description: strings.Join(paras, "\n\n"),
					Type:        "Abstract",
				})
			}
		}
		// binaries are package-relative file names, not URLs
		var binaries []any
		for _, b := range c.Binary {
			if name := strings.TrimSpace(b.FileName); name != "" {
				binaries = append(binaries, map[string]any{"key": name, "mimeType": binaryType(b.Type)})
			}
		}
		if len(binaries) > 0 {
			_ = m.SetExtra("binaries", binaries)
		}
	}

	if sub.EmbargoCode > 0 {
		_ = m.SetExtra("embargo_code", float64(sub.EmbargoCode))
	}
	if r := sub.Repository; r != nil {
		if date := hub.NormalizeDate(r.DelayedRelease); date != "" {
			m.Date.Available = date
		}
		if r.AccessOption != "" {
			_ = m.SetExtra("access_option", strings.TrimSpace(r.AccessOption))
		}
	}
	return hub.Compact(m)
}

func mapDescription(m *hub.Metadata, d *Description) {
	if t := helpers.NormalizeWhitespace(d.Title); t != "" {
		m.Titles = []hub.Title{{Title: t}}
	}

	for _, a := range d.Advisors {
		if c, ok := person(&a.Name, "Supervisor"); ok {
			m.Contributors = append(m.Contributors, c)
		}
	}
	for _, a := range d.CommitteeMembers {
		if c, ok := person(&a.Name, "Other"); ok {
			m.Contributors = append(m.Contributors, c)
		}
	}

	if inst := d.Institution; inst != nil {
		if name := helpers.NormalizeWhitespace(inst.Name); name != "" {
			m.Publisher = &hub.Publisher{Name: name}
		}
		if dept := helpers.NormalizeWhitespace(inst.Department); dept != "" {
			_ = m.SetExtra("department", dept)
		}
	}
	if v := helpers.NormalizeWhitespace(d.Degree); v != "" {
		_ = m.SetExtra("degree", v)
	}
	if v := strings.TrimSpace(d.Type); v != "" {
		_ = m.SetExtra("degree_level", v)
	}
	if d.PageCount > 0 {
		_ = m.SetExtra("page_count", strconv.Itoa(int(d.PageCount)))
	}

	if cat := d.Categorization; cat != nil {
		for _, kw := range cat.Keywords {
			// some submissions carry one comma separated keyword element
			for _, k := range strings.Split(kw, ",") {
				if k = helpers.NormalizeWhitespace(k); k != "" {
					m.Subjects = append(m.Subjects, hub.Subject{Subject: k})
				}
			}
		}
		for _, c := range cat.Categories {
			if v := helpers.NormalizeWhitespace(c.Description); v != "" {
				m.Subjects = append(m.Subjects, hub.Subject{Subject: v, SubjectScheme: "ProQuest"})
			}
		}
		m.Language = helpers.LanguageCode(cat.Language)
	}

	if dates := d.Dates; dates != nil {
		m.Date.Published = hub.NormalizeDate(dates.CompletionDate)
		m.Date.Accepted = hub.NormalizeDate(dates.AcceptDate)
	}
}

// person builds a person contributor from a DISS_name. The middle name
// is folded into the given name.
func person(n *Name, role string) (hub.Contributor, bool) {
	if n == nil {
		return hub.Contributor{}, false
	}
	given := helpers.NormalizeWhitespace(n.First + " " + n.Middle)
	family := helpers.NormalizeWhitespace(n.Surname)
	if given == "" && family == "" {
		return hub.Contributor{}, false
	}
	return hub.Contributor{
		Type:             hub.Person,
		GivenName:        given,
		FamilyName:       family,
		ContributorRoles: []string{role},
	}, true
}

// binaryType maps the DISS_binary type attribute to a media type.
func binaryType(t string) string {
	switch strings.ToUpper(strings.TrimSpace(t)) {
	case "":
		return ""
	case "PDF":
		return "application/pdf"
	default:
		return t
	}
}
