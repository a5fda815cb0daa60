package mods

import (
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"

	"github.com/lehigh-university-libraries/commonmeta/crosswalk"
	"github.com/lehigh-university-libraries/commonmeta/format"
	"github.com/lehigh-university-libraries/commonmeta/helpers"
	"github.com/lehigh-university-libraries/commonmeta/hub"
)

// relation types written as a relatedItem type; the rest use otherType.
var relationItemTypes = map[string]string{
	"IsPartOf":        "host",
	"HasPart":         "constituent",
	"Continues":       "preceding",
	"IsContinuedBy":   "succeeding",
	"IsVariantFormOf": "otherFormat",
	"HasVersion":      "otherVersion",
	"References":      "references",
	"IsReferencedBy":  "isReferencedBy",
	"IsReviewOf":      "reviewOf",
}

var descriptionElements = map[string]string{
	"Abstract":        "abstract",
	"TableOfContents": "tableOfContents",
}

// Serialize writes hub records as MODS XML. A single record is written as
// a <mods> document; several are wrapped in <modsCollection>.
func (f *Format) Serialize(w io.Writer, records []*hub.Metadata, opts *format.SerializeOptions) error {
	opts = format.SerializeOptionsOrDefault(opts)
	live := format.Live(records)

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	if len(live) == 1 {
		doc.AddChild(Element(live[0]))
	} else {
		coll := doc.CreateElement("modsCollection")
		coll.CreateAttr("xmlns", Namespace)
		coll.CreateAttr("xmlns:xlink", "http://www.w3.org/1999/xlink")
		for _, m := range live {
			coll.AddChild(Element(m))
		}
	}

	if opts.Pretty {
		doc.Indent(2)
	}
	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("writing mods: %w", err)
	}
	return nil
}

// Element renders one record as a <mods> element.
func Element(m *hub.Metadata) *etree.Element {
	e := etree.NewElement("mods")
	e.CreateAttr("xmlns", Namespace)
	e.CreateAttr("xmlns:xlink", "http://www.w3.org/1999/xlink")
	e.CreateAttr("version", Version)

	for _, t := range m.Titles {
		ti := e.CreateElement("titleInfo")
		switch t.Type {
		case "":
		case "TranslatedTitle":
			ti.CreateAttr("type", "translated")
		default:
			ti.CreateAttr("type", "alternative")
		}
		if t.Language != "" {
			ti.CreateAttr("lang", helpers.LanguageCode3(t.Language))
		}
		ti.CreateElement("title").SetText(t.Title)
	}

	for _, c := range m.Contributors {
		writeName(e, c)
	}

	e.CreateElement("typeOfResource").SetText(crosswalk.Translate("commonmeta_mods", m.Type))
	if genre := crosswalk.Translate("commonmeta_mods_genre", m.Type); genre != "" {
		e.CreateElement("genre").SetText(genre)
	} else if m.AdditionalType != "" {
		e.CreateElement("genre").SetText(m.AdditionalType)
	}

	place, _ := m.GetExtra("place")
	if m.Publisher != nil || !m.Date.IsZero() || m.Version != "" || place != nil {
		oi := e.CreateElement("originInfo")
		if name := m.PublisherName(); name != "" {
			oi.CreateElement("publisher").SetText(name)
		}
		if p, ok := place.(string); ok && p != "" {
			pt := oi.CreateElement("place").CreateElement("placeTerm")
			pt.CreateAttr("type", "text")
			pt.SetText(p)
		}
		dates := []struct{ tag, value string }{
			{"dateIssued", m.Date.Published},
			{"dateCreated", m.Date.Created},
			{"dateModified", m.Date.Updated},
		}
		for _, d := range dates {
			if d.value == "" {
				continue
			}
			el := oi.CreateElement(d.tag)
			el.CreateAttr("encoding", "w3cdtf")
			if d.tag == "dateIssued" {
				el.CreateAttr("keyDate", "yes")
			}
			el.SetText(d.value)
		}
		if m.Version != "" {
			oi.CreateElement("edition").SetText(m.Version)
		}
	}

	if code := helpers.LanguageCode3(m.Language); code != "" {
		lt := e.CreateElement("language").CreateElement("languageTerm")
		lt.CreateAttr("type", "code")
		lt.CreateAttr("authority", "iso639-3")
		lt.SetText(code)
	}

	for _, d := range m.Descriptions {
		tag, ok := descriptionElements[d.Type]
		if !ok {
			tag = "note"
		}
		el := e.CreateElement(tag)
		if d.Language != "" {
			el.CreateAttr("lang", helpers.LanguageCode3(d.Language))
		}
		el.SetText(helpers.StripHTML(d.Description))
	}

	for _, s := range m.Subjects {
		subject := e.CreateElement("subject")
		if s.SubjectScheme != "" {
			subject.CreateAttr("authority", s.SubjectScheme)
		}
		subject.CreateElement("topic").SetText(s.Subject)
	}

	if c := m.Container; c != nil {
		writeHost(e, c)
	}
	for _, r := range m.Relations {
		ri := e.CreateElement("relatedItem")
		if t, ok := relationItemTypes[r.Type]; ok {
			ri.CreateAttr("type", t)
		} else {
			ri.CreateAttr("otherType", r.Type)
		}
		writeIdentifier(ri, r.ID)
	}

	writeIdentifier(e, m.ID)
	if m.URL != "" && m.URL != m.ID {
		writeIdentifier(e, m.URL)
	}
	for _, id := range m.Identifiers {
		el := e.CreateElement("identifier")
		el.CreateAttr("type", strings.ToLower(id.IdentifierType))
		el.SetText(id.Identifier)
	}

	for _, f := range m.Files {
		if f.MimeType != "" {
			e.CreateElement("physicalDescription").CreateElement("internetMediaType").SetText(f.MimeType)
			break
		}
	}
	if m.URL != "" || len(m.Files) > 0 {
		loc := e.CreateElement("location")
		if m.URL != "" {
			u := loc.CreateElement("url")
			u.CreateAttr("usage", "primary display")
			u.SetText(m.URL)
		}
		for _, f := range m.Files {
			u := loc.CreateElement("url")
			u.CreateAttr("access", "raw object")
			u.SetText(f.URL)
		}
	}

	if l := m.License; l != nil {
		ac := e.CreateElement("accessCondition")
		ac.CreateAttr("type", "use and reproduction")
		if l.URL != "" {
			ac.CreateAttr("xlink:href", l.URL)
		}
		if l.ID != "" {
			ac.SetText(l.ID)
		} else {
			ac.SetText(l.URL)
		}
	}
	return e
}

func writeName(e *etree.Element, c hub.Contributor) {
	n := e.CreateElement("name")
	if c.IsPerson() {
		n.CreateAttr("type", "personal")
		if c.FamilyName != "" || c.GivenName != "" {
			namePart(n, "family", c.FamilyName)
			namePart(n, "given", c.GivenName)
		} else {
			namePart(n, "", c.Name)
		}
	} else {
		n.CreateAttr("type", "corporate")
		namePart(n, "", c.Name)
	}
	if c.ID != "" {
		ni := n.CreateElement("nameIdentifier")
		if orcid := c.ORCID(); orcid != "" {
			ni.CreateAttr("type", "orcid")
		} else {
			ni.CreateAttr("type", "uri")
		}
		ni.SetText(c.ID)
	}
	for _, a := range c.Affiliations {
		if a.Name != "" {
			n.CreateElement("affiliation").SetText(a.Name)
		}
	}
	for _, r := range c.ContributorRoles {
		rt := n.CreateElement("role").CreateElement("roleTerm")
		rt.CreateAttr("type", "text")
		rt.CreateAttr("authority", "marcrelator")
		rt.SetText(crosswalk.Translate("commonmeta_role_marcrelator", r))
	}
}

func namePart(n *etree.Element, typ, v string) {
	if v == "" {
		return
	}
	np := n.CreateElement("namePart")
	if typ != "" {
		np.CreateAttr("type", typ)
	}
	np.SetText(v)
}

func writeHost(e *etree.Element, c *hub.Container) {
	host := e.CreateElement("relatedItem")
	host.CreateAttr("type", "host")
	if c.Title != "" {
		host.CreateElement("titleInfo").CreateElement("title").SetText(c.Title)
	}
	if c.Identifier != "" {
		id := host.CreateElement("identifier")
		id.CreateAttr("type", strings.ToLower(c.IdentifierType))
		id.SetText(c.Identifier)
	}
	if c.Volume == "" && c.Issue == "" && c.FirstPage == "" {
		return
	}
	part := host.CreateElement("part")
	for _, d := range []struct{ typ, v string }{{"volume", c.Volume}, {"issue", c.Issue}} {
		if d.v == "" {
			continue
		}
		detail := part.CreateElement("detail")
		detail.CreateAttr("type", d.typ)
		detail.CreateElement("number").SetText(d.v)
	}
	if c.FirstPage != "" {
		extent := part.CreateElement("extent")
		extent.CreateAttr("unit", "pages")
		extent.CreateElement("start").SetText(c.FirstPage)
		if c.LastPage != "" {
			extent.CreateElement("end").SetText(c.LastPage)
		}
	}
}

// writeIdentifier writes a DOI as a bare doi identifier and anything else
// as a uri.
func writeIdentifier(e *etree.Element, id string) {
	if id == "" {
		return
	}
	el := e.CreateElement("identifier")
	if doi := hub.NormalizeDOI(id); doi != "" {
		el.CreateAttr("type", "doi")
		el.SetText(doi)
		return
	}
	el.CreateAttr("type", "uri")
	el.SetText(id)
}
