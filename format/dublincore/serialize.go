package dublincore

import (
	"fmt"
	"io"

	"github.com/beevik/etree"

	"github.com/lehigh-university-libraries/commonmeta/format"
	"github.com/lehigh-university-libraries/commonmeta/helpers"
	"github.com/lehigh-university-libraries/commonmeta/hub"
)

// DCMI types written for commonmeta types; everything else is Text.
var dcmiTypes = map[string]string{
	"Audiovisual":         "MovingImage",
	"Collection":          "Collection",
	"Dataset":             "Dataset",
	"Event":               "Event",
	"Image":               "StillImage",
	"InteractiveResource": "InteractiveResource",
	"PhysicalObject":      "PhysicalObject",
	"Software":            "Software",
}

// Serialize writes hub records as oai_dc XML. A single record is written
// as an <oai_dc:dc> document; several are wrapped in <collection>.
func (f *Format) Serialize(w io.Writer, records []*hub.Metadata, opts *format.SerializeOptions) error {
	opts = format.SerializeOptionsOrDefault(opts)
	live := format.Live(records)

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	parent := &doc.Element
	if len(live) > 1 {
		parent = doc.CreateElement("collection")
	}
	for _, m := range live {
		parent.AddChild(Element(m))
	}

	if opts.Pretty {
		doc.Indent(2)
	}
	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("writing dublin core: %w", err)
	}
	return nil
}

// Element renders one record as an <oai_dc:dc> element.
func Element(m *hub.Metadata) *etree.Element {
	dc := etree.NewElement("oai_dc:dc")
	dc.CreateAttr("xmlns:oai_dc", NamespaceOAIDC)
	dc.CreateAttr("xmlns:dc", NamespaceDC)
	dc.CreateAttr("xmlns:xsi", "http://www.w3.org/2001/XMLSchema-instance")
	dc.CreateAttr("xsi:schemaLocation", SchemaLocationDC)

	add := func(tag, text string) *etree.Element {
		text = helpers.NormalizeWhitespace(text)
		if text == "" {
			return nil
		}
		el := dc.CreateElement("dc:" + tag)
		el.SetText(text)
		return el
	}
	withLang := func(el *etree.Element, lang string) {
		if el != nil && lang != "" {
			el.CreateAttr("xml:lang", lang)
		}
	}

	for _, t := range m.Titles {
		withLang(add("title", t.Title), t.Language)
	}
	for _, c := range m.Contributors {
		if c.HasRole(hub.RoleAuthor) {
			add("creator", c.InvertedName())
		} else {
			add("contributor", c.InvertedName())
		}
	}
	for _, s := range m.Subjects {
		add("subject", s.Subject)
	}
	for _, d := range m.Descriptions {
		withLang(add("description", helpers.StripHTML(d.Description)), d.Language)
	}
	add("publisher", m.PublisherName())
	add("date", m.Date.Published)

	t, ok := dcmiTypes[m.Type]
	if !ok {
		t = "Text"
	}
	add("type", t)

	add("identifier", m.ID)
	if m.URL != m.ID {
		add("identifier", m.URL)
	}
	for _, id := range m.Identifiers {
		if id.Identifier != m.ID && hub.DOIAsURL(id.Identifier) != m.ID {
			add("identifier", id.Identifier)
		}
	}
	for _, f := range m.Files {
		add("format", f.MimeType)
	}
	if c := m.Container; c != nil {
		add("source", c.Title)
	}
	add("language", m.Language)
	for _, r := range m.Relations {
		add("relation", r.ID)
	}
	if l := m.License; l != nil {
		if l.URL != "" {
			add("rights", l.URL)
		} else {
			add("rights", l.ID)
		}
	}
	return dc
}
