package dublincore

import (
	"errors"
	"io"
	"strings"

	"github.com/beevik/etree"

	"github.com/lehigh-university-libraries/commonmeta/contributor"
	"github.com/lehigh-university-libraries/commonmeta/crosswalk"
	"github.com/lehigh-university-libraries/commonmeta/format"
	"github.com/lehigh-university-libraries/commonmeta/helpers"
	"github.com/lehigh-university-libraries/commonmeta/hub"
)

// dcterms relation refinements and the relation types they carry.
var relationTypes = map[string]string{
	"relation":       "IsRelatedMaterial",
	"isPartOf":       "IsPartOf",
	"hasPart":        "HasPart",
	"isVersionOf":    "IsVersionOf",
	"hasVersion":     "HasVersion",
	"isReplacedBy":   "IsReplacedBy",
	"replaces":       "Replaces",
	"references":     "References",
	"isReferencedBy": "IsReferencedBy",
	"isFormatOf":     "IsVariantFormOf",
	"hasFormat":      "IsOriginalFormOf",
	"requires":       "IsRelatedMaterial",
	"isRequiredBy":   "IsRelatedMaterial",
}

// type value prefixes stripped before the dc vocabulary lookup
var typePrefixes = []string{
	"info:eu-repo/semantics/",
	"http://purl.org/dc/dcmitype/",
	"dcmitype:",
}

// Parse reads Dublin Core XML and returns one record per element holding
// DC children: a bare <metadata> or <oai_dc:dc>, several of them in one
// document, or the records of an OAI-PMH ListRecords response. Records
// whose OAI-PMH header is marked deleted are skipped.
func (f *Format) Parse(r io.Reader, opts *format.ParseOptions) ([]*hub.Metadata, error) {
	opts = format.ParseOptionsOrDefault(opts)
	data, err := format.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return []*hub.Metadata{hub.NotFound(format.RecordID(opts))}, nil
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, format.Malformed(f.Name(), opts, err)
	}
	root := doc.Root()
	if root == nil {
		return nil, format.Malformed(f.Name(), opts, errors.New("no root element"))
	}

	var records []*hub.Metadata
	for _, e := range findRecords(root) {
		header := oaiHeader(e)
		if header != nil && header.SelectAttrValue("status", "") == "deleted" {
			continue
		}
		records = append(records, readRecord(e, header, opts))
	}
	if len(records) == 0 {
		return []*hub.Metadata{hub.NotFound(format.RecordID(opts))}, nil
	}
	return records, nil
}

// findRecords returns the outermost elements with DC children.
func findRecords(e *etree.Element) []*etree.Element {
	for _, child := range e.ChildElements() {
		if isDC(child) {
			return []*etree.Element{e}
		}
	}
	var out []*etree.Element
	for _, child := range e.ChildElements() {
		out = append(out, findRecords(child)...)
	}
	return out
}

func isDC(e *etree.Element) bool {
	switch e.NamespaceURI() {
	case NamespaceDC, NamespaceTerms:
		return true
	}
	return e.Space == "dc" || e.Space == "dcterms"
}

// oaiHeader finds the header of the OAI-PMH record enclosing e, if any.
func oaiHeader(e *etree.Element) *etree.Element {
	for p := e.Parent(); p != nil; p = p.Parent() {
		if p.Tag == "record" {
			return p.SelectElement("header")
		}
	}
	return nil
}

func readRecord(e *etree.Element, header *etree.Element, opts *format.ParseOptions) *hub.Metadata {
	m := &hub.Metadata{State: "findable", SchemaVersion: hub.SchemaVersion}

	var (
		dois, types  []string
		abstracts    []hub.Description
		descriptions []hub.Description
	)
	for _, el := range e.ChildElements() {
		if !isDC(el) {
			continue
		}
		text := helpers.NormalizeWhitespace(el.Text())
		if text == "" {
			continue
		}
		lang := helpers.LanguageCode(el.SelectAttrValue("xml:lang", ""))

		switch el.Tag {
		case "title":
			m.Titles = append(m.Titles, hub.Title{Title: text, Language: lang})
		case "alternative":
			m.Titles = append(m.Titles, hub.Title{Title: text, Type: "AlternativeTitle", Language: lang})
		case "creator":
			m.Contributors = append(m.Contributors, named(text, hub.RoleAuthor))
		case "contributor":
			m.Contributors = append(m.Contributors, named(text, "Other"))
		case "subject":
			m.Subjects = append(m.Subjects, hub.Subject{Subject: text})
		case "abstract":
			abstracts = append(abstracts, hub.Description{Description: format.Description(el.Text(), opts), Type: "Abstract", Language: lang})
		case "description":
			descriptions = append(descriptions, hub.Description{Description: format.Description(el.Text(), opts), Type: "Other", Language: lang})
		case "publisher":
			if m.Publisher == nil {
				m.Publisher = &hub.Publisher{Name: text}
			}
		case "date", "issued":
			setDate(&m.Date.Published, text)
		case "created":
			setDate(&m.Date.Created, text)
		case "modified":
			setDate(&m.Date.Updated, text)
		case "available":
			setDate(&m.Date.Available, text)
		case "dateAccepted":
			setDate(&m.Date.Accepted, text)
		case "dateSubmitted":
			setDate(&m.Date.Submitted, text)
		case "type":
			types = append(types, text)
		case "identifier":
			switch {
			case hub.NormalizeDOI(text) != "":
				dois = append(dois, text)
			case hub.NormalizeURL(text) != "" && m.URL == "":
				m.URL = hub.NormalizeURL(text)
			default:
				m.Identifiers = append(m.Identifiers, hub.Identifier{Identifier: text, IdentifierType: hub.DetectIdentifierType(text)})
			}
		case "language":
			if m.Language == "" {
				m.Language = helpers.LanguageCode(text)
			}
		case "rights", "license", "accessRights":
			if strings.HasPrefix(text, "info:eu-repo/semantics/") {
				_ = m.SetExtra("access_rights", strings.TrimPrefix(text, "info:eu-repo/semantics/"))
			} else if m.License == nil {
				m.License = format.License(text)
			}
		case "source":
			_ = m.SetExtra("source", text)
		case "format":
			_ = m.SetExtra("format", text)
		case "coverage", "spatial", "temporal":
			_ = m.SetExtra("coverage", text)
		case "bibliographicCitation":
			_ = m.SetExtra("bibliographic_citation", text)
		default:
			if t, ok := relationTypes[el.Tag]; ok {
				if id := hub.NormalizeID(text); id != "" {
					m.Relations = append(m.Relations, hub.Relation{ID: id, Type: t})
				}
			}
		}
	}

	// a plain description is the abstract unless dcterms names one
	if len(abstracts) == 0 && len(descriptions) > 0 {
		descriptions[0].Type = "Abstract"
	}
	m.Descriptions = append(abstracts, descriptions...)

	m.Type, m.AdditionalType = resourceType(types)
	m.ID = format.RecordID(opts, append(dois, m.URL)...)
	for _, doi := range dois[min(1, len(dois)):] {
		m.Identifiers = append(m.Identifiers, hub.Identifier{Identifier: hub.NormalizeDOI(doi), IdentifierType: hub.IdentifierDOI})
	}

	if header != nil {
		if id := header.SelectElement("identifier"); id != nil && strings.TrimSpace(id.Text()) != "" {
			m.Identifiers = append(m.Identifiers, hub.Identifier{Identifier: strings.TrimSpace(id.Text()), IdentifierType: "OAI"})
		}
		if m.Date.Updated == "" {
			if ds := header.SelectElement("datestamp"); ds != nil {
				m.Date.Updated = hub.NormalizeDate(ds.Text())
			}
		}
	}
	return hub.Compact(m)
}

func named(name, role string) hub.Contributor {
	c := contributor.FromName(name)
	c.ContributorRoles = []string{role}
	return c
}

func setDate(dst *string, s string) {
	if *dst == "" {
		*dst = hub.NormalizeDate(s)
	}
}

// resourceType picks the most specific mapped dc:type. Generic DCMI
// "Text" only counts when nothing else maps; unmapped free-text types are
// kept as the additional type.
func resourceType(types []string) (string, string) {
	var chosen, additional string
	for _, t := range types {
		key := strings.ToLower(t)
		for _, p := range typePrefixes {
			key = strings.TrimPrefix(key, p)
		}
		key = strings.ReplaceAll(key, " ", "")
		if !crosswalk.InVocabulary("dc", key) {
			if additional == "" {
				additional = t
			}
			continue
		}
		mapped := crosswalk.Translate("dc_commonmeta", key)
		if chosen == "" || chosen == "Document" {
			chosen = mapped
		}
	}
	if chosen == "" {
		return hub.TypeOther, additional
	}
	return chosen, additional
}
