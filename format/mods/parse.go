package mods

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

// relatedItem types and the relation they express.
var relatedItemTypes = map[string]string{
	"host":           "IsPartOf",
	"series":         "IsPartOf",
	"constituent":    "HasPart",
	"preceding":      "Continues",
	"succeeding":     "IsContinuedBy",
	"original":       "IsVariantFormOf",
	"otherFormat":    "IsVariantFormOf",
	"otherVersion":   "HasVersion",
	"references":     "References",
	"isReferencedBy": "IsReferencedBy",
	"reviewOf":       "IsReviewOf",
}

var titleTypes = map[string]string{
	"alternative": "AlternativeTitle",
	"abbreviated": "AlternativeTitle",
	"uniform":     "AlternativeTitle",
	"translated":  "TranslatedTitle",
}

// Parse reads MODS XML and returns one record per <mods> element, whether
// it is the document root, inside a <modsCollection> or wrapped in an
// OAI-PMH response.
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
	for _, e := range modsElements(root) {
		records = append(records, Read(e, opts))
	}
	if len(records) == 0 {
		return []*hub.Metadata{hub.NotFound(format.RecordID(opts))}, nil
	}
	return records, nil
}

func modsElements(e *etree.Element) []*etree.Element {
	if e.Tag == "mods" {
		return []*etree.Element{e}
	}
	var out []*etree.Element
	for _, child := range e.ChildElements() {
		out = append(out, modsElements(child)...)
	}
	return out
}

// Read converts a single <mods> element.
func Read(e *etree.Element, opts *format.ParseOptions) *hub.Metadata {
	opts = format.ParseOptionsOrDefault(opts)
	m := &hub.Metadata{State: "findable", SchemaVersion: hub.SchemaVersion}

	for _, ti := range e.SelectElements("titleInfo") {
		if t := readTitle(ti); t.Title != "" {
			m.Titles = append(m.Titles, t)
		}
	}
	for _, n := range e.SelectElements("name") {
		if c, ok := readName(n); ok {
			m.Contributors = append(m.Contributors, c)
		}
	}

	m.Type = crosswalk.Translate("mods_commonmeta", strings.ToLower(text(e, "typeOfResource")))
	for _, g := range e.SelectElements("genre") {
		genre := helpers.NormalizeWhitespace(g.Text())
		if t, ok := crosswalk.Lookup("mods_genre_commonmeta", strings.ToLower(genre)); ok {
			m.Type, m.AdditionalType = t, ""
			break
		}
		if m.AdditionalType == "" {
			m.AdditionalType = genre
		}
	}

	var copyright string
	for _, oi := range e.SelectElements("originInfo") {
		if p := text(oi, "publisher"); p != "" && m.Publisher == nil {
			m.Publisher = &hub.Publisher{Name: p}
		}
		if place := text(oi, "place/placeTerm"); place != "" {
			_ = m.SetExtra("place", place)
		}
		setDate(&m.Date.Published, keyDate(oi.SelectElements("dateIssued")))
		setDate(&m.Date.Created, keyDate(oi.SelectElements("dateCreated")))
		setDate(&m.Date.Updated, keyDate(oi.SelectElements("dateModified")))
		if copyright == "" {
			copyright = keyDate(oi.SelectElements("copyrightDate"))
		}
		if m.Version == "" {
			m.Version = text(oi, "edition")
		}
	}
	setDate(&m.Date.Published, copyright)

	for _, l := range e.FindElements("language/languageTerm") {
		if code := helpers.LanguageCode(l.Text()); code != "" {
			m.Language = code
			break
		}
	}

	for _, a := range e.SelectElements("abstract") {
		m.Descriptions = append(m.Descriptions, description(a, "Abstract", opts))
	}
	for _, toc := range e.SelectElements("tableOfContents") {
		m.Descriptions = append(m.Descriptions, description(toc, "TableOfContents", opts))
	}
	for _, n := range e.SelectElements("note") {
		m.Descriptions = append(m.Descriptions, description(n, "Other", opts))
	}

	m.Subjects = readSubjects(e)

	var dois []string
	for _, id := range e.SelectElements("identifier") {
		if id.SelectAttrValue("invalid", "") == "yes" {
			continue
		}
		v := strings.TrimSpace(id.Text())
		switch typ := strings.ToLower(id.SelectAttrValue("type", "")); {
		case v == "":
		case typ == "doi" || hub.NormalizeDOI(v) != "" && (typ == "uri" || typ == "url" || typ == ""):
			dois = append(dois, v)
		case (typ == "uri" || typ == "url") && m.URL == "" && hub.NormalizeURL(v) != "":
			m.URL = hub.NormalizeURL(v)
		default:
			m.Identifiers = append(m.Identifiers, hub.Identifier{Identifier: v, IdentifierType: identifierType(typ, v)})
		}
	}
	for _, u := range e.FindElements("location/url") {
		v := hub.NormalizeURL(u.Text())
		switch {
		case v == "":
		case u.SelectAttrValue("access", "") == "raw object":
			m.Files = append(m.Files, hub.File{URL: v, MimeType: text(e, "physicalDescription/internetMediaType")})
		case m.URL == "":
			m.URL = v
		}
	}
	if id := text(e, "recordInfo/recordIdentifier"); id != "" {
		m.Identifiers = append(m.Identifiers, hub.Identifier{Identifier: id, IdentifierType: "Local"})
	}

	for _, ac := range e.SelectElements("accessCondition") {
		typ := ac.SelectAttrValue("type", "")
		if typ != "" && typ != "use and reproduction" && typ != "useAndReproduction" {
			continue
		}
		if l := format.License(attr(ac, "href")); l != nil {
			m.License = l
			break
		}
		if l := format.License(ac.Text()); l != nil {
			m.License = l
			break
		}
		if t := helpers.NormalizeWhitespace(ac.Text()); t != "" {
			_ = m.SetExtra("rights", t)
		}
	}

	for _, ri := range e.SelectElements("relatedItem") {
		readRelatedItem(m, ri)
	}
	if p := e.SelectElement("part"); p != nil {
		if m.Container == nil {
			m.Container = &hub.Container{}
		}
		readPart(m.Container, p)
	}
	if m.Container != nil && m.Container.Type == "" {
		m.Container.Type = containerType(m.Type, m.Container.IdentifierType)
	}

	m.ID = format.RecordID(opts, append(dois, m.URL)...)
	for _, doi := range dois[min(1, len(dois)):] {
		m.Identifiers = append(m.Identifiers, hub.Identifier{Identifier: hub.NormalizeDOI(doi), IdentifierType: hub.IdentifierDOI})
	}
	return hub.Compact(m)
}

// readTitle joins nonSort, title and subTitle into a display title.
func readTitle(ti *etree.Element) hub.Title {
	title := text(ti, "title")
	if ns := text(ti, "nonSort"); ns != "" {
		title = strings.TrimSpace(ns + " " + title)
	}
	if sub := text(ti, "subTitle"); sub != "" {
		title += ": " + sub
	}
	for _, part := range []string{"partNumber", "partName"} {
		if p := text(ti, part); p != "" {
			title += ". " + p
		}
	}
	return hub.Title{
		Title:    helpers.NormalizeWhitespace(title),
		Type:     titleTypes[ti.SelectAttrValue("type", "")],
		Language: lang(ti),
	}
}

func readName(n *etree.Element) (hub.Contributor, bool) {
	typ := n.SelectAttrValue("type", "")
	var given, family, untyped []string
	for _, np := range n.SelectElements("namePart") {
		v := helpers.NormalizeWhitespace(np.Text())
		if v == "" {
			continue
		}
		switch np.SelectAttrValue("type", "") {
		case "given":
			given = append(given, v)
		case "family":
			family = append(family, v)
		case "date", "termsOfAddress":
		default:
			untyped = append(untyped, v)
		}
	}

	var c hub.Contributor
	switch {
	case typ == "corporate" || typ == "conference":
		name := strings.Join(untyped, ". ")
		if name == "" {
			name = text(n, "displayForm")
		}
		c = hub.Contributor{Type: hub.Organization, Name: name}
	case len(given) > 0 || len(family) > 0:
		c = hub.Contributor{Type: hub.Person, GivenName: strings.Join(given, " "), FamilyName: strings.Join(family, " ")}
	default:
		name := strings.Join(untyped, " ")
		if name == "" {
			name = text(n, "displayForm")
		}
		c = contributor.FromName(name)
		if typ == "personal" && c.Type == hub.Organization {
			c.Type = hub.Person
		}
	}
	if c.Name == "" && c.GivenName == "" && c.FamilyName == "" {
		return hub.Contributor{}, false
	}

	for _, ni := range n.SelectElements("nameIdentifier") {
		if id := hub.NormalizeID(ni.Text()); id != "" {
			c.ID = id
			break
		}
		if strings.EqualFold(ni.SelectAttrValue("type", ""), "orcid") {
			if id := hub.NormalizeORCID(ni.Text()); id != "" {
				c.ID = id
				break
			}
		}
	}
	if c.ID == "" {
		c.ID = hub.NormalizeID(n.SelectAttrValue("valueURI", ""))
	}
	for _, a := range n.SelectElements("affiliation") {
		if name := helpers.NormalizeWhitespace(a.Text()); name != "" {
			c.Affiliations = append(c.Affiliations, hub.Affiliation{Name: name})
		}
	}
	for _, rt := range n.FindElements("role/roleTerm") {
		role := crosswalk.Translate("marcrelator_commonmeta", strings.ToLower(helpers.NormalizeWhitespace(rt.Text())))
		if !c.HasRole(role) {
			c.ContributorRoles = append(c.ContributorRoles, role)
		}
	}
	if len(c.ContributorRoles) == 0 {
		c.ContributorRoles = []string{hub.RoleAuthor}
	}
	return c, true
}

// readSubjects reads the topical, geographic, temporal and name headings
// of every subject, and the classification numbers.
func readSubjects(e *etree.Element) []hub.Subject {
	var out []hub.Subject
	for _, s := range e.SelectElements("subject") {
		scheme := s.SelectAttrValue("authority", "")
		children := s.ChildElements()
		if len(children) == 0 {
			if v := helpers.NormalizeWhitespace(s.Text()); v != "" {
				out = append(out, hub.Subject{Subject: v, SubjectScheme: scheme})
			}
			continue
		}
		for _, c := range children {
			var v string
			switch c.Tag {
			case "topic", "geographic", "temporal", "genre", "occupation":
				v = c.Text()
			case "name":
				var parts []string
				for _, np := range c.SelectElements("namePart") {
					parts = append(parts, strings.TrimSpace(np.Text()))
				}
				v = strings.Join(parts, ", ")
			case "titleInfo":
				v = readTitle(c).Title
			}
			if v = helpers.NormalizeWhitespace(v); v != "" {
				out = append(out, hub.Subject{Subject: v, SubjectScheme: c.SelectAttrValue("authority", scheme)})
			}
		}
	}
	for _, c := range e.SelectElements("classification") {
		if v := helpers.NormalizeWhitespace(c.Text()); v != "" {
			out = append(out, hub.Subject{Subject: v, SubjectScheme: c.SelectAttrValue("authority", "")})
		}
	}
	return out
}

// readRelatedItem turns a host into the container and any related item
// carrying a resolvable identifier into a relation.
func readRelatedItem(m *hub.Metadata, ri *etree.Element) {
	typ := ri.SelectAttrValue("type", "")
	if typ == "host" && m.Container == nil {
		if title := text(ri, "titleInfo/title"); title != "" {
			c := &hub.Container{Title: title}
			for _, id := range ri.SelectElements("identifier") {
				switch t := strings.ToLower(id.SelectAttrValue("type", "")); t {
				case "issn", "isbn":
					c.Identifier = strings.TrimSpace(id.Text())
					c.IdentifierType = strings.ToUpper(t)
				}
				if c.Identifier != "" {
					break
				}
			}
			if p := ri.SelectElement("part"); p != nil {
				readPart(c, p)
			}
			m.Container = c
		}
	}

	relation := relatedItemTypes[typ]
	if other := ri.SelectAttrValue("otherType", ""); relation == "" && crosswalk.InVocabulary("commonmeta_relation", other) {
		relation = other
	}
	if relation == "" {
		return
	}
	id := hub.NormalizeID(attr(ri, "href"))
	for _, el := range ri.SelectElements("identifier") {
		if id != "" {
			break
		}
		switch strings.ToLower(el.SelectAttrValue("type", "")) {
		case "doi", "uri", "url", "hdl", "handle":
			id = hub.NormalizeID(el.Text())
		}
	}
	if id != "" {
		m.Relations = append(m.Relations, hub.Relation{ID: id, Type: relation})
	}
}

// readPart reads volume, issue and page range.
func readPart(c *hub.Container, p *etree.Element) {
	for _, d := range p.SelectElements("detail") {
		n := text(d, "number")
		switch d.SelectAttrValue("type", "") {
		case "volume":
			c.Volume = n
		case "issue", "number":
			c.Issue = n
		}
	}
	for _, x := range p.SelectElements("extent") {
		if unit := x.SelectAttrValue("unit", "pages"); unit != "pages" && unit != "page" {
			continue
		}
		c.FirstPage, c.LastPage = text(x, "start"), text(x, "end")
		if c.FirstPage == "" {
			c.FirstPage, c.LastPage = format.Pages(text(x, "list"))
		}
	}
}

func containerType(recordType, identifierType string) string {
	switch {
	case recordType == "BookChapter" || identifierType == "ISBN":
		return "Book"
	case recordType == "ProceedingsArticle":
		return "Proceedings"
	case recordType == "JournalArticle" || identifierType == "ISSN":
		return "Journal"
	default:
		return "Periodical"
	}
}

func identifierType(modsType, v string) string {
	switch modsType {
	case "hdl", "handle":
		return hub.IdentifierHandle
	case "isbn":
		return hub.IdentifierISBN
	case "issn":
		return hub.IdentifierISSN
	case "local":
		return "Local"
	case "uri", "url":
		return hub.IdentifierURL
	}
	return hub.DetectIdentifierType(v)
}

// keyDate picks the date flagged keyDate="yes", or the first one that
// normalizes. An end point of a range is never chosen.
func keyDate(dates []*etree.Element) string {
	var first string
	for _, d := range dates {
		if d.SelectAttrValue("point", "") == "end" {
			continue
		}
		v := hub.NormalizeDate(d.Text())
		if v == "" {
			continue
		}
		if d.SelectAttrValue("keyDate", "") == "yes" {
			return v
		}
		if first == "" {
			first = v
		}
	}
	return first
}

func setDate(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}

func description(e *etree.Element, typ string, opts *format.ParseOptions) hub.Description {
	return hub.Description{Description: format.Description(e.Text(), opts), Type: typ, Language: lang(e)}
}

func lang(e *etree.Element) string {
	if l := e.SelectAttrValue("lang", ""); l != "" {
		return helpers.LanguageCode(l)
	}
	return helpers.LanguageCode(e.SelectAttrValue("xml:lang", ""))
}

// attr reads an attribute regardless of its namespace prefix.
func attr(e *etree.Element, key string) string {
	for _, a := range e.Attr {
		if a.Key == key {
			return strings.TrimSpace(a.Value)
		}
	}
	return ""
}

func text(e *etree.Element, path string) string {
	if x := e.FindElement(path); x != nil {
		return helpers.NormalizeWhitespace(x.Text())
	}
	return ""
}
