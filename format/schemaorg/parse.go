package schemaorg

import (
	"io"
	"strings"

	"github.com/lehigh-university-libraries/commonmeta/contributor"
	"github.com/lehigh-university-libraries/commonmeta/crosswalk"
	"github.com/lehigh-university-libraries/commonmeta/format"
	"github.com/lehigh-university-libraries/commonmeta/helpers"
	"github.com/lehigh-university-libraries/commonmeta/hub"
	"github.com/lehigh-university-libraries/commonmeta/value"
)

// Parse reads schema.org JSON-LD, or an HTML page carrying it.
func (f *Format) Parse(r io.Reader, opts *format.ParseOptions) ([]*hub.Metadata, error) {
	data, err := format.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return []*hub.Metadata{hub.NotFound(format.RecordID(opts))}, nil
	}

	var v value.Value
	if isHTML(data) {
		v, err = scrape(data)
	} else {
		v, err = value.FromJSON(data)
	}
	if err != nil {
		return nil, format.Malformed(f.Name(), opts, err)
	}

	if v.Kind() == value.Sequence {
		var records []*hub.Metadata
		for _, item := range v.Items() {
			m, err := Read(item, opts)
			if err != nil {
				return nil, err
			}
			records = append(records, m)
		}
		if len(records) > 0 {
			return records, nil
		}
	}

	m, err := Read(v, opts)
	if err != nil {
		return nil, err
	}
	return []*hub.Metadata{m}, nil
}

// Read converts a decoded schema.org document into a record. A document
// with a @graph is reduced to its main entity first.
func Read(v value.Value, opts *format.ParseOptions) (*hub.Metadata, error) {
	opts = format.ParseOptionsOrDefault(opts)
	v = mainEntity(v)
	if v.Kind() != value.Mapping || (!v.Has("@type") && !v.Has("name") && !v.Has("headline")) {
		return hub.NotFound(format.RecordID(opts)), nil
	}

	doi := findDOI(v)
	m := &hub.Metadata{
		ID:            format.RecordID(opts, doi, v.Get("@id").Text(), v.Get("url").Text()),
		URL:           hub.NormalizeURL(v.Get("url").Text()),
		State:         "findable",
		SchemaVersion: hub.SchemaVersion,
		Language:      v.Get("inLanguage").Text(),
		Version:       v.Get("version").Text(),
		Provider:      v.Path("provider", "name").Text(),
	}
	if opts.Provider != "" {
		m.Provider = opts.Provider
	}

	m.Type, m.AdditionalType = readType(v)

	if title := firstText(v, "name", "headline"); title != "" {
		m.Titles = []hub.Title{{Title: helpers.SanitizeHTML(title)}}
	}
	if alt := v.Get("alternativeHeadline").Text(); alt != "" {
		m.Titles = append(m.Titles, hub.Title{Title: helpers.SanitizeHTML(alt), Type: "AlternativeTitle"})
	}

	for _, group := range []struct {
		keys []string
		role string
	}{
		{[]string{"author", "creator"}, hub.RoleAuthor},
		{[]string{"editor"}, "Editor"},
		{[]string{"contributor"}, "Other"},
	} {
		for _, key := range group.keys {
			m.Contributors = append(m.Contributors, contributor.NormalizeAll(v.Get(key), contributor.WithRole(group.role))...)
		}
	}

	m.Publisher = readPublisher(v.Get("publisher"))

	m.Date = hub.Date{
		Published: hub.NormalizeDate(v.Get("datePublished").Text()),
		Created:   hub.NormalizeDate(v.Get("dateCreated").Text()),
		Updated:   hub.NormalizeDate(v.Get("dateModified").Text()),
	}

	m.License = readLicense(v.Get("license"))

	// description doubles as the abstract when there is none
	if abstract := v.Get("abstract").Text(); abstract != "" {
		m.Descriptions = append(m.Descriptions, hub.Description{Description: format.Description(abstract, opts), Type: "Abstract"})
	}
	for _, d := range v.Get("description").Texts() {
		descType := "Other"
		if len(m.Descriptions) == 0 {
			descType = "Abstract"
		}
		m.Descriptions = append(m.Descriptions, hub.Description{Description: format.Description(d, opts), Type: descType})
	}

	m.Subjects = readKeywords(v.Get("keywords"))
	m.Container = readContainer(v)
	m.Relations = readRelations(v, m.ID, m.URL)

	for _, c := range v.Get("citation").Items() {
		if c.Kind() == value.Scalar {
			if id := hub.NormalizeID(c.Text()); id != "" {
				m.References = append(m.References, hub.Reference{ID: id})
			} else {
				m.References = append(m.References, hub.Reference{Unstructured: c.Text()})
			}
			continue
		}
		ref := hub.Reference{ID: hub.NormalizeID(firstText(c, "@id", "url"))}
		if ref.ID == "" {
			ref.Unstructured = firstText(c, "name", "headline")
		}
		if ref.ID != "" || ref.Unstructured != "" {
			m.References = append(m.References, ref)
		}
	}

	m.FundingReferences = readFunding(v)

	for _, d := range v.Get("distribution").Items() {
		if u := hub.NormalizeURL(d.Get("contentUrl").Text()); u != "" {
			m.Files = append(m.Files, hub.File{URL: u, MimeType: d.Get("encodingFormat").Text()})
		}
	}

	if m.DOI() != "" {
		m.Identifiers = append(m.Identifiers, hub.Identifier{Identifier: m.ID, IdentifierType: hub.IdentifierDOI})
	}
	m.Identifiers = append(m.Identifiers, readIdentifiers(v.Get("identifier"), m.ID)...)

	return hub.Compact(m), nil
}

// mainEntity picks the node describing the work: the only node of a plain
// document, or the first node of a @graph whose type is a work rather than
// a page.
func mainEntity(v value.Value) value.Value {
	if e := v.Get("mainEntity"); e.Kind() == value.Mapping && e.Has("@type") {
		return e
	}
	graph := v.Get("@graph")
	if graph.IsAbsent() {
		return v
	}
	nodes := graph.Items()
	for _, n := range nodes {
		switch crosswalk.Translate("schemaorg_commonmeta", n.Get("@type").Text()) {
		case "WebPage", hub.TypeOther:
			continue
		}
		return n
	}
	if len(nodes) > 0 {
		return nodes[0]
	}
	return value.Value{}
}

func findDOI(v value.Value) string {
	candidates := []string{v.Get("@id").Text()}
	for _, id := range v.Get("identifier").Items() {
		if id.Kind() == value.Mapping {
			candidates = append(candidates, firstText(id, "value", "@id", "url"))
		} else {
			candidates = append(candidates, id.Text())
		}
	}
	candidates = append(candidates, v.Get("sameAs").Texts()...)
	candidates = append(candidates, v.Get("url").Text())
	for _, c := range candidates {
		if doi := hub.DOIAsURL(c); doi != "" {
			return doi
		}
	}
	return ""
}

// readType maps @type; an additionalType that already names a commonmeta
// type replaces a generic CreativeWork.
func readType(v value.Value) (string, string) {
	schemaType := v.Get("@type").Text()
	additional := v.Get("additionalType").Text()
	t := crosswalk.Translate("schemaorg_commonmeta", schemaType)
	if t == hub.TypeOther && crosswalk.InVocabulary("commonmeta", additional) {
		return additional, ""
	}
	if t == hub.TypeOther && additional == "" && schemaType != "" && schemaType != "CreativeWork" {
		additional = schemaType
	}
	return t, additional
}

func readPublisher(v value.Value) *hub.Publisher {
	v = v.First()
	switch v.Kind() {
	case value.Scalar:
		return &hub.Publisher{Name: helpers.NormalizeWhitespace(v.Text())}
	case value.Mapping:
		p := &hub.Publisher{Name: helpers.NormalizeWhitespace(v.Get("name").Text())}
		if ror := hub.NormalizeROR(firstText(v, "@id", "url")); ror != "" {
			p.ID = ror
		}
		if p.Name == "" {
			return nil
		}
		return p
	}
	return nil
}

func readLicense(v value.Value) *hub.License {
	if v.Kind() == value.Mapping {
		return format.License(firstText(v, "url", "@id", "name"))
	}
	return format.License(v.Text())
}

// readKeywords accepts a comma separated string or a list, whose entries
// may be DefinedTerm objects.
func readKeywords(v value.Value) []hub.Subject {
	var out []hub.Subject
	add := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, hub.Subject{Subject: s})
		}
	}
	if v.Kind() == value.Scalar {
		for _, s := range strings.Split(v.Text(), ",") {
			add(s)
		}
		return out
	}
	for _, item := range v.Items() {
		if item.Kind() == value.Mapping {
			add(item.Get("name").Text())
			continue
		}
		add(item.Text())
	}
	return out
}

// readContainer walks the isPartOf chain of an article up to its
// periodical, or reads the data catalog of a dataset.
func readContainer(v value.Value) *hub.Container {
	c := &hub.Container{
		FirstPage: v.Get("pageStart").Text(),
		LastPage:  v.Get("pageEnd").Text(),
	}
	if catalog := v.Get("includedInDataCatalog"); catalog.Kind() == value.Mapping {
		c.Type = "DataRepository"
		c.Title = catalog.Get("name").Text()
		if u := hub.NormalizeURL(catalog.Get("url").Text()); u != "" {
			c.Identifier, c.IdentifierType = u, hub.IdentifierURL
		}
	} else {
		part := v.Get("isPartOf").First()
		if part.Kind() != value.Mapping {
			part = v.Get("periodical").First()
		}
		for depth := 0; part.Kind() == value.Mapping && depth < 4; depth++ {
			switch part.Get("@type").Text() {
			case "PublicationIssue":
				c.Issue = firstText(part, "issueNumber")
			case "PublicationVolume":
				c.Volume = firstText(part, "volumeNumber")
			case "Periodical":
				c.Type = "Journal"
				c.Title = part.Get("name").Text()
				if issn := hub.NormalizeISSN(part.Get("issn").Text()); issn != "" {
					c.Identifier, c.IdentifierType = issn, hub.IdentifierISSN
				}
			case "Blog", "WebSite":
				c.Type = "Blog"
				c.Title = part.Get("name").Text()
				if u := hub.NormalizeURL(firstText(part, "url", "@id")); u != "" {
					c.Identifier, c.IdentifierType = u, hub.IdentifierURL
				}
			case "Book":
				c.Type = "Book"
				c.Title = part.Get("name").Text()
			}
			part = part.Get("isPartOf").First()
		}
	}
	if *c == (hub.Container{}) {
		return nil
	}
	return c
}

// readRelations skips links back to the record itself.
func readRelations(v value.Value, id, url string) []hub.Relation {
	var out []hub.Relation
	add := func(target, relType string) {
		target = hub.NormalizeID(target)
		if target == "" || target == id || target == url {
			return
		}
		out = append(out, hub.Relation{ID: target, Type: relType})
	}
	for _, p := range v.Get("isPartOf").Items() {
		// the periodical chain is read as the container
		switch p.Get("@type").Text() {
		case "Periodical", "PublicationIssue", "PublicationVolume":
			continue
		}
		add(refText(p), "IsPartOf")
	}
	for _, p := range v.Get("hasPart").Items() {
		add(refText(p), "HasPart")
	}
	for _, s := range v.Get("sameAs").Texts() {
		add(s, "IsIdenticalTo")
	}
	for _, p := range v.Get("isBasedOn").Items() {
		add(refText(p), "IsBasedOn")
	}
	return out
}

// readFunding reads MonetaryGrant entries from funding, and bare funders.
func readFunding(v value.Value) []hub.FundingReference {
	var out []hub.FundingReference
	for _, g := range v.Get("funding").Items() {
		fr := funder(g.Get("funder"))
		fr.AwardNumber = g.Get("identifier").Text()
		fr.AwardTitle = g.Get("name").Text()
		fr.AwardURI = hub.NormalizeURL(g.Get("url").Text())
		if fr != (hub.FundingReference{}) {
			out = append(out, fr)
		}
	}
	if len(out) > 0 {
		return out
	}
	for _, f := range v.Get("funder").Items() {
		if fr := funder(f); fr.FunderName != "" {
			out = append(out, fr)
		}
	}
	return out
}

func funder(v value.Value) hub.FundingReference {
	if v.Kind() == value.Scalar {
		return hub.FundingReference{FunderName: v.Text()}
	}
	fr := hub.FundingReference{FunderName: v.Get("name").Text()}
	id := hub.NormalizeID(firstText(v, "@id", "url", "identifier"))
	switch {
	case id == "":
	case strings.HasPrefix(hub.NormalizeDOI(id), "10.13039/"):
		fr.FunderIdentifier, fr.FunderIdentifierType = id, "Crossref Funder ID"
	case strings.HasPrefix(id, "https://ror.org/"):
		fr.FunderIdentifier, fr.FunderIdentifierType = id, hub.IdentifierROR
	default:
		fr.FunderIdentifier, fr.FunderIdentifierType = id, hub.IdentifierOther
	}
	return fr
}

func readIdentifiers(v value.Value, id string) []hub.Identifier {
	var out []hub.Identifier
	for _, item := range v.Items() {
		var ident hub.Identifier
		if item.Kind() == value.Mapping {
			ident.Identifier = firstText(item, "value", "@id", "url")
			ident.IdentifierType = item.Get("propertyID").Text()
		} else {
			ident.Identifier = item.Text()
		}
		if ident.IdentifierType == "" {
			ident.IdentifierType = hub.DetectIdentifierType(ident.Identifier)
		}
		if ident.Identifier == "" || hub.NormalizeID(ident.Identifier) == id {
			continue
		}
		out = append(out, ident)
	}
	return out
}

func refText(v value.Value) string {
	if v.Kind() == value.Mapping {
		return firstText(v, "@id", "url")
	}
	return v.Text()
}

func firstText(v value.Value, keys ...string) string {
	for _, k := range keys {
		if s := strings.TrimSpace(v.Get(k).Text()); s != "" {
			return s
		}
	}
	return ""
}
