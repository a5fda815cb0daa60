package datacite

import (
	"io"
	"log/slog"
	"strings"

	"github.com/lehigh-university-libraries/commonmeta/contributor"
	"github.com/lehigh-university-libraries/commonmeta/crosswalk"
	"github.com/lehigh-university-libraries/commonmeta/format"
	"github.com/lehigh-university-libraries/commonmeta/helpers"
	"github.com/lehigh-university-libraries/commonmeta/hub"
	"github.com/lehigh-university-libraries/commonmeta/value"
)

// DataCite dateType values and the record date each one fills.
var dateTypes = map[string]func(*hub.Date) *string{
	"Issued":    func(d *hub.Date) *string { return &d.Published },
	"Created":   func(d *hub.Date) *string { return &d.Created },
	"Updated":   func(d *hub.Date) *string { return &d.Updated },
	"Submitted": func(d *hub.Date) *string { return &d.Submitted },
	"Available": func(d *hub.Date) *string { return &d.Available },
	"Accepted":  func(d *hub.Date) *string { return &d.Accepted },
	"Withdrawn": func(d *hub.Date) *string { return &d.Withdrawn },
}

// Usage statistics retained as extra fields.
var usageCounts = map[string]string{
	"citationCount": "citation_count",
	"viewCount":     "view_count",
	"downloadCount": "download_count",
}

// Parse reads DataCite JSON and returns hub records.
// Handles a single work ({"data": {...}}), a search result ({"data": [...]})
// and bare attributes.
func (f *Format) Parse(r io.Reader, opts *format.ParseOptions) ([]*hub.Metadata, error) {
	v, err := format.DecodeJSON(f.Name(), r, opts)
	if err != nil {
		return nil, err
	}

	data := v.Get("data")
	if data.Kind() == value.Sequence {
		var records []*hub.Metadata
		for _, item := range data.Items() {
			m, err := Read(item, opts)
			if err != nil {
				return nil, err
			}
			records = append(records, m)
		}
		if len(records) == 0 {
			return []*hub.Metadata{hub.NotFound(format.RecordID(opts))}, nil
		}
		return records, nil
	}

	m, err := Read(v, opts)
	if err != nil {
		return nil, err
	}
	return []*hub.Metadata{m}, nil
}

// Read converts DataCite attributes, with or without the API envelope,
// into a record. The DataCite XML reader decodes into the same shape and
// calls Read too.
func Read(v value.Value, opts *format.ParseOptions) (*hub.Metadata, error) {
	opts = format.ParseOptionsOrDefault(opts)
	if data := v.Get("data"); data.Kind() == value.Mapping {
		v = data
	}
	if attrs := v.Get("attributes"); attrs.Kind() == value.Mapping {
		v = attrs
	}
	if v.Kind() != value.Mapping {
		return hub.NotFound(format.RecordID(opts)), nil
	}
	doi := v.Get("doi").Text()
	if doi == "" {
		doi = v.Get("identifier").Text()
	}
	if doi == "" && v.Get("titles").IsAbsent() {
		return hub.NotFound(format.RecordID(opts)), nil
	}

	m := &hub.Metadata{
		ID:            format.RecordID(opts, doi, v.Get("id").Text()),
		URL:           hub.NormalizeURL(v.Get("url").Text()),
		State:         "findable",
		SchemaVersion: hub.SchemaVersion,
		Provider:      "DataCite",
		Language:      v.Get("language").Text(),
		Version:       v.Get("version").Text(),
	}
	if opts.Provider != "" {
		m.Provider = opts.Provider
	}
	if state := v.Get("state").Text(); state != "" {
		m.State = state
	}

	m.Type, m.AdditionalType = readType(v.Get("types"))

	// Titles
	for _, t := range v.Get("titles").Items() {
		title := hub.Title{
			Title:    helpers.SanitizeHTML(t.Get("title").Text()),
			Type:     t.Get("titleType").Text(),
			Language: t.Get("lang").Text(),
		}
		if t.Kind() == value.Scalar {
			title.Title = helpers.SanitizeHTML(t.Text())
		}
		m.Titles = append(m.Titles, title)
	}

	// Creators are authors; contributors carry their contributorType
	m.Contributors = contributor.NormalizeAll(v.Get("creators"), contributor.WithRole(hub.RoleAuthor))
	m.Contributors = append(m.Contributors, contributor.NormalizeAll(v.Get("contributors"), contributor.WithRoleTable("datacite_role_commonmeta"))...)

	m.Publisher = readPublisher(v.Get("publisher"))
	m.Date = readDates(v)

	// Rights: the first entry that resolves wins
	for _, r := range v.Get("rightsList").Items() {
		for _, candidate := range []string{r.Get("rightsIdentifier").Text(), r.Get("rightsUri").Text(), r.Get("rights").Text()} {
			if l := format.License(candidate); l != nil && l.ID != "" {
				m.License = l
				break
			}
		}
		if m.License == nil {
			m.License = format.License(r.Get("rightsUri").Text())
		}
		if m.License != nil {
			break
		}
	}

	// Descriptions
	for _, d := range v.Get("descriptions").Items() {
		text := d.Get("description").Text()
		if d.Kind() == value.Scalar {
			text = d.Text()
		}
		descType := d.Get("descriptionType").Text()
		switch descType {
		case "Abstract", "Methods", "TechnicalInfo":
		case "":
			descType = "Abstract"
		default:
			descType = "Other"
		}
		m.Descriptions = append(m.Descriptions, hub.Description{
			Description: format.Description(text, opts),
			Type:        descType,
			Language:    d.Get("lang").Text(),
		})
	}

	// Subjects
	for _, s := range v.Get("subjects").Items() {
		m.Subjects = append(m.Subjects, hub.Subject{
			Subject:       s.Get("subject").Text(),
			SubjectScheme: s.Get("subjectScheme").Text(),
		})
	}

	m.Container = readContainer(v)
	m.References, m.Relations = readRelatedIdentifiers(v.Get("relatedIdentifiers"))
	m.FundingReferences = readFunding(v.Get("fundingReferences"))

	// Files
	for _, u := range v.Get("contentUrl").Texts() {
		if url := hub.NormalizeURL(u); url != "" {
			m.Files = append(m.Files, hub.File{URL: url})
		}
	}
	if formats := v.Get("formats").Texts(); len(m.Files) == 1 && len(formats) == 1 {
		m.Files[0].MimeType = formats[0]
	}

	// Identifiers
	if m.DOI() != "" {
		m.Identifiers = append(m.Identifiers, hub.Identifier{Identifier: m.ID, IdentifierType: hub.IdentifierDOI})
	}
	for _, key := range []string{"identifiers", "alternateIdentifiers"} {
		for _, id := range v.Get(key).Items() {
			val := firstText(id, "identifier", "alternateIdentifier")
			idType := firstText(id, "identifierType", "alternateIdentifierType")
			if val == "" || strings.EqualFold(idType, "DOI") && hub.DOIAsURL(val) == m.ID {
				continue
			}
			m.Identifiers = append(m.Identifiers, hub.Identifier{Identifier: val, IdentifierType: idType})
		}
	}

	for key, extra := range usageCounts {
		if n, ok := v.Get(key).Int(); ok && n > 0 {
			_ = m.SetExtra(extra, n)
		}
	}
	if geo := v.Get("geoLocations"); geo.Kind() == value.Sequence {
		_ = m.SetExtra("geo_locations", geo.Raw())
	}

	return hub.Compact(m), nil
}

// readType resolves the record type. The free-text resourceType is tried
// against the Crossref vocabulary first and wins when it matches; the
// resourceTypeGeneral decides otherwise and the resourceType is kept as
// the additional type.
func readType(types value.Value) (string, string) {
	general := types.Get("resourceTypeGeneral").Text()
	resourceType := types.Get("resourceType").Text()

	if t, ok := crosswalk.Lookup("crossref_commonmeta", helpers.PascalCase(resourceType)); ok && t != hub.TypeOther {
		return t, ""
	}
	t := crosswalk.Translate("datacite_commonmeta", general)
	if t == hub.TypeOther && general != "" && general != hub.TypeOther {
		slog.Debug("unmapped datacite resourceTypeGeneral", "resourceTypeGeneral", general)
	}
	if resourceType != "" && !strings.EqualFold(resourceType, general) {
		return t, resourceType
	}
	return t, ""
}

func readPublisher(v value.Value) *hub.Publisher {
	switch v.Kind() {
	case value.Scalar:
		return &hub.Publisher{Name: v.Text()}
	case value.Mapping:
		p := &hub.Publisher{
			Name: v.Get("name").Text(),
			ID:   hub.NormalizeIDWithScheme(v.Get("publisherIdentifier").Text(), v.Get("schemeUri").Text()),
		}
		if p.Name == "" {
			return nil
		}
		return p
	}
	return nil
}

func readDates(v value.Value) hub.Date {
	var d hub.Date
	for _, item := range v.Get("dates").Items() {
		field, ok := dateTypes[item.Get("dateType").Text()]
		if !ok {
			continue
		}
		if target := field(&d); *target == "" {
			*target = normalizeDate(item.Get("date").Text())
		}
	}
	if d.Published == "" {
		d.Published = format.DateOf(v.Get("publicationYear"))
	}
	if d.Created == "" {
		d.Created = hub.StripMilliseconds(v.Get("created").Text())
	}
	if d.Updated == "" {
		d.Updated = hub.StripMilliseconds(v.Get("updated").Text())
	}
	return d
}

// normalizeDate reduces a DataCite date, which may be an RKMS-ISO8601
// range, to its start.
func normalizeDate(s string) string {
	if e, ok := helpers.ParseEDTF(s); ok {
		if e.Start != "" {
			return e.Start
		}
		return e.End
	}
	return hub.NormalizeDate(s)
}

func readContainer(v value.Value) *hub.Container {
	src := v.Get("container")
	c := &hub.Container{
		Type:           src.Get("type").Text(),
		Title:          src.Get("title").Text(),
		Identifier:     src.Get("identifier").Text(),
		IdentifierType: src.Get("identifierType").Text(),
		Volume:         src.Get("volume").Text(),
		Issue:          src.Get("issue").Text(),
		FirstPage:      src.Get("firstPage").Text(),
		LastPage:       src.Get("lastPage").Text(),
	}

	// relatedItems carry the venue in kernel 4.4 and later
	for _, item := range v.Get("relatedItems").Items() {
		if item.Get("relationType").Text() != "IsPublishedIn" {
			continue
		}
		if c.Title == "" {
			c.Title = item.Path("titles", "title").Text()
		}
		if c.Type == "" {
			c.Type = crosswalk.Translate("datacite_commonmeta", item.Get("relatedItemType").Text())
		}
		if c.Identifier == "" {
			c.Identifier = item.Path("relatedItemIdentifier", "relatedItemIdentifier").Text()
			c.IdentifierType = item.Path("relatedItemIdentifier", "relatedItemIdentifierType").Text()
		}
		if c.Volume == "" {
			c.Volume = item.Get("volume").Text()
		}
		if c.Issue == "" {
			c.Issue = item.Get("issue").Text()
		}
		if c.FirstPage == "" {
			c.FirstPage, c.LastPage = item.Get("firstPage").Text(), item.Get("lastPage").Text()
		}
		break
	}

	// fall back to an ISSN the work is part of
	if c.Identifier == "" {
		for _, rel := range v.Get("relatedIdentifiers").Items() {
			if rel.Get("relationType").Text() == "IsPartOf" && strings.EqualFold(rel.Get("relatedIdentifierType").Text(), "ISSN") {
				c.Identifier = hub.NormalizeISSN(rel.Get("relatedIdentifier").Text())
				c.IdentifierType = hub.IdentifierISSN
				if c.Type == "" {
					c.Type = "Journal"
				}
				break
			}
		}
	}
	if c.IdentifierType == "ISSN" {
		c.IdentifierType = hub.IdentifierISSN
	}
	if *c == (hub.Container{}) {
		return nil
	}
	return c
}

// readRelatedIdentifiers splits related identifiers into references
// (References and Cites) and typed relations.
func readRelatedIdentifiers(v value.Value) ([]hub.Reference, []hub.Relation) {
	var refs []hub.Reference
	var rels []hub.Relation
	for _, rel := range v.Items() {
		id := relatedID(rel.Get("relatedIdentifier").Text(), rel.Get("relatedIdentifierType").Text())
		if id == "" {
			continue
		}
		relationType := rel.Get("relationType").Text()
		switch relationType {
		case "References", "Cites":
			refs = append(refs, hub.Reference{ID: id})
			continue
		}
		t := crosswalk.Translate("datacite_relation_commonmeta", relationType)
		if t == "" {
			continue
		}
		rels = append(rels, hub.Relation{ID: id, Type: t})
	}
	return refs, rels
}

// relatedID resolves a related identifier to a URL where the type allows.
func relatedID(id, idType string) string {
	id = strings.TrimSpace(id)
	switch strings.ToUpper(idType) {
	case "DOI":
		if u := hub.DOIAsURL(id); u != "" {
			return u
		}
	case "URL":
		if u := hub.NormalizeURL(id); u != "" {
			return u
		}
	case "ISSN":
		if issn := hub.NormalizeISSN(id); issn != "" {
			return "https://portal.issn.org/resource/ISSN/" + issn
		}
	}
	return id
}

func readFunding(v value.Value) []hub.FundingReference {
	var out []hub.FundingReference
	for _, fr := range v.Items() {
		ref := hub.FundingReference{
			FunderName:           fr.Get("funderName").Text(),
			FunderIdentifier:     fr.Get("funderIdentifier").Text(),
			FunderIdentifierType: fr.Get("funderIdentifierType").Text(),
			AwardNumber:          fr.Get("awardNumber").Text(),
			AwardURI:             firstText(fr, "awardUri", "awardURI"),
			AwardTitle:           fr.Get("awardTitle").Text(),
		}
		switch ref.FunderIdentifierType {
		case "Crossref Funder ID":
			if u := hub.DOIAsURL(ref.FunderIdentifier); u != "" {
				ref.FunderIdentifier = u
			}
		case "ROR":
			if u := hub.NormalizeROR(ref.FunderIdentifier); u != "" {
				ref.FunderIdentifier = u
			}
		}
		out = append(out, ref)
	}
	return out
}

func firstText(v value.Value, keys ...string) string {
	for _, k := range keys {
		if s := strings.TrimSpace(v.Get(k).Text()); s != "" {
			return s
		}
	}
	return ""
}
