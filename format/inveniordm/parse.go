package inveniordm

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

// InvenioRDM title types and their commonmeta names.
var titleTypes = map[string]string{
	"subtitle":          "Subtitle",
	"alternative-title": "AlternativeTitle",
	"translated-title":  "TranslatedTitle",
	"other":             "Other",
}

// InvenioRDM description types and their commonmeta names.
var descriptionTypes = map[string]string{
	"abstract":           "Abstract",
	"methods":            "Methods",
	"technical-info":     "TechnicalInfo",
	"series-information": "Other",
	"other":              "Other",
}

// InvenioRDM date types and the record date each one fills.
var dateTypes = map[string]func(*hub.Date) *string{
	"accepted":  func(d *hub.Date) *string { return &d.Accepted },
	"available": func(d *hub.Date) *string { return &d.Available },
	"created":   func(d *hub.Date) *string { return &d.Created },
	"submitted": func(d *hub.Date) *string { return &d.Submitted },
	"updated":   func(d *hub.Date) *string { return &d.Updated },
	"withdrawn": func(d *hub.Date) *string { return &d.Withdrawn },
}

// DOI registration agencies as InvenioRDM names them.
var providers = map[string]string{
	"datacite": "DataCite",
	"crossref": "Crossref",
}

// Parse reads an InvenioRDM record or a search result ({"hits": {"hits": [...]}}).
func (f *Format) Parse(r io.Reader, opts *format.ParseOptions) ([]*hub.Metadata, error) {
	v, err := format.DecodeJSON(f.Name(), r, opts)
	if err != nil {
		return nil, err
	}

	if hits := v.Path("hits", "hits"); hits.Kind() == value.Sequence {
		var records []*hub.Metadata
		for _, item := range hits.Items() {
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

// Read converts one InvenioRDM record into a hub record.
func Read(v value.Value, opts *format.ParseOptions) (*hub.Metadata, error) {
	opts = format.ParseOptionsOrDefault(opts)
	meta := v.Get("metadata")
	if meta.Kind() != value.Mapping || (meta.Get("title").Text() == "" && v.Path("pids", "doi", "identifier").Text() == "") {
		return hub.NotFound(format.RecordID(opts)), nil
	}

	self := hub.NormalizeURL(v.Path("links", "self_html").Text())
	m := &hub.Metadata{
		ID:            format.RecordID(opts, v.Path("pids", "doi", "identifier").Text(), self),
		Type:          crosswalk.Translate("invenio_commonmeta", meta.Path("resource_type", "id").Text()),
		URL:           self,
		State:         "findable",
		SchemaVersion: hub.SchemaVersion,
		Provider:      providers[strings.ToLower(v.Path("pids", "doi", "provider").Text())],
		Version:       meta.Get("version").Text(),
	}
	if opts.Provider != "" {
		m.Provider = opts.Provider
	}
	if v.Get("is_draft").Bool() {
		m.State = "draft"
	}

	// Titles
	m.Titles = append(m.Titles, hub.Title{Title: helpers.SanitizeHTML(meta.Get("title").Text())})
	for _, t := range meta.Get("additional_titles").Items() {
		m.Titles = append(m.Titles, hub.Title{
			Title:    helpers.SanitizeHTML(t.Get("title").Text()),
			Type:     titleTypes[t.Path("type", "id").Text()],
			Language: helpers.LanguageCode(t.Path("lang", "id").Text()),
		})
	}

	// Creators are authors; contributors carry their role
	m.Contributors = contributor.NormalizeAll(meta.Get("creators"), contributor.WithRole(hub.RoleAuthor))
	for _, item := range meta.Get("contributors").Items() {
		if c, ok := contributor.Normalize(item, contributor.WithRole(role(item.Path("role", "id").Text()))); ok {
			m.Contributors = append(m.Contributors, c)
		}
	}

	if name := meta.Get("publisher").Text(); name != "" {
		m.Publisher = &hub.Publisher{Name: name}
	}
	m.Date = readDates(v, meta)

	if lang := meta.Get("languages").Get("id").Text(); lang != "" {
		m.Language = helpers.LanguageCode(lang)
	}
	for _, r := range meta.Get("rights").Items() {
		if l := format.License(firstText(r, "id", "link")); l != nil {
			m.License = l
			break
		}
	}

	// Descriptions
	if d := meta.Get("description").Text(); d != "" {
		m.Descriptions = append(m.Descriptions, hub.Description{Description: format.Description(d, opts), Type: "Abstract"})
	}
	for _, d := range meta.Get("additional_descriptions").Items() {
		descType, ok := descriptionTypes[d.Path("type", "id").Text()]
		if !ok {
			descType = "Other"
		}
		m.Descriptions = append(m.Descriptions, hub.Description{
			Description: format.Description(d.Get("description").Text(), opts),
			Type:        descType,
			Language:    helpers.LanguageCode(d.Path("lang", "id").Text()),
		})
	}

	// Subjects
	for _, s := range meta.Get("subjects").Items() {
		m.Subjects = append(m.Subjects, hub.Subject{Subject: s.Get("subject").Text()})
	}

	m.Container = readContainer(v.Get("custom_fields"))
	m.Relations = readRelations(meta.Get("related_identifiers"))
	m.FundingReferences = readFunding(meta.Get("funding"))
	for _, r := range meta.Get("references").Items() {
		ref := hub.Reference{Unstructured: r.Get("reference").Text()}
		if id := relatedID(r.Get("identifier").Text(), r.Get("scheme").Text()); id != "" {
			ref.ID = id
		}
		m.References = append(m.References, ref)
	}
	m.Files = readFiles(v, self)

	// Identifiers
	if m.DOI() != "" {
		m.Identifiers = append(m.Identifiers, hub.Identifier{Identifier: m.ID, IdentifierType: hub.IdentifierDOI})
	}
	for _, id := range meta.Get("identifiers").Items() {
		val, scheme := id.Get("identifier").Text(), id.Get("scheme").Text()
		if val == "" || strings.EqualFold(scheme, "doi") && hub.DOIAsURL(val) == m.ID {
			continue
		}
		m.Identifiers = append(m.Identifiers, hub.Identifier{Identifier: val, IdentifierType: schemeName(scheme, val)})
	}

	if id := v.Get("id").Text(); id != "" {
		_ = m.SetExtra("invenio_id", id)
	}
	if c := hub.DOIAsURL(v.Path("parent", "pids", "doi", "identifier").Text()); c != "" {
		m.Relations = append(m.Relations, hub.Relation{ID: c, Type: "IsVersionOf"})
	}

	return hub.Compact(m), nil
}

// role resolves an InvenioRDM role id ("datacurator", "contactperson") to
// the commonmeta role vocabulary.
func role(id string) string {
	if id == "" {
		return "Other"
	}
	for _, r := range crosswalk.Default().Vocabulary("commonmeta_role") {
		if strings.EqualFold(r, id) {
			return r
		}
	}
	return "Other"
}

func readDates(v, meta value.Value) hub.Date {
	var d hub.Date
	if e, ok := helpers.ParseEDTF(meta.Get("publication_date").Text()); ok {
		d.Published = e.Start
	}
	for _, item := range meta.Get("dates").Items() {
		field, ok := dateTypes[item.Path("type", "id").Text()]
		if !ok {
			continue
		}
		if target := field(&d); *target == "" {
			if e, ok := helpers.ParseEDTF(item.Get("date").Text()); ok {
				*target = e.Start
			}
		}
	}
	if d.Created == "" {
		d.Created = hub.NormalizeDate(hub.StripMilliseconds(v.Get("created").Text()))
	}
	if d.Updated == "" {
		d.Updated = hub.NormalizeDate(hub.StripMilliseconds(v.Get("updated").Text()))
	}
	return d
}

// readContainer reads the journal or imprint custom fields.
func readContainer(custom value.Value) *hub.Container {
	if j := custom.Get("journal:journal"); j.Kind() == value.Mapping {
		c := &hub.Container{
			Type:   "Journal",
			Title:  j.Get("title").Text(),
			Volume: j.Get("volume").Text(),
			Issue:  j.Get("issue").Text(),
		}
		c.FirstPage, c.LastPage = format.Pages(j.Get("pages").Text())
		if issn := hub.NormalizeISSN(j.Get("issn").Text()); issn != "" {
			c.Identifier, c.IdentifierType = issn, hub.IdentifierISSN
		}
		return c
	}
	if i := custom.Get("imprint:imprint"); i.Kind() == value.Mapping {
		c := &hub.Container{Type: "Book", Title: i.Get("title").Text()}
		c.FirstPage, c.LastPage = format.Pages(i.Get("pages").Text())
		if isbn := i.Get("isbn").Text(); isbn != "" {
			c.Identifier, c.IdentifierType = isbn, hub.IdentifierISBN
		}
		if c.Title == "" && c.Identifier == "" {
			return nil
		}
		return c
	}
	return nil
}

func readRelations(v value.Value) []hub.Relation {
	var out []hub.Relation
	for _, rel := range v.Items() {
		t, ok := crosswalk.Lookup("invenio_relation_commonmeta", strings.ToLower(rel.Path("relation_type", "id").Text()))
		if !ok || t == "" {
			continue
		}
		if id := relatedID(rel.Get("identifier").Text(), rel.Get("scheme").Text()); id != "" {
			out = append(out, hub.Relation{ID: id, Type: t})
		}
	}
	return out
}

// relatedID resolves a scheme-tagged identifier to a URL where the scheme
// allows.
func relatedID(id, scheme string) string {
	id = strings.TrimSpace(id)
	switch strings.ToLower(scheme) {
	case "doi":
		if u := hub.DOIAsURL(id); u != "" {
			return u
		}
	case "url":
		if u := hub.NormalizeURL(id); u != "" {
			return u
		}
	case "issn":
		if issn := hub.NormalizeISSN(id); issn != "" {
			return "https://portal.issn.org/resource/ISSN/" + issn
		}
	case "arxiv":
		return "https://arxiv.org/abs/" + strings.TrimPrefix(strings.ToLower(id), "arxiv:")
	}
	return id
}

func readFunding(v value.Value) []hub.FundingReference {
	var out []hub.FundingReference
	for _, f := range v.Items() {
		ref := hub.FundingReference{
			FunderName:  f.Path("funder", "name").Text(),
			AwardNumber: f.Path("award", "number").Text(),
			AwardTitle:  f.Path("award", "title", "en").Text(),
		}
		if id := f.Path("funder", "id").Text(); id != "" {
			if ror := hub.NormalizeROR(id); ror != "" {
				ref.FunderIdentifier, ref.FunderIdentifierType = ror, hub.IdentifierROR
			} else {
				ref.FunderIdentifier, ref.FunderIdentifierType = id, hub.IdentifierOther
			}
		}
		for _, id := range f.Path("award", "identifiers").Items() {
			if strings.EqualFold(id.Get("scheme").Text(), "url") {
				ref.AwardURI = hub.NormalizeURL(id.Get("identifier").Text())
				break
			}
		}
		if ref.FunderName == "" && ref.FunderIdentifier == "" {
			continue
		}
		out = append(out, ref)
	}
	return out
}

// readFiles lists the record's files. Entries are keyed by file name.
func readFiles(v value.Value, self string) []hub.File {
	entries := v.Path("files", "entries")
	var out []hub.File
	for _, key := range entries.Keys() {
		e := entries.Get(key)
		f := hub.File{
			Key:      key,
			MimeType: e.Get("mimetype").Text(),
			Checksum: e.Get("checksum").Text(),
			URL:      hub.NormalizeURL(e.Path("links", "content").Text()),
		}
		if f.URL == "" && self != "" {
			f.URL = self + "/files/" + key
		}
		if n, ok := e.Get("size").Int(); ok {
			f.Size = int64(n)
		}
		out = append(out, f)
	}
	return out
}

// schemeName maps an InvenioRDM identifier scheme to a hub identifier type.
func schemeName(scheme, id string) string {
	switch strings.ToLower(scheme) {
	case "doi":
		return hub.IdentifierDOI
	case "url":
		return hub.IdentifierURL
	case "isbn":
		return hub.IdentifierISBN
	case "issn":
		return hub.IdentifierISSN
	case "arxiv":
		return hub.IdentifierArXiv
	case "handle":
		return hub.IdentifierHandle
	case "":
		return hub.DetectIdentifierType(id)
	}
	return strings.ToUpper(scheme[:1]) + scheme[1:]
}

func firstText(v value.Value, keys ...string) string {
	for _, k := range keys {
		if s := strings.TrimSpace(v.Get(k).Text()); s != "" {
			return s
		}
	}
	return ""
}
