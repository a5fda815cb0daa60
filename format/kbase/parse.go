package kbase

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

// KBase date events and the record date each one fills.
var dateEvents = map[string]func(*hub.Date) *string{
	"published": func(d *hub.Date) *string { return &d.Published },
	"issued":    func(d *hub.Date) *string { return &d.Published },
	"accepted":  func(d *hub.Date) *string { return &d.Accepted },
	"available": func(d *hub.Date) *string { return &d.Available },
	"created":   func(d *hub.Date) *string { return &d.Created },
	"submitted": func(d *hub.Date) *string { return &d.Submitted },
	"updated":   func(d *hub.Date) *string { return &d.Updated },
	"withdrawn": func(d *hub.Date) *string { return &d.Withdrawn },
}

// Parse reads one credit metadata record, or a list of them.
func (f *Format) Parse(r io.Reader, opts *format.ParseOptions) ([]*hub.Metadata, error) {
	v, err := format.DecodeJSON(f.Name(), r, opts)
	if err != nil {
		return nil, err
	}

	var records []*hub.Metadata
	for _, item := range v.Items() {
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

// Read converts a KBase credit metadata record.
func Read(v value.Value, opts *format.ParseOptions) (*hub.Metadata, error) {
	opts = format.ParseOptionsOrDefault(opts)
	if v.Kind() != value.Mapping || (v.Get("identifier").Text() == "" && v.Get("titles").IsAbsent()) {
		return hub.NotFound(format.RecordID(opts)), nil
	}

	m := &hub.Metadata{
		ID:            format.RecordID(opts, resolve(v.Get("identifier").Text())),
		Type:          crosswalk.Translate("kbase_commonmeta", strings.ToLower(v.Get("resource_type").Text())),
		URL:           hub.NormalizeURL(v.Get("url").Text()),
		State:         "findable",
		SchemaVersion: hub.SchemaVersion,
		Provider:      opts.Provider,
		Version:       v.Get("version").Text(),
	}

	for _, t := range v.Get("titles").Items() {
		title := hub.Title{
			Title:    helpers.SanitizeHTML(t.Get("title").Text()),
			Language: helpers.LanguageCode(t.Get("language").Text()),
		}
		switch strings.ToLower(t.Get("title_type").Text()) {
		case "subtitle":
			title.Type = "Subtitle"
		case "alternative_title", "alternativetitle":
			title.Type = "AlternativeTitle"
		case "translated_title", "translatedtitle":
			title.Type = "TranslatedTitle"
		}
		m.Titles = append(m.Titles, title)
	}

	for _, c := range v.Get("contributors").Items() {
		if person, ok := readContributor(c); ok {
			m.Contributors = append(m.Contributors, person)
		}
	}

	if p := v.Get("publisher"); p.Kind() == value.Mapping {
		m.Publisher = &hub.Publisher{
			Name: p.Get("organization_name").Text(),
			ID:   resolve(p.Get("organization_id").Text()),
		}
	}

	for _, d := range v.Get("dates").Items() {
		field, ok := dateEvents[strings.ToLower(d.Get("event").Text())]
		if !ok {
			continue
		}
		if target := field(&m.Date); *target == "" {
			*target = hub.NormalizeDate(d.Get("date").Text())
		}
	}

	if l := v.Get("license"); l.Kind() == value.Mapping {
		m.License = format.License(l.Get("id").Text())
		if m.License == nil {
			m.License = format.License(l.Get("url").Text())
		}
	}

	for _, d := range v.Get("descriptions").Items() {
		descType := "Other"
		if strings.EqualFold(d.Get("description_type").Text(), "abstract") {
			descType = "Abstract"
		}
		m.Descriptions = append(m.Descriptions, hub.Description{
			Description: format.Description(d.Get("description_text").Text(), opts),
			Type:        descType,
			Language:    helpers.LanguageCode(d.Get("language").Text()),
		})
	}
	for _, c := range v.Get("comment").Texts() {
		m.Descriptions = append(m.Descriptions, hub.Description{Description: format.Description(c, opts), Type: "Other"})
	}

	for _, rel := range v.Get("related_identifiers").Items() {
		t, ok := crosswalk.Lookup("kbase_relation_commonmeta", rel.Get("relationship_type").Text())
		if !ok || t == "" {
			continue
		}
		id := resolve(rel.Get("id").Text())
		if t == "References" || t == "Cites" {
			m.References = append(m.References, hub.Reference{ID: id})
			continue
		}
		m.Relations = append(m.Relations, hub.Relation{ID: id, Type: t})
	}

	for _, f := range v.Get("funding").Items() {
		ref := hub.FundingReference{
			FunderName:  f.Path("funder", "organization_name").Text(),
			AwardNumber: f.Get("grant_id").Text(),
			AwardTitle:  f.Get("grant_title").Text(),
			AwardURI:    hub.NormalizeURL(f.Get("grant_url").Text()),
		}
		if id := resolve(f.Path("funder", "organization_id").Text()); id != "" {
			ref.FunderIdentifier = id
			ref.FunderIdentifierType = hub.DetectIdentifierType(id)
			if strings.HasPrefix(id, "https://doi.org/10.13039/") {
				ref.FunderIdentifierType = "Crossref Funder ID"
			}
		}
		m.FundingReferences = append(m.FundingReferences, ref)
	}

	for _, u := range v.Get("content_url").Texts() {
		if url := hub.NormalizeURL(u); url != "" {
			m.Files = append(m.Files, hub.File{URL: url})
		}
	}

	if m.DOI() != "" {
		m.Identifiers = append(m.Identifiers, hub.Identifier{Identifier: m.ID, IdentifierType: hub.IdentifierDOI})
	}
	if meta := v.Get("meta"); meta.Kind() == value.Mapping {
		_ = m.SetExtra("kbase_meta", meta.Raw())
	}

	return hub.Compact(m), nil
}

// readContributor converts a KBase contributor. Roles are prefixed by their
// vocabulary ("DataCite:DataCurator", "CRediT:software"); only DataCite
// roles have a commonmeta equivalent.
func readContributor(c value.Value) (hub.Contributor, bool) {
	src := map[string]any{}
	for _, key := range []string{"name", "given_name", "family_name"} {
		if s := c.Get(key).Text(); s != "" {
			src[key] = s
		}
	}
	if t := c.Get("contributor_type").Text(); t != "" {
		src["type"] = t
	}
	if id := resolve(c.Get("contributor_id").Text()); id != "" {
		src["id"] = id
	}
	var affs []any
	for _, a := range c.Get("affiliations").Items() {
		aff := map[string]any{"name": a.Get("organization_name").Text()}
		if id := resolve(a.Get("organization_id").Text()); id != "" {
			aff["id"] = id
		}
		affs = append(affs, aff)
	}
	if len(affs) > 0 {
		src["affiliation"] = affs
	}

	var roles []string
	for _, r := range c.Get("contributor_roles").Texts() {
		scheme, role, ok := strings.Cut(r, ":")
		if !ok || !strings.EqualFold(scheme, "DataCite") {
			continue
		}
		if crosswalk.InVocabulary("commonmeta_role", role) {
			roles = append(roles, role)
		}
	}

	person, ok := contributor.Normalize(value.Of(src))
	if !ok {
		return hub.Contributor{}, false
	}
	if len(roles) > 0 {
		person.ContributorRoles = roles
	}
	return person, true
}

// resolve turns a scheme-prefixed KBase identifier ("DOI:10.25982/1",
// "ORCID:0000-0002-1825-0097", "ROR:04xm1d337") into a URI.
func resolve(id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return ""
	}
	scheme, rest, ok := strings.Cut(id, ":")
	if !ok {
		return hub.NormalizeID(id)
	}
	switch strings.ToUpper(scheme) {
	case "DOI":
		return hub.DOIAsURL(rest)
	case "ORCID":
		return hub.NormalizeORCID(rest)
	case "ROR":
		return hub.NormalizeROR(rest)
	case "ISSN":
		if issn := hub.NormalizeISSN(rest); issn != "" {
			return "https://portal.issn.org/resource/ISSN/" + issn
		}
	case "URL":
		return hub.NormalizeURL(rest)
	case "HTTP", "HTTPS":
		return hub.NormalizeURL(id)
	}
	return id
}
