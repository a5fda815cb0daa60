package schemaorg

import (
	"io"
	"strconv"
	"strings"

	"github.com/lehigh-university-libraries/commonmeta/crosswalk"
	"github.com/lehigh-university-libraries/commonmeta/format"
	"github.com/lehigh-university-libraries/commonmeta/hub"
)

// Serialize writes hub records as schema.org JSON-LD.
func (f *Format) Serialize(w io.Writer, records []*hub.Metadata, opts *format.SerializeOptions) error {
	opts = format.SerializeOptionsOrDefault(opts)

	var docs []*CreativeWork
	for _, record := range format.Live(records) {
		// Step 1: Convert hub record to a schema.org work
		docs = append(docs, hubToSpoke(record))
	}

	// Step 2: Marshal to JSON
	return format.EncodeJSONRecords(w, docs, opts.Pretty)
}

// hubToSpoke converts a hub record to a schema.org CreativeWork.
func hubToSpoke(m *hub.Metadata) *CreativeWork {
	schemaType := crosswalk.Translate("commonmeta_schemaorg", m.Type)
	cw := &CreativeWork{
		Thing: Thing{
			Context: Context,
			Type:    schemaType,
			ID:      m.ID,
			Name:    m.Title(),
			URL:     m.URL,
		},
		AdditionalType: m.AdditionalType,
		DatePublished:  m.Date.Published,
		DateCreated:    m.Date.Created,
		DateModified:   m.Date.Updated,
		InLanguage:     m.Language,
		Version:        m.Version,
	}
	if cw.AdditionalType == "" && schemaType == "CreativeWork" && m.Type != hub.TypeOther {
		cw.AdditionalType = m.Type
	}

	for _, t := range m.Titles {
		if t.Type == "AlternativeTitle" || t.Type == "Subtitle" {
			cw.AlternativeHeadline = t.Title
			break
		}
	}

	if ids := identifiers(m); len(ids) > 0 {
		cw.Identifier = ids
	}

	for _, c := range m.Contributors {
		switch {
		case c.HasRole(hub.RoleAuthor):
			cw.Author = append(cw.Author, personOrOrganization(c))
		case c.HasRole("Editor"):
			cw.Editor = append(cw.Editor, personOrOrganization(c))
		default:
			cw.Contributor = append(cw.Contributor, personOrOrganization(c))
		}
	}

	if p := m.Publisher; p != nil && p.Name != "" {
		cw.Publisher = &Organization{Thing: Thing{Type: "Organization", ID: p.ID, Name: p.Name}}
	}
	if m.Provider != "" {
		cw.Provider = &Organization{Thing: Thing{Type: "Organization", Name: m.Provider}}
	}

	if m.License != nil {
		cw.License = m.License.URL
	}
	cw.Description = m.Abstract()

	var keywords []string
	for _, s := range m.Subjects {
		keywords = append(keywords, s.Subject)
	}
	cw.Keywords = strings.Join(keywords, ", ")

	if c := m.Container; c != nil {
		cw.PageStart, cw.PageEnd = c.FirstPage, c.LastPage
		switch c.Type {
		case "DataRepository", "Repository":
			cw.IncludedInDataCatalog = &DataCatalog{Type: "DataCatalog", Name: c.Title}
			if c.IdentifierType == hub.IdentifierURL {
				cw.IncludedInDataCatalog.URL = c.Identifier
			}
		default:
			if part := containerChain(c); part != nil {
				cw.IsPartOf = part
			}
		}
	}

	var sameAs []string
	for _, r := range m.Relations {
		switch r.Type {
		case "IsPartOf":
			ref := Ref{Type: "CreativeWork", ID: r.ID}
			if cw.IsPartOf == nil {
				cw.IsPartOf = ref
			} else {
				cw.IsPartOf = []any{cw.IsPartOf, ref}
			}
		case "HasPart":
			cw.HasPart = append(cw.HasPart, Ref{Type: "CreativeWork", ID: r.ID})
		case "IsIdenticalTo":
			sameAs = append(sameAs, r.ID)
		case "IsBasedOn", "IsDerivedFrom":
			cw.IsBasedOn = append(cw.IsBasedOn, Ref{Type: "CreativeWork", ID: r.ID})
		}
	}
	if len(sameAs) > 0 {
		cw.SameAs = sameAs
	}

	for _, ref := range m.References {
		r := Ref{Type: "CreativeWork", ID: ref.ID, Name: ref.Title}
		if r.ID == "" && r.Name == "" {
			r.Name = ref.Unstructured
		}
		if r.ID != "" || r.Name != "" {
			cw.Citation = append(cw.Citation, r)
		}
	}

	for _, fr := range m.FundingReferences {
		g := Grant{Type: "MonetaryGrant", Identifier: fr.AwardNumber, Name: fr.AwardTitle, URL: fr.AwardURI}
		if fr.FunderName != "" || fr.FunderIdentifier != "" {
			g.Funder = &Organization{Thing: Thing{Type: "Organization", ID: fr.FunderIdentifier, Name: fr.FunderName}}
		}
		cw.Funding = append(cw.Funding, g)
	}

	for _, f := range m.Files {
		d := DataDownload{Type: "DataDownload", ContentURL: f.URL, EncodingFormat: f.MimeType}
		if f.Size > 0 {
			d.ContentSize = strconv.FormatInt(f.Size, 10)
		}
		cw.Distribution = append(cw.Distribution, d)
	}

	return cw
}

// personOrOrganization converts a hub contributor to Person or Organization.
func personOrOrganization(c hub.Contributor) any {
	if c.Type == hub.Organization {
		return &Organization{Thing: Thing{Type: "Organization", ID: c.ID, Name: c.Name}}
	}
	p := &Person{
		Thing:      Thing{Type: "Person", ID: c.ID, Name: c.DisplayName()},
		GivenName:  c.GivenName,
		FamilyName: c.FamilyName,
	}
	for _, a := range c.Affiliations {
		p.Affiliation = append(p.Affiliation, Organization{Thing: Thing{Type: "Organization", ID: a.ID, Name: a.Name}})
	}
	return p
}

// Container types and the schema.org type of the parent work.
var containerTypes = map[string]string{
	"":            "Periodical",
	"Journal":     "Periodical",
	"Periodical":  "Periodical",
	"Blog":        "Blog",
	"Book":        "Book",
	"BookSeries":  "BookSeries",
	"Proceedings": "Book",
	"Website":     "WebSite",
}

// containerChain nests issue and volume inside the periodical the way
// schema.org describes an article's venue. Other containers become a
// single typed parent.
func containerChain(c *hub.Container) *PartOf {
	if c.Title == "" && c.Identifier == "" && c.Volume == "" && c.Issue == "" {
		return nil
	}
	parentType, ok := containerTypes[c.Type]
	if !ok {
		parentType = "CreativeWork"
	}
	part := &PartOf{Type: parentType, Name: c.Title}
	switch c.IdentifierType {
	case hub.IdentifierISSN:
		part.ISSN = c.Identifier
	case hub.IdentifierURL:
		part.ID = c.Identifier
	}
	if c.Volume != "" {
		part = &PartOf{Type: "PublicationVolume", VolumeNumber: c.Volume, IsPartOf: part}
	}
	if c.Issue != "" {
		part = &PartOf{Type: "PublicationIssue", IssueNumber: c.Issue, IsPartOf: part}
	}
	return part
}

func identifiers(m *hub.Metadata) []PropertyValue {
	var out []PropertyValue
	for _, id := range m.Identifiers {
		out = append(out, PropertyValue{Type: "PropertyValue", PropertyID: id.IdentifierType, Value: id.Identifier})
	}
	return out
}
