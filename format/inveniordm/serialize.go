package inveniordm

import (
	"io"
	"strings"

	"github.com/lehigh-university-libraries/commonmeta/crosswalk"
	"github.com/lehigh-university-libraries/commonmeta/format"
	"github.com/lehigh-university-libraries/commonmeta/helpers"
	"github.com/lehigh-university-libraries/commonmeta/hub"
)

var titleTypeIDs = map[string]string{
	"Subtitle":         "subtitle",
	"AlternativeTitle": "alternative-title",
	"TranslatedTitle":  "translated-title",
}

var descriptionTypeIDs = map[string]string{
	"Methods":       "methods",
	"TechnicalInfo": "technical-info",
}

// Serialize writes hub records as InvenioRDM records ready for the
// records API.
func (f *Format) Serialize(w io.Writer, records []*hub.Metadata, opts *format.SerializeOptions) error {
	opts = format.SerializeOptionsOrDefault(opts)

	var docs []*Record
	for _, record := range format.Live(records) {
		// Step 1: Convert hub record to an InvenioRDM record
		docs = append(docs, hubToSpoke(record))
	}

	// Step 2: Marshal to JSON
	return format.EncodeJSONRecords(w, docs, opts.Pretty)
}

// hubToSpoke converts a hub record to an InvenioRDM record.
func hubToSpoke(m *hub.Metadata) *Record {
	rec := &Record{
		Access: Access{Record: "public", Files: "public"},
		Files:  Files{Enabled: len(m.Files) > 0},
		Metadata: Metadata{
			ResourceType:    ID{ID: crosswalk.Translate("commonmeta_invenio", m.Type)},
			Title:           m.Title(),
			PublicationDate: m.Date.Published,
			Version:         m.Version,
		},
	}
	if doi := m.DOI(); doi != "" {
		rec.Pids = &Pids{DOI: &PID{Identifier: doi, Provider: "external"}}
	}
	md := &rec.Metadata

	for _, t := range m.Titles {
		id, ok := titleTypeIDs[t.Type]
		if !ok || t.Title == md.Title {
			continue
		}
		at := AdditionalTitle{Title: t.Title, Type: ID{ID: id}}
		if lang := helpers.LanguageCode3(t.Language); lang != "" {
			at.Lang = &ID{ID: lang}
		}
		md.AdditionalTitles = append(md.AdditionalTitles, at)
	}

	for _, c := range m.Contributors {
		if c.HasRole(hub.RoleAuthor) || len(c.ContributorRoles) == 0 {
			md.Creators = append(md.Creators, creator(c))
			continue
		}
		ic := creator(c)
		ic.Role = &ID{ID: strings.ToLower(c.ContributorRoles[0])}
		md.Contributors = append(md.Contributors, ic)
	}

	md.Publisher = m.PublisherName()
	md.Dates = dates(m.Date)
	if lang := helpers.LanguageCode3(m.Language); lang != "" {
		md.Languages = []ID{{ID: lang}}
	}
	if l := m.License; l != nil {
		if l.ID != "" {
			md.Rights = []Rights{{ID: strings.ToLower(l.ID)}}
		} else if l.URL != "" {
			md.Rights = []Rights{{Link: l.URL}}
		}
	}

	for _, d := range m.Descriptions {
		if d.Type == "Abstract" && md.Description == "" {
			md.Description = d.Description
			continue
		}
		id, ok := descriptionTypeIDs[d.Type]
		if !ok {
			id = "other"
		}
		md.AdditionalDescriptions = append(md.AdditionalDescriptions, Description{Description: d.Description, Type: ID{ID: id}})
	}

	for _, s := range m.Subjects {
		md.Subjects = append(md.Subjects, Subject{Subject: s.Subject})
	}

	for _, id := range m.Identifiers {
		if id.IdentifierType == hub.IdentifierDOI && id.Identifier == m.ID {
			continue
		}
		md.Identifiers = append(md.Identifiers, Identifier{Identifier: id.Identifier, Scheme: strings.ToLower(id.IdentifierType)})
	}

	for _, r := range m.Relations {
		relType, ok := crosswalk.Lookup("commonmeta_relation_invenio", r.Type)
		if !ok || relType == "" {
			continue
		}
		id, scheme := schemeOf(r.ID)
		md.RelatedIdentifiers = append(md.RelatedIdentifiers, RelatedIdentifier{Identifier: id, Scheme: scheme, RelationType: ID{ID: relType}})
	}

	for _, fr := range m.FundingReferences {
		f := Funding{Funder: Funder{Name: fr.FunderName}}
		if ror := hub.NormalizeROR(fr.FunderIdentifier); ror != "" {
			f.Funder.ID = strings.TrimPrefix(ror, "https://ror.org/")
		}
		if fr.AwardNumber != "" || fr.AwardTitle != "" || fr.AwardURI != "" {
			f.Award = &Award{Number: fr.AwardNumber}
			if fr.AwardTitle != "" {
				f.Award.Title = map[string]string{"en": fr.AwardTitle}
			}
			if fr.AwardURI != "" {
				f.Award.Identifiers = []Identifier{{Identifier: fr.AwardURI, Scheme: "url"}}
			}
		}
		md.Funding = append(md.Funding, f)
	}

	for _, ref := range m.References {
		r := Reference{Reference: ref.Unstructured}
		if r.Reference == "" {
			r.Reference = ref.Title
		}
		if ref.ID != "" {
			r.Identifier, r.Scheme = schemeOf(ref.ID)
			if r.Reference == "" {
				r.Reference = ref.ID
			}
		}
		if r.Reference != "" {
			md.References = append(md.References, r)
		}
	}

	rec.CustomFields = customFields(m.Container)
	return rec
}

func creator(c hub.Contributor) Creator {
	p := PersonOrOrg{Type: "personal", GivenName: c.GivenName, FamilyName: c.FamilyName}
	if c.Type == hub.Organization {
		p = PersonOrOrg{Type: "organizational", Name: c.Name}
		if ror := hub.NormalizeROR(c.ID); ror != "" {
			p.Identifiers = []Identifier{{Identifier: strings.TrimPrefix(ror, "https://ror.org/"), Scheme: "ror"}}
		}
	} else {
		if p.FamilyName == "" {
			p.FamilyName = c.Name
		}
		if orcid := c.ORCID(); orcid != "" {
			p.Identifiers = []Identifier{{Identifier: orcid, Scheme: "orcid"}}
		}
	}
	out := Creator{PersonOrOrg: p}
	for _, a := range c.Affiliations {
		aff := Affiliation{Name: a.Name}
		if ror := hub.NormalizeROR(a.ID); ror != "" {
			aff.ID = strings.TrimPrefix(ror, "https://ror.org/")
		}
		out.Affiliations = append(out.Affiliations, aff)
	}
	return out
}

func dates(d hub.Date) []Date {
	var out []Date
	for _, x := range []struct{ id, date string }{
		{"accepted", d.Accepted},
		{"available", d.Available},
		{"created", d.Created},
		{"submitted", d.Submitted},
		{"updated", d.Updated},
		{"withdrawn", d.Withdrawn},
	} {
		if x.date != "" {
			out = append(out, Date{Date: x.date, Type: ID{ID: x.id}})
		}
	}
	return out
}

// schemeOf splits a resolvable identifier into the bare value and its
// InvenioRDM scheme.
func schemeOf(id string) (string, string) {
	if doi := hub.NormalizeDOI(id); doi != "" {
		return doi, "doi"
	}
	if issn, ok := strings.CutPrefix(id, "https://portal.issn.org/resource/ISSN/"); ok {
		return issn, "issn"
	}
	if arxiv, ok := strings.CutPrefix(id, "https://arxiv.org/abs/"); ok {
		return arxiv, "arxiv"
	}
	switch hub.DetectIdentifierType(id) {
	case hub.IdentifierURL:
		return id, "url"
	case hub.IdentifierISBN:
		return id, "isbn"
	case hub.IdentifierHandle:
		return id, "handle"
	}
	return id, "other"
}

// customFields writes the venue into the journal or imprint namespace.
func customFields(c *hub.Container) map[string]any {
	if c == nil {
		return nil
	}
	pages := format.PageRange(c.FirstPage, c.LastPage)
	switch c.Type {
	case "Book", "BookSeries", "Proceedings":
		imprint := map[string]any{}
		set(imprint, "title", c.Title)
		set(imprint, "pages", pages)
		if c.IdentifierType == hub.IdentifierISBN {
			set(imprint, "isbn", c.Identifier)
		}
		if len(imprint) == 0 {
			return nil
		}
		return map[string]any{"imprint:imprint": imprint}
	case "Journal", "Periodical", "":
		journal := map[string]any{}
		set(journal, "title", c.Title)
		set(journal, "volume", c.Volume)
		set(journal, "issue", c.Issue)
		set(journal, "pages", pages)
		if c.IdentifierType == hub.IdentifierISSN {
			set(journal, "issn", c.Identifier)
		}
		if len(journal) == 0 {
			return nil
		}
		return map[string]any{"journal:journal": journal}
	}
	return nil
}

func set(m map[string]any, key, val string) {
	if val != "" {
		m[key] = val
	}
}
