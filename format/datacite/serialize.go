package datacite

import (
	"fmt"
	"io"
	"strings"

	"github.com/lehigh-university-libraries/commonmeta/crosswalk"
	"github.com/lehigh-university-libraries/commonmeta/format"
	"github.com/lehigh-university-libraries/commonmeta/hub"
)

// SchemaVersion is written into every record.
const SchemaVersion = "http://datacite.org/schema/kernel-4"

// Serialize writes hub records as DataCite JSON attributes. Records that
// lack one of the mandatory DataCite properties are written and reported
// in a *format.WriteError.
func (f *Format) Serialize(w io.Writer, records []*hub.Metadata, opts *format.SerializeOptions) error {
	opts = format.SerializeOptionsOrDefault(opts)

	var docs []*Attributes
	var problems []string
	for _, record := range format.Live(records) {
		// Step 1: Convert hub record to the DataCite attributes
		attrs := hubToSpoke(record)
		for _, p := range missingProperties(attrs) {
			problems = append(problems, fmt.Sprintf("%s: missing %s", label(record), p))
		}
		docs = append(docs, attrs)
	}

	// Step 2: Marshal to JSON
	if err := format.EncodeJSONRecords(w, docs, opts.Pretty); err != nil {
		return err
	}
	if len(problems) > 0 {
		return &format.WriteError{Format: f.Name(), Errors: problems}
	}
	return nil
}

// hubToSpoke converts a hub record to DataCite attributes.
func hubToSpoke(m *hub.Metadata) *Attributes {
	attrs := &Attributes{
		ID:              m.ID,
		DOI:             m.DOI(),
		URL:             m.URL,
		Types:           types(m),
		Language:        m.Language,
		Version:         m.Version,
		PublicationYear: m.PublicationYear(),
		SchemaVersion:   SchemaVersion,
	}

	// Titles
	for _, t := range m.Titles {
		attrs.Titles = append(attrs.Titles, Title{Title: t.Title, TitleType: t.Type, Lang: t.Language})
	}

	// Authors become creators, everyone else a contributor
	for _, c := range m.Contributors {
		if c.HasRole(hub.RoleAuthor) || len(c.ContributorRoles) == 0 {
			attrs.Creators = append(attrs.Creators, creator(c))
			continue
		}
		dc := creator(c)
		dc.ContributorType = crosswalk.Translate("commonmeta_role_datacite", c.ContributorRoles[0])
		attrs.Contributors = append(attrs.Contributors, dc)
	}

	if m.Publisher != nil && m.Publisher.Name != "" {
		attrs.Publisher = &Publisher{Name: m.Publisher.Name}
		if strings.HasPrefix(m.Publisher.ID, "https://ror.org/") {
			attrs.Publisher.PublisherIdentifier = m.Publisher.ID
			attrs.Publisher.PublisherIdentifierScheme = "ROR"
		}
	}

	if c := m.Container; c != nil {
		attrs.Container = &Container{
			Type:           c.Type,
			Title:          c.Title,
			Identifier:     c.Identifier,
			IdentifierType: c.IdentifierType,
			Volume:         c.Volume,
			Issue:          c.Issue,
			FirstPage:      c.FirstPage,
			LastPage:       c.LastPage,
		}
	}

	for _, s := range m.Subjects {
		attrs.Subjects = append(attrs.Subjects, Subject{Subject: s.Subject, SubjectScheme: s.SubjectScheme})
	}

	attrs.Dates = dates(m.Date)

	for _, id := range m.Identifiers {
		if id.IdentifierType == hub.IdentifierDOI && id.Identifier == m.ID {
			continue
		}
		attrs.Identifiers = append(attrs.Identifiers, Identifier{Identifier: id.Identifier, IdentifierType: id.IdentifierType})
	}

	for _, f := range m.Files {
		if f.MimeType != "" {
			attrs.Formats = append(attrs.Formats, f.MimeType)
		}
		if f.Size > 0 {
			attrs.Sizes = append(attrs.Sizes, fmt.Sprintf("%d bytes", f.Size))
		}
	}

	if l := m.License; l != nil {
		r := Rights{RightsURI: l.URL}
		if l.ID != "" {
			r.RightsIdentifier = strings.ToLower(l.ID)
			r.RightsIdentifierScheme = "SPDX"
			r.SchemeURI = "https://spdx.org/licenses/"
		}
		attrs.RightsList = []Rights{r}
	}

	for _, d := range m.Descriptions {
		descType := d.Type
		if descType == "" {
			descType = "Abstract"
		}
		attrs.Descriptions = append(attrs.Descriptions, Description{Description: d.Description, DescriptionType: descType, Lang: d.Language})
	}

	if geo, ok := m.GetExtra("geo_locations"); ok {
		if list, ok := geo.([]any); ok {
			attrs.GeoLocations = list
		}
	}

	for _, fr := range m.FundingReferences {
		attrs.FundingReferences = append(attrs.FundingReferences, FundingReference{
			FunderName:           fr.FunderName,
			FunderIdentifier:     fr.FunderIdentifier,
			FunderIdentifierType: fr.FunderIdentifierType,
			AwardNumber:          fr.AwardNumber,
			AwardURI:             fr.AwardURI,
			AwardTitle:           fr.AwardTitle,
		})
	}

	attrs.RelatedIdentifiers = relatedIdentifiers(m)
	return attrs
}

// types fills the types object. The resourceType keeps the source's own
// type when one was recorded.
func types(m *hub.Metadata) Types {
	t := Types{
		ResourceTypeGeneral: crosswalk.Translate("commonmeta_datacite", m.Type),
		SchemaOrg:           crosswalk.Translate("commonmeta_schemaorg", m.Type),
		Citeproc:            crosswalk.Translate("commonmeta_csl", m.Type),
		Bibtex:              crosswalk.Translate("commonmeta_bibtex", m.Type),
		RIS:                 crosswalk.Translate("commonmeta_ris", m.Type),
	}
	switch {
	case m.AdditionalType != "":
		t.ResourceType = m.AdditionalType
	case m.Type != t.ResourceTypeGeneral:
		t.ResourceType = m.Type
	}
	return t
}

func creator(c hub.Contributor) Creator {
	dc := Creator{
		Name:       c.DisplayName(),
		GivenName:  c.GivenName,
		FamilyName: c.FamilyName,
	}
	switch c.Type {
	case hub.Organization:
		dc.NameType = "Organizational"
	case hub.Person:
		dc.NameType = "Personal"
		if c.FamilyName != "" {
			dc.Name = c.InvertedName()
		}
	}
	switch {
	case c.ORCID() != "":
		dc.NameIdentifiers = []NameIdentifier{{NameIdentifier: c.ID, NameIdentifierScheme: "ORCID", SchemeURI: "https://orcid.org"}}
	case strings.HasPrefix(c.ID, "https://ror.org/"):
		dc.NameIdentifiers = []NameIdentifier{{NameIdentifier: c.ID, NameIdentifierScheme: "ROR", SchemeURI: "https://ror.org"}}
	}
	for _, a := range c.Affiliations {
		aff := Affiliation{Name: a.Name}
		if strings.HasPrefix(a.ID, "https://ror.org/") {
			aff.AffiliationIdentifier = a.ID
			aff.AffiliationIdentifierScheme = "ROR"
			aff.SchemeURI = "https://ror.org"
		}
		dc.Affiliation = append(dc.Affiliation, aff)
	}
	return dc
}

func dates(d hub.Date) []Date {
	var out []Date
	for _, dt := range []struct {
		value    string
		dateType string
	}{
		{d.Published, "Issued"},
		{d.Created, "Created"},
		{d.Submitted, "Submitted"},
		{d.Accepted, "Accepted"},
		{d.Available, "Available"},
		{d.Updated, "Updated"},
		{d.Withdrawn, "Withdrawn"},
	} {
		if dt.value != "" {
			out = append(out, Date{Date: dt.value, DateType: dt.dateType})
		}
	}
	return out
}

// relatedIdentifiers renders references as References and relations with
// a DataCite counterpart. Relations without one are dropped.
func relatedIdentifiers(m *hub.Metadata) []RelatedIdentifier {
	var out []RelatedIdentifier
	for _, ref := range m.References {
		if ref.ID == "" {
			continue
		}
		id, idType := relatedTarget(ref.ID)
		out = append(out, RelatedIdentifier{RelatedIdentifier: id, RelatedIdentifierType: idType, RelationType: "References"})
	}
	for _, r := range m.Relations {
		relationType := crosswalk.Translate("commonmeta_relation_datacite", r.Type)
		if relationType == "" {
			continue
		}
		id, idType := relatedTarget(r.ID)
		out = append(out, RelatedIdentifier{RelatedIdentifier: id, RelatedIdentifierType: idType, RelationType: relationType})
	}
	return out
}

func relatedTarget(id string) (string, string) {
	if doi := hub.NormalizeDOI(id); doi != "" {
		return doi, "DOI"
	}
	if issn, ok := strings.CutPrefix(id, "https://portal.issn.org/resource/ISSN/"); ok {
		return issn, "ISSN"
	}
	if strings.HasPrefix(id, "http://") || strings.HasPrefix(id, "https://") {
		return id, "URL"
	}
	return id, hub.DetectIdentifierType(id)
}

// missingProperties lists the mandatory DataCite properties attrs lacks.
func missingProperties(attrs *Attributes) []string {
	var missing []string
	if attrs.DOI == "" {
		missing = append(missing, "doi")
	}
	if len(attrs.Creators) == 0 {
		missing = append(missing, "creators")
	}
	if len(attrs.Titles) == 0 {
		missing = append(missing, "titles")
	}
	if attrs.Publisher == nil {
		missing = append(missing, "publisher")
	}
	if attrs.PublicationYear == 0 {
		missing = append(missing, "publicationYear")
	}
	return missing
}

func label(m *hub.Metadata) string {
	if m.ID != "" {
		return m.ID
	}
	if t := m.Title(); t != "" {
		return fmt.Sprintf("%q", t)
	}
	return "record"
}
