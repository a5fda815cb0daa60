package commonmeta

import (
	"io"

	"github.com/lehigh-university-libraries/commonmeta/format"
	"github.com/lehigh-university-libraries/commonmeta/hub"
)

// Serialize writes hub records as commonmeta JSON.
func (f *Format) Serialize(w io.Writer, records []*hub.Metadata, opts *format.SerializeOptions) error {
	opts = format.SerializeOptionsOrDefault(opts)

	var docs []*Document
	for _, record := range format.Live(records) {
		// Step 1: Convert hub record to a commonmeta document
		docs = append(docs, hubToSpoke(record))
	}

	// Step 2: Marshal to JSON
	return format.EncodeJSONRecords(w, docs, opts.Pretty)
}

// hubToSpoke converts a hub record to a commonmeta document.
func hubToSpoke(m *hub.Metadata) *Document {
	doc := &Document{
		ID:             m.ID,
		Type:           m.Type,
		AdditionalType: m.AdditionalType,
		URL:            m.URL,
		State:          m.State,
		Language:       m.Language,
		Version:        m.Version,
		SchemaVersion:  m.SchemaVersion,
		Provider:       m.Provider,
		Extra:          m.ExtraFields(),
	}
	if doc.SchemaVersion == "" {
		doc.SchemaVersion = hub.SchemaVersion
	}

	for _, t := range m.Titles {
		doc.Titles = append(doc.Titles, Title(t))
	}
	for _, c := range m.Contributors {
		dc := Contributor{
			ID:               c.ID,
			Type:             c.Type,
			ContributorRoles: c.ContributorRoles,
			GivenName:        c.GivenName,
			FamilyName:       c.FamilyName,
			Name:             c.Name,
		}
		for _, a := range c.Affiliations {
			dc.Affiliations = append(dc.Affiliations, Affiliation(a))
		}
		doc.Contributors = append(doc.Contributors, dc)
	}
	if p := m.Publisher; p != nil {
		doc.Publisher = &Publisher{ID: p.ID, Name: p.Name}
	}
	if !m.Date.IsZero() {
		d := Date(m.Date)
		doc.Date = &d
	}
	if l := m.License; l != nil {
		doc.License = &License{ID: l.ID, URL: l.URL}
	}
	for _, d := range m.Descriptions {
		doc.Descriptions = append(doc.Descriptions, Description(d))
	}
	for _, s := range m.Subjects {
		doc.Subjects = append(doc.Subjects, Subject(s))
	}
	if c := m.Container; c != nil {
		dc := Container(*c)
		doc.Container = &dc
	}
	for _, r := range m.References {
		doc.References = append(doc.References, Reference(r))
	}
	for _, r := range m.Relations {
		doc.Relations = append(doc.Relations, Relation(r))
	}
	for _, f := range m.FundingReferences {
		doc.FundingReferences = append(doc.FundingReferences, FundingReference(f))
	}
	for _, f := range m.Files {
		doc.Files = append(doc.Files, File(f))
	}
	for _, id := range m.Identifiers {
		doc.Identifiers = append(doc.Identifiers, Identifier(id))
	}
	return doc
}
