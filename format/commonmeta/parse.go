package commonmeta

import (
	"fmt"
	"io"

	"github.com/segmentio/encoding/json"

	"github.com/lehigh-university-libraries/commonmeta/format"
	"github.com/lehigh-university-libraries/commonmeta/hub"
	"github.com/lehigh-university-libraries/commonmeta/value"
)

// Parse reads one commonmeta record or an array of them.
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

// Read converts a commonmeta document. The document is already in the
// canonical shape, so reading only re-applies the normalizers.
func Read(v value.Value, opts *format.ParseOptions) (*hub.Metadata, error) {
	opts = format.ParseOptionsOrDefault(opts)
	if v.Kind() != value.Mapping || v.Get("state").Text() == hub.StateNotFound {
		return hub.NotFound(format.RecordID(opts, v.Get("id").Text())), nil
	}
	if v.Get("id").Text() == "" && v.Get("titles").IsAbsent() {
		return hub.NotFound(format.RecordID(opts)), nil
	}

	data, err := json.Marshal(v.Raw())
	if err != nil {
		return nil, fmt.Errorf("encoding commonmeta document: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, format.Malformed("commonmeta", opts, err)
	}

	m := spokeToHub(&doc)
	m.ID = format.RecordID(opts, doc.ID)
	if m.State == "" {
		m.State = "findable"
	}
	if m.SchemaVersion == "" {
		m.SchemaVersion = hub.SchemaVersion
	}
	if opts.Provider != "" {
		m.Provider = opts.Provider
	}
	for k, x := range doc.Extra {
		_ = m.SetExtra(k, x)
	}
	return hub.Compact(m), nil
}

// spokeToHub copies a document into a hub record, normalizing dates and
// identifiers on the way.
func spokeToHub(doc *Document) *hub.Metadata {
	m := &hub.Metadata{
		Type:           doc.Type,
		AdditionalType: doc.AdditionalType,
		URL:            hub.NormalizeURL(doc.URL),
		State:          doc.State,
		Language:       doc.Language,
		Version:        doc.Version,
		SchemaVersion:  doc.SchemaVersion,
		Provider:       doc.Provider,
	}

	for _, t := range doc.Titles {
		m.Titles = append(m.Titles, hub.Title(t))
	}
	for _, c := range doc.Contributors {
		hc := hub.Contributor{
			ID:               normalizeID(c.ID),
			Type:             c.Type,
			ContributorRoles: c.ContributorRoles,
			GivenName:        c.GivenName,
			FamilyName:       c.FamilyName,
			Name:             c.Name,
		}
		for _, a := range c.Affiliations {
			hc.Affiliations = append(hc.Affiliations, hub.Affiliation{ID: normalizeID(a.ID), Name: a.Name})
		}
		m.Contributors = append(m.Contributors, hc)
	}
	if p := doc.Publisher; p != nil {
		m.Publisher = &hub.Publisher{ID: p.ID, Name: p.Name}
	}
	if d := doc.Date; d != nil {
		m.Date = hub.Date{
			Published: hub.NormalizeDate(d.Published),
			Created:   hub.NormalizeDate(d.Created),
			Updated:   hub.NormalizeDate(d.Updated),
			Submitted: hub.NormalizeDate(d.Submitted),
			Available: hub.NormalizeDate(d.Available),
			Accepted:  hub.NormalizeDate(d.Accepted),
			Withdrawn: hub.NormalizeDate(d.Withdrawn),
		}
	}
	if l := doc.License; l != nil {
		m.License = format.License(l.ID)
		if m.License == nil {
			m.License = format.License(l.URL)
		}
	}
	for _, d := range doc.Descriptions {
		m.Descriptions = append(m.Descriptions, hub.Description(d))
	}
	for _, s := range doc.Subjects {
		m.Subjects = append(m.Subjects, hub.Subject(s))
	}
	if c := doc.Container; c != nil {
		hc := hub.Container(*c)
		m.Container = &hc
	}
	for _, r := range doc.References {
		r.ID = normalizeID(r.ID)
		m.References = append(m.References, hub.Reference(r))
	}
	for _, r := range doc.Relations {
		r.ID = normalizeID(r.ID)
		m.Relations = append(m.Relations, hub.Relation(r))
	}
	for _, f := range doc.FundingReferences {
		m.FundingReferences = append(m.FundingReferences, hub.FundingReference(f))
	}
	for _, f := range doc.Files {
		m.Files = append(m.Files, hub.File(f))
	}
	for _, id := range doc.Identifiers {
		m.Identifiers = append(m.Identifiers, hub.Identifier(id))
	}
	return m
}

// normalizeID canonicalizes resolvable identifiers, including bare ORCID
// and ROR ids, and keeps others as is.
func normalizeID(id string) string {
	if n := hub.NormalizeID(id); n != "" {
		return n
	}
	switch hub.DetectIdentifierType(id) {
	case hub.IdentifierORCID:
		return hub.NormalizeORCID(id)
	case hub.IdentifierROR:
		return hub.NormalizeROR(id)
	}
	return id
}
