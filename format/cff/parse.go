package cff

import (
	"io"
	"strings"

	"github.com/lehigh-university-libraries/commonmeta/contributor"
	"github.com/lehigh-university-libraries/commonmeta/fetch"
	"github.com/lehigh-university-libraries/commonmeta/format"
	"github.com/lehigh-university-libraries/commonmeta/helpers"
	"github.com/lehigh-university-libraries/commonmeta/hub"
	"github.com/lehigh-university-libraries/commonmeta/value"
)

// CFF identifier types and their commonmeta names.
var identifierTypes = map[string]string{
	"doi":   hub.IdentifierDOI,
	"url":   hub.IdentifierURL,
	"swh":   "SWHID",
	"other": hub.IdentifierOther,
}

// Parse reads a CITATION.cff document.
func (f *Format) Parse(r io.Reader, opts *format.ParseOptions) ([]*hub.Metadata, error) {
	v, err := format.DecodeYAML(f.Name(), r, opts)
	if err != nil {
		return nil, err
	}
	m, err := Read(v, opts)
	if err != nil {
		return nil, err
	}
	return []*hub.Metadata{m}, nil
}

// Read converts a decoded CITATION.cff document into a record.
func Read(v value.Value, opts *format.ParseOptions) (*hub.Metadata, error) {
	opts = format.ParseOptionsOrDefault(opts)
	title := strings.TrimSpace(v.Get("title").Text())
	if v.Kind() != value.Mapping || title == "" {
		return hub.NotFound(format.RecordID(opts)), nil
	}

	doi := hub.DOIAsURL(v.Get("doi").Text())
	for _, id := range v.Get("identifiers").Items() {
		if doi == "" && id.Get("type").Text() == "doi" {
			doi = hub.DOIAsURL(id.Get("value").Text())
		}
	}

	// a CITATION.cff fetched from GitHub describes that repository
	repository := hub.NormalizeURL(v.Get("repository-code").Text())
	if repository == "" {
		if g, ok := fetch.ParseGitHubURL(opts.SourceURL); ok {
			repository = g.RepositoryURL()
		}
	}
	url := hub.NormalizeURL(v.Get("url").Text())
	if url == "" {
		url = repository
	}

	m := &hub.Metadata{
		ID:            format.RecordID(opts, doi, repository, url),
		Type:          "Software",
		URL:           url,
		State:         "findable",
		SchemaVersion: hub.SchemaVersion,
		Titles:        []hub.Title{{Title: helpers.SanitizeHTML(title)}},
		Version:       v.Get("version").Text(),
		Provider:      opts.Provider,
	}
	if v.Get("type").Text() == "dataset" {
		m.Type = "Dataset"
	}

	m.Contributors = contributor.NormalizeAll(v.Get("authors"), contributor.WithRole(hub.RoleAuthor))

	if strings.HasPrefix(repository, "https://github.com/") {
		m.Publisher = &hub.Publisher{Name: "GitHub"}
	}

	m.Date.Published = hub.NormalizeDate(v.Get("date-released").Text())
	m.License = format.License(v.Get("license").Text())

	if abstract := v.Get("abstract").Text(); abstract != "" {
		m.Descriptions = []hub.Description{{Description: format.Description(abstract, opts), Type: "Abstract"}}
	}
	for _, k := range v.Get("keywords").Texts() {
		m.Subjects = append(m.Subjects, hub.Subject{Subject: k})
	}

	if m.DOI() != "" {
		m.Identifiers = append(m.Identifiers, hub.Identifier{Identifier: m.ID, IdentifierType: hub.IdentifierDOI})
	}
	for _, id := range v.Get("identifiers").Items() {
		ident := hub.Identifier{
			Identifier:     id.Get("value").Text(),
			IdentifierType: identifierTypes[id.Get("type").Text()],
		}
		if ident.IdentifierType == hub.IdentifierDOI {
			ident.Identifier = hub.DOIAsURL(ident.Identifier)
		}
		if ident.Identifier == m.ID && ident.IdentifierType == hub.IdentifierDOI {
			continue
		}
		m.Identifiers = append(m.Identifiers, ident)
	}

	for _, ref := range v.Get("references").Items() {
		m.References = append(m.References, reference(ref))
	}

	return hub.Compact(m), nil
}

func reference(v value.Value) hub.Reference {
	ref := hub.Reference{
		ID:              hub.DOIAsURL(v.Get("doi").Text()),
		Title:           v.Get("title").Text(),
		PublicationYear: v.Get("year").Text(),
		Volume:          v.Get("volume").Text(),
		Issue:           v.Get("issue").Text(),
		FirstPage:       v.Get("start").Text(),
		LastPage:        v.Get("end").Text(),
		ContainerTitle:  v.Path("journal").Text(),
		Publisher:       v.Path("publisher", "name").Text(),
	}
	if ref.ID == "" {
		ref.ID = hub.NormalizeURL(v.Get("url").Text())
	}
	if authors := contributor.NormalizeAll(v.Get("authors")); len(authors) > 0 {
		ref.Contributor = authors[0].DisplayName()
	}
	return ref
}
