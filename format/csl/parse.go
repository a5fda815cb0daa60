package csl

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

// Container types implied by the item type.
var containerTypes = map[string]string{
	"article-journal":  "Journal",
	"article-magazine": "Periodical",
	"chapter":          "Book",
	"paper-conference": "Proceedings",
	"post-weblog":      "Blog",
	"entry-dictionary": "Book",
}

// Name lists and the commonmeta role each one carries.
var nameRoles = []struct {
	key  string
	role string
}{
	{"author", hub.RoleAuthor},
	{"editor", "Editor"},
	{"translator", "Translator"},
}

// Parse reads a CSL-JSON item or an array of items.
func (f *Format) Parse(r io.Reader, opts *format.ParseOptions) ([]*hub.Metadata, error) {
	v, err := format.DecodeJSON(f.Name(), r, opts)
	if err != nil {
		return nil, err
	}
	if v.Kind() != value.Sequence {
		m, err := Read(v, opts)
		if err != nil {
			return nil, err
		}
		return []*hub.Metadata{m}, nil
	}

	records := make([]*hub.Metadata, 0, v.Len())
	for _, item := range v.Items() {
		m, err := Read(item, opts)
		if err != nil {
			return nil, err
		}
		records = append(records, m)
	}
	return records, nil
}

// Read converts one CSL-JSON item into a record.
func Read(v value.Value, opts *format.ParseOptions) (*hub.Metadata, error) {
	opts = format.ParseOptionsOrDefault(opts)
	if v.Kind() != value.Mapping || (v.Get("title").Text() == "" && v.Get("DOI").Text() == "") {
		return hub.NotFound(format.RecordID(opts)), nil
	}

	cslType := v.Get("type").Text()
	url := hub.NormalizeURL(v.Get("URL").Text())
	m := &hub.Metadata{
		ID:            format.RecordID(opts, v.Get("DOI").Text(), v.Get("id").Text(), url),
		Type:          crosswalk.Translate("csl_commonmeta", cslType),
		URL:           url,
		State:         "findable",
		SchemaVersion: hub.SchemaVersion,
		Language:      v.Get("language").Text(),
		Version:       v.Get("version").Text(),
		Provider:      opts.Provider,
	}

	if title := v.Get("title").Text(); title != "" {
		m.Titles = append(m.Titles, hub.Title{Title: helpers.SanitizeHTML(title)})
	}
	if short := v.Get("title-short").Text(); short != "" && short != m.Title() {
		m.Titles = append(m.Titles, hub.Title{Title: short, Type: "AlternativeTitle"})
	}

	for _, nr := range nameRoles {
		m.Contributors = append(m.Contributors, contributor.NormalizeAll(v.Get(nr.key), contributor.WithRole(nr.role))...)
	}

	if p := v.Get("publisher").Text(); p != "" {
		m.Publisher = &hub.Publisher{Name: p}
	}
	m.Date.Published = format.DateOf(v.Get("issued"))
	m.Date.Submitted = format.DateOf(v.Get("submitted"))

	m.License = format.License(firstText(v, "license", "copyright"))
	if abstract := v.Get("abstract").Text(); abstract != "" {
		m.Descriptions = []hub.Description{{Description: format.Description(abstract, opts), Type: "Abstract"}}
	}
	for _, kw := range keywords(v) {
		m.Subjects = append(m.Subjects, hub.Subject{Subject: kw})
	}

	m.Container = readContainer(v, cslType)

	if m.DOI() != "" {
		m.Identifiers = append(m.Identifiers, hub.Identifier{Identifier: m.ID, IdentifierType: hub.IdentifierDOI})
	}
	for _, isbn := range v.Get("ISBN").Texts() {
		m.Identifiers = append(m.Identifiers, hub.Identifier{Identifier: isbn, IdentifierType: hub.IdentifierISBN})
	}
	for _, key := range []string{"PMID", "PMCID"} {
		if id := v.Get(key).Text(); id != "" {
			m.Identifiers = append(m.Identifiers, hub.Identifier{Identifier: id, IdentifierType: key})
		}
	}

	return hub.Compact(m), nil
}

func readContainer(v value.Value, cslType string) *hub.Container {
	c := &hub.Container{
		Type:   containerTypes[cslType],
		Title:  firstText(v, "container-title", "collection-title"),
		Volume: v.Get("volume").Text(),
		Issue:  v.Get("issue").Text(),
	}
	c.FirstPage, c.LastPage = format.Pages(v.Get("page").Text())
	if c.FirstPage == "" {
		c.FirstPage = v.Get("page-first").Text()
	}
	if issn := hub.NormalizeISSN(v.Get("ISSN").Text()); issn != "" {
		c.Identifier, c.IdentifierType = issn, hub.IdentifierISSN
	}
	if c.Title == "" && c.Identifier == "" && c.Volume == "" && c.Issue == "" && c.FirstPage == "" {
		return nil
	}
	return c
}

// keywords reads the comma separated keyword variable or a categories list.
func keywords(v value.Value) []string {
	var out []string
	for _, kw := range strings.Split(v.Get("keyword").Text(), ",") {
		if kw = strings.TrimSpace(kw); kw != "" {
			out = append(out, kw)
		}
	}
	return append(out, v.Get("categories").Texts()...)
}

func firstText(v value.Value, keys ...string) string {
	for _, k := range keys {
		if s := v.Get(k).Text(); s != "" {
			return s
		}
	}
	return ""
}
