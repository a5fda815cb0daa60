package openalex

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

// OpenAlex source types and the container type each one becomes.
var sourceTypes = map[string]string{
	"journal":        "Journal",
	"repository":     "Repository",
	"conference":     "Proceedings",
	"book series":    "BookSeries",
	"ebook platform": "BookSeries",
}

// OpenAlex reports licenses by short name without a version.
var licenses = map[string]string{
	"cc-by":       "CC-BY-4.0",
	"cc-by-sa":    "CC-BY-SA-4.0",
	"cc-by-nd":    "CC-BY-ND-4.0",
	"cc-by-nc":    "CC-BY-NC-4.0",
	"cc-by-nc-sa": "CC-BY-NC-SA-4.0",
	"cc-by-nc-nd": "CC-BY-NC-ND-4.0",
	"cc0":         "CC0-1.0",
	"mit":         "MIT",
}

// Keys of the ids object retained as alternate identifiers.
var alternateIDs = []struct {
	key, idType string
}{
	{"openalex", "OpenAlex"},
	{"pmid", "PMID"},
	{"pmcid", "PMCID"},
	{"mag", "MAG"},
}

// Abstracts longer than this many word positions are treated as corrupt.
const maxAbstractWords = 100000

// Parse reads an OpenAlex work, or a page of search results holding many.
func (f *Format) Parse(r io.Reader, opts *format.ParseOptions) ([]*hub.Metadata, error) {
	v, err := format.DecodeJSON(f.Name(), r, opts)
	if err != nil {
		return nil, err
	}

	if results := v.Get("results"); results.Kind() == value.Sequence {
		var records []*hub.Metadata
		for _, item := range results.Items() {
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

// Read converts a decoded OpenAlex work into a record.
func Read(v value.Value, opts *format.ParseOptions) (*hub.Metadata, error) {
	opts = format.ParseOptionsOrDefault(opts)
	if v.Kind() != value.Mapping || (v.Get("id").IsAbsent() && v.Get("title").IsAbsent() && v.Get("display_name").IsAbsent()) {
		return hub.NotFound(format.RecordID(opts)), nil
	}

	doi := firstText(v, "doi")
	if doi == "" {
		doi = v.Path("ids", "doi").Text()
	}
	m := &hub.Metadata{
		ID:            format.RecordID(opts, doi, v.Get("id").Text()),
		State:         "findable",
		SchemaVersion: hub.SchemaVersion,
		Provider:      "OpenAlex",
		Language:      v.Get("language").Text(),
	}
	if opts.Provider != "" {
		m.Provider = opts.Provider
	}

	m.Type, m.AdditionalType = readType(v)

	primary := v.Get("primary_location")
	m.URL = hub.NormalizeURL(primary.Get("landing_page_url").Text())
	if m.URL == "" && m.DOI() != "" {
		m.URL = m.ID
	}

	if title := firstText(v, "title", "display_name"); title != "" {
		m.Titles = []hub.Title{{Title: helpers.SanitizeHTML(title)}}
	}

	for _, a := range v.Get("authorships").Items() {
		if c, ok := contributor.Normalize(authorship(a), contributor.WithRole(hub.RoleAuthor)); ok {
			m.Contributors = append(m.Contributors, c)
		}
	}

	source := primary.Get("source")
	if name := source.Get("host_organization_name").Text(); name != "" {
		m.Publisher = &hub.Publisher{Name: name}
	}
	m.Container = readContainer(source, v.Get("biblio"))

	m.Date = hub.Date{
		Published: hub.NormalizeDate(v.Get("publication_date").Text()),
		Created:   v.Get("created_date").Text(),
		Updated:   hub.StripMilliseconds(v.Get("updated_date").Text()),
	}
	if m.Date.Published == "" {
		m.Date.Published = format.DateOf(v.Get("publication_year"))
	}

	if id := primary.Get("license").Text(); id != "" {
		if spdx, ok := licenses[strings.ToLower(id)]; ok {
			id = spdx
		}
		m.License = format.License(id)
	}

	if text := abstract(v.Get("abstract_inverted_index")); text != "" {
		m.Descriptions = []hub.Description{{Description: format.Description(text, opts), Type: "Abstract"}}
	}

	for _, key := range []string{"keywords", "topics"} {
		for _, s := range v.Get(key).Items() {
			if name := s.Get("display_name").Text(); name != "" {
				m.Subjects = append(m.Subjects, hub.Subject{Subject: name})
			}
		}
	}

	// referenced works are only known by their OpenAlex id
	for _, ref := range v.Get("referenced_works").Texts() {
		if id := hub.NormalizeURL(ref); id != "" {
			m.References = append(m.References, hub.Reference{ID: id})
		}
	}

	for _, g := range v.Get("grants").Items() {
		m.FundingReferences = append(m.FundingReferences, hub.FundingReference{
			FunderName:       g.Get("funder_display_name").Text(),
			FunderIdentifier: hub.NormalizeURL(g.Get("funder").Text()),
			AwardNumber:      g.Get("award_id").Text(),
		})
	}

	if pdf := hub.NormalizeURL(v.Path("best_oa_location", "pdf_url").Text()); pdf != "" {
		m.Files = []hub.File{{URL: pdf, MimeType: "application/pdf"}}
	}

	if m.DOI() != "" {
		m.Identifiers = append(m.Identifiers, hub.Identifier{Identifier: m.ID, IdentifierType: hub.IdentifierDOI})
	}
	ids := v.Get("ids")
	for _, alt := range alternateIDs {
		if id := ids.Get(alt.key).Text(); id != "" {
			m.Identifiers = append(m.Identifiers, hub.Identifier{Identifier: id, IdentifierType: alt.idType})
		}
	}

	if n, ok := v.Get("cited_by_count").Int(); ok && n > 0 {
		_ = m.SetExtra("citation_count", n)
	}
	if status := v.Path("open_access", "oa_status").Text(); status != "" {
		_ = m.SetExtra("oa_status", status)
	}

	return hub.Compact(m), nil
}

// readType prefers the Crossref type OpenAlex carries over and falls back
// to the OpenAlex work type.
func readType(v value.Value) (string, string) {
	if t, ok := crosswalk.Lookup("crossref_commonmeta", helpers.PascalCase(v.Get("type_crossref").Text())); ok && t != hub.TypeOther {
		return t, ""
	}
	oaType := v.Get("type").Text()
	t := crosswalk.Translate("openalex_commonmeta", oaType)
	if t == hub.TypeOther && oaType != "" && oaType != "other" {
		slog.Debug("unmapped openalex type", "type", oaType, "id", v.Get("id").Text())
		return t, oaType
	}
	return t, ""
}

// authorship reshapes an authorship into the shape the contributor
// normalizer reads. The OpenAlex author id is not carried over.
func authorship(a value.Value) value.Value {
	name := a.Path("author", "display_name").Text()
	if name == "" {
		name = a.Get("raw_author_name").Text()
	}
	var affiliations []any
	for _, inst := range a.Get("institutions").Items() {
		affiliations = append(affiliations, map[string]any{
			"name": inst.Get("display_name").Text(),
			"id":   inst.Get("ror").Text(),
		})
	}
	if len(affiliations) == 0 {
		for _, s := range a.Get("raw_affiliation_strings").Texts() {
			affiliations = append(affiliations, s)
		}
	}
	return value.Of(map[string]any{
		"name":        name,
		"orcid":       a.Path("author", "orcid").Text(),
		"affiliation": affiliations,
	})
}

func readContainer(source, biblio value.Value) *hub.Container {
	c := &hub.Container{
		Type:      sourceTypes[source.Get("type").Text()],
		Title:     source.Get("display_name").Text(),
		Volume:    biblio.Get("volume").Text(),
		Issue:     biblio.Get("issue").Text(),
		FirstPage: biblio.Get("first_page").Text(),
		LastPage:  biblio.Get("last_page").Text(),
	}
	if issn := hub.NormalizeISSN(source.Get("issn_l").Text()); issn != "" {
		c.Identifier, c.IdentifierType = issn, hub.IdentifierISSN
	}
	if *c == (hub.Container{}) {
		return nil
	}
	return c
}

// abstract rebuilds the text of an inverted index, which maps each word
// to the positions it occupies.
func abstract(index value.Value) string {
	if index.Kind() != value.Mapping {
		return ""
	}
	var words []string
	for _, word := range index.Keys() {
		for _, p := range index.Get(word).Items() {
			n, ok := p.Int()
			if !ok || n < 0 || n >= maxAbstractWords {
				continue
			}
			for len(words) <= n {
				words = append(words, "")
			}
			words[n] = word
		}
	}
	out := words[:0]
	for _, w := range words {
		if w != "" {
			out = append(out, w)
		}
	}
	return strings.Join(out, " ")
}

func firstText(v value.Value, keys ...string) string {
	for _, k := range keys {
		if s := strings.TrimSpace(v.Get(k).Text()); s != "" {
			return s
		}
	}
	return ""
}
