package crossref

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

// Version of the Crossref REST API this reader follows.
const Version = "v1"

// Contributor lists of a work and the role each one carries.
var contributorKeys = []string{"author", "editor", "chair", "translator"}

// Parse reads a Crossref work, with or without the API envelope.
func (f *Format) Parse(r io.Reader, opts *format.ParseOptions) ([]*hub.Metadata, error) {
	v, err := format.DecodeJSON(f.Name(), r, opts)
	if err != nil {
		return nil, err
	}
	m, err := Read(v, opts)
	if err != nil {
		return nil, err
	}
	return []*hub.Metadata{m}, nil
}

// Read converts a decoded Crossref work into a record. An absent or empty
// work yields the not_found record.
func Read(v value.Value, opts *format.ParseOptions) (*hub.Metadata, error) {
	opts = format.ParseOptionsOrDefault(opts)
	if msg := v.Get("message"); !msg.IsAbsent() {
		v = msg
	}
	if v.Kind() != value.Mapping {
		return hub.NotFound(format.RecordID(opts)), nil
	}
	if v.Get("DOI").IsAbsent() && v.Get("title").IsAbsent() {
		return hub.NotFound(format.RecordID(opts)), nil
	}

	m := &hub.Metadata{
		ID:            format.RecordID(opts, v.Get("DOI").Text()),
		State:         "findable",
		SchemaVersion: hub.SchemaVersion,
		Provider:      "Crossref",
		Language:      v.Get("language").Text(),
	}
	if opts.Provider != "" {
		m.Provider = opts.Provider
	}

	crossrefType := helpers.PascalCase(v.Get("type").Text())
	m.Type = crosswalk.Translate("crossref_commonmeta", crossrefType)
	if m.Type == hub.TypeOther && crossrefType != "" && crossrefType != hub.TypeOther {
		slog.Debug("unmapped crossref type", "type", crossrefType, "doi", v.Get("DOI").Text())
		m.AdditionalType = crossrefType
	}

	m.URL = hub.NormalizeURL(v.Path("resource", "primary", "URL").Text())
	if m.URL == "" {
		m.URL = hub.NormalizeURL(v.Get("URL").Text())
	}

	for _, t := range v.Get("title").Texts() {
		m.Titles = append(m.Titles, hub.Title{Title: helpers.SanitizeHTML(t)})
	}
	for _, t := range v.Get("subtitle").Texts() {
		m.Titles = append(m.Titles, hub.Title{Title: helpers.SanitizeHTML(t), Type: "Subtitle"})
	}
	for _, t := range v.Get("original-title").Texts() {
		m.Titles = append(m.Titles, hub.Title{Title: helpers.SanitizeHTML(t), Type: "TranslatedTitle"})
	}

	for _, key := range contributorKeys {
		role := crosswalk.Translate("crossref_role_commonmeta", key)
		m.Contributors = append(m.Contributors, contributor.NormalizeAll(v.Get(key), contributor.WithRole(role))...)
	}

	if name := v.Get("publisher").Text(); name != "" {
		m.Publisher = &hub.Publisher{Name: name}
		if member := v.Get("member").Text(); member != "" {
			m.Publisher.ID = "https://api.crossref.org/members/" + member
		}
	}

	m.Date = readDates(v)
	m.License = readLicense(v)

	if abstract := v.Get("abstract").Text(); abstract != "" {
		m.Descriptions = []hub.Description{{Description: format.Description(abstract, opts), Type: "Abstract"}}
	}
	for _, s := range v.Get("subject").Texts() {
		m.Subjects = append(m.Subjects, hub.Subject{Subject: s})
	}

	m.Container = readContainer(v, m.Type)
	if m.Container != nil && m.Container.IdentifierType == hub.IdentifierISSN {
		m.Relations = append(m.Relations, hub.Relation{
			ID:   "https://portal.issn.org/resource/ISSN/" + m.Container.Identifier,
			Type: "IsPartOf",
		})
	}
	m.Relations = append(m.Relations, readRelations(v.Get("relation"))...)
	m.References = readReferences(v.Get("reference"))
	m.FundingReferences = readFunding(v.Get("funder"))
	m.Files = readFiles(v.Get("link"))

	if doi := m.DOI(); doi != "" {
		m.Identifiers = append(m.Identifiers, hub.Identifier{Identifier: m.ID, IdentifierType: hub.IdentifierDOI})
	}
	for _, isbn := range v.Get("ISBN").Texts() {
		m.Identifiers = append(m.Identifiers, hub.Identifier{Identifier: isbn, IdentifierType: hub.IdentifierISBN})
	}
	for _, alt := range v.Get("alternative-id").Texts() {
		if !strings.EqualFold(alt, m.DOI()) {
			m.Identifiers = append(m.Identifiers, hub.Identifier{Identifier: alt, IdentifierType: hub.IdentifierOther})
		}
	}

	if n, ok := v.Get("is-referenced-by-count").Int(); ok && n > 0 {
		if err := m.SetExtra("citation_count", n); err != nil {
			slog.Debug("dropping crossref citation count", "doi", m.DOI(), "err", err)
		}
	}

	return hub.Compact(m), nil
}

func readDates(v value.Value) hub.Date {
	var d hub.Date
	for _, key := range []string{"published", "issued", "published-online", "published-print", "posted"} {
		if d.Published = format.DateOf(v.Get(key)); d.Published != "" {
			break
		}
	}
	d.Created = hub.StripMilliseconds(v.Path("created", "date-time").Text())
	d.Updated = hub.StripMilliseconds(v.Path("deposited", "date-time").Text())
	d.Accepted = format.DateOf(v.Get("accepted"))
	if d.Accepted == "" {
		d.Accepted = format.DateOf(v.Get("approved"))
	}
	return d
}

// readLicense prefers the license of the version of record.
func readLicense(v value.Value) *hub.License {
	licenses := v.Get("license").Items()
	if len(licenses) == 0 {
		return nil
	}
	chosen := licenses[0]
	for _, l := range licenses {
		if l.Get("content-version").Text() == "vor" {
			chosen = l
			break
		}
	}
	return format.License(chosen.Get("URL").Text())
}

// Container types by commonmeta type.
var containerTypes = map[string]string{
	"JournalArticle":     "Journal",
	"JournalIssue":       "Journal",
	"JournalVolume":      "Journal",
	"BookChapter":        "Book",
	"BookPart":           "Book",
	"BookSection":        "Book",
	"Entry":              "Book",
	"ProceedingsArticle": "Proceedings",
	"Article":            "Repository",
	"Component":          "Periodical",
	"Dataset":            "Database",
	"PeerReview":         "Periodical",
}

func readContainer(v value.Value, commonmetaType string) *hub.Container {
	c := &hub.Container{
		Type:   containerTypes[commonmetaType],
		Title:  v.Get("container-title").Text(),
		Volume: v.Get("volume").Text(),
		Issue:  v.Get("issue").Text(),
	}
	c.FirstPage, c.LastPage = format.Pages(v.Get("page").Text())

	if issn := issnOf(v); issn != "" {
		c.Identifier, c.IdentifierType = issn, hub.IdentifierISSN
	} else if isbn := isbnOf(v); isbn != "" && commonmetaType != "Book" {
		c.Identifier, c.IdentifierType = isbn, hub.IdentifierISBN
	}
	if commonmetaType == "Article" {
		// posted content lives on the institution's server
		c.Title = v.Path("institution", "name").Text()
	}
	if c.Title == "" && c.Identifier == "" && c.Volume == "" && c.FirstPage == "" {
		return nil
	}
	return c
}

// issnOf returns the electronic ISSN, falling back to print and then to
// any ISSN listed.
func issnOf(v value.Value) string {
	typed := v.Get("issn-type").Items()
	for _, want := range []string{"electronic", "print"} {
		for _, t := range typed {
			if t.Get("type").Text() == want {
				if issn := hub.NormalizeISSN(t.Get("value").Text()); issn != "" {
					return issn
				}
			}
		}
	}
	for _, s := range v.Get("ISSN").Texts() {
		if issn := hub.NormalizeISSN(s); issn != "" {
			return issn
		}
	}
	return ""
}

func isbnOf(v value.Value) string {
	typed := v.Get("isbn-type").Items()
	for _, want := range []string{"electronic", "print"} {
		for _, t := range typed {
			if t.Get("type").Text() == want {
				return t.Get("value").Text()
			}
		}
	}
	return v.Get("ISBN").Text()
}

// readReferences keeps a reference either as a DOI or as its citation
// fields, never both.
func readReferences(v value.Value) []hub.Reference {
	var out []hub.Reference
	for _, item := range v.Items() {
		ref := hub.Reference{Key: item.Get("key").Text()}
		if doi := hub.DOIAsURL(item.Get("DOI").Text()); doi != "" {
			ref.ID = doi
			out = append(out, ref)
			continue
		}
		ref.Contributor = item.Get("author").Text()
		ref.Title = firstNonEmpty(item.Get("article-title").Text(), item.Get("volume-title").Text())
		ref.ContainerTitle = firstNonEmpty(item.Get("journal-title").Text(), item.Get("series-title").Text())
		ref.PublicationYear = item.Get("year").Text()
		ref.Volume = item.Get("volume").Text()
		ref.Issue = item.Get("issue").Text()
		ref.FirstPage = item.Get("first-page").Text()
		ref.Unstructured = helpers.NormalizeWhitespace(item.Get("unstructured").Text())
		out = append(out, ref)
	}
	return out
}

func readRelations(v value.Value) []hub.Relation {
	var out []hub.Relation
	for _, key := range v.Keys() {
		relType := crosswalk.Translate("crossref_relation_commonmeta", key)
		if relType == "" {
			slog.Debug("dropping unmapped crossref relation", "relation", key)
			continue
		}
		for _, item := range v.Get(key).Items() {
			id := item.Get("id").Text()
			switch strings.ToLower(item.Get("id-type").Text()) {
			case "doi":
				id = hub.DOIAsURL(id)
			case "issn":
				if issn := hub.NormalizeISSN(id); issn != "" {
					id = "https://portal.issn.org/resource/ISSN/" + issn
				}
			case "uri":
				id = hub.NormalizeURL(id)
			}
			if id != "" {
				out = append(out, hub.Relation{ID: id, Type: relType})
			}
		}
	}
	return out
}

// readFunding emits one funding reference per award; a funder without
// awards yields a single reference.
func readFunding(v value.Value) []hub.FundingReference {
	var out []hub.FundingReference
	for _, funder := range v.Items() {
		base := hub.FundingReference{FunderName: funder.Get("name").Text()}
		if doi := hub.DOIAsURL(funder.Get("DOI").Text()); doi != "" {
			base.FunderIdentifier = doi
			base.FunderIdentifierType = "Crossref Funder ID"
		}
		awards := funder.Get("award").Texts()
		if len(awards) == 0 {
			out = append(out, base)
			continue
		}
		for _, award := range awards {
			ref := base
			ref.AwardNumber = award
			out = append(out, ref)
		}
	}
	return out
}

func readFiles(v value.Value) []hub.File {
	var out []hub.File
	for _, link := range v.Items() {
		u := hub.NormalizeURL(link.Get("URL").Text())
		if u == "" {
			continue
		}
		mime := link.Get("content-type").Text()
		if mime == "unspecified" {
			mime = ""
		}
		out = append(out, hub.File{URL: u, MimeType: mime})
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, s := range values {
		if s != "" {
			return s
		}
	}
	return ""
}
