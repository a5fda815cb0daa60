package jsonfeed

import (
	"io"
	"path"
	"strings"

	"github.com/lehigh-university-libraries/commonmeta/contributor"
	"github.com/lehigh-university-libraries/commonmeta/crosswalk"
	"github.com/lehigh-university-libraries/commonmeta/format"
	"github.com/lehigh-university-libraries/commonmeta/helpers"
	"github.com/lehigh-university-libraries/commonmeta/hub"
	"github.com/lehigh-university-libraries/commonmeta/value"
)

// Awards registered under these DOI prefixes name their funder.
var awardFunders = map[string]hub.FundingReference{
	"10.3030": {
		FunderName:           "European Commission",
		FunderIdentifier:     "https://doi.org/10.13039/501100000780",
		FunderIdentifierType: "Crossref Funder ID",
	},
}

// Parse reads a JSON Feed (one record per item) or a single post.
func (f *Format) Parse(r io.Reader, opts *format.ParseOptions) ([]*hub.Metadata, error) {
	v, err := format.DecodeJSON(f.Name(), r, opts)
	if err != nil {
		return nil, err
	}
	if !strings.Contains(v.Get("version").Text(), "jsonfeed.org") {
		m, err := Read(v, opts)
		if err != nil {
			return nil, err
		}
		return []*hub.Metadata{m}, nil
	}

	items := v.Get("items").Items()
	if len(items) == 0 {
		return []*hub.Metadata{hub.NotFound(format.RecordID(opts))}, nil
	}
	records := make([]*hub.Metadata, 0, len(items))
	for _, item := range items {
		m, err := Read(withBlog(item, v), opts)
		if err != nil {
			return nil, err
		}
		records = append(records, m)
	}
	return records, nil
}

// withBlog attaches the feed as the blog of an item that does not carry
// its own.
func withBlog(item, feed value.Value) value.Value {
	if item.Kind() != value.Mapping || item.Has("blog") {
		return item
	}
	fields := make(map[string]value.Value, len(item.Keys())+1)
	for _, k := range item.Keys() {
		fields[k] = item.Get(k)
	}
	fields["blog"] = feed
	return value.NewMapping(fields)
}

// Read converts one post into a record.
func Read(v value.Value, opts *format.ParseOptions) (*hub.Metadata, error) {
	opts = format.ParseOptionsOrDefault(opts)
	url := hub.NormalizeURL(firstText(v, "url", "external_url"))
	title := v.Get("title").Text()
	if v.Kind() != value.Mapping || (title == "" && url == "") {
		return hub.NotFound(format.RecordID(opts)), nil
	}
	blog := v.Get("blog")

	m := &hub.Metadata{
		ID:            format.RecordID(opts, v.Get("doi").Text(), url),
		Type:          "BlogPost",
		URL:           url,
		State:         "findable",
		SchemaVersion: hub.SchemaVersion,
		Language:      firstText(v, "language"),
		Provider:      opts.Provider,
	}
	if m.Language == "" {
		m.Language = blog.Get("language").Text()
	}
	if title != "" {
		m.Titles = []hub.Title{{Title: helpers.SanitizeHTML(title)}}
	}

	m.Contributors = contributor.NormalizeAll(firstPresent(v, "authors", "author"), contributor.WithRole(hub.RoleAuthor))
	if name := blog.Get("title").Text(); name != "" {
		m.Publisher = &hub.Publisher{Name: name}
	}

	m.Date.Published = format.DateOf(firstPresent(v, "published_at", "date_published"))
	m.Date.Updated = format.DateOf(firstPresent(v, "updated_at", "date_modified"))

	m.License = format.License(firstText(blog, "license"))
	if m.License == nil {
		m.License = format.License(firstText(v, "license"))
	}
	if abstract := firstText(v, "abstract", "summary"); abstract != "" {
		m.Descriptions = []hub.Description{{Description: format.Description(abstract, opts), Type: "Abstract"}}
	}
	for _, tag := range v.Get("tags").Texts() {
		m.Subjects = append(m.Subjects, hub.Subject{Subject: tag})
	}

	m.Container = readContainer(blog)
	if c := m.Container; c != nil && c.IdentifierType == hub.IdentifierISSN {
		m.Relations = append(m.Relations, hub.Relation{ID: "https://portal.issn.org/resource/ISSN/" + c.Identifier, Type: "IsPartOf"})
	}

	for _, ref := range firstPresent(v, "reference", "references").Items() {
		m.References = append(m.References, reference(ref))
	}

	for _, rel := range v.Get("relationships").Items() {
		relType := rel.Get("type").Text()
		for _, u := range rel.Get("urls").Texts() {
			if relType == "HasAward" {
				m.FundingReferences = append(m.FundingReferences, award(u))
				continue
			}
			t, ok := crosswalk.Lookup("jsonfeed_relation_commonmeta", relType)
			if id := hub.NormalizeID(u); ok && id != "" {
				m.Relations = append(m.Relations, hub.Relation{ID: id, Type: t})
			}
		}
	}
	for _, fr := range v.Get("funding_references").Items() {
		m.FundingReferences = append(m.FundingReferences, hub.FundingReference{
			FunderName:           fr.Get("funderName").Text(),
			FunderIdentifier:     hub.NormalizeID(fr.Get("funderIdentifier").Text()),
			FunderIdentifierType: fr.Get("funderIdentifierType").Text(),
			AwardNumber:          fr.Get("awardNumber").Text(),
			AwardURI:             fr.Get("awardUri").Text(),
			AwardTitle:           fr.Get("awardTitle").Text(),
		})
	}

	if m.DOI() != "" {
		m.Identifiers = append(m.Identifiers, hub.Identifier{Identifier: m.ID, IdentifierType: hub.IdentifierDOI})
	}
	if id := v.Get("id").Text(); hub.DetectIdentifierType(id) == hub.IdentifierUUID {
		m.Identifiers = append(m.Identifiers, hub.Identifier{Identifier: id, IdentifierType: hub.IdentifierUUID})
	}

	return hub.Compact(m), nil
}

func readContainer(blog value.Value) *hub.Container {
	if blog.Kind() != value.Mapping {
		return nil
	}
	c := &hub.Container{
		Type:     "Blog",
		Title:    blog.Get("title").Text(),
		Platform: blog.Get("generator").Text(),
	}
	if issn := hub.NormalizeISSN(blog.Get("issn").Text()); issn != "" {
		c.Identifier, c.IdentifierType = issn, hub.IdentifierISSN
	} else if home := hub.NormalizeURL(blog.Get("home_page_url").Text()); home != "" {
		c.Identifier, c.IdentifierType = home, hub.IdentifierURL
	}
	if c.Title == "" && c.Identifier == "" {
		return nil
	}
	return c
}

func reference(v value.Value) hub.Reference {
	if v.Kind() == value.Scalar {
		if id := hub.NormalizeID(v.Text()); id != "" {
			return hub.Reference{ID: id}
		}
		return hub.Reference{Unstructured: v.Text()}
	}
	return hub.Reference{
		Key:             v.Get("key").Text(),
		ID:              hub.NormalizeID(firstText(v, "id", "doi", "url")),
		Title:           v.Get("title").Text(),
		PublicationYear: v.Get("publicationYear").Text(),
		Unstructured:    v.Get("unstructured").Text(),
	}
}

// award builds a funding reference from an award URL such as a CORDIS
// project DOI.
func award(u string) hub.FundingReference {
	fr := awardFunders[hub.DOIPrefix(u)]
	fr.AwardURI = hub.NormalizeID(u)
	if fr.AwardURI == "" {
		fr.AwardURI = u
	}
	fr.AwardNumber = path.Base(strings.TrimSuffix(fr.AwardURI, "/"))
	return fr
}

func firstText(v value.Value, keys ...string) string {
	for _, k := range keys {
		if s := v.Get(k).Text(); s != "" {
			return s
		}
	}
	return ""
}

func firstPresent(v value.Value, keys ...string) value.Value {
	for _, k := range keys {
		if x := v.Get(k); !x.IsAbsent() {
			return x
		}
	}
	return value.Value{}
}
