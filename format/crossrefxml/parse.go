package crossrefxml

import (
	"errors"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/beevik/etree"

	"github.com/lehigh-university-libraries/commonmeta/contributor"
	"github.com/lehigh-university-libraries/commonmeta/crosswalk"
	"github.com/lehigh-university-libraries/commonmeta/format"
	"github.com/lehigh-university-libraries/commonmeta/helpers"
	"github.com/lehigh-university-libraries/commonmeta/hub"
	"github.com/lehigh-university-libraries/commonmeta/value"
)

// Parse reads a Crossref deposit or unixsd query result and returns one
// record per deposited work (journal article, chapter, paper, ...).
func (f *Format) Parse(r io.Reader, opts *format.ParseOptions) ([]*hub.Metadata, error) {
	opts = format.ParseOptionsOrDefault(opts)
	data, err := format.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return []*hub.Metadata{hub.NotFound(format.RecordID(opts))}, nil
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, format.Malformed(f.Name(), opts, err)
	}
	root := doc.Root()
	if root == nil {
		return nil, format.Malformed(f.Name(), opts, errors.New("no root element"))
	}
	switch root.Tag {
	case "doi_batch", "crossref_result", "doi_records", "doi_record", "crossref":
	default:
		return nil, format.Malformed(f.Name(), opts, fmt.Errorf("unexpected root element %s", root.Tag))
	}

	records := Read(root, opts)
	if len(records) == 0 {
		return []*hub.Metadata{hub.NotFound(format.RecordID(opts))}, nil
	}
	return records, nil
}

// Read walks the works below root. A query result whose status is not
// "resolved" has no works.
func Read(root *etree.Element, opts *format.ParseOptions) []*hub.Metadata {
	opts = format.ParseOptionsOrDefault(opts)
	if q := root.FindElement(".//query"); q != nil {
		if status := q.SelectAttrValue("status", "resolved"); status != "resolved" {
			return nil
		}
	}

	parent := root.FindElement(".//crossref")
	if parent == nil {
		parent = root.FindElement(".//body")
	}
	if parent == nil {
		return nil
	}

	var records []*hub.Metadata
	for _, e := range parent.ChildElements() {
		switch e.Tag {
		case "journal":
			records = append(records, extractJournalRecords(e, opts)...)
		case "book":
			records = append(records, extractBookRecords(e, opts)...)
		case "conference":
			records = append(records, extractConferenceRecords(e, opts)...)
		case "dissertation":
			m := readWork(e, "Dissertation", opts)
			if name := text(e, "institution/institution_name"); name != "" {
				m.Publisher = &hub.Publisher{Name: name}
			}
			records = append(records, m)
		case "database":
			records = append(records, extractDatabaseRecords(e, opts)...)
		case "posted_content":
			m := readWork(e, "Article", opts)
			if name := text(e, "institution/institution_name"); name != "" {
				m.Container = &hub.Container{Type: "Repository", Title: name}
			}
			records = append(records, m)
		case "peer_review":
			records = append(records, readWork(e, "PeerReview", opts))
		}
	}
	for _, m := range records {
		hub.Compact(m)
	}
	return records
}

// extractJournalRecords pulls articles from a journal, enriching each with
// journal-level metadata (title, ISSN, volume, issue).
func extractJournalRecords(j *etree.Element, opts *format.ParseOptions) []*hub.Metadata {
	var records []*hub.Metadata
	jm := j.FindElement("journal_metadata")
	ji := j.FindElement("journal_issue")

	for _, article := range j.SelectElements("journal_article") {
		m := readWork(article, "JournalArticle", opts)
		c := containerOf(m)
		c.Type = "Journal"
		if jm != nil {
			c.Title = text(jm, "full_title")
			c.Identifier = issn(jm)
			if c.Identifier != "" {
				c.IdentifierType = hub.IdentifierISSN
			}
		}
		if ji != nil {
			c.Volume = text(ji, "journal_volume/volume")
			c.Issue = text(ji, "issue")
			if m.Date.Published == "" {
				m.Date.Published = readPublicationDate(ji.SelectElements("publication_date"))
			}
		}
		m.Container = c
		records = append(records, m)
	}
	return records
}

// extractBookRecords returns one record per chapter, or the book itself
// when it has no content items.
func extractBookRecords(b *etree.Element, opts *format.ParseOptions) []*hub.Metadata {
	bm := b.FindElement("book_metadata")
	if bm == nil {
		bm = b.FindElement("book_series_metadata")
	}
	if bm == nil {
		bm = b.FindElement("book_set_metadata")
	}
	if bm == nil {
		return nil
	}

	items := b.SelectElements("content_item")
	if len(items) == 0 {
		m := readWork(bm, "Book", opts)
		setPublisher(m, bm)
		if isbn := text(bm, "isbn"); isbn != "" {
			m.Identifiers = append(m.Identifiers, hub.Identifier{Identifier: isbn, IdentifierType: hub.IdentifierISBN})
		}
		m.Version = text(bm, "edition_number")
		return []*hub.Metadata{m}
	}

	var records []*hub.Metadata
	for _, item := range items {
		m := readWork(item, "BookChapter", opts)
		c := containerOf(m)
		c.Type = "Book"
		c.Title = text(bm, "titles/title")
		if isbn := text(bm, "isbn"); isbn != "" {
			c.Identifier, c.IdentifierType = isbn, hub.IdentifierISBN
		}
		m.Container = c
		setPublisher(m, bm)
		if m.Date.Published == "" {
			m.Date.Published = readPublicationDate(bm.SelectElements("publication_date"))
		}
		if doi := text(bm, "doi_data/doi"); doi != "" {
			m.Relations = append(m.Relations, hub.Relation{ID: hub.DOIAsURL(doi), Type: "IsPartOf"})
		}
		records = append(records, m)
	}
	return records
}

// extractConferenceRecords pulls papers from a conference proceeding.
func extractConferenceRecords(e *etree.Element, opts *format.ParseOptions) []*hub.Metadata {
	pm := e.FindElement("proceedings_metadata")
	var records []*hub.Metadata
	for _, paper := range e.SelectElements("conference_paper") {
		m := readWork(paper, "ProceedingsArticle", opts)
		c := containerOf(m)
		c.Type = "Proceedings"
		if pm != nil {
			c.Title = text(pm, "proceedings_title")
			setPublisher(m, pm)
			if m.Date.Published == "" {
				m.Date.Published = readPublicationDate(pm.SelectElements("publication_date"))
			}
		}
		if name := text(e, "event_metadata/conference_name"); name != "" {
			if c.Title == "" {
				c.Title = name
			}
			_ = m.SetExtra("conference_name", name)
		}
		m.Container = c
		records = append(records, m)
	}
	return records
}

func extractDatabaseRecords(e *etree.Element, opts *format.ParseOptions) []*hub.Metadata {
	dm := e.FindElement("database_metadata")
	works := e.FindElements("component_list/component")
	works = append(works, e.SelectElements("dataset")...)
	if len(works) == 0 && dm != nil {
		m := readWork(dm, "Database", opts)
		setPublisher(m, dm)
		return []*hub.Metadata{m}
	}

	var records []*hub.Metadata
	for _, w := range works {
		m := readWork(w, "Dataset", opts)
		if dm != nil {
			m.Container = &hub.Container{Type: "Database", Title: text(dm, "titles/title")}
			setPublisher(m, dm)
		}
		if m.Date.Published == "" {
			m.Date.Published = readPublicationDate(w.FindElements("database_date/publication_date"))
		}
		records = append(records, m)
	}
	return records
}

// readWork reads the elements every work type shares.
func readWork(e *etree.Element, commonmetaType string, opts *format.ParseOptions) *hub.Metadata {
	doi := text(e, "doi_data/doi")
	m := &hub.Metadata{
		ID:            format.RecordID(opts, doi),
		Type:          commonmetaType,
		URL:           hub.NormalizeURL(text(e, "doi_data/resource")),
		State:         "findable",
		Language:      e.SelectAttrValue("language", ""),
		SchemaVersion: hub.SchemaVersion,
		Provider:      "Crossref",
	}
	if opts.Provider != "" {
		m.Provider = opts.Provider
	}
	if doi := m.DOI(); doi != "" {
		m.Identifiers = []hub.Identifier{{Identifier: m.ID, IdentifierType: hub.IdentifierDOI}}
	}

	if titles := e.FindElement("titles"); titles != nil {
		for _, t := range titles.ChildElements() {
			title := hub.Title{Title: helpers.SanitizeHTML(innerMarkup(t))}
			switch t.Tag {
			case "title":
			case "subtitle":
				title.Type = "Subtitle"
			case "original_language_title":
				title.Type = "TranslatedTitle"
				title.Language = t.SelectAttrValue("language", "")
			default:
				continue
			}
			m.Titles = append(m.Titles, title)
		}
	}

	m.Contributors = readContributors(e)

	if a := e.SelectElement("abstract"); a != nil {
		m.Descriptions = []hub.Description{{Description: format.Description(innerMarkup(a), opts), Type: "Abstract"}}
	} else if d := text(e, "description"); d != "" {
		m.Descriptions = []hub.Description{{Description: format.Description(d, opts), Type: "Abstract"}}
	}

	m.Date.Published = readPublicationDate(e.SelectElements("publication_date"))
	for _, tag := range []string{"posted_date", "approval_date", "review_date"} {
		if m.Date.Published == "" {
			m.Date.Published = readPublicationDate(e.SelectElements(tag))
		}
	}
	m.Date.Accepted = readPublicationDate(e.SelectElements("acceptance_date"))

	if first := text(e, "pages/first_page"); first != "" {
		m.Container = &hub.Container{FirstPage: first, LastPage: text(e, "pages/last_page")}
	}

	for _, p := range e.SelectElements("program") {
		switch {
		case p.SelectElement("license_ref") != nil:
			m.License = readLicense(p)
		case p.SelectElement("assertion") != nil:
			m.FundingReferences = append(m.FundingReferences, readFunding(p)...)
		case p.SelectElement("related_item") != nil:
			m.Relations = append(m.Relations, readRelations(p)...)
		}
	}

	m.References = readCitations(e.FindElements("citation_list/citation"))
	for _, res := range e.FindElements("doi_data/collection/item/resource") {
		if u := hub.NormalizeURL(strings.TrimSpace(res.Text())); u != "" {
			m.Files = append(m.Files, hub.File{URL: u, MimeType: res.SelectAttrValue("mime_type", "")})
		}
	}
	return m
}

// readContributors reads the contributors element, or the bare person_name
// of a dissertation.
func readContributors(e *etree.Element) []hub.Contributor {
	var elements []*etree.Element
	if c := e.SelectElement("contributors"); c != nil {
		elements = c.ChildElements()
	} else {
		elements = e.SelectElements("person_name")
	}

	var out []hub.Contributor
	for _, el := range elements {
		role := crosswalk.Translate("crossref_role_commonmeta", el.SelectAttrValue("contributor_role", "author"))
		var v value.Value
		switch el.Tag {
		case "person_name":
			fields := map[string]any{
				"given":  text(el, "given_name"),
				"family": text(el, "surname"),
				"ORCID":  text(el, "ORCID"),
				"type":   hub.Person,
			}
			var affiliations []any
			for _, inst := range el.FindElements("affiliations/institution") {
				affiliations = append(affiliations, map[string]any{
					"name": text(inst, "institution_name"),
					"id":   text(inst, "institution_id"),
				})
			}
			for _, aff := range el.SelectElements("affiliation") {
				affiliations = append(affiliations, strings.TrimSpace(aff.Text()))
			}
			fields["affiliation"] = affiliations
			v = value.Of(fields)
		case "organization":
			v = value.Of(map[string]any{"name": strings.TrimSpace(el.Text()), "type": hub.Organization})
		default:
			continue
		}
		if c, ok := contributor.Normalize(v, contributor.WithRole(role)); ok {
			out = append(out, c)
		}
	}
	return out
}

// readPublicationDate prefers the online date.
func readPublicationDate(dates []*etree.Element) string {
	if len(dates) == 0 {
		return ""
	}
	chosen := dates[0]
	for _, d := range dates {
		if d.SelectAttrValue("media_type", "") == "online" {
			chosen = d
			break
		}
	}
	var parts []int
	for _, tag := range []string{"year", "month", "day"} {
		n, ok := value.Of(text(chosen, tag)).Int()
		if !ok {
			break
		}
		parts = append(parts, n)
	}
	return hub.DateFromParts(parts...)
}

func readLicense(p *etree.Element) *hub.License {
	refs := p.SelectElements("license_ref")
	chosen := refs[0]
	for _, r := range refs {
		if r.SelectAttrValue("applies_to", "") == "vor" {
			chosen = r
			break
		}
	}
	return format.License(strings.TrimSpace(chosen.Text()))
}

// readFunding fans a fundgroup out into one reference per award number.
func readFunding(p *etree.Element) []hub.FundingReference {
	var out []hub.FundingReference
	for _, group := range p.SelectElements("assertion") {
		if group.SelectAttrValue("name", "") != "fundgroup" {
			continue
		}
		var base hub.FundingReference
		var awards []string
		for _, a := range group.SelectElements("assertion") {
			switch a.SelectAttrValue("name", "") {
			case "funder_name":
				base.FunderName = strings.TrimSpace(a.Text())
				for _, nested := range a.SelectElements("assertion") {
					if nested.SelectAttrValue("name", "") == "funder_identifier" {
						base.FunderIdentifier = strings.TrimSpace(nested.Text())
					}
				}
			case "funder_identifier":
				base.FunderIdentifier = strings.TrimSpace(a.Text())
			case "award_number":
				awards = append(awards, strings.TrimSpace(a.Text()))
			}
		}
		if base.FunderIdentifier != "" {
			if doi := hub.DOIAsURL(base.FunderIdentifier); doi != "" {
				base.FunderIdentifier = doi
			}
			base.FunderIdentifierType = "Crossref Funder ID"
		}
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

func readRelations(p *etree.Element) []hub.Relation {
	var out []hub.Relation
	for _, item := range p.SelectElements("related_item") {
		for _, rel := range item.ChildElements() {
			if rel.Tag != "inter_work_relation" && rel.Tag != "intra_work_relation" {
				continue
			}
			relType := crosswalk.Translate("crossref_xml_relation_commonmeta", rel.SelectAttrValue("relationship-type", ""))
			if relType == "" {
				continue
			}
			id := strings.TrimSpace(rel.Text())
			switch rel.SelectAttrValue("identifier-type", "") {
			case "doi":
				id = hub.DOIAsURL(id)
			case "issn":
				if n := hub.NormalizeISSN(id); n != "" {
					id = "https://portal.issn.org/resource/ISSN/" + n
				}
			default:
				if n := hub.NormalizeID(id); n != "" {
					id = n
				}
			}
			if id != "" {
				out = append(out, hub.Relation{ID: id, Type: relType})
			}
		}
	}
	return out
}

// readCitations keeps a citation either as a DOI or as its citation
// fields.
func readCitations(citations []*etree.Element) []hub.Reference {
	var out []hub.Reference
	for _, c := range citations {
		ref := hub.Reference{Key: c.SelectAttrValue("key", "")}
		if doi := hub.DOIAsURL(text(c, "doi")); doi != "" {
			ref.ID = doi
			out = append(out, ref)
			continue
		}
		ref.Contributor = text(c, "author")
		ref.Title = text(c, "article_title")
		if ref.Title == "" {
			ref.Title = text(c, "volume_title")
		}
		ref.ContainerTitle = text(c, "journal_title")
		ref.PublicationYear = text(c, "cYear")
		ref.Volume = text(c, "volume")
		ref.Issue = text(c, "issue")
		ref.FirstPage = text(c, "first_page")
		ref.Unstructured = helpers.NormalizeWhitespace(text(c, "unstructured_citation"))
		out = append(out, ref)
	}
	return out
}

func issn(jm *etree.Element) string {
	all := jm.SelectElements("issn")
	for _, want := range []string{"electronic", "print", ""} {
		for _, e := range all {
			if want != "" && e.SelectAttrValue("media_type", "print") != want {
				continue
			}
			if n := hub.NormalizeISSN(e.Text()); n != "" {
				return n
			}
		}
	}
	return ""
}

func setPublisher(m *hub.Metadata, e *etree.Element) {
	if name := text(e, "publisher/publisher_name"); name != "" {
		m.Publisher = &hub.Publisher{Name: name}
	}
}

func containerOf(m *hub.Metadata) *hub.Container {
	if m.Container != nil {
		return m.Container
	}
	return &hub.Container{}
}

func text(e *etree.Element, path string) string {
	if x := e.FindElement(path); x != nil {
		return strings.TrimSpace(x.Text())
	}
	return ""
}

// Inline JATS and MathML-free markup mapped to HTML.
var inlineTags = map[string]string{
	"italic": "i",
	"i":      "i",
	"bold":   "b",
	"b":      "b",
	"sub":    "sub",
	"sup":    "sup",
	"p":      "p",
}

// innerMarkup renders the content of e as HTML, keeping inline formatting.
func innerMarkup(e *etree.Element) string {
	var sb strings.Builder
	for _, tok := range e.Child {
		switch t := tok.(type) {
		case *etree.CharData:
			sb.WriteString(html.EscapeString(t.Data))
		case *etree.Element:
			if t.Tag == "title" {
				continue
			}
			tag, ok := inlineTags[t.Tag]
			if !ok {
				sb.WriteString(innerMarkup(t))
				continue
			}
			sb.WriteString("<" + tag + ">" + innerMarkup(t) + "</" + tag + ">")
		}
	}
	return sb.String()
}
