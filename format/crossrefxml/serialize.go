package crossrefxml

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lehigh-university-libraries/commonmeta/crosswalk"
	"github.com/lehigh-university-libraries/commonmeta/format"
	"github.com/lehigh-university-libraries/commonmeta/helpers"
	"github.com/lehigh-university-libraries/commonmeta/hub"
	"github.com/lehigh-university-libraries/commonmeta/license"
)

// Serialize writes hub records as one Crossref deposit. Records whose type
// has no Crossref element family, or that lack a DOI, are left out of the
// deposit and reported in a *format.WriteError; the deposit is written
// regardless.
func (f *Format) Serialize(w io.Writer, records []*hub.Metadata, opts *format.SerializeOptions) error {
	opts = format.SerializeOptionsOrDefault(opts)

	// Step 1: Convert hub records to the deposit structure
	deposit, problems := hubToSpoke(format.Live(records), opts)

	// Step 2: Marshal to XML
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	encoder := xml.NewEncoder(w)
	if opts.Pretty {
		encoder.Indent("", "  ")
	}
	if err := encoder.Encode(deposit); err != nil {
		return fmt.Errorf("encoding crossref deposit: %w", err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return err
	}

	if len(problems) > 0 {
		return &format.WriteError{Format: f.Name(), Errors: problems}
	}
	return nil
}

// hubToSpoke builds the deposit. It returns one message per record that
// could not be deposited or is missing a required element.
func hubToSpoke(records []*hub.Metadata, opts *format.SerializeOptions) (*XMLDeposit, []string) {
	timestamp := batchTimestamp(records, opts)
	deposit := &XMLDeposit{
		XMLNS:     namespaceCrossref,
		XSI:       namespaceXSI,
		JATS:      namespaceJATS,
		FR:        namespaceFundref,
		AI:        namespaceAccess,
		Rel:       namespaceRelations,
		SchemaLoc: schemaLocationCrossref,
		Version:   Version,
		Head: &XMLHead{
			DoiBatchID: batchID(records, timestamp),
			Timestamp:  timestamp,
			Depositor: &XMLDepositor{
				DepositorName: opts.Depositor,
				EmailAddress:  opts.Email,
			},
			Registrant: opts.Registrant,
		},
		Body: &XMLBody{},
	}

	var problems []string
	for _, m := range records {
		for _, p := range addRecord(deposit.Body, m) {
			problems = append(problems, recordLabel(m)+": "+p)
		}
	}
	if len(records) == 0 {
		problems = append(problems, "no records to deposit")
	}
	return deposit, problems
}

// addRecord places m into the element family its type selects. Types
// without a family are not deposited.
func addRecord(body *XMLBody, m *hub.Metadata) []string {
	crossrefType := crosswalk.Translate("commonmeta_crossref", m.Type)
	b := &builder{m: m}

	switch crossrefType {
	case "JournalArticle":
		body.Journal = append(body.Journal, b.journal())
	case "Book":
		body.Book = append(body.Book, b.book())
	case "BookChapter", "BookPart", "BookSection":
		body.Book = append(body.Book, b.bookChapter())
	case "ProceedingsArticle":
		body.Conference = append(body.Conference, b.conference())
	case "Dissertation":
		body.Dissertation = append(body.Dissertation, b.dissertation())
	case "Dataset", "Database":
		body.Database = append(body.Database, b.database())
	case "PostedContent":
		body.PostedContent = append(body.PostedContent, b.postedContent())
	case "PeerReview":
		body.PeerReview = append(body.PeerReview, b.peerReview())
	default:
		return []string{fmt.Sprintf("unsupported type %s", m.Type)}
	}

	if m.DOI() == "" {
		b.problem("missing doi")
	}
	return b.problems
}

func recordLabel(m *hub.Metadata) string {
	if m.ID != "" {
		return m.ID
	}
	if t := m.Title(); t != "" {
		return fmt.Sprintf("%q", t)
	}
	return "record"
}

// batchTimestamp is the deposit timestamp. Without one in opts it is
// derived from the newest record date so output is reproducible.
func batchTimestamp(records []*hub.Metadata, opts *format.SerializeOptions) string {
	const layout = "20060102150405"
	if !opts.Timestamp.IsZero() {
		return opts.Timestamp.UTC().Format(layout)
	}
	var newest time.Time
	for _, m := range records {
		for _, d := range []string{m.Date.Updated, hub.PrimaryDate(m.Date)} {
			if t, ok := parseTime(d); ok && t.After(newest) {
				newest = t
			}
		}
	}
	if newest.IsZero() {
		newest = time.Unix(0, 0)
	}
	return newest.UTC().Format(layout)
}

func parseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	p := hub.PartsFromISO(s)
	if p.Year == 0 {
		return time.Time{}, false
	}
	month, day := max(p.Month, 1), max(p.Day, 1)
	return time.Date(p.Year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
}

// batchID is a name-based UUID over the deposited DOIs and the timestamp.
func batchID(records []*hub.Metadata, timestamp string) string {
	var sb strings.Builder
	for _, m := range records {
		sb.WriteString(m.DOI())
		sb.WriteByte('\n')
	}
	sb.WriteString(timestamp)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(sb.String())).String()
}

// builder converts one record. Missing required elements are collected
// as problems rather than aborting the deposit.
type builder struct {
	m        *hub.Metadata
	problems []string
}

func (b *builder) problem(msg string, args ...any) {
	b.problems = append(b.problems, fmt.Sprintf(msg, args...))
}

func (b *builder) journal() *XMLJournal {
	m := b.m
	c := container(m)
	j := &XMLJournal{
		JournalMetadata: &XMLJournalMetadata{
			Language:  m.Language,
			FullTitle: c.Title,
		},
		JournalArticle: &XMLJournalArticle{
			PublicationType: "full_text",
			Language:        m.Language,
			Titles:          b.titles(),
			Contributors:    contributors(m.Contributors),
			Abstract:        abstract(m),
			PublicationDate: publicationDate(m.Date.Published, "online"),
			AcceptanceDate:  publicationDate(m.Date.Accepted, ""),
			Pages:           pages(c),
			FundingProgram:  fundingProgram(m),
			AccessProgram:   accessProgram(m),
			RelProgram:      relProgram(m),
			DoiData:         doiData(m),
			CitationList:    citationList(m),
		},
	}
	if c.Title == "" {
		b.problem("journal article without a journal title")
	}
	if c.IdentifierType == hub.IdentifierISSN && c.Identifier != "" {
		j.JournalMetadata.ISSN = []*XMLISSN{{MediaType: "electronic", Value: c.Identifier}}
	}
	if c.Volume != "" || c.Issue != "" {
		j.JournalIssue = &XMLJournalIssue{Issue: c.Issue}
		if c.Volume != "" {
			j.JournalIssue.JournalVolume = &XMLJournalVolume{Volume: c.Volume}
		}
	}
	return j
}

func (b *builder) book() *XMLBook {
	m := b.m
	bookType := "monograph"
	if len(m.ContributorsByRole("Editor")) > 0 && len(m.Authors()) == 0 {
		bookType = "edited_book"
	}
	bm := &XMLBookMetadata{
		Language:        m.Language,
		Contributors:    contributors(m.Contributors),
		Titles:          b.titles(),
		Abstract:        abstract(m),
		EditionNumber:   m.Version,
		PublicationDate: publicationDate(m.Date.Published, "online"),
		Publisher:       b.publisher(),
		FundingProgram:  fundingProgram(m),
		AccessProgram:   accessProgram(m),
		RelProgram:      relProgram(m),
		DoiData:         doiData(m),
		CitationList:    citationList(m),
	}
	if isbn := identifierOf(m, hub.IdentifierISBN); isbn != "" {
		bm.ISBN = isbn
	} else {
		bm.NoISBN = &XMLNoISBN{Reason: "monograph"}
	}
	return &XMLBook{BookType: bookType, BookMetadata: bm}
}

func (b *builder) bookChapter() *XMLBook {
	m := b.m
	c := container(m)
	bm := &XMLBookMetadata{
		Language:        m.Language,
		Titles:          &XMLTitles{Title: c.Title},
		PublicationDate: publicationDate(m.Date.Published, "online"),
		Publisher:       b.publisher(),
	}
	if c.Title == "" {
		b.problem("book chapter without a book title")
	}
	if c.IdentifierType == hub.IdentifierISBN && c.Identifier != "" {
		bm.ISBN = c.Identifier
	} else {
		bm.NoISBN = &XMLNoISBN{Reason: "archive_volume"}
	}
	return &XMLBook{
		BookType:     "edited_book",
		BookMetadata: bm,
		ContentItem: &XMLContentItem{
			ComponentType:   "chapter",
			Language:        m.Language,
			Contributors:    contributors(m.Contributors),
			Titles:          b.titles(),
			Abstract:        abstract(m),
			PublicationDate: publicationDate(m.Date.Published, "online"),
			Pages:           pages(c),
			FundingProgram:  fundingProgram(m),
			AccessProgram:   accessProgram(m),
			RelProgram:      relProgram(m),
			DoiData:         doiData(m),
			CitationList:    citationList(m),
		},
	}
}

func (b *builder) conference() *XMLConference {
	m := b.m
	c := container(m)
	if c.Title == "" {
		b.problem("proceedings article without a proceedings title")
	}
	return &XMLConference{
		EventMetadata: &XMLEventMetadata{ConferenceName: c.Title},
		ProceedingsMetadata: &XMLProceedingsMetadata{
			Language:         m.Language,
			ProceedingsTitle: c.Title,
			Publisher:        b.publisher(),
			PublicationDate:  publicationDate(m.Date.Published, "online"),
			NoISBN:           &XMLNoISBN{Reason: "simple_series"},
		},
		ConferencePaper: &XMLConferencePaper{
			PublicationType: "full_text",
			Language:        m.Language,
			Contributors:    contributors(m.Contributors),
			Titles:          b.titles(),
			Abstract:        abstract(m),
			PublicationDate: publicationDate(m.Date.Published, "online"),
			Pages:           pages(c),
			FundingProgram:  fundingProgram(m),
			AccessProgram:   accessProgram(m),
			RelProgram:      relProgram(m),
			DoiData:         doiData(m),
			CitationList:    citationList(m),
		},
	}
}

func (b *builder) dissertation() *XMLDissertation {
	m := b.m
	d := &XMLDissertation{
		PublicationType: "full_text",
		Language:        m.Language,
		Titles:          b.titles(),
		Abstract:        abstract(m),
		ApprovalDate:    b.requiredDate(m.Date.Published, "approval date"),
		Institution:     &XMLInstitution{InstitutionName: m.PublisherName()},
		FundingProgram:  fundingProgram(m),
		AccessProgram:   accessProgram(m),
		RelProgram:      relProgram(m),
		DoiData:         doiData(m),
		CitationList:    citationList(m),
	}
	authors := m.Authors()
	if len(authors) == 0 {
		b.problem("dissertation without an author")
	} else {
		if pn, ok := contributorElement(authors[0], 0).(*XMLPersonName); ok {
			d.PersonName = pn
		} else {
			b.problem("dissertation author is not a person")
		}
		if d.Institution.InstitutionName == "" && len(authors[0].Affiliations) > 0 {
			d.Institution = institution(authors[0].Affiliations[0])
		}
	}
	if d.Institution.InstitutionName == "" {
		b.problem("dissertation without an institution")
	}
	return d
}

func (b *builder) database() *XMLDatabase {
	m := b.m
	c := container(m)
	title := c.Title
	if title == "" {
		title = m.Title()
	}
	return &XMLDatabase{
		DatabaseMetadata: &XMLDatabaseMetadata{
			Language:  m.Language,
			Titles:    &XMLTitles{Title: title},
			Publisher: b.publisher(),
		},
		ComponentList: &XMLComponentList{
			Component: []*XMLComponent{{
				ParentRelation:  "isPartOf",
				Titles:          b.titles(),
				Contributors:    contributors(m.Contributors),
				PublicationDate: publicationDate(m.Date.Published, "online"),
				Description:     helpers.StripHTML(m.Abstract()),
				AccessProgram:   accessProgram(m),
				RelProgram:      relProgram(m),
				DoiData:         doiData(m),
			}},
		},
	}
}

func (b *builder) postedContent() *XMLPostedContent {
	m := b.m
	c := container(m)
	pc := &XMLPostedContent{
		Type:           "preprint",
		Language:       m.Language,
		Contributors:   contributors(m.Contributors),
		Titles:         b.titles(),
		PostedDate:     b.requiredDate(hub.PrimaryDate(m.Date), "posted date"),
		AcceptanceDate: publicationDate(m.Date.Accepted, ""),
		Abstract:       abstract(m),
		FundingProgram: fundingProgram(m),
		AccessProgram:  accessProgram(m),
		RelProgram:     relProgram(m),
		DoiData:        doiData(m),
		CitationList:   citationList(m),
	}
	if m.Type == "BlogPost" {
		pc.Type = "other"
	}
	if len(m.Subjects) > 0 {
		pc.GroupTitle = m.Subjects[0].Subject
	}
	if c.Title != "" {
		pc.Institution = &XMLInstitution{InstitutionName: c.Title}
	}
	return pc
}

func (b *builder) peerReview() *XMLPeerReview {
	m := b.m
	pr := &XMLPeerReview{
		Stage:         "pre-publication",
		Type:          "referee-report",
		Language:      m.Language,
		Contributors:  contributors(m.Contributors),
		Titles:        b.titles(),
		ReviewDate:    b.requiredDate(hub.PrimaryDate(m.Date), "review date"),
		AccessProgram: accessProgram(m),
		RelProgram:    relProgram(m),
		DoiData:       doiData(m),
	}
	reviewed := false
	for _, r := range m.Relations {
		if r.Type == "IsReviewOf" {
			reviewed = true
		}
	}
	if !reviewed {
		b.problem("peer review without an IsReviewOf relation")
	}
	return pr
}

func (b *builder) titles() *XMLTitles {
	t := &XMLTitles{Title: helpers.StripHTML(b.m.Title())}
	for _, title := range b.m.Titles {
		if title.Type == "Subtitle" {
			t.Subtitle = helpers.StripHTML(title.Title)
			break
		}
	}
	if t.Title == "" {
		b.problem("missing title")
	}
	return t
}

func (b *builder) publisher() *XMLPublisher {
	name := b.m.PublisherName()
	if name == "" {
		b.problem("missing publisher")
	}
	return &XMLPublisher{PublisherName: name}
}

func (b *builder) requiredDate(date, label string) *XMLPublicationDate {
	d := publicationDate(date, "")
	if d == nil {
		b.problem("missing %s", label)
		return &XMLPublicationDate{}
	}
	return d
}

func container(m *hub.Metadata) hub.Container {
	if m.Container == nil {
		return hub.Container{}
	}
	return *m.Container
}

func identifierOf(m *hub.Metadata, identifierType string) string {
	for _, id := range m.Identifiers {
		if id.IdentifierType == identifierType {
			return id.Identifier
		}
	}
	return ""
}

func contributors(list []hub.Contributor) *XMLContributors {
	if len(list) == 0 {
		return nil
	}
	result := &XMLContributors{}
	for i, c := range list {
		result.Items = append(result.Items, contributorElement(c, i))
	}
	return result
}

func contributorElement(c hub.Contributor, i int) any {
	sequence := "additional"
	if i == 0 {
		sequence = "first"
	}
	role := "author"
	if len(c.ContributorRoles) > 0 {
		role = crosswalk.Translate("commonmeta_role_crossref", c.ContributorRoles[0])
	}

	if c.Type == hub.Organization || c.FamilyName == "" {
		return &XMLOrganization{ContributorRole: role, Sequence: sequence, Name: c.DisplayName()}
	}
	pn := &XMLPersonName{
		ContributorRole: role,
		Sequence:        sequence,
		GivenName:       c.GivenName,
		Surname:         c.FamilyName,
	}
	if c.ORCID() != "" {
		pn.ORCID = c.ID
	}
	if len(c.Affiliations) > 0 {
		pn.Affiliations = &XMLAffiliations{}
		for _, a := range c.Affiliations {
			pn.Affiliations.Institution = append(pn.Affiliations.Institution, institution(a))
		}
	}
	return pn
}

func institution(a hub.Affiliation) *XMLInstitution {
	inst := &XMLInstitution{InstitutionName: a.Name}
	if strings.HasPrefix(a.ID, "https://ror.org/") {
		inst.InstitutionID = &XMLInstitutionID{Type: "ror", Value: a.ID}
	}
	return inst
}

func abstract(m *hub.Metadata) *XMLAbstract {
	text := helpers.StripHTML(m.Abstract())
	if text == "" {
		return nil
	}
	return &XMLAbstract{Paragraphs: []string{text}}
}

func publicationDate(date, mediaType string) *XMLPublicationDate {
	p := hub.PartsFromISO(date)
	if p.Year == 0 {
		return nil
	}
	return &XMLPublicationDate{MediaType: mediaType, Year: p.Year, Month: p.Month, Day: p.Day}
}

func pages(c hub.Container) *XMLPages {
	if c.FirstPage == "" {
		return nil
	}
	return &XMLPages{FirstPage: c.FirstPage, LastPage: c.LastPage}
}

// fundingProgram renders one fundgroup per funding reference.
func fundingProgram(m *hub.Metadata) *XMLFundingProgram {
	if len(m.FundingReferences) == 0 {
		return nil
	}
	p := &XMLFundingProgram{Name: "fundref"}
	for _, fr := range m.FundingReferences {
		group := &XMLAssertion{Name: "fundgroup"}
		identifier := &XMLAssertion{Name: "funder_identifier", Value: fr.FunderIdentifier}
		switch {
		case fr.FunderName != "":
			name := &XMLAssertion{Name: "funder_name", Value: fr.FunderName}
			if fr.FunderIdentifier != "" {
				name.Assertions = []*XMLAssertion{identifier}
			}
			group.Assertions = append(group.Assertions, name)
		case fr.FunderIdentifier != "":
			group.Assertions = append(group.Assertions, identifier)
		default:
			continue
		}
		if fr.AwardNumber != "" {
			group.Assertions = append(group.Assertions, &XMLAssertion{Name: "award_number", Value: fr.AwardNumber})
		}
		p.Assertions = append(p.Assertions, group)
	}
	if len(p.Assertions) == 0 {
		return nil
	}
	return p
}

func accessProgram(m *hub.Metadata) *XMLAccessProgram {
	if m.License == nil || m.License.URL == "" {
		return nil
	}
	p := &XMLAccessProgram{
		Name:        "AccessIndicators",
		LicenseRefs: []*XMLLicenseRef{{AppliesTo: "vor", URL: m.License.URL}},
	}
	if l, ok := license.Lookup(m.License.ID); ok && license.IsOpen(l) {
		p.FreeToRead = &struct{}{}
	}
	return p
}

// relProgram renders relations with a Crossref counterpart. Versions and
// forms of the same work are intra-work relations.
func relProgram(m *hub.Metadata) *XMLRelProgram {
	p := &XMLRelProgram{Name: "relations"}
	for _, r := range m.Relations {
		relType := crosswalk.Translate("commonmeta_relation_crossref_xml", r.Type)
		if relType == "" {
			continue
		}
		value, idType := relationTarget(r.ID)
		rel := &XMLWorkRelation{RelationshipType: relType, IdentifierType: idType, Value: value}
		item := &XMLRelatedItem{}
		if hub.IsIntraWorkRelation(r.Type) {
			item.IntraWorkRelation = rel
		} else {
			item.InterWorkRelation = rel
		}
		p.RelatedItems = append(p.RelatedItems, item)
	}
	if len(p.RelatedItems) == 0 {
		return nil
	}
	return p
}

func relationTarget(id string) (string, string) {
	if doi := hub.NormalizeDOI(id); doi != "" {
		return doi, "doi"
	}
	if issn, ok := strings.CutPrefix(id, "https://portal.issn.org/resource/ISSN/"); ok {
		return issn, "issn"
	}
	return id, "uri"
}

func doiData(m *hub.Metadata) *XMLDoiData {
	d := &XMLDoiData{DOI: m.DOI(), Resource: m.URL}
	if d.Resource == "" {
		d.Resource = m.ID
	}
	var items []*XMLItem
	for _, f := range m.Files {
		if f.URL != "" {
			items = append(items, &XMLItem{Resource: &XMLResource{MimeType: f.MimeType, URL: f.URL}})
		}
	}
	if len(items) > 0 {
		d.Collection = &XMLCollection{Property: "text-mining", Items: items}
	}
	return d
}

// citationList renders resolved references by DOI and the rest by their
// citation fields.
func citationList(m *hub.Metadata) *XMLCitationList {
	if len(m.References) == 0 {
		return nil
	}
	list := &XMLCitationList{}
	for i, ref := range m.References {
		key := ref.Key
		if key == "" {
			key = fmt.Sprintf("ref%d", i+1)
		}
		c := &XMLCitation{Key: key}
		if doi := hub.NormalizeDOI(ref.ID); doi != "" {
			c.DOI = doi
		} else {
			c.JournalTitle = ref.ContainerTitle
			c.Author = ref.Contributor
			c.Volume = ref.Volume
			c.Issue = ref.Issue
			c.FirstPage = ref.FirstPage
			c.CYear = ref.PublicationYear
			c.ArticleTitle = ref.Title
			c.UnstructuredCitation = ref.Unstructured
		}
		list.Citations = append(list.Citations, c)
	}
	return list
}
