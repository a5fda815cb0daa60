package crossrefxml

import "encoding/xml"

// Namespaces declared on the deposit root.
const (
	namespaceCrossref      = "http://www.crossref.org/schema/5.3.1"
	namespaceXSI           = "http://www.w3.org/2001/XMLSchema-instance"
	namespaceJATS          = "http://www.ncbi.nlm.nih.gov/JATS1"
	namespaceFundref       = "http://www.crossref.org/fundref.xsd"
	namespaceAccess        = "http://www.crossref.org/AccessIndicators.xsd"
	namespaceRelations     = "http://www.crossref.org/relations.xsd"
	schemaLocationCrossref = "http://www.crossref.org/schema/5.3.1 https://www.crossref.org/schemas/crossref5.3.1.xsd"
)

// XML types for Crossref deposit serialization. Element order follows the
// schema's sequences; prefixed names are written verbatim.

type XMLDeposit struct {
	XMLName   xml.Name `xml:"doi_batch"`
	XMLNS     string   `xml:"xmlns,attr"`
	XSI       string   `xml:"xmlns:xsi,attr"`
	JATS      string   `xml:"xmlns:jats,attr"`
	FR        string   `xml:"xmlns:fr,attr"`
	AI        string   `xml:"xmlns:ai,attr"`
	Rel       string   `xml:"xmlns:rel,attr"`
	SchemaLoc string   `xml:"xsi:schemaLocation,attr"`
	Version   string   `xml:"version,attr"`
	Head      *XMLHead `xml:"head"`
	Body      *XMLBody `xml:"body"`
}

type XMLHead struct {
	DoiBatchID string        `xml:"doi_batch_id"`
	Timestamp  string        `xml:"timestamp"`
	Depositor  *XMLDepositor `xml:"depositor"`
	Registrant string        `xml:"registrant"`
}

type XMLDepositor struct {
	DepositorName string `xml:"depositor_name"`
	EmailAddress  string `xml:"email_address"`
}

type XMLBody struct {
	Journal       []*XMLJournal       `xml:"journal,omitempty"`
	Book          []*XMLBook          `xml:"book,omitempty"`
	Conference    []*XMLConference    `xml:"conference,omitempty"`
	Dissertation  []*XMLDissertation  `xml:"dissertation,omitempty"`
	Database      []*XMLDatabase      `xml:"database,omitempty"`
	PostedContent []*XMLPostedContent `xml:"posted_content,omitempty"`
	PeerReview    []*XMLPeerReview    `xml:"peer_review,omitempty"`
}

// journal

type XMLJournal struct {
	JournalMetadata *XMLJournalMetadata `xml:"journal_metadata"`
	JournalIssue    *XMLJournalIssue    `xml:"journal_issue,omitempty"`
	JournalArticle  *XMLJournalArticle  `xml:"journal_article"`
}

type XMLJournalMetadata struct {
	Language  string     `xml:"language,attr,omitempty"`
	FullTitle string     `xml:"full_title"`
	ISSN      []*XMLISSN `xml:"issn,omitempty"`
}

type XMLISSN struct {
	MediaType string `xml:"media_type,attr,omitempty"`
	Value     string `xml:",chardata"`
}

type XMLJournalIssue struct {
	PublicationDate *XMLPublicationDate `xml:"publication_date,omitempty"`
	JournalVolume   *XMLJournalVolume   `xml:"journal_volume,omitempty"`
	Issue           string              `xml:"issue,omitempty"`
}

type XMLJournalVolume struct {
	Volume string `xml:"volume"`
}

type XMLJournalArticle struct {
	PublicationType string              `xml:"publication_type,attr,omitempty"`
	Language        string              `xml:"language,attr,omitempty"`
	Titles          *XMLTitles          `xml:"titles,omitempty"`
	Contributors    *XMLContributors    `xml:"contributors,omitempty"`
	Abstract        *XMLAbstract        `xml:"jats:abstract,omitempty"`
	PublicationDate *XMLPublicationDate `xml:"publication_date,omitempty"`
	AcceptanceDate  *XMLPublicationDate `xml:"acceptance_date,omitempty"`
	Pages           *XMLPages           `xml:"pages,omitempty"`
	FundingProgram  *XMLFundingProgram  `xml:"fr:program,omitempty"`
	AccessProgram   *XMLAccessProgram   `xml:"ai:program,omitempty"`
	RelProgram      *XMLRelProgram      `xml:"rel:program,omitempty"`
	DoiData         *XMLDoiData         `xml:"doi_data"`
	CitationList    *XMLCitationList    `xml:"citation_list,omitempty"`
}

// book

type XMLBook struct {
	BookType     string           `xml:"book_type,attr"`
	BookMetadata *XMLBookMetadata `xml:"book_metadata"`
	ContentItem  *XMLContentItem  `xml:"content_item,omitempty"`
}

type XMLBookMetadata struct {
	Language        string              `xml:"language,attr,omitempty"`
	Contributors    *XMLContributors    `xml:"contributors,omitempty"`
	Titles          *XMLTitles          `xml:"titles"`
	Abstract        *XMLAbstract        `xml:"jats:abstract,omitempty"`
	EditionNumber   string              `xml:"edition_number,omitempty"`
	PublicationDate *XMLPublicationDate `xml:"publication_date,omitempty"`
	ISBN            string              `xml:"isbn,omitempty"`
	NoISBN          *XMLNoISBN          `xml:"noisbn,omitempty"`
	Publisher       *XMLPublisher       `xml:"publisher,omitempty"`
	FundingProgram  *XMLFundingProgram  `xml:"fr:program,omitempty"`
	AccessProgram   *XMLAccessProgram   `xml:"ai:program,omitempty"`
	RelProgram      *XMLRelProgram      `xml:"rel:program,omitempty"`
	DoiData         *XMLDoiData         `xml:"doi_data,omitempty"`
	CitationList    *XMLCitationList    `xml:"citation_list,omitempty"`
}

type XMLNoISBN struct {
	Reason string `xml:"reason,attr"`
}

type XMLContentItem struct {
	ComponentType   string              `xml:"component_type,attr"`
	Language        string              `xml:"language,attr,omitempty"`
	Contributors    *XMLContributors    `xml:"contributors,omitempty"`
	Titles          *XMLTitles          `xml:"titles,omitempty"`
	Abstract        *XMLAbstract        `xml:"jats:abstract,omitempty"`
	PublicationDate *XMLPublicationDate `xml:"publication_date,omitempty"`
	Pages           *XMLPages           `xml:"pages,omitempty"`
	FundingProgram  *XMLFundingProgram  `xml:"fr:program,omitempty"`
	AccessProgram   *XMLAccessProgram   `xml:"ai:program,omitempty"`
	RelProgram      *XMLRelProgram      `xml:"rel:program,omitempty"`
	DoiData         *XMLDoiData         `xml:"doi_data"`
	CitationList    *XMLCitationList    `xml:"citation_list,omitempty"`
}

// conference

type XMLConference struct {
	EventMetadata       *XMLEventMetadata       `xml:"event_metadata"`
	ProceedingsMetadata *XMLProceedingsMetadata `xml:"proceedings_metadata"`
	ConferencePaper     *XMLConferencePaper     `xml:"conference_paper"`
}

type XMLEventMetadata struct {
	ConferenceName string `xml:"conference_name"`
}

type XMLProceedingsMetadata struct {
	Language         string              `xml:"language,attr,omitempty"`
	ProceedingsTitle string              `xml:"proceedings_title"`
	Publisher        *XMLPublisher       `xml:"publisher"`
	PublicationDate  *XMLPublicationDate `xml:"publication_date,omitempty"`
	ISBN             string              `xml:"isbn,omitempty"`
	NoISBN           *XMLNoISBN          `xml:"noisbn,omitempty"`
}

type XMLConferencePaper struct {
	PublicationType string              `xml:"publication_type,attr,omitempty"`
	Language        string              `xml:"language,attr,omitempty"`
	Contributors    *XMLContributors    `xml:"contributors,omitempty"`
	Titles          *XMLTitles          `xml:"titles"`
	Abstract        *XMLAbstract        `xml:"jats:abstract,omitempty"`
	PublicationDate *XMLPublicationDate `xml:"publication_date,omitempty"`
	Pages           *XMLPages           `xml:"pages,omitempty"`
	FundingProgram  *XMLFundingProgram  `xml:"fr:program,omitempty"`
	AccessProgram   *XMLAccessProgram   `xml:"ai:program,omitempty"`
	RelProgram      *XMLRelProgram      `xml:"rel:program,omitempty"`
	DoiData         *XMLDoiData         `xml:"doi_data"`
	CitationList    *XMLCitationList    `xml:"citation_list,omitempty"`
}

// dissertation

type XMLDissertation struct {
	PublicationType string              `xml:"publication_type,attr,omitempty"`
	Language        string              `xml:"language,attr,omitempty"`
	PersonName      *XMLPersonName      `xml:"person_name"`
	Titles          *XMLTitles          `xml:"titles"`
	Abstract        *XMLAbstract        `xml:"jats:abstract,omitempty"`
	ApprovalDate    *XMLPublicationDate `xml:"approval_date"`
	Institution     *XMLInstitution     `xml:"institution"`
	Degree          string              `xml:"degree,omitempty"`
	FundingProgram  *XMLFundingProgram  `xml:"fr:program,omitempty"`
	AccessProgram   *XMLAccessProgram   `xml:"ai:program,omitempty"`
	RelProgram      *XMLRelProgram      `xml:"rel:program,omitempty"`
	DoiData         *XMLDoiData         `xml:"doi_data"`
	CitationList    *XMLCitationList    `xml:"citation_list,omitempty"`
}

// database

type XMLDatabase struct {
	DatabaseMetadata *XMLDatabaseMetadata `xml:"database_metadata"`
	ComponentList    *XMLComponentList    `xml:"component_list"`
}

type XMLDatabaseMetadata struct {
	Language  string        `xml:"language,attr,omitempty"`
	Titles    *XMLTitles    `xml:"titles"`
	Publisher *XMLPublisher `xml:"publisher,omitempty"`
}

type XMLComponentList struct {
	Component []*XMLComponent `xml:"component"`
}

type XMLComponent struct {
	ParentRelation  string              `xml:"parent_relation,attr"`
	Titles          *XMLTitles          `xml:"titles,omitempty"`
	Contributors    *XMLContributors    `xml:"contributors,omitempty"`
	PublicationDate *XMLPublicationDate `xml:"publication_date,omitempty"`
	Description     string              `xml:"description,omitempty"`
	AccessProgram   *XMLAccessProgram   `xml:"ai:program,omitempty"`
	RelProgram      *XMLRelProgram      `xml:"rel:program,omitempty"`
	DoiData         *XMLDoiData         `xml:"doi_data"`
}

// posted content

type XMLPostedContent struct {
	Type           string              `xml:"type,attr"`
	Language       string              `xml:"language,attr,omitempty"`
	GroupTitle     string              `xml:"group_title,omitempty"`
	Contributors   *XMLContributors    `xml:"contributors,omitempty"`
	Titles         *XMLTitles          `xml:"titles"`
	PostedDate     *XMLPublicationDate `xml:"posted_date"`
	AcceptanceDate *XMLPublicationDate `xml:"acceptance_date,omitempty"`
	Institution    *XMLInstitution     `xml:"institution,omitempty"`
	Abstract       *XMLAbstract        `xml:"jats:abstract,omitempty"`
	FundingProgram *XMLFundingProgram  `xml:"fr:program,omitempty"`
	AccessProgram  *XMLAccessProgram   `xml:"ai:program,omitempty"`
	RelProgram     *XMLRelProgram      `xml:"rel:program,omitempty"`
	DoiData        *XMLDoiData         `xml:"doi_data"`
	CitationList   *XMLCitationList    `xml:"citation_list,omitempty"`
}

// peer review

type XMLPeerReview struct {
	Stage         string              `xml:"stage,attr,omitempty"`
	Type          string              `xml:"type,attr,omitempty"`
	Language      string              `xml:"language,attr,omitempty"`
	Contributors  *XMLContributors    `xml:"contributors,omitempty"`
	Titles        *XMLTitles          `xml:"titles"`
	ReviewDate    *XMLPublicationDate `xml:"review_date"`
	AccessProgram *XMLAccessProgram   `xml:"ai:program,omitempty"`
	RelProgram    *XMLRelProgram      `xml:"rel:program,omitempty"`
	DoiData       *XMLDoiData         `xml:"doi_data"`
}

// shared elements

type XMLTitles struct {
	Title    string `xml:"title,omitempty"`
	Subtitle string `xml:"subtitle,omitempty"`
}

type XMLContributors struct {
	Items []any
}

// MarshalXML keeps people and organizations in sequence order.
func (c *XMLContributors) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	for _, item := range c.Items {
		if err := e.Encode(item); err != nil {
			return err
		}
	}
	return e.EncodeToken(start.End())
}

type XMLPersonName struct {
	XMLName         xml.Name         `xml:"person_name"`
	ContributorRole string           `xml:"contributor_role,attr,omitempty"`
	Sequence        string           `xml:"sequence,attr,omitempty"`
	GivenName       string           `xml:"given_name,omitempty"`
	Surname         string           `xml:"surname"`
	Affiliations    *XMLAffiliations `xml:"affiliations,omitempty"`
	ORCID           string           `xml:"ORCID,omitempty"`
}

type XMLOrganization struct {
	XMLName         xml.Name `xml:"organization"`
	ContributorRole string   `xml:"contributor_role,attr,omitempty"`
	Sequence        string   `xml:"sequence,attr,omitempty"`
	Name            string   `xml:",chardata"`
}

type XMLAffiliations struct {
	Institution []*XMLInstitution `xml:"institution"`
}

type XMLInstitution struct {
	InstitutionName string            `xml:"institution_name,omitempty"`
	InstitutionID   *XMLInstitutionID `xml:"institution_id,omitempty"`
}

type XMLInstitutionID struct {
	Type  string `xml:"type,attr"`
	Value string `xml:",chardata"`
}

type XMLPublicationDate struct {
	MediaType string `xml:"media_type,attr,omitempty"`
	Month     int    `xml:"month,omitempty"`
	Day       int    `xml:"day,omitempty"`
	Year      int    `xml:"year"`
}

type XMLPages struct {
	FirstPage string `xml:"first_page"`
	LastPage  string `xml:"last_page,omitempty"`
}

type XMLPublisher struct {
	PublisherName string `xml:"publisher_name"`
}

type XMLAbstract struct {
	Paragraphs []string `xml:"jats:p"`
}

type XMLFundingProgram struct {
	Name       string          `xml:"name,attr"`
	Assertions []*XMLAssertion `xml:"fr:assertion"`
}

// XMLAssertion is a fundref assertion. Funder names carry their identifier
// as a nested assertion after the text.
type XMLAssertion struct {
	Name       string          `xml:"name,attr"`
	Value      string          `xml:",chardata"`
	Assertions []*XMLAssertion `xml:"fr:assertion,omitempty"`
}

type XMLAccessProgram struct {
	Name        string           `xml:"name,attr"`
	FreeToRead  *struct{}        `xml:"ai:free_to_read,omitempty"`
	LicenseRefs []*XMLLicenseRef `xml:"ai:license_ref"`
}

type XMLLicenseRef struct {
	AppliesTo string `xml:"applies_to,attr,omitempty"`
	URL       string `xml:",chardata"`
}

type XMLRelProgram struct {
	Name         string            `xml:"name,attr,omitempty"`
	RelatedItems []*XMLRelatedItem `xml:"rel:related_item"`
}

type XMLRelatedItem struct {
	InterWorkRelation *XMLWorkRelation `xml:"rel:inter_work_relation,omitempty"`
	IntraWorkRelation *XMLWorkRelation `xml:"rel:intra_work_relation,omitempty"`
}

type XMLWorkRelation struct {
	RelationshipType string `xml:"relationship-type,attr"`
	IdentifierType   string `xml:"identifier-type,attr"`
	Value            string `xml:",chardata"`
}

type XMLDoiData struct {
	DOI        string         `xml:"doi"`
	Resource   string         `xml:"resource"`
	Collection *XMLCollection `xml:"collection,omitempty"`
}

type XMLCollection struct {
	Property string     `xml:"property,attr"`
	Items    []*XMLItem `xml:"item"`
}

type XMLItem struct {
	Resource *XMLResource `xml:"resource"`
}

type XMLResource struct {
	MimeType string `xml:"mime_type,attr,omitempty"`
	URL      string `xml:",chardata"`
}

type XMLCitationList struct {
	Citations []*XMLCitation `xml:"citation"`
}

type XMLCitation struct {
	Key                  string `xml:"key,attr"`
	JournalTitle         string `xml:"journal_title,omitempty"`
	Author               string `xml:"author,omitempty"`
	Volume               string `xml:"volume,omitempty"`
	Issue                string `xml:"issue,omitempty"`
	FirstPage            string `xml:"first_page,omitempty"`
	CYear                string `xml:"cYear,omitempty"`
	ArticleTitle         string `xml:"article_title,omitempty"`
	DOI                  string `xml:"doi,omitempty"`
	UnstructuredCitation string `xml:"unstructured_citation,omitempty"`
}
