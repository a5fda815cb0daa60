package datacite

// Attributes is the attributes object of a DataCite REST API work.
type Attributes struct {
	ID                 string              `json:"id,omitempty"`
	DOI                string              `json:"doi,omitempty"`
	URL                string              `json:"url,omitempty"`
	Types              Types               `json:"types"`
	Creators           []Creator           `json:"creators,omitempty"`
	Titles             []Title             `json:"titles,omitempty"`
	Publisher          *Publisher          `json:"publisher,omitempty"`
	Container          *Container          `json:"container,omitempty"`
	Subjects           []Subject           `json:"subjects,omitempty"`
	Contributors       []Creator           `json:"contributors,omitempty"`
	Dates              []Date              `json:"dates,omitempty"`
	PublicationYear    int                 `json:"publicationYear,omitempty"`
	Language           string              `json:"language,omitempty"`
	Identifiers        []Identifier        `json:"identifiers,omitempty"`
	Sizes              []string            `json:"sizes,omitempty"`
	Formats            []string            `json:"formats,omitempty"`
	Version            string              `json:"version,omitempty"`
	RightsList         []Rights            `json:"rightsList,omitempty"`
	Descriptions       []Description       `json:"descriptions,omitempty"`
	GeoLocations       []any               `json:"geoLocations,omitempty"`
	FundingReferences  []FundingReference  `json:"fundingReferences,omitempty"`
	RelatedIdentifiers []RelatedIdentifier `json:"relatedIdentifiers,omitempty"`
	SchemaVersion      string              `json:"schemaVersion"`
}

type Types struct {
	ResourceTypeGeneral string `json:"resourceTypeGeneral"`
	ResourceType        string `json:"resourceType,omitempty"`
	SchemaOrg           string `json:"schemaOrg,omitempty"`
	Citeproc            string `json:"citeproc,omitempty"`
	Bibtex              string `json:"bibtex,omitempty"`
	RIS                 string `json:"ris,omitempty"`
}

// Creator is used for both creators and contributors; ContributorType is
// only set on the latter.
type Creator struct {
	Name            string           `json:"name"`
	NameType        string           `json:"nameType,omitempty"`
	GivenName       string           `json:"givenName,omitempty"`
	FamilyName      string           `json:"familyName,omitempty"`
	NameIdentifiers []NameIdentifier `json:"nameIdentifiers,omitempty"`
	Affiliation     []Affiliation    `json:"affiliation,omitempty"`
	ContributorType string           `json:"contributorType,omitempty"`
}

type NameIdentifier struct {
	NameIdentifier       string `json:"nameIdentifier"`
	NameIdentifierScheme string `json:"nameIdentifierScheme"`
	SchemeURI            string `json:"schemeUri,omitempty"`
}

type Affiliation struct {
	Name                        string `json:"name,omitempty"`
	AffiliationIdentifier       string `json:"affiliationIdentifier,omitempty"`
	AffiliationIdentifierScheme string `json:"affiliationIdentifierScheme,omitempty"`
	SchemeURI                   string `json:"schemeUri,omitempty"`
}

type Title struct {
	Title     string `json:"title"`
	TitleType string `json:"titleType,omitempty"`
	Lang      string `json:"lang,omitempty"`
}

type Publisher struct {
	Name                      string `json:"name"`
	PublisherIdentifier       string `json:"publisherIdentifier,omitempty"`
	PublisherIdentifierScheme string `json:"publisherIdentifierScheme,omitempty"`
}

type Container struct {
	Type           string `json:"type,omitempty"`
	Title          string `json:"title,omitempty"`
	Identifier     string `json:"identifier,omitempty"`
	IdentifierType string `json:"identifierType,omitempty"`
	Volume         string `json:"volume,omitempty"`
	Issue          string `json:"issue,omitempty"`
	FirstPage      string `json:"firstPage,omitempty"`
	LastPage       string `json:"lastPage,omitempty"`
}

type Subject struct {
	Subject       string `json:"subject"`
	SubjectScheme string `json:"subjectScheme,omitempty"`
}

type Date struct {
	Date     string `json:"date"`
	DateType string `json:"dateType"`
}

type Identifier struct {
	Identifier     string `json:"identifier"`
	IdentifierType string `json:"identifierType"`
}

type Rights struct {
	Rights                 string `json:"rights,omitempty"`
	RightsURI              string `json:"rightsUri,omitempty"`
	RightsIdentifier       string `json:"rightsIdentifier,omitempty"`
	RightsIdentifierScheme string `json:"rightsIdentifierScheme,omitempty"`
	SchemeURI              string `json:"schemeUri,omitempty"`
}

type Description struct {
	Description     string `json:"description"`
	DescriptionType string `json:"descriptionType"`
	Lang            string `json:"lang,omitempty"`
}

type FundingReference struct {
	FunderName           string `json:"funderName"`
	FunderIdentifier     string `json:"funderIdentifier,omitempty"`
	FunderIdentifierType string `json:"funderIdentifierType,omitempty"`
	AwardNumber          string `json:"awardNumber,omitempty"`
	AwardURI             string `json:"awardUri,omitempty"`
	AwardTitle           string `json:"awardTitle,omitempty"`
}

type RelatedIdentifier struct {
	RelatedIdentifier     string `json:"relatedIdentifier"`
	RelatedIdentifierType string `json:"relatedIdentifierType"`
	RelationType          string `json:"relationType"`
}
