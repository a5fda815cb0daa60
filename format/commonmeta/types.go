package commonmeta

// Document is a commonmeta record.
type Document struct {
	ID                string             `json:"id"`
	Type              string             `json:"type"`
	AdditionalType    string             `json:"additional_type,omitempty"`
	URL               string             `json:"url,omitempty"`
	State             string             `json:"state,omitempty"`
	Titles            []Title            `json:"titles,omitempty"`
	Contributors      []Contributor      `json:"contributors,omitempty"`
	Publisher         *Publisher         `json:"publisher,omitempty"`
	Date              *Date              `json:"date,omitempty"`
	License           *License           `json:"license,omitempty"`
	Descriptions      []Description      `json:"descriptions,omitempty"`
	Subjects          []Subject          `json:"subjects,omitempty"`
	Container         *Container         `json:"container,omitempty"`
	References        []Reference        `json:"references,omitempty"`
	Relations         []Relation         `json:"relations,omitempty"`
	FundingReferences []FundingReference `json:"funding_references,omitempty"`
	Files             []File             `json:"files,omitempty"`
	Identifiers       []Identifier       `json:"identifiers,omitempty"`
	Language          string             `json:"language,omitempty"`
	Version           string             `json:"version,omitempty"`
	SchemaVersion     string             `json:"schema_version,omitempty"`
	Provider          string             `json:"provider,omitempty"`
	Extra             map[string]any     `json:"extra,omitempty"`
}

type Title struct {
	Title    string `json:"title"`
	Type     string `json:"type,omitempty"`
	Language string `json:"language,omitempty"`
}

type Contributor struct {
	ID               string        `json:"id,omitempty"`
	Type             string        `json:"type"`
	ContributorRoles []string      `json:"contributorRoles"`
	GivenName        string        `json:"givenName,omitempty"`
	FamilyName       string        `json:"familyName,omitempty"`
	Name             string        `json:"name,omitempty"`
	Affiliations     []Affiliation `json:"affiliations,omitempty"`
}

type Affiliation struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

type Publisher struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

type Date struct {
	Published string `json:"published,omitempty"`
	Created   string `json:"created,omitempty"`
	Updated   string `json:"updated,omitempty"`
	Submitted string `json:"submitted,omitempty"`
	Available string `json:"available,omitempty"`
	Accepted  string `json:"accepted,omitempty"`
	Withdrawn string `json:"withdrawn,omitempty"`
}

type License struct {
	ID  string `json:"id,omitempty"`
	URL string `json:"url,omitempty"`
}

type Description struct {
	Description string `json:"description"`
	Type        string `json:"type,omitempty"`
	Language    string `json:"language,omitempty"`
}

type Subject struct {
	Subject       string `json:"subject"`
	SubjectScheme string `json:"subjectScheme,omitempty"`
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
	Platform       string `json:"platform,omitempty"`
}

type Reference struct {
	Key             string `json:"key,omitempty"`
	ID              string `json:"id,omitempty"`
	Contributor     string `json:"contributor,omitempty"`
	Title           string `json:"title,omitempty"`
	Publisher       string `json:"publisher,omitempty"`
	PublicationYear string `json:"publicationYear,omitempty"`
	Volume          string `json:"volume,omitempty"`
	Issue           string `json:"issue,omitempty"`
	FirstPage       string `json:"firstPage,omitempty"`
	LastPage        string `json:"lastPage,omitempty"`
	ContainerTitle  string `json:"containerTitle,omitempty"`
	Unstructured    string `json:"unstructured,omitempty"`
}

type Relation struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

type FundingReference struct {
	FunderName           string `json:"funderName,omitempty"`
	FunderIdentifier     string `json:"funderIdentifier,omitempty"`
	FunderIdentifierType string `json:"funderIdentifierType,omitempty"`
	AwardNumber          string `json:"awardNumber,omitempty"`
	AwardURI             string `json:"awardUri,omitempty"`
	AwardTitle           string `json:"awardTitle,omitempty"`
}

type File struct {
	Key      string `json:"key,omitempty"`
	URL      string `json:"url"`
	MimeType string `json:"mimeType,omitempty"`
	Size     int64  `json:"size,omitempty"`
	Checksum string `json:"checksum,omitempty"`
}

type Identifier struct {
	Identifier     string `json:"identifier"`
	IdentifierType string `json:"identifierType"`
}
