package schemaorg

// Context is written into every document.
const Context = "http://schema.org"

// Thing is the base schema.org type.
type Thing struct {
	Context     any    `json:"@context,omitempty"`
	Type        string `json:"@type"`
	ID          string `json:"@id,omitempty"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`
	Identifier  any    `json:"identifier,omitempty"` // string or []PropertyValue
	SameAs      any    `json:"sameAs,omitempty"`     // string or []string
}

// CreativeWork extends Thing with the properties a work record needs.
type CreativeWork struct {
	Thing

	AdditionalType      string `json:"additionalType,omitempty"`
	AlternativeHeadline string `json:"alternativeHeadline,omitempty"`

	// Authorship
	Author      []any         `json:"author,omitempty"` // Person or Organization
	Editor      []any         `json:"editor,omitempty"`
	Contributor []any         `json:"contributor,omitempty"`
	Publisher   *Organization `json:"publisher,omitempty"`
	Provider    *Organization `json:"provider,omitempty"`

	// Dates
	DateCreated   string `json:"dateCreated,omitempty"`
	DatePublished string `json:"datePublished,omitempty"`
	DateModified  string `json:"dateModified,omitempty"`

	// Classification
	Keywords   string `json:"keywords,omitempty"`
	InLanguage string `json:"inLanguage,omitempty"`
	Version    string `json:"version,omitempty"`
	License    string `json:"license,omitempty"`

	// Venue
	IsPartOf              any          `json:"isPartOf,omitempty"` // PartOf or []any
	IncludedInDataCatalog *DataCatalog `json:"includedInDataCatalog,omitempty"`
	PageStart             string       `json:"pageStart,omitempty"`
	PageEnd               string       `json:"pageEnd,omitempty"`

	// Relations
	HasPart   []Ref `json:"hasPart,omitempty"`
	IsBasedOn []Ref `json:"isBasedOn,omitempty"`
	Citation  []Ref `json:"citation,omitempty"`

	Funding      []Grant        `json:"funding,omitempty"`
	Distribution []DataDownload `json:"distribution,omitempty"`
}

// Person represents a person.
type Person struct {
	Thing

	GivenName   string         `json:"givenName,omitempty"`
	FamilyName  string         `json:"familyName,omitempty"`
	Affiliation []Organization `json:"affiliation,omitempty"`
}

// Organization represents an organization.
type Organization struct {
	Thing
}

// PropertyValue represents a property-value pair for identifiers.
type PropertyValue struct {
	Type       string `json:"@type,omitempty"`
	PropertyID string `json:"propertyID,omitempty"`
	Value      string `json:"value,omitempty"`
}

// PartOf is one link of the Periodical, PublicationVolume and
// PublicationIssue chain a journal article sits in.
type PartOf struct {
	Type         string  `json:"@type"`
	ID           string  `json:"@id,omitempty"`
	Name         string  `json:"name,omitempty"`
	ISSN         string  `json:"issn,omitempty"`
	VolumeNumber string  `json:"volumeNumber,omitempty"`
	IssueNumber  string  `json:"issueNumber,omitempty"`
	IsPartOf     *PartOf `json:"isPartOf,omitempty"`
}

// Ref points to another work by identifier, or describes it by name.
type Ref struct {
	Type string `json:"@type,omitempty"`
	ID   string `json:"@id,omitempty"`
	Name string `json:"name,omitempty"`
}

// DataCatalog is the repository a dataset is included in.
type DataCatalog struct {
	Type string `json:"@type"`
	Name string `json:"name,omitempty"`
	URL  string `json:"url,omitempty"`
}

// DataDownload is a downloadable file of a dataset.
type DataDownload struct {
	Type           string `json:"@type"`
	ContentURL     string `json:"contentUrl"`
	EncodingFormat string `json:"encodingFormat,omitempty"`
	ContentSize    string `json:"contentSize,omitempty"`
}

// Grant is a MonetaryGrant and the organization that awarded it.
type Grant struct {
	Type       string        `json:"@type"`
	Identifier string        `json:"identifier,omitempty"`
	Name       string        `json:"name,omitempty"`
	URL        string        `json:"url,omitempty"`
	Funder     *Organization `json:"funder,omitempty"`
}
