package inveniordm

// Record is an InvenioRDM record as accepted by the records API.
type Record struct {
	Pids         *Pids          `json:"pids,omitempty"`
	Access       Access         `json:"access"`
	Files        Files          `json:"files"`
	Metadata     Metadata       `json:"metadata"`
	CustomFields map[string]any `json:"custom_fields,omitempty"`
}

type Pids struct {
	DOI *PID `json:"doi,omitempty"`
}

type PID struct {
	Identifier string `json:"identifier"`
	Provider   string `json:"provider"`
}

type Access struct {
	Record string `json:"record"`
	Files  string `json:"files"`
}

type Files struct {
	Enabled bool `json:"enabled"`
}

// Metadata is the descriptive part of a record.
type Metadata struct {
	ResourceType           ID                  `json:"resource_type"`
	Creators               []Creator           `json:"creators,omitempty"`
	Title                  string              `json:"title,omitempty"`
	AdditionalTitles       []AdditionalTitle   `json:"additional_titles,omitempty"`
	Publisher              string              `json:"publisher,omitempty"`
	PublicationDate        string              `json:"publication_date,omitempty"`
	Dates                  []Date              `json:"dates,omitempty"`
	Subjects               []Subject           `json:"subjects,omitempty"`
	Contributors           []Creator           `json:"contributors,omitempty"`
	Languages              []ID                `json:"languages,omitempty"`
	Identifiers            []Identifier        `json:"identifiers,omitempty"`
	RelatedIdentifiers     []RelatedIdentifier `json:"related_identifiers,omitempty"`
	Rights                 []Rights            `json:"rights,omitempty"`
	Description            string              `json:"description,omitempty"`
	AdditionalDescriptions []Description       `json:"additional_descriptions,omitempty"`
	Version                string              `json:"version,omitempty"`
	Funding                []Funding           `json:"funding,omitempty"`
	References             []Reference         `json:"references,omitempty"`
}

// ID is a vocabulary reference.
type ID struct {
	ID string `json:"id"`
}

type Creator struct {
	PersonOrOrg  PersonOrOrg   `json:"person_or_org"`
	Affiliations []Affiliation `json:"affiliations,omitempty"`
	Role         *ID           `json:"role,omitempty"`
}

type PersonOrOrg struct {
	Type        string       `json:"type"`
	GivenName   string       `json:"given_name,omitempty"`
	FamilyName  string       `json:"family_name,omitempty"`
	Name        string       `json:"name,omitempty"`
	Identifiers []Identifier `json:"identifiers,omitempty"`
}

type Affiliation struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

type AdditionalTitle struct {
	Title string `json:"title,omitempty"`
	Type  ID     `json:"type"`
	Lang  *ID    `json:"lang,omitempty"`
}

type Date struct {
	Date string `json:"date"`
	Type ID     `json:"type"`
}

type Subject struct {
	Subject string `json:"subject"`
}

type Identifier struct {
	Identifier string `json:"identifier"`
	Scheme     string `json:"scheme"`
}

type RelatedIdentifier struct {
	Identifier   string `json:"identifier"`
	Scheme       string `json:"scheme"`
	RelationType ID     `json:"relation_type"`
}

type Rights struct {
	ID   string `json:"id,omitempty"`
	Link string `json:"link,omitempty"`
}

type Description struct {
	Description string `json:"description"`
	Type        ID     `json:"type"`
}

type Funding struct {
	Funder Funder `json:"funder"`
	Award  *Award `json:"award,omitempty"`
}

type Funder struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

type Award struct {
	Number      string            `json:"number,omitempty"`
	Title       map[string]string `json:"title,omitempty"`
	Identifiers []Identifier      `json:"identifiers,omitempty"`
}

type Reference struct {
	Reference  string `json:"reference"`
	Identifier string `json:"identifier,omitempty"`
	Scheme     string `json:"scheme,omitempty"`
}
