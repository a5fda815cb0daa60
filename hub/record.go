// Package hub defines the canonical metadata record every reader produces
// and every writer consumes, together with the date and identifier
// normalizers shared by all formats.
package hub

import (
	"strconv"

	"google.golang.org/protobuf/types/known/structpb"
)

// States a record can carry. A record read successfully has no state or
// the state reported by its source ("findable", "draft", ...).
const (
	StateNotFound = "not_found"
)

// Default values applied by readers.
const (
	TypeOther     = "Other"
	RoleAuthor    = "Author"
	SchemaVersion = "https://commonmeta.org/commonmeta_v0.16"
)

// Metadata is the canonical interchange record.
//
// Optional list fields are nil or non-empty; see Compact.
type Metadata struct {
	ID             string
	Type           string
	AdditionalType string
	URL            string
	State          string

	Titles            []Title
	Contributors      []Contributor
	Publisher         *Publisher
	Date              Date
	License           *License
	Descriptions      []Description
	Subjects          []Subject
	Container         *Container
	References        []Reference
	Relations         []Relation
	FundingReferences []FundingReference
	Files             []File
	Identifiers       []Identifier

	Language      string
	Version       string
	SchemaVersion string
	Provider      string

	// Extra holds source fields that were retained but not interpreted.
	Extra *structpb.Struct
}

// Title is one entry of Metadata.Titles.
type Title struct {
	Title    string
	Type     string
	Language string
}

// Contributor is a Person or Organization.
type Contributor struct {
	ID               string
	Type             string
	ContributorRoles []string
	GivenName        string
	FamilyName       string
	Name             string
	Affiliations     []Affiliation
}

// Contributor types.
const (
	Person       = "Person"
	Organization = "Organization"
)

// Affiliation of a contributor.
type Affiliation struct {
	ID   string
	Name string
}

// Publisher of the work.
type Publisher struct {
	ID   string
	Name string
}

// Date holds ISO-8601 partial dates keyed by role.
type Date struct {
	Published string
	Created   string
	Updated   string
	Submitted string
	Available string
	Accepted  string
	Withdrawn string
}

// IsZero reports whether no date role is set.
func (d Date) IsZero() bool {
	return d == Date{}
}

// License is an SPDX identifier and its canonical URL.
type License struct {
	ID  string
	URL string
}

// Description is one abstract or note.
type Description struct {
	Description string
	Type        string
	Language    string
}

// Subject is a keyword or classification.
type Subject struct {
	Subject       string
	SubjectScheme string
}

// Container is the venue a work was published in.
type Container struct {
	Type           string
	Title          string
	Identifier     string
	IdentifierType string
	Volume         string
	Issue          string
	FirstPage      string
	LastPage       string
	Platform       string
}

// Reference is a cited work: either resolved through ID or described by
// Unstructured and the citation fields.
type Reference struct {
	Key             string
	ID              string
	Contributor     string
	Title           string
	Publisher       string
	PublicationYear string
	Volume          string
	Issue           string
	FirstPage       string
	LastPage        string
	ContainerTitle  string
	Unstructured    string
}

// Relation links the record to another work. Type is directional.
type Relation struct {
	ID   string
	Type string
}

// FundingReference describes one award or funder.
type FundingReference struct {
	FunderName           string
	FunderIdentifier     string
	FunderIdentifierType string
	AwardNumber          string
	AwardURI             string
	AwardTitle           string
}

// File is a downloadable representation.
type File struct {
	Key      string
	URL      string
	MimeType string
	Size     int64
	Checksum string
}

// Identifier is an alternate identifier.
type Identifier struct {
	Identifier     string
	IdentifierType string
}

// NotFound returns the sentinel record readers produce for empty input.
func NotFound(id string) *Metadata {
	return &Metadata{ID: id, Type: TypeOther, State: StateNotFound}
}

// IsNotFound reports whether m is the not_found sentinel.
func (m *Metadata) IsNotFound() bool {
	return m == nil || m.State == StateNotFound
}

// DOI returns the bare DOI derived from ID, or "".
func (m *Metadata) DOI() string {
	return NormalizeDOI(m.ID)
}

// PublicationYear returns the year of Date.Published, or 0.
func (m *Metadata) PublicationYear() int {
	p := PartsFromISO(m.Date.Published)
	return p.Year
}

// PublicationYearString is PublicationYear rendered for text formats.
func (m *Metadata) PublicationYearString() string {
	if y := m.PublicationYear(); y > 0 {
		return strconv.Itoa(y)
	}
	return ""
}

// Title returns the primary title.
func (m *Metadata) Title() string {
	for _, t := range m.Titles {
		if t.Type == "" {
			return t.Title
		}
	}
	if len(m.Titles) > 0 {
		return m.Titles[0].Title
	}
	return ""
}

// Abstract returns the first description typed Abstract, falling back to
// the first description.
func (m *Metadata) Abstract() string {
	for _, d := range m.Descriptions {
		if d.Type == "Abstract" {
			return d.Description
		}
	}
	if len(m.Descriptions) > 0 {
		return m.Descriptions[0].Description
	}
	return ""
}

// ContributorsByRole returns contributors carrying role.
func (m *Metadata) ContributorsByRole(role string) []Contributor {
	var out []Contributor
	for _, c := range m.Contributors {
		if c.HasRole(role) {
			out = append(out, c)
		}
	}
	return out
}

// Authors returns contributors with the Author role.
func (m *Metadata) Authors() []Contributor {
	return m.ContributorsByRole(RoleAuthor)
}

// PublisherName returns the publisher name or "".
func (m *Metadata) PublisherName() string {
	if m.Publisher == nil {
		return ""
	}
	return m.Publisher.Name
}

// SetExtra stores an uninterpreted source field.
func (m *Metadata) SetExtra(key string, v any) error {
	pv, err := structpb.NewValue(v)
	if err != nil {
		return err
	}
	if m.Extra == nil {
		m.Extra = &structpb.Struct{Fields: map[string]*structpb.Value{}}
	}
	m.Extra.Fields[key] = pv
	return nil
}

// GetExtra returns an uninterpreted source field.
func (m *Metadata) GetExtra(key string) (any, bool) {
	if m.Extra == nil {
		return nil, false
	}
	v, ok := m.Extra.Fields[key]
	if !ok {
		return nil, false
	}
	return v.AsInterface(), true
}

// ExtraFields returns all uninterpreted source fields.
func (m *Metadata) ExtraFields() map[string]any {
	if m.Extra == nil {
		return nil
	}
	return m.Extra.AsMap()
}
