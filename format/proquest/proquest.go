// Package proquest provides a format plugin for ProQuest ETD (Electronic Theses and Dissertations).
package proquest

import (
	"bytes"
	"encoding/xml"

	"github.com/lehigh-university-libraries/commonmeta/format"
)

// Version documents the ProQuest ETD specification this implementation targets.
const Version = "1.0"

// Format implements the ProQuest ETD format.
type Format struct{}

// Ensure Format implements the interfaces
var (
	_ format.Format     = (*Format)(nil)
	_ format.Parser     = (*Format)(nil)
	_ format.Serializer = (*Format)(nil)
)

// Name returns the format identifier.
func (f *Format) Name() string {
	return "proquest"
}

// Description returns a human-readable format description.
func (f *Format) Description() string {
	return "ProQuest ETD (Electronic Theses and Dissertations)"
}

// Extensions returns file extensions associated with this format.
func (f *Format) Extensions() []string {
	return []string{"xml"}
}

// CanParse returns true if the input looks like ProQuest ETD XML.
func (f *Format) CanParse(peek []byte) bool {
	peek = bytes.TrimSpace(peek)
	if len(peek) == 0 {
		return false
	}

	if peek[0] != '<' {
		return false
	}

	patterns := [][]byte{
		[]byte("DISS_submission"),
		[]byte("DISS_authorship"),
		[]byte("DISS_description"),
		[]byte("DISS_content"),
	}

	for _, pattern := range patterns {
		if bytes.Contains(peek, pattern) {
			return true
		}
	}

	return false
}

func init() {
	format.Register(&Format{})
}

// XML types for ProQuest ETD, shared by the reader and the writer.

// Submission represents the DISS_submission root element.
type Submission struct {
	XMLName     xml.Name     `xml:"DISS_submission"`
	EmbargoCode int32        `xml:"embargo_code,attr,omitempty"`
	Authorship  *Authorship  `xml:"DISS_authorship,omitempty"`
	Description *Description `xml:"DISS_description,omitempty"`
	Content     *Content     `xml:"DISS_content,omitempty"`
	Repository  *Repository  `xml:"DISS_repository,omitempty"`
}

// Authorship represents DISS_authorship.
type Authorship struct {
	Authors []Author `xml:"DISS_author"`
}

// Author represents DISS_author.
type Author struct {
	Type     string    `xml:"type,attr,omitempty"`
	Name     *Name     `xml:"DISS_name,omitempty"`
	Contacts []Contact `xml:"DISS_contact,omitempty"`
	ORCID    string    `xml:"DISS_orcid,omitempty"`
}

// Name represents DISS_name.
type Name struct {
	Surname string `xml:"DISS_surname,omitempty"`
	First   string `xml:"DISS_fname,omitempty"`
	Middle  string `xml:"DISS_middle,omitempty"`
	Suffix  string `xml:"DISS_suffix,omitempty"`
}

// Contact represents DISS_contact.
type Contact struct {
	Type  string `xml:"type,attr,omitempty"`
	Email string `xml:"DISS_email,omitempty"`
}

// Description represents DISS_description.
type Description struct {
	PageCount        int32           `xml:"page_count,attr,omitempty"`
	Type             string          `xml:"type,attr,omitempty"`
	Title            string          `xml:"DISS_title,omitempty"`
	Dates            *Dates          `xml:"DISS_dates,omitempty"`
	Degree           string          `xml:"DISS_degree,omitempty"`
	Institution      *Institution    `xml:"DISS_institution,omitempty"`
	Advisors         []Advisor       `xml:"DISS_advisor,omitempty"`
	CommitteeMembers []Advisor       `xml:"DISS_cmte_member,omitempty"`
	Categorization   *Categorization `xml:"DISS_categorization,omitempty"`
}

// Institution represents DISS_institution.
type Institution struct {
	Name       string `xml:"DISS_inst_name,omitempty"`
	Department string `xml:"DISS_inst_contact,omitempty"`
}

// Advisor represents DISS_advisor and DISS_cmte_member.
type Advisor struct {
	Name Name `xml:"DISS_name"`
}

// Categorization represents DISS_categorization.
type Categorization struct {
	Categories []Category `xml:"DISS_category,omitempty"`
	Keywords   []string   `xml:"DISS_keyword,omitempty"`
	Language   string     `xml:"DISS_language,omitempty"`
}

// Category represents DISS_category.
type Category struct {
	Code        string `xml:"DISS_cat_code,omitempty"`
	Description string `xml:"DISS_cat_desc,omitempty"`
}

// Dates represents DISS_dates.
type Dates struct {
	CompletionDate string `xml:"DISS_comp_date,omitempty"`
	AcceptDate     string `xml:"DISS_accept_date,omitempty"`
}

// Content represents DISS_content.
type Content struct {
	Abstract *Abstract `xml:"DISS_abstract,omitempty"`
	Binary   []Binary  `xml:"DISS_binary,omitempty"`
}

// Abstract represents DISS_abstract.
type Abstract struct {
	Paragraphs []string `xml:"DISS_para"`
}

// Binary represents DISS_binary.
type Binary struct {
	Type     string `xml:"type,attr,omitempty"`
	FileName string `xml:",chardata"`
}

// Repository represents DISS_repository.
type Repository struct {
	DelayedRelease string `xml:"DISS_delayed_release,omitempty"`
	AccessOption   string `xml:"DISS_access_option,omitempty"`
}
