package csl

// Item is a CSL-JSON item.
type Item struct {
	ID             string `json:"id"`
	Type           string `json:"type"`
	Title          string `json:"title,omitempty"`
	TitleShort     string `json:"title-short,omitempty"`
	Abstract       string `json:"abstract,omitempty"`
	Language       string `json:"language,omitempty"`
	Author         []Name `json:"author,omitempty"`
	Editor         []Name `json:"editor,omitempty"`
	Translator     []Name `json:"translator,omitempty"`
	Issued         *Date  `json:"issued,omitempty"`
	Submitted      *Date  `json:"submitted,omitempty"`
	DOI            string `json:"DOI,omitempty"`
	URL            string `json:"URL,omitempty"`
	ISBN           string `json:"ISBN,omitempty"`
	ISSN           string `json:"ISSN,omitempty"`
	Publisher      string `json:"publisher,omitempty"`
	ContainerTitle string `json:"container-title,omitempty"`
	Volume         string `json:"volume,omitempty"`
	Issue          string `json:"issue,omitempty"`
	Page           string `json:"page,omitempty"`
	Keyword        string `json:"keyword,omitempty"`
	Version        string `json:"version,omitempty"`
	Copyright      string `json:"copyright,omitempty"`
}

// Name is a CSL name variable. Organizations use Literal.
type Name struct {
	Family  string `json:"family,omitempty"`
	Given   string `json:"given,omitempty"`
	Literal string `json:"literal,omitempty"`
}

// Date is a CSL date variable.
type Date struct {
	DateParts [][]int `json:"date-parts,omitempty"`
}
