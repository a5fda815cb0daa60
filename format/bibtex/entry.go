package bibtex

// Entry is one BibTeX record before rendering.
type Entry struct {
	EntryType   string
	CitationKey string

	Title     string
	Author    []Person
	Editor    []Person
	Year      string
	Month     string
	Journal   string
	Booktitle string
	Publisher string
	Volume    string
	Number    string
	Pages     string
	Series    string
	Version   string

	School      string
	Institution string

	Doi       string
	Isbn      string
	Issn      string
	Url       string
	Copyright string

	Keywords []string
	Abstract string
	Language string
}

// Person is an author or editor. Name is used for organizations, which
// are written inside an extra pair of braces so BibTeX does not split them.
type Person struct {
	Given  string
	Family string
	Name   string
}
