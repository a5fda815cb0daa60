package arxiv

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/lehigh-university-libraries/commonmeta/contributor"
	"github.com/lehigh-university-libraries/commonmeta/format"
	"github.com/lehigh-university-libraries/commonmeta/helpers"
	"github.com/lehigh-university-libraries/commonmeta/hub"
)

var versionSuffix = regexp.MustCompile(`v(\d+)$`)

// Parse reads arXiv XML and returns hub records. The Atom feed of the arXiv
// API and OAI-PMH responses in the arXiv metadata format are supported.
func (f *Format) Parse(r io.Reader, opts *format.ParseOptions) ([]*hub.Metadata, error) {
	opts = format.ParseOptionsOrDefault(opts)
	data, err := format.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []*hub.Metadata{hub.NotFound(format.RecordID(opts))}, nil
	}

	var records []*hub.Metadata
	if bytes.Contains(data, []byte("http://arxiv.org/OAI/arXiv/")) {
		records, err = parseOAI(data, opts)
	} else {
		records, err = parseAtom(data, opts)
	}
	if err != nil {
		return nil, format.Malformed(f.Name(), opts, err)
	}
	if len(records) == 0 {
		return []*hub.Metadata{hub.NotFound(format.RecordID(opts))}, nil
	}
	return records, nil
}

// AtomFeed is an arXiv API response.
type AtomFeed struct {
	XMLName xml.Name    `xml:"feed"`
	Entries []AtomEntry `xml:"entry"`
}

// AtomEntry is a single preprint in an API response.
type AtomEntry struct {
	ID              string         `xml:"id"`
	Title           string         `xml:"title"`
	Summary         string         `xml:"summary"`
	Published       string         `xml:"published"`
	Updated         string         `xml:"updated"`
	Authors         []AtomAuthor   `xml:"author"`
	Categories      []AtomCategory `xml:"category"`
	PrimaryCategory AtomCategory   `xml:"primary_category"`
	Links           []AtomLink     `xml:"link"`
	DOI             string         `xml:"doi"`
	JournalRef      string         `xml:"journal_ref"`
	Comment         string         `xml:"comment"`
}

type AtomAuthor struct {
	Name        string   `xml:"name"`
	Affiliation []string `xml:"affiliation"`
}

type AtomCategory struct {
	Term string `xml:"term,attr"`
}

type AtomLink struct {
	Href  string `xml:"href,attr"`
	Rel   string `xml:"rel,attr"`
	Type  string `xml:"type,attr"`
	Title string `xml:"title,attr"`
}

func parseAtom(data []byte, opts *format.ParseOptions) ([]*hub.Metadata, error) {
	var feed AtomFeed
	if err := xml.Unmarshal(data, &feed); err != nil {
		return nil, fmt.Errorf("parsing Atom XML: %w", err)
	}

	var records []*hub.Metadata
	for _, entry := range feed.Entries {
		// the API reports failures as an entry
		if strings.Contains(entry.ID, "/api/errors") {
			continue
		}
		records = append(records, atomEntryToHub(&entry, opts))
	}
	return records, nil
}

func atomEntryToHub(entry *AtomEntry, opts *format.ParseOptions) *hub.Metadata {
	id, version := splitVersion(entry.ID)
	m := newRecord(id, opts)
	m.Version = version
	m.Titles = []hub.Title{{Title: helpers.NormalizeWhitespace(entry.Title)}}
	m.Date.Published = hub.NormalizeDate(entry.Published)
	m.Date.Updated = hub.NormalizeDate(entry.Updated)
	if s := format.Description(entry.Summary, opts); s != "" {
		m.Descriptions = append(m.Descriptions, hub.Description{Description: s, Type: "Abstract"})
	}
	if s := helpers.NormalizeWhitespace(entry.Comment); s != "" {
		m.Descriptions = append(m.Descriptions, hub.Description{Description: s, Type: "Other"})
	}

	for _, author := range entry.Authors {
		c := contributor.FromName(author.Name)
		if c.DisplayName() == "" {
			continue
		}
		c.ContributorRoles = []string{hub.RoleAuthor}
		for _, aff := range author.Affiliation {
			if aff = helpers.NormalizeWhitespace(aff); aff != "" {
				c.Affiliations = append(c.Affiliations, hub.Affiliation{Name: aff})
			}
		}
		m.Contributors = append(m.Contributors, c)
	}

	// primary category first
	if t := entry.PrimaryCategory.Term; t != "" {
		m.Subjects = append(m.Subjects, hub.Subject{Subject: t, SubjectScheme: "arXiv"})
	}
	for _, cat := range entry.Categories {
		m.Subjects = append(m.Subjects, hub.Subject{Subject: cat.Term, SubjectScheme: "arXiv"})
	}

	publishedVersion(m, entry.DOI, entry.JournalRef)

	for _, link := range entry.Links {
		if link.Title == "pdf" && link.Href != "" {
			m.Files = append(m.Files, hub.File{URL: hub.NormalizeURL(link.Href), MimeType: "application/pdf"})
		}
	}
	return hub.Compact(m)
}

// OAIRecord is the arXiv metadata format of the arXiv OAI-PMH interface.
type OAIRecord struct {
	ID         string     `xml:"id"`
	Created    string     `xml:"created"`
	Updated    string     `xml:"updated"`
	Authors    OAIAuthors `xml:"authors"`
	Title      string     `xml:"title"`
	Categories string     `xml:"categories"`
	Comments   string     `xml:"comments"`
	ReportNo   string     `xml:"report-no"`
	JournalRef string     `xml:"journal-ref"`
	DOI        string     `xml:"doi"`
	MSCClass   string     `xml:"msc-class"`
	ACMClass   string     `xml:"acm-class"`
	License    string     `xml:"license"`
	Abstract   string     `xml:"abstract"`
}

type OAIAuthors struct {
	Authors []OAIAuthor `xml:"author"`
}

type OAIAuthor struct {
	Keyname      string   `xml:"keyname"`
	Forenames    string   `xml:"forenames"`
	Suffix       string   `xml:"suffix"`
	Affiliations []string `xml:"affiliation"`
}

func parseOAI(data []byte, opts *format.ParseOptions) ([]*hub.Metadata, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	var records []*hub.Metadata
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing XML: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "arXiv" {
			continue
		}
		var rec OAIRecord
		if err := decoder.DecodeElement(&rec, &start); err != nil {
			return nil, fmt.Errorf("decoding arXiv element: %w", err)
		}
		records = append(records, oaiToHub(&rec, opts))
	}
	return records, nil
}

func oaiToHub(rec *OAIRecord, opts *format.ParseOptions) *hub.Metadata {
	m := newRecord(strings.TrimSpace(rec.ID), opts)
	m.Titles = []hub.Title{{Title: helpers.NormalizeWhitespace(rec.Title)}}
	m.Date.Published = hub.NormalizeDate(rec.Created)
	m.Date.Updated = hub.NormalizeDate(rec.Updated)
	if s := format.Description(rec.Abstract, opts); s != "" {
		m.Descriptions = append(m.Descriptions, hub.Description{Description: s, Type: "Abstract"})
	}
	if s := helpers.NormalizeWhitespace(rec.Comments); s != "" {
		m.Descriptions = append(m.Descriptions, hub.Description{Description: s, Type: "Other"})
	}

	for _, author := range rec.Authors.Authors {
		c := hub.Contributor{
			Type:             hub.Person,
			ContributorRoles: []string{hub.RoleAuthor},
			GivenName:        helpers.NormalizeWhitespace(author.Forenames),
			FamilyName:       helpers.NormalizeWhitespace(author.Keyname),
		}
		if s := strings.TrimSpace(author.Suffix); s != "" {
			c.FamilyName += " " + s
		}
		if c.GivenName == "" {
			// collaborations are listed with a keyname only
			c.Type = hub.Organization
			c.Name, c.FamilyName = c.FamilyName, ""
		}
		for _, aff := range author.Affiliations {
			if aff = helpers.NormalizeWhitespace(aff); aff != "" {
				c.Affiliations = append(c.Affiliations, hub.Affiliation{Name: aff})
			}
		}
		m.Contributors = append(m.Contributors, c)
	}

	for _, cat := range strings.Fields(rec.Categories) {
		m.Subjects = append(m.Subjects, hub.Subject{Subject: cat, SubjectScheme: "arXiv"})
	}
	for _, class := range splitClassification(rec.MSCClass) {
		m.Subjects = append(m.Subjects, hub.Subject{Subject: class, SubjectScheme: "MSC"})
	}
	for _, class := range splitClassification(rec.ACMClass) {
		m.Subjects = append(m.Subjects, hub.Subject{Subject: class, SubjectScheme: "ACM"})
	}

	if rec.License != "" {
		m.License = format.License(strings.TrimSpace(rec.License))
	}
	if rn := helpers.NormalizeWhitespace(rec.ReportNo); rn != "" {
		m.Identifiers = append(m.Identifiers, hub.Identifier{Identifier: rn, IdentifierType: "Report Number"})
	}
	publishedVersion(m, rec.DOI, rec.JournalRef)
	return hub.Compact(m)
}

// newRecord sets the fields every arXiv preprint shares.
func newRecord(arxivID string, opts *format.ParseOptions) *hub.Metadata {
	m := &hub.Metadata{
		ID:             format.RecordID(opts, DOIPrefix+"/arXiv."+arxivID),
		Type:           "Article",
		AdditionalType: "Preprint",
		URL:            "https://arxiv.org/abs/" + arxivID,
		Publisher:      &hub.Publisher{Name: "arXiv"},
		Container: &hub.Container{
			Type:           "Repository",
			Title:          "arXiv",
			Identifier:     "https://arxiv.org",
			IdentifierType: hub.IdentifierURL,
		},
		Identifiers: []hub.Identifier{
			{Identifier: "arXiv:" + arxivID, IdentifierType: hub.IdentifierArXiv},
		},
		State:         "findable",
		SchemaVersion: hub.SchemaVersion,
		Provider:      "DataCite",
	}
	if arxivID == "" {
		m.ID = format.RecordID(opts)
		m.URL = ""
		m.Identifiers = nil
	}
	return m
}

// publishedVersion links a preprint to the journal article it became.
func publishedVersion(m *hub.Metadata, doi, journalRef string) {
	if id := hub.DOIAsURL(doi); id != "" {
		m.Relations = append(m.Relations, hub.Relation{ID: id, Type: "IsPreprintOf"})
	}
	if ref := helpers.NormalizeWhitespace(journalRef); ref != "" {
		_ = m.SetExtra("journal_ref", ref)
	}
}

// splitVersion takes an abstract URL like "http://arxiv.org/abs/2301.01234v2"
// apart into the identifier and its version.
func splitVersion(raw string) (id, version string) {
	id = strings.TrimSpace(raw)
	if i := strings.LastIndex(id, "/abs/"); i >= 0 {
		id = id[i+len("/abs/"):]
	}
	if loc := versionSuffix.FindStringIndex(id); loc != nil {
		return id[:loc[0]], id[loc[0]:]
	}
	return id, ""
}

// splitClassification splits comma or semicolon separated classes.
func splitClassification(s string) []string {
	var result []string
	for _, part := range strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';'
	}) {
		if v := strings.TrimSpace(part); v != "" {
			result = append(result, v)
		}
	}
	return result
}
