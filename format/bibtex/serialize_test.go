package bibtex

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lehigh-university-libraries/commonmeta/hub"
)

func serialize(t *testing.T, records ...*hub.Metadata) string {
	t.Helper()
	var buf bytes.Buffer
	if err := (&Format{}).Serialize(&buf, records, nil); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	return buf.String()
}

func TestSerializeJournalArticle(t *testing.T) {
	m := &hub.Metadata{
		ID:     "https://doi.org/10.7554/elife.01567",
		Type:   "JournalArticle",
		URL:    "https://elifesciences.org/articles/01567",
		Titles: []hub.Title{{Title: "Automated quantitative histology & morphodynamics"}},
		Contributors: []hub.Contributor{
			{Type: hub.Person, ContributorRoles: []string{"Author"}, GivenName: "Martial", FamilyName: "Sankar"},
			{Type: hub.Organization, ContributorRoles: []string{"Author"}, Name: "Plant Biology Consortium"},
		},
		Publisher: &hub.Publisher{Name: "eLife Sciences Publications, Ltd"},
		Date:      hub.Date{Published: "2014-02-11"},
		License:   &hub.License{ID: "CC-BY-3.0", URL: "https://creativecommons.org/licenses/by/3.0/legalcode"},
		Container: &hub.Container{
			Type:           "Journal",
			Title:          "eLife",
			Identifier:     "2050-084X",
			IdentifierType: "ISSN",
			Volume:         "3",
			FirstPage:      "e01567",
		},
		Language: "en",
	}

	want := `@article{https://doi.org/10.7554/elife.01567,
  title = {Automated quantitative histology \& morphodynamics},
  author = {Sankar, Martial and {Plant Biology Consortium}},
  year = {2014},
  month = feb,
  journal = {eLife},
  publisher = {eLife Sciences Publications, Ltd},
  volume = {3},
  pages = {e01567},
  doi = {10.7554/elife.01567},
  issn = {2050-084X},
  url = {https://elifesciences.org/articles/01567},
  copyright = {https://creativecommons.org/licenses/by/3.0/legalcode},
  language = {en},
}
`
	if diff := cmp.Diff(want, serialize(t, m)); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestHubToSpoke(t *testing.T) {
	tests := []struct {
		name   string
		record *hub.Metadata
		check  func(t *testing.T, e *Entry)
	}{
		{
			name: "editors are not authors",
			record: &hub.Metadata{
				Type: "Book",
				Contributors: []hub.Contributor{
					{Type: hub.Person, ContributorRoles: []string{"Author"}, GivenName: "Alex", FamilyName: "Rivera"},
					{Type: hub.Person, ContributorRoles: []string{"Editor"}, GivenName: "Jordan", FamilyName: "Lee"},
					{Type: hub.Person, ContributorRoles: []string{"Supervision"}, GivenName: "Sam", FamilyName: "Park"},
				},
			},
			check: func(t *testing.T, e *Entry) {
				if len(e.Author) != 1 || e.Author[0].Family != "Rivera" {
					t.Errorf("Author: got %+v", e.Author)
				}
				if len(e.Editor) != 1 || e.Editor[0].Family != "Lee" {
					t.Errorf("Editor: got %+v", e.Editor)
				}
			},
		},
		{
			name:   "thesis publisher is the school",
			record: &hub.Metadata{Type: "Dissertation", Publisher: &hub.Publisher{Name: "Lehigh University"}},
			check: func(t *testing.T, e *Entry) {
				if e.EntryType != "phdthesis" || e.School != "Lehigh University" || e.Publisher != "" {
					t.Errorf("got type %q school %q publisher %q", e.EntryType, e.School, e.Publisher)
				}
			},
		},
		{
			name:   "report publisher is the institution",
			record: &hub.Metadata{Type: "Report", Publisher: &hub.Publisher{Name: "CERN"}},
			check: func(t *testing.T, e *Entry) {
				if e.EntryType != "techreport" || e.Institution != "CERN" {
					t.Errorf("got type %q institution %q", e.EntryType, e.Institution)
				}
			},
		},
		{
			name: "chapter container is the booktitle",
			record: &hub.Metadata{
				Type:      "BookChapter",
				Container: &hub.Container{Type: "Book", Title: "Handbook", FirstPage: "10", LastPage: "20"},
			},
			check: func(t *testing.T, e *Entry) {
				if e.EntryType != "inbook" || e.Booktitle != "Handbook" || e.Pages != "10-20" {
					t.Errorf("got type %q booktitle %q pages %q", e.EntryType, e.Booktitle, e.Pages)
				}
			},
		},
		{
			name:   "unmapped type falls back to misc",
			record: &hub.Metadata{Type: "Dataset", Date: hub.Date{Published: "2020"}},
			check: func(t *testing.T, e *Entry) {
				if e.EntryType != "misc" || e.Year != "2020" || e.Month != "" {
					t.Errorf("got type %q year %q month %q", e.EntryType, e.Year, e.Month)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, hubToSpoke(tt.record))
		})
	}
}

func TestGenerateCitationKey(t *testing.T) {
	tests := []struct {
		name   string
		record *hub.Metadata
		want   string
	}{
		{
			name:   "doi",
			record: &hub.Metadata{ID: "https://doi.org/10.1234/abc"},
			want:   "https://doi.org/10.1234/abc",
		},
		{
			name: "folded family name and year",
			record: &hub.Metadata{
				ID:           "https://example.org/x",
				Contributors: []hub.Contributor{{GivenName: "Anna", FamilyName: "Müller-Lüdenscheidt"}},
				Date:         hub.Date{Published: "2019-05"},
			},
			want: "mullerludenscheidt2019",
		},
		{
			name:   "organization without date",
			record: &hub.Metadata{Contributors: []hub.Contributor{{Name: "Front Matter"}}},
			want:   "matternd",
		},
		{
			name:   "nothing to go on",
			record: &hub.Metadata{},
			want:   "unknownnd",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := generateCitationKey(tt.record); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSerializeMultipleSkipsNotFound(t *testing.T) {
	a := &hub.Metadata{Type: "Book", Titles: []hub.Title{{Title: "First"}}}
	b := &hub.Metadata{Type: "Book", Titles: []hub.Title{{Title: "Second"}}}
	output := serialize(t, a, hub.NotFound(""), b)

	if strings.Count(output, "@book{") != 2 {
		t.Fatalf("expected two entries, got:\n%s", output)
	}
	if !strings.Contains(output, "}\n\n@book{") {
		t.Errorf("entries not separated by a blank line:\n%s", output)
	}
}
