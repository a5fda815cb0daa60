package ris

import (
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lehigh-university-libraries/commonmeta/format"
	"github.com/lehigh-university-libraries/commonmeta/hub"
)

func loadFixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile("testdata/" + name)
	if err != nil {
		t.Fatalf("failed to load fixture %s: %v", name, err)
	}
	return string(data)
}

func parse(t *testing.T, input string) []*hub.Metadata {
	t.Helper()
	records, err := (&Format{}).Parse(strings.NewReader(input), nil)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return records
}

func TestParseJournalArticle(t *testing.T) {
	records := parse(t, loadFixture(t, "crossref.ris"))
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	m := records[0]

	if m.ID != "https://doi.org/10.7554/elife.01567" {
		t.Errorf("ID: got %q", m.ID)
	}
	if m.Type != "JournalArticle" {
		t.Errorf("Type: got %q, want %q", m.Type, "JournalArticle")
	}
	if m.URL != "https://elifesciences.org/lookup/doi/10.7554/eLife.01567" {
		t.Errorf("URL: got %q", m.URL)
	}
	if m.Date.Published != "2014-02-11" {
		t.Errorf("Published: got %q, want %q", m.Date.Published, "2014-02-11")
	}
	if m.PublisherName() != "eLife Sciences Organisation, Ltd." || m.Language != "en" {
		t.Errorf("Publisher/Language: got %q/%q", m.PublisherName(), m.Language)
	}
	if len(m.Contributors) != 5 {
		t.Fatalf("expected 5 contributors, got %d", len(m.Contributors))
	}
	wantFirst := hub.Contributor{Type: hub.Person, ContributorRoles: []string{"Author"}, GivenName: "Martial", FamilyName: "Sankar"}
	if diff := cmp.Diff(wantFirst, m.Contributors[0]); diff != "" {
		t.Errorf("first contributor mismatch (-want +got):\n%s", diff)
	}

	wantContainer := &hub.Container{
		Type:           "Journal",
		Title:          "eLife",
		Identifier:     "2050-084X",
		IdentifierType: "ISSN",
		Volume:         "3",
		FirstPage:      "e01567",
	}
	if diff := cmp.Diff(wantContainer, m.Container); diff != "" {
		t.Errorf("Container mismatch (-want +got):\n%s", diff)
	}

	if !strings.HasSuffix(m.Abstract(), "hampered by their scale.") || strings.Contains(m.Abstract(), "\n") {
		t.Errorf("continuation line not joined: %q", m.Abstract())
	}
	if len(m.Subjects) != 2 || m.Subjects[1].Subject != "hypocotyl" {
		t.Errorf("Subjects: got %+v", m.Subjects)
	}
}

func TestParseRetainsUnknownTags(t *testing.T) {
	m := parse(t, loadFixture(t, "crossref.ris"))[0]

	want := map[string]any{
		"DB": []any{"Crossref"},
		"M3": []any{"doi:10.7554/eLife.01567"},
	}
	if diff := cmp.Diff(want, m.ExtraFields()); diff != "" {
		t.Errorf("Extra mismatch (-want +got):\n%s", diff)
	}
}

func TestParseBook(t *testing.T) {
	m := parse(t, loadFixture(t, "crossref.ris"))[1]

	if m.Type != "Book" || m.Title() != "Open Research Data" {
		t.Errorf("Type/Title: got %q/%q", m.Type, m.Title())
	}
	if m.ID != "" {
		t.Errorf("ID: got %q, want empty", m.ID)
	}
	if m.Date.Published != "2021" {
		t.Errorf("Published: got %q, want %q", m.Date.Published, "2021")
	}
	wantContributors := []hub.Contributor{
		{Type: hub.Organization, ContributorRoles: []string{"Author"}, Name: "Data Working Group"},
		{Type: hub.Person, ContributorRoles: []string{"Editor"}, GivenName: "Jane", FamilyName: "Doe"},
	}
	if diff := cmp.Diff(wantContributors, m.Contributors); diff != "" {
		t.Errorf("Contributors mismatch (-want +got):\n%s", diff)
	}
	wantIDs := []hub.Identifier{{Identifier: "978-3-16-148410-0", IdentifierType: "ISBN"}}
	if diff := cmp.Diff(wantIDs, m.Identifiers); diff != "" {
		t.Errorf("Identifiers mismatch (-want +got):\n%s", diff)
	}
	if m.Container != nil {
		t.Errorf("Container: got %+v, want nil", m.Container)
	}
	if len(m.Descriptions) != 1 || m.Descriptions[0].Type != "Other" {
		t.Errorf("Descriptions: got %+v", m.Descriptions)
	}
}

func TestParsePageRangeAndFiles(t *testing.T) {
	m := parse(t, loadFixture(t, "pages.ris"))[0]

	if m.Type != "ProceedingsArticle" {
		t.Errorf("Type: got %q", m.Type)
	}
	if m.Container == nil || m.Container.FirstPage != "101" || m.Container.LastPage != "110" {
		t.Errorf("pages: got %+v", m.Container)
	}
	if m.Container != nil && (m.Container.Type != "Proceedings" || m.Container.Title != "Proceedings of the Example Conference") {
		t.Errorf("container: got %+v", m.Container)
	}
	if m.Contributors[0].FamilyName != "Smith" || m.Contributors[0].GivenName != "J." {
		t.Errorf("author: got %+v", m.Contributors[0])
	}
	if m.Date.Published != "2019-06" {
		t.Errorf("Published: got %q", m.Date.Published)
	}
	if len(m.Files) != 1 || m.Files[0].MimeType != "application/pdf" {
		t.Errorf("Files: got %+v", m.Files)
	}
}

func TestDate(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"2014/02/11/", "2014-02-11"},
		{"2014/02/11/Spring", "2014-02-11"},
		{"2014//", "2014"},
		{"2014/07", "2014-07"},
		{"2014", "2014"},
		{"2014-02-11", "2014-02-11"},
		{"//", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Date(tt.input); got != tt.want {
			t.Errorf("Date(%q): got %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestParseUnknownTypeFallsBack(t *testing.T) {
	m := parse(t, "TY  - ANCIENT\nTI  - A tablet\nER  - \n")[0]
	if m.Type != hub.TypeOther {
		t.Errorf("Type: got %q, want %q", m.Type, hub.TypeOther)
	}
}

func TestParseEmptyIsNotFound(t *testing.T) {
	records, err := (&Format{}).Parse(strings.NewReader("  \n"), &format.ParseOptions{DOI: "10.1234/missing"})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(records) != 1 || !records[0].IsNotFound() {
		t.Fatalf("expected a not_found record, got %+v", records)
	}
	if records[0].ID != "https://doi.org/10.1234/missing" {
		t.Errorf("ID: got %q", records[0].ID)
	}
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
		line  int
	}{
		{"text before TY", "hello\nTY  - JOUR\nER  - \n", 1},
		{"tag outside record", "TY  - JOUR\nER  - \nTI  - Stray\n", 3},
		{"nested TY", "TY  - JOUR\nTI  - One\nTY  - BOOK\n", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := (&Format{}).Parse(strings.NewReader(tt.input), &format.ParseOptions{SourceName: "refs.ris"})
			if !format.IsMalformed(err) {
				t.Fatalf("expected a malformed input error, got %v", err)
			}
			e := err.(*format.MalformedInputError)
			if e.Line != tt.line || e.Source != "refs.ris" {
				t.Errorf("got line %d source %q, want line %d", e.Line, e.Source, tt.line)
			}
		})
	}
}

func TestCanParse(t *testing.T) {
	f := &Format{}
	if !f.CanParse([]byte("TY  - JOUR\nTI  - x\nER  - ")) {
		t.Error("expected RIS to be recognized")
	}
	if f.CanParse([]byte(`{"TY": "JOUR"}`)) {
		t.Error("JSON recognized as RIS")
	}
}
