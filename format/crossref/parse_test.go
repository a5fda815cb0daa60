package crossref_test

import (
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lehigh-university-libraries/commonmeta/format"
	"github.com/lehigh-university-libraries/commonmeta/format/crossref"
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

func parseOne(t *testing.T, input string) *hub.Metadata {
	t.Helper()
	f := &crossref.Format{}
	records, err := f.Parse(strings.NewReader(input), nil)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	return records[0]
}

func TestParseJournalArticle(t *testing.T) {
	m := parseOne(t, loadFixture(t, "elife-01567.json"))

	if m.ID != "https://doi.org/10.7554/elife.01567" {
		t.Errorf("ID: got %q", m.ID)
	}
	if m.Type != "JournalArticle" {
		t.Errorf("Type: got %q, want %q", m.Type, "JournalArticle")
	}
	if m.URL != "https://elifesciences.org/articles/01567" {
		t.Errorf("URL: got %q", m.URL)
	}

	wantContainer := &hub.Container{
		Type:           "Journal",
		Title:          "eLife",
		Identifier:     "2050-084X",
		IdentifierType: "ISSN",
		Volume:         "3",
	}
	if diff := cmp.Diff(wantContainer, m.Container); diff != "" {
		t.Errorf("Container mismatch (-want +got):\n%s", diff)
	}

	wantLicense := &hub.License{ID: "CC-BY-3.0", URL: "https://creativecommons.org/licenses/by/3.0/legalcode"}
	if diff := cmp.Diff(wantLicense, m.License); diff != "" {
		t.Errorf("License mismatch (-want +got):\n%s", diff)
	}

	if len(m.References) != 27 {
		t.Errorf("References: got %d, want 27", len(m.References))
	}
	if m.Date.Published != "2014-02-11" {
		t.Errorf("Published: got %q, want %q", m.Date.Published, "2014-02-11")
	}
	if m.Date.Updated != "2022-03-29T15:59:49Z" {
		t.Errorf("Updated: got %q", m.Date.Updated)
	}
	if m.Publisher == nil || m.Publisher.ID != "https://api.crossref.org/members/4374" {
		t.Errorf("Publisher: got %+v", m.Publisher)
	}
	if m.Provider != "Crossref" {
		t.Errorf("Provider: got %q", m.Provider)
	}
}

func TestParseContributors(t *testing.T) {
	m := parseOne(t, loadFixture(t, "elife-01567.json"))

	if len(m.Contributors) != 5 {
		t.Fatalf("Contributors: got %d, want 5", len(m.Contributors))
	}
	first := m.Contributors[0]
	if first.GivenName != "Martial" || first.FamilyName != "Sankar" {
		t.Errorf("first author: got %q %q", first.GivenName, first.FamilyName)
	}
	if first.Type != hub.Person {
		t.Errorf("Type: got %q, want %q", first.Type, hub.Person)
	}
	if diff := cmp.Diff([]string{"Author"}, first.ContributorRoles); diff != "" {
		t.Errorf("roles mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]hub.Affiliation{{Name: "University of Lausanne"}}, first.Affiliations); diff != "" {
		t.Errorf("affiliations mismatch (-want +got):\n%s", diff)
	}
	if last := m.Contributors[4]; last.FamilyName != "Hardtke" {
		t.Errorf("last author: got %q", last.FamilyName)
	}
}

func TestParseReferencesAreResolvedOrUnstructured(t *testing.T) {
	m := parseOne(t, loadFixture(t, "elife-01567.json"))

	for _, ref := range m.References {
		if ref.ID != "" && (ref.Title != "" || ref.Contributor != "" || ref.Unstructured != "") {
			t.Errorf("reference %s carries both an id and citation fields: %+v", ref.Key, ref)
		}
	}
	first := m.References[0]
	if first.ID != "https://doi.org/10.1016/j.cub.2008.02.070" {
		t.Errorf("first reference: got %+v", first)
	}
	third := m.References[2]
	if third.ID != "" || third.Title != "Cited work 3" || third.ContainerTitle != "Development" {
		t.Errorf("third reference: got %+v", third)
	}
}

func TestParseAbstractAndSubjects(t *testing.T) {
	m := parseOne(t, loadFixture(t, "elife-01567.json"))

	abstract := m.Abstract()
	if strings.Contains(abstract, "jats") {
		t.Errorf("abstract still contains JATS markup: %q", abstract)
	}
	if !strings.HasPrefix(abstract, "Among various advantages") {
		t.Errorf("abstract: got %q", abstract)
	}
	if len(m.Subjects) != 4 {
		t.Errorf("Subjects: got %d, want 4", len(m.Subjects))
	}
}

func TestParseFundingFansOutAwards(t *testing.T) {
	input := `{
		"DOI": "10.5555/12345678",
		"type": "journal-article",
		"title": ["Funded work"],
		"funder": [
			{"DOI": "10.13039/100000001", "name": "National Science Foundation", "award": ["CHE-1142182", "CHE-1305124"]},
			{"name": "Unnamed Trust"}
		]
	}`
	m := parseOne(t, input)

	want := []hub.FundingReference{
		{FunderName: "National Science Foundation", FunderIdentifier: "https://doi.org/10.13039/100000001", FunderIdentifierType: "Crossref Funder ID", AwardNumber: "CHE-1142182"},
		{FunderName: "National Science Foundation", FunderIdentifier: "https://doi.org/10.13039/100000001", FunderIdentifierType: "Crossref Funder ID", AwardNumber: "CHE-1305124"},
		{FunderName: "Unnamed Trust"},
	}
	if diff := cmp.Diff(want, m.FundingReferences); diff != "" {
		t.Errorf("funding mismatch (-want +got):\n%s", diff)
	}
}

func TestParseTypes(t *testing.T) {
	tests := []struct {
		crossrefType string
		wantType     string
		wantAddl     string
	}{
		{"journal-article", "JournalArticle", ""},
		{"book-chapter", "BookChapter", ""},
		{"proceedings-article", "ProceedingsArticle", ""},
		{"posted-content", "Article", ""},
		{"peer-review", "PeerReview", ""},
		{"edited-book", "Book", ""},
		{"something-new", "Other", "SomethingNew"},
	}
	for _, tt := range tests {
		t.Run(tt.crossrefType, func(t *testing.T) {
			m := parseOne(t, `{"DOI": "10.5555/1", "title": ["x"], "type": "`+tt.crossrefType+`"}`)
			if m.Type != tt.wantType {
				t.Errorf("Type: got %q, want %q", m.Type, tt.wantType)
			}
			if m.AdditionalType != tt.wantAddl {
				t.Errorf("AdditionalType: got %q, want %q", m.AdditionalType, tt.wantAddl)
			}
		})
	}
}

func TestParseRelations(t *testing.T) {
	input := `{
		"DOI": "10.1101/2020.01.01.000001",
		"type": "posted-content",
		"title": ["A preprint"],
		"relation": {
			"is-preprint-of": [{"id-type": "doi", "id": "10.7554/eLife.00001", "asserted-by": "subject"}],
			"has-format": [{"id-type": "doi", "id": "10.5555/format"}]
		}
	}`
	m := parseOne(t, input)

	want := []hub.Relation{{ID: "https://doi.org/10.7554/elife.00001", Type: "IsPreprintOf"}}
	if diff := cmp.Diff(want, m.Relations); diff != "" {
		t.Errorf("relations mismatch (-want +got):\n%s", diff)
	}
}

func TestParseDOIOverride(t *testing.T) {
	f := &crossref.Format{}
	opts := &format.ParseOptions{DOI: "10.5555/OVERRIDE"}
	records, err := f.Parse(strings.NewReader(`{"DOI": "10.5555/1", "title": ["x"], "type": "dataset"}`), opts)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if got := records[0].ID; got != "https://doi.org/10.5555/override" {
		t.Errorf("ID: got %q", got)
	}
}

func TestParseCitationCount(t *testing.T) {
	m := parseOne(t, loadFixture(t, "elife-01567.json"))
	if got, _ := m.GetExtra("citation_count"); got != float64(53) {
		t.Errorf("citation_count: got %v, want 53", got)
	}

	m = parseOne(t, `{"DOI": "10.5555/1", "title": ["x"], "type": "dataset", "is-referenced-by-count": 0}`)
	if _, ok := m.GetExtra("citation_count"); ok {
		t.Errorf("a zero citation count should not be kept")
	}
}

func TestParseEmptyIsNotFound(t *testing.T) {
	for _, input := range []string{"", "{}", `{"status": "ok", "message": {}}`} {
		m := parseOne(t, input)
		if !m.IsNotFound() {
			t.Errorf("%q: expected not_found, got state %q", input, m.State)
		}
		if m.Type != hub.TypeOther {
			t.Errorf("%q: Type: got %q, want %q", input, m.Type, hub.TypeOther)
		}
	}
}

func TestParseMalformed(t *testing.T) {
	f := &crossref.Format{}
	_, err := f.Parse(strings.NewReader(`{"DOI": `), &format.ParseOptions{SourceName: "broken.json"})
	if !format.IsMalformed(err) {
		t.Fatalf("expected a malformed input error, got %v", err)
	}
}

func TestParsePresenceDiscipline(t *testing.T) {
	m := parseOne(t, loadFixture(t, "elife-01567.json"))
	if err := hub.CheckPresence(m); err != nil {
		t.Error(err)
	}
	m = parseOne(t, `{"DOI": "10.5555/1", "title": ["x"], "type": "dataset", "author": [], "subject": [], "reference": []}`)
	if err := hub.CheckPresence(m); err != nil {
		t.Error(err)
	}
	if m.Contributors != nil || m.Subjects != nil || m.References != nil {
		t.Errorf("empty lists should be absent: %+v", m)
	}
}

func TestCanParse(t *testing.T) {
	f := &crossref.Format{}
	tests := []struct {
		input string
		want  bool
	}{
		{loadFixture(t, "elife-01567.json"), true},
		{`{"DOI": "10.5555/1", "reference-count": 0}`, true},
		{`{"type": "article-journal", "title": "CSL item"}`, false},
		{`<doi_batch/>`, false},
	}
	for _, tt := range tests {
		if got := f.CanParse([]byte(tt.input)); got != tt.want {
			t.Errorf("CanParse(%.40q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
