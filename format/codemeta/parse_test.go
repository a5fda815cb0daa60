package codemeta

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

func parseOne(t *testing.T, input string, opts *format.ParseOptions) *hub.Metadata {
	t.Helper()
	records, err := (&Format{}).Parse(strings.NewReader(input), opts)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	return records[0]
}

func TestParseCodeMeta(t *testing.T) {
	m := parseOne(t, loadFixture(t, "codemeta.json"), nil)

	if m.ID != "https://doi.org/10.5063/f1m61h5x" {
		t.Errorf("ID: got %q", m.ID)
	}
	if m.Type != "Software" {
		t.Errorf("Type: got %q", m.Type)
	}
	if m.URL != "https://github.com/DataONEorg/rdataone" {
		t.Errorf("URL: got %q", m.URL)
	}
	if m.Title() != "R Interface to the DataONE REST API" {
		t.Errorf("Title: got %q", m.Title())
	}
	if m.PublisherName() != "GitHub" || m.Version != "2.0.0" {
		t.Errorf("Publisher/Version: got %q/%q", m.PublisherName(), m.Version)
	}
	if m.License == nil || m.License.ID != "Apache-2.0" {
		t.Errorf("License: got %+v", m.License)
	}

	wantDate := hub.Date{Published: "2016-05-27", Created: "2016-05-27", Updated: "2016-06-01"}
	if diff := cmp.Diff(wantDate, m.Date); diff != "" {
		t.Errorf("Date mismatch (-want +got):\n%s", diff)
	}

	wantAuthors := []hub.Contributor{
		{
			ID:               "https://orcid.org/0000-0003-0077-4738",
			Type:             hub.Person,
			ContributorRoles: []string{"Author"},
			GivenName:        "Matthew B.",
			FamilyName:       "Jones",
			Affiliations:     []hub.Affiliation{{Name: "NCEAS"}},
		},
		{Type: hub.Person, ContributorRoles: []string{"Author"}, GivenName: "Peter", FamilyName: "Slaughter"},
	}
	if diff := cmp.Diff(wantAuthors, m.Contributors); diff != "" {
		t.Errorf("Contributors mismatch (-want +got):\n%s", diff)
	}

	wantFunding := []hub.FundingReference{{
		FunderName:           "National Science Foundation",
		FunderIdentifier:     "https://doi.org/10.13039/100000001",
		FunderIdentifierType: "Crossref Funder ID",
		AwardNumber:          "1430508",
	}}
	if diff := cmp.Diff(wantFunding, m.FundingReferences); diff != "" {
		t.Errorf("FundingReferences mismatch (-want +got):\n%s", diff)
	}

	if len(m.Subjects) != 3 || m.Subjects[2].Subject != "DataONE" {
		t.Errorf("Subjects: got %v", m.Subjects)
	}
	if got, _ := m.GetExtra("programming_language"); !cmp.Equal(got, []any{"R"}) {
		t.Errorf("programming_language: got %v", got)
	}
}

func TestParseSynthesizesRepository(t *testing.T) {
	input := `{"@context": "https://w3id.org/codemeta/3.0", "name": "tool", "version": "0.1"}`
	opts := &format.ParseOptions{SourceURL: "https://github.com/example/tool/blob/main/codemeta.json"}
	m := parseOne(t, input, opts)

	if m.URL != "https://github.com/example/tool" {
		t.Errorf("URL: got %q", m.URL)
	}
	if m.ID != "https://github.com/example/tool" {
		t.Errorf("ID: got %q", m.ID)
	}
	if m.Type != "Software" || m.PublisherName() != "GitHub" {
		t.Errorf("Type/Publisher: got %q/%q", m.Type, m.PublisherName())
	}
}

func TestParseEmptyIsNotFound(t *testing.T) {
	for _, input := range []string{"", "{}", `{"@context": "https://w3id.org/codemeta/3.0"}`} {
		m := parseOne(t, input, nil)
		if !m.IsNotFound() {
			t.Errorf("Parse(%q): expected not_found, got state %q", input, m.State)
		}
	}
}

func TestParseMalformed(t *testing.T) {
	_, err := (&Format{}).Parse(strings.NewReader(`{"name": `), nil)
	if !format.IsMalformed(err) {
		t.Errorf("expected a malformed input error, got %v", err)
	}
}

func TestCanParse(t *testing.T) {
	f := &Format{}
	if !f.CanParse([]byte(loadFixture(t, "codemeta.json"))) {
		t.Error("expected codemeta.json to be recognized")
	}
	if f.CanParse([]byte(`{"@context": "http://schema.org", "@type": "Dataset"}`)) {
		t.Error("plain schema.org should not be recognized")
	}
}
