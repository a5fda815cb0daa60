package kbase

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

func parseOne(t *testing.T, input string) *hub.Metadata {
	t.Helper()
	records, err := (&Format{}).Parse(strings.NewReader(input), nil)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	return records[0]
}

func TestParseCreditMetadata(t *testing.T) {
	m := parseOne(t, loadFixture(t, "credit.json"))

	if m.ID != "https://doi.org/10.25982/86723.65/1778009" {
		t.Errorf("ID: got %q", m.ID)
	}
	if m.Type != "Dataset" {
		t.Errorf("Type: got %q, want %q", m.Type, "Dataset")
	}
	if m.URL != "https://kbase.us/n/86723/65" {
		t.Errorf("URL: got %q", m.URL)
	}
	if m.Version != "1.0" {
		t.Errorf("Version: got %q", m.Version)
	}
	if m.Date.Published != "2021-05-21" || m.Date.Accepted != "2021-04-30" {
		t.Errorf("dates: got %+v", m.Date)
	}
	if m.Publisher == nil || m.Publisher.Name != "KBase" || m.Publisher.ID != "https://ror.org/02jbv0t02" {
		t.Errorf("Publisher: got %+v", m.Publisher)
	}
	if m.License == nil || m.License.ID != "CC-BY-4.0" {
		t.Errorf("License: got %+v", m.License)
	}
	if m.Abstract() != "Genomes binned from soil metagenomes." {
		t.Errorf("Abstract: got %q", m.Abstract())
	}

	wantTitles := []hub.Title{
		{Title: "Metagenome assembled genomes from the Angelo Coastal Range Reserve"},
		{Title: "Angelo MAGs", Type: "AlternativeTitle"},
	}
	if diff := cmp.Diff(wantTitles, m.Titles); diff != "" {
		t.Errorf("Titles mismatch (-want +got):\n%s", diff)
	}

	wantFiles := []hub.File{{URL: "https://kbase.us/n/86723/65/data.tar.gz"}}
	if diff := cmp.Diff(wantFiles, m.Files); diff != "" {
		t.Errorf("Files mismatch (-want +got):\n%s", diff)
	}

	meta, ok := m.GetExtra("kbase_meta")
	if !ok {
		t.Fatal("expected kbase_meta to be retained")
	}
	if saved := meta.(map[string]any)["saved_by"]; saved != "kbaseuser" {
		t.Errorf("kbase_meta.saved_by: got %v", saved)
	}
}

func TestParseContributors(t *testing.T) {
	m := parseOne(t, loadFixture(t, "credit.json"))

	want := []hub.Contributor{
		{
			ID:               "https://orcid.org/0000-0002-1825-0097",
			Type:             hub.Person,
			ContributorRoles: []string{"Researcher"},
			GivenName:        "Josiah",
			FamilyName:       "Carberry",
			Affiliations:     []hub.Affiliation{{ID: "https://ror.org/05gq02987", Name: "Brown University"}},
		},
		{
			ID:               "https://ror.org/02jbv0t02",
			Type:             hub.Organization,
			ContributorRoles: []string{"HostingInstitution"},
			Name:             "Lawrence Berkeley National Laboratory",
		},
		{
			Type:             hub.Person,
			ContributorRoles: []string{"Author"},
			GivenName:        "Mary",
			FamilyName:       "Smith",
		},
	}
	if diff := cmp.Diff(want, m.Contributors); diff != "" {
		t.Errorf("Contributors mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRelationsAndFunding(t *testing.T) {
	m := parseOne(t, loadFixture(t, "credit.json"))

	wantRelations := []hub.Relation{{ID: "https://doi.org/10.1038/s41586-020-2983-4", Type: "IsSupplementTo"}}
	if diff := cmp.Diff(wantRelations, m.Relations); diff != "" {
		t.Errorf("Relations mismatch (-want +got):\n%s", diff)
	}
	wantRefs := []hub.Reference{{ID: "https://doi.org/10.1101/2020.01.01.123456"}}
	if diff := cmp.Diff(wantRefs, m.References); diff != "" {
		t.Errorf("References mismatch (-want +got):\n%s", diff)
	}

	wantFunding := []hub.FundingReference{{
		FunderName:           "U.S. Department of Energy",
		FunderIdentifier:     "https://doi.org/10.13039/100000015",
		FunderIdentifierType: "Crossref Funder ID",
		AwardNumber:          "DE-AC02-05CH11231",
		AwardURI:             "https://www.osti.gov/award/DE-AC02-05CH11231",
	}}
	if diff := cmp.Diff(wantFunding, m.FundingReferences); diff != "" {
		t.Errorf("FundingReferences mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"DOI:10.25982/86723.65/1778009", "https://doi.org/10.25982/86723.65/1778009"},
		{"ORCID:0000-0002-1825-0097", "https://orcid.org/0000-0002-1825-0097"},
		{"ROR:02jbv0t02", "https://ror.org/02jbv0t02"},
		{"ISSN:2050-084X", "https://portal.issn.org/resource/ISSN/2050-084X"},
		{"URL:http://example.org/", "https://example.org"},
		{"https://example.org/a", "https://example.org/a"},
		{"JGI:12345", "JGI:12345"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := resolve(tt.in); got != tt.want {
			t.Errorf("resolve(%q): got %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseUnknownTypeFallsBack(t *testing.T) {
	m := parseOne(t, `{"identifier": "DOI:10.25982/1", "resource_type": "genome"}`)
	if m.Type != hub.TypeOther {
		t.Errorf("Type: got %q, want %q", m.Type, hub.TypeOther)
	}
}

func TestParseEmpty(t *testing.T) {
	for _, input := range []string{`{}`, `[]`, ``} {
		m := parseOne(t, input)
		if !m.IsNotFound() {
			t.Errorf("%q: expected not_found, got %+v", input, m)
		}
	}
}

func TestParseMalformed(t *testing.T) {
	_, err := (&Format{}).Parse(strings.NewReader(`{"identifier": `), nil)
	if !format.IsMalformed(err) {
		t.Fatalf("expected a malformed input error, got %v", err)
	}
}
