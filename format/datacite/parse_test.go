package datacite

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
	f := &Format{}
	records, err := f.Parse(strings.NewReader(input), nil)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	return records[0]
}

func TestParseDataCiteRecord(t *testing.T) {
	m := parseOne(t, loadFixture(t, "dryad-8515.json"))

	if m.ID != "https://doi.org/10.5061/dryad.8515" {
		t.Errorf("ID: got %q", m.ID)
	}
	if m.Type != "Dataset" {
		t.Errorf("Type: got %q, want %q", m.Type, "Dataset")
	}
	if m.AdditionalType != "" {
		t.Errorf("AdditionalType: got %q, want empty", m.AdditionalType)
	}
	if m.URL != "https://datadryad.org/stash/dataset/doi:10.5061/dryad.8515" {
		t.Errorf("URL: got %q", m.URL)
	}
	if m.Provider != "DataCite" || m.State != "findable" {
		t.Errorf("Provider/State: got %q/%q", m.Provider, m.State)
	}
	if m.PublisherName() != "Dryad" {
		t.Errorf("Publisher: got %q", m.PublisherName())
	}
	if m.Language != "en" || m.Version != "1" {
		t.Errorf("Language/Version: got %q/%q", m.Language, m.Version)
	}

	wantTitles := []hub.Title{
		{Title: "Data from: A new malaria agent in African hominids."},
		{Title: "Plasmodium in apes", Type: "AlternativeTitle", Language: "en"},
	}
	if diff := cmp.Diff(wantTitles, m.Titles); diff != "" {
		t.Errorf("Titles mismatch (-want +got):\n%s", diff)
	}

	wantDate := hub.Date{
		Published: "2011",
		Created:   "2011-02-01T17:22:41Z",
		Updated:   "2020-09-18T23:52:32Z",
		Available: "2011-02-01",
	}
	if diff := cmp.Diff(wantDate, m.Date); diff != "" {
		t.Errorf("Date mismatch (-want +got):\n%s", diff)
	}

	if m.License == nil || m.License.ID != "CC0-1.0" {
		t.Errorf("License: got %+v", m.License)
	}
}

func TestParseCreatorsAndContributors(t *testing.T) {
	m := parseOne(t, loadFixture(t, "dryad-8515.json"))

	want := []hub.Contributor{
		{
			Type:             hub.Person,
			ContributorRoles: []string{"Author"},
			GivenName:        "Benjamin",
			FamilyName:       "Ollomo",
			Affiliations:     []hub.Affiliation{{Name: "Centre International de Recherches Médicales de Franceville"}},
		},
		{
			ID:               "https://orcid.org/0000-0003-1419-2405",
			Type:             hub.Person,
			ContributorRoles: []string{"Author"},
			GivenName:        "François",
			FamilyName:       "Renaud",
			Affiliations:     []hub.Affiliation{{ID: "https://ror.org/051escj72", Name: "University of Montpellier"}},
		},
		{
			Type:             hub.Organization,
			ContributorRoles: []string{"HostingInstitution"},
			Name:             "Dryad Digital Repository",
		},
	}
	if diff := cmp.Diff(want, m.Contributors); diff != "" {
		t.Errorf("Contributors mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRelatedIdentifiers(t *testing.T) {
	m := parseOne(t, loadFixture(t, "dryad-8515.json"))

	wantRefs := []hub.Reference{{ID: "https://doi.org/10.1038/nature09442"}}
	if diff := cmp.Diff(wantRefs, m.References); diff != "" {
		t.Errorf("References mismatch (-want +got):\n%s", diff)
	}

	// HasMetadata has no commonmeta counterpart and is dropped
	wantRels := []hub.Relation{
		{ID: "https://doi.org/10.1371/journal.ppat.1000446", Type: "IsSupplementTo"},
		{ID: "https://portal.issn.org/resource/ISSN/1553-7374", Type: "IsPartOf"},
	}
	if diff := cmp.Diff(wantRels, m.Relations); diff != "" {
		t.Errorf("Relations mismatch (-want +got):\n%s", diff)
	}

	wantContainer := &hub.Container{Type: "Journal", Identifier: "1553-7374", IdentifierType: "ISSN"}
	if diff := cmp.Diff(wantContainer, m.Container); diff != "" {
		t.Errorf("Container mismatch (-want +got):\n%s", diff)
	}
}

func TestParseDescriptionsSubjectsFunding(t *testing.T) {
	m := parseOne(t, loadFixture(t, "dryad-8515.json"))

	wantDesc := []hub.Description{
		{Description: "Data from a <i>Plasmodium</i> survey.", Type: "Abstract"},
		{Description: "Sequence alignments", Type: "Other"},
	}
	if diff := cmp.Diff(wantDesc, m.Descriptions); diff != "" {
		t.Errorf("Descriptions mismatch (-want +got):\n%s", diff)
	}

	if len(m.Subjects) != 2 || m.Subjects[1].SubjectScheme != "Fields of Science and Technology (FOS)" {
		t.Errorf("Subjects: got %+v", m.Subjects)
	}

	wantFunding := []hub.FundingReference{{
		FunderName:           "Agence Nationale de la Recherche",
		FunderIdentifier:     "https://doi.org/10.13039/501100001665",
		FunderIdentifierType: "Crossref Funder ID",
		AwardNumber:          "ANR-05-MIME-005",
	}}
	if diff := cmp.Diff(wantFunding, m.FundingReferences); diff != "" {
		t.Errorf("FundingReferences mismatch (-want +got):\n%s", diff)
	}

	wantIDs := []hub.Identifier{
		{Identifier: "https://doi.org/10.5061/dryad.8515", IdentifierType: "DOI"},
		{Identifier: "Ollomo2011", IdentifierType: "citation key"},
	}
	if diff := cmp.Diff(wantIDs, m.Identifiers); diff != "" {
		t.Errorf("Identifiers mismatch (-want +got):\n%s", diff)
	}
}

func TestParseExtras(t *testing.T) {
	m := parseOne(t, loadFixture(t, "dryad-8515.json"))

	if got, ok := m.GetExtra("citation_count"); !ok || got != float64(3) {
		t.Errorf("citation_count: got %v, %v", got, ok)
	}
	if _, ok := m.GetExtra("view_count"); ok {
		t.Error("zero counts should not be retained")
	}
	if _, ok := m.GetExtra("geo_locations"); !ok {
		t.Error("geo_locations should be retained")
	}
}

func TestParseTypes(t *testing.T) {
	tests := []struct {
		name           string
		types          string
		wantType       string
		wantAdditional string
	}{
		{"general only", `{"resourceTypeGeneral": "Software"}`, "Software", ""},
		{"crossref resource type wins", `{"resourceTypeGeneral": "Text", "resourceType": "Journal Article"}`, "JournalArticle", ""},
		{"free text kept", `{"resourceTypeGeneral": "Text", "resourceType": "Lecture notes"}`, "Document", "Lecture notes"},
		{"preprint", `{"resourceTypeGeneral": "Preprint"}`, "Article", ""},
		{"unknown resource type without general", `{"resourceType": "Whatchamacallit"}`, "Other", "Whatchamacallit"},
		{"no types", `{}`, "Other", ""},
		{"unmapped general", `{"resourceTypeGeneral": "Workflow"}`, "Other", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := `{"doi": "10.5555/1", "titles": [{"title": "T"}], "types": ` + tt.types + `}`
			m := parseOne(t, input)
			if m.Type != tt.wantType {
				t.Errorf("Type: got %q, want %q", m.Type, tt.wantType)
			}
			if m.AdditionalType != tt.wantAdditional {
				t.Errorf("AdditionalType: got %q, want %q", m.AdditionalType, tt.wantAdditional)
			}
		})
	}
}

func TestParsePublisherObject(t *testing.T) {
	input := `{"doi": "10.5555/1", "titles": [{"title": "T"}],
		"publisher": {"name": "Zenodo", "publisherIdentifier": "https://ror.org/02hb7bm88", "publisherIdentifierScheme": "ROR"}}`
	m := parseOne(t, input)
	want := &hub.Publisher{ID: "https://ror.org/02hb7bm88", Name: "Zenodo"}
	if diff := cmp.Diff(want, m.Publisher); diff != "" {
		t.Errorf("Publisher mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRelatedItemContainer(t *testing.T) {
	input := `{"doi": "10.5555/1", "titles": [{"title": "T"}], "types": {"resourceTypeGeneral": "JournalArticle"},
		"relatedItems": [{
			"relationType": "IsPublishedIn",
			"relatedItemType": "Journal",
			"relatedItemIdentifier": {"relatedItemIdentifier": "2050-084X", "relatedItemIdentifierType": "ISSN"},
			"titles": [{"title": "eLife"}],
			"volume": "3", "issue": "1", "firstPage": "e01567"
		}]}`
	m := parseOne(t, input)
	want := &hub.Container{
		Type:           "Journal",
		Title:          "eLife",
		Identifier:     "2050-084X",
		IdentifierType: "ISSN",
		Volume:         "3",
		Issue:          "1",
		FirstPage:      "e01567",
	}
	if diff := cmp.Diff(want, m.Container); diff != "" {
		t.Errorf("Container mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSearchResults(t *testing.T) {
	input := `{"data": [
		{"id": "10.5555/1", "attributes": {"doi": "10.5555/1", "titles": [{"title": "One"}]}},
		{"id": "10.5555/2", "attributes": {"doi": "10.5555/2", "titles": [{"title": "Two"}]}}
	]}`
	records, err := (&Format{}).Parse(strings.NewReader(input), nil)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[1].Title() != "Two" {
		t.Errorf("Title: got %q", records[1].Title())
	}
}

func TestParseEmptyIsNotFound(t *testing.T) {
	for _, input := range []string{"", "{}", `{"data": {"attributes": {}}}`, `{"data": []}`} {
		m := parseOne(t, input)
		if !m.IsNotFound() {
			t.Errorf("Parse(%q): expected not_found, got state %q", input, m.State)
		}
	}
}

func TestParseDOIOverride(t *testing.T) {
	records, err := (&Format{}).Parse(strings.NewReader(loadFixture(t, "dryad-8515.json")), &format.ParseOptions{DOI: "10.5555/OVERRIDE"})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if got := records[0].ID; got != "https://doi.org/10.5555/override" {
		t.Errorf("ID: got %q", got)
	}
}

func TestParseMalformed(t *testing.T) {
	_, err := (&Format{}).Parse(strings.NewReader(`{"data": {`), nil)
	if !format.IsMalformed(err) {
		t.Errorf("expected a malformed input error, got %v", err)
	}
}

func TestCanParse(t *testing.T) {
	f := &Format{}
	if !f.CanParse([]byte(loadFixture(t, "dryad-8515.json"))) {
		t.Error("expected DataCite JSON to be recognized")
	}
	if f.CanParse([]byte(`{"message-type": "work"}`)) {
		t.Error("Crossref JSON should not be recognized")
	}
	if f.CanParse([]byte(`<resource/>`)) {
		t.Error("XML should not be recognized")
	}
}
