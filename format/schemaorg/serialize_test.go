package schemaorg

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/segmentio/encoding/json"

	"github.com/lehigh-university-libraries/commonmeta/format"
	"github.com/lehigh-university-libraries/commonmeta/hub"
)

func testRecord() *hub.Metadata {
	return &hub.Metadata{
		ID:       "https://doi.org/10.1234/test",
		Type:     "JournalArticle",
		URL:      "https://example.org/article",
		Titles:   []hub.Title{{Title: "Test Article Title"}},
		Language: "en",
		Contributors: []hub.Contributor{
			{
				ID:               "https://orcid.org/0000-0001-2345-6789",
				Type:             hub.Person,
				ContributorRoles: []string{"Author"},
				GivenName:        "Jane",
				FamilyName:       "Doe",
				Affiliations:     []hub.Affiliation{{Name: "Lehigh University"}},
			},
			{Type: hub.Organization, ContributorRoles: []string{"Editor"}, Name: "Editorial Board"},
		},
		Publisher:    &hub.Publisher{Name: "Test Publisher"},
		Date:         hub.Date{Published: "2024-03-15"},
		License:      &hub.License{ID: "CC-BY-4.0", URL: "https://creativecommons.org/licenses/by/4.0/legalcode"},
		Descriptions: []hub.Description{{Description: "This is an abstract for testing.", Type: "Abstract"}},
		Subjects:     []hub.Subject{{Subject: "Computer Science"}, {Subject: "Testing"}},
		Container: &hub.Container{
			Type:           "Journal",
			Title:          "Journal of Tests",
			Identifier:     "1234-5678",
			IdentifierType: "ISSN",
			Volume:         "3",
			Issue:          "2",
			FirstPage:      "1",
			LastPage:       "9",
		},
		Identifiers: []hub.Identifier{{Identifier: "https://doi.org/10.1234/test", IdentifierType: "DOI"}},
	}
}

func serialize(t *testing.T, records ...*hub.Metadata) string {
	t.Helper()
	var buf bytes.Buffer
	if err := (&Format{}).Serialize(&buf, records, &format.SerializeOptions{Pretty: true}); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	return buf.String()
}

func TestSerializeScholarlyArticle(t *testing.T) {
	output := serialize(t, testRecord())

	var doc map[string]any
	if err := json.Unmarshal([]byte(output), &doc); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}

	checks := map[string]any{
		"@context":      "http://schema.org",
		"@type":         "ScholarlyArticle",
		"@id":           "https://doi.org/10.1234/test",
		"name":          "Test Article Title",
		"datePublished": "2024-03-15",
		"inLanguage":    "en",
		"keywords":      "Computer Science, Testing",
		"description":   "This is an abstract for testing.",
		"license":       "https://creativecommons.org/licenses/by/4.0/legalcode",
		"pageStart":     "1",
		"pageEnd":       "9",
	}
	for key, want := range checks {
		if got := doc[key]; got != want {
			t.Errorf("%s: got %v, want %v", key, got, want)
		}
	}

	if !strings.Contains(output, `"familyName": "Doe"`) || !strings.Contains(output, `"@id": "https://orcid.org/0000-0001-2345-6789"`) {
		t.Errorf("author not written:\n%s", output)
	}
	if _, ok := doc["editor"]; !ok {
		t.Error("expected an editor")
	}

	issue, _ := doc["isPartOf"].(map[string]any)
	if issue["@type"] != "PublicationIssue" || issue["issueNumber"] != "2" {
		t.Fatalf("isPartOf: got %v", doc["isPartOf"])
	}
	volume, _ := issue["isPartOf"].(map[string]any)
	periodical, _ := volume["isPartOf"].(map[string]any)
	if volume["volumeNumber"] != "3" || periodical["issn"] != "1234-5678" || periodical["@type"] != "Periodical" {
		t.Errorf("periodical chain: got %v", issue)
	}
}

func TestSerializeFallbackType(t *testing.T) {
	m := testRecord()
	m.Type = "Presentation"
	m.Container = &hub.Container{Type: "DataRepository", Title: "Zenodo", Identifier: "https://zenodo.org", IdentifierType: "URL"}

	var doc map[string]any
	if err := json.Unmarshal([]byte(serialize(t, m)), &doc); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if doc["@type"] != "CreativeWork" || doc["additionalType"] != "Presentation" {
		t.Errorf("type: got %v/%v", doc["@type"], doc["additionalType"])
	}
	catalog, _ := doc["includedInDataCatalog"].(map[string]any)
	if catalog["name"] != "Zenodo" || catalog["url"] != "https://zenodo.org" {
		t.Errorf("includedInDataCatalog: got %v", doc["includedInDataCatalog"])
	}
}

func TestSerializeMultipleAndNotFound(t *testing.T) {
	second := testRecord()
	second.ID = "https://doi.org/10.1234/second"
	output := serialize(t, testRecord(), hub.NotFound("https://doi.org/10.1234/missing"), second)

	var docs []map[string]any
	if err := json.Unmarshal([]byte(output), &docs); err != nil {
		t.Fatalf("expected a JSON array: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
	if docs[1]["@id"] != "https://doi.org/10.1234/second" {
		t.Errorf("second @id: got %v", docs[1]["@id"])
	}
}

func TestRoundTrip(t *testing.T) {
	want := parseOne(t, loadFixture(t, "blog-post.jsonld"))
	got := parseOne(t, serialize(t, want))

	// only the abstract is written as description
	opts := cmpopts.IgnoreFields(hub.Metadata{}, "Descriptions", "Extra")
	if diff := cmp.Diff(want, got, opts); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
	if got.Abstract() != want.Abstract() {
		t.Errorf("Abstract: got %q, want %q", got.Abstract(), want.Abstract())
	}
}
