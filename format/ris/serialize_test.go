package ris

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

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
		ID:   "https://doi.org/10.1234/test",
		Type: "JournalArticle",
		URL:  "https://example.org/article",
		Titles: []hub.Title{
			{Title: "Test Article"},
		},
		Contributors: []hub.Contributor{
			{Type: hub.Person, ContributorRoles: []string{"Author"}, GivenName: "Jane", FamilyName: "Doe"},
			{Type: hub.Organization, ContributorRoles: []string{"Author"}, Name: "Example Consortium"},
		},
		Publisher:    &hub.Publisher{Name: "Test Publisher"},
		Date:         hub.Date{Published: "2024-03"},
		Descriptions: []hub.Description{{Description: "An <i>abstract</i>\nover two lines.", Type: "Abstract"}},
		Subjects:     []hub.Subject{{Subject: "Testing"}},
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
	}

	want := `TY  - JOUR
T1  - Test Article
T2  - Journal of Tests
AU  - Doe, Jane
AU  - Example Consortium
DO  - 10.1234/test
UR  - https://example.org/article
AB  - An abstract over two lines.
KW  - Testing
PY  - 2024
DA  - 2024/03/
PB  - Test Publisher
SN  - 1234-5678
VL  - 3
IS  - 2
SP  - 1
EP  - 9
ER  - 
`
	if diff := cmp.Diff(want, serialize(t, m)); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestSerializeFallbackTypeAndSkipsNotFound(t *testing.T) {
	m := &hub.Metadata{Type: "PeerReview", Titles: []hub.Title{{Title: "A review"}}}
	output := serialize(t, hub.NotFound("https://doi.org/10.1234/missing"), m)

	if !strings.HasPrefix(output, "TY  - GEN\n") {
		t.Errorf("expected GEN fallback, got:\n%s", output)
	}
	if strings.Count(output, "ER  - ") != 1 {
		t.Errorf("expected one record, got:\n%s", output)
	}
}

func TestRoundTrip(t *testing.T) {
	want := parse(t, loadFixture(t, "crossref.ris"))
	output := serialize(t, want...)
	got := parse(t, output)

	// N1 notes are not written back
	opts := cmpopts.IgnoreFields(hub.Metadata{}, "Descriptions", "Extra")
	if diff := cmp.Diff(want, got, opts); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want[0].ExtraFields(), got[0].ExtraFields()); diff != "" {
		t.Errorf("retained tags mismatch (-want +got):\n%s", diff)
	}
	if got[0].Abstract() != want[0].Abstract() {
		t.Errorf("Abstract: got %q, want %q", got[0].Abstract(), want[0].Abstract())
	}
}
