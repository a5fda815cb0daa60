package dublincore

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/lehigh-university-libraries/commonmeta/format"
	"github.com/lehigh-university-libraries/commonmeta/hub"
)

func loadFixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("failed to load fixture %s: %v", name, err)
	}
	return string(data)
}

func parse(t *testing.T, input string, opts *format.ParseOptions) []*hub.Metadata {
	t.Helper()
	records, err := (&Format{}).Parse(strings.NewReader(input), opts)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return records
}

func TestParseOAIPMH(t *testing.T) {
	records := parse(t, loadFixture(t, "oai-pmh.xml"), nil)
	if len(records) != 2 {
		t.Fatalf("expected 2 records (deleted one skipped), got %d", len(records))
	}

	m := records[0]
	checks := []struct {
		field, got, want string
	}{
		{"ID", m.ID, "https://doi.org/10.5555/etd.8121"},
		{"URL", m.URL, "https://preserve.lehigh.edu/etd/8121"},
		{"Type", m.Type, "Dissertation"},
		{"Title", m.Title(), "Fatigue Behavior of Welded Steel Bridge Details"},
		{"Publisher", m.PublisherName(), "Lehigh University"},
		{"Published", m.Date.Published, "2023-05-15"},
		{"Language", m.Language, "en"},
		{"Abstract", m.Abstract(), "This dissertation examines <i>fatigue</i> crack growth in welded details."},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s: got %q, want %q", c.field, c.got, c.want)
		}
	}

	if !strings.HasPrefix(m.Date.Updated, "2023-11-20") {
		t.Errorf("Updated from header datestamp: got %q", m.Date.Updated)
	}
	if m.Titles[0].Language != "en" {
		t.Errorf("title language: got %q, want %q", m.Titles[0].Language, "en")
	}
	if m.License == nil || m.License.ID != "CC-BY-NC-4.0" {
		t.Errorf("License: got %+v", m.License)
	}
	if len(m.Contributors) != 2 {
		t.Fatalf("expected 2 contributors, got %d", len(m.Contributors))
	}
	if c := m.Contributors[0]; c.FamilyName != "Martinez" || !c.HasRole(hub.RoleAuthor) {
		t.Errorf("creator: got %+v", c)
	}
	if c := m.Contributors[1]; c.FamilyName != "Fisher" || !c.HasRole("Other") {
		t.Errorf("contributor: got %+v", c)
	}

	wantIDs := []hub.Identifier{{Identifier: "oai:preserve.lehigh.edu:etd-8121", IdentifierType: "OAI"}}
	if diff := cmp.Diff(wantIDs, m.Identifiers); diff != "" {
		t.Errorf("Identifiers mismatch (-want +got):\n%s", diff)
	}
	wantRelations := []hub.Relation{{ID: "https://doi.org/10.5555/bridges.2021.7", Type: "IsRelatedMaterial"}}
	if diff := cmp.Diff(wantRelations, m.Relations); diff != "" {
		t.Errorf("Relations mismatch (-want +got):\n%s", diff)
	}
	if v, _ := m.GetExtra("access_rights"); v != "openAccess" {
		t.Errorf("access_rights: got %v", v)
	}
	if v, _ := m.GetExtra("format"); v != "application/pdf" {
		t.Errorf("format: got %v", v)
	}

	data := records[1]
	if data.ID != "https://preserve.lehigh.edu/data/44" || data.Type != "Dataset" {
		t.Errorf("second record: got %q (%s)", data.ID, data.Type)
	}
	if c := data.Contributors[0]; c.Type != hub.Organization || c.Name != "Fritz Engineering Laboratory" {
		t.Errorf("organization creator: got %+v", c)
	}
	if data.Date.Updated != "2024-02-03" {
		t.Errorf("Updated: got %q, want %q", data.Date.Updated, "2024-02-03")
	}
}

func TestParseQualified(t *testing.T) {
	records := parse(t, loadFixture(t, "qualified.xml"), nil)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	m := records[0]

	if m.ID != "https://doi.org/10.1234/test.2024" {
		t.Errorf("ID: got %q", m.ID)
	}
	if m.Type != "Software" {
		t.Errorf("Type: got %q, want %q", m.Type, "Software")
	}
	wantTitles := []hub.Title{
		{Title: "Understanding Dublin Core Metadata"},
		{Title: "A Guide to DC", Type: "AlternativeTitle"},
	}
	if diff := cmp.Diff(wantTitles, m.Titles); diff != "" {
		t.Errorf("Titles mismatch (-want +got):\n%s", diff)
	}
	wantDescriptions := []hub.Description{
		{Description: "A comprehensive guide to Dublin Core metadata standards.", Type: "Abstract"},
		{Description: "Table of contents.", Type: "Other"},
	}
	if diff := cmp.Diff(wantDescriptions, m.Descriptions); diff != "" {
		t.Errorf("Descriptions mismatch (-want +got):\n%s", diff)
	}
	wantDate := hub.Date{Published: "2024-06-01", Created: "2024-01-15", Updated: "2024-07-02"}
	if diff := cmp.Diff(wantDate, m.Date); diff != "" {
		t.Errorf("Date mismatch (-want +got):\n%s", diff)
	}
	wantRelations := []hub.Relation{
		{ID: "https://doi.org/10.1234/series.1", Type: "IsPartOf"},
		{ID: "https://example.org/dc-guide", Type: "IsVersionOf"},
	}
	if diff := cmp.Diff(wantRelations, m.Relations); diff != "" {
		t.Errorf("Relations mismatch (-want +got):\n%s", diff)
	}
	if len(m.Identifiers) != 1 || m.Identifiers[0].IdentifierType != hub.IdentifierISBN {
		t.Errorf("Identifiers: got %+v", m.Identifiers)
	}
	if m.License == nil || m.License.ID != "CC-BY-4.0" {
		t.Errorf("License: got %+v", m.License)
	}
	if v, _ := m.GetExtra("source"); v != "Library Metadata Handbook" {
		t.Errorf("source: got %v", v)
	}
}

func TestResourceType(t *testing.T) {
	tests := []struct {
		types          []string
		want, wantMore string
	}{
		{[]string{"Text"}, "Document", ""},
		{[]string{"Text", "info:eu-repo/semantics/article"}, "JournalArticle", ""},
		{[]string{"info:eu-repo/semantics/masterThesis", "Text"}, "Dissertation", ""},
		{[]string{"Moving Image"}, "Audiovisual", ""},
		{[]string{"Service"}, "Other", ""},
		{[]string{"Poster"}, "Other", "Poster"},
		{nil, "Other", ""},
	}
	for _, tt := range tests {
		got, more := resourceType(tt.types)
		if got != tt.want || more != tt.wantMore {
			t.Errorf("resourceType(%q): got %q/%q, want %q/%q", tt.types, got, more, tt.want, tt.wantMore)
		}
	}
}

func TestParseNotFound(t *testing.T) {
	tests := map[string]string{
		"empty":         "",
		"whitespace":    "  \n",
		"only deleted":  `<OAI-PMH xmlns="http://www.openarchives.org/OAI/2.0/"><ListRecords><record><header status="deleted"><identifier>oai:x:1</identifier></header></record></ListRecords></OAI-PMH>`,
		"no dc element": `<metadata><title>Not namespaced</title></metadata>`,
	}
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			records := parse(t, input, &format.ParseOptions{DOI: "10.1234/missing"})
			if len(records) != 1 || !records[0].IsNotFound() {
				t.Fatalf("expected a not_found record, got %+v", records)
			}
			if records[0].ID != "https://doi.org/10.1234/missing" {
				t.Errorf("ID: got %q", records[0].ID)
			}
		})
	}
}

func TestParseMalformed(t *testing.T) {
	_, err := (&Format{}).Parse(strings.NewReader(`<metadata xmlns:dc="http://purl.org/dc/elements/1.1/"><dc:title lang=>x</dc:title></metadata>`), nil)
	if !format.IsMalformed(err) {
		t.Errorf("expected a malformed input error, got %v", err)
	}
}

func TestSerialize(t *testing.T) {
	m := parse(t, loadFixture(t, "qualified.xml"), nil)[0]
	var buf bytes.Buffer
	if err := (&Format{}).Serialize(&buf, []*hub.Metadata{m}, nil); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	output := buf.String()

	for _, want := range []string{
		`<oai_dc:dc xmlns:oai_dc="http://www.openarchives.org/OAI/2.0/oai_dc/"`,
		`<dc:title>Understanding Dublin Core Metadata</dc:title>`,
		`<dc:creator>Smith, John</dc:creator>`,
		`<dc:type>Software</dc:type>`,
		`<dc:identifier>https://doi.org/10.1234/test.2024</dc:identifier>`,
		`<dc:date>2024-06-01</dc:date>`,
		`<dc:relation>https://doi.org/10.1234/series.1</dc:relation>`,
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %s:\n%s", want, output)
		}
	}
	if strings.Contains(output, "<collection>") {
		t.Errorf("single record wrapped in a collection:\n%s", output)
	}
}

func TestSerializeCollection(t *testing.T) {
	records := parse(t, loadFixture(t, "oai-pmh.xml"), nil)
	records = append(records, hub.NotFound("https://doi.org/10.1234/missing"))

	var buf bytes.Buffer
	if err := (&Format{}).Serialize(&buf, records, nil); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	if n := strings.Count(buf.String(), "<oai_dc:dc "); n != 2 {
		t.Errorf("expected 2 oai_dc elements, got %d:\n%s", n, buf.String())
	}
	if strings.Contains(buf.String(), "missing") {
		t.Errorf("not_found record written:\n%s", buf.String())
	}
}

func TestRoundTrip(t *testing.T) {
	want := parse(t, loadFixture(t, "oai-pmh.xml"), nil)[0]

	var buf bytes.Buffer
	if err := (&Format{}).Serialize(&buf, []*hub.Metadata{want}, nil); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	got := parse(t, buf.String(), nil)[0]

	// oai_dc has no place for the OAI header, the access rights or the
	// source type beyond DCMI Text
	opts := cmpopts.IgnoreFields(hub.Metadata{}, "Type", "Identifiers", "Extra", "Date", "Descriptions")
	if diff := cmp.Diff(want, got, opts); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestCanParse(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{loadFixture(t, "oai-pmh.xml"), true},
		{loadFixture(t, "qualified.xml"), true},
		{`<resource xmlns="http://datacite.org/schema/kernel-4"/>`, false},
		{`{"title": "dc:title"}`, false},
		{`<!DOCTYPE html><html><head><link rel="schema.DC" href="http://purl.org/dc/elements/1.1/"></head></html>`, false},
		{"", false},
	}
	for _, tt := range tests {
		if got := (&Format{}).CanParse([]byte(tt.input)); got != tt.want {
			t.Errorf("CanParse(%.40q): got %v, want %v", tt.input, got, tt.want)
		}
	}
}
