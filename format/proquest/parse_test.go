package proquest

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/lehigh-university-libraries/commonmeta/format"
	"github.com/lehigh-university-libraries/commonmeta/hub"
)

const submission = `<?xml version="1.0" encoding="UTF-8"?>
<DISS_submission embargo_code="2">
  <DISS_authorship>
    <DISS_author type="primary">
      <DISS_name>
        <DISS_surname>Qin</DISS_surname>
        <DISS_fname>Tian</DISS_fname>
        <DISS_middle>M</DISS_middle>
      </DISS_name>
      <DISS_orcid>0000-0002-1825-0097</DISS_orcid>
    </DISS_author>
  </DISS_authorship>
  <DISS_description page_count="256" type="doctoral">
    <DISS_title>An Investigation of Polymer Networks</DISS_title>
    <DISS_dates>
      <DISS_comp_date>2024</DISS_comp_date>
      <DISS_accept_date>01/15/2024</DISS_accept_date>
    </DISS_dates>
    <DISS_degree>Ph.D.</DISS_degree>
    <DISS_institution>
      <DISS_inst_name>Lehigh University</DISS_inst_name>
      <DISS_inst_contact>Department of Chemistry</DISS_inst_contact>
    </DISS_institution>
    <DISS_advisor>
      <DISS_name>
        <DISS_surname>Huang</DISS_surname>
        <DISS_fname>Wei-Min</DISS_fname>
      </DISS_name>
    </DISS_advisor>
    <DISS_cmte_member>
      <DISS_name>
        <DISS_surname>Jagota</DISS_surname>
        <DISS_fname>Anand</DISS_fname>
      </DISS_name>
    </DISS_cmte_member>
    <DISS_categorization>
      <DISS_category>
        <DISS_cat_code>0495</DISS_cat_code>
        <DISS_cat_desc>Polymer chemistry</DISS_cat_desc>
      </DISS_category>
      <DISS_keyword>polymers, networks</DISS_keyword>
      <DISS_language>en</DISS_language>
    </DISS_categorization>
  </DISS_description>
  <DISS_content>
    <DISS_abstract>
      <DISS_para>This dissertation investigates polymer networks.</DISS_para>
      <DISS_para>Results show improved properties.</DISS_para>
    </DISS_abstract>
    <DISS_binary type="PDF">Qin_lehigh_0105D_12345.pdf</DISS_binary>
  </DISS_content>
  <DISS_repository>
    <DISS_delayed_release>2026-01-15</DISS_delayed_release>
    <DISS_access_option>Campus use only</DISS_access_option>
  </DISS_repository>
</DISS_submission>`

func TestParse(t *testing.T) {
	f := &Format{}
	records, err := f.Parse(strings.NewReader(submission), nil)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	r := records[0]

	checks := []struct {
		field, got, want string
	}{
		{"Title", r.Title(), "An Investigation of Polymer Networks"},
		{"Type", r.Type, "Dissertation"},
		{"Publisher", r.PublisherName(), "Lehigh University"},
		{"Language", r.Language, "en"},
		{"Abstract", r.Abstract(), "This dissertation investigates polymer networks.\n\nResults show improved properties."},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s: got %q, want %q", c.field, c.got, c.want)
		}
	}

	wantContributors := []hub.Contributor{
		{ID: "https://orcid.org/0000-0002-1825-0097", Type: hub.Person, ContributorRoles: []string{"Author"}, GivenName: "Tian M", FamilyName: "Qin"},
		{Type: hub.Person, ContributorRoles: []string{"Supervisor"}, GivenName: "Wei-Min", FamilyName: "Huang"},
		{Type: hub.Person, ContributorRoles: []string{"Other"}, GivenName: "Anand", FamilyName: "Jagota"},
	}
	if diff := cmp.Diff(wantContributors, r.Contributors); diff != "" {
		t.Errorf("Contributors mismatch (-want +got):\n%s", diff)
	}

	wantDate := hub.Date{Published: "2024", Accepted: "2024-01-15", Available: "2026-01-15"}
	if diff := cmp.Diff(wantDate, r.Date); diff != "" {
		t.Errorf("Date mismatch (-want +got):\n%s", diff)
	}

	wantSubjects := []hub.Subject{
		{Subject: "polymers"},
		{Subject: "networks"},
		{Subject: "Polymer chemistry", SubjectScheme: "ProQuest"},
	}
	if diff := cmp.Diff(wantSubjects, r.Subjects); diff != "" {
		t.Errorf("Subjects mismatch (-want +got):\n%s", diff)
	}

	extras := map[string]any{
		"degree":        "Ph.D.",
		"degree_level":  "doctoral",
		"department":    "Department of Chemistry",
		"page_count":    "256",
		"embargo_code":  float64(2),
		"access_option": "Campus use only",
	}
	for key, want := range extras {
		if got, _ := r.GetExtra(key); got != want {
			t.Errorf("%s: got %v, want %v", key, got, want)
		}
	}
	binaries, _ := r.GetExtra("binaries")
	wantBinaries := []any{map[string]any{"key": "Qin_lehigh_0105D_12345.pdf", "mimeType": "application/pdf"}}
	if diff := cmp.Diff(wantBinaries, binaries); diff != "" {
		t.Errorf("binaries mismatch (-want +got):\n%s", diff)
	}
}

func TestParseEmptyInput(t *testing.T) {
	tests := map[string]string{
		"empty":         "",
		"no submission": "<root><other/></root>",
	}
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			records, err := (&Format{}).Parse(strings.NewReader(input), &format.ParseOptions{DOI: "10.1234/missing"})
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if len(records) != 1 || !records[0].IsNotFound() {
				t.Fatalf("expected a not_found record, got %+v", records)
			}
		})
	}
}

func TestParseMalformed(t *testing.T) {
	_, err := (&Format{}).Parse(strings.NewReader(`<DISS_submission><DISS_description page_count=>`), nil)
	if !format.IsMalformed(err) {
		t.Errorf("expected a malformed input error, got %v", err)
	}
}

func TestParseMultipleSubmissions(t *testing.T) {
	input := `<?xml version="1.0" encoding="UTF-8"?>
<root>
<DISS_submission>
  <DISS_description>
    <DISS_title>First Dissertation</DISS_title>
  </DISS_description>
</DISS_submission>
<DISS_submission>
  <DISS_description>
    <DISS_title>Second Dissertation</DISS_title>
  </DISS_description>
</DISS_submission>
</root>`

	f := &Format{}
	records, err := f.Parse(strings.NewReader(input), nil)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	if records[0].Title() != "First Dissertation" {
		t.Errorf("Record 0 title: got %q, want %q", records[0].Title(), "First Dissertation")
	}
	if records[1].Title() != "Second Dissertation" {
		t.Errorf("Record 1 title: got %q, want %q", records[1].Title(), "Second Dissertation")
	}
}

func TestSerialize(t *testing.T) {
	records, err := (&Format{}).Parse(strings.NewReader(submission), nil)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	var buf bytes.Buffer
	if err := (&Format{}).Serialize(&buf, records, nil); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	output := buf.String()

	for _, want := range []string{
		`<DISS_submission embargo_code="2">`,
		`<DISS_description page_count="256" type="doctoral">`,
		`<DISS_orcid>0000-0002-1825-0097</DISS_orcid>`,
		`<DISS_inst_name>Lehigh University</DISS_inst_name>`,
		`<DISS_surname>Huang</DISS_surname>`,
		`<DISS_cmte_member>`,
		`<DISS_cat_desc>Polymer chemistry</DISS_cat_desc>`,
		`<DISS_para>Results show improved properties.</DISS_para>`,
		`<DISS_binary type="PDF">Qin_lehigh_0105D_12345.pdf</DISS_binary>`,
		`<DISS_delayed_release>2026-01-15</DISS_delayed_release>`,
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %s:\n%s", want, output)
		}
	}

	got, err := (&Format{}).Parse(&buf, nil)
	if err != nil {
		t.Fatalf("Parse of serialized output failed: %v", err)
	}
	// Extra holds a proto message; its values are checked in TestParse
	opts := cmpopts.IgnoreFields(hub.Metadata{}, "Extra")
	if diff := cmp.Diff(records, got, opts); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestSerializeSkipsNotFound(t *testing.T) {
	var buf bytes.Buffer
	if err := (&Format{}).Serialize(&buf, []*hub.Metadata{hub.NotFound("https://doi.org/10.1234/missing")}, nil); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestCanParse(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{submission, true},
		{`<mods xmlns="http://www.loc.gov/mods/v3"/>`, false},
		{`{"DISS_submission": {}}`, false},
		{"", false},
	}
	for _, tt := range tests {
		if got := (&Format{}).CanParse([]byte(tt.input)); got != tt.want {
			t.Errorf("CanParse(%.40q): got %v, want %v", tt.input, got, tt.want)
		}
	}
}
