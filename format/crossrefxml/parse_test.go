package crossrefxml

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lehigh-university-libraries/commonmeta/format"
	"github.com/lehigh-university-libraries/commonmeta/hub"
)

const journalDeposit = `<?xml version="1.0" encoding="UTF-8"?>
<doi_batch xmlns="http://www.crossref.org/schema/5.3.1" xmlns:jats="http://www.ncbi.nlm.nih.gov/JATS1"
  xmlns:fr="http://www.crossref.org/fundref.xsd" xmlns:ai="http://www.crossref.org/AccessIndicators.xsd"
  xmlns:rel="http://www.crossref.org/relations.xsd" version="5.3.1">
  <head>
    <doi_batch_id>test_batch_001</doi_batch_id>
    <timestamp>20250101120000</timestamp>
    <depositor>
      <depositor_name>Test Depositor</depositor_name>
      <email_address>test@example.com</email_address>
    </depositor>
    <registrant>Test Registrant</registrant>
  </head>
  <body>
    <journal>
      <journal_metadata>
        <full_title>Journal of Testing</full_title>
        <issn media_type="print">1234-5679</issn>
        <issn media_type="electronic">1234-5678</issn>
      </journal_metadata>
      <journal_issue>
        <publication_date media_type="online">
          <year>2025</year>
          <month>3</month>
        </publication_date>
        <journal_volume>
          <volume>42</volume>
        </journal_volume>
        <issue>7</issue>
      </journal_issue>
      <journal_article publication_type="full_text" language="en">
        <titles>
          <title>A Novel Approach to <i>Unit</i> Testing</title>
          <subtitle>Lessons learned</subtitle>
        </titles>
        <contributors>
          <person_name contributor_role="author" sequence="first">
            <given_name>Alice</given_name>
            <surname>Smith</surname>
            <affiliations>
              <institution>
                <institution_name>Lehigh University</institution_name>
                <institution_id type="ror">https://ror.org/012afjb06</institution_id>
              </institution>
            </affiliations>
            <ORCID>https://orcid.org/0000-0002-1825-0097</ORCID>
          </person_name>
          <person_name contributor_role="editor" sequence="additional">
            <given_name>Bob</given_name>
            <surname>Jones</surname>
          </person_name>
          <organization contributor_role="author" sequence="additional">Testing Consortium</organization>
        </contributors>
        <jats:abstract>
          <jats:title>Abstract</jats:title>
          <jats:p>Tests <jats:italic>in vivo</jats:italic> are rare.</jats:p>
        </jats:abstract>
        <publication_date media_type="print">
          <year>2025</year>
          <month>4</month>
          <day>1</day>
        </publication_date>
        <publication_date media_type="online">
          <year>2025</year>
          <month>3</month>
          <day>15</day>
        </publication_date>
        <pages>
          <first_page>101</first_page>
          <last_page>110</last_page>
        </pages>
        <fr:program name="fundref">
          <fr:assertion name="fundgroup">
            <fr:assertion name="funder_name">National Science Foundation
              <fr:assertion name="funder_identifier">https://doi.org/10.13039/100000001</fr:assertion>
            </fr:assertion>
            <fr:assertion name="award_number">CHE-1142182</fr:assertion>
            <fr:assertion name="award_number">CHE-1305124</fr:assertion>
          </fr:assertion>
        </fr:program>
        <ai:program name="AccessIndicators">
          <ai:license_ref applies_to="am">https://example.org/am-license</ai:license_ref>
          <ai:license_ref applies_to="vor">https://creativecommons.org/licenses/by/4.0/</ai:license_ref>
        </ai:program>
        <rel:program name="relations">
          <rel:related_item>
            <rel:intra_work_relation relationship-type="hasPreprint" identifier-type="doi">10.1101/2024.01.01.000001</rel:intra_work_relation>
          </rel:related_item>
          <rel:related_item>
            <rel:inter_work_relation relationship-type="isSupplementedBy" identifier-type="doi">10.5061/DRYAD.ABC123</rel:inter_work_relation>
          </rel:related_item>
        </rel:program>
        <doi_data>
          <doi>10.1234/test.2025.001</doi>
          <resource>https://example.com/article/001</resource>
          <collection property="text-mining">
            <item>
              <resource mime_type="application/pdf">https://example.com/article/001.pdf</resource>
            </item>
          </collection>
        </doi_data>
        <citation_list>
          <citation key="ref1">
            <doi>10.7554/eLife.01567</doi>
          </citation>
          <citation key="ref2">
            <journal_title>Plant Physiology</journal_title>
            <author>Smith</author>
            <volume>12</volume>
            <first_page>5</first_page>
            <cYear>1999</cYear>
            <article_title>Roots</article_title>
          </citation>
          <citation key="ref3">
            <unstructured_citation>Doe J. A book. 2001.</unstructured_citation>
          </citation>
        </citation_list>
      </journal_article>
    </journal>
  </body>
</doi_batch>`

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

func TestParseJournalArticle(t *testing.T) {
	r := parseOne(t, journalDeposit)

	if r.ID != "https://doi.org/10.1234/test.2025.001" {
		t.Errorf("ID: got %q", r.ID)
	}
	if r.Type != "JournalArticle" {
		t.Errorf("Type: got %q, want %q", r.Type, "JournalArticle")
	}
	if r.Title() != "A Novel Approach to <i>Unit</i> Testing" {
		t.Errorf("Title: got %q", r.Title())
	}
	if len(r.Titles) != 2 || r.Titles[1].Type != "Subtitle" {
		t.Errorf("Titles: got %+v", r.Titles)
	}
	if r.Language != "en" {
		t.Errorf("Language: got %q", r.Language)
	}

	wantContainer := &hub.Container{
		Type:           "Journal",
		Title:          "Journal of Testing",
		Identifier:     "1234-5678",
		IdentifierType: "ISSN",
		Volume:         "42",
		Issue:          "7",
		FirstPage:      "101",
		LastPage:       "110",
	}
	if diff := cmp.Diff(wantContainer, r.Container); diff != "" {
		t.Errorf("Container mismatch (-want +got):\n%s", diff)
	}

	if r.Date.Published != "2025-03-15" {
		t.Errorf("Published: got %q, want %q", r.Date.Published, "2025-03-15")
	}

	if abstract := r.Abstract(); abstract != "Tests <i>in vivo</i> are rare." {
		t.Errorf("Abstract: got %q", abstract)
	}

	wantLicense := &hub.License{ID: "CC-BY-4.0", URL: "https://creativecommons.org/licenses/by/4.0/legalcode"}
	if diff := cmp.Diff(wantLicense, r.License); diff != "" {
		t.Errorf("License mismatch (-want +got):\n%s", diff)
	}

	if len(r.Files) != 1 || r.Files[0].MimeType != "application/pdf" {
		t.Errorf("Files: got %+v", r.Files)
	}
}

func TestParseContributors(t *testing.T) {
	r := parseOne(t, journalDeposit)

	want := []hub.Contributor{
		{
			ID:               "https://orcid.org/0000-0002-1825-0097",
			Type:             hub.Person,
			ContributorRoles: []string{"Author"},
			GivenName:        "Alice",
			FamilyName:       "Smith",
			Affiliations:     []hub.Affiliation{{ID: "https://ror.org/012afjb06", Name: "Lehigh University"}},
		},
		{
			Type:             hub.Person,
			ContributorRoles: []string{"Editor"},
			GivenName:        "Bob",
			FamilyName:       "Jones",
		},
		{
			Type:             hub.Organization,
			ContributorRoles: []string{"Author"},
			Name:             "Testing Consortium",
		},
	}
	if diff := cmp.Diff(want, r.Contributors); diff != "" {
		t.Errorf("Contributors mismatch (-want +got):\n%s", diff)
	}
}

func TestParseProgramsAndCitations(t *testing.T) {
	r := parseOne(t, journalDeposit)

	wantFunding := []hub.FundingReference{
		{FunderName: "National Science Foundation", FunderIdentifier: "https://doi.org/10.13039/100000001", FunderIdentifierType: "Crossref Funder ID", AwardNumber: "CHE-1142182"},
		{FunderName: "National Science Foundation", FunderIdentifier: "https://doi.org/10.13039/100000001", FunderIdentifierType: "Crossref Funder ID", AwardNumber: "CHE-1305124"},
	}
	if diff := cmp.Diff(wantFunding, r.FundingReferences); diff != "" {
		t.Errorf("Funding mismatch (-want +got):\n%s", diff)
	}

	wantRelations := []hub.Relation{
		{ID: "https://doi.org/10.1101/2024.01.01.000001", Type: "HasPreprint"},
		{ID: "https://doi.org/10.5061/dryad.abc123", Type: "IsSupplementedBy"},
	}
	if diff := cmp.Diff(wantRelations, r.Relations); diff != "" {
		t.Errorf("Relations mismatch (-want +got):\n%s", diff)
	}

	wantRefs := []hub.Reference{
		{Key: "ref1", ID: "https://doi.org/10.7554/elife.01567"},
		{Key: "ref2", Contributor: "Smith", Title: "Roots", PublicationYear: "1999", Volume: "12", FirstPage: "5", ContainerTitle: "Plant Physiology"},
		{Key: "ref3", Unstructured: "Doe J. A book. 2001."},
	}
	if diff := cmp.Diff(wantRefs, r.References); diff != "" {
		t.Errorf("References mismatch (-want +got):\n%s", diff)
	}
}

func TestParseDissertation(t *testing.T) {
	input := `<?xml version="1.0" encoding="UTF-8"?>
<doi_batch xmlns="http://www.crossref.org/schema/5.3.1" version="5.3.1">
  <body>
    <dissertation>
      <person_name contributor_role="author" sequence="first">
        <given_name>Carol</given_name>
        <surname>Williams</surname>
      </person_name>
      <titles>
        <title>Exploring Novel Algorithms for Distributed Systems</title>
      </titles>
      <approval_date media_type="online">
        <month>5</month>
        <year>2025</year>
      </approval_date>
      <institution>
        <institution_name>State University</institution_name>
      </institution>
      <degree>PhD</degree>
      <doi_data>
        <doi>10.5555/diss.2025</doi>
        <resource>https://example.edu/diss</resource>
      </doi_data>
    </dissertation>
  </body>
</doi_batch>`

	r := parseOne(t, input)
	if r.Type != "Dissertation" {
		t.Errorf("Type: got %q, want %q", r.Type, "Dissertation")
	}
	if r.Date.Published != "2025-05" {
		t.Errorf("Published: got %q, want %q", r.Date.Published, "2025-05")
	}
	if r.PublisherName() != "State University" {
		t.Errorf("Publisher: got %q", r.PublisherName())
	}
	if len(r.Contributors) != 1 || r.Contributors[0].FamilyName != "Williams" {
		t.Errorf("Contributors: got %+v", r.Contributors)
	}
}

func TestParseBookChapters(t *testing.T) {
	input := `<doi_batch xmlns="http://www.crossref.org/schema/5.3.1" version="5.3.1">
  <body>
    <book book_type="edited_book">
      <book_metadata>
        <titles><title>Handbook of Testing</title></titles>
        <publication_date><year>2020</year></publication_date>
        <isbn>978-3-16-148410-0</isbn>
        <publisher><publisher_name>Test Press</publisher_name></publisher>
        <doi_data><doi>10.5555/book</doi><resource>https://example.org/book</resource></doi_data>
      </book_metadata>
      <content_item component_type="chapter">
        <titles><title>Chapter One</title></titles>
        <pages><first_page>1</first_page></pages>
        <doi_data><doi>10.5555/book.1</doi><resource>https://example.org/book/1</resource></doi_data>
      </content_item>
      <content_item component_type="chapter">
        <titles><title>Chapter Two</title></titles>
        <doi_data><doi>10.5555/book.2</doi><resource>https://example.org/book/2</resource></doi_data>
      </content_item>
    </book>
  </body>
</doi_batch>`

	f := &Format{}
	records, err := f.Parse(strings.NewReader(input), nil)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	ch := records[0]
	if ch.Type != "BookChapter" {
		t.Errorf("Type: got %q", ch.Type)
	}
	if ch.Container == nil || ch.Container.Title != "Handbook of Testing" || ch.Container.IdentifierType != "ISBN" {
		t.Errorf("Container: got %+v", ch.Container)
	}
	if ch.Date.Published != "2020" {
		t.Errorf("Published: got %q", ch.Date.Published)
	}
	if ch.PublisherName() != "Test Press" {
		t.Errorf("Publisher: got %q", ch.PublisherName())
	}
	want := []hub.Relation{{ID: "https://doi.org/10.5555/book", Type: "IsPartOf"}}
	if diff := cmp.Diff(want, ch.Relations); diff != "" {
		t.Errorf("Relations mismatch (-want +got):\n%s", diff)
	}
}

func TestParseQueryResult(t *testing.T) {
	input := `<crossref_result xmlns="http://www.crossref.org/qrschema/3.0" version="3.0">
  <query_result>
    <body>
      <query status="resolved">
        <doi type="journal_article">10.5555/qr</doi>
        <doi_record>
          <crossref xmlns="http://www.crossref.org/xschema/1.1">
            <posted_content type="preprint">
              <titles><title>A preprint</title></titles>
              <posted_date><year>2024</year><month>1</month><day>2</day></posted_date>
              <institution><institution_name>bioRxiv</institution_name></institution>
              <doi_data><doi>10.5555/qr</doi><resource>https://example.org/qr</resource></doi_data>
            </posted_content>
          </crossref>
        </doi_record>
      </query>
    </body>
  </query_result>
</crossref_result>`

	r := parseOne(t, input)
	if r.Type != "Article" {
		t.Errorf("Type: got %q, want %q", r.Type, "Article")
	}
	if r.Date.Published != "2024-01-02" {
		t.Errorf("Published: got %q", r.Date.Published)
	}
	if r.Container == nil || r.Container.Title != "bioRxiv" {
		t.Errorf("Container: got %+v", r.Container)
	}
}

func TestParseNotFound(t *testing.T) {
	tests := []string{
		"",
		`<crossref_result><query_result><body><query status="unresolved"><doi>10.5555/missing</doi></query></body></query_result></crossref_result>`,
		`<doi_batch><body></body></doi_batch>`,
	}
	for _, input := range tests {
		r := parseOne(t, input)
		if !r.IsNotFound() {
			t.Errorf("%.40q: expected not_found, got %+v", input, r)
		}
	}
}

func TestParseMalformed(t *testing.T) {
	f := &Format{}
	for _, input := range []string{`<doi_batch><body></doi_batch`, `<html><body/></html>`} {
		_, err := f.Parse(strings.NewReader(input), nil)
		if !format.IsMalformed(err) {
			t.Errorf("%q: expected malformed input error, got %v", input, err)
		}
	}
}

func TestCanParse(t *testing.T) {
	f := &Format{}
	if !f.CanParse([]byte(journalDeposit)) {
		t.Error("expected deposit to be recognized")
	}
	if f.CanParse([]byte(`<resource xmlns="http://datacite.org/schema/kernel-4"/>`)) {
		t.Error("DataCite XML should not be recognized")
	}
	if f.CanParse([]byte(`{"message-type": "work"}`)) {
		t.Error("JSON should not be recognized")
	}
}
