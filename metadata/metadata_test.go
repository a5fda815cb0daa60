package metadata

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	gzip "github.com/klauspost/pgzip"

	"github.com/lehigh-university-libraries/commonmeta/fetch"
	"github.com/lehigh-university-libraries/commonmeta/format"
	"github.com/lehigh-university-libraries/commonmeta/hub"
)

func loadFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("failed to load fixture %s: %v", name, err)
	}
	return data
}

// fakeFetcher serves canned responses by URL and 404s everything else.
type fakeFetcher struct {
	responses map[string][]byte
	requested []string
}

func (f *fakeFetcher) Fetch(_ context.Context, rawURL string) ([]byte, error) {
	f.requested = append(f.requested, rawURL)
	data, ok := f.responses[rawURL]
	if !ok {
		return nil, &fetch.StatusError{URL: rawURL, StatusCode: 404}
	}
	return data, nil
}

type fakeAgencies map[string]string

func (a fakeAgencies) RegistrationAgency(_ context.Context, doi string) (string, error) {
	ra, ok := a[hub.DOIPrefix(doi)]
	if !ok {
		return "", fetch.ErrNotFound
	}
	return ra, nil
}

var endpoints = fetch.DefaultEndpoints()

func newTestClient(t *testing.T, responses map[string][]byte) (*Client, *fakeFetcher) {
	t.Helper()
	f := &fakeFetcher{responses: responses}
	c := New(
		WithFetcher(f),
		WithEndpoints(endpoints),
		WithAgencyResolver(fakeAgencies{
			"10.7554": fetch.AgencyCrossref,
			"10.5061": fetch.AgencyDataCite,
			"10.7717": fetch.AgencyMEDRA,
		}),
	)
	return c, f
}

func TestReadDOIByAgency(t *testing.T) {
	c, _ := newTestClient(t, map[string][]byte{
		endpoints.CrossrefURL("10.7554/elife.01567"): loadFixture(t, "elife-01567.json"),
		endpoints.DataCiteURL("10.5061/dryad.8515"):  loadFixture(t, "dryad-8515.json"),
		endpoints.OpenAlexURL("10.7717/peerj.4375"):  loadFixture(t, "W2741809807.json"),
	})

	tests := []struct {
		input   string
		wantVia string
		wantID  string
	}{
		{"10.7554/elife.01567", "crossref", "https://doi.org/10.7554/elife.01567"},
		{"https://doi.org/10.5061/dryad.8515", "datacite", "https://doi.org/10.5061/dryad.8515"},
		{"doi:10.7717/peerj.4375", "openalex", "https://doi.org/10.7717/peerj.4375"},
	}
	for _, tt := range tests {
		t.Run(tt.wantVia, func(t *testing.T) {
			m, err := c.Read(context.Background(), tt.input, "")
			if err != nil {
				t.Fatalf("Read failed: %v", err)
			}
			if m.Via != tt.wantVia {
				t.Errorf("Via: got %q, want %q", m.Via, tt.wantVia)
			}
			if m.ID != tt.wantID {
				t.Errorf("ID: got %q, want %q", m.ID, tt.wantID)
			}
		})
	}
}

func TestReadViaHint(t *testing.T) {
	c, f := newTestClient(t, map[string][]byte{
		endpoints.DataCiteURL("10.5061/dryad.8515"): loadFixture(t, "dryad-8515.json"),
	})
	m, err := c.Read(context.Background(), "10.5061/dryad.8515", "datacite")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if m.Via != "datacite" || m.ID != "https://doi.org/10.5061/dryad.8515" {
		t.Errorf("got %q from %q", m.ID, m.Via)
	}
	if len(f.requested) != 1 {
		t.Errorf("expected a single request, got %v", f.requested)
	}
}

func TestReadUnknownVia(t *testing.T) {
	c, _ := newTestClient(t, nil)
	_, err := c.Read(context.Background(), "10.5061/dryad.8515", "marc")
	if !IsDispatchError(err) {
		t.Errorf("expected a DispatchError, got %v", err)
	}
}

func TestIsDispatchErrorWrapped(t *testing.T) {
	err := fmt.Errorf("reading input: %w", &DispatchError{Input: "x", Reason: "unrecognized input"})
	if !IsDispatchError(err) {
		t.Errorf("expected a wrapped DispatchError to be detected, got %v", err)
	}
	if IsDispatchError(fetch.ErrNotFound) {
		t.Errorf("fetch.ErrNotFound is not a DispatchError")
	}
}

func TestReadNotFound(t *testing.T) {
	c, _ := newTestClient(t, nil)
	m, err := c.Read(context.Background(), "10.7554/elife.99999", "")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if !m.IsNotFound() {
		t.Errorf("State: got %q, want %q", m.State, hub.StateNotFound)
	}
	if m.ID != "https://doi.org/10.7554/elife.99999" {
		t.Errorf("ID: got %q", m.ID)
	}
}

func TestReadLocalFile(t *testing.T) {
	dir := t.TempDir()
	plain := filepath.Join(dir, "record.json")
	if err := os.WriteFile(plain, loadFixture(t, "elife-01567.json"), 0o644); err != nil {
		t.Fatal(err)
	}

	compressed := filepath.Join(dir, "record.json.gz")
	out, err := os.Create(compressed)
	if err != nil {
		t.Fatal(err)
	}
	zw := gzip.NewWriter(out)
	if _, err := zw.Write(loadFixture(t, "elife-01567.json")); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	out.Close()

	c, _ := newTestClient(t, nil)
	for _, name := range []string{plain, compressed} {
		t.Run(filepath.Base(name), func(t *testing.T) {
			m, err := c.Read(context.Background(), name, "")
			if err != nil {
				t.Fatalf("Read failed: %v", err)
			}
			if m.Via != "crossref" {
				t.Errorf("Via: got %q, want %q", m.Via, "crossref")
			}
			if m.Date.Published != "2014-02-11" {
				t.Errorf("Published: got %q, want %q", m.Date.Published, "2014-02-11")
			}
		})
	}
}

func TestReadRawContent(t *testing.T) {
	c, _ := newTestClient(t, nil)
	m, err := c.Read(context.Background(), string(loadFixture(t, "CITATION.cff")), "")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if m.Via != "cff" || m.Title() != "ruby-cff" {
		t.Errorf("got %q from %q", m.Title(), m.Via)
	}
}

func TestReadGitHubRepository(t *testing.T) {
	repo := "https://github.com/example/tool"
	g, _ := fetch.ParseGitHubURL(repo)

	tests := []struct {
		name      string
		responses map[string][]byte
		wantVia   string
		wantTitle string
	}{
		{
			name:      "citation file",
			responses: map[string][]byte{endpoints.GitHubRawURL(g, "CITATION.cff"): loadFixture(t, "CITATION.cff")},
			wantVia:   "cff",
			wantTitle: "ruby-cff",
		},
		{
			name:      "codemeta fallback",
			responses: map[string][]byte{endpoints.GitHubRawURL(g, "codemeta.json"): loadFixture(t, "codemeta.json")},
			wantVia:   "codemeta",
			wantTitle: "R Interface to the DataONE REST API",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, tt.responses)
			m, err := c.Read(context.Background(), repo, "")
			if err != nil {
				t.Fatalf("Read failed: %v", err)
			}
			if m.Via != tt.wantVia {
				t.Errorf("Via: got %q, want %q", m.Via, tt.wantVia)
			}
			if m.Title() != tt.wantTitle {
				t.Errorf("Title: got %q, want %q", m.Title(), tt.wantTitle)
			}
		})
	}
}

func TestReadArXiv(t *testing.T) {
	c, _ := newTestClient(t, map[string][]byte{
		endpoints.ArXivURL("1706.03762"): loadFixture(t, "arxiv-1706.03762.xml"),
	})
	for _, input := range []string{"arXiv:1706.03762", "https://arxiv.org/abs/1706.03762"} {
		m, err := c.Read(context.Background(), input, "")
		if err != nil {
			t.Fatalf("Read(%q) failed: %v", input, err)
		}
		if m.Via != "arxiv" || m.ID != "https://doi.org/10.48550/arxiv.1706.03762" {
			t.Errorf("Read(%q): got %q from %q", input, m.ID, m.Via)
		}
	}
}

func TestDispatchUnrecognized(t *testing.T) {
	c, _ := newTestClient(t, nil)
	for _, input := range []string{"", "just some words", "{\"unrelated\": true}"} {
		_, err := c.Dispatch(context.Background(), input, "")
		if !IsDispatchError(err) {
			t.Errorf("%q: expected a DispatchError, got %v", input, err)
		}
	}
}

func TestWriteBibTeX(t *testing.T) {
	c, _ := newTestClient(t, map[string][]byte{
		endpoints.CrossrefURL("10.7554/elife.01567"): loadFixture(t, "elife-01567.json"),
	})
	m, err := c.Read(context.Background(), "10.7554/elife.01567", "")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	res, err := m.Write("bibtex", nil)
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if !res.Valid || !strings.Contains(res.String(), "month = feb") {
		t.Errorf("unexpected output:\n%s", res)
	}
}

func TestWriteInvalid(t *testing.T) {
	m := &Metadata{Metadata: &hub.Metadata{
		ID:     "https://doi.org/10.5281/zenodo.1234",
		Type:   "Software",
		Titles: []hub.Title{{Title: "A tool"}},
	}}
	res, err := m.Write("crossref_xml", format.NewSerializeOptions())
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if res.Valid || len(res.Errors) == 0 {
		t.Errorf("expected validation errors, got %+v", res)
	}
}

func TestWriteUnknownFormat(t *testing.T) {
	m := &Metadata{Metadata: &hub.Metadata{ID: "https://example.org/1"}}
	if _, err := m.Write("marc", nil); err == nil {
		t.Error("expected an error for an unknown format")
	}
}

func TestListWriteSkipsNotFound(t *testing.T) {
	l := &List{Items: []*hub.Metadata{
		{ID: "https://doi.org/10.1234/a", Type: "Dataset", Titles: []hub.Title{{Title: "A"}}},
		hub.NotFound("https://doi.org/10.1234/missing"),
	}}
	res, err := l.Write("csl", nil)
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if res.Skipped != 1 {
		t.Errorf("Skipped: got %d, want 1", res.Skipped)
	}
	if strings.Contains(res.String(), "missing") {
		t.Errorf("not_found record written:\n%s", res)
	}
}

func TestUncompressedName(t *testing.T) {
	tests := map[string]string{
		"a.json.gz":  "a.json",
		"a.xml.zst":  "a.xml",
		"a.ris":      "a.ris",
		"dir/a.json": "dir/a.json",
	}
	for in, want := range tests {
		if got := uncompressedName(in); got != want {
			t.Errorf("uncompressedName(%q): got %q, want %q", in, got, want)
		}
	}
}
