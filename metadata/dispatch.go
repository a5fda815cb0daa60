package metadata

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"strings"

	"github.com/lehigh-university-libraries/commonmeta/fetch"
	"github.com/lehigh-university-libraries/commonmeta/hub"
)

// DispatchError reports an input no reader could be chosen for. It is a
// usage error, distinct from a record that was not found upstream.
type DispatchError struct {
	Input  string
	Reason string
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("cannot dispatch %q: %s", truncate(e.Input, 80), e.Reason)
}

// IsDispatchError reports whether err is or wraps a *DispatchError.
func IsDispatchError(err error) bool {
	var de *DispatchError
	return errors.As(err, &de)
}

// Source is a dispatched input: the raw bytes and the reader to apply.
type Source struct {
	// Via is the name of the format plugin that reads Data
	Via string

	Data []byte

	// Name identifies the input in error messages
	Name string

	// URL is where Data was fetched from, or the repository a GitHub
	// file belongs to
	URL string

	// DOI is set when the input was a DOI
	DOI string
}

// DOI registration agencies and the format their records are read with.
// DOIs of other agencies are read from OpenAlex.
var agencyFormats = map[string]string{
	fetch.AgencyCrossref: "crossref",
	fetch.AgencyDataCite: "datacite",
}

// Accept headers for content negotiation against doi.org.
var contentTypes = map[string]string{
	"csl":          "application/vnd.citationstyles.csl+json",
	"schemaorg":    "application/ld+json",
	"ris":          "application/x-research-info-systems",
	"datacite_xml": "application/vnd.datacite.datacite+xml",
}

// Files tried, in order, for a GitHub repository URL.
var repositoryFiles = []struct{ name, via string }{
	{"CITATION.cff", "cff"},
	{"codemeta.json", "codemeta"},
}

type acceptFetcher interface {
	FetchAccept(ctx context.Context, rawURL, accept string) ([]byte, error)
}

// Dispatch decides how input is read, in priority order: the via hint, a
// DOI routed by its registration agency, a local file, an arXiv identifier,
// a GitHub repository, any other URL and finally raw record content. A
// remote record that cannot be fetched yields an error matching
// fetch.ErrNotFound.
func (c *Client) Dispatch(ctx context.Context, input, via string) (*Source, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, &DispatchError{Input: input, Reason: "empty input"}
	}
	if via != "" {
		if _, err := c.registry.GetParser(via); err != nil {
			return nil, &DispatchError{Input: input, Reason: err.Error()}
		}
		return c.load(ctx, input, via)
	}

	if doi := hub.NormalizeDOI(input); doi != "" && !fileExists(input) {
		ra, err := c.agency.RegistrationAgency(ctx, doi)
		if err != nil {
			return nil, err
		}
		via, ok := agencyFormats[ra]
		if !ok {
			slog.Debug("reading doi from openalex", "doi", doi, "agency", ra)
			via = "openalex"
		}
		return c.fetchDOI(ctx, doi, via)
	}

	if fileExists(input) {
		src, err := c.readFile(input, "")
		if err != nil {
			return nil, err
		}
		return src, c.detect(src, input)
	}

	if id, ok := fetch.ParseArXivID(input); ok {
		return c.fetchArXiv(ctx, id)
	}

	if g, ok := fetch.ParseGitHubURL(input); ok {
		return c.fetchRepository(ctx, g, "")
	}

	if hub.NormalizeURL(input) != "" {
		data, err := c.fetcher.Fetch(ctx, input)
		if err != nil {
			return nil, err
		}
		src := &Source{Data: data, Name: input, URL: input}
		return src, c.detect(src, input)
	}

	src := &Source{Data: []byte(input), Name: "input"}
	return src, c.detect(src, input)
}

// load reads input with a known format.
func (c *Client) load(ctx context.Context, input, via string) (*Source, error) {
	switch {
	case fileExists(input):
		return c.readFile(input, via)
	case hub.NormalizeDOI(input) != "":
		return c.fetchDOI(ctx, hub.NormalizeDOI(input), via)
	}
	if id, ok := fetch.ParseArXivID(input); ok && via == "arxiv" {
		return c.fetchArXiv(ctx, id)
	}
	if g, ok := fetch.ParseGitHubURL(input); ok && (via == "cff" || via == "codemeta") {
		return c.fetchRepository(ctx, g, via)
	}
	if hub.NormalizeURL(input) != "" {
		data, err := c.fetcher.Fetch(ctx, input)
		if err != nil {
			return nil, err
		}
		return &Source{Via: via, Data: data, Name: input, URL: input}, nil
	}
	return &Source{Via: via, Data: []byte(input), Name: "input"}, nil
}

// fetchDOI retrieves the record of a DOI from the API that serves via.
func (c *Client) fetchDOI(ctx context.Context, doi, via string) (*Source, error) {
	var u string
	switch via {
	case "crossref":
		u = c.endpoints.CrossrefURL(doi)
	case "crossref_xml":
		u = c.endpoints.CrossrefXMLURL(doi)
	case "datacite":
		u = c.endpoints.DataCiteURL(doi)
	case "openalex":
		u = c.endpoints.OpenAlexURL(doi)
	default:
		u = strings.TrimSuffix(c.endpoints.DOI, "/") + "/" + doi
	}

	var data []byte
	var err error
	if accept, ok := contentTypes[via]; ok {
		if af, ok := c.fetcher.(acceptFetcher); ok {
			data, err = af.FetchAccept(ctx, u, accept)
		} else {
			data, err = c.fetcher.Fetch(ctx, u)
		}
	} else {
		data, err = c.fetcher.Fetch(ctx, u)
	}
	if err != nil {
		return nil, err
	}
	return &Source{Via: via, Data: data, Name: doi, URL: u, DOI: doi}, nil
}

// fetchArXiv queries the arXiv API for a preprint.
func (c *Client) fetchArXiv(ctx context.Context, id string) (*Source, error) {
	u := c.endpoints.ArXivURL(id)
	data, err := c.fetcher.Fetch(ctx, u)
	if err != nil {
		return nil, err
	}
	return &Source{Via: "arxiv", Data: data, Name: "arXiv:" + id, URL: u}, nil
}

// fetchRepository reads the citation file of a GitHub repository. A blob
// URL names the file; a repository URL tries CITATION.cff, then
// codemeta.json.
func (c *Client) fetchRepository(ctx context.Context, g fetch.GitHubFile, via string) (*Source, error) {
	repo := g.RepositoryURL()
	if g.Path != "" {
		data, err := c.fetcher.Fetch(ctx, c.endpoints.GitHubRawURL(g, ""))
		if err != nil {
			return nil, err
		}
		src := &Source{Via: via, Data: data, Name: repo + "/" + g.Path, URL: repo}
		if src.Via == "" {
			for _, f := range repositoryFiles {
				if strings.EqualFold(path.Base(g.Path), f.name) {
					src.Via = f.via
				}
			}
		}
		if src.Via == "" {
			return src, c.detect(src, src.Name)
		}
		return src, nil
	}

	var lastErr error
	for _, f := range repositoryFiles {
		if via != "" && via != f.via {
			continue
		}
		data, err := c.fetcher.Fetch(ctx, c.endpoints.GitHubRawURL(g, f.name))
		if err != nil {
			if !fetch.IsNotFound(err) {
				return nil, err
			}
			lastErr = err
			continue
		}
		return &Source{Via: f.via, Data: data, Name: repo + "/" + f.name, URL: repo}, nil
	}
	return nil, fmt.Errorf("no citation file in %s: %w", repo, lastErr)
}

// readFile loads a local, possibly compressed, file.
func (c *Client) readFile(name, via string) (*Source, error) {
	r, err := OpenFile(name)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return &Source{Via: via, Data: data, Name: name}, nil
}

// detect fills src.Via from the content, falling back to the file
// extension.
func (c *Client) detect(src *Source, input string) error {
	peek := src.Data
	if len(peek) > 64<<10 {
		peek = peek[:64<<10]
	}
	p, err := c.registry.DetectFormat(uncompressedName(src.Name), bytes.TrimSpace(peek))
	if err != nil {
		return &DispatchError{Input: input, Reason: "unrecognized input"}
	}
	src.Via = p.Name()
	return nil
}

func fileExists(name string) bool {
	info, err := os.Stat(name)
	return err == nil && !info.IsDir()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
