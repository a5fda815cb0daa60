package fetch

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/lehigh-university-libraries/commonmeta/hub"
)

// Endpoints holds the base URLs of the remote APIs.
type Endpoints struct {
	Crossref string
	DataCite string
	OpenAlex string
	DOI      string
	GitHub   string
	ArXiv    string
}

// DefaultEndpoints returns the production base URLs.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		Crossref: "https://api.crossref.org",
		DataCite: "https://api.datacite.org",
		OpenAlex: "https://api.openalex.org",
		DOI:      "https://doi.org",
		GitHub:   "https://raw.githubusercontent.com",
		ArXiv:    "https://export.arxiv.org",
	}
}

func (e Endpoints) withDefaults() Endpoints {
	d := DefaultEndpoints()
	if e.Crossref == "" {
		e.Crossref = d.Crossref
	}
	if e.DataCite == "" {
		e.DataCite = d.DataCite
	}
	if e.OpenAlex == "" {
		e.OpenAlex = d.OpenAlex
	}
	if e.DOI == "" {
		e.DOI = d.DOI
	}
	if e.GitHub == "" {
		e.GitHub = d.GitHub
	}
	if e.ArXiv == "" {
		e.ArXiv = d.ArXiv
	}
	return e
}

// CrossrefURL is the Crossref REST API URL of a work.
func (e Endpoints) CrossrefURL(doi string) string {
	return e.Crossref + "/works/" + hub.NormalizeDOI(doi)
}

// CrossrefXMLURL is the Crossref unixsd XML URL of a work.
func (e Endpoints) CrossrefXMLURL(doi string) string {
	return e.Crossref + "/works/" + hub.NormalizeDOI(doi) + "/transform/application/vnd.crossref.unixsd+xml"
}

// DataCiteURL is the DataCite REST API URL of a DOI.
func (e Endpoints) DataCiteURL(doi string) string {
	return e.DataCite + "/dois/" + hub.NormalizeDOI(doi) + "?affiliation=true&publisher=true"
}

// OpenAlexURL is the OpenAlex API URL of a work identified by DOI.
func (e Endpoints) OpenAlexURL(doi string) string {
	return e.OpenAlex + "/works/doi:" + hub.NormalizeDOI(doi)
}

// AgencyURL is the doi.org registration agency endpoint of a DOI prefix.
func (e Endpoints) AgencyURL(prefix string) string {
	return e.DOI + "/ra/" + prefix
}

// ArXivURL is the arXiv API query URL of a preprint.
func (e Endpoints) ArXivURL(id string) string {
	return e.ArXiv + "/api/query?id_list=" + url.QueryEscape(id)
}

var arxivRegex = regexp.MustCompile(`(?i)^(?:arxiv:|https?://(?:export\.)?arxiv\.org/(?:abs|pdf)/)((?:\d{4}\.\d{4,5}|[a-z-]+(?:\.[a-z]{2})?/\d{7})(?:v\d+)?)$`)

// ParseArXivID extracts the identifier from "arXiv:2301.01234" or an
// arxiv.org abstract or PDF URL.
func ParseArXivID(s string) (string, bool) {
	m := arxivRegex.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return "", false
	}
	return m[1], true
}

var githubRegex = regexp.MustCompile(`^https?://github\.com/([^/]+)/([^/]+?)(?:\.git)?(?:/blob/([^/]+)/(.+))?/?$`)

// GitHubFile describes a file in a GitHub repository.
type GitHubFile struct {
	Owner string
	Repo  string
	Ref   string
	Path  string
}

// RepositoryURL is the https://github.com URL of the repository.
func (g GitHubFile) RepositoryURL() string {
	return fmt.Sprintf("https://github.com/%s/%s", g.Owner, g.Repo)
}

// ParseGitHubURL recognizes repository and blob URLs. A repository URL
// yields the default branch "main" and an empty Path.
func ParseGitHubURL(s string) (GitHubFile, bool) {
	m := githubRegex.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return GitHubFile{}, false
	}
	g := GitHubFile{Owner: m[1], Repo: m[2], Ref: m[3], Path: m[4]}
	if g.Ref == "" {
		g.Ref = "main"
	}
	return g, true
}

// GitHubRawURL is the raw content URL of a repository file.
func (e Endpoints) GitHubRawURL(g GitHubFile, path string) string {
	if path == "" {
		path = g.Path
	}
	return fmt.Sprintf("%s/%s/%s/%s/%s", e.GitHub, g.Owner, g.Repo, g.Ref, path)
}
