package hub

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	doiRegex     = regexp.MustCompile(`(?i)^(?:(?:https?://)?(?:(?:dx\.)?doi\.org|handle\.stage\.datacite\.org|handle\.test\.datacite\.org)/|doi:)?(10\.\d{4,9}(?:\.\d+)*/\S+)$`)
	doiResolver  = regexp.MustCompile(`(?i)^(?:https?://)?(?:(?:dx\.)?doi\.org|handle\.stage\.datacite\.org|handle\.test\.datacite\.org)/`)
	orcidRegex   = regexp.MustCompile(`^\d{4}-\d{4}-\d{4}-\d{3}[0-9X]$`)
	orcidHost    = regexp.MustCompile(`(?i)^(?:https?://)?(?:www\.|sandbox\.)?orcid\.org/`)
	rorRegex     = regexp.MustCompile(`(?i)^(?:https?://)?(?:www\.)?ror\.org/(0[a-z0-9]{6}\d{2})/?$`)
	rorBareRegex = regexp.MustCompile(`^0[a-z0-9]{6}\d{2}$`)
	issnRegex    = regexp.MustCompile(`(?i)^(?:issn:?\s*)?(\d{4})-?(\d{3}[\dX])$`)
	isbnRegex    = regexp.MustCompile(`(?i)^(?:97[89][- ]?)?\d{1,5}[- ]?\d{1,7}[- ]?\d{1,7}[- ]?[\dX]$`)
	handleRegex  = regexp.MustCompile(`^(?:https?://hdl\.handle\.net/)?(\d+(?:\.\d+)*/\S+)$`)
	arxivRegex   = regexp.MustCompile(`(?i)^(?:arxiv:|https?://arxiv\.org/abs/)(\d{4}\.\d{4,5}(?:v\d+)?)$`)
	uuidRegex    = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
)

// NormalizeDOI extracts a lowercased bare DOI from a bare DOI, a doi: URI or
// a resolver URL on one of the recognized hosts. Anything else yields "".
// Only the path of a resolver URL is percent-decoded; a bare DOI is taken
// literally.
func NormalizeDOI(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if doiResolver.MatchString(s) {
		if unescaped, err := url.PathUnescape(s); err == nil {
			s = unescaped
		}
	}
	m := doiRegex.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return strings.ToLower(m[1])
}

// DOIAsURL returns the https://doi.org/ form of a DOI, or "". A literal
// percent sign is escaped so NormalizeDOI recovers the same DOI.
func DOIAsURL(s string) string {
	doi := NormalizeDOI(s)
	if doi == "" {
		return ""
	}
	return "https://doi.org/" + strings.ReplaceAll(doi, "%", "%25")
}

// DOIPrefix returns the registrant prefix ("10.7554") of a DOI, or "".
func DOIPrefix(s string) string {
	doi := NormalizeDOI(s)
	if doi == "" {
		return ""
	}
	return doi[:strings.Index(doi, "/")]
}

// NormalizeORCID returns the https://orcid.org/ form of an ORCID iD given
// bare (hyphens, spaces or neither) or as an orcid.org URL.
func NormalizeORCID(s string) string {
	s = strings.TrimSpace(s)
	s = orcidHost.ReplaceAllString(s, "")
	s = strings.TrimSuffix(s, "/")
	compact := strings.Map(func(r rune) rune {
		switch r {
		case '-', ' ', '\u00a0':
			return -1
		}
		return r
	}, strings.ToUpper(s))
	if len(compact) != 16 {
		return ""
	}
	id := compact[0:4] + "-" + compact[4:8] + "-" + compact[8:12] + "-" + compact[12:16]
	if !orcidRegex.MatchString(id) {
		return ""
	}
	return "https://orcid.org/" + id
}

// NormalizeROR returns the https://ror.org/ form of a ROR ID, or "".
func NormalizeROR(s string) string {
	s = strings.TrimSpace(s)
	if m := rorRegex.FindStringSubmatch(s); m != nil {
		return "https://ror.org/" + strings.ToLower(m[1])
	}
	if rorBareRegex.MatchString(s) {
		return "https://ror.org/" + s
	}
	return ""
}

// NormalizeISSN returns an ISSN as "NNNN-NNNC", or "".
func NormalizeISSN(s string) string {
	m := issnRegex.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return ""
	}
	return m[1] + "-" + strings.ToUpper(m[2])
}

// NormalizeURL prefers https and strips a trailing slash. Non-http(s)
// input yields "".
func NormalizeURL(s string) string {
	s = strings.TrimSpace(s)
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return ""
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		u.Scheme = "https"
	default:
		return ""
	}
	u.Host = strings.ToLower(u.Host)
	return strings.TrimSuffix(u.String(), "/")
}

// NormalizeID resolves an identifier to an absolute URI: DOIs become doi.org
// URLs, ORCID and ROR URLs are canonicalized, other URLs go through
// NormalizeURL.
func NormalizeID(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if doi := DOIAsURL(s); doi != "" {
		return doi
	}
	lower := strings.ToLower(s)
	if strings.Contains(lower, "orcid.org/") {
		return NormalizeORCID(s)
	}
	if strings.Contains(lower, "ror.org/") {
		return NormalizeROR(s)
	}
	return NormalizeURL(s)
}

// NormalizeIDWithScheme resolves an identifier that may be relative to a
// scheme URI such as "https://orcid.org/" or "https://ror.org/".
func NormalizeIDWithScheme(id, schemeURI string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return ""
	}
	if n := NormalizeID(id); n != "" {
		return n
	}
	scheme := strings.ToLower(schemeURI)
	switch {
	case strings.Contains(scheme, "orcid"):
		return NormalizeORCID(id)
	case strings.Contains(scheme, "ror"):
		return NormalizeROR(id)
	case strings.Contains(scheme, "grid"), strings.Contains(scheme, "isni"):
		if schemeURI == "" {
			return ""
		}
		return NormalizeURL(strings.TrimSuffix(schemeURI, "/") + "/" + strings.TrimPrefix(id, "/"))
	case schemeURI != "":
		return NormalizeURL(strings.TrimSuffix(schemeURI, "/") + "/" + strings.TrimPrefix(id, "/"))
	}
	return ""
}

// Identifier types reported by DetectIdentifierType.
const (
	IdentifierDOI    = "DOI"
	IdentifierORCID  = "ORCID"
	IdentifierROR    = "ROR"
	IdentifierISSN   = "ISSN"
	IdentifierISBN   = "ISBN"
	IdentifierURL    = "URL"
	IdentifierHandle = "Handle"
	IdentifierArXiv  = "arXiv"
	IdentifierUUID   = "UUID"
	IdentifierOther  = "Other"
)

// DetectIdentifierType guesses the scheme of an identifier string.
func DetectIdentifierType(s string) string {
	s = strings.TrimSpace(s)
	lower := strings.ToLower(s)
	switch {
	case s == "":
		return ""
	case NormalizeDOI(s) != "":
		return IdentifierDOI
	case strings.Contains(lower, "orcid.org/"):
		return IdentifierORCID
	case rorRegex.MatchString(s):
		return IdentifierROR
	case arxivRegex.MatchString(s):
		return IdentifierArXiv
	case strings.HasPrefix(lower, "https://hdl.handle.net/"), strings.HasPrefix(lower, "http://hdl.handle.net/"):
		return IdentifierHandle
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return IdentifierURL
	case uuidRegex.MatchString(s):
		return IdentifierUUID
	case issnRegex.MatchString(s):
		return IdentifierISSN
	case isbnRegex.MatchString(s):
		return IdentifierISBN
	case orcidRegex.MatchString(s):
		return IdentifierORCID
	case handleRegex.MatchString(s):
		return IdentifierHandle
	default:
		return IdentifierOther
	}
}
