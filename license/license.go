// Package license resolves rights identifiers and URLs against a bundled
// subset of the SPDX license list.
package license

import (
	_ "embed"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/segmentio/encoding/json"
)

//go:embed data/licenses.json
var licensesJSON []byte

// License is one SPDX license list entry.
type License struct {
	ID          string
	Name        string
	URL         string
	OSIApproved bool
}

type spdxList struct {
	Version  string `json:"licenseListVersion"`
	Licenses []struct {
		LicenseID     string   `json:"licenseId"`
		Name          string   `json:"name"`
		SeeAlso       []string `json:"seeAlso"`
		IsOsiApproved bool     `json:"isOsiApproved"`
	} `json:"licenses"`
}

type index struct {
	byID   map[string]License
	byName map[string]License
	byURL  map[string]License
}

var (
	loadOnce sync.Once
	idx      *index
	loadErr  error
)

func load() (*index, error) {
	loadOnce.Do(func() {
		idx, loadErr = parse(licensesJSON)
	})
	return idx, loadErr
}

func parse(data []byte) (*index, error) {
	var list spdxList
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parsing license list: %w", err)
	}
	ix := &index{
		byID:   map[string]License{},
		byName: map[string]License{},
		byURL:  map[string]License{},
	}
	for _, l := range list.Licenses {
		if l.LicenseID == "" || len(l.SeeAlso) == 0 {
			return nil, fmt.Errorf("license entry %q has no id or url", l.LicenseID)
		}
		lic := License{ID: l.LicenseID, Name: l.Name, URL: l.SeeAlso[0], OSIApproved: l.IsOsiApproved}
		if _, dup := ix.byID[strings.ToLower(lic.ID)]; dup {
			return nil, fmt.Errorf("license %q listed twice", lic.ID)
		}
		ix.byID[strings.ToLower(lic.ID)] = lic
		ix.byName[strings.ToLower(lic.Name)] = lic
		for _, u := range l.SeeAlso {
			ix.byURL[canonicalURL(u)] = lic
		}
	}
	return ix, nil
}

var (
	schemeRegex = regexp.MustCompile(`(?i)^https?://(?:www\.)?`)
	deedRegex   = regexp.MustCompile(`/(?:legalcode|deed)(?:\.[a-z-]+)?$`)
)

// canonicalURL reduces a license URL to a comparison key: no scheme, no
// www, no trailing slash and no Creative Commons legalcode or deed suffix.
func canonicalURL(u string) string {
	u = strings.ToLower(strings.TrimSpace(u))
	u = schemeRegex.ReplaceAllString(u, "")
	u = strings.TrimSuffix(u, "/")
	u = deedRegex.ReplaceAllString(u, "")
	return strings.TrimSuffix(u, "/")
}

// Lookup resolves an SPDX identifier (case-insensitive, "CC BY 4.0" spelled
// with spaces is accepted), a license name or a license URL.
func Lookup(idOrURL string) (License, bool) {
	ix, err := load()
	if err != nil {
		return License{}, false
	}
	s := strings.TrimSpace(idOrURL)
	if s == "" {
		return License{}, false
	}
	if strings.Contains(s, "://") || strings.HasPrefix(strings.ToLower(s), "www.") {
		l, ok := ix.byURL[canonicalURL(s)]
		return l, ok
	}
	key := strings.ToLower(s)
	if l, ok := ix.byID[key]; ok {
		return l, true
	}
	if l, ok := ix.byID[strings.ReplaceAll(key, " ", "-")]; ok {
		return l, true
	}
	if l, ok := ix.byID[key+"-only"]; ok {
		return l, true
	}
	l, ok := ix.byName[key]
	return l, ok
}

// IsOpen reports whether l permits reuse without a non-commercial or
// no-derivatives restriction.
func IsOpen(l License) bool {
	id := strings.ToUpper(l.ID)
	if strings.HasPrefix(id, "CC-") {
		return !strings.Contains(id, "-NC") && !strings.Contains(id, "-ND")
	}
	return l.OSIApproved || strings.HasPrefix(id, "CC0") || strings.HasPrefix(id, "ODC") || id == "PDDL-1.0" || id == "ODBL-1.0"
}
