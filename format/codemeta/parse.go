package codemeta

import (
	"io"
	"strings"

	"github.com/lehigh-university-libraries/commonmeta/fetch"
	"github.com/lehigh-university-libraries/commonmeta/format"
	"github.com/lehigh-university-libraries/commonmeta/format/schemaorg"
	"github.com/lehigh-university-libraries/commonmeta/hub"
	"github.com/lehigh-university-libraries/commonmeta/value"
)

const spdxPrefix = "https://spdx.org/licenses/"

// Parse reads a codemeta.json document.
func (f *Format) Parse(r io.Reader, opts *format.ParseOptions) ([]*hub.Metadata, error) {
	v, err := format.DecodeJSON(f.Name(), r, opts)
	if err != nil {
		return nil, err
	}
	m, err := Read(v, opts)
	if err != nil {
		return nil, err
	}
	return []*hub.Metadata{m}, nil
}

// Read converts a decoded CodeMeta document into a record.
func Read(v value.Value, opts *format.ParseOptions) (*hub.Metadata, error) {
	opts = format.ParseOptionsOrDefault(opts)
	doc, ok := v.Raw().(map[string]any)
	if !ok || (v.Get("name").IsAbsent() && v.Get("@id").IsAbsent() && v.Get("identifier").IsAbsent()) {
		return hub.NotFound(format.RecordID(opts)), nil
	}

	repository := hub.NormalizeURL(v.Get("codeRepository").Text())
	if repository == "" {
		repository = repositoryFromSource(opts.SourceURL)
	}

	if _, ok := doc["@type"]; !ok {
		doc["@type"] = "SoftwareSourceCode"
	}
	if l := v.Get("license").Text(); strings.HasPrefix(l, spdxPrefix) {
		doc["license"] = strings.TrimSuffix(strings.TrimPrefix(l, spdxPrefix), ".html")
	}
	// CodeMeta 2 names the award in funding and the organization in funder
	if award := v.Get("funding"); award.Kind() == value.Scalar {
		delete(doc, "funding")
		if funder, ok := doc["funder"].(map[string]any); ok {
			doc["funding"] = map[string]any{"@type": "MonetaryGrant", "identifier": award.Text(), "funder": funder}
		}
	}

	m, err := schemaorg.Read(value.Of(doc), opts)
	if err != nil || m.IsNotFound() {
		return m, err
	}

	if repository != "" {
		m.URL = repository
		if m.ID == "" {
			m.ID = repository
		}
		if m.Publisher == nil && strings.HasPrefix(repository, "https://github.com/") {
			m.Publisher = &hub.Publisher{Name: "GitHub"}
		}
	}
	if m.Type == hub.TypeOther {
		m.Type = "Software"
		m.AdditionalType = ""
	}

	if langs := v.Get("programmingLanguage"); !langs.IsAbsent() {
		var names []any
		for _, l := range langs.Items() {
			if name := l.Get("name").Text(); name != "" {
				names = append(names, name)
			} else if s := l.Text(); s != "" {
				names = append(names, s)
			}
		}
		if len(names) > 0 {
			_ = m.SetExtra("programming_language", names)
		}
	}

	return hub.Compact(m), nil
}

// repositoryFromSource derives the repository of a codemeta.json fetched
// from GitHub.
func repositoryFromSource(sourceURL string) string {
	g, ok := fetch.ParseGitHubURL(sourceURL)
	if !ok {
		return ""
	}
	return g.RepositoryURL()
}
