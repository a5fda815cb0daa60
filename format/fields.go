package format

import (
	"strings"

	"github.com/lehigh-university-libraries/commonmeta/helpers"
	"github.com/lehigh-university-libraries/commonmeta/hub"
	"github.com/lehigh-university-libraries/commonmeta/license"
	"github.com/lehigh-university-libraries/commonmeta/value"
)

// Field helpers shared by the readers.

// RecordID resolves the record identifier: the caller's DOI override wins,
// then the first candidate that normalizes.
func RecordID(opts *ParseOptions, candidates ...string) string {
	if opts != nil && opts.DOI != "" {
		if id := hub.DOIAsURL(opts.DOI); id != "" {
			return id
		}
	}
	for _, c := range candidates {
		if id := hub.NormalizeID(c); id != "" {
			return id
		}
	}
	return ""
}

// License resolves a rights identifier or URL. Unknown licenses keep their
// URL without an SPDX identifier; unknown non-URL strings yield nil.
func License(idOrURL string) *hub.License {
	idOrURL = strings.TrimSpace(idOrURL)
	if idOrURL == "" {
		return nil
	}
	if l, ok := license.Lookup(idOrURL); ok {
		return &hub.License{ID: l.ID, URL: l.URL}
	}
	if u := hub.NormalizeURL(idOrURL); u != "" {
		return &hub.License{URL: u}
	}
	return nil
}

// Description cleans a description: inline markup is kept unless opts asks
// for plain text.
func Description(text string, opts *ParseOptions) string {
	if opts != nil && opts.StripHTML {
		return helpers.StripHTML(text)
	}
	return helpers.SanitizeHTML(text)
}

// DateOf reads a date in any of the shapes sources use: a citeproc
// {"date-parts": [[y, m, d]]} object, a Crossref {"date-time": ...} object,
// a bare [y, m, d] array, an ISO or free-form string, a year, or a Unix
// timestamp.
func DateOf(v value.Value) string {
	switch v.Kind() {
	case value.Mapping:
		if parts := v.Get("date-parts"); !parts.IsAbsent() {
			return datePartsOf(parts.Index(0))
		}
		for _, key := range []string{"date-time", "raw", "literal"} {
			if s := v.Get(key).Text(); s != "" {
				return hub.NormalizeDate(s)
			}
		}
		if ts, ok := v.Get("timestamp").Int(); ok {
			return hub.DateFromEpoch(int64(ts) / 1000)
		}
		return ""
	case value.Sequence:
		return datePartsOf(v)
	case value.Scalar:
		s := v.Text()
		if n, ok := v.Int(); ok && !strings.Contains(s, "-") {
			if n > 9999 {
				return hub.DateFromEpoch(int64(n))
			}
			return hub.DateFromParts(n)
		}
		return hub.NormalizeDate(s)
	}
	return ""
}

func datePartsOf(v value.Value) string {
	var parts []int
	for _, p := range v.Items() {
		n, ok := p.Int()
		if !ok {
			break
		}
		parts = append(parts, n)
	}
	return hub.DateFromParts(parts...)
}

// Pages splits "123-130" (or an en dash) into first and last page.
func Pages(s string) (first, last string) {
	s = strings.TrimSpace(s)
	for _, sep := range []string{"-", "–", "—"} {
		if f, l, ok := strings.Cut(s, sep); ok {
			return strings.TrimSpace(f), strings.TrimSpace(l)
		}
	}
	return s, ""
}

// PageRange renders first and last page as "first" or "first-last".
func PageRange(first, last string) string {
	if first == "" {
		return ""
	}
	if last == "" || last == first {
		return first
	}
	return first + "-" + last
}
