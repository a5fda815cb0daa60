package ris

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/lehigh-university-libraries/commonmeta/contributor"
	"github.com/lehigh-university-libraries/commonmeta/crosswalk"
	"github.com/lehigh-university-libraries/commonmeta/format"
	"github.com/lehigh-university-libraries/commonmeta/helpers"
	"github.com/lehigh-university-libraries/commonmeta/hub"
	"github.com/lehigh-university-libraries/commonmeta/value"
)

// tagLine matches "XY  - value". Some exporters drop the space after the
// dash on empty values such as the closing "ER  -".
var tagLine = regexp.MustCompile(`^([A-Z][A-Z0-9])  -(?: (.*))?$`)

// Tags interpreted by Read. Everything else is kept in Metadata.Extra.
var knownTags = map[string]bool{
	"TY": true, "ER": true,
	"T1": true, "TI": true, "ST": true,
	"AU": true, "A1": true, "A2": true, "ED": true,
	"DA": true, "PY": true, "Y1": true,
	"AB": true, "N2": true, "N1": true, "KW": true,
	"T2": true, "JO": true, "JF": true, "JA": true, "BT": true,
	"SN": true, "VL": true, "IS": true, "SP": true, "EP": true,
	"PB": true, "LA": true, "DO": true, "UR": true, "L1": true,
}

// Container types implied by the record type.
var containerTypes = map[string]string{
	"JournalArticle":     "Journal",
	"Article":            "Journal",
	"BookChapter":        "Book",
	"ProceedingsArticle": "Proceedings",
	"BlogPost":           "Blog",
}

// Parse reads one record per TY...ER block.
func (f *Format) Parse(r io.Reader, opts *format.ParseOptions) ([]*hub.Metadata, error) {
	opts = format.ParseOptionsOrDefault(opts)
	data, err := format.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return []*hub.Metadata{hub.NotFound(format.RecordID(opts))}, nil
	}

	entries, err := split(data, opts)
	if err != nil {
		return nil, err
	}
	records := make([]*hub.Metadata, 0, len(entries))
	for _, e := range entries {
		m, err := Read(e, opts)
		if err != nil {
			return nil, err
		}
		records = append(records, m)
	}
	return records, nil
}

// split turns RIS text into one tag multimap per record. Lines without a
// tag continue the previous value. A final record without ER is accepted.
func split(data []byte, opts *format.ParseOptions) ([]value.Value, error) {
	var (
		entries []value.Value
		current map[string][]string
		lastTag string
		lineNo  int
	)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), " \t\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		match := tagLine.FindStringSubmatch(line)
		if match == nil {
			if current == nil || lastTag == "" {
				return nil, malformed(opts, lineNo, fmt.Errorf("unexpected line %q", line))
			}
			vals := current[lastTag]
			vals[len(vals)-1] = strings.TrimSpace(vals[len(vals)-1] + " " + strings.TrimSpace(line))
			continue
		}

		tag, val := match[1], strings.TrimSpace(match[2])
		switch {
		case tag == "TY":
			if current != nil {
				return nil, malformed(opts, lineNo, errors.New("TY before ER"))
			}
			current = map[string][]string{"TY": {val}}
			lastTag = "TY"
		case current == nil:
			return nil, malformed(opts, lineNo, fmt.Errorf("%s outside a record", tag))
		case tag == "ER":
			entries = append(entries, toValue(current))
			current, lastTag = nil, ""
		case val == "":
			lastTag = ""
		default:
			current[tag] = append(current[tag], val)
			lastTag = tag
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, malformed(opts, lineNo, err)
	}
	if current != nil {
		entries = append(entries, toValue(current))
	}
	return entries, nil
}

func toValue(tags map[string][]string) value.Value {
	fields := make(map[string]any, len(tags))
	for k, v := range tags {
		fields[k] = v
	}
	return value.Of(fields)
}

func malformed(opts *format.ParseOptions, line int, err error) error {
	return &format.MalformedInputError{Format: "ris", Source: opts.SourceName, Line: line, Err: err}
}

// Read converts one RIS tag multimap into a record. Every tag maps to a
// list of values.
func Read(v value.Value, opts *format.ParseOptions) (*hub.Metadata, error) {
	opts = format.ParseOptionsOrDefault(opts)
	if v.Kind() != value.Mapping || v.Get("TY").Text() == "" {
		return hub.NotFound(format.RecordID(opts)), nil
	}

	url := hub.NormalizeURL(first(v, "UR"))
	m := &hub.Metadata{
		ID:            format.RecordID(opts, first(v, "DO"), url),
		Type:          crosswalk.Translate("ris_commonmeta", v.Get("TY").Text()),
		URL:           url,
		State:         "findable",
		SchemaVersion: hub.SchemaVersion,
		Language:      first(v, "LA"),
		Provider:      opts.Provider,
	}

	if title := first(v, "T1", "TI"); title != "" {
		m.Titles = append(m.Titles, hub.Title{Title: helpers.SanitizeHTML(title)})
	}
	if short := first(v, "ST"); short != "" && short != m.Title() {
		m.Titles = append(m.Titles, hub.Title{Title: short, Type: "AlternativeTitle"})
	}

	for _, tag := range []string{"AU", "A1"} {
		for _, name := range v.Get(tag).Items() {
			c := contributor.FromName(name.Text())
			c.ContributorRoles = []string{hub.RoleAuthor}
			m.Contributors = append(m.Contributors, c)
		}
	}
	for _, tag := range []string{"A2", "ED"} {
		for _, name := range v.Get(tag).Items() {
			c := contributor.FromName(name.Text())
			c.ContributorRoles = []string{"Editor"}
			m.Contributors = append(m.Contributors, c)
		}
	}

	if pb := first(v, "PB"); pb != "" {
		m.Publisher = &hub.Publisher{Name: pb}
	}
	m.Date.Published = Date(first(v, "DA", "PY", "Y1"))

	if ab := first(v, "AB", "N2"); ab != "" {
		m.Descriptions = append(m.Descriptions, hub.Description{Description: format.Description(ab, opts), Type: "Abstract"})
	}
	for _, note := range v.Get("N1").Texts() {
		m.Descriptions = append(m.Descriptions, hub.Description{Description: format.Description(note, opts), Type: "Other"})
	}
	for _, kw := range v.Get("KW").Texts() {
		m.Subjects = append(m.Subjects, hub.Subject{Subject: kw})
	}

	if m.DOI() != "" {
		m.Identifiers = append(m.Identifiers, hub.Identifier{Identifier: m.ID, IdentifierType: hub.IdentifierDOI})
	}
	m.Container = readContainer(v, m)

	for _, link := range v.Get("L1").Texts() {
		if u := hub.NormalizeURL(link); u != "" {
			m.Files = append(m.Files, hub.File{URL: u, MimeType: mimeType(u)})
		}
	}

	for _, tag := range v.Keys() {
		if knownTags[tag] {
			continue
		}
		vals := make([]any, 0)
		for _, s := range v.Get(tag).Texts() {
			vals = append(vals, s)
		}
		if err := m.SetExtra(tag, vals); err != nil {
			return nil, fmt.Errorf("retaining %s: %w", tag, err)
		}
	}

	return hub.Compact(m), nil
}

// readContainer builds the venue. SN holds an ISSN for serials and an ISBN
// for books; an ISBN on a book is an identifier of the work itself.
func readContainer(v value.Value, m *hub.Metadata) *hub.Container {
	c := &hub.Container{
		Type:   containerTypes[m.Type],
		Title:  first(v, "T2", "JO", "JF", "BT", "JA"),
		Volume: first(v, "VL"),
		Issue:  first(v, "IS"),
	}
	c.FirstPage, c.LastPage = first(v, "SP"), first(v, "EP")
	if c.LastPage == "" {
		c.FirstPage, c.LastPage = format.Pages(c.FirstPage)
	}

	for _, sn := range v.Get("SN").Texts() {
		if issn := hub.NormalizeISSN(sn); issn != "" {
			if c.Identifier == "" {
				c.Identifier, c.IdentifierType = issn, hub.IdentifierISSN
			}
			continue
		}
		if hub.DetectIdentifierType(sn) == hub.IdentifierISBN {
			if m.Type == "Book" {
				m.Identifiers = append(m.Identifiers, hub.Identifier{Identifier: sn, IdentifierType: hub.IdentifierISBN})
			} else if c.Identifier == "" {
				c.Identifier, c.IdentifierType = sn, hub.IdentifierISBN
			}
		}
	}
	if c.Title == "" && c.Identifier == "" && c.Volume == "" && c.Issue == "" && c.FirstPage == "" {
		return nil
	}
	return c
}

// Date converts an RIS date ("2014/07/15/", "2014//", "2014") to an ISO
// partial date.
func Date(s string) string {
	s = strings.TrimSpace(s)
	if !strings.Contains(s, "/") {
		return hub.NormalizeDate(s)
	}
	parts := strings.Split(s, "/")
	if len(parts) > 3 {
		parts = parts[:3]
	}
	var nums []int
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n == 0 {
			break
		}
		nums = append(nums, n)
	}
	if len(nums) == 0 {
		return ""
	}
	return hub.DateFromParts(nums...)
}

func first(v value.Value, tags ...string) string {
	for _, tag := range tags {
		if s := v.Get(tag).Text(); s != "" {
			return s
		}
	}
	return ""
}

func mimeType(u string) string {
	if strings.HasSuffix(strings.ToLower(u), ".pdf") {
		return "application/pdf"
	}
	return ""
}
