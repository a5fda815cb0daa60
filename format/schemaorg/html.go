package schemaorg

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/lehigh-university-libraries/commonmeta/hub"
	"github.com/lehigh-university-libraries/commonmeta/value"
)

// Open Graph types that name a work.
var ogTypes = map[string]string{
	"article": "Article",
	"book":    "Book",
	"website": "WebSite",
	"profile": "WebPage",
	"video":   "VideoObject",
}

// scrape turns an HTML landing page into a schema.org document. Embedded
// JSON-LD is used as is; Highwire Press, Dublin Core and Open Graph meta
// tags fill the properties it leaves out.
func scrape(data []byte) (value.Value, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return value.Value{}, fmt.Errorf("parsing html: %w", err)
	}

	entity := map[string]any{}
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		v, err := value.FromJSON([]byte(s.Text()))
		if err != nil {
			return true
		}
		if v.Kind() == value.Sequence {
			v = v.First()
		}
		if e, ok := mainEntity(v).Raw().(map[string]any); ok && e["@type"] != nil {
			entity = e
			return false
		}
		return true
	})

	meta := map[string][]string{}
	doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		key, ok := s.Attr("name")
		if !ok {
			key, ok = s.Attr("property")
		}
		content := strings.TrimSpace(s.AttrOr("content", ""))
		if !ok || content == "" {
			return
		}
		key = strings.ToLower(key)
		meta[key] = append(meta[key], content)
	})
	first := func(keys ...string) string {
		for _, k := range keys {
			if vals := meta[k]; len(vals) > 0 {
				return vals[0]
			}
		}
		return ""
	}
	fill := func(key string, v any) {
		if s, ok := v.(string); ok && s == "" {
			return
		}
		if _, ok := entity[key]; !ok && v != nil {
			entity[key] = v
		}
	}

	if doi := first("citation_doi", "dc.identifier", "prism.doi"); hub.NormalizeDOI(doi) != "" {
		fill("@id", hub.DOIAsURL(doi))
	}
	title := first("citation_title", "dc.title", "og:title")
	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if _, ok := entity["headline"]; !ok {
		fill("name", title)
	}

	switch {
	case first("citation_journal_title") != "":
		fill("@type", "ScholarlyArticle")
	case ogTypes[first("og:type")] != "":
		fill("@type", ogTypes[first("og:type")])
	}

	// a page often lists every author in meta tags but only some in JSON-LD
	authors := meta["citation_author"]
	if len(authors) == 0 {
		authors = meta["dc.creator"]
	}
	existing, _ := entity["author"].([]any)
	if _, single := entity["author"].(map[string]any); single {
		existing = []any{entity["author"]}
	}
	if len(authors) > len(existing) {
		list := make([]any, 0, len(authors))
		for _, a := range authors {
			list = append(list, a)
		}
		entity["author"] = list
	}

	fill("datePublished", first("citation_publication_date", "citation_date", "dc.date", "article:published_time"))
	fill("dateModified", first("article:modified_time"))
	fill("description", first("citation_abstract", "dc.description", "description", "og:description"))
	fill("publisher", first("citation_publisher", "dc.publisher", "og:site_name"))
	license := first("dc.rights")
	if license == "" {
		license = doc.Find(`link[rel="license"]`).AttrOr("href", "")
	}
	fill("license", license)
	if kw := meta["citation_keywords"]; len(kw) > 0 {
		fill("keywords", strings.Join(kw, ", "))
	} else {
		fill("keywords", first("keywords"))
	}
	lang := first("citation_language", "dc.language")
	if lang == "" {
		lang = doc.Find("html").AttrOr("lang", "")
	}
	fill("inLanguage", lang)

	url := first("og:url")
	if url == "" {
		url = doc.Find(`link[rel="canonical"]`).AttrOr("href", "")
	}
	fill("url", url)

	if journal := first("citation_journal_title"); journal != "" {
		fill("isPartOf", periodicalChain(journal, first("citation_issn"), first("citation_volume"), first("citation_issue")))
	}
	fill("pageStart", first("citation_firstpage"))
	fill("pageEnd", first("citation_lastpage"))
	if pdf := first("citation_pdf_url"); pdf != "" {
		fill("distribution", []any{map[string]any{"@type": "DataDownload", "contentUrl": pdf, "encodingFormat": "application/pdf"}})
	}

	return value.Of(entity), nil
}

// periodicalChain nests issue, volume and periodical the way schema.org
// describes an article's venue.
func periodicalChain(journal, issn, volume, issue string) map[string]any {
	part := map[string]any{"@type": "Periodical", "name": journal}
	if issn != "" {
		part["issn"] = issn
	}
	if volume != "" {
		part = map[string]any{"@type": "PublicationVolume", "volumeNumber": volume, "isPartOf": part}
	}
	if issue != "" {
		part = map[string]any{"@type": "PublicationIssue", "issueNumber": issue, "isPartOf": part}
	}
	return part
}
