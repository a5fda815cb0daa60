package helpers

import (
	"html"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	// HTML tag patterns
	htmlTagRegex     = regexp.MustCompile(`<[^>]*>`)
	htmlCommentRegex = regexp.MustCompile(`<!--[\s\S]*?-->`)
	multiSpaceRegex  = regexp.MustCompile(`\s+`)

	// Specific tag patterns for better text extraction
	brTagRegex    = regexp.MustCompile(`<br\s*/?>`)
	blockEndRegex = regexp.MustCompile(`</(?:p|div|li|h[1-6]|blockquote|tr|jats:p|jats:title)>`)
)

// DefaultAllowedTags are the inline tags SanitizeHTML keeps when the caller
// does not name any.
var DefaultAllowedTags = []string{"b", "br", "code", "em", "i", "strong", "sub", "sup"}

// JATS inline elements and their HTML equivalents.
var jatsInline = map[string]string{
	"italic":    "i",
	"bold":      "b",
	"sub":       "sub",
	"sup":       "sup",
	"monospace": "code",
}

var blockElements = map[string]bool{
	"p": true, "div": true, "li": true, "ul": true, "ol": true, "blockquote": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"sec": true, "title": true, "list-item": true, "tr": true,
}

// StripHTML removes HTML tags from a string and decodes HTML entities.
func StripHTML(s string) string {
	if s == "" {
		return ""
	}

	s = htmlCommentRegex.ReplaceAllString(s, "")

	// Block-level closing tags become spaces so words do not run together
	s = blockEndRegex.ReplaceAllString(s, " ")
	s = brTagRegex.ReplaceAllString(s, " ")

	s = htmlTagRegex.ReplaceAllString(s, "")
	s = html.UnescapeString(s)

	return NormalizeWhitespace(s)
}

// SanitizeHTML keeps only the allowed inline tags (without attributes),
// unwraps every other element, drops comments, scripts and a leading
// "Abstract" heading, and collapses whitespace. JATS inline markup
// (jats:italic, jats:bold, ...) is mapped to its HTML equivalent.
func SanitizeHTML(s string, allowedTags ...string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if !IsHTML(s) {
		return NormalizeWhitespace(html.UnescapeString(s))
	}
	if len(allowedTags) == 0 {
		allowedTags = DefaultAllowedTags
	}
	allowed := make(map[string]bool, len(allowedTags))
	for _, t := range allowedTags {
		allowed[strings.ToLower(t)] = true
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return StripHTML(s)
	}
	var sb strings.Builder
	renderAllowed(&sb, doc.Find("body"), allowed)
	return NormalizeWhitespace(sb.String())
}

func renderAllowed(sb *strings.Builder, sel *goquery.Selection, allowed map[string]bool) {
	sel.Contents().Each(func(_ int, c *goquery.Selection) {
		name := goquery.NodeName(c)
		switch name {
		case "#text":
			sb.WriteString(c.Text())
			return
		case "#comment", "script", "style":
			return
		}
		local := name[strings.LastIndex(name, ":")+1:]
		if local == "title" && strings.EqualFold(strings.TrimSpace(c.Text()), "abstract") {
			return
		}
		if mapped, ok := jatsInline[local]; ok && local != name {
			local = mapped
		}
		if allowed[local] {
			if local == "br" {
				sb.WriteString("<br/>")
				return
			}
			sb.WriteString("<" + local + ">")
			renderAllowed(sb, c, allowed)
			sb.WriteString("</" + local + ">")
			return
		}
		if blockElements[local] {
			sb.WriteString(" ")
		}
		renderAllowed(sb, c, allowed)
		if blockElements[local] {
			sb.WriteString(" ")
		}
	})
}

// IsHTML checks if a string appears to contain HTML markup.
func IsHTML(s string) bool {
	return htmlTagRegex.MatchString(s)
}

// NormalizeWhitespace normalizes all whitespace to single spaces and trims.
func NormalizeWhitespace(s string) string {
	s = multiSpaceRegex.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
