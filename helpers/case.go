package helpers

import (
	"strings"
	"unicode"
)

// PascalCase joins hyphen, underscore or space separated words with each
// word capitalized ("journal-article" gives "JournalArticle").
func PascalCase(s string) string {
	var sb strings.Builder
	for _, w := range strings.FieldsFunc(s, func(r rune) bool { return r == '-' || r == '_' || r == ' ' }) {
		r := []rune(w)
		sb.WriteRune(unicode.ToUpper(r[0]))
		sb.WriteString(string(r[1:]))
	}
	return sb.String()
}

// KebabCase splits a PascalCase or camelCase word into lowercase words
// joined by hyphens ("JournalArticle" gives "journal-article").
func KebabCase(s string) string {
	var sb strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				sb.WriteByte('-')
			}
			r = unicode.ToLower(r)
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
