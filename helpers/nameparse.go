// Package helpers provides text utilities shared by the format plugins:
// HTML sanitizing, personal-name parsing and ASCII folding.
package helpers

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ParsedName holds the components of a personal name.
type ParsedName struct {
	Given  string
	Family string
	Suffix string
}

var (
	// Suffixes that appear after a name
	suffixes = []string{"Jr.", "Jr", "Sr.", "Sr", "III", "II", "IV", "PhD", "Ph.D.", "MD", "M.D.", "Esq.", "Esq"}

	// Name prefixes (nobiliary particles)
	prefixes = []string{"van", "von", "de", "del", "della", "di", "da", "le", "la", "du", "des", "den", "der", "het", "ter", "ten", "op", "al", "el", "ibn", "bin"}

	// Pattern for "Last, First Middle" format
	invertedNameRegex = regexp.MustCompile(`^([^,]+),\s*(.+)$`)

	// "Smith J." or "Smith J.K."
	trailingInitialsRegex = regexp.MustCompile(`^(\p{Lu}[\p{L}'’-]+)\s+((?:\p{Lu}\.\s*)+)$`)
)

// ParseName parses a name string into its components.
// Handles both "First Last" and "Last, First" formats.
func ParseName(name string) ParsedName {
	name = NormalizeWhitespace(name)
	if name == "" {
		return ParsedName{}
	}
	var result ParsedName

	if matches := invertedNameRegex.FindStringSubmatch(name); matches != nil {
		result.Family = strings.TrimSpace(matches[1])
		rest := strings.TrimSpace(matches[2])
		// "King, Jr., Martin Luther" puts the suffix between family and given
		if m := invertedNameRegex.FindStringSubmatch(rest); m != nil && isSuffix(strings.TrimSpace(m[1])) {
			result.Suffix = strings.TrimSpace(m[1])
			rest = strings.TrimSpace(m[2])
		} else {
			rest, result.Suffix = extractSuffix(rest)
		}
		result.Given = rest
		return result
	}

	name, result.Suffix = extractSuffix(name)
	parts := strings.Fields(name)
	switch len(parts) {
	case 0:
		return ParsedName{}
	case 1:
		result.Family = parts[0]
		return result
	}

	// Find where the family name starts, pulling in any particles
	familyStart := len(parts) - 1
	for familyStart > 1 && isPrefix(parts[familyStart-1]) {
		familyStart--
	}
	result.Given = strings.Join(parts[:familyStart], " ")
	result.Family = strings.Join(parts[familyStart:], " ")
	return result
}

// extractSuffix extracts a suffix from a name string.
func extractSuffix(name string) (string, string) {
	for _, suffix := range suffixes {
		if strings.HasSuffix(name, ", "+suffix) {
			return strings.TrimSuffix(name, ", "+suffix), suffix
		}
		if strings.HasSuffix(name, " "+suffix) {
			return strings.TrimSuffix(name, " "+suffix), suffix
		}
	}
	return name, ""
}

func isSuffix(s string) bool {
	for _, suffix := range suffixes {
		if s == suffix {
			return true
		}
	}
	return false
}

// isPrefix checks if a word is a nobiliary particle.
func isPrefix(word string) bool {
	lower := strings.ToLower(word)
	for _, prefix := range prefixes {
		if lower == prefix {
			return true
		}
	}
	return false
}

// ReformatInitials rewrites "Family I." (family name followed only by
// initials) as "Family, I.". Names already containing a comma, and names
// whose trailing tokens are not dotted initials, are returned unchanged.
func ReformatInitials(name string) string {
	name = NormalizeWhitespace(name)
	if strings.Contains(name, ",") {
		return name
	}
	m := trailingInitialsRegex.FindStringSubmatch(name)
	if m == nil {
		return name
	}
	return m[1] + ", " + strings.TrimSpace(m[2])
}

// Initials returns the dotted initials of a given name ("John Ronald" gives
// "J. R.").
func Initials(given string) string {
	var out []string
	for _, part := range strings.FieldsFunc(given, func(r rune) bool { return r == ' ' || r == '-' || r == '.' }) {
		r := []rune(part)
		if len(r) > 0 {
			out = append(out, string(unicode.ToUpper(r[0]))+".")
		}
	}
	return strings.Join(out, " ")
}

// FoldASCII strips diacritics ("Müller" gives "Muller"). Runes without an
// ASCII base letter are kept.
func FoldASCII(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return result
}

// SplitNames splits a string containing multiple names.
// Handles semicolon, "and" and pipe separators.
func SplitNames(names string) []string {
	if names == "" {
		return nil
	}

	if strings.Contains(names, ";") {
		return cleanNameList(strings.Split(names, ";"))
	}

	// " and " is only a separator when the names are not inverted
	if strings.Contains(names, " and ") && !strings.Contains(names, ",") {
		return cleanNameList(strings.Split(names, " and "))
	}

	if strings.Contains(names, "|") {
		return cleanNameList(strings.Split(names, "|"))
	}

	return []string{strings.TrimSpace(names)}
}

func cleanNameList(parts []string) []string {
	var result []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
