package helpers

import (
	"strings"

	"golang.org/x/text/language"
)

// LanguageCode returns the two-letter ISO 639-1 code of a language tag or
// an ISO 639-2/3 code ("eng" gives "en"). Languages without a two-letter
// code keep their three-letter code; unknown input yields "".
func LanguageCode(s string) string {
	base, ok := languageBase(s)
	if !ok {
		return ""
	}
	return base.String()
}

// LanguageCode3 returns the three-letter ISO 639-3 code ("en" gives "eng").
func LanguageCode3(s string) string {
	base, ok := languageBase(s)
	if !ok {
		return ""
	}
	return base.ISO3()
}

func languageBase(s string) (language.Base, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return language.Base{}, false
	}
	tag, err := language.Parse(s)
	if err != nil {
		return language.Base{}, false
	}
	base, conf := tag.Base()
	if conf == language.No || base.String() == "und" {
		return language.Base{}, false
	}
	return base, true
}
