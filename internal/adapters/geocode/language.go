package geocode

import (
	"strings"

	"golang.org/x/text/language"
)

const DefaultLanguage = "en"

// LanguageFromLocale derives the geocoding language from a POSIX locale
// string such as "de_DE.UTF-8". Unparseable or neutral locales ("C",
// "POSIX", "") yield DefaultLanguage.
func LanguageFromLocale(locale string) string {
	locale = strings.TrimSpace(locale)
	if i := strings.IndexAny(locale, ".@"); i >= 0 {
		locale = locale[:i]
	}
	locale = strings.ReplaceAll(locale, "_", "-")

	switch locale {
	case "", "C", "POSIX":
		return DefaultLanguage
	}

	tag, err := language.Parse(locale)
	if err != nil {
		return DefaultLanguage
	}

	base, conf := tag.Base()
	if conf == language.No {
		return DefaultLanguage
	}

	return base.String()
}
