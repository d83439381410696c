package engine

import (
	"golang.org/x/text/language"
)

// Locale selects which label and value texts the generator emits.
type Locale string

const (
	LocaleEN Locale = "en"
	LocaleIT Locale = "it"
)

// DefaultLocale is used when a tag cannot be matched.
const DefaultLocale = LocaleIT

var localeMatcher = language.NewMatcher([]language.Tag{
	language.Italian, // first entry is the fallback
	language.English,
})

// ParseLocale matches any BCP-47 tag or Accept-Language list ("en-GB",
// "it-IT,it;q=0.9") onto a supported Locale.
func ParseLocale(tag string) Locale {
	if tag == "" {
		return DefaultLocale
	}
	tags, _, err := language.ParseAcceptLanguage(tag)
	if err != nil || len(tags) == 0 {
		return DefaultLocale
	}
	_, idx, conf := localeMatcher.Match(tags...)
	if conf == language.No {
		return DefaultLocale
	}
	if idx == 1 {
		return LocaleEN
	}
	return LocaleIT
}

type phrases struct {
	yes, no, note, placeholder string
}

var localePhrases = map[Locale]phrases{
	LocaleEN: {yes: "Yes", no: "No", note: "Note", placeholder: "Product"},
	LocaleIT: {yes: "Sì", no: "No", note: "Nota", placeholder: "Prodotto"},
}

func phrasesFor(loc Locale) phrases {
	if p, ok := localePhrases[loc]; ok {
		return p
	}
	return localePhrases[LocaleEN]
}
