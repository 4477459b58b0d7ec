package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// CookieName stores the language a visitor picked explicitly.
const CookieName = "lang"

// Default is used when nothing in the request matches.
var Default = language.French

// Supported lists the UI languages, default first.
var Supported = []language.Tag{language.French, language.English}

var (
	matcher  = language.NewMatcher(Supported)
	cat      = buildCatalog()
	printers = buildPrinters()
)

func buildCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(Default))
	for key, msg := range french {
		mustSet(b, language.French, key, msg)
	}
	for key, msg := range english {
		mustSet(b, language.English, key, msg)
	}
	return b
}

func mustSet(b *catalog.Builder, tag language.Tag, key, msg string) {
	if err := b.SetString(tag, key, msg); err != nil {
		panic("i18n: " + key + ": " + err.Error())
	}
}

func buildPrinters() map[language.Tag]*message.Printer {
	m := make(map[language.Tag]*message.Printer, len(Supported))
	for _, tag := range Supported {
		m[tag] = message.NewPrinter(tag, message.Catalog(cat))
	}
	return m
}

// Match picks the supported language for the given preferences, in order.
// Each preference may be a bare code ("en") or an Accept-Language header.
func Match(prefs ...string) language.Tag {
	var tags []language.Tag
	for _, p := range prefs {
		if p == "" {
			continue
		}
		parsed, _, err := language.ParseAcceptLanguage(p)
		if err != nil {
			continue
		}
		tags = append(tags, parsed...)
	}
	if len(tags) == 0 {
		return Default
	}

	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return Default
	}
	return Supported[idx]
}

// Parse accepts only the codes of supported languages.
func Parse(code string) (language.Tag, bool) {
	tag, err := language.Parse(code)
	if err != nil {
		return Default, false
	}
	for _, s := range Supported {
		if base, _ := tag.Base(); base == mustBase(s) {
			return s, true
		}
	}
	return Default, false
}

func mustBase(tag language.Tag) language.Base {
	base, _ := tag.Base()
	return base
}

// Code is the short code used in cookies and URLs.
func Code(tag language.Tag) string {
	return mustBase(tag).String()
}

// Printer returns the printer for a supported tag, or the default one.
func Printer(tag language.Tag) *message.Printer {
	if p, ok := printers[tag]; ok {
		return p
	}
	return printers[Default]
}

// T translates key for tag.
func T(tag language.Tag, key string, args ...any) string {
	return Printer(tag).Sprintf(key, args...)
}
