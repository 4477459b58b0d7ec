package services

import (
	"github.com/abadojack/whatlanggo"
)

// minLanguageRunes avoids guessing a language from a handful of words.
const minLanguageRunes = 20

// DetectLanguage returns the ISO 639-1 code of text, or "" when the
// detection is not reliable. The VADER lexicon only covers English, so the
// dashboard flags other languages.
func DetectLanguage(text string) string {
	if len([]rune(text)) < minLanguageRunes {
		return ""
	}
	info := whatlanggo.Detect(text)
	if !info.IsReliable() {
		return ""
	}
	return info.Lang.Iso6391()
}
