package middleware

import (
	"net/http"

	"golang.org/x/text/language"

	"github.com/rahul4469/review-sentiment/context"
	"github.com/rahul4469/review-sentiment/internal/i18n"
)

// Language picks the UI language from the lang cookie, then Accept-Language.
func Language(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var pref string
		if cookie, err := r.Cookie(i18n.CookieName); err == nil {
			pref = cookie.Value
		}
		tag := i18n.Match(pref, r.Header.Get("Accept-Language"))

		w.Header().Set("Content-Language", i18n.Code(tag))
		next.ServeHTTP(w, r.WithContext(context.ContextSetLanguage(r.Context(), tag)))
	})
}

// CurrentLanguage falls back to the default language outside Language.
func CurrentLanguage(r *http.Request) language.Tag {
	if tag, ok := context.ContextGetLanguage(r.Context()); ok {
		return tag
	}
	return i18n.Default
}
