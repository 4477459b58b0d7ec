package controllers

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rahul4469/review-sentiment/internal/i18n"
	"github.com/rahul4469/review-sentiment/internal/middleware"
)

const langCookieAge = 365 * 24 * time.Hour

// LangController switches the UI language.
type LangController struct {
	secure bool
}

func NewLangController(secureCookies bool) *LangController {
	return &LangController{secure: secureCookies}
}

// GetLang stores the language from the URL and sends the browser back
// to the page it came from.
func (c *LangController) GetLang(w http.ResponseWriter, r *http.Request) {
	tag, ok := i18n.Parse(chi.URLParam(r, "code"))
	if !ok {
		http.Error(w, i18n.T(middleware.CurrentLanguage(r), i18n.ErrUnsupportedLocale), http.StatusNotFound)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     i18n.CookieName,
		Value:    i18n.Code(tag),
		Path:     "/",
		MaxAge:   int(langCookieAge / time.Second),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, backTo(r), http.StatusSeeOther)
}

// backTo returns the local path of the referring page, or "/".
func backTo(r *http.Request) string {
	ref, err := url.Parse(r.Referer())
	if err != nil || ref.Path == "" || !strings.HasPrefix(ref.Path, "/") || strings.HasPrefix(ref.Path, "//") {
		return "/"
	}
	if ref.Host != "" && ref.Host != r.Host {
		return "/"
	}
	if strings.HasPrefix(ref.Path, "/lang/") {
		return "/"
	}
	back := ref.Path
	if ref.RawQuery != "" {
		back += "?" + ref.RawQuery
	}
	return back
}
