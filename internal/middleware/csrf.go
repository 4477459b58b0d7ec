package middleware

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/csrf"

	"github.com/rahul4469/review-sentiment/internal/i18n"
)

// CSRF protects the HTML form routes. Without secure cookies the app is
// served over plain HTTP, so requests are marked as such for the origin checks.
func CSRF(secret []byte, secure bool, trustedOrigins []string) func(http.Handler) http.Handler {
	protect := csrf.Protect(
		secret,
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.TrustedOrigins(trustedOrigins),
		csrf.ErrorHandler(http.HandlerFunc(csrfFailure)),
	)

	return func(next http.Handler) http.Handler {
		protected := protect(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !secure {
				r = csrf.PlaintextHTTPRequest(r)
			}
			protected.ServeHTTP(w, r)
		})
	}
}

func csrfFailure(w http.ResponseWriter, r *http.Request) {
	slog.Warn("csrf check failed",
		slog.String("path", r.URL.Path),
		slog.Any("reason", csrf.FailureReason(r)),
	)
	http.Error(w, i18n.T(CurrentLanguage(r), i18n.ErrForbidden), http.StatusForbidden)
}
