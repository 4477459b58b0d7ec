package middleware

import (
	"log/slog"
	"net/http"

	"github.com/rahul4469/review-sentiment/internal/i18n"
	"github.com/rahul4469/review-sentiment/internal/validation"
)

// LimitUpload caps request bodies at validation.MaxUploadBody. It must run
// before CSRF, which parses multipart forms while looking for the token.
// Bodies announced as larger are refused without reading them.
func LimitUpload(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > validation.MaxUploadBody {
			slog.Info("upload refused",
				slog.String("path", r.URL.Path),
				slog.Int64("content_length", r.ContentLength),
			)
			msg := i18n.T(CurrentLanguage(r), i18n.ErrFileTooLarge, validation.MaxUploadSize>>20)
			http.Error(w, msg, http.StatusRequestEntityTooLarge)
			return
		}
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, validation.MaxUploadBody)
		}
		next.ServeHTTP(w, r)
	})
}
