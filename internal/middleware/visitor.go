package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/rahul4469/review-sentiment/context"
	"github.com/rahul4469/review-sentiment/internal/models"
)

type VisitorMiddleware struct {
	store      models.VisitorStore
	cookieName string
	maxAge     time.Duration
	secure     bool
}

func NewVisitorMiddleware(store models.VisitorStore, cookieName string, maxAge time.Duration, secure bool) *VisitorMiddleware {
	return &VisitorMiddleware{
		store:      store,
		cookieName: cookieName,
		maxAge:     maxAge,
		secure:     secure,
	}
}

// SetVisitor resolves the visitor cookie and stores the visitor in the
// request context. Browsers without a valid cookie get a new visitor.
func (m *VisitorMiddleware) SetVisitor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if cookie, err := r.Cookie(m.cookieName); err == nil && cookie.Value != "" {
			visitor, err := m.store.ByToken(ctx, cookie.Value)
			if err == nil {
				next.ServeHTTP(w, r.WithContext(context.ContextSetVisitor(ctx, visitor)))
				return
			}
			if !errors.Is(err, models.ErrVisitorNotFound) {
				slog.Error("visitor lookup failed", slog.Any("error", err))
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}
		}

		visitor, err := m.store.Create(ctx)
		if err != nil {
			slog.Error("visitor creation failed", slog.Any("error", err))
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		m.setCookie(w, visitor.Token)
		slog.Debug("new visitor", slog.Int64("visitor_id", visitor.ID))

		next.ServeHTTP(w, r.WithContext(context.ContextSetVisitor(ctx, visitor)))
	})
}

func (m *VisitorMiddleware) setCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.maxAge / time.Second),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// CurrentVisitor returns nil outside SetVisitor.
func CurrentVisitor(r *http.Request) *models.Visitor {
	return context.ContextGetVisitor(r.Context())
}

// MustCurrentVisitor is like CurrentVisitor but panics if no visitor is found.
// Only use this in handlers behind SetVisitor.
func MustCurrentVisitor(r *http.Request) *models.Visitor {
	visitor := context.ContextGetVisitor(r.Context())
	if visitor == nil {
		panic("MustCurrentVisitor called without SetVisitor middleware")
	}
	return visitor
}
