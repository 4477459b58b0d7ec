package middleware

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/rahul4469/review-sentiment/internal/i18n"
	"github.com/rahul4469/review-sentiment/internal/models"
	"github.com/rahul4469/review-sentiment/internal/validation"
)

const cookieName = "sentiment_visitor"

func visitorEcho() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v := MustCurrentVisitor(r)
		w.Write([]byte(strings.Repeat("v", int(v.ID))))
	})
}

func TestSetVisitor_CreatesVisitor(t *testing.T) {
	store := models.NewMemoryVisitorStore()
	h := NewVisitorMiddleware(store, cookieName, time.Hour, false).SetVisitor(visitorEcho())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "v", rec.Body.String())

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, cookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, 3600, cookies[0].MaxAge)
	assert.NotEmpty(t, cookies[0].Value)
}

func TestSetVisitor_ReusesCookie(t *testing.T) {
	store := models.NewMemoryVisitorStore()
	h := NewVisitorMiddleware(store, cookieName, time.Hour, false).SetVisitor(visitorEcho())

	first := httptest.NewRecorder()
	h.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))
	cookie := first.Result().Cookies()[0]

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	second := httptest.NewRecorder()
	h.ServeHTTP(second, req)

	assert.Equal(t, "v", second.Body.String())
	assert.Empty(t, second.Result().Cookies())
}

func TestSetVisitor_UnknownCookieGetsNewVisitor(t *testing.T) {
	store := models.NewMemoryVisitorStore()
	h := NewVisitorMiddleware(store, cookieName, time.Hour, false).SetVisitor(visitorEcho())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: "stale"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, rec.Result().Cookies(), 1)
	assert.NotEqual(t, "stale", rec.Result().Cookies()[0].Value)
}

func TestLanguage(t *testing.T) {
	tests := []struct {
		name   string
		cookie string
		header string
		want   language.Tag
	}{
		{"default", "", "", language.French},
		{"header", "", "en-GB,en;q=0.8", language.English},
		{"cookie beats header", "fr", "en-GB", language.French},
		{"cookie only", "en", "", language.English},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got language.Tag
			h := Language(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = CurrentLanguage(r)
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: i18n.CookieName, Value: tt.cookie})
			}
			if tt.header != "" {
				req.Header.Set("Accept-Language", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, got)
			assert.Equal(t, i18n.Code(tt.want), rec.Header().Get("Content-Language"))
		})
	}
}

func TestCurrentLanguage_WithoutMiddleware(t *testing.T) {
	assert.Equal(t, i18n.Default, CurrentLanguage(httptest.NewRequest(http.MethodGet, "/", nil)))
}

func TestCSRF_RejectsPostWithoutToken(t *testing.T) {
	secret := []byte("0123456789abcdef0123456789abcdef")
	h := CSRF(secret, false, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	get := httptest.NewRecorder()
	h.ServeHTTP(get, httptest.NewRequest(http.MethodGet, "/review", nil))
	assert.Equal(t, http.StatusNoContent, get.Code)

	post := httptest.NewRecorder()
	h.ServeHTTP(post, httptest.NewRequest(http.MethodPost, "/review", strings.NewReader("review=hello")))
	assert.Equal(t, http.StatusForbidden, post.Code)
}

func TestLimitUpload_RefusesAnnouncedLength(t *testing.T) {
	called := false
	h := LimitUpload(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodPost, "/dashboard", strings.NewReader("x"))
	req.ContentLength = validation.MaxUploadBody + 1
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Contains(t, rec.Body.String(), "10 Mo")
	assert.False(t, called)
}

func TestLimitUpload_CapsStreamedBody(t *testing.T) {
	var readErr error
	var read int64
	h := LimitUpload(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		read, readErr = io.Copy(io.Discard, r.Body)
	}))

	// an io.Reader that is not a buffer gives an unknown length
	body := io.LimitReader(zeroReader{}, validation.MaxUploadBody+4096)
	req := httptest.NewRequest(http.MethodPost, "/dashboard", body)
	require.Equal(t, int64(-1), req.ContentLength)
	h.ServeHTTP(httptest.NewRecorder(), req)

	var tooLarge *http.MaxBytesError
	assert.True(t, errors.As(readErr, &tooLarge), "got %v", readErr)
	assert.Equal(t, validation.MaxUploadBody, read)
}

type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	clear(p)
	return len(p), nil
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	h := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short and stout"))
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	out := buf.String()
	assert.Contains(t, out, "method=GET")
	assert.Contains(t, out, "path=/healthz")
	assert.Contains(t, out, "status=418")
	assert.Contains(t, out, "bytes=15")
}
