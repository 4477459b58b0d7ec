package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahul4469/review-sentiment/internal/middleware"
	"github.com/rahul4469/review-sentiment/internal/models"
	"github.com/rahul4469/review-sentiment/internal/services"
	"github.com/rahul4469/review-sentiment/internal/views"
	"github.com/rahul4469/review-sentiment/templates"
)

// keywordAnalyzer labels reviews by keyword so results are predictable.
type keywordAnalyzer struct {
	err error
}

func (a *keywordAnalyzer) AnalyzeReview(ctx context.Context, review string) (*models.ReviewResult, error) {
	if a.err != nil {
		return nil, a.err
	}
	lower := strings.ToLower(review)
	switch {
	case strings.Contains(lower, "bad"):
		return &models.ReviewResult{Sentiment: models.SentimentNegative, Confidence: 0.91}, nil
	case strings.Contains(lower, "okay"):
		return &models.ReviewResult{Sentiment: models.SentimentNeutral, Confidence: 0.6}, nil
	}
	return &models.ReviewResult{Sentiment: models.SentimentPositive, Confidence: 0.9731}, nil
}

func (a *keywordAnalyzer) AnalyzeCSV(ctx context.Context, filename string, r io.Reader) (*models.BatchResult, error) {
	return services.NewBatchAnalyzer(a, services.BatchOptions{Workers: 2, MaxRows: 100}).AnalyzeCSV(ctx, filename, r)
}

type testApp struct {
	router   http.Handler
	analyzer *keywordAnalyzer
	analyses *models.MemoryAnalysisStore
}

// newTestApp builds the page routes behind the given middlewares, which run
// before the visitor middleware like in the server.
func newTestApp(t *testing.T, mws ...func(http.Handler) http.Handler) *testApp {
	t.Helper()

	analyzer := &keywordAnalyzer{}
	analyses := models.NewMemoryAnalysisStore()
	visitors := models.NewMemoryVisitorStore()
	vmw := middleware.NewVisitorMiddleware(visitors, "sentiment_visitor", time.Hour, false)

	parse := func(page string) *views.Template {
		tmpl, err := views.ParseFS(templates.FS, page)
		require.NoError(t, err)
		return tmpl
	}

	staticC := NewStaticController(analyses, StaticTemplates{Home: parse("pages/home.gohtml")})
	reviewC := NewReviewController(analyzer, analyses, parse("pages/review.gohtml"), time.Second)
	dashboardC := NewDashboardController(analyzer, analyses, DashboardTemplates{
		Upload: parse("pages/dashboard.gohtml"),
		Result: parse("pages/dashboard_result.gohtml"),
	}, time.Second, 100)
	historyC := NewHistoryController(analyses, parse("pages/history.gohtml"), 50)
	analyzeC := NewAnalyzeController(analyzer, time.Second, 100)
	langC := NewLangController(false)

	r := chi.NewRouter()
	r.Use(middleware.Language)
	r.Post("/analyze-single", analyzeC.PostAnalyzeSingle)
	r.Post("/analyze-csv", analyzeC.PostAnalyzeCSV)
	r.Group(func(r chi.Router) {
		r.Use(mws...)
		r.Use(vmw.SetVisitor)
		r.Get("/", staticC.GetHome)
		r.Get("/review", reviewC.GetReview)
		r.Post("/review", reviewC.PostReview)
		r.Get("/dashboard", dashboardC.GetDashboard)
		r.Post("/dashboard", dashboardC.PostDashboard)
		r.Get("/dashboard/{id}", dashboardC.GetResult)
		r.Get("/dashboard/{id}/export.csv", dashboardC.GetExport)
		r.Get("/history", historyC.GetHistory)
		r.Post("/history/{id}/delete", historyC.PostDelete)
		r.Get("/lang/{code}", langC.GetLang)
	})

	return &testApp{router: r, analyzer: analyzer, analyses: analyses}
}

// browser keeps cookies between requests like a real client.
type browser struct {
	app     *testApp
	cookies map[string]*http.Cookie
	lang    string
	token   string
}

func (app *testApp) browser() *browser {
	return &browser{app: app, cookies: map[string]*http.Cookie{}}
}

func (b *browser) do(req *http.Request) *httptest.ResponseRecorder {
	for _, c := range b.cookies {
		req.AddCookie(c)
	}
	if b.lang != "" {
		req.Header.Set("Accept-Language", b.lang)
	}
	if b.token != "" {
		req.Header.Set("X-CSRF-Token", b.token)
	}
	rec := httptest.NewRecorder()
	b.app.router.ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		b.cookies[c.Name] = c
	}
	return rec
}

func (b *browser) get(path string) *httptest.ResponseRecorder {
	return b.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (b *browser) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

func (b *browser) postFile(path, filename, content string) *httptest.ResponseRecorder {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, _ := mw.CreateFormFile("file", filename)
	part.Write([]byte(content))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return b.do(req)
}

func TestHome(t *testing.T) {
	rec := newTestApp(t).browser().get("/")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<html lang="fr">`)
	assert.Contains(t, rec.Body.String(), "Analyse des avis clients")
}

func TestReview(t *testing.T) {
	tests := []struct {
		name       string
		review     string
		lang       string
		analyzeErr error
		wantStatus int
		wantBody   []string
	}{
		{
			name:       "positive in english",
			review:     "  Great product, arrived quickly!  ",
			lang:       "en",
			wantStatus: http.StatusOK,
			wantBody:   []string{"Positive", "Confidence: 97.3%"},
		},
		{
			name:       "negative in french",
			review:     "Really bad experience overall",
			wantStatus: http.StatusOK,
			wantBody:   []string{"Négatif", "91,0"},
		},
		{
			name:       "too short",
			review:     "   short   ",
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   []string{"au moins 10 caractères"},
		},
		{
			name:       "empty",
			review:     "",
			lang:       "en",
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   []string{"Please enter a review."},
		},
		{
			name:       "too long",
			review:     strings.Repeat("a", 2001),
			lang:       "en",
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   []string{"must not exceed"},
		},
		{
			name:       "service timeout",
			review:     "A perfectly fine review",
			lang:       "en",
			analyzeErr: fmt.Errorf("%w: deadline", services.ErrServiceTimeout),
			wantStatus: http.StatusGatewayTimeout,
			wantBody:   []string{"took too long"},
		},
		{
			name:       "service down",
			review:     "A perfectly fine review",
			analyzeErr: fmt.Errorf("%w: connection refused", services.ErrServiceUnavailable),
			wantStatus: http.StatusBadGateway,
			wantBody:   []string{"indisponible"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t)
			app.analyzer.err = tt.analyzeErr
			b := app.browser()
			b.lang = tt.lang

			rec := b.postForm("/review", url.Values{"review": {tt.review}})

			assert.Equal(t, tt.wantStatus, rec.Code)
			for _, want := range tt.wantBody {
				assert.Contains(t, rec.Body.String(), want)
			}
		})
	}
}

func TestReview_SavedToHistory(t *testing.T) {
	app := newTestApp(t)
	b := app.browser()
	b.lang = "en"

	require.Equal(t, http.StatusOK, b.postForm("/review", url.Values{"review": {"Lovely little cafe"}}).Code)

	rec := b.get("/history")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Lovely little cafe")
	assert.Contains(t, rec.Body.String(), "1 reviews, 0 files")
	assert.Contains(t, b.get("/").Body.String(), "1 reviews and 0 files analyzed since you arrived.")

	// another browser has its own history
	other := app.browser()
	other.lang = "en"
	assert.Contains(t, other.get("/history").Body.String(), "No analyses yet.")
}

func TestDashboard_UploadAndView(t *testing.T) {
	app := newTestApp(t)
	b := app.browser()
	b.lang = "en"

	csv := "id,Review\n1,Great stuff here\n2,Bad bad bad\n3,\n4,It was okay I guess\n5,Loved it a lot\n"
	rec := b.postFile("/dashboard", "reviews.csv", csv)
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())

	location := rec.Header().Get("Location")
	require.True(t, strings.HasPrefix(location, "/dashboard/"), location)

	page := b.get(location)
	require.Equal(t, http.StatusOK, page.Code)
	body := page.Body.String()
	assert.Contains(t, body, "reviews.csv")
	assert.Contains(t, body, "Total Reviews")
	assert.Contains(t, body, "50.0%")
	assert.Contains(t, body, "conic-gradient(#22c55e 0.00% 50.00%")
	assert.Contains(t, body, "Bad bad bad")
	assert.NotContains(t, body, "Showing the first")

	export := b.get(location + "/export.csv")
	require.Equal(t, http.StatusOK, export.Code)
	assert.Equal(t, "text/csv; charset=utf-8", export.Header().Get("Content-Type"))
	assert.Contains(t, export.Header().Get("Content-Disposition"), "avis_analysees.csv")
	assert.Contains(t, export.Body.String(), "original_review,sentiment,confidence")
	assert.Contains(t, export.Body.String(), "Bad bad bad,NEGATIVE,0.91")

	// analyses are private to the visitor that made them
	assert.Equal(t, http.StatusNotFound, app.browser().get(location).Code)
	assert.Equal(t, http.StatusNotFound, app.browser().get(location+"/export.csv").Code)
}

func TestDashboard_PreviewLimited(t *testing.T) {
	app := newTestApp(t)
	b := app.browser()
	b.lang = "en"

	var sb strings.Builder
	sb.WriteString("review\n")
	for i := 0; i < 60; i++ {
		fmt.Fprintf(&sb, "Review number %d\n", i)
	}

	rec := b.postFile("/dashboard", "many.csv", sb.String())
	require.Equal(t, http.StatusSeeOther, rec.Code)

	body := b.get(rec.Header().Get("Location")).Body.String()
	assert.Contains(t, body, "Showing the first 50 of 60 reviews.")
	assert.Contains(t, body, "Review number 49")
	assert.NotContains(t, body, "Review number 50")
}

func TestDashboard_UploadErrors(t *testing.T) {
	tests := []struct {
		name       string
		filename   string
		content    string
		wantStatus int
		wantBody   string
	}{
		{"not csv extension", "reviews.txt", "review\nfine\n", http.StatusUnsupportedMediaType, "Only CSV files are accepted."},
		{"binary content", "reviews.csv", "\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR", http.StatusUnsupportedMediaType, "Only CSV files are accepted."},
		{"empty file", "reviews.csv", "", http.StatusUnprocessableEntity, "The file is empty."},
		{"missing column", "reviews.csv", "text\nhello there\n", http.StatusUnprocessableEntity, "The CSV must have a &#39;review&#39; column"},
		{"only blanks", "reviews.csv", "review\n\n \n", http.StatusUnprocessableEntity, "The file contains no reviews."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestApp(t).browser()
			b.lang = "en"

			rec := b.postFile("/dashboard", tt.filename, tt.content)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestDashboard_NoFile(t *testing.T) {
	b := newTestApp(t).browser()
	b.lang = "en"

	rec := b.postForm("/dashboard", url.Values{})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Please choose a CSV file.")
}

func TestDashboard_UnknownID(t *testing.T) {
	b := newTestApp(t).browser()
	assert.Equal(t, http.StatusNotFound, b.get("/dashboard/not-a-uuid").Code)
	assert.Equal(t, http.StatusNotFound, b.get("/dashboard/3f1c2a9e-5d7b-4c1a-9e2f-8b6d4a3c2e10").Code)
}

func TestHistory_Delete(t *testing.T) {
	app := newTestApp(t)
	b := app.browser()
	b.lang = "en"
	require.Equal(t, http.StatusOK, b.postForm("/review", url.Values{"review": {"Nice and tidy room"}}).Code)

	visitor := app.browser()
	_ = visitor.get("/")

	list, err := app.analyses.ByVisitor(context.Background(), 1, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	path := fmt.Sprintf("/history/%s/delete", list[0].ID)

	// a different visitor cannot delete it
	assert.Equal(t, http.StatusNotFound, visitor.postForm(path, url.Values{}).Code)

	rec := b.postForm(path, url.Values{})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/history?deleted=1", rec.Header().Get("Location"))

	page := b.get("/history?deleted=1").Body.String()
	assert.Contains(t, page, "Analysis deleted.")
	assert.Contains(t, page, "No analyses yet.")
}

func TestAnalyzeSingleAPI(t *testing.T) {
	app := newTestApp(t)
	b := app.browser()

	rec := b.postForm("/analyze-single", url.Values{"review": {"Bad service and cold food"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var result models.ReviewResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, models.SentimentNegative, result.Sentiment)
	assert.InDelta(t, 0.91, result.Confidence, 1e-9)
	assert.Equal(t, "Bad service and cold food", result.Review)

	// the JSON API never sets a visitor cookie
	assert.Empty(t, rec.Result().Cookies())
}

func TestAnalyzeSingleAPI_Errors(t *testing.T) {
	app := newTestApp(t)
	b := app.browser()

	rec := b.postForm("/analyze-single", url.Values{"review": {"tiny"}})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.JSONEq(t, `{"detail":"L'avis doit contenir au moins 10 caractères."}`, rec.Body.String())

	app.analyzer.err = fmt.Errorf("wrapped: %w", services.ErrPayloadTooLarge)
	rec = b.postForm("/analyze-single", url.Values{"review": {"long enough review"}})
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	app.analyzer.err = fmt.Errorf("decode: %w", services.ErrInvalidResponse)
	rec = b.postForm("/analyze-single", url.Values{"review": {"long enough review"}})
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	app.analyzer.err = errors.New("boom")
	rec = b.postForm("/analyze-single", url.Values{"review": {"long enough review"}})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"detail":"Une erreur inattendue s'est produite."}`, rec.Body.String())
}

func TestAnalyzeCSVAPI(t *testing.T) {
	b := newTestApp(t).browser()

	rec := b.postFile("/analyze-csv", "r.csv", "review\nGreat value\nBad packaging\n")
	require.Equal(t, http.StatusOK, rec.Code)

	var batch models.BatchResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &batch))
	assert.Equal(t, 2, batch.TotalReviews)
	assert.InDelta(t, 50.0, batch.PositivePct, 1e-9)
	assert.Equal(t, 1, batch.Count(models.SentimentNegative))
	require.Len(t, batch.AnalyzedData, 2)
	assert.Equal(t, "Great value", batch.AnalyzedData[0].OriginalReview)

	rec = b.postFile("/analyze-csv", "r.csv", "comment\nGreat value\n")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.JSONEq(t, `{"detail":"Le CSV doit avoir une colonne 'review'"}`, rec.Body.String())
}

func TestLang(t *testing.T) {
	b := newTestApp(t).browser()

	req := httptest.NewRequest(http.MethodGet, "/lang/en", nil)
	req.Header.Set("Referer", "http://example.com/review?x=1")
	rec := b.do(req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/review?x=1", rec.Header().Get("Location"))
	require.Contains(t, b.cookies, "lang")
	assert.Equal(t, "en", b.cookies["lang"].Value)

	assert.Contains(t, b.get("/").Body.String(), `<html lang="en">`)

	assert.Equal(t, http.StatusNotFound, b.get("/lang/xx").Code)
}

func TestBackTo(t *testing.T) {
	tests := map[string]string{
		"":                                "/",
		"http://example.com/history":      "/history",
		"http://evil.example.org/history": "/",
		"/dashboard":                      "/dashboard",
		"//evil.example.org/x":            "/",
		"http://example.com/lang/fr":      "/",
	}
	for referer, want := range tests {
		req := httptest.NewRequest(http.MethodGet, "/lang/fr", nil)
		if referer != "" {
			req.Header.Set("Referer", referer)
		}
		assert.Equal(t, want, backTo(req), referer)
	}
}

func TestHealth(t *testing.T) {
	ok := Health(HealthCheck{Name: "db", Check: func(context.Context) error { return nil }})
	rec := httptest.NewRecorder()
	ok(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	down := Health(HealthCheck{Name: "analyzer", Check: func(context.Context) error { return services.ErrServiceUnavailable }})
	rec = httptest.NewRecorder()
	down(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"analyzer":"analysis service unavailable"`)
}
