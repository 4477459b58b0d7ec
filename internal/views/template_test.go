package views

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/rahul4469/review-sentiment/internal/models"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"layouts/base.gohtml": {Data: []byte(`{{define "base"}}<title>{{.T .Title}}</title>{{template "content" .}}{{end}}`)},
		"partials/badge.gohtml": {Data: []byte(
			`{{define "badge"}}<b class="{{sentimentClass .Sentiment}}">{{.Page.SentimentLabel .Sentiment}}</b>{{end}}`)},
		"pages/ok.gohtml": {Data: []byte(
			`{{define "content"}}{{template "badge" (dict "Page" . "Sentiment" .Data)}}{{end}}`)},
		"pages/broken.gohtml": {Data: []byte(`{{define "content"}}{{.Data.Missing}}{{end}}`)},
	}
}

func TestExecuteHTTP(t *testing.T) {
	tmpl, err := ParseFS(testFS(), "pages/ok.gohtml")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	tmpl.ExecuteHTTP(rec, httptest.NewRequest(http.MethodGet, "/review", nil), &TemplateData{
		Title: "history.title",
		Lang:  language.English,
		Data:  models.SentimentPositive,
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<title>History</title>")
	assert.Contains(t, rec.Body.String(), `<b class="bg-green-100 text-green-800">Positive</b>`)
}

func TestExecuteHTTPWithStatus_TemplateError(t *testing.T) {
	tmpl, err := ParseFS(testFS(), "pages/broken.gohtml")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	tmpl.ExecuteHTTPWithStatus(rec, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusUnprocessableEntity,
		&TemplateData{Title: "app.title", Data: 42})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "<title>")
}

func TestParseFS_MissingPage(t *testing.T) {
	_, err := ParseFS(testFS(), "pages/nope.gohtml")
	assert.Error(t, err)
}

func TestTemplateData_Lang(t *testing.T) {
	fr := &TemplateData{Lang: language.French}
	assert.Equal(t, "fr", fr.LangCode())
	assert.Equal(t, "en", fr.OtherLangCode())
	assert.Equal(t, "Neutre", fr.SentimentLabel(models.SentimentNeutral))

	en := &TemplateData{Lang: language.English}
	assert.Equal(t, "fr", en.OtherLangCode())
}

func TestPieGradient(t *testing.T) {
	assert.Equal(t, "conic-gradient(#e5e7eb 0% 100%)", string(pieGradient(nil)))

	batch := models.NewBatchResult([]models.AnalyzedReview{
		{Sentiment: models.SentimentPositive, Confidence: 0.9},
		{Sentiment: models.SentimentPositive, Confidence: 0.9},
		{Sentiment: models.SentimentPositive, Confidence: 0.9},
		{Sentiment: models.SentimentNeutral, Confidence: 0.6},
	})
	assert.Equal(t, "conic-gradient(#22c55e 0.00% 75.00%, #9ca3af 75.00% 100.00%)", string(pieGradient(batch)))
}

func TestBarWidth(t *testing.T) {
	assert.Equal(t, 0, barWidth(0, 10))
	assert.Equal(t, 0, barWidth(3, 0))
	assert.Equal(t, 100, barWidth(10, 10))
	assert.Equal(t, 50, barWidth(5, 10))
	assert.Equal(t, 2, barWidth(1, 1000))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "court", truncate("court", 10))
	assert.Equal(t, "élé…", truncate("éléphant", 4))
	assert.Equal(t, "…", truncate("éléphant", 1))
	assert.Equal(t, "", truncate("éléphant", 0))
	assert.Equal(t, "", truncate("éléphant", -3))
}

func TestDict(t *testing.T) {
	m, err := dict("a", 1, "b", "two")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": 1, "b": "two"}, m)

	_, err = dict("a")
	assert.Error(t, err)

	_, err = dict(1, 2)
	assert.Error(t, err)
}
