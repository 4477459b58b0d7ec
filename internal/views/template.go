package views

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/language"

	"github.com/rahul4469/review-sentiment/internal/i18n"
	"github.com/rahul4469/review-sentiment/internal/models"
)

const (
	basePath       = "layouts/base.gohtml"
	partialPattern = "partials/*.gohtml"
)

// Template wraps a parsed template with helper methods for rendering.
type Template struct {
	tmpl *template.Template
}

// TemplateData is the standard data structure passed to all templates.
type TemplateData struct {
	// Title is a message key, translated by the layout.
	Title string

	// CSRF token, also exposed in a meta tag for scripted requests
	CSRFToken string
	CSRFField template.HTML

	// Flash messages, already translated
	Error   string
	Success string

	// Page-specific data
	Data any

	// Request info (useful for active nav highlighting)
	CurrentPath string
	Lang        language.Tag
}

// T translates a message key in the page language.
func (d *TemplateData) T(key string, args ...any) string {
	return i18n.T(d.Lang, key, args...)
}

// LangCode is the value of the html lang attribute.
func (d *TemplateData) LangCode() string {
	return i18n.Code(d.Lang)
}

// OtherLangCode is the target of the language switch link.
func (d *TemplateData) OtherLangCode() string {
	if d.Lang == language.English {
		return i18n.Code(language.French)
	}
	return i18n.Code(language.English)
}

// SentimentLabel translates a sentiment label.
func (d *TemplateData) SentimentLabel(s models.Sentiment) string {
	return d.T(i18n.SentimentKey(string(s)))
}

// DefaultFuncMap returns the default template functions available in all templates.
func DefaultFuncMap() template.FuncMap {
	return template.FuncMap{
		"upper":     strings.ToUpper,
		"truncate":  truncate,
		"hasPrefix": strings.HasPrefix,

		"formatDateTime": formatDateTime,
		"barWidth":       barWidth,

		"sentimentClass": sentimentClass,
		"sentimentColor": sentimentColor,
		"pieGradient":    pieGradient,

		"dict": dict,
	}
}

// ParseFS parses the base layout, every partial and the given pages from fsys.
//
// Usage:
//
//	tmpl, err := views.ParseFS(templates.FS, "pages/home.gohtml")
func ParseFS(fsys fs.FS, patterns ...string) (*Template, error) {
	tmpl := template.New("").Funcs(DefaultFuncMap())

	baseContent, err := fs.ReadFile(fsys, basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read base template: %w", err)
	}

	tmpl, err = tmpl.Parse(string(baseContent))
	if err != nil {
		return nil, fmt.Errorf("failed to parse base template: %w", err)
	}

	partialMatches, err := fs.Glob(fsys, partialPattern)
	if err != nil {
		return nil, fmt.Errorf("failed to glob partials: %w", err)
	}

	for _, match := range partialMatches {
		content, err := fs.ReadFile(fsys, match)
		if err != nil {
			return nil, fmt.Errorf("failed to read partial %s: %w", match, err)
		}

		tmpl, err = tmpl.Parse(string(content))
		if err != nil {
			return nil, fmt.Errorf("failed to parse partial %s: %w", match, err)
		}
	}

	// pages define their own "content" block
	for _, pattern := range patterns {
		content, err := fs.ReadFile(fsys, pattern)
		if err != nil {
			return nil, fmt.Errorf("failed to read template %s: %w", pattern, err)
		}

		tmpl, err = tmpl.Parse(string(content))
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", pattern, err)
		}
	}

	return &Template{tmpl: tmpl}, nil
}

// MustParseFS is like ParseFS but panics on error.
// Use this during initialization when templates must be valid.
func MustParseFS(fsys fs.FS, patterns ...string) *Template {
	tmpl, err := ParseFS(fsys, patterns...)
	if err != nil {
		panic(fmt.Sprintf("failed to parse templates: %v", err))
	}
	return tmpl
}

// Execute renders the template to the given writer with the provided data.
func (t *Template) Execute(w io.Writer, data *TemplateData) error {
	return t.tmpl.ExecuteTemplate(w, "base", data)
}

// ExecuteHTTP renders the template as an HTTP response.
func (t *Template) ExecuteHTTP(w http.ResponseWriter, r *http.Request, data *TemplateData) {
	t.ExecuteHTTPWithStatus(w, r, http.StatusOK, data)
}

// ExecuteHTTPWithStatus renders the template with a custom HTTP status code.
// Rendering goes to a buffer first so a failing template never sends half a page.
func (t *Template) ExecuteHTTPWithStatus(w http.ResponseWriter, r *http.Request, status int, data *TemplateData) {
	if data != nil {
		data.CurrentPath = r.URL.Path
	}

	buf := &bytes.Buffer{}
	if err := t.Execute(buf, data); err != nil {
		slog.Error("template execution failed", slog.String("path", r.URL.Path), slog.Any("error", err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// Template function implementations

func truncate(s string, length int) string {
	if length < 1 {
		return ""
	}
	if utf8.RuneCountInString(s) <= length {
		return s
	}
	runes := []rune(s)
	return string(runes[:length-1]) + "…"
}

func formatDateTime(t time.Time) string {
	return t.Format("2006-01-02 15:04")
}

// barWidth is the bar length in percent of the largest bar, never 0 for a
// non-zero count so small classes stay visible.
func barWidth(count, max int) int {
	if count <= 0 || max <= 0 {
		return 0
	}
	w := count * 100 / max
	if w < 2 {
		w = 2
	}
	return w
}

var sentimentColors = map[models.Sentiment]string{
	models.SentimentPositive: "#22c55e",
	models.SentimentNegative: "#ef4444",
	models.SentimentNeutral:  "#9ca3af",
}

func sentimentColor(s models.Sentiment) string {
	if c, ok := sentimentColors[s]; ok {
		return c
	}
	return "#d1d5db"
}

func sentimentClass(s models.Sentiment) string {
	switch s {
	case models.SentimentPositive:
		return "bg-green-100 text-green-800"
	case models.SentimentNegative:
		return "bg-red-100 text-red-800"
	case models.SentimentNeutral:
		return "bg-gray-100 text-gray-800"
	default:
		return "bg-gray-50 text-gray-500"
	}
}

// pieGradient draws the sentiment shares as a CSS conic gradient.
func pieGradient(b *models.BatchResult) template.CSS {
	if b == nil || b.TotalReviews == 0 {
		return template.CSS("conic-gradient(#e5e7eb 0% 100%)")
	}

	var segments []string
	start := 0.0
	for _, s := range models.Sentiments {
		pct := b.Pct(s)
		if pct <= 0 {
			continue
		}
		end := start + pct
		if end > 100 {
			end = 100
		}
		segments = append(segments, fmt.Sprintf("%s %.2f%% %.2f%%", sentimentColor(s), start, end))
		start = end
	}
	return template.CSS("conic-gradient(" + strings.Join(segments, ", ") + ")")
}

// dict builds a map from key/value pairs, for passing several values to a partial.
func dict(pairs ...any) (map[string]any, error) {
	if len(pairs)%2 != 0 {
		return nil, fmt.Errorf("dict: odd number of arguments")
	}
	m := make(map[string]any, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key %v is not a string", pairs[i])
		}
		m[key] = pairs[i+1]
	}
	return m, nil
}
