package controllers

import (
	"bytes"
	"net/http"
	"time"

	"github.com/rahul4469/review-sentiment/internal/middleware"
	"github.com/rahul4469/review-sentiment/internal/services"
	"github.com/rahul4469/review-sentiment/internal/validation"
)

// AnalyzeController serves the JSON analysis endpoints. Their request and
// response shapes match the external analysis service, so RemoteAnalyzer
// can point at another instance of this server.
type AnalyzeController struct {
	analyzer services.Analyzer
	timeout  time.Duration
	maxRows  int
}

func NewAnalyzeController(analyzer services.Analyzer, timeout time.Duration, maxRows int) *AnalyzeController {
	return &AnalyzeController{
		analyzer: analyzer,
		timeout:  timeout,
		maxRows:  maxRows,
	}
}

// PostAnalyzeSingle takes the form field "review" and returns
// {"sentiment", "confidence", "review"}.
func (c *AnalyzeController) PostAnalyzeSingle(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := r.ParseForm(); err != nil {
		c.fail(w, r, err)
		return
	}

	review, err := validation.Review(r.PostFormValue("review"))
	if err != nil {
		c.fail(w, r, err)
		return
	}

	ctx, cancel := analysisContext(r, c.timeout)
	defer cancel()

	result, err := c.analyzer.AnalyzeReview(ctx, review)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	if result.Review == "" {
		result.Review = review
	}

	writeJSON(w, http.StatusOK, result)
}

// PostAnalyzeCSV takes the multipart field "file" and returns the batch statistics.
func (c *AnalyzeController) PostAnalyzeCSV(w http.ResponseWriter, r *http.Request) {
	up, err := readUpload(w, r)
	if err != nil {
		c.fail(w, r, err)
		return
	}

	ctx, cancel := analysisContext(r, c.timeout)
	defer cancel()

	batch, err := c.analyzer.AnalyzeCSV(ctx, up.Filename, bytes.NewReader(up.Data))
	if err != nil {
		c.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, batch)
}

func (c *AnalyzeController) fail(w http.ResponseWriter, r *http.Request, err error) {
	f := classify(err, c.maxRows)
	logFailure(r, f, err)
	writeJSON(w, f.status, map[string]string{"detail": f.message(middleware.CurrentLanguage(r))})
}
