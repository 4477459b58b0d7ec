package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rahul4469/review-sentiment/internal/i18n"
	"github.com/rahul4469/review-sentiment/internal/middleware"
	"github.com/rahul4469/review-sentiment/internal/models"
	"github.com/rahul4469/review-sentiment/internal/services"
	"github.com/rahul4469/review-sentiment/internal/validation"
	"github.com/rahul4469/review-sentiment/internal/views"
)

// PreviewLimit is the number of rows shown in the review table.
const PreviewLimit = 50

// DashboardController handles CSV uploads and their analytics view.
type DashboardController struct {
	analyzer  services.CSVAnalyzer
	analyses  models.AnalysisStore
	templates DashboardTemplates
	timeout   time.Duration
	maxRows   int
}

// DashboardTemplates holds the templates for dashboard pages.
type DashboardTemplates struct {
	Upload *views.Template
	Result *views.Template
}

func NewDashboardController(
	analyzer services.CSVAnalyzer,
	analyses models.AnalysisStore,
	templates DashboardTemplates,
	timeout time.Duration,
	maxRows int,
) *DashboardController {
	return &DashboardController{
		analyzer:  analyzer,
		analyses:  analyses,
		templates: templates,
		timeout:   timeout,
		maxRows:   maxRows,
	}
}

// UploadData holds data for the upload template.
type UploadData struct {
	MaxMB int64
}

// DashboardData holds data for the result template.
type DashboardData struct {
	Analysis     *models.Analysis
	Batch        *models.BatchResult
	Counts       []models.CountEntry
	MaxCount     int
	Preview      []models.AnalyzedReview
	PreviewLimit int
	Truncated    bool
}

func newDashboardData(a *models.Analysis) DashboardData {
	return DashboardData{
		Analysis:     a,
		Batch:        a.Batch,
		Counts:       a.Batch.SortedCounts(),
		MaxCount:     a.Batch.MaxCount(),
		Preview:      a.Batch.Preview(PreviewLimit),
		PreviewLimit: PreviewLimit,
		Truncated:    a.Batch.TotalReviews > PreviewLimit,
	}
}

// GetDashboard renders the upload form.
func (c *DashboardController) GetDashboard(w http.ResponseWriter, r *http.Request) {
	c.templates.Upload.ExecuteHTTP(w, r, pageData(r, i18n.DashboardTitle, uploadData()))
}

func uploadData() UploadData {
	return UploadData{MaxMB: validation.MaxUploadSize >> 20}
}

// PostDashboard analyzes an uploaded CSV, stores it and redirects to its view.
func (c *DashboardController) PostDashboard(w http.ResponseWriter, r *http.Request) {
	visitor := middleware.MustCurrentVisitor(r)

	up, err := readUpload(w, r)
	if err != nil {
		c.renderUploadError(w, r, classify(err, c.maxRows), err)
		return
	}

	ctx, cancel := analysisContext(r, c.timeout)
	defer cancel()

	batch, err := c.analyzer.AnalyzeCSV(ctx, up.Filename, bytes.NewReader(up.Data))
	if err != nil {
		c.renderUploadError(w, r, classify(err, c.maxRows), err)
		return
	}

	analysis := models.NewBatchAnalysis(visitor.ID, up.Filename, batch)
	if err := c.analyses.Create(r.Context(), analysis); err != nil {
		c.renderUploadError(w, r, classify(err, c.maxRows), err)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/dashboard/%s", analysis.ID), http.StatusSeeOther)
}

func (c *DashboardController) renderUploadError(w http.ResponseWriter, r *http.Request, f failure, err error) {
	logFailure(r, f, err)
	data := pageData(r, i18n.DashboardTitle, uploadData())
	data.Error = f.message(data.Lang)
	c.templates.Upload.ExecuteHTTPWithStatus(w, r, f.status, data)
}

// GetResult renders KPIs, charts and the first rows of a batch analysis.
func (c *DashboardController) GetResult(w http.ResponseWriter, r *http.Request) {
	analysis, ok := c.ownedBatch(w, r)
	if !ok {
		return
	}
	c.templates.Result.ExecuteHTTP(w, r, pageData(r, i18n.DashboardTitle, newDashboardData(analysis)))
}

// GetExport downloads the analyzed rows as CSV.
func (c *DashboardController) GetExport(w http.ResponseWriter, r *http.Request) {
	analysis, ok := c.ownedBatch(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := services.ExportCSV(&buf, analysis.Batch.AnalyzedData); err != nil {
		f := classify(err, c.maxRows)
		logFailure(r, f, err)
		http.Error(w, f.message(middleware.CurrentLanguage(r)), f.status)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, services.ExportFilename))
	buf.WriteTo(w)
}

// ownedBatch loads the batch analysis named in the URL. Analyses of other
// visitors are reported as missing.
func (c *DashboardController) ownedBatch(w http.ResponseWriter, r *http.Request) (*models.Analysis, bool) {
	visitor := middleware.MustCurrentVisitor(r)
	lang := middleware.CurrentLanguage(r)

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, i18n.T(lang, i18n.ErrNotFound), http.StatusNotFound)
		return nil, false
	}

	analysis, err := c.analyses.ByID(r.Context(), id)
	if err == nil && (analysis.VisitorID != visitor.ID || !analysis.IsBatch()) {
		err = models.ErrAnalysisNotFound
	}
	if err != nil {
		f := classify(err, c.maxRows)
		logFailure(r, f, err)
		http.Error(w, f.message(lang), f.status)
		return nil, false
	}
	return analysis, true
}
