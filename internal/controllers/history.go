package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rahul4469/review-sentiment/internal/i18n"
	"github.com/rahul4469/review-sentiment/internal/middleware"
	"github.com/rahul4469/review-sentiment/internal/models"
	"github.com/rahul4469/review-sentiment/internal/views"
)

// HistoryController lists and deletes a visitor's analyses.
type HistoryController struct {
	analyses models.AnalysisStore
	template *views.Template
	limit    int
}

func NewHistoryController(analyses models.AnalysisStore, template *views.Template, limit int) *HistoryController {
	return &HistoryController{
		analyses: analyses,
		template: template,
		limit:    limit,
	}
}

// HistoryData holds data for the history template.
type HistoryData struct {
	Analyses []*models.Analysis
	Singles  int
	Batches  int
}

// GetHistory renders the newest analyses first.
func (c *HistoryController) GetHistory(w http.ResponseWriter, r *http.Request) {
	visitor := middleware.MustCurrentVisitor(r)

	analyses, err := c.analyses.ByVisitor(r.Context(), visitor.ID, c.limit)
	if err != nil {
		c.fail(w, r, err)
		return
	}

	counts, err := c.analyses.CountByKind(r.Context(), visitor.ID)
	if err != nil {
		counts = make(map[models.AnalysisKind]int)
	}

	data := pageData(r, i18n.HistoryTitle, HistoryData{
		Analyses: analyses,
		Singles:  counts[models.KindSingle],
		Batches:  counts[models.KindBatch],
	})
	if r.URL.Query().Get("deleted") == "1" {
		data.Success = data.T(i18n.HistoryDeleted)
	}

	c.template.ExecuteHTTP(w, r, data)
}

// PostDelete removes one analysis owned by the visitor.
func (c *HistoryController) PostDelete(w http.ResponseWriter, r *http.Request) {
	visitor := middleware.MustCurrentVisitor(r)

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		c.fail(w, r, models.ErrAnalysisNotFound)
		return
	}

	analysis, err := c.analyses.ByID(r.Context(), id)
	if err == nil && analysis.VisitorID != visitor.ID {
		err = models.ErrAnalysisNotFound
	}
	if err == nil {
		err = c.analyses.Delete(r.Context(), id)
	}
	if err != nil {
		c.fail(w, r, err)
		return
	}

	http.Redirect(w, r, "/history?deleted=1", http.StatusSeeOther)
}

func (c *HistoryController) fail(w http.ResponseWriter, r *http.Request, err error) {
	f := classify(err, 0)
	logFailure(r, f, err)
	http.Error(w, f.message(middleware.CurrentLanguage(r)), f.status)
}
