package controllers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/rahul4469/review-sentiment/internal/i18n"
	"github.com/rahul4469/review-sentiment/internal/middleware"
	"github.com/rahul4469/review-sentiment/internal/models"
	"github.com/rahul4469/review-sentiment/internal/services"
	"github.com/rahul4469/review-sentiment/internal/validation"
	"github.com/rahul4469/review-sentiment/internal/views"
)

// ReviewController handles the single-review page.
type ReviewController struct {
	analyzer services.ReviewAnalyzer
	analyses models.AnalysisStore
	template *views.Template
	timeout  time.Duration
}

func NewReviewController(
	analyzer services.ReviewAnalyzer,
	analyses models.AnalysisStore,
	template *views.Template,
	timeout time.Duration,
) *ReviewController {
	return &ReviewController{
		analyzer: analyzer,
		analyses: analyses,
		template: template,
		timeout:  timeout,
	}
}

// ReviewFormData holds data for the review template.
type ReviewFormData struct {
	Review string
	Result *models.ReviewResult
	Min    int
	Max    int
}

func newReviewFormData(review string, result *models.ReviewResult) ReviewFormData {
	return ReviewFormData{
		Review: review,
		Result: result,
		Min:    validation.MinReviewLength,
		Max:    validation.MaxReviewLength,
	}
}

// GetReview renders the empty form.
func (c *ReviewController) GetReview(w http.ResponseWriter, r *http.Request) {
	c.template.ExecuteHTTP(w, r, pageData(r, i18n.ReviewTitle, newReviewFormData("", nil)))
}

// PostReview analyzes the submitted review and renders the result inline.
func (c *ReviewController) PostReview(w http.ResponseWriter, r *http.Request) {
	visitor := middleware.MustCurrentVisitor(r)

	if err := r.ParseForm(); err != nil {
		c.renderFormError(w, r, "", failure{status: http.StatusBadRequest, key: i18n.ErrInvalidForm}, err)
		return
	}

	raw := r.PostFormValue("review")
	review, err := validation.Review(raw)
	if err != nil {
		c.renderFormError(w, r, raw, classify(err, 0), err)
		return
	}

	ctx, cancel := analysisContext(r, c.timeout)
	defer cancel()

	result, err := c.analyzer.AnalyzeReview(ctx, review)
	if err != nil {
		c.renderFormError(w, r, review, classify(err, 0), err)
		return
	}
	if result.Review == "" {
		result.Review = review
	}

	// history is best effort, the result is shown either way
	if err := c.analyses.Create(r.Context(), models.NewSingleAnalysis(visitor.ID, result)); err != nil {
		slog.Error("failed to save analysis", slog.Int64("visitor_id", visitor.ID), slog.Any("error", err))
	}

	c.template.ExecuteHTTP(w, r, pageData(r, i18n.ReviewTitle, newReviewFormData(review, result)))
}

// renderFormError renders the form with an error message.
func (c *ReviewController) renderFormError(w http.ResponseWriter, r *http.Request, review string, f failure, err error) {
	logFailure(r, f, err)
	data := pageData(r, i18n.ReviewTitle, newReviewFormData(review, nil))
	data.Error = f.message(data.Lang)
	c.template.ExecuteHTTPWithStatus(w, r, f.status, data)
}
