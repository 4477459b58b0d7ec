package controllers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/rahul4469/review-sentiment/internal/i18n"
	"github.com/rahul4469/review-sentiment/internal/middleware"
	"github.com/rahul4469/review-sentiment/internal/models"
	"github.com/rahul4469/review-sentiment/internal/views"
)

// StaticController handles static pages like home.
type StaticController struct {
	analyses  models.AnalysisStore
	templates StaticTemplates
}

// StaticTemplates holds templates for static pages.
type StaticTemplates struct {
	Home *views.Template
}

func NewStaticController(analyses models.AnalysisStore, templates StaticTemplates) *StaticController {
	return &StaticController{
		analyses:  analyses,
		templates: templates,
	}
}

// HomeData holds data for the home page template.
type HomeData struct {
	Singles int
	Batches int
}

// GetHome renders the home page with the visitor's analysis counts.
func (c *StaticController) GetHome(w http.ResponseWriter, r *http.Request) {
	var data HomeData
	if visitor := middleware.CurrentVisitor(r); visitor != nil {
		counts, err := c.analyses.CountByKind(r.Context(), visitor.ID)
		if err != nil {
			slog.Warn("failed to count analyses", slog.Int64("visitor_id", visitor.ID), slog.Any("error", err))
		}
		data.Singles = counts[models.KindSingle]
		data.Batches = counts[models.KindBatch]
	}

	c.templates.Home.ExecuteHTTP(w, r, pageData(r, i18n.AppTitle, data))
}

// HealthCheck is a named dependency check.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// Health returns a handler reporting {"status":"ok"} or 503 with the
// names of the failing checks.
func Health(checks ...HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		failing := map[string]string{}
		for _, hc := range checks {
			if err := hc.Check(ctx); err != nil {
				failing[hc.Name] = err.Error()
			}
		}

		status := http.StatusOK
		body := map[string]any{"status": "ok"}
		if len(failing) > 0 {
			status = http.StatusServiceUnavailable
			body = map[string]any{"status": "unavailable", "failing": failing}
		}
		writeJSON(w, status, body)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write json response", slog.Any("error", err))
	}
}
