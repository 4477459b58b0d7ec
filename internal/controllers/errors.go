package controllers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"golang.org/x/text/language"

	"github.com/rahul4469/review-sentiment/internal/i18n"
	"github.com/rahul4469/review-sentiment/internal/models"
	"github.com/rahul4469/review-sentiment/internal/services"
	"github.com/rahul4469/review-sentiment/internal/validation"
)

// failure is an error translated for the user.
type failure struct {
	status int
	key    string
	args   []any
	// detail is a message from the analysis service, shown as is.
	detail string
}

func (f failure) message(lang language.Tag) string {
	if f.detail != "" {
		return f.detail
	}
	return i18n.T(lang, f.key, f.args...)
}

// classify maps errors from validation, analysis and storage to a status
// and a message. Anything unknown is a 500.
func classify(err error, maxRows int) failure {
	var se *services.ServiceError
	var tooLarge *http.MaxBytesError

	switch {
	case errors.Is(err, validation.ErrReviewRequired):
		return failure{status: http.StatusUnprocessableEntity, key: i18n.ErrReviewRequired}
	case errors.Is(err, validation.ErrReviewTooShort):
		return failure{status: http.StatusUnprocessableEntity, key: i18n.ErrReviewTooShort, args: []any{validation.MinReviewLength}}
	case errors.Is(err, validation.ErrReviewTooLong):
		return failure{status: http.StatusUnprocessableEntity, key: i18n.ErrReviewTooLong, args: []any{validation.MaxReviewLength}}
	case errors.Is(err, validation.ErrFileRequired):
		return failure{status: http.StatusUnprocessableEntity, key: i18n.ErrFileRequired}
	case errors.Is(err, validation.ErrEmptyFile):
		return failure{status: http.StatusUnprocessableEntity, key: i18n.ErrEmptyFile}
	case errors.Is(err, validation.ErrNotCSV):
		return failure{status: http.StatusUnsupportedMediaType, key: i18n.ErrNotCSV}
	case errors.Is(err, validation.ErrFileTooLarge), errors.As(err, &tooLarge):
		return failure{status: http.StatusRequestEntityTooLarge, key: i18n.ErrFileTooLarge, args: []any{validation.MaxUploadSize >> 20}}

	case errors.Is(err, services.ErrMissingReviewColumn):
		return failure{status: http.StatusUnprocessableEntity, key: i18n.ErrMissingColumn}
	case errors.Is(err, services.ErrNoReviews):
		return failure{status: http.StatusUnprocessableEntity, key: i18n.ErrNoReviews}
	case errors.Is(err, services.ErrTooManyRows):
		return failure{status: http.StatusUnprocessableEntity, key: i18n.ErrTooManyRows, args: []any{maxRows}}
	case errors.Is(err, services.ErrMalformedCSV):
		return failure{status: http.StatusUnprocessableEntity, key: i18n.ErrMalformedCSV}

	case errors.Is(err, services.ErrServiceTimeout), errors.Is(err, context.DeadlineExceeded):
		return failure{status: http.StatusGatewayTimeout, key: i18n.ErrTimeout}
	case errors.Is(err, services.ErrPayloadTooLarge):
		return failure{status: http.StatusRequestEntityTooLarge, key: i18n.ErrPayloadTooLarge}
	case errors.Is(err, services.ErrServiceUnavailable):
		return failure{status: http.StatusBadGateway, key: i18n.ErrUnavailable}
	case errors.Is(err, services.ErrServiceRejected):
		f := failure{status: http.StatusUnprocessableEntity, key: i18n.ErrRejected}
		if errors.As(err, &se) {
			f.detail = se.Detail
		}
		return f
	case errors.Is(err, services.ErrInvalidResponse):
		return failure{status: http.StatusBadGateway, key: i18n.ErrInvalidResponse}

	case errors.Is(err, models.ErrAnalysisNotFound):
		return failure{status: http.StatusNotFound, key: i18n.ErrNotFound}
	}
	return failure{status: http.StatusInternalServerError, key: i18n.ErrGeneric}
}

func logFailure(r *http.Request, f failure, err error) {
	attrs := []any{
		slog.String("path", r.URL.Path),
		slog.Int("status", f.status),
		slog.Any("error", err),
	}
	if f.status >= http.StatusInternalServerError {
		slog.Error("request failed", attrs...)
		return
	}
	slog.Info("request rejected", attrs...)
}
