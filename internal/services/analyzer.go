package services

import (
	"context"
	"errors"
	"io"

	"github.com/rahul4469/review-sentiment/internal/models"
)

// ReviewAnalyzer classifies a single review.
type ReviewAnalyzer interface {
	AnalyzeReview(ctx context.Context, review string) (*models.ReviewResult, error)
}

// CSVAnalyzer classifies every review of an uploaded CSV file.
type CSVAnalyzer interface {
	AnalyzeCSV(ctx context.Context, filename string, r io.Reader) (*models.BatchResult, error)
}

// Analyzer covers both page types.
type Analyzer interface {
	ReviewAnalyzer
	CSVAnalyzer
}

// ErrInvalidThreshold is returned for a neutral threshold out of bounds.
var ErrInvalidThreshold = errors.New("invalid neutral threshold")

// CSV errors
var (
	ErrMissingReviewColumn = errors.New("CSV must have a 'review' column")
	ErrNoReviews           = errors.New("CSV contains no reviews")
	ErrTooManyRows         = errors.New("CSV has too many rows")
	ErrMalformedCSV        = errors.New("malformed CSV")
)

// Analysis service errors
var (
	ErrServiceTimeout     = errors.New("analysis service timed out")
	ErrServiceUnavailable = errors.New("analysis service unavailable")
	ErrPayloadTooLarge    = errors.New("analysis service rejected the payload as too large")
	ErrServiceRejected    = errors.New("analysis service rejected the request")
	ErrInvalidResponse    = errors.New("invalid response from analysis service")
)
