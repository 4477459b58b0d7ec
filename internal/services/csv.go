package services

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/rahul4469/review-sentiment/internal/models"
)

// ReviewColumn is the header every uploaded CSV must carry.
const ReviewColumn = "review"

// ExportFilename is the download name of an analyzed CSV.
const ExportFilename = "avis_analysees.csv"

const utf8BOM = "\ufeff"

// ParseReviews reads the review column of a CSV file. Header matching is
// case-insensitive; blank cells are skipped. More than maxRows non-blank
// reviews is an error.
func ParseReviews(r io.Reader, maxRows int) ([]string, error) {
	reader := csv.NewReader(bufio.NewReader(r))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoReviews
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedCSV, err)
	}

	column := lo.IndexOf(lo.Map(header, func(h string, i int) string {
		if i == 0 {
			h = strings.TrimPrefix(h, utf8BOM)
		}
		return strings.ToLower(strings.TrimSpace(h))
	}), ReviewColumn)
	if column < 0 {
		return nil, ErrMissingReviewColumn
	}

	var reviews []string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedCSV, err)
		}
		if column >= len(record) {
			continue
		}
		review := strings.TrimSpace(record[column])
		if review == "" {
			continue
		}
		if maxRows > 0 && len(reviews) >= maxRows {
			return nil, fmt.Errorf("%w: limit is %d", ErrTooManyRows, maxRows)
		}
		reviews = append(reviews, review)
	}

	if len(reviews) == 0 {
		return nil, ErrNoReviews
	}
	return reviews, nil
}

// ExportCSV writes analyzed rows with the original_review, sentiment and
// confidence columns.
func ExportCSV(w io.Writer, rows []models.AnalyzedReview) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"original_review", "sentiment", "confidence"}); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{
			row.OriginalReview,
			row.Sentiment.String(),
			strconv.FormatFloat(row.Confidence, 'f', -1, 64),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
