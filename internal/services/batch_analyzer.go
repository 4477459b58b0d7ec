package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rahul4469/review-sentiment/internal/models"
)

const DefaultMaxRows = 5000

// BatchOptions bounds a CSV analysis.
type BatchOptions struct {
	Workers int
	MaxRows int
}

func (o BatchOptions) withDefaults() BatchOptions {
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.MaxRows <= 0 {
		o.MaxRows = DefaultMaxRows
	}
	return o
}

// BatchAnalyzer fans the rows of a CSV out to a ReviewAnalyzer.
type BatchAnalyzer struct {
	analyzer ReviewAnalyzer
	opts     BatchOptions
}

func NewBatchAnalyzer(analyzer ReviewAnalyzer, opts BatchOptions) *BatchAnalyzer {
	return &BatchAnalyzer{
		analyzer: analyzer,
		opts:     opts.withDefaults(),
	}
}

// AnalyzeCSV parses the reviews of r and analyzes them concurrently. Rows
// keep their input order; the first failing row cancels the rest.
func (ba *BatchAnalyzer) AnalyzeCSV(ctx context.Context, filename string, r io.Reader) (*models.BatchResult, error) {
	start := time.Now()

	reviews, err := ParseReviews(r, ba.opts.MaxRows)
	if err != nil {
		return nil, err
	}

	rows := make([]models.AnalyzedReview, len(reviews))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(ba.opts.Workers)

	for i, review := range reviews {
		g.Go(func() error {
			result, err := ba.analyzer.AnalyzeReview(ctx, review)
			if err != nil {
				return fmt.Errorf("row %d: %w", i+1, err)
			}
			rows[i] = models.AnalyzedReview{
				OriginalReview: review,
				Sentiment:      result.Sentiment,
				Confidence:     result.Confidence,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	batch := models.NewBatchResult(rows)
	slog.Info("CSV analyzed",
		slog.String("file", filename),
		slog.Int("reviews", batch.TotalReviews),
		slog.Duration("took", time.Since(start)))

	return batch, nil
}
