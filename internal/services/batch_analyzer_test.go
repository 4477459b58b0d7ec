package services

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahul4469/review-sentiment/internal/models"
)

// stubAnalyzer labels reviews by prefix and records concurrency.
type stubAnalyzer struct {
	inFlight atomic.Int32
	peak     atomic.Int32
	calls    atomic.Int32
	failOn   string
}

func (s *stubAnalyzer) AnalyzeReview(ctx context.Context, review string) (*models.ReviewResult, error) {
	s.calls.Add(1)
	n := s.inFlight.Add(1)
	defer s.inFlight.Add(-1)
	for {
		p := s.peak.Load()
		if n <= p || s.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(2 * time.Millisecond)

	if s.failOn != "" && review == s.failOn {
		return nil, errors.New("boom")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	label := models.SentimentNeutral
	switch {
	case strings.HasPrefix(review, "good"):
		label = models.SentimentPositive
	case strings.HasPrefix(review, "bad"):
		label = models.SentimentNegative
	}
	return &models.ReviewResult{Sentiment: label, Confidence: 0.9, Review: review}, nil
}

func TestBatchAnalyzer_PreservesOrder(t *testing.T) {
	stub := &stubAnalyzer{}
	ba := NewBatchAnalyzer(stub, BatchOptions{Workers: 3})

	var sb strings.Builder
	sb.WriteString("review\n")
	want := make([]string, 0, 20)
	for i := 0; i < 20; i++ {
		line := []string{"good one", "bad one", "plain one"}[i%3] + " #" + string(rune('a'+i))
		want = append(want, line)
		sb.WriteString(line + "\n")
	}

	batch, err := ba.AnalyzeCSV(context.Background(), "r.csv", strings.NewReader(sb.String()))
	require.NoError(t, err)

	require.Len(t, batch.AnalyzedData, 20)
	for i, row := range batch.AnalyzedData {
		assert.Equal(t, want[i], row.OriginalReview)
	}
	assert.Equal(t, 7, batch.Count(models.SentimentPositive))
	assert.Equal(t, 7, batch.Count(models.SentimentNegative))
	assert.Equal(t, 6, batch.Count(models.SentimentNeutral))
	assert.LessOrEqual(t, stub.peak.Load(), int32(3))
}

func TestBatchAnalyzer_FailingRow(t *testing.T) {
	stub := &stubAnalyzer{failOn: "bad b"}
	ba := NewBatchAnalyzer(stub, BatchOptions{Workers: 1})

	_, err := ba.AnalyzeCSV(context.Background(), "r.csv", strings.NewReader("review\ngood a\nbad b\ngood c\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
}

func TestBatchAnalyzer_ParseErrorsSkipAnalysis(t *testing.T) {
	stub := &stubAnalyzer{}
	ba := NewBatchAnalyzer(stub, BatchOptions{})

	_, err := ba.AnalyzeCSV(context.Background(), "r.csv", strings.NewReader("text\nhello\n"))
	assert.ErrorIs(t, err, ErrMissingReviewColumn)
	assert.Zero(t, stub.calls.Load())
}
