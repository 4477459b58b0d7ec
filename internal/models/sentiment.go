package models

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/samber/lo"
)

// Sentiment is the classification label attached to a review.
type Sentiment string

const (
	SentimentPositive Sentiment = "POSITIVE"
	SentimentNegative Sentiment = "NEGATIVE"
	SentimentNeutral  Sentiment = "NEUTRAL"
)

// Sentiments lists the labels in display order.
var Sentiments = []Sentiment{SentimentPositive, SentimentNegative, SentimentNeutral}

// ParseSentiment accepts any casing, analysis services are not consistent about it.
func ParseSentiment(s string) (Sentiment, error) {
	label := Sentiment(strings.ToUpper(strings.TrimSpace(s)))
	if !lo.Contains(Sentiments, label) {
		return "", fmt.Errorf("%w: %q", ErrUnknownSentiment, s)
	}
	return label, nil
}

// UnmarshalText lets JSON decoding normalize labels.
func (s *Sentiment) UnmarshalText(b []byte) error {
	parsed, err := ParseSentiment(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s Sentiment) String() string {
	return string(s)
}

// ReviewResult is the outcome of analyzing one review.
type ReviewResult struct {
	Sentiment  Sentiment `json:"sentiment"`
	Confidence float64   `json:"confidence"`
	Review     string    `json:"review,omitempty"`
	Language   string    `json:"language,omitempty"`
}

// ConfidencePercent is the confidence as shown to users: a percentage with one decimal.
func (r *ReviewResult) ConfidencePercent() float64 {
	return ConfidencePercent(r.Confidence)
}

// Validate checks the shape of a result produced by an analysis service.
func (r *ReviewResult) Validate() error {
	if !lo.Contains(Sentiments, r.Sentiment) {
		return fmt.Errorf("%w: %q", ErrUnknownSentiment, r.Sentiment)
	}
	if r.Confidence < 0 || r.Confidence > 1 || math.IsNaN(r.Confidence) {
		return fmt.Errorf("%w: %v", ErrConfidenceOutOfRange, r.Confidence)
	}
	return nil
}

// AnalyzedReview is one row of a batch analysis.
type AnalyzedReview struct {
	OriginalReview string    `json:"original_review"`
	Sentiment      Sentiment `json:"sentiment"`
	Confidence     float64   `json:"confidence"`
}

func (a AnalyzedReview) ConfidencePercent() float64 {
	return ConfidencePercent(a.Confidence)
}

// BatchResult aggregates a CSV analysis.
type BatchResult struct {
	TotalReviews    int               `json:"total_reviews"`
	PositivePct     float64           `json:"positive_pct"`
	NegativePct     float64           `json:"negative_pct"`
	NeutralPct      float64           `json:"neutral_pct"`
	SentimentsCount map[Sentiment]int `json:"sentiments_count"`
	AnalyzedData    []AnalyzedReview  `json:"analyzed_data"`
}

// NewBatchResult computes the aggregate statistics for rows.
// Percentages are rounded to two decimals and are all zero for an empty batch.
func NewBatchResult(rows []AnalyzedReview) *BatchResult {
	if rows == nil {
		rows = []AnalyzedReview{}
	}
	counts := lo.CountValuesBy(rows, func(r AnalyzedReview) Sentiment {
		return r.Sentiment
	})

	total := len(rows)
	return &BatchResult{
		TotalReviews:    total,
		PositivePct:     share(counts[SentimentPositive], total),
		NegativePct:     share(counts[SentimentNegative], total),
		NeutralPct:      share(counts[SentimentNeutral], total),
		SentimentsCount: counts,
		AnalyzedData:    rows,
	}
}

// Validate checks the shape of a batch produced by an analysis service.
func (b *BatchResult) Validate() error {
	if b.TotalReviews != len(b.AnalyzedData) {
		return fmt.Errorf("%w: total_reviews=%d but %d rows", ErrInconsistentBatch, b.TotalReviews, len(b.AnalyzedData))
	}
	for _, pct := range []float64{b.PositivePct, b.NegativePct, b.NeutralPct} {
		if pct < 0 || pct > 100 || math.IsNaN(pct) {
			return fmt.Errorf("%w: percentage %v", ErrInconsistentBatch, pct)
		}
	}
	for i, row := range b.AnalyzedData {
		r := ReviewResult{Sentiment: row.Sentiment, Confidence: row.Confidence}
		if err := r.Validate(); err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
	}
	return nil
}

// Count returns the number of rows labelled s.
func (b *BatchResult) Count(s Sentiment) int {
	return b.SentimentsCount[s]
}

// Pct returns the stored percentage for s.
func (b *BatchResult) Pct(s Sentiment) float64 {
	switch s {
	case SentimentPositive:
		return b.PositivePct
	case SentimentNegative:
		return b.NegativePct
	case SentimentNeutral:
		return b.NeutralPct
	}
	return 0
}

// Preview returns at most n rows for display.
func (b *BatchResult) Preview(n int) []AnalyzedReview {
	if n <= 0 || len(b.AnalyzedData) <= n {
		return b.AnalyzedData
	}
	return b.AnalyzedData[:n]
}

// CountEntry is a label/count pair, used by the bar chart.
type CountEntry struct {
	Sentiment Sentiment
	Count     int
}

// SortedCounts returns the counts in display order, followed by any unexpected labels.
func (b *BatchResult) SortedCounts() []CountEntry {
	entries := make([]CountEntry, 0, len(b.SentimentsCount))
	for _, s := range Sentiments {
		if n, ok := b.SentimentsCount[s]; ok {
			entries = append(entries, CountEntry{Sentiment: s, Count: n})
		}
	}
	var extra []CountEntry
	for s, n := range b.SentimentsCount {
		if !lo.Contains(Sentiments, s) {
			extra = append(extra, CountEntry{Sentiment: s, Count: n})
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i].Sentiment < extra[j].Sentiment })
	return append(entries, extra...)
}

// MaxCount is the largest label count, 0 for an empty batch.
func (b *BatchResult) MaxCount() int {
	return lo.Max(lo.Values(b.SentimentsCount))
}

// ConfidencePercent converts a [0,1] confidence to a percentage rounded to one decimal.
func ConfidencePercent(confidence float64) float64 {
	return math.Round(confidence*1000) / 10
}

func share(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(count)/float64(total)*100*100) / 100
}
