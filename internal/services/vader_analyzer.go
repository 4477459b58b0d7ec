package services

import (
	"context"
	"fmt"
	"html"
	"io"
	"math"
	"regexp"
	"strings"

	"github.com/jonreiter/govader"
	"github.com/russross/blackfriday/v2"

	"github.com/rahul4469/review-sentiment/internal/models"
)

// DefaultNeutralThreshold is the confidence under which a polar label is
// reported as NEUTRAL.
const DefaultNeutralThreshold = 0.7

// Bounds of the neutral threshold. Below 0.5 no review could be NEUTRAL.
const (
	MinNeutralThreshold = 0.5
	MaxNeutralThreshold = 1.0
)

var (
	markdownLinkPattern = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	urlPattern          = regexp.MustCompile(`https?://\S+|www\.\S+`)
	htmlTagPattern      = regexp.MustCompile(`<[^>]*>`)
)

// VaderAnalyzer scores reviews locally with the VADER lexicon.
type VaderAnalyzer struct {
	analyzer         *govader.SentimentIntensityAnalyzer
	neutralThreshold float64
	batch            *BatchAnalyzer
}

// NewVaderAnalyzer creates a local analyzer. A zero threshold means
// DefaultNeutralThreshold; any other value must lie in [0.5, 1].
func NewVaderAnalyzer(neutralThreshold float64, batchOpts BatchOptions) (*VaderAnalyzer, error) {
	if neutralThreshold == 0 {
		neutralThreshold = DefaultNeutralThreshold
	}
	if neutralThreshold < MinNeutralThreshold || neutralThreshold > MaxNeutralThreshold {
		return nil, fmt.Errorf("%w: %v not in [%v, %v]", ErrInvalidThreshold, neutralThreshold, MinNeutralThreshold, MaxNeutralThreshold)
	}
	va := &VaderAnalyzer{
		analyzer:         govader.NewSentimentIntensityAnalyzer(),
		neutralThreshold: neutralThreshold,
	}
	va.batch = NewBatchAnalyzer(va, batchOpts)
	return va, nil
}

// NeutralThreshold is the threshold in use.
func (va *VaderAnalyzer) NeutralThreshold() float64 {
	return va.neutralThreshold
}

// AnalyzeReview maps the VADER compound score c in [-1,1] to a polar label
// with confidence 0.5+|c|/2, then downgrades weak labels to NEUTRAL.
func (va *VaderAnalyzer) AnalyzeReview(ctx context.Context, review string) (*models.ReviewResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	compound := va.analyzer.PolarityScores(PlainText(review)).Compound
	label, confidence := Classify(compound, va.neutralThreshold)

	return &models.ReviewResult{
		Sentiment:  label,
		Confidence: confidence,
		Review:     review,
		Language:   DetectLanguage(review),
	}, nil
}

// AnalyzeCSV runs AnalyzeReview over every row of the file.
func (va *VaderAnalyzer) AnalyzeCSV(ctx context.Context, filename string, r io.Reader) (*models.BatchResult, error) {
	return va.batch.AnalyzeCSV(ctx, filename, r)
}

// Classify turns a compound score into a label and confidence.
func Classify(compound, neutralThreshold float64) (models.Sentiment, float64) {
	compound = math.Max(-1, math.Min(1, compound))
	confidence := 0.5 + math.Abs(compound)/2

	label := models.SentimentPositive
	if compound < 0 {
		label = models.SentimentNegative
	}
	if confidence < neutralThreshold {
		label = models.SentimentNeutral
	}
	return label, confidence
}

// PlainText renders markdown and drops links and markup so that only the
// prose reaches the lexicon.
func PlainText(input string) string {
	input = markdownLinkPattern.ReplaceAllString(input, "$1")
	// renderers keep state, so each call gets its own; no smartypants keeps
	// contractions intact for the lexicon
	renderer := blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{
		Flags: blackfriday.UseXHTML,
	})
	rendered := blackfriday.Run([]byte(input), blackfriday.WithNoExtensions(), blackfriday.WithRenderer(renderer))
	text := html.UnescapeString(htmlTagPattern.ReplaceAllString(string(rendered), " "))
	text = urlPattern.ReplaceAllString(text, "")
	return strings.Join(strings.Fields(text), " ")
}
