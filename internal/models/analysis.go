package models

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AnalysisKind string

const (
	KindSingle AnalysisKind = "single"
	KindBatch  AnalysisKind = "batch"
)

// Analysis is one entry of a visitor's history.
type Analysis struct {
	ID        uuid.UUID    `json:"id"`
	VisitorID int64        `json:"visitor_id"`
	Kind      AnalysisKind `json:"kind"`
	Filename  string       `json:"filename,omitempty"`

	Review *ReviewResult `json:"review,omitempty"`
	Batch  *BatchResult  `json:"batch,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// NewSingleAnalysis builds a history entry for a single review.
func NewSingleAnalysis(visitorID int64, result *ReviewResult) *Analysis {
	return &Analysis{
		ID:        uuid.New(),
		VisitorID: visitorID,
		Kind:      KindSingle,
		Review:    result,
	}
}

// NewBatchAnalysis builds a history entry for an uploaded CSV.
func NewBatchAnalysis(visitorID int64, filename string, result *BatchResult) *Analysis {
	return &Analysis{
		ID:        uuid.New(),
		VisitorID: visitorID,
		Kind:      KindBatch,
		Filename:  filename,
		Batch:     result,
	}
}

func (a *Analysis) IsSingle() bool {
	return a.Kind == KindSingle
}

func (a *Analysis) IsBatch() bool {
	return a.Kind == KindBatch
}

func (a *Analysis) validate() error {
	switch {
	case a.Kind == KindSingle && a.Review != nil:
		return nil
	case a.Kind == KindBatch && a.Batch != nil:
		return nil
	}
	return ErrInvalidAnalysis
}

// payload returns the JSON stored in the result column.
func (a *Analysis) payload() ([]byte, error) {
	if a.Kind == KindSingle {
		return json.Marshal(a.Review)
	}
	return json.Marshal(a.Batch)
}

func (a *Analysis) setPayload(raw []byte) error {
	switch a.Kind {
	case KindSingle:
		a.Review = &ReviewResult{}
		return json.Unmarshal(raw, a.Review)
	case KindBatch:
		a.Batch = &BatchResult{}
		return json.Unmarshal(raw, a.Batch)
	}
	return fmt.Errorf("unknown analysis kind %q", a.Kind)
}

// AnalysisStore persists analysis history.
type AnalysisStore interface {
	Create(ctx context.Context, a *Analysis) error
	ByID(ctx context.Context, id uuid.UUID) (*Analysis, error)
	ByVisitor(ctx context.Context, visitorID int64, limit int) ([]*Analysis, error)
	CountByKind(ctx context.Context, visitorID int64) (map[AnalysisKind]int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// AnalysisService stores history in PostgreSQL.
type AnalysisService struct {
	pool *pgxpool.Pool
}

func NewAnalysisService(pool *pgxpool.Pool) *AnalysisService {
	return &AnalysisService{pool: pool}
}

func (s *AnalysisService) Create(ctx context.Context, a *Analysis) error {
	if err := a.validate(); err != nil {
		return err
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}

	payload, err := a.payload()
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	query := `
		INSERT INTO analyses (id, visitor_id, kind, filename, result)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	err = s.pool.QueryRow(ctx, query, a.ID.String(), a.VisitorID, string(a.Kind), a.Filename, payload).Scan(&a.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create analysis: %w", err)
	}

	return nil
}

func (s *AnalysisService) ByID(ctx context.Context, id uuid.UUID) (*Analysis, error) {
	query := `
		SELECT id::text, visitor_id, kind, filename, result, created_at
		FROM analyses
		WHERE id = $1
	`

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	analysis, err := scanAnalysis(s.pool.QueryRow(ctx, query, id.String()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAnalysisNotFound
		}
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}

	return analysis, nil
}

func (s *AnalysisService) ByVisitor(ctx context.Context, visitorID int64, limit int) ([]*Analysis, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id::text, visitor_id, kind, filename, result, created_at
		FROM analyses
		WHERE visitor_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := s.pool.Query(ctx, query, visitorID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	defer rows.Close()

	var analyses []*Analysis
	for rows.Next() {
		analysis, err := scanAnalysis(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		analyses = append(analyses, analysis)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating analyses: %w", err)
	}

	return analyses, nil
}

// CountByKind returns counts of analyses grouped by kind for a visitor.
func (s *AnalysisService) CountByKind(ctx context.Context, visitorID int64) (map[AnalysisKind]int, error) {
	query := `
		SELECT kind, COUNT(*)
		FROM analyses
		WHERE visitor_id = $1
		GROUP BY kind
	`

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := s.pool.Query(ctx, query, visitorID)
	if err != nil {
		return nil, fmt.Errorf("failed to count analyses by kind: %w", err)
	}
	defer rows.Close()

	counts := make(map[AnalysisKind]int)
	for rows.Next() {
		var kind AnalysisKind
		var count int
		if err := rows.Scan(&kind, &count); err != nil {
			return nil, fmt.Errorf("failed to scan kind count: %w", err)
		}
		counts[kind] = count
	}

	return counts, rows.Err()
}

func (s *AnalysisService) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM analyses WHERE id = $1`

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	result, err := s.pool.Exec(ctx, query, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete analysis: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrAnalysisNotFound
	}

	return nil
}

func scanAnalysis(row pgx.Row) (*Analysis, error) {
	analysis := &Analysis{}
	var id string
	var payload []byte

	err := row.Scan(
		&id,
		&analysis.VisitorID,
		&analysis.Kind,
		&analysis.Filename,
		&payload,
		&analysis.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	analysis.ID, err = uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid analysis id %q: %w", id, err)
	}
	if err := analysis.setPayload(payload); err != nil {
		return nil, fmt.Errorf("invalid analysis payload: %w", err)
	}

	return analysis, nil
}
