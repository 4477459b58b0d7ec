package models

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Visitor is an anonymous browser that owns a history.
type Visitor struct {
	ID int64 `json:"id"`
	// Token is only set when creating a new visitor. Lookups leave it empty
	// since only the hash of a token is stored.
	Token      string    `json:"-"`
	TokenHash  string    `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
	LastSeenAt time.Time `json:"last_seen_at"`
}

const (
	// MinBytesPerToken is the minimum number of bytes for a visitor token
	MinBytesPerToken = 32
)

// VisitorStore creates and resolves visitors.
type VisitorStore interface {
	Create(ctx context.Context) (*Visitor, error)
	ByToken(ctx context.Context, token string) (*Visitor, error)
}

type VisitorService struct {
	pool *pgxpool.Pool

	BytesPerToken int
}

func NewVisitorService(pool *pgxpool.Pool) *VisitorService {
	return &VisitorService{
		pool:          pool,
		BytesPerToken: MinBytesPerToken,
	}
}

// Create registers a new visitor with a fresh token. A hash collision on the
// unique token_hash index is retried once with a new token.
func (vs *VisitorService) Create(ctx context.Context) (*Visitor, error) {
	visitor, err := vs.insert(ctx)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		visitor, err = vs.insert(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("create visitor: %w", err)
	}
	return visitor, nil
}

func (vs *VisitorService) insert(ctx context.Context) (*Visitor, error) {
	token, err := GenerateToken(vs.BytesPerToken)
	if err != nil {
		return nil, err
	}

	visitor := &Visitor{
		Token:     token,
		TokenHash: HashToken(token),
	}

	query := `
		INSERT INTO visitors (token_hash)
		VALUES ($1)
		RETURNING id, created_at, last_seen_at
	`

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	err = vs.pool.QueryRow(ctx, query, visitor.TokenHash).Scan(&visitor.ID, &visitor.CreatedAt, &visitor.LastSeenAt)
	if err != nil {
		return nil, err
	}
	return visitor, nil
}

// ByToken resolves a cookie token and bumps last_seen_at.
func (vs *VisitorService) ByToken(ctx context.Context, token string) (*Visitor, error) {
	query := `
		UPDATE visitors
		SET last_seen_at = NOW()
		WHERE token_hash = $1
		RETURNING id, token_hash, created_at, last_seen_at
	`

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var visitor Visitor
	err := vs.pool.QueryRow(ctx, query, HashToken(token)).Scan(
		&visitor.ID,
		&visitor.TokenHash,
		&visitor.CreatedAt,
		&visitor.LastSeenAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrVisitorNotFound
		}
		return nil, fmt.Errorf("visitor by token: %w", err)
	}
	return &visitor, nil
}

// GenerateToken returns a URL-safe random token of at least MinBytesPerToken bytes.
func GenerateToken(length int) (string, error) {
	if length < MinBytesPerToken {
		length = MinBytesPerToken
	}
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random: %w", err)
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// HashToken is the stored form of a visitor token.
func HashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return base64.URLEncoding.EncodeToString(hash[:])
}
