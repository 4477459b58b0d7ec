package services

import (
	"context"
	"crypto/sha256"
	"crypto/tls"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/rahul4469/review-sentiment/internal/models"
)

const (
	cacheKeyPrefix  = "sentiment:review:v1:"
	DefaultCacheTTL = 24 * time.Hour
)

// Cache stores serialized review results.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// NopCache never stores anything.
type NopCache struct{}

func (NopCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (NopCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

// ValkeyConfig holds the connection settings for ValkeyCache.
type ValkeyConfig struct {
	Address  string
	Password string
	TLS      bool
}

// ValkeyCache is a Cache backed by Valkey.
type ValkeyCache struct {
	client valkey.Client
}

// NewValkeyCache connects and pings the server.
func NewValkeyCache(ctx context.Context, cfg ValkeyConfig) (*ValkeyCache, error) {
	opts := valkey.ClientOption{
		InitAddress:      []string{cfg.Address},
		Password:         cfg.Password,
		ConnWriteTimeout: 5 * time.Second,
		SelectDB:         0,
	}
	if cfg.TLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	client, err := valkey.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create valkey client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping valkey: %w", err)
	}

	return &ValkeyCache{client: client}, nil
}

func (c *ValkeyCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := c.client.Do(ctx, c.client.B().Get().Key(key).Build()).AsBytes()
	if valkey.IsValkeyNil(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (c *ValkeyCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	seconds := int64(ttl / time.Second)
	if seconds < 1 {
		seconds = 1
	}
	cmd := c.client.B().Setex().Key(key).Seconds(seconds).Value(valkey.BinaryString(value)).Build()
	return c.client.Do(ctx, cmd).Error()
}

func (c *ValkeyCache) Close() {
	c.client.Close()
}

// CachedAnalyzer memoizes single-review results. Cache failures never fail
// an analysis.
type CachedAnalyzer struct {
	next  Analyzer
	cache Cache
	ttl   time.Duration
}

func NewCachedAnalyzer(next Analyzer, cache Cache, ttl time.Duration) *CachedAnalyzer {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedAnalyzer{next: next, cache: cache, ttl: ttl}
}

func (ca *CachedAnalyzer) AnalyzeReview(ctx context.Context, review string) (*models.ReviewResult, error) {
	key := CacheKey(review)

	if raw, ok, err := ca.cache.Get(ctx, key); err != nil {
		slog.Warn("cache read failed", slog.String("key", key), slog.Any("error", err))
	} else if ok {
		var cached models.ReviewResult
		if err := json.Unmarshal(raw, &cached); err == nil {
			cached.Review = review
			return &cached, nil
		}
	}

	result, err := ca.next.AnalyzeReview(ctx, review)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(result); err == nil {
		if err := ca.cache.Set(ctx, key, raw, ca.ttl); err != nil {
			slog.Warn("cache write failed", slog.String("key", key), slog.Any("error", err))
		}
	}
	return result, nil
}

// AnalyzeCSV is not cached: uploads are analyzed once and kept in history.
func (ca *CachedAnalyzer) AnalyzeCSV(ctx context.Context, filename string, r io.Reader) (*models.BatchResult, error) {
	return ca.next.AnalyzeCSV(ctx, filename, r)
}

// CacheKey derives the cache key of a review from its whitespace-normalized text.
func CacheKey(review string) string {
	normalized := strings.Join(strings.Fields(review), " ")
	sum := sha256.Sum256([]byte(normalized))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}
