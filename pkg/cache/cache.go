package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/arnavshah/vendor-match-api/pkg/config"
	"github.com/arnavshah/vendor-match-api/pkg/models"
	"github.com/arnavshah/vendor-match-api/pkg/scorer"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "vendor-match:ranking:"

// RankingCache stores ranked results keyed by a hash of the ranking input.
type RankingCache interface {
	Get(ctx context.Context, key string) ([]models.ScoredVendor, bool, error)
	Set(ctx context.Context, key string, ranked []models.ScoredVendor) error
	Ping(ctx context.Context) error
	Close() error
}

// Key hashes the scorer configuration, requirements and vendor list. Two
// requests share a key only when they would produce the same ranking.
func Key(cfg scorer.Config, req models.WeddingRequirements, vendors []models.VendorCandidate) (string, error) {
	payload, err := json.Marshal(struct {
		Cfg     scorer.Config              `json:"c"`
		Req     models.WeddingRequirements `json:"r"`
		Vendors []models.VendorCandidate   `json:"v"`
	}{cfg, req, vendors})
	if err != nil {
		return "", fmt.Errorf("encode cache key: %w", err)
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}

// RedisCache keeps rankings in Redis with a fixed TTL
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis creates a Redis-backed cache
func NewRedis(cfg config.RedisConfig) *RedisCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})
	return &RedisCache{client: rdb, ttl: cfg.CacheTTL}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]models.ScoredVendor, bool, error) {
	raw, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}

	var ranked []models.ScoredVendor
	if err := json.Unmarshal(raw, &ranked); err != nil {
		return nil, false, fmt.Errorf("decode cached ranking: %w", err)
	}
	return ranked, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, ranked []models.ScoredVendor) error {
	raw, err := json.Marshal(ranked)
	if err != nil {
		return fmt.Errorf("encode ranking: %w", err)
	}
	if err := c.client.Set(ctx, keyPrefix+key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Ping tests the Redis connection
func (c *RedisCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// Noop is used when no Redis address is configured. Every lookup misses.
type Noop struct{}

func (Noop) Get(context.Context, string) ([]models.ScoredVendor, bool, error) {
	return nil, false, nil
}

func (Noop) Set(context.Context, string, []models.ScoredVendor) error { return nil }
func (Noop) Ping(context.Context) error                               { return nil }
func (Noop) Close() error                                             { return nil }

// New returns a Redis cache when an address is configured, otherwise Noop.
func New(cfg config.RedisConfig) RankingCache {
	if cfg.Address == "" {
		return Noop{}
	}
	return NewRedis(cfg)
}
