// Package cache stores computed analyses in Redis, keyed by snapshot fingerprint.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jonathan/career-guide/internal/logging"
	"github.com/jonathan/career-guide/internal/types"
)

// KeyPrefix namespaces analysis entries.
const KeyPrefix = "career:analysis:"

const connectTimeout = 5 * time.Second

// RedisCache is a disposable analysis cache. Entries expire after ttl and are
// never treated as a source of truth.
type RedisCache struct {
	rdb *goredis.Client
	ttl time.Duration
	log *logging.Logger
}

// NewRedisCache connects to addr and verifies the connection with a ping.
func NewRedisCache(ctx context.Context, addr string, ttl time.Duration, log *logging.Logger) (*RedisCache, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, fmt.Errorf("missing redis address")
	}
	if log == nil {
		log = logging.Nop()
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: connectTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisCache{
		rdb: rdb,
		ttl: ttl,
		log: log.With("service", "RedisCache"),
	}, nil
}

// Key returns the Redis key for a fingerprint.
func Key(fingerprint string) string {
	return KeyPrefix + fingerprint
}

// Get returns the cached analysis, or nil, nil on a miss.
func (c *RedisCache) Get(ctx context.Context, fingerprint string) (*types.CareerAnalysis, error) {
	raw, err := c.rdb.Get(ctx, Key(fingerprint)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var analysis types.CareerAnalysis
	if err := json.Unmarshal(raw, &analysis); err != nil {
		// A corrupt entry is dropped and treated as a miss.
		c.log.Warn("dropping undecodable cache entry", "key", Key(fingerprint), "error", err)
		_ = c.rdb.Del(ctx, Key(fingerprint)).Err()
		return nil, nil
	}
	return &analysis, nil
}

// Set stores an analysis under fingerprint.
func (c *RedisCache) Set(ctx context.Context, fingerprint string, analysis *types.CareerAnalysis) error {
	raw, err := json.Marshal(analysis)
	if err != nil {
		return fmt.Errorf("encode analysis: %w", err)
	}
	if err := c.rdb.Set(ctx, Key(fingerprint), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (c *RedisCache) Close() error {
	return c.rdb.Close()
}
