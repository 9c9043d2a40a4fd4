// Package anscache caches generated answers in Redis, keyed by the exact
// (model, query, context) triple. Generation is the slow, metered part of a
// request; identical questions against an unchanged corpus produce identical
// context, so replaying the cached answer is safe.
package anscache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/rueidis"
	"go.uber.org/zap"

	"github.com/kailas-cloud/docqa/internal/metrics"
	"github.com/kailas-cloud/docqa/internal/usecase/retrieval"
)

const keyPrefix = "docqa:answer:"

// ErrNotCached signals a cache miss.
var ErrNotCached = errors.New("answer not cached")

// Store is the key-value surface the cache needs from Redis.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error
}

// RedisStore implements Store via rueidis.
type RedisStore struct {
	client rueidis.Client
}

// NewRedisStore connects to Redis.
func NewRedisStore(addrs []string, password string) (*RedisStore, error) {
	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  addrs,
		Password:     password,
		DisableCache: true,
	})
	if err != nil {
		return nil, fmt.Errorf("create redis client: %w", err)
	}
	return &RedisStore{client: client}, nil
}

// Get retrieves a cached value. A missing key is reported as ErrNotCached.
func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	v, err := s.client.Do(ctx, s.client.B().Get().Key(key).Build()).ToString()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return "", ErrNotCached
		}
		return "", fmt.Errorf("get %s: %w", key, err)
	}
	return v, nil
}

// SetWithTTL stores a value with an expiration.
func (s *RedisStore) SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error {
	cmd := s.client.B().Set().Key(key).Value(value).Ex(ttl).Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Ping checks connectivity.
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Do(ctx, s.client.B().Ping().Build()).Error(); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Close shuts down the client.
func (s *RedisStore) Close() {
	s.client.Close()
}

// CachedGenerator decorates a generator with a Redis-backed answer cache.
// Cache failures are logged and fall through to the inner generator; the
// cache can only make requests cheaper, never fail them.
type CachedGenerator struct {
	inner  retrieval.Generator
	store  Store
	model  string
	ttl    time.Duration
	logger *zap.Logger
}

// New creates a caching decorator around gen.
func New(gen retrieval.Generator, store Store, model string, ttl time.Duration, logger *zap.Logger) *CachedGenerator {
	return &CachedGenerator{
		inner:  gen,
		store:  store,
		model:  model,
		ttl:    ttl,
		logger: logger,
	}
}

// Generate returns a cached answer or calls the inner generator.
func (c *CachedGenerator) Generate(ctx context.Context, query, docContext string) (string, error) {
	key := c.cacheKey(query, docContext)

	if answer, ok := c.getFromCache(ctx, key); ok {
		metrics.AnswerCacheTotal.WithLabelValues("hit").Inc()
		return answer, nil
	}
	metrics.AnswerCacheTotal.WithLabelValues("miss").Inc()

	answer, err := c.inner.Generate(ctx, query, docContext)
	if err != nil {
		return "", fmt.Errorf("generate answer: %w", err)
	}

	c.putToCache(ctx, key, answer)
	return answer, nil
}

func (c *CachedGenerator) cacheKey(query, docContext string) string {
	h := sha256.New()
	h.Write([]byte(c.model))
	h.Write([]byte{0})
	h.Write([]byte(query))
	h.Write([]byte{0})
	h.Write([]byte(docContext))
	return keyPrefix + hex.EncodeToString(h.Sum(nil))
}

func (c *CachedGenerator) getFromCache(ctx context.Context, key string) (string, bool) {
	answer, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotCached) {
			c.logger.Warn("Failed to read cached answer", zap.String("key", key), zap.Error(err))
		}
		return "", false
	}
	if answer == "" {
		return "", false
	}
	return answer, true
}

func (c *CachedGenerator) putToCache(ctx context.Context, key, answer string) {
	if err := c.store.SetWithTTL(ctx, key, answer, c.ttl); err != nil {
		c.logger.Warn("Failed to cache answer", zap.String("key", key), zap.Error(err))
	}
}
