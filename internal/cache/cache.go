// Package cache provides 2-tier caching for computed recommendations:
// L1 in-memory with TTL, plus an optional L2 Redis tier that survives restarts.
package cache

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/jonathan/skilltree-advisor/internal/logging"
)

// Defaults for recommendation caching.
const (
	DefaultTTL             = time.Hour
	DefaultCleanupInterval = 10 * time.Minute

	recommendationsPrefix = "recommendations:"
)

// RecommendationsKey is the cache key for a student's recommendations.
func RecommendationsKey(studentID string) string {
	return recommendationsPrefix + studentID
}

// Options configures a Tiered cache.
type Options struct {
	// RedisURL enables the L2 tier. Empty disables it.
	RedisURL string
	TTL      time.Duration
	// MaxEntries bounds L1. Zero means unbounded.
	MaxEntries      int
	CleanupInterval time.Duration
	Logger          *zap.Logger
}

// Tiered implements L1 (memory) + L2 (Redis) caching.
type Tiered struct {
	l1         sync.Map // key -> *entry
	size       atomic.Int64
	rdb        *redis.Client
	ttl        time.Duration
	maxEntries int
	logger     *zap.Logger

	hits   atomic.Int64
	misses atomic.Int64

	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

type entry struct {
	data      []byte
	expiresAt time.Time
}

// New builds a cache and starts its L1 cleanup loop. An unreachable or invalid
// Redis URL disables L2 with a warning rather than failing.
func New(ctx context.Context, opts Options) *Tiered {
	logger := logging.OrNop(opts.Logger)
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	c := &Tiered{
		ttl:        ttl,
		maxEntries: opts.MaxEntries,
		logger:     logger,
		stop:       make(chan struct{}),
	}

	if opts.RedisURL != "" {
		c.rdb = connectRedis(ctx, opts.RedisURL, logger)
	}

	logger.Info("cache initialized",
		zap.Duration("ttl", ttl),
		zap.Bool("redis", c.rdb != nil),
		zap.Int("max_entries", opts.MaxEntries),
	)

	interval := opts.CleanupInterval
	if interval <= 0 {
		interval = DefaultCleanupInterval
	}
	c.wg.Add(1)
	go c.cleanupLoop(interval)

	return c
}

func connectRedis(ctx context.Context, redisURL string, logger *zap.Logger) *redis.Client {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		logger.Warn("invalid redis URL, L2 disabled", zap.Error(err))
		return nil
	}

	rdb := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis unreachable, L2 disabled", zap.Error(err))
		_ = rdb.Close()
		return nil
	}

	logger.Info("L2 redis connected", zap.String("addr", opts.Addr))
	return rdb
}

// Get tries L1, then L2. An L2 hit repopulates L1.
func (c *Tiered) Get(ctx context.Context, key string) ([]byte, bool) {
	if val, ok := c.l1.Load(key); ok {
		e := val.(*entry)
		if time.Now().Before(e.expiresAt) {
			c.hits.Add(1)
			return e.data, true
		}
		c.deleteL1(key)
	}

	if c.rdb != nil {
		data, err := c.rdb.Get(ctx, key).Bytes()
		if err == nil {
			c.hits.Add(1)
			c.storeL1(key, data)
			return data, true
		}
		if err != redis.Nil {
			c.logger.Warn("L2 get failed", zap.String("key", key), zap.Error(err))
		}
	}

	c.misses.Add(1)
	return nil, false
}

// Set stores data in both tiers.
func (c *Tiered) Set(ctx context.Context, key string, data []byte) {
	if _, exists := c.l1.Load(key); !exists {
		c.evictIfNeeded()
	}
	c.storeL1(key, data)

	if c.rdb != nil {
		if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
			c.logger.Warn("L2 set failed", zap.String("key", key), zap.Error(err))
		}
	}
}

// Delete removes key from both tiers.
func (c *Tiered) Delete(ctx context.Context, key string) {
	c.deleteL1(key)
	if c.rdb != nil {
		if err := c.rdb.Del(ctx, key).Err(); err != nil {
			c.logger.Warn("L2 delete failed", zap.String("key", key), zap.Error(err))
		}
	}
}

// Stats returns hit and miss counters.
func (c *Tiered) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Len returns the number of L1 entries, expired ones included.
func (c *Tiered) Len() int {
	return int(c.size.Load())
}

// Close stops the cleanup loop and closes the Redis client.
func (c *Tiered) Close() error {
	c.stopOnce.Do(func() { close(c.stop) })
	c.wg.Wait()
	if c.rdb != nil {
		return c.rdb.Close()
	}
	return nil
}

func (c *Tiered) storeL1(key string, data []byte) {
	if _, loaded := c.l1.Swap(key, &entry{data: data, expiresAt: time.Now().Add(c.ttl)}); !loaded {
		c.size.Add(1)
	}
}

func (c *Tiered) deleteL1(key any) {
	if _, loaded := c.l1.LoadAndDelete(key); loaded {
		c.size.Add(-1)
	}
}

// evictIfNeeded makes room for one more L1 entry. A single pass drops every
// expired entry and remembers the oldest live one, which is dropped only if
// expiry alone did not free a slot.
func (c *Tiered) evictIfNeeded() {
	if c.maxEntries <= 0 || c.Len() < c.maxEntries {
		return
	}

	now := time.Now()
	var oldestKey any
	var oldestAt time.Time
	c.l1.Range(func(key, val any) bool {
		e, ok := val.(*entry)
		if !ok {
			return true
		}
		if now.After(e.expiresAt) {
			c.deleteL1(key)
			return true
		}
		// Every entry shares the TTL, so the earliest expiry is the oldest.
		if oldestKey == nil || e.expiresAt.Before(oldestAt) {
			oldestKey, oldestAt = key, e.expiresAt
		}
		return true
	})

	if c.Len() >= c.maxEntries && oldestKey != nil {
		c.deleteL1(oldestKey)
	}
}

func (c *Tiered) cleanupLoop(interval time.Duration) {
	defer c.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.removeExpired()
		}
	}
}

func (c *Tiered) removeExpired() {
	now := time.Now()
	removed := 0
	c.l1.Range(func(key, val any) bool {
		if e, ok := val.(*entry); ok && now.After(e.expiresAt) {
			c.deleteL1(key)
			removed++
		}
		return true
	})
	if removed > 0 {
		c.logger.Debug("cache cleanup", zap.Int("removed", removed))
	}
}

// Store is the byte-level contract GetJSON and SetJSON work against.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, data []byte)
}

// GetJSON loads and decodes a cached value. Decode failures count as a miss.
func GetJSON[T any](ctx context.Context, s Store, key string) (T, bool) {
	var out T
	data, ok := s.Get(ctx, key)
	if !ok {
		return out, false
	}
	if err := json.Unmarshal(data, &out); err != nil {
		var zero T
		return zero, false
	}
	return out, true
}

// SetJSON encodes and stores a value.
func SetJSON[T any](ctx context.Context, s Store, key string, v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	s.Set(ctx, key, data)
	return nil
}
