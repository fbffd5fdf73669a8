package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/AASani29/NutriAI-sub001/internal/platform/logger"
)

// Cache stores snapshots by CacheKey. Entries outlive their ExpiresAt so an
// expired reading can still be served when the upstream is down.
type Cache interface {
	Get(ctx context.Context, key string) (*Snapshot, bool, error)
	Set(ctx context.Context, key string, snap *Snapshot) error
	Invalidate(ctx context.Context, key string) error
}

const (
	defaultStaleRetention = 24 * time.Hour
	maxMemoryEntries      = 1024
)

// memoryCache drops entries once they are past ExpiresAt plus the retention
// window, measured against the newest write, and holds at most maxEntries.
type memoryCache struct {
	mu         sync.RWMutex
	entries    map[string]*Snapshot
	retention  time.Duration
	maxEntries int
}

func NewMemoryCache(retention time.Duration) Cache {
	return newMemoryCache(retention, maxMemoryEntries)
}

func newMemoryCache(retention time.Duration, maxEntries int) *memoryCache {
	if retention <= 0 {
		retention = defaultStaleRetention
	}
	if maxEntries <= 0 {
		maxEntries = maxMemoryEntries
	}
	return &memoryCache{entries: map[string]*Snapshot{}, retention: retention, maxEntries: maxEntries}
}

func (c *memoryCache) Get(_ context.Context, key string) (*Snapshot, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	snap, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	return snap.clone(), true, nil
}

func (c *memoryCache) Set(_ context.Context, key string, snap *Snapshot) error {
	if snap == nil {
		return fmt.Errorf("snapshot required")
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	for k, e := range c.entries {
		if e.ExpiresAt.Add(c.retention).Before(snap.FetchedAt) {
			delete(c.entries, k)
		}
	}
	if _, ok := c.entries[key]; !ok && len(c.entries) >= c.maxEntries {
		c.evictOldest()
	}
	c.entries[key] = snap.clone()
	return nil
}

func (c *memoryCache) evictOldest() {
	var oldestKey string
	var oldest time.Time
	for k, e := range c.entries {
		if oldestKey == "" || e.FetchedAt.Before(oldest) {
			oldestKey, oldest = k, e.FetchedAt
		}
	}
	delete(c.entries, oldestKey)
}

func (c *memoryCache) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *memoryCache) Invalidate(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}

const redisKeyPrefix = "weather:snapshot:"

type redisCache struct {
	log       *logger.Logger
	rdb       *goredis.Client
	retention time.Duration
	now       func() time.Time
}

// NewRedisCache dials addr and pings it before returning.
func NewRedisCache(log *logger.Logger, addr string, retention time.Duration) (Cache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return newRedisCache(log, rdb, retention, time.Now), nil
}

func newRedisCache(log *logger.Logger, rdb *goredis.Client, retention time.Duration, now func() time.Time) *redisCache {
	if retention <= 0 {
		retention = defaultStaleRetention
	}
	return &redisCache{
		log:       log.With("service", "WeatherRedisCache"),
		rdb:       rdb,
		retention: retention,
		now:       now,
	}
}

func (c *redisCache) Get(ctx context.Context, key string) (*Snapshot, bool, error) {
	raw, err := c.rdb.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		c.log.Warn("bad cached weather payload, dropping", "key", key, "error", err)
		_ = c.rdb.Del(ctx, redisKeyPrefix+key).Err()
		return nil, false, nil
	}
	return &snap, true, nil
}

func (c *redisCache) Set(ctx context.Context, key string, snap *Snapshot) error {
	if snap == nil {
		return fmt.Errorf("snapshot required")
	}
	raw, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	ttl := snap.ExpiresAt.Sub(c.now()) + c.retention
	if ttl <= 0 {
		ttl = c.retention
	}
	return c.rdb.Set(ctx, redisKeyPrefix+key, raw, ttl).Err()
}

func (c *redisCache) Invalidate(ctx context.Context, key string) error {
	return c.rdb.Del(ctx, redisKeyPrefix+key).Err()
}

// Close releases the underlying connection pool.
func (c *redisCache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
