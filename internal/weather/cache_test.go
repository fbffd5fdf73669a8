package weather

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/AASani29/NutriAI-sub001/internal/platform/logger"
)

func sampleSnapshot(now time.Time) *Snapshot {
	return &Snapshot{
		Location:    "DHAKA",
		Latitude:    23.8103,
		Longitude:   90.4125,
		Temperature: 33.5,
		Humidity:    78,
		WeatherCode: 2,
		Description: "Partly cloudy",
		FetchedAt:   now,
		ExpiresAt:   now.Add(30 * time.Minute),
	}
}

func exerciseCache(t *testing.T, cache Cache, key string) {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	if _, ok, err := cache.Get(ctx, key); err != nil || ok {
		t.Fatalf("empty Get: ok=%v err=%v", ok, err)
	}
	snap := sampleSnapshot(now)
	if err := cache.Set(ctx, key, snap); err != nil {
		t.Fatalf("Set: %v", err)
	}
	snap.Temperature = 99

	got, ok, err := cache.Get(ctx, key)
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if got.Temperature != 33.5 || got.Description != "Partly cloudy" || !got.ExpiresAt.Equal(now.Add(30*time.Minute)) {
		t.Fatalf("unexpected cached snapshot %+v", got)
	}

	if err := cache.Invalidate(ctx, key); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if _, ok, _ := cache.Get(ctx, key); ok {
		t.Fatalf("expected miss after Invalidate")
	}
	if err := cache.Set(ctx, key, nil); err == nil {
		t.Fatalf("expected error for nil snapshot")
	}
}

func TestMemoryCache(t *testing.T) {
	exerciseCache(t, NewMemoryCache(0), "23.8103,90.4125")
}

func TestMemoryCacheIsBounded(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	cache := newMemoryCache(time.Hour, 3)

	for i := 0; i < 5; i++ {
		key := CacheKey(10+float64(i), 90)
		if err := cache.Set(ctx, key, sampleSnapshot(base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("Set %s: %v", key, err)
		}
	}
	if got := cache.size(); got != 3 {
		t.Fatalf("expected 3 entries, got %d", got)
	}
	// The oldest fetches are evicted first.
	for i, want := range []bool{false, false, true, true, true} {
		if _, ok, _ := cache.Get(ctx, CacheKey(10+float64(i), 90)); ok != want {
			t.Fatalf("entry %d present=%v want %v", i, ok, want)
		}
	}

	// Overwriting a key at capacity does not evict anything.
	if err := cache.Set(ctx, CacheKey(14, 90), sampleSnapshot(base.Add(5*time.Minute))); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if got := cache.size(); got != 3 {
		t.Fatalf("overwrite changed size to %d", got)
	}

	// A write far past expiry plus retention sweeps every older entry.
	late := base.Add(3 * time.Hour)
	if err := cache.Set(ctx, "fresh", sampleSnapshot(late)); err != nil {
		t.Fatalf("late Set: %v", err)
	}
	if got := cache.size(); got != 1 {
		t.Fatalf("expected expired entries swept, got %d", got)
	}
	if _, ok, _ := cache.Get(ctx, "fresh"); !ok {
		t.Fatalf("fresh entry missing")
	}
}

func TestRedisCache(t *testing.T) {
	addr := strings.TrimSpace(os.Getenv("TEST_REDIS_ADDR"))
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	cache, err := NewRedisCache(logger.Nop(), addr, time.Hour)
	if err != nil {
		t.Fatalf("NewRedisCache: %v", err)
	}
	rc := cache.(*redisCache)
	t.Cleanup(func() { _ = rc.Close() })

	key := "test:" + time.Now().Format(time.RFC3339Nano)
	exerciseCache(t, cache, key)

	// Expired snapshots stay readable for the retention window.
	old := sampleSnapshot(time.Now().Add(-2 * time.Hour))
	if err := cache.Set(context.Background(), key, old); err != nil {
		t.Fatalf("Set expired: %v", err)
	}
	ttl, err := rc.rdb.TTL(context.Background(), redisKeyPrefix+key).Result()
	if err != nil {
		t.Fatalf("TTL: %v", err)
	}
	if ttl <= 0 || ttl > time.Hour {
		t.Fatalf("unexpected retention ttl %v", ttl)
	}
	_ = cache.Invalidate(context.Background(), key)
}

func TestNewRedisCacheRequiresAddr(t *testing.T) {
	if _, err := NewRedisCache(logger.Nop(), " ", time.Hour); err == nil {
		t.Fatalf("expected error for empty addr")
	}
	if _, err := NewRedisCache(nil, "localhost:6379", time.Hour); err == nil {
		t.Fatalf("expected error for nil logger")
	}
}
