package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "geocode:"

type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type memoryEntry struct {
	value   []byte
	expires time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expires.IsZero() && now.After(e.expires)
}

type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (mc *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	mc.mu.RLock()
	e, ok := mc.entries[key]
	mc.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if e.expired(mc.now()) {
		mc.mu.Lock()
		// a Set may have replaced the entry since the read lock was released
		if cur, ok := mc.entries[key]; ok && cur.expired(mc.now()) {
			delete(mc.entries, key)
		}
		mc.mu.Unlock()
		return nil, false, nil
	}
	return e.value, true, nil
}

func (mc *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	e := memoryEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expires = mc.now().Add(ttl)
	}
	mc.mu.Lock()
	mc.entries[key] = e
	mc.mu.Unlock()
	return nil
}

type RedisCache struct {
	rdb *redis.Client
}

func NewRedisCache(rdb *redis.Client) *RedisCache {
	return &RedisCache{rdb: rdb}
}

func (rc *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := rc.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return b, true, nil
}

func (rc *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := rc.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// CachedGeocoder remembers answers, including "no match", for ttl. Provider
// errors are never cached and cache failures only cost a lookup.
type CachedGeocoder struct {
	next   Geocoder
	cache  Cache
	ttl    time.Duration
	logger *slog.Logger
}

func NewCachedGeocoder(next Geocoder, cache Cache, ttl time.Duration, logger *slog.Logger) *CachedGeocoder {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedGeocoder{next: next, cache: cache, ttl: ttl, logger: logger}
}

func (cg *CachedGeocoder) Forward(ctx context.Context, query string) (*Result, error) {
	key := keyPrefix + "fwd:" + strings.ToLower(strings.Join(strings.Fields(query), " "))
	return cg.cached(ctx, key, func() (*Result, error) {
		return cg.next.Forward(ctx, query)
	})
}

func (cg *CachedGeocoder) Reverse(ctx context.Context, lat, lng float64) (*Result, error) {
	key := fmt.Sprintf("%srev:%.5f,%.5f", keyPrefix, lat, lng)
	return cg.cached(ctx, key, func() (*Result, error) {
		return cg.next.Reverse(ctx, lat, lng)
	})
}

func (cg *CachedGeocoder) cached(ctx context.Context, key string, lookup func() (*Result, error)) (*Result, error) {
	raw, ok, err := cg.cache.Get(ctx, key)
	if err != nil {
		cg.logger.Warn("geocode cache read failed", "key", key, "error", err)
	}
	if ok {
		var res *Result
		if err := json.Unmarshal(raw, &res); err == nil {
			return res, nil
		}
	}

	res, err := lookup()
	if err != nil {
		return nil, err
	}

	raw, err = json.Marshal(res)
	if err != nil {
		return res, nil
	}
	if err := cg.cache.Set(ctx, key, raw, cg.ttl); err != nil && !errors.Is(err, context.Canceled) {
		cg.logger.Warn("geocode cache write failed", "key", key, "error", err)
	}
	return res, nil
}
