package cache

import (
	"context"
	"strings"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// memoryStore implements Store in process memory.
// It serves as the test double for the Redis store and as a degraded-mode
// fallback when Redis is unreachable at startup.
type memoryStore struct {
	cache *ttlcache.Cache[string, []byte]
	ttl   time.Duration
}

// NewMemoryStore returns an in-memory Store with the given fixed TTL.
func NewMemoryStore(ttl time.Duration) Store {
	if ttl <= 0 {
		ttl = time.Hour
	}
	c := ttlcache.New[string, []byte](
		ttlcache.WithTTL[string, []byte](ttl),
		// Reads must not extend an entry's lifetime; the TTL bounds staleness.
		ttlcache.WithDisableTouchOnHit[string, []byte](),
	)
	go c.Start()
	return &memoryStore{cache: c, ttl: ttl}
}

func (s *memoryStore) Set(ctx context.Context, key string, value []byte) error {
	s.cache.Set(key, value, s.ttl)
	return nil
}

func (s *memoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	item := s.cache.Get(key)
	if item == nil || item.IsExpired() {
		return nil, ErrCacheMiss
	}
	return item.Value(), nil
}

func (s *memoryStore) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		s.cache.Delete(key)
	}
	return nil
}

func (s *memoryStore) DeleteByPrefix(ctx context.Context, prefix string) error {
	for _, key := range s.cache.Keys() {
		if strings.HasPrefix(key, prefix) {
			s.cache.Delete(key)
		}
	}
	return nil
}
