package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by Get when the key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

// Store defines the interface for the key-value cache.
//
// Keys are logical resource paths (e.g. "/menus/{id}/submenus"), which makes
// DeleteByPrefix a correct way to evict every cached object beneath a node of
// the menu hierarchy in one call. Values are opaque serialized payloads.
// Every entry expires after the store's fixed TTL.
type Store interface {
	// Set stores a value under key with the store's TTL.
	Set(ctx context.Context, key string, value []byte) error
	// Get returns the value for key, or ErrCacheMiss.
	Get(ctx context.Context, key string) ([]byte, error)
	// Delete removes the given keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
	// DeleteByPrefix removes every key that starts with prefix.
	DeleteByPrefix(ctx context.Context, prefix string) error
}

// Config holds configuration for the cache store.
type Config struct {
	// Addr is the Redis address (host:port).
	Addr string `mapstructure:"addr" default:"localhost:6379"`
	// Password is the Redis password.
	Password string `mapstructure:"password" default:""`
	// DB is the Redis database index.
	DB int `mapstructure:"db" default:"0"`
	// TTLSeconds is the fixed expiration applied to every entry.
	// It bounds how long a missed invalidation can serve stale data.
	TTLSeconds int `mapstructure:"ttl_seconds" default:"3600"`
}

// TTL returns the configured entry TTL as a duration.
func (c Config) TTL() time.Duration {
	if c.TTLSeconds <= 0 {
		return time.Hour
	}
	return time.Duration(c.TTLSeconds) * time.Second
}
