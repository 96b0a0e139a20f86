// Package cache provides the shared key-value cache store.
//
// The Store interface exposes point lookups, writes with a fixed TTL, key
// deletion and prefix-based bulk deletion. Cache keys follow the logical
// resource path of the cached object ("/menus", "/menus/{id}/submenus", ...),
// so deleting by a menu's path prefix evicts everything cached beneath it.
//
// Two implementations exist: a Redis-backed store for normal operation and
// an in-memory store (ttlcache) used in tests and as a fallback when Redis
// is down. The fixed TTL is a safety net that bounds the lifetime of any
// entry a missed invalidation leaves behind; it is not the primary
// consistency mechanism.
package cache
