// Package cache provides byte-level caching backends for API responses.
//
// # Overview
//
// Size histories fetched from bundlephobia change rarely, so the HTTP layer
// can keep them across runs. [Cache] is the storage contract; backends are
//
//   - [FileCache]: JSON files under ~/.cache/bundlephobia-compare (CLI default)
//   - [RedisCache]: a shared Redis (or compatible) server
//   - [MongoCache]: a MongoDB collection with per-entry expiry
//   - [NullCache]: stores nothing (--no-cache)
//
// This cache sits below the per-session size-history store: a session never
// asks for the same package twice, and this cache decides whether that one
// request reaches the network.
//
// # Keys
//
// Keys are built by a [Keyer] so that every backend sees the same key space:
//
//	k := cache.NewDefaultKeyer()
//	k.HTTPKey("bundlephobia:", "react") // "http:bundlephobia::react"
//
// # Retries
//
// [RetryWithBackoff] retries functions whose errors are wrapped with
// [Retryable]; it lives here because the cache-or-fetch helper in
// integrations is its only caller.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values under string keys with an optional TTL.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil); expired
	// entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer generates cache keys.
type Keyer interface {
	// HTTPKey returns the key for a cached HTTP response in namespace.
	HTTPKey(namespace, key string) string
}

// DefaultKeyer builds plain "http:<namespace>:<key>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// HTTPKey implements [Keyer].
func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}
