package veloxq

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Cache is the interface for caching query results.
// Users should implement this interface with their preferred caching solution
// (e.g., Redis, Memcached, in-memory).
type Cache interface {
	// Get retrieves a value from the cache.
	// Returns nil, nil if the key doesn't exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in the cache with an optional TTL.
	// If ttl is 0, the value should not expire.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value from the cache.
	Delete(ctx context.Context, key string) error

	// DeletePrefix removes all values with the given prefix.
	DeletePrefix(ctx context.Context, prefix string) error

	// Clear removes all values from the cache.
	Clear(ctx context.Context) error
}

// CacheKeyPrefix prefixes every key produced by CacheKey.
const CacheKeyPrefix = "veloxq:"

// CacheKey identifies the result of a rendered statement.
type CacheKey struct {
	Dialect string
	Query   string
	Args    []any
}

// String returns the readable form of the key.
func (k CacheKey) String() string {
	return k.Dialect + ":" + k.Query
}

// Hash returns the cache key: the dialect followed by a digest of the
// query and its msgpack encoded arguments.
func (k CacheKey) Hash() (string, error) {
	args, err := msgpack.Marshal(k.Args)
	if err != nil {
		return "", err
	}
	h := sha256.New()
	h.Write([]byte(k.Query))
	h.Write([]byte{0})
	h.Write(args)
	return CacheKeyPrefix + k.Dialect + ":" + hex.EncodeToString(h.Sum(nil)), nil
}

// MemoryCache is an in-memory Cache.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	now     func() time.Time
}

type cacheEntry struct {
	value   []byte
	expires time.Time
}

func (e cacheEntry) expired(now time.Time) bool {
	return !e.expires.IsZero() && !now.Before(e.expires)
}

// NewMemoryCache returns an empty in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]cacheEntry), now: time.Now}
}

// Get implements Cache.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	if !e.expired(c.now()) {
		return e.value, nil
	}
	// The entry may have been replaced since the read lock was released.
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok = c.entries[key]
	switch {
	case !ok:
		return nil, nil
	case e.expired(c.now()):
		delete(c.entries, key)
		return nil, nil
	default:
		return e.value, nil
	}
}

// Set implements Cache.
func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	e := cacheEntry{value: value}
	if ttl > 0 {
		e.expires = c.now().Add(ttl)
	}
	c.mu.Lock()
	c.entries[key] = e
	c.mu.Unlock()
	return nil
}

// Delete implements Cache.
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}

// DeletePrefix implements Cache.
func (c *MemoryCache) DeletePrefix(_ context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
		}
	}
	return nil
}

// Clear implements Cache.
func (c *MemoryCache) Clear(context.Context) error {
	c.mu.Lock()
	clear(c.entries)
	c.mu.Unlock()
	return nil
}

// Len returns the number of cached entries, expired ones included.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

var _ Cache = (*MemoryCache)(nil)
