package cache

import (
	"errors"
	"sync"
	"time"
)

// ErrMiss is returned by MemoryCache.Get for an unknown or expired key.
var ErrMiss = errors.New("cache: miss")

// MemoryCache implements domain.Cache in process memory, for tests and
// redis-less deployments.
type MemoryCache struct {
	mu    sync.Mutex
	items map[string]memoryItem
}

type memoryItem struct {
	value     []byte
	expiresAt time.Time
}

func (i memoryItem) expired() bool {
	return !i.expiresAt.IsZero() && time.Now().After(i.expiresAt)
}

// NewMemory creates an empty cache.
func NewMemory() *MemoryCache {
	return &MemoryCache{items: make(map[string]memoryItem)}
}

// Once runs fn only if the key is not set yet. A failing fn releases the
// key again.
func (c *MemoryCache) Once(key string, ttl time.Duration, fn func() error) error {
	c.mu.Lock()
	if item, ok := c.items[key]; ok && !item.expired() {
		c.mu.Unlock()
		return nil
	}
	c.items[key] = memoryItem{value: []byte("1"), expiresAt: expiry(ttl)}
	c.mu.Unlock()

	if err := fn(); err != nil {
		c.mu.Lock()
		delete(c.items, key)
		c.mu.Unlock()
		return err
	}
	return nil
}

// Set stores a value.
func (c *MemoryCache) Set(key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = memoryItem{value: value, expiresAt: expiry(ttl)}
	return nil
}

// Get returns a value or ErrMiss.
func (c *MemoryCache) Get(key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	item, ok := c.items[key]
	if !ok || item.expired() {
		delete(c.items, key)
		return nil, ErrMiss
	}
	return item.value, nil
}

func expiry(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return time.Now().Add(ttl)
}
