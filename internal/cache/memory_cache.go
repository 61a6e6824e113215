package cache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value      V
	expiration time.Time
}

// MemoryCache is a TTL cache bounded to maxSize entries. When full, the entry
// closest to expiry is evicted. A background goroutine drops expired entries
// until Close is called.
type MemoryCache[V any] struct {
	data     map[string]entry[V]
	mutex    sync.RWMutex
	ttl      time.Duration
	maxSize  int
	now      func() time.Time
	stopChan chan struct{}
	stopOnce sync.Once
}

func NewMemoryCache[V any](ttl time.Duration, maxSize int) *MemoryCache[V] {
	if maxSize <= 0 {
		maxSize = 1
	}
	c := &MemoryCache[V]{
		data:     make(map[string]entry[V]),
		ttl:      ttl,
		maxSize:  maxSize,
		now:      time.Now,
		stopChan: make(chan struct{}),
	}

	cleanup := ttl / 2
	if cleanup <= 0 {
		cleanup = time.Second
	}
	go c.cleanupExpiredEntries(cleanup)

	return c
}

func (c *MemoryCache[V]) Set(key string, value V) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if _, exists := c.data[key]; !exists && len(c.data) >= c.maxSize {
		c.evictOldestEntry()
	}
	c.data[key] = entry[V]{value: value, expiration: c.now().Add(c.ttl)}
}

func (c *MemoryCache[V]) Get(key string) (V, bool) {
	c.mutex.RLock()
	e, exists := c.data[key]
	c.mutex.RUnlock()

	var zero V
	if !exists {
		return zero, false
	}
	if c.now().After(e.expiration) {
		c.Delete(key)
		return zero, false
	}
	return e.value, true
}

func (c *MemoryCache[V]) Delete(key string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.data, key)
}

func (c *MemoryCache[V]) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.data = make(map[string]entry[V])
}

func (c *MemoryCache[V]) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return len(c.data)
}

func (c *MemoryCache[V]) evictOldestEntry() {
	var oldestKey string
	var oldestTime time.Time

	for key, e := range c.data {
		if oldestKey == "" || e.expiration.Before(oldestTime) {
			oldestKey = key
			oldestTime = e.expiration
		}
	}
	if oldestKey != "" {
		delete(c.data, oldestKey)
	}
}

func (c *MemoryCache[V]) cleanupExpiredEntries(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.removeExpiredEntries()
		case <-c.stopChan:
			return
		}
	}
}

func (c *MemoryCache[V]) removeExpiredEntries() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := c.now()
	for key, e := range c.data {
		if now.After(e.expiration) {
			delete(c.data, key)
		}
	}
}

// Close stops the cleanup goroutine and empties the cache. Safe to call twice.
func (c *MemoryCache[V]) Close() {
	c.stopOnce.Do(func() { close(c.stopChan) })
	c.Clear()
}
