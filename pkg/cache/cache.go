// pkg/cache/cache.go
package cache

import (
	"sync"
	"time"
)

type Item struct {
	Value      interface{}
	Expiration int64
}

func (i Item) expired(now int64) bool {
	return i.Expiration > 0 && now > i.Expiration
}

type Cache struct {
	items map[string]Item
	mu    sync.RWMutex
	stop  chan struct{}
	once  sync.Once
}

func NewCache() *Cache {
	cache := &Cache{
		items: make(map[string]Item),
		stop:  make(chan struct{}),
	}
	go cache.startGC(time.Minute)
	return cache
}

// Set stores value; a non-positive duration never expires.
func (c *Cache) Set(key string, value interface{}, duration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = newItem(value, duration)
}

// Add stores value only when key is absent or expired and reports whether it did.
func (c *Cache) Add(key string, value interface{}, duration time.Duration) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if item, found := c.items[key]; found && !item.expired(time.Now().UnixNano()) {
		return false
	}
	c.items[key] = newItem(value, duration)
	return true
}

func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, found := c.items[key]
	if !found {
		return nil, false
	}

	if item.expired(time.Now().UnixNano()) {
		return nil, false
	}

	return item.Value, true
}

func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// Close stops the expiry sweeper.
func (c *Cache) Close() {
	c.once.Do(func() { close(c.stop) })
}

func newItem(value interface{}, duration time.Duration) Item {
	var expiration int64
	if duration > 0 {
		expiration = time.Now().Add(duration).UnixNano()
	}
	return Item{Value: value, Expiration: expiration}
}

func (c *Cache) startGC(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
		}
		now := time.Now().UnixNano()
		c.mu.Lock()
		for k, v := range c.items {
			if v.expired(now) {
				delete(c.items, k)
			}
		}
		c.mu.Unlock()
	}
}
