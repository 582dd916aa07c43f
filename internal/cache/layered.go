package cache

import "time"

// LayeredCache reads through a fast front cache to a slower back cache
// and writes to both
type LayeredCache struct {
	front Cache
	back  Cache
}

// NewLayeredCache stacks front over back
func NewLayeredCache(front, back Cache) *LayeredCache {
	return &LayeredCache{front: front, back: back}
}

// Get checks front, then back. Back hits are copied to front with its default TTL.
func (c *LayeredCache) Get(key string) ([]byte, bool) {
	if val, found := c.front.Get(key); found {
		return val, true
	}
	val, found := c.back.Get(key)
	if !found {
		return nil, false
	}
	_ = c.front.Set(key, val, 0)
	return val, true
}

func (c *LayeredCache) Set(key string, value []byte, ttl time.Duration) error {
	if err := c.front.Set(key, value, ttl); err != nil {
		return err
	}
	return c.back.Set(key, value, ttl)
}

func (c *LayeredCache) Delete(key string) error {
	_ = c.front.Delete(key)
	return c.back.Delete(key)
}

func (c *LayeredCache) Purge(namespace string) error {
	_ = c.front.Purge(namespace)
	return c.back.Purge(namespace)
}

func (c *LayeredCache) Clear() error {
	_ = c.front.Clear()
	return c.back.Clear()
}
