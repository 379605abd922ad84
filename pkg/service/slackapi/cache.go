package slackapi

import (
	"strings"
	"time"
)

// cacheEntry holds one cached API response with expiration
type cacheEntry struct {
	value     any
	expiresAt time.Time
}

func cacheKey(endpoint string, params ...string) string {
	if len(params) == 0 {
		return endpoint
	}
	return endpoint + "?" + strings.Join(params, "&")
}

func (c *client) lookup(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.cache[key]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.value, true
}

func (c *client) store(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache[key] = cacheEntry{
		value:     value,
		expiresAt: time.Now().Add(c.cacheTTL),
	}
}
