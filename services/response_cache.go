// services/response_cache.go
package services

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"
)

// ResponseCache is an in-memory TTL cache for LLM responses. Each
// instance owns its own entries; the TTL is fixed at construction.
type ResponseCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]cacheEntry
}

type cacheEntry struct {
	result    *FetchResult
	expiresAt time.Time
}

func NewResponseCache(ttl time.Duration) *ResponseCache {
	return &ResponseCache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
	}
}

func (c *ResponseCache) Get(key string) (*FetchResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return entry.result, true
}

func (c *ResponseCache) Set(key string, result *FetchResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{
		result:    result,
		expiresAt: time.Now().Add(c.ttl),
	}
}

func (c *ResponseCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// CacheKey identifies a call by provider, model, temperature and prompt,
// so the same prompt against a different model is a different entry.
func CacheKey(provider AIProvider, prompt string) string {
	raw := fmt.Sprintf("%s|%s|%g|%s", provider.Name(), provider.Model(), provider.Temperature(), prompt)
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
