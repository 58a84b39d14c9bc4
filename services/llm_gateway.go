// services/llm_gateway.go
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rankscope/rankscope-backend/internal/logger"
)

// LLMGateway wraps provider calls with retry and response caching. The
// extraction and keyword-generation paths go through it; the direct SERP
// fetch path calls providers without retries on purpose, since the batch
// driver already skips failed pairs and retries them on the next run.
type LLMGateway struct {
	cache      *ResponseCache
	maxRetries int
	baseDelay  time.Duration
	log        *logger.Logger
}

func NewLLMGateway(cacheTTL time.Duration, log *logger.Logger) *LLMGateway {
	return &LLMGateway{
		cache:      NewResponseCache(cacheTTL),
		maxRetries: 3,
		baseDelay:  time.Second,
		log:        log.With("service", "LLMGateway"),
	}
}

// Fetch returns a cached response when available, otherwise calls the
// provider with up to maxRetries attempts and doubling backoff. Errors
// are never cached.
func (g *LLMGateway) Fetch(ctx context.Context, provider AIProvider, prompt string) (*FetchResult, error) {
	key := CacheKey(provider, prompt)
	if result, ok := g.cache.Get(key); ok {
		g.log.Debug("cache hit", "provider", provider.Name())
		return result, nil
	}

	var lastErr error
	delay := g.baseDelay
	for attempt := 1; attempt <= g.maxRetries; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		result, err := provider.Fetch(ctx, prompt)
		if err == nil {
			g.cache.Set(key, result)
			return result, nil
		}
		lastErr = err
		g.log.Warn("provider call failed", "provider", provider.Name(), "attempt", attempt, "error", err)
	}

	return nil, fmt.Errorf("all %d attempts failed: %w", g.maxRetries, lastErr)
}
