package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/strand-media/enricher/internal/core/domain"
	"github.com/strand-media/enricher/internal/core/ports/driven"
	"github.com/strand-media/enricher/internal/retry"
)

// Ensure AuthCache implements the AuthProvider interface.
var _ driven.AuthProvider = (*AuthCache)(nil)

// AuthCache caches auth results per cache key until the expiry buffer
// window opens, re-authenticating through the retry executor on miss.
//
// A stale read racing an Invalidate is acceptable: the rejected request
// comes back through Invalidate + Get and re-authenticates.
type AuthCache struct {
	retryCfg retry.Config
	now      func() time.Time

	mu    sync.RWMutex
	cache map[string]domain.CachedAuth
}

// NewAuthCache creates a cache whose authentication attempts run under
// the given retry policy.
func NewAuthCache(retryCfg retry.Config) *AuthCache {
	return &AuthCache{
		retryCfg: retryCfg,
		now:      time.Now,
		cache:    make(map[string]domain.CachedAuth),
	}
}

// Get returns a usable auth result, from cache when possible.
// Only successful results enter the cache; failures always return a
// *domain.AuthenticationError.
func (c *AuthCache) Get(ctx context.Context, strategy driven.AuthStrategy, creds driven.Credentials, cacheKey string) (domain.AuthResult, error) {
	// Fast path: check cache with read lock
	c.mu.RLock()
	if cached, ok := c.cache[cacheKey]; ok && cached.Usable(c.now()) {
		c.mu.RUnlock()
		return cached.Result, nil
	}
	c.mu.RUnlock()

	// Slow path: need authentication, acquire write lock
	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring write lock
	if cached, ok := c.cache[cacheKey]; ok && cached.Usable(c.now()) {
		return cached.Result, nil
	}

	res := retry.Do(ctx, c.retryCfg, func(ctx context.Context) (domain.AuthResult, error) {
		return strategy.Authenticate(ctx, creds)
	})
	if !res.Success {
		authErr := &domain.AuthenticationError{Strategy: strategy.Name(), Message: res.Err.Error()}
		var sc interface{ HTTPStatusCode() int }
		if errors.As(res.Err, &sc) {
			authErr.StatusCode = sc.HTTPStatusCode()
		}
		return domain.AuthResult{}, authErr
	}
	if !res.Value.Success {
		// Validation-level failure: no transport error, nothing to retry.
		return res.Value, &domain.AuthenticationError{Strategy: strategy.Name(), Message: res.Value.Error}
	}

	c.cache[cacheKey] = domain.NewCachedAuth(res.Value, c.now())
	return res.Value, nil
}

// Invalidate clears the cache entry for a key, forcing the next Get to
// re-authenticate. Called after a token-expired rejection.
func (c *AuthCache) Invalidate(cacheKey string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.cache, cacheKey)
}
