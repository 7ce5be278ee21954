package auth

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/strand-media/enricher/internal/core/domain"
	"github.com/strand-media/enricher/internal/core/ports/driven"
)

// Ensure CredentialCache implements the CredentialProvider interface.
var _ driven.CredentialProvider = (*CredentialCache)(nil)

// CredentialCache fetches credential blobs from the secret store at most
// once per reference per process lifetime and caches the parsed map.
type CredentialCache struct {
	store driven.SecretStore

	mu    sync.RWMutex
	cache map[string]driven.Credentials
}

// NewCredentialCache creates a cache over a secret store.
func NewCredentialCache(store driven.SecretStore) *CredentialCache {
	return &CredentialCache{
		store: store,
		cache: make(map[string]driven.Credentials),
	}
}

// Get returns the parsed credential map for a secret reference.
// Missing secrets and unparseable blobs return a typed retrieval error.
func (c *CredentialCache) Get(ctx context.Context, secretRef string) (driven.Credentials, error) {
	// Fast path: check cache with read lock
	c.mu.RLock()
	if creds, ok := c.cache[secretRef]; ok {
		c.mu.RUnlock()
		return creds, nil
	}
	c.mu.RUnlock()

	// Slow path: fetch and parse, acquire write lock
	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring write lock
	if creds, ok := c.cache[secretRef]; ok {
		return creds, nil
	}

	blob, err := c.store.GetSecret(ctx, secretRef)
	if err != nil {
		reason := "secret store error"
		if errors.Is(err, domain.ErrNotFound) {
			reason = "secret not found"
		}
		return nil, &domain.CredentialRetrievalError{SecretRef: secretRef, Reason: reason, Err: err}
	}

	var creds driven.Credentials
	if err := json.Unmarshal(blob, &creds); err != nil {
		return nil, &domain.CredentialRetrievalError{SecretRef: secretRef, Reason: "invalid JSON", Err: err}
	}
	if len(creds) == 0 {
		return nil, &domain.CredentialRetrievalError{SecretRef: secretRef, Reason: "secret is empty"}
	}

	c.cache[secretRef] = creds
	return creds, nil
}

// Invalidate drops the cached entry so the next Get refetches.
func (c *CredentialCache) Invalidate(secretRef string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.cache, secretRef)
}
