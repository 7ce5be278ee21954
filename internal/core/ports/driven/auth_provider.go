package driven

import (
	"context"

	"github.com/strand-media/enricher/internal/core/domain"
)

// CredentialProvider returns parsed credential maps by secret reference.
// Implementations fetch from the secret store at most once per reference
// per process lifetime and cache the parsed result.
type CredentialProvider interface {
	// Get returns the credential map for a secret reference.
	// Missing secrets and unparseable blobs return a
	// *domain.CredentialRetrievalError.
	Get(ctx context.Context, secretRef string) (Credentials, error)

	// Invalidate drops the cached entry so the next Get refetches.
	// Supports secret rotation.
	Invalidate(secretRef string)
}

// AuthProvider returns valid auth results for a strategy, caching them
// until expiry.
//
// This interface pairs cache bookkeeping with reactive invalidation:
//   - Get: returns the cached result while it is usable, authenticating
//     only on miss or expiry
//   - Invalidate: called after a token-expired rejection so the next Get
//     re-authenticates
type AuthProvider interface {
	// Get returns a usable auth result, from cache when possible.
	// Authentication failures return a *domain.AuthenticationError.
	Get(ctx context.Context, strategy AuthStrategy, creds Credentials, cacheKey string) (domain.AuthResult, error)

	// Invalidate clears the cache entry for a key.
	Invalidate(cacheKey string)
}
