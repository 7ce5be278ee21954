package domain

import "time"

// ExpiryBuffer is subtracted from a token's nominal lifetime when deciding
// whether a cached authentication is still usable. A token that expires
// within the buffer is treated as already expired so that in-flight requests
// do not race the provider's clock.
const ExpiryBuffer = 60 * time.Second

// AuthResult is the outcome of an authentication attempt against an
// external metadata system, independent of the strategy that produced it.
type AuthResult struct {
	// Success reports whether the provider issued a usable credential.
	Success bool

	// AccessToken is the bearer credential to present on subsequent
	// requests. Empty when Success is false.
	AccessToken string

	// TokenType is the scheme the credential should be presented under,
	// for example "Bearer". Providers that issue static keys leave the
	// type empty.
	TokenType string

	// ExpiresIn is the provider-reported credential lifetime. Zero means
	// the provider did not report one and the credential never expires
	// from the caller's point of view.
	ExpiresIn time.Duration

	// Error carries the failure description when Success is false.
	Error string
}

// CachedAuth wraps an AuthResult with cache bookkeeping so callers can
// decide whether a stored credential is still safe to reuse.
type CachedAuth struct {
	// Result is the authentication outcome being cached.
	Result AuthResult

	// CachedAt is when the result entered the cache.
	CachedAt time.Time

	// ExpiresAt is the instant the credential stops being valid,
	// computed from CachedAt and the provider-reported lifetime.
	// Zero means the credential does not expire.
	ExpiresAt time.Time
}

// NewCachedAuth computes cache bookkeeping for a fresh authentication
// result. Results without a reported lifetime produce a zero ExpiresAt.
func NewCachedAuth(result AuthResult, now time.Time) CachedAuth {
	cached := CachedAuth{
		Result:   result,
		CachedAt: now,
	}
	if result.ExpiresIn > 0 {
		cached.ExpiresAt = now.Add(result.ExpiresIn)
	}
	return cached
}

// Usable reports whether the cached credential can still be presented at
// the given instant. Failed results are never usable. Credentials without
// an expiry are always usable. Expiring credentials are usable until
// ExpiryBuffer before their expiry instant.
func (c CachedAuth) Usable(now time.Time) bool {
	if !c.Result.Success {
		return false
	}
	if c.ExpiresAt.IsZero() {
		return true
	}
	return now.Before(c.ExpiresAt.Add(-ExpiryBuffer))
}
