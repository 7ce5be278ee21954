// Package auth implements the pluggable authentication strategies and
// their registry.
//
// Three strategies ship built in:
//
//   - oauth2: client-credentials token exchange against a token endpoint
//   - apikey: static key, header- or query-placed, no network call
//   - basic: HTTP Basic from username/password, no network call
//
// Strategies validate their credential input before any network activity
// and report validation failures through the AuthResult, reserving Go
// errors for transport conditions the retry layer classifies.
package auth
