package driven

import "context"

// SecretStore retrieves credential blobs by reference.
// Implementations: file-backed directory, HTTP KV store, in-memory.
type SecretStore interface {
	// GetSecret returns the raw JSON blob for a secret reference.
	// A missing reference returns domain.ErrNotFound.
	GetSecret(ctx context.Context, secretRef string) ([]byte, error)
}
