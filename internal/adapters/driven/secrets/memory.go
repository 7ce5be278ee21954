package secrets

import (
	"context"
	"fmt"
	"sync"

	"github.com/strand-media/enricher/internal/core/domain"
	"github.com/strand-media/enricher/internal/core/ports/driven"
)

// Ensure MemoryStore implements the SecretStore interface.
var _ driven.SecretStore = (*MemoryStore)(nil)

// MemoryStore holds secrets in memory. Used by tests and local dry runs.
type MemoryStore struct {
	mu      sync.RWMutex
	secrets map[string][]byte
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{secrets: make(map[string][]byte)}
}

// Put stores a secret blob under a reference.
func (s *MemoryStore) Put(secretRef string, blob []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.secrets[secretRef] = blob
}

// Delete removes a secret.
func (s *MemoryStore) Delete(secretRef string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.secrets, secretRef)
}

// GetSecret returns the stored blob.
func (s *MemoryStore) GetSecret(_ context.Context, secretRef string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	blob, ok := s.secrets[secretRef]
	if !ok {
		return nil, fmt.Errorf("secret %q: %w", secretRef, domain.ErrNotFound)
	}
	return blob, nil
}
