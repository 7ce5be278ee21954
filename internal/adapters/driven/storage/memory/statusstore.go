// Package memory provides in-memory implementations of the persistence
// ports, used in tests and for ephemeral runs where durability is not
// required.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/strand-media/enricher/internal/core/domain"
	"github.com/strand-media/enricher/internal/core/ports/driven"
)

// Ensure StatusStore implements the interface.
var _ driven.StatusStore = (*StatusStore)(nil)

// StatusStore is an in-memory implementation of driven.StatusStore.
// Semantics match the SQLite store: the three write families are
// independent upserts and terminal states are overwritten by later runs.
type StatusStore struct {
	mu       sync.RWMutex
	statuses map[string]domain.EnrichmentStatus
	metadata map[string]*domain.NormalisedMetadata
}

// NewStatusStore creates a new in-memory status store.
func NewStatusStore() *StatusStore {
	return &StatusStore{
		statuses: make(map[string]domain.EnrichmentStatus),
		metadata: make(map[string]*domain.NormalisedMetadata),
	}
}

// Get returns the stored status for an asset.
func (s *StatusStore) Get(_ context.Context, assetID string) (domain.EnrichmentStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	status, ok := s.statuses[assetID]
	if !ok {
		return domain.EnrichmentStatus{}, domain.ErrNotFound
	}
	return status, nil
}

// MarkPending records a run start, creating the status row on first
// contact and incrementing the attempt count on every later run.
func (s *StatusStore) MarkPending(_ context.Context, assetID string, at time.Time) (domain.EnrichmentStatus, error) {
	if assetID == "" {
		return domain.EnrichmentStatus{}, domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	status := s.statuses[assetID]
	status.AssetID = assetID
	status.State = domain.StatePending
	status.AttemptCount++
	status.LastAttemptAt = at.UTC()
	status.ErrorMessage = ""
	s.statuses[assetID] = status
	return status, nil
}

// MarkSuccess records a successful run and clears the error message.
func (s *StatusStore) MarkSuccess(_ context.Context, assetID string, at time.Time) error {
	if assetID == "" {
		return domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	status := s.statuses[assetID]
	status.AssetID = assetID
	status.State = domain.StateSuccess
	status.LastAttemptAt = at.UTC()
	status.ErrorMessage = ""
	s.statuses[assetID] = status
	return nil
}

// MarkFailed records a failed run with the message truncated to the
// persisted limit.
func (s *StatusStore) MarkFailed(_ context.Context, assetID string, at time.Time, errorMessage string) error {
	if assetID == "" {
		return domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	status := s.statuses[assetID]
	status.AssetID = assetID
	status.State = domain.StateFailed
	status.LastAttemptAt = at.UTC()
	status.ErrorMessage = domain.TruncateError(errorMessage)
	s.statuses[assetID] = status
	return nil
}

// SetCorrelationID records the resolved external key and its provenance.
func (s *StatusStore) SetCorrelationID(_ context.Context, assetID string, correlationID string,
	provenance domain.ExistingIDProvenance) error {
	if assetID == "" {
		return domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	status := s.statuses[assetID]
	if status.AssetID == "" {
		status.AssetID = assetID
		status.State = domain.StatePending
	}
	status.CorrelationID = correlationID
	status.CorrelationProvenance = provenance
	s.statuses[assetID] = status
	return nil
}

// SetMetadata stores the normalised output document for an asset.
func (s *StatusStore) SetMetadata(_ context.Context, assetID string, metadata *domain.NormalisedMetadata) error {
	if assetID == "" || metadata == nil {
		return domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *metadata
	s.metadata[assetID] = &copied
	return nil
}

// GetMetadata returns the stored normalised document.
func (s *StatusStore) GetMetadata(_ context.Context, assetID string) (*domain.NormalisedMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.metadata[assetID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *doc
	return &copied, nil
}
