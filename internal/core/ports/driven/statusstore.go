package driven

import (
	"context"
	"time"

	"github.com/strand-media/enricher/internal/core/domain"
)

// StatusStore persists per-asset enrichment progress against the asset
// inventory. The three write families (correlation ID, status block,
// normalised metadata block) are independent and idempotent, so any of
// them is safe to retry.
type StatusStore interface {
	// Get returns the stored status for an asset.
	// Returns domain.ErrNotFound when no run has ever touched the asset.
	Get(ctx context.Context, assetID string) (domain.EnrichmentStatus, error)

	// MarkPending records a run start: state becomes pending, the
	// attempt count is incremented, the timestamp set. Creates the
	// status row on first contact.
	MarkPending(ctx context.Context, assetID string, at time.Time) (domain.EnrichmentStatus, error)

	// MarkSuccess records a successful run: state becomes success, the
	// error message is cleared, the timestamp set.
	MarkSuccess(ctx context.Context, assetID string, at time.Time) error

	// MarkFailed records a failed run: state becomes failed and the
	// message is stored truncated to domain.ErrorMessageLimit.
	MarkFailed(ctx context.Context, assetID string, at time.Time, errorMessage string) error

	// SetCorrelationID records the resolved external key and its
	// provenance for reuse by later runs.
	SetCorrelationID(ctx context.Context, assetID string, correlationID string,
		provenance domain.ExistingIDProvenance) error

	// SetMetadata stores the normalised output document for an asset.
	SetMetadata(ctx context.Context, assetID string, metadata *domain.NormalisedMetadata) error

	// GetMetadata returns the stored normalised document.
	// Returns domain.ErrNotFound when no successful run has stored one.
	GetMetadata(ctx context.Context, assetID string) (*domain.NormalisedMetadata, error)
}
