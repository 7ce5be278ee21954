package driving

import (
	"context"
	"time"

	"github.com/strand-media/enricher/internal/core/domain"
)

// Enricher runs the metadata enrichment pipeline for single assets.
type Enricher interface {
	// Enrich runs one enrichment end to end: resolve the correlation ID,
	// authenticate, fetch, normalise, persist. The returned report
	// describes the run whether it succeeded or failed; the error is
	// non-nil exactly when the run terminated in a failed status.
	Enrich(ctx context.Context, req domain.EnrichmentRequest) (*RunReport, error)

	// Status returns the stored enrichment status for an asset.
	Status(ctx context.Context, assetID string) (domain.EnrichmentStatus, error)
}

// RunReport summarises one enrichment run for the invoking host.
type RunReport struct {
	// AssetID identifies the asset.
	AssetID string `json:"asset_id"`

	// State is the terminal state the run recorded.
	State domain.EnrichmentState `json:"state"`

	// CorrelationID is the resolved external key, when resolution
	// succeeded.
	CorrelationID string `json:"correlation_id,omitempty"`

	// CorrelationSource records which resolution rule produced the key.
	CorrelationSource domain.CorrelationSource `json:"correlation_source,omitempty"`

	// SourceSystem is the attribution string of the adapter/strategy pair.
	SourceSystem string `json:"source_system,omitempty"`

	// FetchAttempts is how many fetch attempts the run made.
	FetchAttempts int `json:"fetch_attempts,omitempty"`

	// Error is the truncated failure message for failed runs.
	Error string `json:"error,omitempty"`

	// StartedAt and FinishedAt bound the run.
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// Duration returns the wall-clock length of the run.
func (r *RunReport) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
