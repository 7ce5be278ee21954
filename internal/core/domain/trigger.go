package domain

import (
	"errors"
	"fmt"
	"strings"
)

// EnrichmentRequest is the trigger record that starts one enrichment run.
// Hosts deliver it as a small JSON document, one per asset.
type EnrichmentRequest struct {
	// AssetID is the inventory key of the asset being enriched.
	AssetID string `json:"asset_id"`

	// Filename is the asset's original filename, used as the last-resort
	// source for correlation ID derivation.
	Filename string `json:"filename,omitempty"`

	// CorrelationIDOverride is an explicit operator-supplied external key.
	// When non-empty it wins over every other resolution source.
	CorrelationIDOverride string `json:"correlation_id_override,omitempty"`

	// ExistingCorrelationID is the external key recorded by a previous
	// run, if any. Ignored unless ExistingProvenance is FromSuccess.
	ExistingCorrelationID string `json:"existing_correlation_id,omitempty"`

	// ExistingProvenance records whether the existing ID came from a
	// successful run. Defaults to ProvenanceUnset when absent.
	ExistingProvenance ExistingIDProvenance `json:"existing_provenance,omitempty"`
}

// Validate checks the request for the fields every run needs before any
// network activity happens. All problems are reported together.
func (r EnrichmentRequest) Validate() error {
	var errs []error
	if strings.TrimSpace(r.AssetID) == "" {
		errs = append(errs, fmt.Errorf("asset_id: %w", ErrInvalidInput))
	}
	if r.ExistingProvenance < ProvenanceUnset || r.ExistingProvenance > ProvenanceFromFailure {
		errs = append(errs, fmt.Errorf("existing_provenance %d: %w", r.ExistingProvenance, ErrInvalidInput))
	}
	return errors.Join(errs...)
}
