package services

import (
	"strings"

	"github.com/strand-media/enricher/internal/core/domain"
)

// ResolveCorrelationID determines the external key to fetch metadata
// under, trying sources in priority order:
//
//  1. an explicit override on the request
//  2. an ID recorded by a previous run, on the request or on the stored
//     status, provided its provenance is a successful run
//  3. the asset filename with its extension stripped
//
// When no source yields a value the run cannot proceed and a
// *domain.CorrelationIDError is returned.
func ResolveCorrelationID(req domain.EnrichmentRequest, stored domain.EnrichmentStatus) (domain.CorrelationID, error) {
	if value := strings.TrimSpace(req.CorrelationIDOverride); value != "" {
		return domain.CorrelationID{
			Value:    value,
			Source:   domain.CorrelationSourceOverride,
			Filename: req.Filename,
		}, nil
	}

	if value := existingID(req, stored); value != "" {
		return domain.CorrelationID{
			Value:    value,
			Source:   domain.CorrelationSourceExisting,
			Filename: req.Filename,
		}, nil
	}

	if name := strings.TrimSpace(req.Filename); name != "" {
		if value := domain.StemFilename(name); value != "" {
			return domain.CorrelationID{
				Value:    value,
				Source:   domain.CorrelationSourceFilename,
				Filename: req.Filename,
			}, nil
		}
	}

	return domain.CorrelationID{}, &domain.CorrelationIDError{
		AssetID:  req.AssetID,
		Filename: req.Filename,
	}
}

// existingID returns a previously recorded correlation ID eligible for
// reuse. The request-supplied ID is consulted before the stored status so
// hosts can pass inventory state inline; either way an ID is only trusted
// when it came from a successful run.
func existingID(req domain.EnrichmentRequest, stored domain.EnrichmentStatus) string {
	if value := strings.TrimSpace(req.ExistingCorrelationID); value != "" &&
		req.ExistingProvenance == domain.ProvenanceFromSuccess {
		return value
	}
	if value := strings.TrimSpace(stored.CorrelationID); value != "" &&
		stored.CorrelationProvenance == domain.ProvenanceFromSuccess {
		return value
	}
	return ""
}
