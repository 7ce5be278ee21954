package normalisers

import (
	"context"

	"github.com/strand-media/enricher/internal/core/domain"
	"github.com/strand-media/enricher/internal/core/ports/driven"
	"github.com/strand-media/enricher/internal/normalisers/fieldmap"
)

// PlaceholderType is the source type the placeholder registers under.
const PlaceholderType = "placeholder"

// Candidate source fields probed in order when no mapping
// configuration exists for the source system.
var (
	titleCandidates       = []string{"title", "title_display", "name", "headline"}
	descriptionCandidates = []string{"description", "synopsis", "summary", "log_line"}
	recordIDCandidates    = []string{"id", "record_id", "guid", "uuid"}
)

// Ensure Placeholder implements the interface.
var _ driven.Normaliser = Placeholder{}

// Placeholder is the fallback normaliser for source systems without a
// configured source type. It keeps every raw field in the custom
// bucket so nothing is lost, and fills the title and long summary from
// the first matching candidate field.
type Placeholder struct{}

// SourceType returns the placeholder identifier.
func (Placeholder) SourceType() string { return PlaceholderType }

// Normalise copies the raw record into the custom bucket and attaches
// attribution. It never fails: an unmappable record still produces a
// document.
func (Placeholder) Normalise(_ context.Context, input driven.NormaliseInput) (*domain.NormalisedMetadata, error) {
	doc := &domain.NormalisedMetadata{
		LocalisedInfo: domain.LocalisedInfo{
			TitleDisplay: firstCandidate(input.Record, titleCandidates),
			SummaryLong:  firstCandidate(input.Record, descriptionCandidates),
		},
		Attribution: domain.SourceAttribution{
			SourceSystem:   input.SourceSystem,
			FetchedAt:      input.FetchedAt,
			CorrelationID:  input.CorrelationID,
			SourceRecordID: firstCandidate(input.Record, recordIDCandidates),
		},
	}
	if len(input.Record) > 0 {
		other := make(map[string]any, len(input.Record))
		for k, v := range input.Record {
			other[k] = v
		}
		doc.Custom.Other = other
	}
	return doc, nil
}

func firstCandidate(record map[string]any, candidates []string) string {
	for _, field := range candidates {
		if s, ok := fieldmap.StringValue(record[field]); ok {
			return s
		}
	}
	return ""
}
