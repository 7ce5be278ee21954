package driven

import (
	"context"
	"time"

	"github.com/strand-media/enricher/internal/core/domain"
)

// NormaliseInput carries everything a normaliser needs for one record.
type NormaliseInput struct {
	// Record is the raw metadata document in the generic map convention.
	Record map[string]any

	// SourceSystem is the attribution string, "<adapter>:<auth-strategy>".
	SourceSystem string

	// CorrelationID is the external key the record was fetched under.
	CorrelationID string

	// FetchedAt is when the record was retrieved.
	FetchedAt time.Time
}

// Normaliser transforms one source system's raw records into the
// standardised schema. Each source type registers its own implementation.
type Normaliser interface {
	// SourceType returns the source type identifier this normaliser handles.
	SourceType() string

	// Normalise transforms a raw record. Validation issues are collected
	// and returned together as a *domain.NormalisationError.
	Normalise(ctx context.Context, input NormaliseInput) (*domain.NormalisedMetadata, error)
}

// NormaliserRegistry selects the normaliser for a configured source type.
type NormaliserRegistry interface {
	// Get returns the normaliser registered for the source type.
	// Returns ErrUnsupportedType if the source type is unknown.
	Get(sourceType string) (Normaliser, error)

	// Register adds a normaliser to the registry.
	Register(normaliser Normaliser)

	// SupportedTypes returns all registered source types.
	SupportedTypes() []string
}
