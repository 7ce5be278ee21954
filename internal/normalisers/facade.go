package normalisers

import (
	"context"

	"github.com/strand-media/enricher/internal/core/domain"
	"github.com/strand-media/enricher/internal/core/ports/driven"
)

// Ensure Facade implements the interface.
var _ driven.Normaliser = (*Facade)(nil)

// Facade routes records to the full normaliser for the configured
// source type, or to the placeholder when no source type is set.
type Facade struct {
	sourceType string
	registry   driven.NormaliserRegistry
	fallback   driven.Normaliser
}

// NewFacade builds the routing normaliser. An empty sourceType selects
// placeholder mode.
func NewFacade(sourceType string, registry driven.NormaliserRegistry) *Facade {
	return &Facade{
		sourceType: sourceType,
		registry:   registry,
		fallback:   Placeholder{},
	}
}

// SourceType returns the configured source type, or the placeholder
// identifier when none is configured.
func (f *Facade) SourceType() string {
	if f.sourceType == "" {
		return PlaceholderType
	}
	return f.sourceType
}

// Normalise dispatches one record. Registry lookup failures surface to
// the caller rather than silently degrading to placeholder output.
func (f *Facade) Normalise(ctx context.Context, input driven.NormaliseInput) (*domain.NormalisedMetadata, error) {
	if f.sourceType == "" {
		return f.fallback.Normalise(ctx, input)
	}
	n, err := f.registry.Get(f.sourceType)
	if err != nil {
		return nil, err
	}
	return n.Normalise(ctx, input)
}
