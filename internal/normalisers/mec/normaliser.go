// Package mec implements the full normaliser: a configuration-driven
// transformation of one source system's raw records into the MEC-style
// document schema, built from the fieldmap mapper families.
package mec

import (
	"context"
	"fmt"

	"github.com/strand-media/enricher/internal/core/domain"
	"github.com/strand-media/enricher/internal/core/ports/driven"
	"github.com/strand-media/enricher/internal/normalisers/fieldmap"
)

// ConfigSource supplies the current mapping configuration. An
// implementation may reload between calls; Normalise asks for a fresh
// view on every record.
type ConfigSource interface {
	Mapping(ctx context.Context) (*fieldmap.MappingConfig, error)
}

// ConfigSourceFunc adapts a function into a ConfigSource.
type ConfigSourceFunc func(ctx context.Context) (*fieldmap.MappingConfig, error)

// Mapping calls the wrapped function.
func (f ConfigSourceFunc) Mapping(ctx context.Context) (*fieldmap.MappingConfig, error) {
	return f(ctx)
}

// Static wraps a fixed mapping configuration as a ConfigSource.
func Static(cfg *fieldmap.MappingConfig) ConfigSource {
	return ConfigSourceFunc(func(context.Context) (*fieldmap.MappingConfig, error) {
		return cfg, nil
	})
}

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser runs the mapper families for one source type.
type Normaliser struct {
	sourceType string
	config     ConfigSource
}

// New builds a normaliser for one source type.
func New(sourceType string, config ConfigSource) (*Normaliser, error) {
	if sourceType == "" {
		return nil, fmt.Errorf("normaliser requires a source type: %w", domain.ErrInvalidInput)
	}
	if config == nil {
		return nil, fmt.Errorf("normaliser %q has no mapping source: %w", sourceType, domain.ErrMissingConfig)
	}
	return &Normaliser{sourceType: sourceType, config: config}, nil
}

// SourceType returns the source type identifier.
func (n *Normaliser) SourceType() string { return n.sourceType }

// Normalise maps one raw record through every mapper family. Issues
// collected along the way fail the record with one aggregated error; a
// document is returned only when the record mapped cleanly.
func (n *Normaliser) Normalise(ctx context.Context, input driven.NormaliseInput) (*domain.NormalisedMetadata, error) {
	cfg, err := n.config.Mapping(ctx)
	if err != nil {
		return nil, fmt.Errorf("normaliser %q: %w", n.sourceType, err)
	}

	var issues fieldmap.Issues
	doc := &domain.NormalisedMetadata{
		LocalisedInfo: fieldmap.MapLocalisedInfo(input.Record, cfg),
		Identifiers:   fieldmap.MapIdentifiers(input.Record, cfg),
		Credits:       fieldmap.MapPeople(input.Record, cfg, &issues),
		Ratings:       fieldmap.MapRatings(input.Record, cfg, &issues),
		Custom:        fieldmap.MapCustom(input.Record, cfg),
		Attribution: domain.SourceAttribution{
			SourceSystem:   input.SourceSystem,
			FetchedAt:      input.FetchedAt,
			CorrelationID:  input.CorrelationID,
			SourceRecordID: fieldmap.SourceRecordID(input.Record, cfg),
		},
	}
	if !issues.Empty() {
		return nil, &domain.NormalisationError{SourceType: n.sourceType, Issues: issues.List()}
	}
	return doc, nil
}
