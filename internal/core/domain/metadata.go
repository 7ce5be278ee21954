package domain

import "time"

// SourceAttribution records where a normalised document came from. It is
// attached to every NormalisedMetadata, in both placeholder and full
// normalisation modes, so downstream consumers can always trace a field
// back to its origin.
type SourceAttribution struct {
	// SourceSystem is the full source name, "<adapter>:<auth-strategy>".
	SourceSystem string `json:"source_system"`

	// FetchedAt is when the raw record was retrieved.
	FetchedAt time.Time `json:"fetched_at"`

	// CorrelationID is the external key the record was fetched under.
	CorrelationID string `json:"correlation_id"`

	// SourceRecordID is the remote system's own primary key for the
	// record, when the raw payload exposes one.
	SourceRecordID string `json:"source_record_id,omitempty"`
}

// Identifier is one resolved (namespace, identifier) pair emitted by the
// identifier mapper.
type Identifier struct {
	// Namespace scopes the identifier, for example "org:catalog:episode".
	Namespace string `json:"namespace"`

	// Identifier is the value within the namespace.
	Identifier string `json:"identifier"`
}

// LocalisedInfo holds the title and description block of a normalised
// document.
type LocalisedInfo struct {
	// TitleDisplay is the full display title.
	TitleDisplay string `json:"title_display,omitempty"`

	// TitleShort is an abbreviated title for constrained surfaces.
	TitleShort string `json:"title_short,omitempty"`

	// TitleAlias is an internal working title or alias.
	TitleAlias string `json:"title_alias,omitempty"`

	// SummaryShort is the one-line or teaser description.
	SummaryShort string `json:"summary_short,omitempty"`

	// SummaryLong is the full description.
	SummaryLong string `json:"summary_long,omitempty"`

	// Copyright is the copyright line.
	Copyright string `json:"copyright,omitempty"`

	// Keywords are free-form search terms.
	Keywords []string `json:"keywords,omitempty"`
}

// Credit is one person attached to the asset.
type Credit struct {
	// DisplayName is the person's presentation name. Never empty; the
	// mapper substitutes "Unknown" when no name can be constructed.
	DisplayName string `json:"display_name"`

	// Role is the credited role, for example "actor" or "director".
	Role string `json:"role"`

	// BillingBlockOrder is the billing position. Nil when the source
	// carries no order; nil orders sort after every numbered one.
	BillingBlockOrder *int `json:"billing_block_order,omitempty"`

	// Guest marks guest appearances.
	Guest bool `json:"guest,omitempty"`
}

// Rating is one content rating.
type Rating struct {
	// Region is the territory the rating applies to.
	Region string `json:"region"`

	// System is the rating body, for example "us-tv" or "mpaa".
	System string `json:"system"`

	// Value is the rating itself, for example "TV-14".
	Value string `json:"value"`

	// Reason is the advisory reason, when the source provides one.
	Reason string `json:"reason,omitempty"`
}

// CustomFields buckets everything the structured mappers did not claim,
// keyed by configured category, so no source data is silently dropped.
type CustomFields struct {
	Advertising map[string]any `json:"advertising,omitempty"`
	Timing      map[string]any `json:"timing,omitempty"`
	Technical   map[string]any `json:"technical,omitempty"`
	Rights      map[string]any `json:"rights,omitempty"`

	// Genres holds platform-specific genre lists keyed by platform.
	Genres map[string][]string `json:"genres,omitempty"`

	// Other holds fields with no configured category.
	Other map[string]any `json:"other,omitempty"`
}

// Empty reports whether no bucket holds any data.
func (c CustomFields) Empty() bool {
	return len(c.Advertising) == 0 &&
		len(c.Timing) == 0 &&
		len(c.Technical) == 0 &&
		len(c.Rights) == 0 &&
		len(c.Genres) == 0 &&
		len(c.Other) == 0
}

// NormalisedMetadata is the standardised output document of an enrichment
// run, shaped after the Media Entertainment Core schema.
type NormalisedMetadata struct {
	// LocalisedInfo is the title/description block.
	LocalisedInfo LocalisedInfo `json:"localised_info"`

	// Identifiers are the resolved external identifiers.
	Identifiers []Identifier `json:"identifiers,omitempty"`

	// Credits are the people records, sorted by billing order then role.
	Credits []Credit `json:"credits,omitempty"`

	// Ratings are the content ratings.
	Ratings []Rating `json:"ratings,omitempty"`

	// Custom holds source fields outside the structured schema.
	Custom CustomFields `json:"custom,omitempty"`

	// Attribution records the document's origin. Always populated.
	Attribution SourceAttribution `json:"source_attribution"`
}
