// Package fieldmap implements the configuration-driven field mappers that
// turn a raw metadata record into the structured parts of a normalised
// document. No customer field name appears anywhere in this package; every
// lookup flows from a [MappingConfig].
//
// # Record convention
//
// Mappers operate on the generic record shape both fetch adapters
// produce: a map[string]any tree where JSON maps directly and XML is
// decoded with attributes under "@name" keys, element text under "#text"
// when an element also carries attributes or children, and repeated
// siblings promoted to lists. Mappers accept both the single and the
// repeated shape for any entry, since a source with one actor and a
// source with five must normalise the same way.
//
// # Mapper families
//
//   - Identifiers: each configured (field, namespace suffix) pair emits
//     one (namespace, identifier) from a non-empty source value. A suffix
//     starting with "-" is relative to NamespacePrefix, an empty suffix
//     is the prefix itself, anything else is an absolute namespace.
//
//   - Localised info: straight field-to-field mapping for the title and
//     description block. Keywords accept a native list or one
//     comma-separated string.
//
//   - People: each configured field maps to a role; entries become
//     credits with a display name (never empty; "Unknown" when nothing
//     can be constructed), a billing order read from OrderAttribute, and
//     a guest flag read from GuestField. Credits sort by billing order,
//     nil orders last, then role.
//
//   - Ratings: the configured container is walked entry by entry through
//     a type-to-(system, region) table seeded with
//     [DefaultRatingSystems]. Hierarchical containers resolve to the
//     first configured level present (episode before season before
//     series by default).
//
//   - Custom buckets: configured fields land in their category
//     (advertising, timing, technical, rights, per-platform genre
//     lists); every top-level field no mapper claimed is swept into the
//     Other bucket.
//
// # Validation
//
// MappingConfig is validated once at load time, after ApplyDefaults, so
// misconfiguration fails the pipeline before any record is fetched.
// Issues found while mapping a record (an unmapped rating type, a
// non-numeric billing order) are collected into [Issues] and surfaced by
// the caller as one aggregated error.
package fieldmap
