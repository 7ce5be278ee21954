// Package domain defines the core business entities for the enrichment
// pipeline.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - EnrichmentRequest: The trigger record that starts a run
//   - AuthResult / CachedAuth: Outcome of authentication + cache bookkeeping
//   - FetchResult: Raw metadata record returned by a connector
//   - CorrelationID: The resolved external-system key for an asset
//   - NormalisedMetadata: The standardised output document
//   - EnrichmentStatus: The persisted per-asset progress record
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
