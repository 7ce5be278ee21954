// Package normalisers turns raw source records into the standardised
// metadata schema.
//
// The package has two modes. With no source type configured the
// placeholder normaliser extracts a title and description from a fixed
// set of candidate field names and parks every raw field in the custom
// bucket. With a source type configured the facade selects a registered
// full normaliser, usually the configuration-driven mec implementation.
//
// Normalisers are registered with the Registry at startup; the
// MappingLoader supplies mec with its layered mapping configuration.
package normalisers
