package domain

import "strings"

// CorrelationSource identifies where a correlation ID came from. The
// resolver tries sources in a fixed order and records which one won so
// operators can audit why a given external record was fetched.
type CorrelationSource string

const (
	// CorrelationSourceOverride means the ID was supplied explicitly on
	// the enrichment request.
	CorrelationSourceOverride CorrelationSource = "override"

	// CorrelationSourceExisting means the ID was reused from a previous
	// successful run recorded against the asset.
	CorrelationSourceExisting CorrelationSource = "existing"

	// CorrelationSourceFilename means the ID was derived from the
	// asset's filename by stripping its extension.
	CorrelationSourceFilename CorrelationSource = "filename"
)

// ExistingIDProvenance records how a correlation ID stored on a status
// record was obtained. Only IDs from successful runs may be reused by a
// later resolution; IDs recorded alongside failures are kept for
// diagnostics but never trusted again.
type ExistingIDProvenance int

const (
	// ProvenanceUnset means no prior run recorded a correlation ID.
	ProvenanceUnset ExistingIDProvenance = iota

	// ProvenanceFromSuccess means the stored ID produced a successful
	// enrichment and is eligible for reuse.
	ProvenanceFromSuccess

	// ProvenanceFromFailure means the stored ID belongs to a failed run
	// and must not seed future resolutions.
	ProvenanceFromFailure
)

// CorrelationID is the resolved key used to look an asset up in an
// external metadata system.
type CorrelationID struct {
	// Value is the identifier presented to the external system.
	Value string

	// Source records which resolution rule produced the value.
	Source CorrelationSource

	// Filename is the asset filename consulted during resolution.
	// Populated for every source so the audit trail survives even when
	// the filename lost to a higher-priority source.
	Filename string
}

// StemFilename derives a correlation ID candidate from an asset filename
// by stripping the final extension. Dotfiles such as ".gitignore" have no
// extension and pass through unchanged. A trailing dot is stripped.
func StemFilename(name string) string {
	idx := strings.LastIndex(name, ".")
	if idx <= 0 {
		return name
	}
	return name[:idx]
}
