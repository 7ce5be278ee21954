package domain

// Asset is the inventory record an enrichment run reads from and writes
// back to. The pipeline owns three fields of it (correlation ID, status,
// normalised metadata), each updated independently and idempotently; the
// rest belongs to the host inventory.
type Asset struct {
	// ID is the inventory key.
	ID string `json:"id"`

	// Filename is the asset's original filename.
	Filename string `json:"filename,omitempty"`

	// Status is the enrichment progress block.
	Status EnrichmentStatus `json:"enrichment_status"`

	// Metadata is the normalised output of the last successful run.
	// Nil until a run succeeds.
	Metadata *NormalisedMetadata `json:"normalised_metadata,omitempty"`
}
