package domain

import "time"

// EnrichmentState is the progress of an asset through the pipeline.
type EnrichmentState string

const (
	// StatePending means a run has started and not yet reached a
	// terminal outcome.
	StatePending EnrichmentState = "pending"

	// StateSuccess means the last run produced and stored a normalised
	// document.
	StateSuccess EnrichmentState = "success"

	// StateFailed means the last run terminated with an error.
	StateFailed EnrichmentState = "failed"
)

// ErrorMessageLimit caps the persisted error message length. Longer
// messages are truncated so status rows stay bounded regardless of how
// verbose an upstream failure is.
const ErrorMessageLimit = 500

// TruncateError bounds an error message to ErrorMessageLimit characters.
func TruncateError(msg string) string {
	if len(msg) <= ErrorMessageLimit {
		return msg
	}
	return msg[:ErrorMessageLimit]
}

// EnrichmentStatus is the per-asset progress record. It is created at the
// first run and mutated in place by every later run, never deleted.
type EnrichmentStatus struct {
	// AssetID is the inventory key of the asset.
	AssetID string `json:"asset_id"`

	// State is the current pipeline state.
	State EnrichmentState `json:"state"`

	// AttemptCount is the number of runs started for this asset.
	AttemptCount int `json:"attempt_count"`

	// LastAttemptAt is when the most recent run started or terminated.
	LastAttemptAt time.Time `json:"last_attempt_at"`

	// ErrorMessage is the truncated failure description. Empty unless
	// State is failed. This is the single diagnostic source of truth
	// for a failed asset.
	ErrorMessage string `json:"error_message,omitempty"`

	// CorrelationID is the external key the last run resolved, recorded
	// for reuse by later runs.
	CorrelationID string `json:"correlation_id,omitempty"`

	// CorrelationProvenance records whether CorrelationID came from a
	// successful run.
	CorrelationProvenance ExistingIDProvenance `json:"correlation_provenance,omitempty"`
}

// CanTransition reports whether a state change is legal. Runs move
// pending to a terminal state; a new run may reset any state back to
// pending. Terminal states never flip directly to each other.
func (s EnrichmentState) CanTransition(to EnrichmentState) bool {
	switch to {
	case StatePending:
		return true
	case StateSuccess, StateFailed:
		return s == StatePending
	default:
		return false
	}
}

// Valid reports whether the state is one of the known values.
func (s EnrichmentState) Valid() bool {
	switch s {
	case StatePending, StateSuccess, StateFailed:
		return true
	}
	return false
}
