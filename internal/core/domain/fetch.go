package domain

// FetchResult is the outcome of retrieving a raw metadata record from an
// external system, before any normalisation has happened.
type FetchResult struct {
	// Success reports whether a record was retrieved.
	Success bool

	// Record is the raw metadata document as a generic tree. XML
	// responses are converted to the same map convention as JSON
	// ("#text" for element text, "@name" for attributes) so that
	// normalisers never see transport-specific shapes.
	Record map[string]any

	// StatusCode is the HTTP status of the final attempt, when the
	// transport was HTTP. Zero for non-HTTP transports and for
	// failures that never reached the remote system.
	StatusCode int

	// Error carries the failure description when Success is false.
	Error string
}
