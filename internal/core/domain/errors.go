package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown adapter, auth strategy or
	// normaliser type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrMissingConfig indicates a referenced configuration source is
	// not set up.
	ErrMissingConfig = errors.New("configuration not available")
)

// CredentialRetrievalError indicates the secret store could not produce a
// usable credential map. Never retryable; the run fails immediately.
type CredentialRetrievalError struct {
	SecretRef string
	Reason    string
	Err       error
}

func (e *CredentialRetrievalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("credential retrieval failed for %q: %s: %v", e.SecretRef, e.Reason, e.Err)
	}
	return fmt.Sprintf("credential retrieval failed for %q: %s", e.SecretRef, e.Reason)
}

func (e *CredentialRetrievalError) Unwrap() error { return e.Err }

// AuthenticationError indicates an authentication attempt failed after any
// local retries. StatusCode is zero when the failure never reached the
// auth endpoint.
type AuthenticationError struct {
	Strategy   string
	StatusCode int
	Message    string
}

func (e *AuthenticationError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("authentication failed (%s, status %d): %s", e.Strategy, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("authentication failed (%s): %s", e.Strategy, e.Message)
}

// CorrelationIDError indicates no correlation ID could be resolved for an
// asset. No network activity happens after this.
type CorrelationIDError struct {
	AssetID  string
	Filename string
}

func (e *CorrelationIDError) Error() string {
	if e.Filename != "" {
		return fmt.Sprintf("no correlation ID resolvable for asset %q (filename %q)", e.AssetID, e.Filename)
	}
	return fmt.Sprintf("no correlation ID resolvable for asset %q", e.AssetID)
}

// FetchError indicates the metadata fetch failed terminally, either
// non-retryably or after retries were exhausted.
type FetchError struct {
	Adapter    string
	StatusCode int
	Attempts   int
	Message    string
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("metadata fetch failed (%s, status %d, %d attempts): %s",
			e.Adapter, e.StatusCode, e.Attempts, e.Message)
	}
	return fmt.Sprintf("metadata fetch failed (%s, %d attempts): %s", e.Adapter, e.Attempts, e.Message)
}

// NormalisationError aggregates every validation issue collected during a
// normalisation pass. The run fails with all issues joined.
type NormalisationError struct {
	SourceType string
	Issues     []string
}

func (e *NormalisationError) Error() string {
	return fmt.Sprintf("normalisation failed (%s): %s", e.SourceType, strings.Join(e.Issues, "; "))
}

// IsCredentialRetrieval checks if the error is a credential retrieval failure.
func IsCredentialRetrieval(err error) bool {
	var credErr *CredentialRetrievalError
	return errors.As(err, &credErr)
}

// IsAuthentication checks if the error is an authentication failure.
func IsAuthentication(err error) bool {
	var authErr *AuthenticationError
	return errors.As(err, &authErr)
}

// IsCorrelationID checks if the error is a correlation ID resolution failure.
func IsCorrelationID(err error) bool {
	var corrErr *CorrelationIDError
	return errors.As(err, &corrErr)
}

// IsFetch checks if the error is a terminal fetch failure.
func IsFetch(err error) bool {
	var fetchErr *FetchError
	return errors.As(err, &fetchErr)
}

// IsNormalisation checks if the error is a normalisation failure.
func IsNormalisation(err error) bool {
	var normErr *NormalisationError
	return errors.As(err, &normErr)
}
