package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/strand-media/enricher/internal/core/domain"
	"github.com/strand-media/enricher/internal/core/ports/driven"
	"github.com/strand-media/enricher/internal/core/ports/driving"
	"github.com/strand-media/enricher/internal/logger"
	"github.com/strand-media/enricher/internal/retry"
)

// Ensure EnrichmentService implements the interface.
var _ driving.Enricher = (*EnrichmentService)(nil)

// EnrichmentService coordinates one enrichment run end to end: resolve
// the correlation ID, mark the run started, authenticate, fetch the raw
// record, normalise it and persist the outcome.
type EnrichmentService struct {
	strategy    driven.AuthStrategy
	connector   driven.Connector
	normaliser  driven.Normaliser
	credentials driven.CredentialProvider
	auth        driven.AuthProvider
	statuses    driven.StatusStore

	secretRef  string
	fetchRetry retry.Config
	now        func() time.Time
}

// NewEnrichmentService creates an enrichment service for one configured
// source. secretRef names the credential blob in the secret store;
// fetchRetry is the retry policy for metadata fetches. Authentication
// retries are owned by the auth provider.
func NewEnrichmentService(
	strategy driven.AuthStrategy,
	connector driven.Connector,
	normaliser driven.Normaliser,
	credentials driven.CredentialProvider,
	auth driven.AuthProvider,
	statuses driven.StatusStore,
	secretRef string,
	fetchRetry retry.Config,
) *EnrichmentService {
	return &EnrichmentService{
		strategy:    strategy,
		connector:   connector,
		normaliser:  normaliser,
		credentials: credentials,
		auth:        auth,
		statuses:    statuses,
		secretRef:   secretRef,
		fetchRetry:  fetchRetry,
		now:         time.Now,
	}
}

// Enrich runs one enrichment for an asset.
//
// Terminal failures are recorded against the asset before returning: the
// status flips to failed with the truncated message, and any correlation
// ID that was resolved is stored with failure provenance so later runs
// do not trust it. The returned error is non-nil exactly when the run
// failed.
//
//nolint:gocyclo // Orchestration function with necessary sequential steps
func (s *EnrichmentService) Enrich(ctx context.Context, req domain.EnrichmentRequest) (*driving.RunReport, error) {
	report := &driving.RunReport{
		AssetID:      req.AssetID,
		SourceSystem: s.connector.FullSourceName(),
		StartedAt:    s.now(),
	}

	// 1. Validate the trigger record. A malformed request never touches
	// the store: its asset ID cannot be trusted as a key.
	if err := req.Validate(); err != nil {
		err = fmt.Errorf("validate request: %w", err)
		report.State = domain.StateFailed
		report.Error = domain.TruncateError(err.Error())
		report.FinishedAt = s.now()
		return report, err
	}

	// 2. Resolve the correlation ID, consulting any stored status for a
	// previously recorded ID.
	stored, err := s.statuses.Get(ctx, req.AssetID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return s.fail(ctx, report, fmt.Errorf("read status: %w", err))
	}
	correlation, err := ResolveCorrelationID(req, stored)
	if err != nil {
		return s.fail(ctx, report, err)
	}
	report.CorrelationID = correlation.Value
	report.CorrelationSource = correlation.Source
	logger.Debug("Resolved correlation ID %q for asset %s via %s",
		correlation.Value, req.AssetID, correlation.Source)

	// 3. Mark the run started
	pending, err := s.statuses.MarkPending(ctx, req.AssetID, s.now())
	if err != nil {
		return s.fail(ctx, report, fmt.Errorf("mark pending: %w", err))
	}
	logger.Info("Starting enrichment for asset %s (attempt %d, source %s)",
		req.AssetID, pending.AttemptCount, report.SourceSystem)

	// 4. Retrieve credentials
	creds, err := s.credentials.Get(ctx, s.secretRef)
	if err != nil {
		return s.fail(ctx, report, err)
	}

	// 5. Authenticate, from cache when a usable result exists
	cacheKey := s.authCacheKey()
	auth, err := s.auth.Get(ctx, s.strategy, creds, cacheKey)
	if err != nil {
		return s.fail(ctx, report, err)
	}

	// 6. Fetch the raw record with retries
	result, attempts, fetchErr := s.fetch(ctx, correlation.Value, auth, creds)
	report.FetchAttempts = attempts

	// A rejection caused by an expired token gets one recovery pass for
	// strategies that can mint a fresh credential: drop the cached
	// result, re-authenticate, fetch once more.
	if fetchErr != nil && s.strategy.SupportsRefresh() &&
		s.strategy.IsTokenExpiredError(result.StatusCode, result.Error) {
		logger.Info("Access token rejected for asset %s, re-authenticating", req.AssetID)
		s.auth.Invalidate(cacheKey)
		auth, err = s.auth.Get(ctx, s.strategy, creds, cacheKey)
		if err != nil {
			return s.fail(ctx, report, err)
		}
		result, fetchErr = s.connector.FetchMetadata(ctx, correlation.Value, auth, creds.AdditionalHeaders())
		report.FetchAttempts++
	}
	if fetchErr != nil {
		return s.fail(ctx, report, s.fetchError(result, report.FetchAttempts, fetchErr.Error()))
	}
	if !result.Success {
		return s.fail(ctx, report, s.fetchError(result, report.FetchAttempts, result.Error))
	}

	// 7. Normalise into the standard schema
	doc, err := s.normaliser.Normalise(ctx, driven.NormaliseInput{
		Record:        result.Record,
		SourceSystem:  report.SourceSystem,
		CorrelationID: correlation.Value,
		FetchedAt:     s.now(),
	})
	if err != nil {
		return s.fail(ctx, report, err)
	}

	// 8. Persist the document, the correlation ID and the terminal
	// status. Three independent idempotent writes.
	if err := s.statuses.SetMetadata(ctx, req.AssetID, doc); err != nil {
		return s.fail(ctx, report, fmt.Errorf("store metadata: %w", err))
	}
	if err := s.statuses.SetCorrelationID(ctx, req.AssetID, correlation.Value, domain.ProvenanceFromSuccess); err != nil {
		return s.fail(ctx, report, fmt.Errorf("store correlation ID: %w", err))
	}
	report.FinishedAt = s.now()
	if err := s.statuses.MarkSuccess(ctx, req.AssetID, report.FinishedAt); err != nil {
		return s.fail(ctx, report, fmt.Errorf("mark success: %w", err))
	}
	report.State = domain.StateSuccess

	logger.Info("Enrichment complete for asset %s (%d fetch attempts)",
		req.AssetID, report.FetchAttempts)
	return report, nil
}

// Status returns the stored enrichment status for an asset.
func (s *EnrichmentService) Status(ctx context.Context, assetID string) (domain.EnrichmentStatus, error) {
	return s.statuses.Get(ctx, assetID)
}

// fetch runs the metadata fetch under the retry policy. The last
// FetchResult the connector produced is returned even on failure so the
// caller can inspect the rejection status and body.
func (s *EnrichmentService) fetch(ctx context.Context, correlationID string, auth domain.AuthResult,
	creds driven.Credentials) (domain.FetchResult, int, error) {
	var last domain.FetchResult
	res := retry.Do(ctx, s.fetchRetry, func(ctx context.Context) (domain.FetchResult, error) {
		result, err := s.connector.FetchMetadata(ctx, correlationID, auth, creds.AdditionalHeaders())
		last = result
		return result, err
	})
	if !res.Success {
		return last, res.Attempts, res.Err
	}
	return res.Value, res.Attempts, nil
}

// fetchError builds the terminal fetch failure for the run.
func (s *EnrichmentService) fetchError(result domain.FetchResult, attempts int, message string) *domain.FetchError {
	return &domain.FetchError{
		Adapter:    s.connector.Name(),
		StatusCode: result.StatusCode,
		Attempts:   attempts,
		Message:    message,
	}
}

// authCacheKey scopes cached auth results to this service's strategy and
// credential blob, so sources sharing a process never share tokens.
func (s *EnrichmentService) authCacheKey() string {
	return s.strategy.Name() + ":" + s.secretRef
}

// fail records a terminal failure and finalises the report. Store errors
// while recording are logged, not returned; the run error is what the
// caller needs to see.
func (s *EnrichmentService) fail(ctx context.Context, report *driving.RunReport, runErr error) (*driving.RunReport, error) {
	report.State = domain.StateFailed
	report.Error = domain.TruncateError(runErr.Error())
	report.FinishedAt = s.now()

	if err := s.statuses.MarkFailed(ctx, report.AssetID, report.FinishedAt, runErr.Error()); err != nil {
		logger.Warn("Recording failure for asset %s failed: %v", report.AssetID, err)
	}
	if report.CorrelationID != "" {
		if err := s.statuses.SetCorrelationID(ctx, report.AssetID, report.CorrelationID, domain.ProvenanceFromFailure); err != nil {
			logger.Warn("Recording correlation ID for asset %s failed: %v", report.AssetID, err)
		}
	}
	return report, runErr
}
