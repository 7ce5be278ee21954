package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/strand-media/enricher/internal/core/domain"
	"github.com/strand-media/enricher/internal/core/ports/driven"
)

// StrategyAPIKey is the registry name of the static API-key strategy.
const StrategyAPIKey = "apikey"

// API-key placement modes.
const (
	placementHeader = "header"
	placementQuery  = "query"
)

// Ensure APIKeyStrategy implements the AuthStrategy interface.
var _ driven.AuthStrategy = (*APIKeyStrategy)(nil)

// APIKeyStrategy presents a static key on every request, either as a
// header or as a query parameter. No network call is ever made.
type APIKeyStrategy struct {
	headerName string
	queryParam string
	placement  string
}

// NewAPIKeyStrategy builds the strategy from static auth configuration.
// Options: "header_name" (default X-API-Key), "key_placement"
// (header or query, default header), "query_param" (default api_key).
func NewAPIKeyStrategy(cfg domain.AuthConfig) (*APIKeyStrategy, error) {
	placement := cfg.Option("key_placement", placementHeader)
	if placement != placementHeader && placement != placementQuery {
		return nil, fmt.Errorf("apikey key_placement %q: %w", placement, domain.ErrInvalidInput)
	}
	return &APIKeyStrategy{
		headerName: cfg.Option("header_name", "X-API-Key"),
		queryParam: cfg.Option("query_param", "api_key"),
		placement:  placement,
	}, nil
}

// Name returns the strategy type identifier.
func (s *APIKeyStrategy) Name() string { return StrategyAPIKey }

// Authenticate validates the key and passes it through verbatim.
func (s *APIKeyStrategy) Authenticate(_ context.Context, creds driven.Credentials) (domain.AuthResult, error) {
	key := strings.TrimSpace(creds.String("api_key"))
	if key == "" {
		return domain.AuthResult{
			Success: false,
			Error:   "apikey credentials require a non-empty api_key",
		}, nil
	}
	return domain.AuthResult{Success: true, AccessToken: key}, nil
}

// AuthHeaders places the key under the configured header name. Nil when
// the strategy is configured for query placement.
func (s *APIKeyStrategy) AuthHeaders(result domain.AuthResult) map[string]string {
	if s.placement != placementHeader || result.AccessToken == "" {
		return nil
	}
	return map[string]string{s.headerName: result.AccessToken}
}

// QueryParams places the key under the configured query parameter. Nil
// when the strategy is configured for header placement.
func (s *APIKeyStrategy) QueryParams(result domain.AuthResult) map[string]string {
	if s.placement != placementQuery || result.AccessToken == "" {
		return nil
	}
	return map[string]string{s.queryParam: result.AccessToken}
}

// SupportsRefresh reports false: a rejected static key will not improve
// by re-submitting it.
func (s *APIKeyStrategy) SupportsRefresh() bool { return false }

// IsTokenExpiredError reports whether the rejection means the key is no
// longer valid.
func (s *APIKeyStrategy) IsTokenExpiredError(statusCode int, _ string) bool {
	return statusCode == 401
}
