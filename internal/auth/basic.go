package auth

import (
	"context"
	"encoding/base64"
	"strings"

	"github.com/strand-media/enricher/internal/core/domain"
	"github.com/strand-media/enricher/internal/core/ports/driven"
)

// StrategyBasic is the registry name of the HTTP Basic strategy.
const StrategyBasic = "basic"

// Ensure BasicStrategy implements the AuthStrategy interface.
var _ driven.AuthStrategy = (*BasicStrategy)(nil)

// BasicStrategy synthesises an HTTP Basic credential from username and
// password. No network call is ever made.
type BasicStrategy struct{}

// NewBasicStrategy builds the strategy. Basic has no options.
func NewBasicStrategy(domain.AuthConfig) (*BasicStrategy, error) {
	return &BasicStrategy{}, nil
}

// Name returns the strategy type identifier.
func (s *BasicStrategy) Name() string { return StrategyBasic }

// Authenticate validates the pair and Base64-encodes "user:pass".
func (s *BasicStrategy) Authenticate(_ context.Context, creds driven.Credentials) (domain.AuthResult, error) {
	username := strings.TrimSpace(creds.String("username"))
	password := strings.TrimSpace(creds.String("password"))
	if username == "" || password == "" {
		return domain.AuthResult{
			Success: false,
			Error:   "basic credentials require non-empty username and password",
		}, nil
	}
	encoded := base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
	return domain.AuthResult{Success: true, AccessToken: encoded, TokenType: "Basic"}, nil
}

// AuthHeaders builds the Basic Authorization header.
func (s *BasicStrategy) AuthHeaders(result domain.AuthResult) map[string]string {
	if result.AccessToken == "" {
		return nil
	}
	return map[string]string{"Authorization": "Basic " + result.AccessToken}
}

// QueryParams is nil; Basic credentials are always header-placed.
func (s *BasicStrategy) QueryParams(domain.AuthResult) map[string]string { return nil }

// SupportsRefresh reports false: the encoding is deterministic, so a
// rejected pair will not improve by re-submitting it.
func (s *BasicStrategy) SupportsRefresh() bool { return false }

// IsTokenExpiredError reports whether the rejection means the credential
// is no longer accepted.
func (s *BasicStrategy) IsTokenExpiredError(statusCode int, _ string) bool {
	return statusCode == 401
}
