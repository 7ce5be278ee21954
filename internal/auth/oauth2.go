package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/strand-media/enricher/internal/core/domain"
	"github.com/strand-media/enricher/internal/core/ports/driven"
)

// StrategyOAuth2 is the registry name of the client-credentials strategy.
const StrategyOAuth2 = "oauth2"

// defaultAuthTimeout bounds one token exchange.
const defaultAuthTimeout = 30 * time.Second

// Ensure OAuth2Strategy implements the AuthStrategy interface.
var _ driven.AuthStrategy = (*OAuth2Strategy)(nil)

// TokenEndpointError is a non-2xx response from the token endpoint.
// Carries the status code for retry classification.
type TokenEndpointError struct {
	StatusCode int
	Body       string
}

func (e *TokenEndpointError) Error() string {
	return fmt.Sprintf("token endpoint returned status %d: %s", e.StatusCode, e.Body)
}

// HTTPStatusCode exposes the status for retry classification.
func (e *TokenEndpointError) HTTPStatusCode() int { return e.StatusCode }

// OAuth2Strategy performs the client-credentials grant against a token
// endpoint.
type OAuth2Strategy struct {
	tokenURL string
	scopes   []string
	client   *http.Client
	now      func() time.Time
}

// NewOAuth2Strategy builds the strategy from static auth configuration.
// The "scopes" option is a space-separated scope list.
func NewOAuth2Strategy(cfg domain.AuthConfig) (*OAuth2Strategy, error) {
	if strings.TrimSpace(cfg.Endpoint) == "" {
		return nil, fmt.Errorf("oauth2 strategy requires a token endpoint: %w", domain.ErrInvalidInput)
	}
	return &OAuth2Strategy{
		tokenURL: cfg.Endpoint,
		scopes:   strings.Fields(cfg.Option("scopes", "")),
		client:   &http.Client{Timeout: defaultAuthTimeout},
		now:      time.Now,
	}, nil
}

// Name returns the strategy type identifier.
func (s *OAuth2Strategy) Name() string { return StrategyOAuth2 }

// Authenticate exchanges client credentials for an access token.
// Credential validation failures are reported in the result with no
// network call; endpoint rejections and transport failures also return an
// error so the retry layer can classify them.
func (s *OAuth2Strategy) Authenticate(ctx context.Context, creds driven.Credentials) (domain.AuthResult, error) {
	clientID := strings.TrimSpace(creds.String("client_id"))
	clientSecret := strings.TrimSpace(creds.String("client_secret"))
	if clientID == "" || clientSecret == "" {
		return domain.AuthResult{
			Success: false,
			Error:   "oauth2 credentials require non-empty client_id and client_secret",
		}, nil
	}

	conf := clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     s.tokenURL,
		Scopes:       s.scopes,
		AuthStyle:    oauth2.AuthStyleInParams,
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.client)
	tok, err := conf.Token(ctx)
	if err != nil {
		return s.failureFromTokenError(err)
	}

	result := domain.AuthResult{
		Success:     true,
		AccessToken: tok.AccessToken,
		TokenType:   tok.Type(),
	}
	if !tok.Expiry.IsZero() {
		result.ExpiresIn = tok.Expiry.Sub(s.now())
	}
	return result, nil
}

// failureFromTokenError converts a token exchange error into a failed
// result plus a classifiable error. Endpoint rejections carry their status
// code; transport failures keep the original error text so timeout and
// connection conditions stay distinguishable from HTTP rejections.
func (s *OAuth2Strategy) failureFromTokenError(err error) (domain.AuthResult, error) {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		endpointErr := &TokenEndpointError{
			StatusCode: retrieveErr.Response.StatusCode,
			Body:       strings.TrimSpace(string(retrieveErr.Body)),
		}
		return domain.AuthResult{Success: false, Error: endpointErr.Error()}, endpointErr
	}
	return domain.AuthResult{
		Success: false,
		Error:   fmt.Sprintf("token endpoint unreachable: %v", err),
	}, err
}

// AuthHeaders builds the bearer Authorization header.
func (s *OAuth2Strategy) AuthHeaders(result domain.AuthResult) map[string]string {
	if result.AccessToken == "" {
		return nil
	}
	tokenType := result.TokenType
	if tokenType == "" {
		tokenType = "Bearer"
	}
	return map[string]string{"Authorization": tokenType + " " + result.AccessToken}
}

// QueryParams is nil; OAuth2 credentials are always header-placed.
func (s *OAuth2Strategy) QueryParams(domain.AuthResult) map[string]string { return nil }

// SupportsRefresh reports true: re-submitting the same client credentials
// yields a fresh token.
func (s *OAuth2Strategy) SupportsRefresh() bool { return true }

// IsTokenExpiredError reports whether a rejection means the token itself
// expired: a 401 status, or an OAuth error code of invalid_token or
// expired_token in the response body.
func (s *OAuth2Strategy) IsTokenExpiredError(statusCode int, body string) bool {
	if statusCode == http.StatusUnauthorized {
		return true
	}
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal([]byte(body), &payload); err == nil {
		return payload.Error == "invalid_token" || payload.Error == "expired_token"
	}
	lower := strings.ToLower(body)
	return strings.Contains(lower, "invalid_token") || strings.Contains(lower, "expired_token")
}
