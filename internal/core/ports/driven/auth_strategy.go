package driven

import (
	"context"

	"github.com/strand-media/enricher/internal/core/domain"
)

// Credentials is the parsed secret blob for one external system. Keys are
// strategy-specific (client_id/client_secret, api_key, username/password)
// plus the optional additional_headers map.
type Credentials map[string]any

// AdditionalHeaders extracts the optional additional_headers map from the
// credential blob as plain strings. Missing or malformed entries are
// skipped rather than failing the run.
func (c Credentials) AdditionalHeaders() map[string]string {
	raw, ok := c["additional_headers"].(map[string]any)
	if !ok || len(raw) == 0 {
		return nil
	}
	headers := make(map[string]string, len(raw))
	for name, value := range raw {
		if s, ok := value.(string); ok {
			headers[name] = s
		}
	}
	return headers
}

// String extracts a string-valued credential field. Returns "" for
// missing or non-string values.
func (c Credentials) String(key string) string {
	s, _ := c[key].(string)
	return s
}

// AuthStrategy obtains a usable access credential for one external system
// and knows how to present it on outbound requests.
// Each strategy type (oauth2, apikey, basic) implements this interface.
type AuthStrategy interface {
	// Name returns the strategy type identifier.
	Name() string

	// Authenticate validates or obtains a usable credential.
	// OAuth2 performs a client-credentials token exchange; API-key and
	// Basic validate input and synthesise a result without any network
	// call. Validation failures return a failed AuthResult, not an
	// error; the error path is reserved for transport problems the
	// retry layer classifies.
	Authenticate(ctx context.Context, creds Credentials) (domain.AuthResult, error)

	// AuthHeaders builds the header map to merge into outbound requests
	// for a successful result.
	AuthHeaders(result domain.AuthResult) map[string]string

	// QueryParams builds query parameters for strategies configured to
	// place their credential in the URL instead of a header. Nil for
	// header-placed strategies.
	QueryParams(result domain.AuthResult) map[string]string

	// SupportsRefresh reports whether re-submitting the same credentials
	// can yield a fresh token. OAuth2 = true; API key and Basic = false.
	SupportsRefresh() bool

	// IsTokenExpiredError reports whether a rejected request indicates
	// the credential itself expired, from the response status and body.
	IsTokenExpiredError(statusCode int, body string) bool
}
