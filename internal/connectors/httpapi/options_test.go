package httpapi

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConfigFromOptions_AllOptions tests parsing of every transport option
func TestConfigFromOptions_AllOptions(t *testing.T) {
	cfg, err := ConfigFromOptions("https://api.example.com", map[string]string{
		"timeout":    "45s",
		"rate_limit": "2.5",
		"rate_burst": "4",
		"user_agent": "enricher-test/1.0",
	})

	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", cfg.BaseURL)
	assert.Equal(t, 45*time.Second, cfg.Timeout)
	assert.Equal(t, 2.5, cfg.RateLimit)
	assert.Equal(t, 4, cfg.RateBurst)
	assert.Equal(t, "enricher-test/1.0", cfg.UserAgent)
}

// TestConfigFromOptions_Defaults tests that absent options leave zero values
func TestConfigFromOptions_Defaults(t *testing.T) {
	cfg, err := ConfigFromOptions("https://api.example.com", nil)

	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", cfg.BaseURL)
	assert.Zero(t, cfg.Timeout)
	assert.Zero(t, cfg.RateLimit)
	assert.Zero(t, cfg.RateBurst)
	assert.Empty(t, cfg.UserAgent)
}

// TestConfigFromOptions_Malformed tests rejection of unparseable values
func TestConfigFromOptions_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		options map[string]string
	}{
		{name: "bad timeout", options: map[string]string{"timeout": "soon"}},
		{name: "bad rate limit", options: map[string]string{"rate_limit": "fast"}},
		{name: "bad rate burst", options: map[string]string{"rate_burst": "1.5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ConfigFromOptions("https://api.example.com", tt.options)
			assert.Error(t, err)
		})
	}
}

// TestTarget_PathPlaceholder tests ID substitution into the path template
func TestTarget_PathPlaceholder(t *testing.T) {
	path, query := Target("/api/v2/titles/{id}", "id", "tt0111161")

	assert.Equal(t, "/api/v2/titles/tt0111161", path)
	assert.Empty(t, query)
}

// TestTarget_EscapesID tests that IDs are path-escaped before substitution
func TestTarget_EscapesID(t *testing.T) {
	path, _ := Target("/titles/{id}", "id", "show/s01 e02")

	assert.Equal(t, "/titles/show%2Fs01%20e02", path)
}

// TestTarget_QueryFallback tests the query parameter mode
func TestTarget_QueryFallback(t *testing.T) {
	path, query := Target("/lookup", "guid", "abc-123")

	assert.Equal(t, "/lookup", path)
	assert.Equal(t, "abc-123", query.Get("guid"))
}

// TestFailureResult_HTTPError tests that the status code survives conversion
func TestFailureResult_HTTPError(t *testing.T) {
	err := &HTTPError{StatusCode: 404, Body: "not found", URL: "https://api.example.com/x"}

	result := FailureResult(err)

	assert.False(t, result.Success)
	assert.Equal(t, 404, result.StatusCode)
	assert.Contains(t, result.Error, "404")
}

// TestFailureResult_TransportError tests conversion of non-HTTP failures
func TestFailureResult_TransportError(t *testing.T) {
	result := FailureResult(errors.New("dial tcp: connection refused"))

	assert.False(t, result.Success)
	assert.Zero(t, result.StatusCode)
	assert.Contains(t, result.Error, "connection refused")
}
