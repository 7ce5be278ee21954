package httpapi

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/strand-media/enricher/internal/core/domain"
)

// ConfigFromOptions builds a ClientConfig from an adapter's endpoint and
// its shared transport options: "timeout" (Go duration), "rate_limit"
// (requests per second), "rate_burst", "user_agent".
func ConfigFromOptions(endpoint string, options map[string]string) (ClientConfig, error) {
	cfg := ClientConfig{BaseURL: endpoint}

	if raw, ok := options["timeout"]; ok && raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil {
			return ClientConfig{}, fmt.Errorf("option timeout %q: %w", raw, err)
		}
		cfg.Timeout = timeout
	}
	if raw, ok := options["rate_limit"]; ok && raw != "" {
		limit, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return ClientConfig{}, fmt.Errorf("option rate_limit %q: %w", raw, err)
		}
		cfg.RateLimit = limit
	}
	if raw, ok := options["rate_burst"]; ok && raw != "" {
		burst, err := strconv.Atoi(raw)
		if err != nil {
			return ClientConfig{}, fmt.Errorf("option rate_burst %q: %w", raw, err)
		}
		cfg.RateBurst = burst
	}
	if ua, ok := options["user_agent"]; ok && ua != "" {
		cfg.UserAgent = ua
	}
	return cfg, nil
}

// Target places a correlation ID into a path template, or into a query
// parameter when the template carries no "{id}" placeholder.
func Target(template, idParam, correlationID string) (string, url.Values) {
	query := url.Values{}
	if strings.Contains(template, "{id}") {
		return strings.ReplaceAll(template, "{id}", url.PathEscape(correlationID)), query
	}
	query.Set(idParam, correlationID)
	return template, query
}

// FailureResult converts a transport or HTTP error into a failed
// FetchResult, keeping the status code when one exists.
func FailureResult(err error) domain.FetchResult {
	result := domain.FetchResult{Success: false, Error: err.Error()}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		result.StatusCode = httpErr.StatusCode
	}
	return result
}
