// Package httpapi provides the shared HTTP plumbing metadata adapters are
// built on: a rate-limited client with bounded timeouts, header merging
// and typed status errors for retry classification.
package httpapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout bounds one request cycle.
	DefaultTimeout = 30 * time.Second

	// DefaultUserAgent identifies the pipeline on outbound requests.
	DefaultUserAgent = "enricher/1.0"

	// maxErrorBody caps how much of a rejection body is kept on the error.
	maxErrorBody = 2048
)

// ClientConfig configures a Client.
type ClientConfig struct {
	// BaseURL is prepended to every request path.
	BaseURL string

	// Timeout bounds one request cycle. Zero means DefaultTimeout.
	Timeout time.Duration

	// RateLimit is the request rate in requests per second. Zero
	// disables proactive throttling.
	RateLimit float64

	// RateBurst is the limiter burst size. Zero means 1.
	RateBurst int

	// UserAgent overrides the default User-Agent header.
	UserAgent string
}

// Client issues rate-limited HTTP requests against one base URL.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	limiter    *rate.Limiter
}

// NewClient creates a client from config.
func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		userAgent:  userAgent,
		limiter:    limiter,
	}
}

// Request is one outbound call. Headers are applied in slice order, so
// later maps override earlier ones on conflict.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Headers []map[string]string
}

// Response is a successful (2xx) result.
type Response struct {
	StatusCode int
	Body       []byte
	Header     http.Header
}

// Do issues one request. Non-2xx responses return an *HTTPError carrying
// the status and a bounded copy of the body; transport failures return
// the underlying error.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	fullURL := c.baseURL
	if req.Path != "" {
		fullURL += "/" + strings.TrimPrefix(req.Path, "/")
	}
	if len(req.Query) > 0 {
		fullURL += "?" + req.Query.Encode()
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	httpReq.Header.Set("User-Agent", c.userAgent)
	for _, headers := range req.Headers {
		for name, value := range headers {
			httpReq.Header.Set(name, value)
		}
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{
			StatusCode: resp.StatusCode,
			Body:       truncateBody(body),
			URL:        fullURL,
		}
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       body,
		Header:     resp.Header,
	}, nil
}

func truncateBody(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxErrorBody {
		return s[:maxErrorBody]
	}
	return s
}
