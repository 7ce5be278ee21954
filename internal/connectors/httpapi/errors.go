package httpapi

import "fmt"

// HTTPError is a non-2xx response from the metadata API.
type HTTPError struct {
	StatusCode int
	Body       string
	URL        string
}

func (e *HTTPError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("HTTP %d from %s: %s", e.StatusCode, e.URL, e.Body)
	}
	return fmt.Sprintf("HTTP %d from %s", e.StatusCode, e.URL)
}

// HTTPStatusCode exposes the status for retry classification.
func (e *HTTPError) HTTPStatusCode() int { return e.StatusCode }
