package retry

import "strings"

// Classification is the retry decision for one failure.
type Classification int

const (
	// NonRetryable failures return immediately.
	NonRetryable Classification = iota

	// Retryable failures go through the backoff loop.
	Retryable
)

// nonRetryableStatuses are client errors that will not improve on retry.
var nonRetryableStatuses = map[int]struct{}{
	400: {}, 401: {}, 403: {}, 404: {}, 405: {}, 409: {}, 410: {}, 422: {},
}

// transientKeywords mark error text that suggests a transport-level
// condition worth retrying when no status code is available.
var transientKeywords = []string{
	"timeout",
	"timed out",
	"connection",
	"network",
	"socket",
	"temporar",
	"unavailable",
}

// Classify decides whether a failure is worth retrying. A status code,
// when one can be extracted, fully determines the outcome; otherwise the
// error text is matched against transport keywords; anything else is
// non-retryable.
func Classify(err error, extractors ...StatusExtractor) Classification {
	if err == nil {
		return NonRetryable
	}
	for _, extract := range extractors {
		if code, ok := extract(err); ok {
			return ClassifyStatus(code)
		}
	}
	msg := strings.ToLower(err.Error())
	for _, kw := range transientKeywords {
		if strings.Contains(msg, kw) {
			return Retryable
		}
	}
	return NonRetryable
}

// ClassifyStatus applies the status-code table: 429 and 5xx are
// retryable, the explicit client-error list and every other 4xx are not.
func ClassifyStatus(code int) Classification {
	if code == 429 {
		return Retryable
	}
	if _, ok := nonRetryableStatuses[code]; ok {
		return NonRetryable
	}
	if code >= 500 && code < 600 {
		return Retryable
	}
	if code >= 400 && code < 500 {
		return NonRetryable
	}
	return NonRetryable
}
