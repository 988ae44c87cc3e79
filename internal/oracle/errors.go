package oracle

import (
	"errors"
	"fmt"
)

// ErrorKind classifies an oracle failure. Only KindRateLimited is
// retryable; everything else surfaces immediately.
type ErrorKind string

const (
	KindRateLimited ErrorKind = "rate_limited"
	KindAuth        ErrorKind = "auth_error"
	KindBadRequest  ErrorKind = "bad_request"
	KindService     ErrorKind = "service_error"
)

// APIError is a classified failure from the oracle service.
type APIError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("oracle %s (status %d): %s", e.Kind, e.StatusCode, truncate(e.Message, 200))
}

// IsRateLimited reports whether err is a retryable rate-limit failure.
func IsRateLimited(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == KindRateLimited
}

// IsAuth reports whether err indicates bad credentials. Auth failures
// are treated as systemic by the surrounding service.
func IsAuth(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == KindAuth
}

// KindOf extracts the error kind, defaulting to KindService for
// unclassified errors (network failures, truncated responses).
func KindOf(err error) ErrorKind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindService
}

func classifyStatus(status int) ErrorKind {
	switch {
	case status == 429:
		return KindRateLimited
	case status == 401 || status == 403:
		return KindAuth
	case status >= 400 && status < 500:
		return KindBadRequest
	default:
		return KindService
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
