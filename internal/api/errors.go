package api

import "fmt"

// APIError is an HTTP-level failure reported by the backend.
// 4xx errors carry the backend's message verbatim and are never retried.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("backend returned %d", e.StatusCode)
}

// Retryable reports whether the failure is worth another attempt.
// Client errors are contract violations, not transient faults.
func (e *APIError) Retryable() bool {
	return e.StatusCode >= 500
}

// DecodeError is a schema violation: the backend answered, but the payload
// doesn't match the contract. Never coerced, never retried.
type DecodeError struct {
	Endpoint string
	Detail   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("unexpected response shape from %s: %v", e.Endpoint, e.Detail)
}

func (e *DecodeError) Unwrap() error {
	return e.Detail
}

// retryable distinguishes transient failures (network, 5xx) from
// non-transient ones (4xx, schema violations).
func retryable(err error) bool {
	switch e := err.(type) {
	case *APIError:
		return e.Retryable()
	case *DecodeError:
		return false
	default:
		// Transport-level failure: backend unreachable, timeout, etc.
		return true
	}
}
