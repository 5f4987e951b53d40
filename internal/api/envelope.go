package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
)

// The listing endpoints answer in one of two shapes: a bare JSON array, or
// an envelope {success, message?, data}. Both are decoded explicitly here
// and normalized to a plain slice before anything else sees them.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data"`
}

// decodeList normalizes either response shape into a slice of T.
// An envelope with success=false is surfaced as an *APIError carrying the
// backend's message, even though the HTTP status was 2xx.
func decodeList[T any](endpoint string, data []byte) ([]T, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")

	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, &DecodeError{Endpoint: endpoint, Detail: err}
		}
		return items, nil
	}

	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, &DecodeError{Endpoint: endpoint, Detail: err}
	}
	if !env.Success {
		return nil, &APIError{StatusCode: http.StatusOK, Message: env.Message}
	}
	if env.Data == nil {
		return nil, &DecodeError{Endpoint: endpoint, Detail: fmt.Errorf("envelope has no data field")}
	}

	var items []T
	if err := json.Unmarshal(env.Data, &items); err != nil {
		return nil, &DecodeError{Endpoint: endpoint, Detail: err}
	}
	return items, nil
}

// decodeObject normalizes a single-object response, envelope or bare.
func decodeObject[T any](endpoint string, data []byte) (T, error) {
	var zero T
	trimmed := bytes.TrimLeft(data, " \t\r\n")

	// Try the envelope first; a bare object without a data field falls through.
	var env envelope
	if err := json.Unmarshal(trimmed, &env); err == nil && env.Data != nil {
		if !env.Success {
			return zero, &APIError{StatusCode: http.StatusOK, Message: env.Message}
		}
		var obj T
		if err := json.Unmarshal(env.Data, &obj); err != nil {
			return zero, &DecodeError{Endpoint: endpoint, Detail: err}
		}
		return obj, nil
	}

	var obj T
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return zero, &DecodeError{Endpoint: endpoint, Detail: err}
	}
	return obj, nil
}
