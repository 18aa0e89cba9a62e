package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

// Common errors
var (
	// ErrInvalidConfig indicates invalid client configuration
	ErrInvalidConfig = errors.New("invalid catalog configuration")
	// ErrUnknownCategory indicates a category outside the fixed set
	ErrUnknownCategory = errors.New("unknown category")
	// ErrEmptyQuery indicates a search request without a query
	ErrEmptyQuery = errors.New("search query is empty")
)

// NetworkError means the request did not produce a response from the catalog
type NetworkError struct {
	Endpoint string
	Err      error
}

// Error implements the error interface
func (e *NetworkError) Error() string {
	return fmt.Sprintf("catalog request to %s failed: %v", e.Endpoint, e.Err)
}

// Unwrap returns the underlying transport error
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Temporary reports that network failures are worth retrying by the caller
func (e *NetworkError) Temporary() bool {
	return true
}

// newNetworkError strips the request URL, which carries the API key, from
// transport errors.
func newNetworkError(endpoint string, err error) *NetworkError {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		err = urlErr.Err
	}
	return &NetworkError{Endpoint: endpoint, Err: err}
}

// APIError represents a non-2xx response from the catalog
type APIError struct {
	StatusCode int
	Message    string // status_message from the body, empty when absent
	Body       string
}

// Error implements the error interface
func (e *APIError) Error() string {
	message := e.Message
	if message == "" {
		message = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("catalog API error: status %d: %s", e.StatusCode, message)
}

// IsNotFound checks if the error indicates a not found response
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsUnauthorized checks if the error indicates an authentication failure
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// Temporary reports whether the status suggests a later retry may succeed
func (e *APIError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// apiErrorBody is the error payload TMDB returns alongside failing statuses
type apiErrorBody struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
}

func newAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{
		StatusCode: statusCode,
		Body:       string(body),
	}

	var payload apiErrorBody
	if err := json.Unmarshal(body, &payload); err == nil && payload.StatusMessage != "" {
		apiErr.Message = payload.StatusMessage
	}

	return apiErr
}

// MalformedResponseError means the catalog answered but broke the list contract
type MalformedResponseError struct {
	Reason string
	Err    error
}

// Error implements the error interface
func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed catalog response: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed catalog response: %s", e.Reason)
}

// Unwrap returns the decoding error, if any
func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}
