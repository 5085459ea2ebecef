package domain

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNilRequest is returned when a caller passes no request.
	ErrNilRequest = errors.New("request cannot be nil")

	// ErrEmptyPrompt is returned when the request carries no prompt.
	ErrEmptyPrompt = errors.New("prompt cannot be empty")
)

// ConfigurationError reports an unusable configuration tree, such as an unset
// or cyclic fallback default.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Message
}

// UnknownProviderError reports a provider name with no backend implementation.
type UnknownProviderError struct {
	Provider string
}

func (e *UnknownProviderError) Error() string {
	return fmt.Sprintf("unknown provider: %s", e.Provider)
}

// CredentialError reports a secret or setting a backend needs but did not get.
type CredentialError struct {
	Provider   string
	Credential string
}

func (e *CredentialError) Error() string {
	return fmt.Sprintf("%s: %s is not configured", e.Provider, e.Credential)
}

// TransientBackendError wraps a backend failure that is worth retrying
// (network errors, timeouts, 408/429/5xx).
type TransientBackendError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *TransientBackendError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("[%s] transient backend failure (status %d): %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("[%s] transient backend failure: %v", e.Provider, e.Err)
}

func (e *TransientBackendError) Unwrap() error {
	return e.Err
}

// NewTransientError builds a TransientBackendError.
func NewTransientError(provider string, statusCode int, err error) *TransientBackendError {
	return &TransientBackendError{
		Provider:   provider,
		StatusCode: statusCode,
		Err:        err,
	}
}

// CacheCorruptionError reports a cached value that does not decode into a response.
// It never reaches callers; Generate recovers with a text-only response.
type CacheCorruptionError struct {
	Key string
	Err error
}

func (e *CacheCorruptionError) Error() string {
	return fmt.Sprintf("cached value for %s is not a response: %v", e.Key, e.Err)
}

func (e *CacheCorruptionError) Unwrap() error {
	return e.Err
}

// IsTransient reports whether err (or anything it wraps) is a TransientBackendError.
func IsTransient(err error) bool {
	var transient *TransientBackendError
	return errors.As(err, &transient)
}

// IsTransientStatus reports whether an HTTP status code should be retried.
func IsTransientStatus(statusCode int) bool {
	return statusCode == http.StatusRequestTimeout ||
		statusCode == http.StatusTooManyRequests ||
		statusCode >= http.StatusInternalServerError
}
