// ABOUTME: Typed errors raised by the analytics services
// ABOUTME: Separates rejected requests, disabled features and analytics server failures

package errors

import (
	"errors"
	"fmt"
)

// ValidationError rejects one request field. The refresh call answers
// {"success":false} for it; JSON endpoints answer 400.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// ConfigurationError means a feature is off because Setting is empty.
// It is expected on unconfigured sites and logged at debug level only.
type ConfigurationError struct {
	Setting string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s is not configured", e.Setting)
}

// ExternalAPIError is a failed or unusable answer from the analytics server.
// StatusCode is the HTTP status; 200 means the body could not be used.
type ExternalAPIError struct {
	API        string
	StatusCode int
	Message    string
}

func (e *ExternalAPIError) Error() string {
	return fmt.Sprintf("%s answered %d: %s", e.API, e.StatusCode, e.Message)
}

// Retryable reports whether a later attempt may succeed
func (e *ExternalAPIError) Retryable() bool {
	return e.StatusCode == 429 || e.StatusCode >= 500
}

func is[T error](err error) bool {
	var target T
	return errors.As(err, &target)
}

// IsValidation reports whether err wraps a ValidationError
func IsValidation(err error) bool { return is[*ValidationError](err) }

// IsConfiguration reports whether err wraps a ConfigurationError
func IsConfiguration(err error) bool { return is[*ConfigurationError](err) }

// IsExternalAPI reports whether err wraps an ExternalAPIError
func IsExternalAPI(err error) bool { return is[*ExternalAPIError](err) }

// WrapError prefixes err with message and keeps it matchable. Nil stays nil.
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
