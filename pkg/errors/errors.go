package errors

import (
	"fmt"
	"time"
)

// Error codes
const (
	CodeAPIError   = "API_ERROR"
	CodeProvider   = "PROVIDER_ERROR"
	CodeValidation = "VALIDATION_ERROR"
	CodeCache      = "CACHE_ERROR"
	CodeTimeout    = "TIMEOUT_ERROR"
)

type ServiceError struct {
	Message    string
	Code       string
	StatusCode int
	Context    map[string]any
	Cause      error
}

func (e *ServiceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Cause
}

func NewServiceError(message, code string, statusCode int, context map[string]any) *ServiceError {
	return &ServiceError{
		Message:    message,
		Code:       code,
		StatusCode: statusCode,
		Context:    context,
	}
}

func (e *ServiceError) WithCause(cause error) *ServiceError {
	e.Cause = cause
	return e
}

type APIError struct {
	*ServiceError
}

func NewAPIError(message string, statusCode int, context map[string]any) *APIError {
	return &APIError{
		ServiceError: &ServiceError{
			Message:    message,
			Code:       CodeAPIError,
			StatusCode: statusCode,
			Context:    context,
		},
	}
}

// ProviderError is a failure reported by the transcription provider. The
// HTTP-like status lives in StatusCode so callers classify by number, not
// by matching message text.
type ProviderError struct {
	*ServiceError
	Details string
}

func NewProviderError(message string, statusCode int, details string) *ProviderError {
	return &ProviderError{
		ServiceError: &ServiceError{
			Message:    message,
			Code:       CodeProvider,
			StatusCode: statusCode,
			Context: map[string]any{
				"details": details,
			},
		},
		Details: details,
	}
}

type ValidationError struct {
	*ServiceError
	Field string
	Value interface{}
}

func NewValidationError(message, field string, value interface{}) *ValidationError {
	return &ValidationError{
		ServiceError: &ServiceError{
			Message:    message,
			Code:       CodeValidation,
			StatusCode: 400,
			Context: map[string]any{
				"field": field,
				"value": value,
			},
		},
		Field: field,
		Value: value,
	}
}

type CacheError struct {
	*ServiceError
	Operation string
	Key       string
}

func NewCacheError(message, operation, key string, cause error) *CacheError {
	return &CacheError{
		ServiceError: &ServiceError{
			Message:    message,
			Code:       CodeCache,
			StatusCode: 500,
			Context: map[string]any{
				"operation": operation,
				"key":       key,
			},
			Cause: cause,
		},
		Operation: operation,
		Key:       key,
	}
}

// TimeoutError is returned when a remote call exceeds its wall-clock budget.
// Budget is the configured limit, not the elapsed time.
type TimeoutError struct {
	*ServiceError
	Budget time.Duration
}

func NewTimeoutError(operation string, budget time.Duration) *TimeoutError {
	return &TimeoutError{
		ServiceError: &ServiceError{
			Message:    fmt.Sprintf("%s timed out after %.0f seconds", operation, budget.Seconds()),
			Code:       CodeTimeout,
			StatusCode: 504,
			Context: map[string]any{
				"budget_seconds": budget.Seconds(),
			},
		},
		Budget: budget,
	}
}
