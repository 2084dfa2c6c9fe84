package errors

import (
	"errors"
	"fmt"
	"net/http"
)

type Category string

const (
	CategoryAPI        Category = "API"
	CategoryNetwork    Category = "NETWORK"
	CategoryNavigation Category = "NAVIGATION"
	CategoryRender     Category = "RENDER"
	CategoryValidation Category = "VALIDATION"
	CategoryAuth       Category = "AUTH"
	CategoryUnknown    Category = "UNKNOWN"
)

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

type AppError struct {
	Category   Category          `json:"category"`
	Severity   Severity          `json:"severity"`
	Message    string            `json:"message"`
	Code       string            `json:"code"`
	StatusCode int               `json:"status_code,omitempty"`
	Details    map[string]string `json:"details,omitempty"`
	Timeout    bool              `json:"timeout,omitempty"`
	Cause      error             `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func NewAPIError(message, endpoint, method string, statusCode int) *AppError {
	severity := SeverityMedium
	if statusCode >= http.StatusInternalServerError {
		severity = SeverityHigh
	}
	return &AppError{
		Category:   CategoryAPI,
		Severity:   severity,
		Message:    message,
		Code:       "API_ERROR",
		StatusCode: statusCode,
		Details: map[string]string{
			"endpoint": endpoint,
			"method":   method,
		},
	}
}

func NewNetworkError(message string, timeout bool, cause error) *AppError {
	code := "NETWORK_ERROR"
	if timeout {
		code = "NETWORK_TIMEOUT"
	}
	return &AppError{
		Category: CategoryNetwork,
		Severity: SeverityMedium,
		Message:  message,
		Code:     code,
		Timeout:  timeout,
		Cause:    cause,
	}
}

func NewAuthError(message string) *AppError {
	return &AppError{
		Category:   CategoryAuth,
		Severity:   SeverityHigh,
		Message:    message,
		Code:       "AUTH_ERROR",
		StatusCode: http.StatusUnauthorized,
	}
}

func NewValidationError(message string, details map[string]string) *AppError {
	return &AppError{
		Category:   CategoryValidation,
		Severity:   SeverityLow,
		Message:    message,
		Code:       "VALIDATION_FAILED",
		StatusCode: http.StatusUnprocessableEntity,
		Details:    details,
	}
}

func NewNavigationError(message, route string) *AppError {
	return &AppError{
		Category: CategoryNavigation,
		Severity: SeverityMedium,
		Message:  message,
		Code:     "NAVIGATION_ERROR",
		Details:  map[string]string{"route": route},
	}
}

func NewRenderError(message, componentStack string) *AppError {
	return &AppError{
		Category: CategoryRender,
		Severity: SeverityHigh,
		Message:  message,
		Code:     "RENDER_ERROR",
		Details:  map[string]string{"component_stack": componentStack},
	}
}

func NewUnknownError(message string, cause error) *AppError {
	return &AppError{
		Category: CategoryUnknown,
		Severity: SeverityHigh,
		Message:  message,
		Code:     "UNKNOWN_ERROR",
		Cause:    cause,
	}
}

func IsAuthError(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Category == CategoryAuth
	}
	return false
}

func IsNetworkError(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Category == CategoryNetwork
	}
	return false
}

func IsValidationError(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Category == CategoryValidation
	}
	return false
}

func IsTimeout(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Timeout
	}
	return false
}

// AsAppError normalizes any error into an *AppError so callers always see
// the category taxonomy. Unrecognized errors land in CategoryUnknown.
func AsAppError(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewUnknownError(err.Error(), err)
}
